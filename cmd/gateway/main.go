package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"prompt-gateway/internal/app"
	"prompt-gateway/internal/extract"
	"prompt-gateway/internal/gateway"
	"prompt-gateway/internal/httputil"
	"prompt-gateway/internal/normalize"
	"prompt-gateway/internal/prompt"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/process", processHandler(deps))
	r.Post("/api/process/{provider}", processHandler(deps))
	r.Post("/api/generate", generateHandler(deps))
	r.Post("/api/project", projectHandler(deps))
	r.Post("/api/upload", uploadHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
	if err := deps.Cache.Close(); err != nil {
		deps.Log.Warn("cache close failed", "err", err)
	}
}

type processRequest struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

// processHandler is the generic content processor: {text, action} in,
// {success, processedText} out, one upstream call per request.
func processHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}

		providerName := chi.URLParam(r, "provider")
		if providerName == "" {
			providerName = deps.Config.DefaultProvider
		}

		res := deps.Gateway.Handle(r.Context(), gateway.Request{
			Content:  req.Text,
			Action:   prompt.Action(req.Action),
			Provider: providerName,
		}, gateway.WithProgress(progressLogger(deps.Log, r)))

		if !res.Success {
			httputil.WriteError(deps.Log, w, res.Status, res.Err, res.Details)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"processedText": res.ProcessedText,
		})
	}
}

type generateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// generateHandler is the code-triple processor: a prompt goes to the
// Anthropic-style provider and the response is normalized to
// {html, css, js}, degrading to a fallback structure when the model does
// not return the requested JSON.
func generateHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		res := deps.Gateway.Handle(r.Context(), gateway.Request{
			Content:  req.Prompt,
			Action:   prompt.ActionGenerate,
			Provider: "claude",
		}, gateway.WithProgress(progressLogger(deps.Log, r)))

		if !res.Success {
			httputil.WriteError(deps.Log, w, res.Status, res.Err, res.Details)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"code":    normalize.CodeTripleFrom(deps.Log, res.ProcessedText),
		})
	}
}

type projectRequest struct {
	Prompt   string `json:"prompt" validate:"required"`
	Provider string `json:"provider" validate:"omitempty,oneof=openai gemini"`
}

// projectHandler is the files-bundle processor: a prompt goes to one of the
// bundle-dialect providers and the response is normalized to
// {files, description}.
func projectHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if req.Provider == "" {
			req.Provider = "openai"
		}

		res := deps.Gateway.Handle(r.Context(), gateway.Request{
			Content:  req.Prompt,
			Action:   prompt.ActionGenerate,
			Provider: req.Provider,
		}, gateway.WithProgress(progressLogger(deps.Log, r)))

		if !res.Success {
			httputil.WriteError(deps.Log, w, res.Status, res.Err, res.Details)
			return
		}
		bundle := normalize.BundleFrom(deps.Log, res.ProcessedText)
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"files":       bundle.Files,
			"description": bundle.Description,
		})
	}
}

var allowedUploadTypes = map[string]bool{
	"text/plain":      true,
	"application/pdf": true,
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("File too large. Maximum size is %d bytes.", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "No file received", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("File too large. Maximum size is %d bytes.", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = typeFromExtension(header.Filename)
		}
		if !allowedUploadTypes[contentType] {
			httputil.Fail(deps.Log, w, "Invalid file type. Only PDF and text files are allowed.", nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(header.Filename))
		if err := saveUpload(deps.Config.UploadDir, filename, content); err != nil {
			httputil.Fail(deps.Log, w, "failed to store file", err, http.StatusInternalServerError)
			return
		}

		text, err := deps.Extractor.Extract(header.Filename, content)
		if err != nil {
			if errors.Is(err, extract.ErrUnsupportedFormat) {
				httputil.Fail(deps.Log, w, "Invalid file type. Only PDF and text files are allowed.", err, http.StatusBadRequest)
				return
			}
			httputil.Fail(deps.Log, w, "failed to extract text", err, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"filename":      filename,
			"extractedText": text,
			"fileSize":      header.Size,
			"fileType":      contentType,
		})
	}
}

func typeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}

func saveUpload(dir, filename string, content []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filename), content, 0o644)
}

// progressLogger turns gateway stages into debug log lines tied to the
// request path.
func progressLogger(log *slog.Logger, r *http.Request) gateway.ProgressFunc {
	return func(s gateway.Stage) {
		log.Debug("dispatch progress", "stage", string(s), "path", r.URL.Path)
	}
}
