// Package gateway is the stateless dispatch boundary between an abstract
// processing request and the configured upstream LLM providers. It validates
// the request, checks provider credentials, resolves the action prompt,
// delegates to the selected adapter, and folds every failure into one
// stable result shape.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"prompt-gateway/internal/cache"
	"prompt-gateway/internal/prompt"
	"prompt-gateway/internal/provider"
	"prompt-gateway/internal/retry"
)

// Request is the abstract processing request. It lives for one call only.
type Request struct {
	Content  string
	Action   prompt.Action
	Provider string
}

// Result is the single shape exposed across the gateway boundary. Exactly
// one of the success or error variants is populated, never a mix.
type Result struct {
	Success       bool
	ProcessedText string
	Err           string
	Details       any
	Status        int
}

// Stage identifies a phase of one dispatch, reported through the optional
// progress callback.
type Stage string

const (
	StageValidating  Stage = "validating"
	StageDispatching Stage = "dispatching"
	StageNormalizing Stage = "normalizing"
)

// ProgressFunc receives staged progress during a dispatch.
type ProgressFunc func(Stage)

// Option configures a single Handle call.
type Option func(*callOptions)

type callOptions struct {
	progress ProgressFunc
}

// WithProgress registers a staged progress callback for one call.
func WithProgress(fn ProgressFunc) Option {
	return func(o *callOptions) { o.progress = fn }
}

// Options configures a Gateway.
type Options struct {
	// MaxRetries bounds re-dispatch after connection-level failures.
	// Zero (the default) preserves the no-retry posture: a failed call
	// surfaces immediately and resubmission is the caller's choice.
	MaxRetries int
	RetryBase  time.Duration
	CacheTTL   time.Duration
}

type Gateway struct {
	log        *slog.Logger
	registry   *provider.Registry
	cache      cache.Cache
	maxRetries int
	retryBase  time.Duration
	cacheTTL   time.Duration
}

func New(log *slog.Logger, registry *provider.Registry, c cache.Cache, opts Options) *Gateway {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if opts.RetryBase == 0 {
		opts.RetryBase = 500 * time.Millisecond
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 15 * time.Minute
	}
	return &Gateway{
		log:        log,
		registry:   registry,
		cache:      c,
		maxRetries: opts.MaxRetries,
		retryBase:  opts.RetryBase,
		cacheTTL:   opts.CacheTTL,
	}
}

// Handle runs one request through the full dispatch pipeline. No state
// survives the call.
func (g *Gateway) Handle(ctx context.Context, req Request, opts ...Option) Result {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}
	report := func(s Stage) {
		if co.progress != nil {
			co.progress(s)
		}
	}

	report(StageValidating)
	if req.Content == "" || req.Action == "" {
		return Result{Success: false, Err: "Text and action are required", Status: http.StatusBadRequest}
	}

	adapter, ok := g.registry.Get(req.Provider)
	if !ok {
		return Result{Success: false, Err: fmt.Sprintf("unknown provider: %s", req.Provider), Status: http.StatusBadRequest}
	}
	if !adapter.Available() {
		// Operator's fault, not the client's: no upstream call attempted.
		return Result{
			Success: false,
			Err:     fmt.Sprintf("%s API key not configured. Please add %s to your environment variables.", adapter.Name(), credentialHint(adapter.Name())),
			Status:  http.StatusInternalServerError,
		}
	}

	spec := prompt.Resolve(req.Action, adapter.Dialect())

	key := cache.Key(req.Provider, string(req.Action), req.Content)
	if cached, err := g.cache.GetResult(ctx, key); err == nil && cached != nil {
		g.log.Info("cache hit", "provider", req.Provider, "action", req.Action)
		return Result{Success: true, ProcessedText: cached.ProcessedText, Status: http.StatusOK}
	} else if err != nil {
		g.log.Warn("cache lookup failed", "err", err)
	}

	report(StageDispatching)
	text, err := g.dispatch(ctx, adapter, req.Content, spec)
	if err != nil {
		return g.errorResult(adapter.Name(), err)
	}

	report(StageNormalizing)
	if err := g.cache.SetResult(ctx, key, &cache.Result{ProcessedText: text}, g.cacheTTL); err != nil {
		g.log.Warn("cache store failed", "err", err)
	}
	return Result{Success: true, ProcessedText: text, Status: http.StatusOK}
}

// dispatch performs the upstream call, re-attempting connection-level
// failures up to the configured bound.
func (g *Gateway) dispatch(ctx context.Context, adapter provider.Adapter, content string, spec prompt.Spec) (string, error) {
	for attempt := 0; ; attempt++ {
		text, err := adapter.Send(ctx, content, spec)
		if err == nil {
			return text, nil
		}

		var pErr *provider.Error
		if !errors.As(err, &pErr) || pErr.Kind != provider.KindNetworkFailure || attempt >= g.maxRetries {
			return "", err
		}
		g.log.Warn("upstream connection failed; retrying", "provider", adapter.Name(), "attempt", attempt+1, "err", err)
		select {
		case <-ctx.Done():
			return "", err
		case <-time.After(retry.ExponentialBackoff(attempt, g.retryBase)):
		}
	}
}

// errorResult maps typed adapter failures to user-facing error results.
func (g *Gateway) errorResult(name string, err error) Result {
	var pErr *provider.Error
	if !errors.As(err, &pErr) {
		g.log.Error("dispatch failed", "provider", name, "err", err)
		return Result{Success: false, Err: "Internal server error", Status: http.StatusInternalServerError}
	}

	g.log.Error("upstream call failed", "provider", name, "kind", pErr.Kind, "status", pErr.Status, "err", pErr.Raw)

	switch pErr.Kind {
	case provider.KindInvalidCredential:
		return Result{
			Success: false,
			Err:     fmt.Sprintf("Invalid %s API key. Please check your configuration.", name),
			Details: pErr.Raw,
			Status:  statusOr(pErr.Status, http.StatusInternalServerError),
		}
	case provider.KindRateLimited:
		return Result{
			Success: false,
			Err:     fmt.Sprintf("%s API quota exceeded. Please try again later.", name),
			Details: pErr.Raw,
			Status:  statusOr(pErr.Status, http.StatusInternalServerError),
		}
	case provider.KindContentBlocked:
		return Result{
			Success: false,
			Err:     fmt.Sprintf("Content was blocked by %s safety filters. Please modify your request.", name),
			Details: pErr.Raw,
			Status:  http.StatusInternalServerError,
		}
	case provider.KindNetworkFailure:
		return Result{
			Success: false,
			Err:     fmt.Sprintf("Unable to connect to %s API. Please check your internet connection and try again.", name),
			Details: pErr.Raw,
			Status:  http.StatusServiceUnavailable,
		}
	case provider.KindUpstream:
		// Upstream status and error envelope pass through untransformed.
		return Result{
			Success: false,
			Err:     fmt.Sprintf("%s API request failed", name),
			Details: pErr.Raw,
			Status:  statusOr(pErr.Status, http.StatusInternalServerError),
		}
	default:
		return Result{Success: false, Err: "Internal server error", Details: pErr.Raw, Status: http.StatusInternalServerError}
	}
}

func statusOr(status, fallback int) int {
	if status == 0 {
		return fallback
	}
	return status
}

// credentialHint names the environment variables an operator must set for
// each provider, mirrored in the configuration surface.
func credentialHint(name string) string {
	switch name {
	case "claude":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	case "openai":
		return "AZURE_OPENAI_API_KEY and AZURE_OPENAI_ENDPOINT"
	default:
		return "the provider API key"
	}
}
