package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"prompt-gateway/internal/prompt"
)

const googleDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Google calls the Gemini generateContent API. The system instruction and
// user content travel as a single combined prompt part.
type Google struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type GoogleOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func NewGoogle(opts GoogleOptions) *Google {
	if opts.Model == "" {
		opts.Model = "gemini-pro"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = googleDefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Google{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		model:   opts.Model,
		client:  &http.Client{Timeout: opts.Timeout},
	}
}

func (g *Google) Name() string { return "gemini" }

func (g *Google) Dialect() prompt.Dialect { return prompt.DialectFilesBundle }

func (g *Google) Available() bool { return g.apiKey != "" }

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type googleGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type googleRequest struct {
	Contents         []googleContent        `json:"contents"`
	GenerationConfig googleGenerationConfig `json:"generationConfig,omitempty"`
}

type googleCandidate struct {
	Content      *googleContent `json:"content"`
	FinishReason string         `json:"finishReason"`
}

type googleResponse struct {
	Candidates     []googleCandidate `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (g *Google) Send(ctx context.Context, content string, spec prompt.Spec) (string, error) {
	fullPrompt := fmt.Sprintf("%s\n\nUser Request: %s", spec.System, content)
	reqBody := googleRequest{
		Contents: []googleContent{{Parts: []googlePart{{Text: fullPrompt}}}},
		GenerationConfig: googleGenerationConfig{
			Temperature:     spec.Temperature,
			MaxOutputTokens: spec.MaxTokens,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Provider: g.Name(), Kind: KindUnknown, Raw: err.Error()}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Provider: g.Name(), Kind: KindUnknown, Raw: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", netError(g.Name(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", netError(g.Name(), err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(g.Name(), resp.StatusCode, string(raw))
	}

	var genResp googleResponse
	if err := json.Unmarshal(raw, &genResp); err != nil {
		return "", &Error{Provider: g.Name(), Kind: KindBadResponse, Status: resp.StatusCode, Raw: err.Error()}
	}

	// Gemini signals safety rejections inside an otherwise successful
	// envelope, either as a prompt-level block reason or a SAFETY finish.
	if genResp.PromptFeedback.BlockReason != "" {
		return "", &Error{Provider: g.Name(), Kind: KindContentBlocked, Status: resp.StatusCode, Raw: genResp.PromptFeedback.BlockReason}
	}

	var out strings.Builder
	for _, cand := range genResp.Candidates {
		if cand.FinishReason == "SAFETY" {
			return "", &Error{Provider: g.Name(), Kind: KindContentBlocked, Status: resp.StatusCode, Raw: cand.FinishReason}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			out.WriteString(part.Text)
		}
	}
	if out.Len() == 0 {
		return NoResponseText, nil
	}
	return out.String(), nil
}
