package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"prompt-gateway/internal/prompt"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// Anthropic calls the Anthropic Messages API.
type Anthropic struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// AnthropicOptions configures the adapter. BaseURL is overridable for tests.
type AnthropicOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func NewAnthropic(opts AnthropicOptions) *Anthropic {
	if opts.Model == "" {
		opts.Model = "claude-3-sonnet-20240229"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = anthropicDefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Anthropic{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		model:   opts.Model,
		client:  &http.Client{Timeout: opts.Timeout},
	}
}

func (a *Anthropic) Name() string { return "claude" }

func (a *Anthropic) Dialect() prompt.Dialect { return prompt.DialectCodeTriple }

func (a *Anthropic) Available() bool { return a.apiKey != "" }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

func (a *Anthropic) Send(ctx context.Context, content string, spec prompt.Spec) (string, error) {
	reqBody := anthropicRequest{
		Model:       a.model,
		System:      spec.System,
		Messages:    []anthropicMessage{{Role: "user", Content: content}},
		MaxTokens:   spec.MaxTokens,
		Temperature: spec.Temperature,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Provider: a.Name(), Kind: KindUnknown, Raw: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Provider: a.Name(), Kind: KindUnknown, Raw: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", netError(a.Name(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", netError(a.Name(), err)
	}

	if resp.StatusCode != http.StatusOK {
		// The error envelope passes through untransformed.
		return "", upstreamError(a.Name(), resp.StatusCode, string(raw))
	}

	var msgResp anthropicResponse
	if err := json.Unmarshal(raw, &msgResp); err != nil {
		return "", &Error{Provider: a.Name(), Kind: KindBadResponse, Status: resp.StatusCode, Raw: err.Error()}
	}

	var out strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return NoResponseText, nil
	}
	return out.String(), nil
}
