package provider

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"

	"prompt-gateway/internal/prompt"
)

// Chat is a single configurable adapter for OpenAI-compatible
// chat-completions upstreams. The wire schema is identical across these
// providers; only the endpoint, auth header shape, and default model differ.
type Chat struct {
	name      string
	model     string
	dialect   prompt.Dialect
	available bool
	client    openai.Client
}

// ChatOptions configures one OpenAI-compatible instantiation. When
// AzureEndpoint is set, the adapter authenticates the Azure way (api-key
// header plus api-version query) and Model names the deployment; otherwise
// it sends a Bearer key against BaseURL.
type ChatOptions struct {
	Name            string
	APIKey          string
	BaseURL         string
	AzureEndpoint   string
	AzureAPIVersion string
	Model           string
	Dialect         prompt.Dialect
	Timeout         time.Duration
}

func NewChat(opts ChatOptions) *Chat {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Dialect == "" {
		opts.Dialect = prompt.DialectMarkdown
	}

	reqOpts := []option.RequestOption{
		option.WithRequestTimeout(opts.Timeout),
		// Retry policy belongs to the gateway, not the SDK.
		option.WithMaxRetries(0),
	}
	available := opts.APIKey != ""
	if opts.AzureEndpoint != "" {
		reqOpts = append(reqOpts,
			azure.WithEndpoint(opts.AzureEndpoint, opts.AzureAPIVersion),
			azure.WithAPIKey(opts.APIKey),
		)
	} else {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
		if opts.BaseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
		}
	}

	return &Chat{
		name:      opts.Name,
		model:     opts.Model,
		dialect:   opts.Dialect,
		available: available,
		client:    openai.NewClient(reqOpts...),
	}
}

func (c *Chat) Name() string { return c.name }

func (c *Chat) Dialect() prompt.Dialect { return c.dialect }

func (c *Chat) Available() bool { return c.available }

func (c *Chat) Send(ctx context.Context, content string, spec prompt.Spec) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    buildMessages(spec.System, content),
		MaxTokens:   openai.Int(int64(spec.MaxTokens)),
		Temperature: openai.Float(spec.Temperature),
	})
	if err != nil {
		return "", c.wrapErr(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return NoResponseText, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Chat) wrapErr(err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		raw := apiErr.Message
		if raw == "" {
			raw = apiErr.Error()
		}
		return &Error{
			Provider: c.name,
			Kind:     classifyStatus(apiErr.StatusCode),
			Status:   apiErr.StatusCode,
			Raw:      raw,
		}
	}
	// Anything that never produced an HTTP response is a connection-level
	// failure: DNS, TLS, timeout, reset.
	return netError(c.name, err)
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}
