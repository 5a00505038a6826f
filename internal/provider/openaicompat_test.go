package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"prompt-gateway/internal/prompt"
)

func newChatTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestChatSendSuccess(t *testing.T) {
	srv := newChatTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"`+"```js\\nconsole.log(1)\\n```"+`"}}]}`)
	defer srv.Close()

	c := NewChat(ChatOptions{Name: "groq", APIKey: "test-key", BaseURL: srv.URL, Model: "llama3-8b-8192"})
	text, err := c.Send(context.Background(), "build a form", prompt.Resolve(prompt.ActionGenerate, c.Dialect()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "```js\nconsole.log(1)\n```"
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
}

func TestChatSendEmptyChoices(t *testing.T) {
	srv := newChatTestServer(t, http.StatusOK, `{"choices":[]}`)
	defer srv.Close()

	c := NewChat(ChatOptions{Name: "groq", APIKey: "test-key", BaseURL: srv.URL, Model: "llama3-8b-8192"})
	text, err := c.Send(context.Background(), "hi", prompt.Resolve(prompt.ActionChat, c.Dialect()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != NoResponseText {
		t.Errorf("expected placeholder text, got %q", text)
	}
}

func TestChatSendUpstreamErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"tokens"}}`, KindRateLimited},
		{"invalid key", http.StatusUnauthorized, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`, KindInvalidCredential},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"internal","type":"server_error"}}`, KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newChatTestServer(t, tt.status, tt.body)
			defer srv.Close()

			c := NewChat(ChatOptions{Name: "groq", APIKey: "test-key", BaseURL: srv.URL, Model: "llama3-8b-8192"})
			_, err := c.Send(context.Background(), "hi", prompt.Resolve(prompt.ActionChat, c.Dialect()))

			var pErr *Error
			if !errors.As(err, &pErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if pErr.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, pErr.Kind)
			}
			if pErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, pErr.Status)
			}
		})
	}
}

func TestChatSendNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewChat(ChatOptions{Name: "groq", APIKey: "test-key", BaseURL: srv.URL, Model: "llama3-8b-8192"})
	_, err := c.Send(context.Background(), "hi", prompt.Resolve(prompt.ActionChat, c.Dialect()))

	var pErr *Error
	if !errors.As(err, &pErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pErr.Kind != KindNetworkFailure {
		t.Errorf("expected network failure, got %s", pErr.Kind)
	}
}

func TestChatAvailable(t *testing.T) {
	if NewChat(ChatOptions{Name: "groq"}).Available() {
		t.Error("adapter without key should not be available")
	}
	if !NewChat(ChatOptions{Name: "groq", APIKey: "k"}).Available() {
		t.Error("adapter with key should be available")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("groq", NewChat(ChatOptions{Name: "groq", APIKey: "k"}))
	r.Register("claude", NewAnthropic(AnthropicOptions{APIKey: "k"}))

	if _, ok := r.Get("groq"); !ok {
		t.Error("expected groq adapter registered")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("expected lookup miss for unknown provider")
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "claude" || names[1] != "groq" {
		t.Errorf("expected sorted names [claude groq], got %v", names)
	}
}
