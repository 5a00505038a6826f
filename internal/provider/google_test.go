package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prompt-gateway/internal/prompt"
)

func TestGoogleSend(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantText   string
		wantKind   Kind
		wantStatus int
	}{
		{
			name:     "extracts candidate parts",
			status:   http.StatusOK,
			body:     `{"candidates":[{"content":{"parts":[{"text":"part one"},{"text":" part two"}]}}]}`,
			wantText: "part one part two",
		},
		{
			name:     "no candidates yields placeholder",
			status:   http.StatusOK,
			body:     `{"candidates":[]}`,
			wantText: NoResponseText,
		},
		{
			name:       "prompt-level safety block",
			status:     http.StatusOK,
			body:       `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantKind:   KindContentBlocked,
			wantStatus: http.StatusOK,
		},
		{
			name:       "candidate safety finish",
			status:     http.StatusOK,
			body:       `{"candidates":[{"finishReason":"SAFETY"}]}`,
			wantKind:   KindContentBlocked,
			wantStatus: http.StatusOK,
		},
		{
			name:       "429 maps to rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`,
			wantKind:   KindRateLimited,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "403 maps to invalid credential",
			status:     http.StatusForbidden,
			body:       `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`,
			wantKind:   KindInvalidCredential,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.Contains(r.URL.Path, ":generateContent") {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("key"); got != "test-key" {
					t.Errorf("expected key query parameter, got %q", got)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGoogle(GoogleOptions{APIKey: "test-key", BaseURL: srv.URL})
			text, err := g.Send(context.Background(), "hello", prompt.Resolve(prompt.ActionChat, g.Dialect()))

			if tt.wantKind != "" {
				var pErr *Error
				if !errors.As(err, &pErr) {
					t.Fatalf("expected *Error, got %v", err)
				}
				if pErr.Kind != tt.wantKind {
					t.Errorf("expected kind %s, got %s", tt.wantKind, pErr.Kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, text)
			}
		})
	}
}

func TestGoogleCombinesSystemAndUserPrompt(t *testing.T) {
	var captured googleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGoogle(GoogleOptions{APIKey: "test-key", BaseURL: srv.URL})
	spec := prompt.Resolve(prompt.ActionEnhance, g.Dialect())
	if _, err := g.Send(context.Background(), "make a login page", spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 1 {
		t.Fatalf("expected a single combined prompt part, got %+v", captured.Contents)
	}
	got := captured.Contents[0].Parts[0].Text
	if !strings.Contains(got, spec.System) {
		t.Error("combined prompt should contain the system instruction")
	}
	if !strings.Contains(got, "User Request: make a login page") {
		t.Error("combined prompt should contain the user content")
	}
	if captured.GenerationConfig.MaxOutputTokens != spec.MaxTokens {
		t.Errorf("expected maxOutputTokens %d, got %d", spec.MaxTokens, captured.GenerationConfig.MaxOutputTokens)
	}
}
