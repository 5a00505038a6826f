package normalize

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCodeTripleFrom(t *testing.T) {
	log := testLogger()

	t.Run("well-formed JSON", func(t *testing.T) {
		triple := CodeTripleFrom(log, `{"html":"<p>hi</p>","css":"p{color:red}","js":"alert(1)"}`)
		if triple.HTML != "<p>hi</p>" || triple.CSS != "p{color:red}" || triple.JS != "alert(1)" {
			t.Errorf("unexpected triple: %+v", triple)
		}
	})

	t.Run("fenced JSON", func(t *testing.T) {
		triple := CodeTripleFrom(log, "```json\n{\"html\":\"<p>ok</p>\",\"css\":\"\",\"js\":\"\"}\n```")
		if triple.HTML != "<p>ok</p>" {
			t.Errorf("expected fenced JSON to parse, got %+v", triple)
		}
	})

	t.Run("non-JSON falls back to html field", func(t *testing.T) {
		raw := "Here is your page: <div>hello</div>"
		triple := CodeTripleFrom(log, raw)
		if triple.HTML != raw {
			t.Errorf("expected raw text as html, got %q", triple.HTML)
		}
		if triple.CSS != "/* Add your CSS here */" {
			t.Errorf("expected placeholder css, got %q", triple.CSS)
		}
		if triple.JS != "// Add your JavaScript here" {
			t.Errorf("expected placeholder js, got %q", triple.JS)
		}
	})
}

func TestBundleFrom(t *testing.T) {
	log := testLogger()

	t.Run("well-formed JSON", func(t *testing.T) {
		bundle := BundleFrom(log, `{"files":{"app/page.tsx":"export default function Page() {}"},"description":"a page"}`)
		if bundle.Description != "a page" {
			t.Errorf("unexpected description %q", bundle.Description)
		}
		if bundle.Files["app/page.tsx"] == "" {
			t.Error("expected file content preserved")
		}
	})

	t.Run("non-JSON falls back to placeholder project", func(t *testing.T) {
		bundle := BundleFrom(log, "I can't produce JSON, sorry")
		for _, name := range []string{"index.html", "styles.css", "app.js"} {
			if bundle.Files[name] == "" {
				t.Errorf("expected placeholder file %s", name)
			}
		}
		if !strings.Contains(bundle.Files["index.html"], "I can't produce JSON, sorry") {
			t.Error("placeholder page should embed the raw text")
		}
	})

	t.Run("empty files object falls back", func(t *testing.T) {
		bundle := BundleFrom(log, `{"files":{},"description":"empty"}`)
		if len(bundle.Files) == 0 {
			t.Error("expected placeholder files for empty bundle")
		}
	})

	t.Run("fallback is deterministic", func(t *testing.T) {
		a := BundleFrom(log, "same input")
		b := BundleFrom(log, "same input")
		if a.Files["index.html"] != b.Files["index.html"] {
			t.Error("expected identical fallback for identical input")
		}
	})
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
