package extract

import (
	"errors"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	e := New()

	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{"txt extension", "notes.txt", "hello world"},
		{"markdown extension", "README.md", "# title"},
		{"no extension", "LICENSE", "MIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := e.Extract(tt.filename, []byte(tt.content))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != tt.content {
				t.Errorf("expected %q, got %q", tt.content, text)
			}
		})
	}
}

func TestExtractUnsupportedFormats(t *testing.T) {
	e := New()

	for _, filename := range []string{"report.doc", "report.docx", "image.png"} {
		t.Run(filename, func(t *testing.T) {
			_, err := e.Extract(filename, []byte("content"))
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("expected ErrUnsupportedFormat, got %v", err)
			}
		})
	}
}

func TestExtractMalformedPDF(t *testing.T) {
	e := New()
	_, err := e.Extract("broken.pdf", []byte("not a pdf"))
	if err == nil {
		t.Error("expected error for malformed PDF")
	}
}
