package extract

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for file types without a real extractor.
// Word documents fall in this category; there is no placeholder text path.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Extractor pulls plain text out of an uploaded document.
type Extractor interface {
	Extract(filename string, content []byte) (string, error)
}

// New returns the default extractor supporting plain text and PDF.
func New() Extractor {
	return &extractor{}
}

type extractor struct{}

func (e *extractor) Extract(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", "":
		return string(content), nil
	case ".pdf":
		return extractPDF(content)
	default:
		return "", ErrUnsupportedFormat
	}
}

func extractPDF(content []byte) (string, error) {
	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
