// Package normalize converts heterogeneous upstream output into the stable
// shapes the gateway exposes. Malformed JSON from the generate actions is
// degraded to a placeholder structure instead of surfacing a parse error;
// each fallback is an explicit, logged branch.
package normalize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Shape names the expected structure of upstream text.
type Shape string

const (
	ShapePlain       Shape = "plain"
	ShapeCodeTriple  Shape = "code-triple"
	ShapeFilesBundle Shape = "files-bundle"
)

// CodeTriple is the {html, css, js} result of the code-triple processor.
type CodeTriple struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// ProjectBundle is the {files, description} result of the files-bundle
// processor.
type ProjectBundle struct {
	Files       map[string]string `json:"files"`
	Description string            `json:"description"`
}

// CodeTripleFrom parses raw upstream text as a {html, css, js} JSON object.
// On parse failure the whole text becomes the html field and css/js get
// placeholder comments.
func CodeTripleFrom(log *slog.Logger, raw string) CodeTriple {
	var triple CodeTriple
	if err := json.Unmarshal([]byte(stripFences(raw)), &triple); err == nil && (triple.HTML != "" || triple.CSS != "" || triple.JS != "") {
		return triple
	} else if err != nil {
		log.Warn("upstream text is not a valid code triple; using fallback", "err", err)
	} else {
		log.Warn("upstream code triple is empty; using fallback")
	}
	return CodeTriple{
		HTML: raw,
		CSS:  "/* Add your CSS here */",
		JS:   "// Add your JavaScript here",
	}
}

// BundleFrom parses raw upstream text as a {files, description} JSON object.
// On parse failure it returns a deterministic placeholder project embedding
// the raw text.
func BundleFrom(log *slog.Logger, raw string) ProjectBundle {
	var bundle ProjectBundle
	if err := json.Unmarshal([]byte(stripFences(raw)), &bundle); err == nil && len(bundle.Files) > 0 {
		return bundle
	} else if err != nil {
		log.Warn("upstream text is not a valid project bundle; using fallback", "err", err)
	} else {
		log.Warn("upstream project bundle has no files; using fallback")
	}
	return placeholderBundle(raw)
}

// stripFences removes a surrounding markdown code fence, which some models
// wrap around JSON despite instructions not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func placeholderBundle(raw string) ProjectBundle {
	body := raw
	if body == "" {
		body = "Generated content was empty."
	}
	return ProjectBundle{
		Description: "Placeholder project generated from unstructured model output",
		Files: map[string]string{
			"index.html": fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Generated App</title>
    <link rel="stylesheet" href="styles.css">
</head>
<body>
    <main id="app">
        <pre>%s</pre>
    </main>
    <script src="app.js"></script>
</body>
</html>
`, body),
			"styles.css": `body {
    font-family: system-ui, sans-serif;
    margin: 0;
    padding: 2rem;
}

#app pre {
    white-space: pre-wrap;
}
`,
			"app.js": `// Placeholder script for the generated project
console.log('generated project loaded');
`,
		},
	}
}
