package chat

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// RenderMarkdown converts the interpreter's lightweight markup into
// HTML for web clients. The underlying text is the source of truth;
// rendering failures fall back to the raw text untouched.
func RenderMarkdown(text string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return text
	}
	return buf.String()
}
