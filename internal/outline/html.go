package outline

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
)

var markdown = goldmark.New(
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// ToHTML converts a rendered outline to an HTML fragment. Raw HTML inside
// heading text is not passed through.
func ToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
