// Package outline turns extracted headings into a Markdown outline and offers
// HTML and PDF renditions of that outline.
package outline

import (
	"strings"

	"github.com/hyperifyio/wikioutline/internal/extract"
)

// Header is the fixed first line of every outline.
const Header = "## Contents"

// Render produces the Markdown outline for headings: the Header line followed
// by one "#"*level line per heading, consecutive lines separated by a blank
// line. An empty input renders to just Header.
func Render(headings []extract.Heading) string {
	lines := make([]string, 0, len(headings)+1)
	lines = append(lines, Header)
	for _, h := range headings {
		lines = append(lines, strings.Repeat("#", h.Level)+" "+h.Text)
	}
	return strings.Join(lines, "\n\n")
}
