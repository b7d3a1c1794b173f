package extract

import (
    "bytes"
    "strings"

    "golang.org/x/net/html"
)

// editMarker is the section edit link text Wikipedia renders inside headings.
const editMarker = "[edit]"

// Heading is one section title of a page. Level is 1 for <h1> through 6 for <h6>.
type Heading struct {
    Level int
    Text  string
}

// Headings returns every non-empty h1–h6 element of the document in source
// order. Parsing is tolerant: malformed markup yields whatever headings the
// parser recovers and never an error.
func Headings(input []byte) []Heading {
    node, err := html.Parse(bytes.NewReader(input))
    if err != nil || node == nil {
        return nil
    }
    var out []Heading
    var walk func(*html.Node)
    walk = func(n *html.Node) {
        if n.Type == html.ElementNode {
            if level := headingLevel(n.Data); level > 0 {
                if text, ok := headingText(n); ok {
                    out = append(out, Heading{Level: level, Text: text})
                }
            }
        }
        for c := n.FirstChild; c != nil; c = c.NextSibling {
            walk(c)
        }
    }
    walk(node)
    return out
}

// headingLevel maps h1..h6 (any case) to 1..6 and everything else to 0.
func headingLevel(tag string) int {
    if len(tag) != 2 || (tag[0] != 'h' && tag[0] != 'H') {
        return 0
    }
    if tag[1] < '1' || tag[1] > '6' {
        return 0
    }
    return int(tag[1] - '0')
}

func headingText(n *html.Node) (string, bool) {
    var b strings.Builder
    collectText(&b, n)
    text := strings.TrimSpace(b.String())
    if text == "" {
        return "", false
    }
    text = strings.TrimSpace(strings.ReplaceAll(text, editMarker, ""))
    if text == "" {
        return "", false
    }
    return text, true
}

// collectText concatenates descendant text nodes. Comments are not text.
func collectText(b *strings.Builder, n *html.Node) {
    if n.Type == html.TextNode {
        b.WriteString(n.Data)
        return
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        collectText(b, c)
    }
}
