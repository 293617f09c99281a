package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// skipElements are stripped entirely from the text rendering. Tables are
// dropped so cumulative listing DOMs stay cheap to re-extract.
var skipElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"iframe":   {},
	"svg":      {},
	"table":    {},
	"form":     {},
	"head":     {},
}

// blockElements get a line break after their content.
var blockElements = map[string]struct{}{
	"p": {}, "div": {}, "section": {}, "article": {}, "header": {},
	"footer": {}, "li": {}, "ul": {}, "ol": {}, "br": {}, "hr": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"blockquote": {}, "figure": {}, "figcaption": {}, "main": {}, "nav": {},
}

// Markdown renders HTML as link-preserving plain text: anchors become
// [text](href), block elements become line breaks, emphasis and tables are
// stripped. This is the form handed to the structured-extraction model.
func Markdown(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderNode(&b, doc)
	return collapseBlankLines(b.String()), nil
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text != "" {
			b.WriteString(text)
			b.WriteByte(' ')
		}
		return
	case html.ElementNode:
		if _, skip := skipElements[n.Data]; skip {
			return
		}
		if n.Data == "a" {
			href := attr(n, "href")
			label := strings.TrimSpace(nodeText(n))
			if href != "" {
				if label == "" {
					label = href
				}
				b.WriteString("[" + label + "](" + href + ")")
				b.WriteByte('\n')
				return
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c)
	}

	if n.Type == html.ElementNode {
		if _, block := blockElements[n.Data]; block {
			b.WriteByte('\n')
		}
	}
}

// nodeText collects all text under a node, whitespace-normalized.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// Lines splits rendered text into trimmed, non-empty lines. These are the
// fragments the chunk filter hashes.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func collapseBlankLines(s string) string {
	return strings.Join(Lines(s), "\n")
}
