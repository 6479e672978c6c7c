package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// skipTags never contribute rendered text.
var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "template": {},
	"head": {}, "iframe": {}, "svg": {}, "canvas": {},
}

// blockTags start a new line in the rendered text.
var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "fieldset": {}, "figcaption": {},
	"figure": {}, "footer": {}, "form": {}, "h1": {}, "h2": {}, "h3": {},
	"h4": {}, "h5": {}, "h6": {}, "header": {}, "hr": {}, "li": {},
	"main": {}, "nav": {}, "ol": {}, "p": {}, "pre": {}, "section": {},
	"table": {}, "tr": {}, "ul": {},
}

// VisibleText approximates innerText for a subtree of static markup:
// script-like content and hidden elements are skipped, block elements break
// lines, whitespace inside a line collapses and blank lines are dropped.
func VisibleText(root *html.Node) string {
	var buf strings.Builder
	walkText(root, &buf)

	lines := strings.Split(buf.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = NormalizeText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func walkText(n *html.Node, buf *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(n.Data)
		return
	case html.ElementNode:
		if _, skip := skipTags[n.Data]; skip || isHidden(n) {
			return
		}
	}

	_, block := blockTags[n.Data]
	if n.Type == html.ElementNode && block {
		buf.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, buf)
	}
	if n.Type == html.ElementNode && block {
		buf.WriteByte('\n')
	}
}

func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}
