package textract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor reads the visible text of an HTML page. Block elements end a
// line; script and style content is dropped.
type HTMLExtractor struct{}

func (p *HTMLExtractor) Extract(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var lines []string
	var current strings.Builder
	flush := func() {
		if t := strings.Join(strings.Fields(current.String()), " "); t != "" {
			lines = append(lines, t)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			current.WriteString(n.Data)
			current.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			case "br":
				flush()
				return
			}
		}
		block := n.Type == html.ElementNode && isBlock(n.Data)
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	flush()
	return strings.Join(lines, "\n"), nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "tr", "td", "th", "blockquote", "section", "article",
		"h1", "h2", "h3", "h4", "h5", "h6", "pre", "ul", "ol", "table", "dd", "dt":
		return true
	}
	return false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
