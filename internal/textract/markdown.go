package textract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor strips Markdown syntax and keeps block text, one block
// per line group. Headings are kept as text so "Rozdział" and "Art." lines
// written as headings still reach the structure parser.
type MarkdownExtractor struct{}

func (p *MarkdownExtractor) Extract(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := blockText(n, src); t != "" {
			blocks = append(blocks, t)
		}
	}
	return strings.Join(blocks, "\n"), nil
}

// blockText gets the text content of a goldmark AST node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	if list, ok := n.(*ast.List); ok && list.IsOrdered() {
		return orderedListText(list, src)
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(src))
			if c.HardLineBreak() || c.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(c.Value)
		default:
			t := blockText(c, src)
			if t != "" && c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}

// orderedListText restores the "1)" and "1." markers goldmark consumes, since
// enumerated subpoints depend on them.
func orderedListText(list *ast.List, src []byte) string {
	var items []string
	num := list.Start
	for c := list.FirstChild(); c != nil; c = c.NextSibling() {
		items = append(items, fmt.Sprintf("%d%c %s", num, list.Marker, blockText(c, src)))
		num++
	}
	return strings.Join(items, "\n")
}
