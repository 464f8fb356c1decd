package textract

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXExtractor reads paragraph text from .docx files, one paragraph per
// line.
type DOCXExtractor struct{}

func (p *DOCXExtractor) Extract(r io.Reader, filename string) (string, error) {
	ra, size, err := readAll(r)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(ra, size)
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := docxParagraphText(para); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
