// Package report formats detected processes for people: console blocks for
// the CLI and a Markdown/HTML summary for the HTTP API.
package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/lexproc/internal/doctree"
	"github.com/dgallion1/lexproc/internal/hgraph"
)

const noChapter = "-"

// PrintRecords writes one labeled block per record, numbered from 1.
func PrintRecords(w io.Writer, records []doctree.Record) error {
	bw := bufio.NewWriter(w)
	for i, r := range records {
		fmt.Fprintf(bw, "Proces %d:\n", i+1)
		fmt.Fprintf(bw, "Rozdział: %s\n", chapterLabel(r.Chapter))
		fmt.Fprintf(bw, "Artykuł: %s\n", r.Ref)
		fmt.Fprintf(bw, "Podpunkt: %s\n", r.Text)
		fmt.Fprintf(bw, "Akcja: %s\n", r.Action)
		fmt.Fprintf(bw, "Czas: %s\n\n", r.Time)
	}
	return bw.Flush()
}

// PrintCounts writes the node totals of the hierarchy graph.
func PrintCounts(w io.Writer, c hgraph.Counts) error {
	_, err := fmt.Fprintf(w, "Liczba węzłów Rozdział: %d\nLiczba węzłów Artykuł: %d\nLiczba węzłów Podpunkt: %d\n",
		c.Chapters, c.Articles, c.Subpoints)
	return err
}

func chapterLabel(ch string) string {
	if ch == "" {
		return noChapter
	}
	return ch
}

// Markdown builds a report with the title, node counts and a table of
// records grouped by chapter in document order.
func Markdown(doc doctree.Document) string {
	counts := hgraph.Assemble(doc.Title, doc.Records).Counts()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeInline(doc.Title))
	fmt.Fprintf(&b, "- Rozdziały: %d\n- Artykuły: %d\n- Podpunkty: %d\n- Procesy: %d\n\n",
		counts.Chapters, counts.Articles, counts.Subpoints, len(doc.Records))

	if len(doc.Records) == 0 {
		b.WriteString("Nie wykryto procesów.\n")
		return b.String()
	}

	current, started := "", false
	for _, r := range doc.Records {
		if !started || r.Chapter != current {
			if started {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "## %s\n\n", escapeInline(chapterLabel(r.Chapter)))
			b.WriteString("| Artykuł | Akcja | Czas | Treść |\n|---|---|---|---|\n")
			current, started = r.Chapter, true
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			escapeCell(r.Ref), escapeCell(r.Action), escapeCell(r.Time), escapeCell(r.Text))
	}
	return b.String()
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the Markdown report to an HTML fragment.
func HTML(doc doctree.Document) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(doc)), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(strings.Join(strings.Fields(s), " "))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeInline(s), "|", `\|`)
}
