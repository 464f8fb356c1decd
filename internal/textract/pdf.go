package textract

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor reads the text layer of PDF files page by page. It tries the
// Go library first, then falls back to pdftotext if enabled.
type PDFExtractor struct {
	FallbackPdftotext bool
}

func (p *PDFExtractor) Extract(r io.Reader, filename string) (string, error) {
	ra, size, err := readAll(r)
	if err != nil {
		return "", &ExtractionError{Path: filename, Err: fmt.Errorf("read pdf: %w", err)}
	}

	reader, err := pdflib.NewReader(ra, size)
	if err == nil {
		var text string
		if text, err = pagesText(reader, filename); err == nil {
			return text, nil
		}
	} else {
		err = &ExtractionError{Path: filename, Err: err}
	}
	if !p.FallbackPdftotext {
		return "", err
	}

	// pdftotext needs a real file.
	tmp, tmpErr := os.CreateTemp("", "lexproc-pdf-*.pdf")
	if tmpErr != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, seekErr := ra.Seek(0, io.SeekStart); seekErr != nil {
		tmp.Close()
		return "", err
	}
	if _, copyErr := io.Copy(tmp, ra); copyErr != nil {
		tmp.Close()
		return "", err
	}
	tmp.Close()

	text, fbErr := extractPdftotext(tmpPath)
	if fbErr != nil {
		return "", err
	}
	return text, nil
}

// ExtractPath reads a PDF straight from disk.
func (p *PDFExtractor) ExtractPath(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return p.fallback(path, &ExtractionError{Path: path, Err: err})
	}
	text, err := pagesText(reader, path)
	f.Close()
	if err != nil {
		return p.fallback(path, err)
	}
	return text, nil
}

func (p *PDFExtractor) fallback(path string, cause error) (string, error) {
	if !p.FallbackPdftotext {
		return "", cause
	}
	text, err := extractPdftotext(path)
	if err != nil {
		return "", cause
	}
	return text, nil
}

// pagesText concatenates page text in page order. Pages without a text
// layer contribute an empty string; pages that fail to decode abort.
func pagesText(reader *pdflib.Reader, name string) (string, error) {
	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Path: name, Page: i, Err: err}
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-enc", "UTF-8", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.ReplaceAll(string(out), "\f", "\n"), nil
}
