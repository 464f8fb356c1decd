// Package textract turns source documents into a single string of text in
// reading order. Only the text layer is used; layout is ignored.
package textract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Extractor converts raw document bytes into plain text.
type Extractor interface {
	Extract(r io.Reader, filename string) (string, error)
}

// Options tune extraction.
type Options struct {
	// FallbackPdftotext retries failed PDFs with the pdftotext binary.
	FallbackPdftotext bool
}

// SupportedExtensions lists file extensions lexproc can read.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ExtractionError reports a document that could not be read. It is fatal for
// the run that hit it.
type ExtractionError struct {
	Path string
	Page int // 1-based page, 0 when not page specific
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extract %s: page %d: %v", e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ForFile returns the extractor for a filename.
func ForFile(filename string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, &ExtractionError{Path: filename, Err: fmt.Errorf("unsupported file extension: %q", ext)}
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ExtractFile reads the document at path. The file is closed before
// returning.
func ExtractFile(path string, opts Options) (string, error) {
	ex, err := ForFile(path, opts)
	if err != nil {
		return "", err
	}
	if pdf, ok := ex.(*PDFExtractor); ok {
		text, err := pdf.ExtractPath(path)
		if err != nil {
			return "", err
		}
		return normalize(text), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()
	return extractWith(ex, f, path)
}

// ExtractReader reads a document from r; filename selects the format.
func ExtractReader(r io.Reader, filename string, opts Options) (string, error) {
	ex, err := ForFile(filename, opts)
	if err != nil {
		return "", err
	}
	return extractWith(ex, r, filename)
}

func extractWith(ex Extractor, r io.Reader, name string) (string, error) {
	text, err := ex.Extract(r, name)
	if err != nil {
		var extErr *ExtractionError
		if errors.As(err, &extErr) {
			return "", err
		}
		return "", &ExtractionError{Path: name, Err: err}
	}
	return normalize(text), nil
}

// normalize composes decomposed diacritics ("z" + U+0307 → "ż") so that
// keyword and heading patterns see a single form.
func normalize(text string) string {
	return norm.NFC.String(text)
}

// readAll buffers r for libraries that need random access.
func readAll(r io.Reader) (*bytes.Reader, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
