package textract

import (
	"io"
	"strings"
)

// TextExtractor reads plain UTF-8 text. Windows line endings are folded to
// "\n".
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}
