package structure

import (
	"regexp"
	"strings"
)

// UnknownTitle is returned when no gazette title can be found.
const UnknownTitle = "Unknown Title"

// titlePattern matches a gazette position marker up to the first year of the
// 2000s, across line breaks.
var titlePattern = regexp.MustCompile(`(?s)(Poz\.\s*\d+.*?)(20\d{2})`)

// ExtractTitle returns the leftmost "Poz. N ... 20YY" span of text.
func ExtractTitle(text string) string {
	m := titlePattern.FindStringSubmatch(text)
	if m == nil {
		return UnknownTitle
	}
	return strings.TrimSpace(m[1]) + " " + m[2]
}
