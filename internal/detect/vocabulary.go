package detect

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Matcher is a named pattern. Name is what gets reported; Pattern decides
// whether a span matches.
type Matcher struct {
	Name    string
	Pattern *regexp.Regexp
}

// Vocabulary is the ordered, language-specific word list driving detection.
// Order matters: actions are reported in list order and the first matching
// time pattern wins.
type Vocabulary struct {
	Actions       []Matcher
	Times         []Matcher
	NoDeadline    string // Time value when no time pattern matches
	SyntheticText string // Text of the ".0" leaf records
}

const (
	defaultNoDeadline    = "Brak terminu"
	defaultSyntheticText = "Brak podpunktów, ale proces wykryty"
)

// Literal builds a matcher for a fixed phrase.
func Literal(phrase string) Matcher {
	return Matcher{Name: phrase, Pattern: regexp.MustCompile(regexp.QuoteMeta(phrase))}
}

// Pattern builds a matcher reported under name.
func Pattern(name, expr string) Matcher {
	return Matcher{Name: name, Pattern: regexp.MustCompile(expr)}
}

// DefaultVocabulary returns the Polish vocabulary for Dziennik Ustaw acts.
func DefaultVocabulary() Vocabulary {
	actions := []Matcher{
		Literal("zmiana"),
		Literal("uchyla się"),
		Literal("dodaje się"),
		Literal("wchodzi w życie"),
		Literal("ustawa"),
		Literal("rozporządzenie"),
		Literal("decyzja"),
		Literal("wymagania"),
		Literal("procedura"),
		Literal("czynność"),
		Literal("zgoda"),
		Literal("przyjęcie"),
		Literal("wniosek"),
		// Inflected forms: "wydaje decyzję", "wydania decyzji", ...
		Pattern("wydanie decyzji", `wyda\p{L}*[\s\p{Zs}]+decyzj\p{L}*`),
		Literal("zatwierdzenie"),
		Literal("kontrola"),
		Literal("monitorowanie"),
		Literal("przeprowadzenie analizy"),
		Literal("zawieszenie"),
		Literal("unieważnienie"),
		Literal("dopuszczenie"),
		Literal("zezwolenie"),
		Literal("przekazanie"),
		Literal("wykonanie"),
		Literal("realizacja"),
		Literal("wymóg"),
		Literal("obowiązek"),
		Literal("ustanowienie"),
		Literal("ogłoszenie"),
		Literal("postępowanie"),
		Literal("złożenie sprawozdania"),
	}

	times := []Matcher{
		Pattern("N dni", `(\d{1,2}) dni`),
		Pattern("N miesięcy", `(\d{1,2}) miesięcy`),
		Pattern("do dnia N", `do dnia (\d{1,2})`),
		Pattern("od dnia N", `od dnia (\d{1,2})`),
		Pattern("po upływie N dni", `po upływie (\d{1,2}) dni`),
		Pattern("po upływie N miesięcy", `po upływie (\d{1,2}) miesięcy`),
		Pattern("z dniem N", `z dniem (\d{1,2})`),
		Literal("wchodzi w życie"),
		Literal("termin"),
		Literal("okres"),
		Literal("w terminie"),
		Literal("najpóźniej"),
		Literal("przed upływem"),
		Literal("po upływie"),
		Literal("do końca roku"),
		Literal("w ciągu"),
		Literal("od dnia"),
		Literal("nie później niż"),
		Literal("do końca kwartału"),
		Literal("w przeciągu"),
		Literal("od daty"),
	}

	return Vocabulary{
		Actions:       actions,
		Times:         times,
		NoDeadline:    defaultNoDeadline,
		SyntheticText: defaultSyntheticText,
	}
}

// vocabularyFile is the YAML shape accepted by LoadVocabulary.
type vocabularyFile struct {
	Actions       []matcherEntry `yaml:"actions"`
	Times         []matcherEntry `yaml:"times"`
	NoDeadline    string         `yaml:"no_deadline"`
	SyntheticText string         `yaml:"synthetic_text"`
}

type matcherEntry struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// LoadVocabulary reads a YAML vocabulary file. Entries without a pattern
// match their name literally; unset sentinels fall back to the defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes a YAML vocabulary document.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Vocabulary{}, fmt.Errorf("decode vocabulary: %w", err)
	}
	if len(file.Actions) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary has no actions")
	}

	actions, err := compileEntries("actions", file.Actions)
	if err != nil {
		return Vocabulary{}, err
	}
	times, err := compileEntries("times", file.Times)
	if err != nil {
		return Vocabulary{}, err
	}

	v := Vocabulary{
		Actions:       actions,
		Times:         times,
		NoDeadline:    file.NoDeadline,
		SyntheticText: file.SyntheticText,
	}
	if v.NoDeadline == "" {
		v.NoDeadline = defaultNoDeadline
	}
	if v.SyntheticText == "" {
		v.SyntheticText = defaultSyntheticText
	}
	return v, nil
}

func compileEntries(section string, entries []matcherEntry) ([]Matcher, error) {
	out := make([]Matcher, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%s[%d]: name is required", section, i)
		}
		expr := e.Pattern
		if expr == "" {
			expr = regexp.QuoteMeta(e.Name)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%s[%d] %q: %w", section, i, e.Name, err)
		}
		out = append(out, Matcher{Name: e.Name, Pattern: re})
	}
	return out, nil
}
