// Package detect finds regulatory processes (actions and their deadlines)
// in parsed fragments.
package detect

import (
	"strings"

	"github.com/dgallion1/lexproc/internal/doctree"
)

// Detector scans fragments with a fixed vocabulary. It is read-only and safe
// for concurrent use.
type Detector struct {
	vocab Vocabulary
}

func New(vocab Vocabulary) *Detector {
	return &Detector{vocab: vocab}
}

// Detect returns process records for every fragment, in fragment order. The
// article body of a fragment is scanned before its subpoints.
func (d *Detector) Detect(fragments []doctree.Fragment) []doctree.Record {
	var records []doctree.Record
	for _, f := range fragments {
		records = append(records, d.fragment(f)...)
	}
	return records
}

func (d *Detector) fragment(f doctree.Fragment) []doctree.Record {
	var out []doctree.Record

	actions := d.Actions(f.Main)
	if len(actions) > 0 {
		deadline := d.Deadline(f.Main)
		for _, action := range actions {
			out = append(out, doctree.Record{
				Chapter: f.Chapter,
				Ref:     f.Article,
				Article: f.Article,
				Kind:    doctree.KindArticle,
				Text:    f.Main,
				Action:  action,
				Time:    deadline,
			})
			// A subpoint-less article still needs a leaf in the hierarchy.
			if len(f.Subpoints) == 0 {
				out = append(out, doctree.Record{
					Chapter: f.Chapter,
					Ref:     f.Article + ".0",
					Article: f.Article,
					Kind:    doctree.KindSynthetic,
					Text:    d.vocab.SyntheticText,
					Action:  action,
					Time:    deadline,
				})
			}
		}
	}

	for _, sp := range f.Subpoints {
		if strings.TrimSpace(sp.Text) == "" {
			continue
		}
		actions := d.Actions(sp.Text)
		if len(actions) == 0 {
			continue
		}
		deadline := d.Deadline(sp.Text)
		for _, action := range actions {
			out = append(out, doctree.Record{
				Chapter: f.Chapter,
				Ref:     sp.ID,
				Article: f.Article,
				Kind:    doctree.KindSubpoint,
				Text:    sp.Text,
				Action:  action,
				Time:    deadline,
			})
		}
	}
	return out
}

// Actions returns the names of every action matcher found in span, in
// vocabulary order.
func (d *Detector) Actions(span string) []string {
	var names []string
	for _, m := range d.vocab.Actions {
		if m.Pattern.MatchString(span) {
			names = append(names, m.Name)
		}
	}
	return names
}

// Deadline returns the text matched by the first time pattern in vocabulary
// order, or the no-deadline sentinel.
func (d *Detector) Deadline(span string) string {
	for _, m := range d.vocab.Times {
		if loc := m.Pattern.FindStringIndex(span); loc != nil {
			return span[loc[0]:loc[1]]
		}
	}
	return d.vocab.NoDeadline
}
