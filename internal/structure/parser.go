// Package structure turns the flat text of a legal act into an ordered
// sequence of chapter/article/subpoint fragments.
package structure

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/lexproc/internal/doctree"
)

// NoArticle labels fragments that precede the first accepted article.
const NoArticle = "Brak artykułu"

// Rejection records a heading that was not the expected next number and was
// therefore kept as body text.
type Rejection struct {
	Kind     TokenKind
	Heading  string
	Number   int
	Expected int
	Offset   int
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s %q at offset %d: expected %d, got %d", r.Kind, r.Heading, r.Offset, r.Expected, r.Number)
}

// Result is the output of one parse.
type Result struct {
	Fragments  []doctree.Fragment
	Rejections []Rejection
}

// Parser splits legal text into fragments. It holds no per-document state and
// may be reused across documents.
type Parser struct {
	log *slog.Logger
}

func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Parser{log: log}
}

// Parse tokenizes text and runs the structure state machine over it.
func (p *Parser) Parse(text string) Result {
	m := &machine{
		state:           inPreamble,
		expectedChapter: 1,
		expectedArticle: 1,
	}
	lx := newLexer(text)
	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		if rej, rejected := m.feed(tok); rejected {
			p.log.Warn("out-of-sequence heading kept as text",
				"kind", rej.Kind.String(),
				"heading", rej.Heading,
				"number", rej.Number,
				"expected", rej.Expected,
				"offset", rej.Offset,
			)
		}
	}
	m.flush()
	return Result{Fragments: m.fragments, Rejections: m.rejections}
}

type state int

const (
	inPreamble state = iota
	inArticleBody
	inSubpoint
)

// machine is the per-parse state. Both counters only ever move forward.
type machine struct {
	state           state
	expectedChapter int
	expectedArticle int

	chapter string
	article string

	main      []string
	subpoints []doctree.Subpoint
	open      []string // text of the subpoint being collected

	fragments  []doctree.Fragment
	rejections []Rejection
}

// feed advances the machine by one token. It reports a rejection when a
// heading was demoted to text.
func (m *machine) feed(tok Token) (Rejection, bool) {
	switch tok.Kind {
	case TokenChapter:
		if tok.Number != m.expectedChapter {
			return m.reject(tok, m.expectedChapter), true
		}
		m.flush()
		m.chapter = tok.Label
		m.expectedChapter++
		m.state = inPreamble

	case TokenArticle:
		if tok.Number != m.expectedArticle {
			return m.reject(tok, m.expectedArticle), true
		}
		m.flush()
		m.article = tok.Label
		m.expectedArticle++
		m.state = inArticleBody

	case TokenSubpoint:
		m.closeSubpoint()
		m.open = appendPiece(m.open, tok.Literal)
		m.state = inSubpoint

	default:
		m.text(tok.Literal)
	}
	return Rejection{}, false
}

func (m *machine) reject(tok Token, expected int) Rejection {
	rej := Rejection{
		Kind:     tok.Kind,
		Heading:  tok.Label,
		Number:   tok.Number,
		Expected: expected,
		Offset:   tok.Offset,
	}
	m.rejections = append(m.rejections, rej)
	m.text(tok.Literal)
	return rej
}

func (m *machine) text(s string) {
	if m.state == inSubpoint {
		m.open = appendPiece(m.open, s)
		return
	}
	m.main = appendPiece(m.main, s)
}

// closeSubpoint moves the open subpoint, if any, into the fragment. Ids are
// positional; the numeral printed in the source is not trusted.
func (m *machine) closeSubpoint() {
	if len(m.open) == 0 {
		return
	}
	m.subpoints = append(m.subpoints, doctree.Subpoint{
		ID:   fmt.Sprintf("%s.%d", m.articleID(), len(m.subpoints)+1),
		Text: strings.Join(m.open, " "),
	})
	m.open = nil
}

// flush emits the fragment collected so far. Empty segments emit nothing.
func (m *machine) flush() {
	m.closeSubpoint()
	if len(m.main) > 0 || len(m.subpoints) > 0 {
		m.fragments = append(m.fragments, doctree.Fragment{
			Chapter:   m.chapter,
			Article:   m.articleID(),
			Main:      strings.Join(m.main, " "),
			Subpoints: m.subpoints,
		})
	}
	m.main = nil
	m.subpoints = nil
}

func (m *machine) articleID() string {
	if m.article == "" {
		return NoArticle
	}
	return m.article
}

func appendPiece(pieces []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return pieces
	}
	return append(pieces, s)
}
