package structure

import (
	"fmt"
	"regexp"
	"strconv"
)

// TokenKind identifies a lexical unit of a legal act.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenChapter
	TokenArticle
	TokenSubpoint
)

func (k TokenKind) String() string {
	switch k {
	case TokenChapter:
		return "chapter"
	case TokenArticle:
		return "article"
	case TokenSubpoint:
		return "subpoint"
	default:
		return "text"
	}
}

// Token is a boundary marker or a run of plain text.
type Token struct {
	Kind    TokenKind
	Number  int    // Heading numeral, 0 for text
	Label   string // Canonical heading id, e.g. "Rozdział 2", "Art. 5", "§ 3", "4)"
	Literal string // Source text covered by the token
	Offset  int    // Byte offset of Literal in the source
}

const (
	chapterLabel = "Rozdział"
	articleLabel = "Art."
	sectionLabel = "§"
)

// boundaryPattern matches every heading family in one pass. Alternation is
// leftmost-first, so the earliest boundary in the text always wins.
//
//	group 1: chapter numeral  "Rozdział 3"
//	group 2: article numeral  "Art. 12."
//	group 3: section numeral  "§ 4."
//	group 4: subpoint numeral "2)"
var boundaryPattern = regexp.MustCompile(
	`Rozdział[\s\p{Zs}]+(\d+)` +
		`|Art\.[\s\p{Zs}]+(\d+)\.` +
		`|§[\s\p{Zs}]*(\d+)\.` +
		`|(\d+)\)`,
)

// lexer scans source text forward, emitting text and boundary tokens.
type lexer struct {
	src     string
	pos     int
	pending *Token
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// next returns the following token, or false at end of input.
func (l *lexer) next() (Token, bool) {
	if l.pending != nil {
		tok := *l.pending
		l.pending = nil
		return tok, true
	}
	if l.pos >= len(l.src) {
		return Token{}, false
	}

	loc := boundaryPattern.FindStringSubmatchIndex(l.src[l.pos:])
	if loc == nil {
		tok := Token{Kind: TokenText, Literal: l.src[l.pos:], Offset: l.pos}
		l.pos = len(l.src)
		return tok, true
	}

	start, end := l.pos+loc[0], l.pos+loc[1]
	boundary := l.boundary(loc, start, end)
	if start == l.pos {
		l.pos = end
		return boundary, true
	}

	text := Token{Kind: TokenText, Literal: l.src[l.pos:start], Offset: l.pos}
	l.pending = &boundary
	l.pos = end
	return text, true
}

// boundary converts a submatch index into a token. Numerals that do not fit
// an int degrade to plain text.
func (l *lexer) boundary(loc []int, start, end int) Token {
	literal := l.src[start:end]
	for group := 1; group <= 4; group++ {
		gs, ge := loc[2*group], loc[2*group+1]
		if gs < 0 {
			continue
		}
		n, err := strconv.Atoi(l.src[l.pos+gs : l.pos+ge])
		if err != nil {
			return Token{Kind: TokenText, Literal: literal, Offset: start}
		}
		tok := Token{Number: n, Literal: literal, Offset: start}
		switch group {
		case 1:
			tok.Kind = TokenChapter
			tok.Label = fmt.Sprintf("%s %d", chapterLabel, n)
		case 2:
			tok.Kind = TokenArticle
			tok.Label = fmt.Sprintf("%s %d", articleLabel, n)
		case 3:
			tok.Kind = TokenArticle
			tok.Label = fmt.Sprintf("%s %d", sectionLabel, n)
		case 4:
			tok.Kind = TokenSubpoint
			tok.Label = fmt.Sprintf("%d)", n)
		}
		return tok
	}
	return Token{Kind: TokenText, Literal: literal, Offset: start}
}

// Tokenize splits text into an ordered token stream. Concatenating every
// token's Literal reproduces the input exactly.
func Tokenize(text string) []Token {
	lx := newLexer(text)
	var toks []Token
	for {
		tok, ok := lx.next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}
