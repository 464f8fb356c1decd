package structure

import (
	"strings"
	"testing"
)

func TestTokenize_RoundTrip(t *testing.T) {
	input := "Poz. 12\nRozdział 1\nPrzepisy ogólne\nArt. 1. Ustawa określa:\n1) zasady;\n2) tryb.\n§ 2. Inne."
	var sb strings.Builder
	for _, tok := range Tokenize(input) {
		sb.WriteString(tok.Literal)
	}
	if sb.String() != input {
		t.Errorf("expected literals to reproduce input, got %q", sb.String())
	}
}

func TestTokenize_Kinds(t *testing.T) {
	toks := Tokenize("Rozdział 2 Art. 7. tekst 3) punkt § 4. dalej")

	want := []struct {
		kind   TokenKind
		number int
		label  string
	}{
		{TokenChapter, 2, "Rozdział 2"},
		{TokenText, 0, ""},
		{TokenArticle, 7, "Art. 7"},
		{TokenText, 0, ""},
		{TokenSubpoint, 3, "3)"},
		{TokenText, 0, ""},
		{TokenArticle, 4, "§ 4"},
		{TokenText, 0, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind {
			t.Errorf("token %d: expected kind %s, got %s", i, w.kind, toks[i].Kind)
		}
		if toks[i].Number != w.number {
			t.Errorf("token %d: expected number %d, got %d", i, w.number, toks[i].Number)
		}
		if toks[i].Label != w.label {
			t.Errorf("token %d: expected label %q, got %q", i, w.label, toks[i].Label)
		}
	}
}

func TestTokenize_Offsets(t *testing.T) {
	input := "wstęp Art. 1. treść"
	toks := Tokenize(input)
	for _, tok := range toks {
		if input[tok.Offset:tok.Offset+len(tok.Literal)] != tok.Literal {
			t.Errorf("offset %d does not point at %q", tok.Offset, tok.Literal)
		}
	}
}

func TestTokenize_NonBreakingSpaceInHeading(t *testing.T) {
	toks := Tokenize("Art.\u00a05. treść")
	if len(toks) == 0 || toks[0].Kind != TokenArticle || toks[0].Number != 5 {
		t.Fatalf("expected article 5 first, got %+v", toks)
	}
}

func TestTokenize_OversizedNumeralIsText(t *testing.T) {
	toks := Tokenize("Art. 99999999999999999999999. x")
	for _, tok := range toks {
		if tok.Kind == TokenArticle {
			t.Errorf("expected oversized numeral to degrade to text, got %+v", tok)
		}
	}
}

func TestTokenize_Empty(t *testing.T) {
	if toks := Tokenize(""); len(toks) != 0 {
		t.Errorf("expected no tokens, got %d", len(toks))
	}
}
