package detect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultVocabulary_Sizes(t *testing.T) {
	v := DefaultVocabulary()
	if len(v.Actions) != 31 {
		t.Errorf("expected 31 actions, got %d", len(v.Actions))
	}
	if len(v.Times) != 21 {
		t.Errorf("expected 21 time patterns, got %d", len(v.Times))
	}
	if v.NoDeadline != "Brak terminu" {
		t.Errorf("expected no-deadline sentinel %q, got %q", "Brak terminu", v.NoDeadline)
	}
}

func TestDefaultVocabulary_InflectedDecision(t *testing.T) {
	d := New(DefaultVocabulary())
	for _, span := range []string{"wydanie decyzji", "organ wydaje decyzję", "przed wydaniem decyzji"} {
		found := false
		for _, a := range d.Actions(span) {
			if a == "wydanie decyzji" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q to match %q", span, "wydanie decyzji")
		}
	}
}

func TestParseVocabulary_Valid(t *testing.T) {
	doc := `
actions:
  - name: shall notify
  - name: permit
    pattern: 'permit(s|ted)?'
times:
  - name: N days
    pattern: '\d+ days'
  - name: without delay
no_deadline: none
`
	v, err := ParseVocabulary([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Actions) != 2 || len(v.Times) != 2 {
		t.Fatalf("expected 2 actions and 2 times, got %d and %d", len(v.Actions), len(v.Times))
	}
	if !v.Actions[1].Pattern.MatchString("permitted") {
		t.Error("expected custom pattern to be compiled")
	}
	if !v.Times[1].Pattern.MatchString("without delay") {
		t.Error("expected nameless pattern to match its name literally")
	}
	if v.NoDeadline != "none" {
		t.Errorf("expected %q, got %q", "none", v.NoDeadline)
	}
	if v.SyntheticText != defaultSyntheticText {
		t.Errorf("expected default synthetic text, got %q", v.SyntheticText)
	}
}

func TestParseVocabulary_LiteralNamesAreQuoted(t *testing.T) {
	v, err := ParseVocabulary([]byte("actions:\n  - name: 'art. 5 (1)'\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Actions[0].Pattern.MatchString("zgodnie z art. 5 (1)") {
		t.Error("expected literal match of name containing metacharacters")
	}
	if v.Actions[0].Pattern.MatchString("art: 5 1") {
		t.Error("expected metacharacters to be escaped")
	}
}

func TestParseVocabulary_InvalidPattern(t *testing.T) {
	_, err := ParseVocabulary([]byte("actions:\n  - name: broken\n    pattern: '(unclosed'\n"))
	if err == nil {
		t.Fatal("expected error for invalid regex")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected error to name the entry, got %v", err)
	}
}

func TestParseVocabulary_NoActions(t *testing.T) {
	if _, err := ParseVocabulary([]byte("times: []\n")); err == nil {
		t.Error("expected error for vocabulary without actions")
	}
}

func TestParseVocabulary_MissingName(t *testing.T) {
	if _, err := ParseVocabulary([]byte("actions:\n  - pattern: x\n")); err == nil {
		t.Error("expected error for entry without name")
	}
}

func TestLoadVocabulary_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	if err := os.WriteFile(path, []byte("actions:\n  - name: obowiązek\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Actions) != 1 || v.Actions[0].Name != "obowiązek" {
		t.Errorf("unexpected actions %+v", v.Actions)
	}
}

func TestLoadVocabulary_MissingFile(t *testing.T) {
	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
