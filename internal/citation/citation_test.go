package citation

import (
	"strings"
	"testing"
)

func TestTokenize_ParenthesizedReference(t *testing.T) {
	text := "1. The rule in subsection (a) of this section applies.\n(a) The rule.\n"
	res := Tokenize(text)

	if strings.Contains(res.Text, "subsection (a)") {
		t.Errorf("reference not tokenized: %q", res.Text)
	}
	if !strings.Contains(res.Text, "{#c1}") {
		t.Errorf("expected {#c1} in %q", res.Text)
	}
	// The structural marker on its own line must survive.
	if !strings.Contains(res.Text, "\n(a) The rule.") {
		t.Errorf("structural marker lost: %q", res.Text)
	}
	if len(res.Refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(res.Refs))
	}
}

func TestTokenize_SectionNumberReference(t *testing.T) {
	res := Tokenize("As defined in section 101 of this title, terms apply.")
	if strings.Contains(res.Text, "section 101") {
		t.Errorf("reference not tokenized: %q", res.Text)
	}
	if res.Refs["{#c1}"] != "section 101 of this title" {
		t.Errorf("unexpected ref capture: %q", res.Refs["{#c1}"])
	}
}

func TestTokenize_CompoundReferenceSwallowedWhole(t *testing.T) {
	res := Tokenize("See paragraphs (a) and (b) of section 12 for details.")
	if len(res.Refs) != 1 {
		t.Fatalf("expected a single token for the compound reference, got %v", res.Refs)
	}
}

func TestTokenize_NoReferences(t *testing.T) {
	text := "1. Definitions.\n(a) Person means an individual.\n"
	res := Tokenize(text)
	if res.Text != text {
		t.Errorf("text without references must pass through unchanged, got %q", res.Text)
	}
	if len(res.Refs) != 0 {
		t.Errorf("expected no refs, got %v", res.Refs)
	}
}

func TestExpand_RoundTrip(t *testing.T) {
	text := "Apply subsection (a) of this section and section 7 of this act together."
	res := Tokenize(text)
	if got := Expand(res.Text, res.Refs); got != text {
		t.Errorf("round trip failed:\n  got  %q\n  want %q", got, text)
	}
}

func TestExpand_ForeignTokenLeftAlone(t *testing.T) {
	if got := Expand("before {#c9} after", map[string]string{"{#c1}": "x"}); got != "before {#c9} after" {
		t.Errorf("foreign token must pass through, got %q", got)
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	text := "See subsection (b) of this section and section 3 of this title."
	first := Tokenize(text)
	second := Tokenize(text)
	if first.Text != second.Text {
		t.Errorf("tokenization not deterministic: %q vs %q", first.Text, second.Text)
	}
}
