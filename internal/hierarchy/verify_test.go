package hierarchy

import (
	"strings"
	"testing"
)

// roundTripCorpus holds representative section shapes; every entry must
// survive segment-then-reconstitute byte-for-byte in canonical form.
var roundTripCorpus = []string{
	`1. Definitions. (a) "Person" means an individual. (b) "Entity" means a corporation.`,
	"This section has no markers at all.",
	"1. Definitions.\n(a) Person.\n(i) An individual.\n(ii) A trust.\n(b) Entity.\n2. Scope.\n",
	"1. (i) foo (a) bar",
	"(a) foo (i) bar (ii) baz",
	"(a) intro (i) first (1) deep",
	"12-a. Compound labels.\n12-b. More of them.\n13. Plain again.\n",
	"1. General rule.\n(a) Scope as\n   wrapped onto the next line.\n(A) Clause one.\n(B) Clause two.\n",
	"(a) see (i) one and again (i) two",
	"1. one (a) alpha (b) beta\n2. two\n(a) gamma\n(i) roman\n(ii) numeral\n",
	"1. intro\n(a) first\n(a) second\n",
	"1. as limited by paragraph (b) below (a) first\n(b) second\n",
}

func TestVerify_RoundTripCorpus(t *testing.T) {
	for _, text := range roundTripCorpus {
		res := Segment("101", text)
		v := Verify(res.SectionText, res.Records, text, 0)
		if !v.OK {
			t.Errorf("round trip failed for %q: diff at %d, context %q, unresolved %v",
				text, v.DiffIndex, v.Context, v.Unresolved)
		}
		if len(v.Unresolved) != 0 {
			t.Errorf("unexpected unresolved tokens for %q: %v", text, v.Unresolved)
		}
	}
}

func TestVerify_DetectsCorruptedRecord(t *testing.T) {
	text := `1. Definitions. (a) "Person" means an individual. (b) "Entity" means a corporation.`
	res := Segment("", text)
	if len(res.Records) < 2 {
		t.Fatalf("expected records, got %d", len(res.Records))
	}

	res.Records[1].Text = "CORRUPTED CONTENT"
	v := Verify(res.SectionText, res.Records, text, 0)

	if v.OK {
		t.Fatal("expected verification failure")
	}
	if v.DiffIndex < 0 || v.DiffIndex >= len(text) {
		t.Errorf("diff index %d out of range [0, %d)", v.DiffIndex, len(text))
	}
	if v.Context == "" {
		t.Error("expected a context window")
	}
}

func TestVerify_ReportsUnresolvedTokens(t *testing.T) {
	v := Verify("intro {{PARAGRAPH_9.z}} outro", nil, "intro  outro", 0)
	if len(v.Unresolved) != 1 || v.Unresolved[0] != "{{PARAGRAPH_9.z}}" {
		t.Errorf("expected one unresolved token, got %v", v.Unresolved)
	}
	if v.OK {
		t.Error("text with an unresolved token must not verify")
	}
}

func TestVerify_RecursionLimit(t *testing.T) {
	// A record whose text contains its own token would expand forever;
	// the depth bound must report it instead of looping.
	tok := NewToken("", LevelParagraph, "1.a")
	records := []Subunit{{
		Type:   LevelParagraph,
		Marker: "1.a",
		Token:  tok,
		Text:   "loop " + tok,
	}}
	v := Verify(tok, records, "anything", 0)

	if v.OK {
		t.Fatal("cyclic token graph must not verify")
	}
	if !v.DepthExceeded {
		t.Error("expected DepthExceeded to be reported")
	}
}

func TestVerify_CitationNamespaceIgnored(t *testing.T) {
	// {#...} citation tokens are a foreign namespace; they pass through
	// expansion untouched and are not counted as unresolved.
	text := "1. As provided in {#c1} the rule applies."
	res := Segment("", text)
	v := Verify(res.SectionText, res.Records, text, 0)
	if !v.OK {
		t.Errorf("expected round trip with citation token, diff at %d", v.DiffIndex)
	}
	if len(v.Unresolved) != 0 {
		t.Errorf("citation tokens must not be unresolved, got %v", v.Unresolved)
	}
}

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  a  b  ", "a b"},
		{"a\n\n\nb", "a b"},
		{"a\t b\r\nc", "a b c"},
		{"", ""},
		{"already canonical", "already canonical"},
	}
	for _, c := range cases {
		if got := Canonicalize(c.in); got != c.want {
			t.Errorf("Canonicalize(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestVerify_MarkerRenderingRestoresPrefixes(t *testing.T) {
	res := Segment("", "1. intro\n(a) alpha\n")
	byToken := make(map[string]Subunit)
	for _, r := range res.Records {
		byToken[r.Token] = r
	}
	expanded, exceeded := expandTokens(res.SectionText, byToken, DefaultMaxExpandDepth)
	if exceeded {
		t.Fatal("unexpected depth overrun")
	}
	if !strings.Contains(expanded, "1. intro") || !strings.Contains(expanded, "(a) alpha") {
		t.Errorf("expected marker prefixes restored, got %q", expanded)
	}
}
