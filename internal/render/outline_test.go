package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/statseg/internal/hierarchy"
)

func TestOutline_NestedBullets(t *testing.T) {
	text := "1. General rule.\n(a) First part.\n(i) Deeper still.\n"
	res := hierarchy.Segment("240.10", text)

	out := Outline("240.10", res)

	if !strings.Contains(out, "# Section 240.10") {
		t.Errorf("expected section heading, got:\n%s", out)
	}
	if !strings.Contains(out, "- **1.** General rule.") {
		t.Errorf("expected subsection bullet, got:\n%s", out)
	}
	if !strings.Contains(out, "  - **(a)** First part.") {
		t.Errorf("expected indented paragraph bullet, got:\n%s", out)
	}
	if !strings.Contains(out, "    - **(i)** Deeper still.") {
		t.Errorf("expected doubly indented subparagraph bullet, got:\n%s", out)
	}
	if strings.Contains(out, "{{") {
		t.Errorf("expected tokens stripped from preview, got:\n%s", out)
	}
}

func TestOutline_NoSectionID(t *testing.T) {
	res := hierarchy.Segment("", "1. Only text.\n")
	out := Outline("", res)
	if strings.Contains(out, "# Section") {
		t.Errorf("expected no heading without a section ID, got:\n%s", out)
	}
}

func TestHTML_ProducesList(t *testing.T) {
	res := hierarchy.Segment("9", "1. First.\n2. Second.\n")
	html, err := HTML("9", res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(html), "<ul>") {
		t.Errorf("expected an HTML list, got:\n%s", html)
	}
	if !strings.Contains(string(html), "<strong>1.</strong>") {
		t.Errorf("expected bold marker, got:\n%s", html)
	}
}
