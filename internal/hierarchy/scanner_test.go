package hierarchy

import "testing"

func TestScan_LineAnchoredMarkers(t *testing.T) {
	text := "1. Definitions.\n(a) Person.\n(i) An individual.\n(A) With capacity.\n(1) Any age.\n"
	markers := Scan(text)

	want := []struct {
		level string
		label string
	}{
		{LevelSubsection, "1"},
		{LevelParagraph, "a"},
		{LevelSubparagraph, "i"},
		{LevelClause, "A"},
		{LevelItem, "1"},
	}
	if len(markers) != len(want) {
		t.Fatalf("expected %d markers, got %d: %+v", len(want), len(markers), markers)
	}
	for i, w := range want {
		if markers[i].Level != w.level || markers[i].Label != w.label {
			t.Errorf("marker[%d]: expected %s %q, got %s %q", i, w.level, w.label, markers[i].Level, markers[i].Label)
		}
	}
	for i := 1; i < len(markers); i++ {
		if markers[i].Start <= markers[i-1].Start {
			t.Errorf("marker[%d] start %d not after marker[%d] start %d", i, markers[i].Start, i-1, markers[i-1].Start)
		}
	}
}

func TestScan_RomanBeatsLetterAtSameOffset(t *testing.T) {
	// "(i)" is both a valid Roman numeral and a valid letter label; the
	// registry resolves the collision in favor of subparagraph.
	markers := Scan("(i) first of a run")
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if markers[0].Level != LevelSubparagraph {
		t.Errorf("expected subparagraph, got %s", markers[0].Level)
	}
}

func TestScan_LetterOutsideRomanInventory(t *testing.T) {
	markers := Scan("(b) not a roman numeral")
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if markers[0].Level != LevelParagraph || markers[0].Label != "b" {
		t.Errorf("expected paragraph b, got %s %q", markers[0].Level, markers[0].Label)
	}
}

func TestScan_InlineChildAfterSubsection(t *testing.T) {
	// Only the marker the subsection's text begins with is accepted here;
	// "(b)" later in the sentence is left for the flatten re-scan.
	markers := Scan("1. (a) first item (b) second item")

	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d: %+v", len(markers), markers)
	}
	if markers[0].Level != LevelSubsection || markers[0].Label != "1" {
		t.Errorf("marker[0]: expected subsection 1, got %s %q", markers[0].Level, markers[0].Label)
	}
	if markers[1].Level != LevelParagraph || markers[1].Label != "a" {
		t.Errorf("marker[1]: expected paragraph a, got %s %q", markers[1].Level, markers[1].Label)
	}
}

func TestScan_InlineChildChains(t *testing.T) {
	markers := Scan("1. (a) (i) nested opening")

	want := []struct {
		level string
		label string
	}{
		{LevelSubsection, "1"},
		{LevelParagraph, "a"},
		{LevelSubparagraph, "i"},
	}
	if len(markers) != len(want) {
		t.Fatalf("expected %d markers, got %d: %+v", len(want), len(markers), markers)
	}
	for i, w := range want {
		if markers[i].Level != w.level || markers[i].Label != w.label {
			t.Errorf("marker[%d]: expected %s %q, got %s %q", i, w.level, w.label, markers[i].Level, markers[i].Label)
		}
	}
}

func TestScan_ProseLabelNotAccepted(t *testing.T) {
	// A parenthesized letter referenced mid-sentence is prose, not a
	// structural marker.
	markers := Scan("1. Except as provided in (c) below, this subsection applies.")
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d: %+v", len(markers), markers)
	}
	if markers[0].Level != LevelSubsection || markers[0].Label != "1" {
		t.Errorf("expected subsection 1, got %s %q", markers[0].Level, markers[0].Label)
	}
}

func TestScan_InlineChainStopsAtNewline(t *testing.T) {
	// "(b)" on the following line is mid-sentence there, so neither the
	// anchored pass nor the inline chain may claim it.
	markers := Scan("1. (a) first\nsome text (b) not anchored\n")
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d: %+v", len(markers), markers)
	}
	if markers[1].Label != "a" {
		t.Errorf("expected second marker a, got %q", markers[1].Label)
	}
}

func TestScan_SubsectionHyphenSuffix(t *testing.T) {
	markers := Scan("12-a. Compound label.")
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if markers[0].Level != LevelSubsection || markers[0].Label != "12-a" {
		t.Errorf("expected subsection 12-a, got %s %q", markers[0].Level, markers[0].Label)
	}
}

func TestScan_NoMarkers(t *testing.T) {
	if m := Scan("This section has no markers at all."); len(m) != 0 {
		t.Errorf("expected no markers, got %+v", m)
	}
	if m := Scan(""); len(m) != 0 {
		t.Errorf("expected no markers for empty text, got %+v", m)
	}
	if m := Scan("   \n\t\n"); len(m) != 0 {
		t.Errorf("expected no markers for blank text, got %+v", m)
	}
}

func TestScan_IndentedMarker(t *testing.T) {
	markers := Scan("  (a) indented paragraph")
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if markers[0].Start != 0 {
		t.Errorf("expected marker to start at 0 (covering indentation), got %d", markers[0].Start)
	}
}
