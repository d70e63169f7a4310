package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/statseg/internal/hierarchy"
)

func TestBuildStoreRequests_ParentMapping(t *testing.T) {
	text := "1. General rule.\n(a) First part.\n(b) Second part.\n"
	res := hierarchy.Segment("240.10", text)

	sec, subs := BuildStoreRequests("General rule", res, nil)
	if sec.Heading != "General rule" {
		t.Errorf("expected heading to carry through, got %q", sec.Heading)
	}
	if !sec.Verified {
		t.Error("expected section request to be marked verified")
	}

	wantParents := map[string]string{
		"1":   "",
		"1.a": "1",
		"1.b": "1",
	}
	if len(subs) != len(wantParents) {
		t.Fatalf("expected %d subunits, got %d", len(wantParents), len(subs))
	}
	for _, sub := range subs {
		want, ok := wantParents[sub.ID]
		if !ok {
			t.Errorf("unexpected subunit ID %q", sub.ID)
			continue
		}
		if sub.Req.ParentID != want {
			t.Errorf("subunit %q: expected parent %q, got %q", sub.ID, want, sub.Req.ParentID)
		}
		if sub.Req.Marker != sub.ID {
			t.Errorf("subunit %q: expected marker to equal ID, got %q", sub.ID, sub.Req.Marker)
		}
		if sub.Req.SortKey == "" {
			t.Errorf("subunit %q: expected a sort key", sub.ID)
		}
	}
}

func TestBuildStoreRequests_ExpandsCitations(t *testing.T) {
	res := hierarchy.Result{
		SectionText: "Weapons defined in {#c1} are restricted.",
		Records: []hierarchy.Subunit{
			{Type: "subsection", Marker: "1", Text: "As limited by {#c1}."},
		},
	}
	refs := map[string]string{"{#c1}": "(section 400.00 of this chapter)"}

	sec, subs := BuildStoreRequests("", res, refs)
	if sec.Text != "Weapons defined in (section 400.00 of this chapter) are restricted." {
		t.Errorf("section text not expanded: %q", sec.Text)
	}
	if subs[0].Req.Text != "As limited by (section 400.00 of this chapter)." {
		t.Errorf("subunit text not expanded: %q", subs[0].Req.Text)
	}
}

func TestParentMarker(t *testing.T) {
	cases := []struct{ in, want string }{
		{"3", ""},
		{"3.a", "3"},
		{"3.a.ii", "3.a"},
		{"12-a", ""},
	}
	for _, c := range cases {
		if got := parentMarker(c.in); got != c.want {
			t.Errorf("parentMarker(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := 0; attempt < 6; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below one second", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap plus jitter", attempt, d)
		}
	}
}
