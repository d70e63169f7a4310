package hierarchy

import "testing"

func buildFrom(text string) *Node {
	return Build(text, Scan(text))
}

func TestBuild_NoMarkersYieldsOpaqueLeaf(t *testing.T) {
	text := "This section has no markers at all."
	root := buildFrom(text)
	if !root.IsRoot() {
		t.Fatal("expected synthetic root")
	}
	if len(root.Children) != 0 {
		t.Fatalf("expected no children, got %d", len(root.Children))
	}
	if root.Text != text {
		t.Errorf("expected root text %q, got %q", text, root.Text)
	}
}

func TestBuild_BasicNesting(t *testing.T) {
	root := buildFrom("1. Definitions.\n(a) Person.\n(i) An individual.\n(b) Entity.\n2. Scope.\n")

	if len(root.Children) != 2 {
		t.Fatalf("expected 2 subsections, got %d", len(root.Children))
	}
	one := root.Children[0]
	if one.Label != "1" || len(one.Children) != 2 {
		t.Fatalf("subsection 1: expected 2 paragraphs, got %d (label %q)", len(one.Children), one.Label)
	}
	a := one.Children[0]
	if a.Label != "a" || len(a.Children) != 1 || a.Children[0].Label != "i" {
		t.Errorf("paragraph a: expected child i, got %+v", a.Children)
	}
	if b := one.Children[1]; b.Label != "b" || len(b.Children) != 0 {
		t.Errorf("paragraph b: expected leaf, got %+v", b)
	}
	if two := root.Children[1]; two.Label != "2" {
		t.Errorf("expected second subsection 2, got %q", two.Label)
	}
}

func TestBuild_SiblingDemotion(t *testing.T) {
	// A paragraph marker must close an open subparagraph even though
	// subparagraph carries the deeper rank: "(a)" after "(i)" becomes a
	// sibling of "(i)" under "1", never its parent or child.
	root := buildFrom("1. intro\n(i) foo\n(a) bar\n")

	if len(root.Children) != 1 {
		t.Fatalf("expected 1 subsection, got %d", len(root.Children))
	}
	one := root.Children[0]
	if len(one.Children) != 2 {
		t.Fatalf("expected i and a under subsection 1, got %d children", len(one.Children))
	}
	if one.Children[0].Level != LevelSubparagraph || one.Children[0].Label != "i" {
		t.Errorf("first child: expected subparagraph i, got %s %q", one.Children[0].Level, one.Children[0].Label)
	}
	if one.Children[1].Level != LevelParagraph || one.Children[1].Label != "a" {
		t.Errorf("second child: expected paragraph a, got %s %q", one.Children[1].Level, one.Children[1].Label)
	}
}

func TestBuild_OrphanSubparagraphReattaches(t *testing.T) {
	// "(ii)" arrives while "(i)" is open; it must climb back to the
	// nearest open paragraph rather than nest under "(i)".
	root := buildFrom("(a) foo\n(i) bar\n(ii) baz\n")

	if len(root.Children) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(root.Children))
	}
	a := root.Children[0]
	if len(a.Children) != 2 {
		t.Fatalf("expected i and ii under a, got %d children", len(a.Children))
	}
	if a.Children[0].Label != "i" || a.Children[1].Label != "ii" {
		t.Errorf("expected children i, ii; got %q, %q", a.Children[0].Label, a.Children[1].Label)
	}
}

func TestBuild_DeepOrphanClimbsPastClause(t *testing.T) {
	// Stack is paragraph > subparagraph > clause when "(ii)" arrives; the
	// reattach rule trims all the way back to the paragraph.
	root := buildFrom("(a) intro\n(i) first\n(A) deep\n(ii) second\n")

	a := root.Children[0]
	if len(a.Children) != 2 {
		t.Fatalf("expected i and ii under a, got %d children", len(a.Children))
	}
	if a.Children[1].Label != "ii" {
		t.Errorf("expected second child ii, got %q", a.Children[1].Label)
	}
	i := a.Children[0]
	if len(i.Children) != 1 || i.Children[0].Label != "A" {
		t.Errorf("expected clause A under i, got %+v", i.Children)
	}
}

func TestBuild_InterstitialTextLandsOnOpenNode(t *testing.T) {
	root := buildFrom("1. Definitions apply here.\n(a) Person means person.\n")
	one := root.Children[0]
	if got := one.Text; got != "Definitions apply here.\n" {
		t.Errorf("subsection text: got %q", got)
	}
	a := one.Children[0]
	if got := a.Text; got != "Person means person.\n" {
		t.Errorf("paragraph text: got %q", got)
	}
}

func TestBuild_ContinuationIndentationCollapsed(t *testing.T) {
	root := buildFrom("(a) a definition that wraps\n    onto a continuation line\n")
	a := root.Children[0]
	want := "a definition that wraps\nonto a continuation line\n"
	if a.Text != want {
		t.Errorf("expected %q, got %q", want, a.Text)
	}
}

func TestBuild_TrailingTextGoesToInnermostNode(t *testing.T) {
	root := buildFrom("1. intro\n(a) body text trailing")
	a := root.Children[0].Children[0]
	if a.Text != "body text trailing" {
		t.Errorf("expected trailing text on paragraph, got %q", a.Text)
	}
}

func TestBuild_RankPopsSiblingsAndUncles(t *testing.T) {
	root := buildFrom("1. one\n(a) a\n(i) i\n2. two\n")
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 subsections, got %d", len(root.Children))
	}
	if root.Children[1].Label != "2" || len(root.Children[1].Children) != 0 {
		t.Errorf("subsection 2 should be a fresh leaf, got %+v", root.Children[1])
	}
}
