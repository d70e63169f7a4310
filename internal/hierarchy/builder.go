package hierarchy

import (
	"regexp"
	"strings"
)

// Node is one subunit in the parsed hierarchy. The synthetic root has an
// empty Level and rank 0; its children are the section's top-level forest.
// A node is exclusively owned by its parent. Token is assigned later, during
// flattening.
type Node struct {
	Level    string
	Rank     int
	Label    string
	Text     string
	Children []*Node
	Token    string

	// seg is the node's path segment: the label, plus an ordinal qualifier
	// ("a#2") when a sibling already used the same label. Set during
	// flattening alongside Token.
	seg string
}

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool { return n.Level == "" }

var continuationIndent = regexp.MustCompile(`\n[ \t]+`)

// Build consumes markers in scan order and assembles the hierarchy tree.
// It never fails: irregular input degrades to fewer, larger nodes.
//
// Placement is governed by three rules, applied in order:
//
//   - reattachOrphan: a subparagraph whose paragraph context was lost (no
//     intervening paragraph marker, or one already popped) climbs back to
//     the nearest open paragraph on the stack.
//   - closeSubparagraph: a paragraph marker terminates any open subparagraph
//     run, even though subparagraph outranks paragraph. Without this rule
//     "(a)" after "(i)" would nest under the subparagraph.
//   - generic: pop while the stack top's rank is >= the marker's rank.
func Build(text string, markers []Marker) *Node {
	root := &Node{Rank: rankRoot}
	stack := []*Node{root}
	prevEnd := 0

	for _, m := range markers {
		if m.Start > prevEnd {
			appendOwnText(stack[len(stack)-1], text[prevEnd:m.Start])
		}

		if !reattachOrphan(&stack, m) {
			for len(stack) > 1 {
				top := stack[len(stack)-1]
				if top.Rank >= m.Rank || closeSubparagraph(top, m) {
					stack = stack[:len(stack)-1]
					continue
				}
				break
			}
		}

		node := &Node{Level: m.Level, Rank: m.Rank, Label: m.Label}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
		prevEnd = m.End
	}

	if prevEnd < len(text) {
		appendOwnText(stack[len(stack)-1], text[prevEnd:])
	}
	return root
}

// reattachOrphan implements the orphan-subparagraph rule: when a
// subparagraph marker arrives and an open paragraph exists anywhere on the
// stack, the stack is trimmed down to (and including) that paragraph so the
// subparagraph attaches there. Returns false when the rule does not apply,
// leaving placement to the generic rank rule.
func reattachOrphan(stack *[]*Node, m Marker) bool {
	if m.Level != LevelSubparagraph {
		return false
	}
	s := *stack
	for i := len(s) - 1; i >= 1; i-- {
		if s[i].Level == LevelParagraph {
			*stack = s[:i+1]
			return true
		}
	}
	return false
}

// closeSubparagraph implements the sibling-demotion rule: a paragraph
// marker always pops an open subparagraph, overriding the generic rank
// comparison. Subparagraphs must never survive past a sibling paragraph
// boundary.
func closeSubparagraph(top *Node, m Marker) bool {
	return m.Level == LevelParagraph && top.Level == LevelSubparagraph
}

// appendOwnText adds interstitial or trailing text to a node, collapsing
// continuation-line indentation.
func appendOwnText(n *Node, chunk string) {
	chunk = continuationIndent.ReplaceAllString(chunk, "\n")
	if strings.TrimSpace(chunk) == "" {
		return
	}
	n.Text += chunk
}
