package hierarchy

import (
	"fmt"
	"sort"
	"strings"
)

// Subunit is the durable flat record for one subunit, the payload handed to
// persistence. Immutable once emitted.
type Subunit struct {
	Type    string `json:"type"`
	Marker  string `json:"marker"` // dotted path, e.g. "3.a.ii"; repeated labels qualify as "3.a#2"
	Token   string `json:"token"`
	SortKey string `json:"sort_key"`
	Text    string `json:"text"`
}

// Result is the output of flattening one section.
type Result struct {
	SectionText string    `json:"section_text"`
	Records     []Subunit `json:"subunits"`
}

// maxInlineDepth bounds recursive inline extraction. Statutory nesting is
// five levels deep at most; ten leaves comfortable headroom.
const maxInlineDepth = 10

// Flatten walks the hierarchy tree, assigns tokens, recovers inline
// enumerations the line-oriented builder could not see, and emits flat
// subunit records in document order. The section's own serialized text has
// every child's content replaced by its token. Flatten takes ownership of
// the tree.
func Flatten(sectionID string, root *Node) Result {
	used := make(map[string]bool)
	assignTokens(sectionID, root, nil, used)

	var records []Subunit
	var chain []*Node
	var childText []string
	for _, child := range root.Children {
		records = append(records, walkFlatten(sectionID, child, chain, used)...)
		childText = append(childText, child.Token)
	}

	return Result{
		SectionText: joinSerialized(strings.TrimSpace(root.Text), childText),
		Records:     records,
	}
}

// assignTokens gives every non-root node its path-derived token before any
// text is serialized. Repeated labels among siblings get an ordinal-qualified
// path segment ("a", then "a#2") so every path, and with it every token,
// stays unique within the document. The qualifier is internal addressing;
// rendered markers never show it. Every assigned path is recorded in used so
// inline extraction can avoid colliding with structural paths.
func assignTokens(sectionID string, n *Node, segs []string, used map[string]bool) {
	counts := make(map[string]int)
	for _, c := range n.Children {
		key := c.Level + "/" + c.Label
		counts[key]++
		c.seg = c.Label
		if k := counts[key]; k > 1 {
			c.seg = fmt.Sprintf("%s#%d", c.Label, k)
		}

		childSegs := append(append([]string(nil), segs...), c.seg)
		path := Path(childSegs...)
		used[path] = true
		c.Token = NewToken(sectionID, c.Level, path)
		assignTokens(sectionID, c, childSegs, used)
	}
}

// walkFlatten emits the record for one structural node, then its inline
// extractions, then its structural children, preserving document order.
func walkFlatten(sectionID string, n *Node, chain []*Node, used map[string]bool) []Subunit {
	chain = append(chain, n)
	path := chainPath(chain)

	// Structural children anywhere on the chain are already captured; their
	// (level,label) pairs seed the dedup set so a textual echo of a sibling
	// or child marker is left alone.
	seen := make(map[string]bool)
	for _, a := range chain {
		for _, c := range a.Children {
			seen[c.Level+"/"+c.Label] = true
		}
	}

	var inline []Subunit
	own := extractInline(sectionID, n.Text, chain, seen, used, 0, &inline)

	var childText []string
	for _, c := range n.Children {
		childText = append(childText, c.Token)
	}

	records := []Subunit{{
		Type:    n.Level,
		Marker:  path,
		Token:   n.Token,
		SortKey: SortKey(chain),
		Text:    joinSerialized(strings.TrimSpace(own), childText),
	}}
	records = append(records, inline...)
	for _, c := range n.Children {
		records = append(records, walkFlatten(sectionID, c, chain, used)...)
	}
	return records
}

// inlineCandidate is one marker-shaped match found mid-text.
type inlineCandidate struct {
	start, end int
	level      string
	rank       int
	label      string
	prio       int
}

// extractInline re-scans a node's own text for enumerations that appear
// mid-sentence, invisible to the line-anchored scanner. A match attaches to
// the deepest chain ancestor that outranks it: a paragraph found inside a
// subparagraph's text becomes a sibling of that subparagraph, not a child.
// The shallowest rank present forms the top-level run, and each run member's
// span (marker through to the next member or end of text) is replaced by its
// token. Extraction recurses into each carved span, bounded by
// maxInlineDepth, sharing the caller's dedup set so a (level,label) pair is
// extracted at most once per structural node. Returns the node's leftover
// text with tokens substituted.
func extractInline(sectionID, text string, chain []*Node, seen, used map[string]bool, depth int, out *[]Subunit) string {
	if depth >= maxInlineDepth || strings.TrimSpace(text) == "" {
		return text
	}

	cands := findInlineCandidates(text, chain[0].Rank, seen)
	if len(cands) == 0 {
		return text
	}

	// Only the shallowest rank present starts a run at this depth; deeper
	// matches live inside a member's span and are found by recursion. A
	// (level,label) pair already extracted stays behind as literal text.
	topRank := cands[0].rank
	for _, c := range cands {
		if c.rank < topRank {
			topRank = c.rank
		}
	}
	var run []inlineCandidate
	for _, c := range cands {
		key := c.level + "/" + c.label
		if c.rank != topRank || seen[key] {
			continue
		}
		seen[key] = true
		run = append(run, c)
	}
	if len(run) == 0 {
		return text
	}

	var sb strings.Builder
	sb.WriteString(text[:run[0].start])
	for i, c := range run {
		spanEnd := len(text)
		if i+1 < len(run) {
			spanEnd = run[i+1].start
		}

		node := &Node{Level: c.level, Rank: c.rank, Label: c.label, seg: c.label}
		owners := ownerChain(chain, c.rank)
		unitChain := make([]*Node, len(owners)+1)
		copy(unitChain, owners)
		unitChain[len(owners)] = node

		path := chainPath(unitChain)
		for k := 2; used[path]; k++ {
			node.seg = fmt.Sprintf("%s#%d", c.label, k)
			path = chainPath(unitChain)
		}
		used[path] = true
		token := NewToken(sectionID, c.level, path)

		rec := Subunit{
			Type:    c.level,
			Marker:  path,
			Token:   token,
			SortKey: SortKey(unitChain),
		}
		*out = append(*out, rec)
		idx := len(*out) - 1

		// Carve the span and recurse; nested extractions land after this
		// record, keeping document order.
		unitText := extractInline(sectionID, text[c.end:spanEnd], unitChain, seen, used, depth+1, out)
		(*out)[idx].Text = strings.TrimSpace(unitText)

		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(token)
	}
	return sb.String()
}

// findInlineCandidates locates every eligible marker-shaped match in text,
// resolving same-offset collisions by registry priority and filtering pairs
// already captured structurally or extracted earlier. Only levels deeper
// than the outermost chain node are eligible; anything shallower has no
// ancestor to attach to.
func findInlineCandidates(text string, minRank int, seen map[string]bool) []inlineCandidate {
	claimed := make(map[int]bool)
	var cands []inlineCandidate

	for prio, def := range levels {
		if def.Rank <= minRank {
			continue
		}
		for _, loc := range def.free.FindAllStringSubmatchIndex(text, -1) {
			if claimed[loc[0]] {
				continue
			}
			claimed[loc[0]] = true
			label := text[loc[2]:loc[3]]
			if seen[def.Name+"/"+label] {
				continue
			}
			cands = append(cands, inlineCandidate{
				start: loc[0],
				end:   loc[1],
				level: def.Name,
				rank:  def.Rank,
				label: label,
				prio:  prio,
			})
		}
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		return cands[i].prio < cands[j].prio
	})
	return cands
}

// ownerChain trims an ancestor chain to end at the deepest element that can
// parent a marker of the given rank. Chain ranks increase strictly, so the
// result is the longest prefix whose last element outranks the marker.
func ownerChain(chain []*Node, rank int) []*Node {
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Rank < rank {
			return chain[:i+1]
		}
	}
	return nil
}

// chainPath renders the dotted path for an ancestor chain, using each node's
// qualified path segment.
func chainPath(chain []*Node) string {
	segs := make([]string, len(chain))
	for i, n := range chain {
		segs[i] = n.seg
		if segs[i] == "" {
			segs[i] = n.Label
		}
	}
	return Path(segs...)
}

// joinSerialized assembles a node's serialized text: leftover own text
// followed by newline-joined child tokens.
func joinSerialized(own string, childTokens []string) string {
	if len(childTokens) == 0 {
		return own
	}
	joined := strings.Join(childTokens, "\n")
	if own == "" {
		return joined
	}
	return own + "\n" + joined
}
