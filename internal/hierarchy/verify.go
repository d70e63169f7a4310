package hierarchy

import (
	"regexp"
	"strings"
)

// DefaultMaxExpandDepth bounds token expansion during verification. A
// well-formed parse never nests tokens deeper than the level count; the
// bound exists so a malformed or cyclic token graph terminates
// deterministically instead of looping.
const DefaultMaxExpandDepth = 10

// VerifyResult reports the outcome of a reconstitution check.
type VerifyResult struct {
	OK            bool
	DiffIndex     int // first differing offset in canonical text, -1 when OK
	Context       string
	Unresolved    []string // tokens present in text with no matching record
	DepthExceeded bool
}

// Verify expands every token in sectionText back into its record's content,
// canonicalizes both sides, and asserts equality with the original. It is
// the correctness oracle for the whole pipeline: any change to the scanner,
// builder, addressing, or flattener must hold this check over a
// representative corpus. Verify never fails hard: mismatch, unresolved
// tokens, and expansion-depth overrun are all reported as values.
func Verify(sectionText string, records []Subunit, original string, maxDepth int) VerifyResult {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxExpandDepth
	}

	byToken := make(map[string]Subunit, len(records))
	for _, r := range records {
		byToken[r.Token] = r
	}

	expanded, exceeded := expandTokens(sectionText, byToken, maxDepth)
	unresolved := collectUnresolved(expanded, byToken)

	res := VerifyResult{DiffIndex: -1, Unresolved: unresolved, DepthExceeded: exceeded}
	if exceeded {
		return res
	}

	canon := Canonicalize(expanded)
	want := Canonicalize(original)
	if canon == want {
		res.OK = true
		return res
	}

	res.DiffIndex, res.Context = firstDiff(canon, want)
	return res
}

// expandTokens iteratively substitutes known tokens with their rendered
// content (marker prefix plus record text), which may itself contain
// tokens. Returns the expanded text and whether the depth bound was hit
// with known tokens still present.
func expandTokens(text string, byToken map[string]Subunit, maxDepth int) (string, bool) {
	for i := 0; i < maxDepth; i++ {
		if !containsKnownToken(text, byToken) {
			return text, false
		}
		text = tokenRef.ReplaceAllStringFunc(text, func(tok string) string {
			rec, ok := byToken[tok]
			if !ok {
				return tok
			}
			return renderMarker(rec.Type, lastPathSegment(rec.Marker)) + rec.Text
		})
	}
	return text, containsKnownToken(text, byToken)
}

func containsKnownToken(text string, byToken map[string]Subunit) bool {
	for _, tok := range tokenRef.FindAllString(text, -1) {
		if _, ok := byToken[tok]; ok {
			return true
		}
	}
	return false
}

// collectUnresolved returns, deduplicated, every token-shaped string in
// text that has no matching record.
func collectUnresolved(text string, byToken map[string]Subunit) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range tokenRef.FindAllString(text, -1) {
		if _, ok := byToken[tok]; ok || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// renderMarker reproduces the textual marker that introduced a subunit:
// "3. " for subsections, "(a) " for everything else. A duplicate-label
// qualifier on the path segment is internal addressing, never printed.
func renderMarker(level, seg string) string {
	if i := strings.IndexByte(seg, '#'); i >= 0 {
		seg = seg[:i]
	}
	if level == LevelSubsection {
		return seg + ". "
	}
	return "(" + seg + ") "
}

func lastPathSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Canonicalize reduces text to its comparison form: every whitespace run
// (spaces, tabs, newlines) collapses to a single space and the ends are
// trimmed. Segmentation rearranges only whitespace, so canonical equality
// is exact-content equality.
func Canonicalize(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// firstDiff returns the first differing byte offset between two canonical
// strings and a bounded context window around it.
func firstDiff(got, want string) (int, string) {
	n := min(len(got), len(want))
	idx := n
	for i := 0; i < n; i++ {
		if got[i] != want[i] {
			idx = i
			break
		}
	}
	lo := max(0, idx-40)
	hi := min(len(want), idx+40)
	return idx, want[lo:hi]
}
