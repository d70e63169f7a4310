// Package citation reduces inline cross-references to opaque {#cN} tokens
// before hierarchy segmentation runs. References like "paragraph (a) of this
// section" carry the same parenthesized shapes as structural markers; hiding
// them first keeps the scanner from claiming them. The {#...} namespace is
// disjoint from subunit tokens ({{LEVEL_...}}) by construction.
package citation

import (
	"fmt"
	"regexp"
	"strings"
)

// refPatterns match the reference shapes that appear inside statutory text.
// Order matters: longer, more specific shapes first so a qualified reference
// is swallowed whole.
var refPatterns = []*regexp.Regexp{
	// "subsection (a) of section 12 of this title", "paragraphs (a) and (b)"
	regexp.MustCompile(`(?i)\b(?:sub)?(?:section|paragraph|clause|division)s?\s+\([a-zA-Z0-9]{1,4}\)(?:\s*(?:,|and|or|through)\s*\([a-zA-Z0-9]{1,4}\))*(?:\s+of\s+(?:this\s+(?:section|subsection|paragraph|title|chapter|part|act)|section\s+[0-9][\w.-]*))?`),
	// "section 101 of this title", "sections 3 through 7"
	regexp.MustCompile(`(?i)\bsections?\s+[0-9][\w.-]*(?:\s*(?:,|and|or|through)\s*[0-9][\w.-]*)*(?:\s+of\s+this\s+(?:title|chapter|part|act))?`),
}

// tokenPattern is the emitted citation token shape.
var tokenPattern = regexp.MustCompile(`\{#c\d+\}`)

// Result is a tokenized text plus the mapping needed to restore it.
type Result struct {
	Text string
	Refs map[string]string // token -> original reference text
}

// Tokenize replaces every recognized cross-reference with a numbered token.
// Numbering is deterministic (pattern order, then document order), so
// re-running over the same input yields identical tokens.
func Tokenize(text string) Result {
	refs := make(map[string]string)
	n := 0
	for _, re := range refPatterns {
		text = re.ReplaceAllStringFunc(text, func(ref string) string {
			n++
			tok := fmt.Sprintf("{#c%d}", n)
			refs[tok] = ref
			return tok
		})
	}
	return Result{Text: text, Refs: refs}
}

// Expand restores tokenized references. Tokens without a mapping are left
// in place; they belong to some other producer and are not ours to touch.
func Expand(text string, refs map[string]string) string {
	if len(refs) == 0 {
		return text
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
		if ref, ok := refs[tok]; ok {
			return ref
		}
		return tok
	})
}

// HasToken reports whether text still carries citation tokens.
func HasToken(text string) bool {
	return strings.Contains(text, "{#c") && tokenPattern.MatchString(text)
}
