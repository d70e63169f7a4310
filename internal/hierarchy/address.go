package hierarchy

import (
	"fmt"
	"regexp"
	"strings"
)

// Path joins subunit labels into a dotted address, e.g. "3.a.ii".
func Path(labels ...string) string {
	return strings.Join(labels, ".")
}

// tokenShape is the exact emitted token grammar: level name, an optional
// section identifier, and the dotted path, underscore-separated inside
// double braces. Section identifiers are sanitized to contain no
// underscores, and level names never do, so the split is unambiguous.
var tokenShape = regexp.MustCompile(`^\{\{([A-Z]+)_(?:([^_{}\s]+)_)?([^_{}\s]+)\}\}$`)

// tokenRef matches candidate tokens embedded in text.
var tokenRef = regexp.MustCompile(`\{\{[A-Z]+_[^{}\s]+\}\}`)

// NewToken builds the opaque placeholder for a subunit. The sectionID field
// is omitted entirely when empty. The double-brace namespace is disjoint
// from citation tokens ({#...}).
func NewToken(sectionID, level, path string) string {
	name := strings.ToUpper(level)
	if sectionID == "" {
		return "{{" + name + "_" + path + "}}"
	}
	return "{{" + name + "_" + sanitizeSectionID(sectionID) + "_" + path + "}}"
}

// ParseToken is the inverse of NewToken. It rejects any string that is not
// exactly of the emitted shape, including unknown level names.
func ParseToken(token string) (level, sectionID, path string, err error) {
	m := tokenShape.FindStringSubmatch(token)
	if m == nil {
		return "", "", "", fmt.Errorf("not a subunit token: %q", token)
	}
	level = strings.ToLower(m[1])
	if !IsLevelName(level) {
		return "", "", "", fmt.Errorf("unknown level in token: %q", token)
	}
	return level, m[2], m[3], nil
}

// sanitizeSectionID keeps section identifiers underscore-free so tokens can
// be parsed back deterministically.
func sanitizeSectionID(id string) string {
	return strings.ReplaceAll(id, "_", "-")
}

// SortKey computes the lexicographic ordering key for a subunit from its
// ancestor chain (outermost first, root excluded). Each segment is the
// level's rank digit followed by the zero-padded decoded label index, so
// keys compare consistently with legal reading order even across
// non-contiguous labels: "3" < "3-a" < "4". A duplicate-label occurrence
// appends its ordinal so repeated siblings keep strictly increasing keys.
func SortKey(chain []*Node) string {
	segs := make([]string, 0, len(chain))
	for _, n := range chain {
		s := sortSegment(n.Level, n.Rank, n.Label)
		if ord := segOrdinal(n.seg); ord > 1 {
			s += fmt.Sprintf("%03d", ord)
		}
		segs = append(segs, s)
	}
	return strings.Join(segs, ".")
}

// segOrdinal reads the duplicate-label qualifier from a path segment; "a#2"
// reads 2, unqualified segments read 0.
func segOrdinal(seg string) int {
	i := strings.IndexByte(seg, '#')
	if i < 0 {
		return 0
	}
	return digitsValue(seg[i+1:])
}

// sortSegment decodes one label into its rank-prefixed index. Subsection
// labels may carry a hyphen-letter suffix ("3-a"); the suffix orders after
// the bare number via a secondary alpha index, placing "3" before "3-a"
// before "4". Five digits hold every suffix up to four letters ("12-aaaa"
// decodes to 18279); longer ones clamp rather than widen the key.
func sortSegment(level string, rank int, label string) string {
	switch level {
	case LevelSubsection:
		num, suffix := splitSubsectionLabel(label)
		return fmt.Sprintf("%d%04d%05d", rank, num, min(alphaIndex(suffix), 99999))
	case LevelParagraph, LevelClause:
		return fmt.Sprintf("%d%04d", rank, alphaIndex(strings.ToLower(label)))
	case LevelSubparagraph:
		return fmt.Sprintf("%d%04d", rank, romanToInt(label))
	default: // item
		return fmt.Sprintf("%d%04d", rank, digitsValue(label))
	}
}

func splitSubsectionLabel(label string) (num int, suffix string) {
	if i := strings.IndexByte(label, '-'); i >= 0 {
		return digitsValue(label[:i]), label[i+1:]
	}
	return digitsValue(label), ""
}

func digitsValue(s string) int {
	v := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		v = v*10 + int(r-'0')
	}
	return v
}

// alphaIndex decodes a bijective base-26 letter label: a=1 .. z=26, aa=27.
// Empty input decodes to 0.
func alphaIndex(s string) int {
	v := 0
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return 0
		}
		v = v*26 + int(r-'a') + 1
	}
	return v
}

var romanValues = map[byte]int{'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100}

// romanToInt decodes a lowercase Roman numeral using standard subtractive
// notation. Unknown characters decode to 0.
func romanToInt(s string) int {
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0
		}
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}
