package hierarchy

import (
	"fmt"
	"regexp"
	"strings"
)

// Level names as they appear in subunit records and tokens.
const (
	LevelSubsection   = "subsection"
	LevelParagraph    = "paragraph"
	LevelSubparagraph = "subparagraph"
	LevelClause       = "clause"
	LevelItem         = "item"
)

// Structural ranks. Lower rank sits higher in the hierarchy. Rank 0 is
// reserved for the synthetic root node.
const (
	rankRoot         = 0
	rankSubsection   = 1
	rankParagraph    = 2
	rankSubparagraph = 3
	rankClause       = 4
	rankItem         = 5
)

// LevelDef describes one hierarchy level: its name, structural rank, and the
// marker shapes that introduce it. The anchored pattern matches at the start
// of a line during the scan pass; the inline pattern matches at the start of
// an arbitrary slice during inline-child detection and flatten re-scans.
// Both capture the label as the first submatch.
type LevelDef struct {
	Name   string
	Rank   int
	re     *regexp.Regexp // line-anchored
	inline *regexp.Regexp // anchored at slice start
	free   *regexp.Regexp // unanchored, for flatten re-scans
}

// romanInventory is the fixed set of subparagraph labels, i through xx.
// Restricting the inventory keeps long-letter paragraph labels like "(y)"
// from being claimed as Roman numerals.
var romanInventory = []string{
	"i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix", "x",
	"xi", "xii", "xiii", "xiv", "xv", "xvi", "xvii", "xviii", "xix", "xx",
}

// levels is the registry. Order is scan priority: when two levels match at
// the same offset the earlier entry wins. Subparagraph is registered ahead
// of paragraph on purpose: "(i)" is a Roman numeral before it is a letter.
// This precedence override is load-bearing; rank alone would not resolve it.
var levels = []LevelDef{
	mustLevel(LevelSubsection, rankSubsection, `(\d+(?:-[a-z]+)?)\.[ \t]+`),
	mustLevel(LevelSubparagraph, rankSubparagraph, `\((`+strings.Join(romanInventory, "|")+`)\)[ \t]*`),
	mustLevel(LevelParagraph, rankParagraph, `\(([a-z]{1,2})\)[ \t]*`),
	mustLevel(LevelClause, rankClause, `\(([A-Z]{1,2})\)[ \t]*`),
	mustLevel(LevelItem, rankItem, `\((\d+)\)[ \t]*`),
}

func mustLevel(name string, rank int, body string) LevelDef {
	if rank <= rankRoot {
		panic(fmt.Sprintf("hierarchy: level %s has non-positive rank %d", name, rank))
	}
	return LevelDef{
		Name:   name,
		Rank:   rank,
		re:     regexp.MustCompile(`(?m)^[ \t]*` + body),
		inline: regexp.MustCompile(`^[ \t]*` + body),
		free:   regexp.MustCompile(body),
	}
}

// Levels returns the ordered level definitions. The slice is shared; callers
// must not mutate it.
func Levels() []LevelDef {
	return levels
}

// levelByName returns the definition for a level name, or nil.
func levelByName(name string) *LevelDef {
	for i := range levels {
		if levels[i].Name == name {
			return &levels[i]
		}
	}
	return nil
}

// IsLevelName reports whether name is a recognized hierarchy level.
func IsLevelName(name string) bool {
	return levelByName(name) != nil
}
