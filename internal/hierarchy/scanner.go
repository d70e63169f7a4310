package hierarchy

import (
	"sort"
	"strings"
)

// Marker is a recognized subunit prefix found in section text. Offsets are
// byte positions into the scanned text; Start covers any leading indentation
// consumed by the pattern. Markers are immutable once produced.
type Marker struct {
	Start int
	End   int
	Level string
	Rank  int
	Label string

	prio int // registration priority, for stable ordering at equal offsets
}

// Scan finds every hierarchy marker in text and returns them in document
// order. An empty result means the text carries no recognizable structure;
// callers treat it as a single opaque leaf, not an error.
//
// Overlap resolution is by registry priority: a match whose start offset is
// already claimed by an earlier-registered level is dropped. When the text
// immediately after an accepted subsection marker begins with a deeper-level
// marker, that marker is accepted too, and the check repeats after each
// acceptance. Compact openings like "1. (a) ..." therefore yield both
// markers, while a parenthesized label later in the sentence is prose and is
// left for the flattener's re-scan.
func Scan(text string) []Marker {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	claimed := make(map[int]bool)
	var markers []Marker

	for prio, def := range levels {
		for _, loc := range def.re.FindAllStringSubmatchIndex(text, -1) {
			if claimed[loc[0]] {
				continue
			}
			claimed[loc[0]] = true
			m := Marker{
				Start: loc[0],
				End:   loc[1],
				Level: def.Name,
				Rank:  def.Rank,
				Label: text[loc[2]:loc[3]],
				prio:  prio,
			}
			markers = append(markers, m)

			if def.Name == LevelSubsection {
				markers = append(markers, inlineChildren(text, m.End, claimed)...)
			}
		}
	}

	sort.Slice(markers, func(i, j int) bool {
		if markers[i].Start != markers[j].Start {
			return markers[i].Start < markers[j].Start
		}
		return markers[i].prio < markers[j].prio
	})
	return markers
}

// inlineChildren collects the chain of deeper-level markers that sit
// immediately after an accepted marker, each one anchored at the position
// the previous acceptance left off. The chain ends at the first position
// that does not begin with a marker, or at the end of the line.
func inlineChildren(text string, from int, claimed map[int]bool) []Marker {
	var found []Marker
	cursor := from
	for cursor < len(text) && text[cursor] != '\n' {
		m, ok := markerAt(text, cursor)
		if !ok || claimed[m.Start] {
			break
		}
		claimed[m.Start] = true
		found = append(found, m)
		cursor = m.End
	}
	return found
}

// markerAt tries every deeper-than-subsection level at exactly one position,
// in registry priority order.
func markerAt(text string, at int) (Marker, bool) {
	for prio, def := range levels {
		if def.Rank <= rankSubsection {
			continue
		}
		loc := def.inline.FindStringSubmatchIndex(text[at:])
		if loc == nil {
			continue
		}
		return Marker{
			Start: at + loc[0],
			End:   at + loc[1],
			Level: def.Name,
			Rank:  def.Rank,
			Label: text[at+loc[2] : at+loc[3]],
			prio:  prio,
		}, true
	}
	return Marker{}, false
}
