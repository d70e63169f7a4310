// Package hierarchy segments raw statutory section text into an addressable
// tree of subunits (subsection, paragraph, subparagraph, clause, item) and
// flattens it to storable records whose tokens reconstitute the original
// text exactly.
//
// The pipeline is pure and synchronous: Scan finds markers, Build assembles
// the tree, Flatten emits records, Verify proves the round trip. Nothing in
// this package performs I/O or holds state across sections, so sections may
// be processed in parallel freely.
package hierarchy

// Segment runs the full segmentation pipeline over one section's text.
func Segment(sectionID, text string) Result {
	return Flatten(sectionID, Build(text, Scan(text)))
}
