// Package render turns segmentation results into human-readable previews.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/dgallion1/statseg/internal/hierarchy"
)

// subunitToken matches embedded subunit placeholders, which carry no meaning
// in a preview and are stripped from record text.
var subunitToken = regexp.MustCompile(`\{\{[A-Z]+_[^{}\s]+\}\}`)

// Outline renders a segmentation result as a nested Markdown list in
// document order, one bullet per subunit.
func Outline(sectionID string, res hierarchy.Result) string {
	var sb strings.Builder
	if sectionID != "" {
		fmt.Fprintf(&sb, "# Section %s\n\n", sectionID)
	}
	for _, rec := range res.Records {
		depth := strings.Count(rec.Marker, ".")
		sb.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&sb, "- **%s** %s\n", displayMarker(rec), previewText(rec.Text))
	}
	return sb.String()
}

// HTML converts the outline to HTML for the preview endpoint.
func HTML(sectionID string, res hierarchy.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(Outline(sectionID, res)), &buf); err != nil {
		return nil, fmt.Errorf("render outline: %w", err)
	}
	return buf.Bytes(), nil
}

// displayMarker renders a record's label the way it reads in print:
// subsections as "3.", everything deeper as "(a)". Duplicate-label path
// qualifiers are addressing detail and are dropped.
func displayMarker(rec hierarchy.Subunit) string {
	label := rec.Marker
	if i := strings.LastIndexByte(label, '.'); i >= 0 {
		label = label[i+1:]
	}
	if i := strings.IndexByte(label, '#'); i >= 0 {
		label = label[:i]
	}
	if rec.Type == hierarchy.LevelSubsection {
		return label + "."
	}
	return "(" + label + ")"
}

// previewText collapses a record's text to a single line without tokens.
func previewText(text string) string {
	text = subunitToken.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
