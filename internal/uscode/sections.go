package uscode

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Section is one statutory section read from a USLM title file.
type Section struct {
	Identifier string // USLM identifier, e.g. "/us/usc/t18/s1030"
	Num        string // section number, e.g. "1030"
	Heading    string
	Body       string // raw text, line-broken at block boundaries
}

// blockElements end a line in the reassembled body text, preserving the
// line-anchored marker shapes the segmentation scanner depends on.
var blockElements = map[string]bool{
	"p":             true,
	"subsection":    true,
	"paragraph":     true,
	"subparagraph":  true,
	"clause":        true,
	"item":          true,
	"chapeau":       true,
	"continuation":  true,
	"heading":       true,
	"num":           true,
	"content":       true,
	"quotedContent": true,
}

// ReadSections parses a USLM title document and returns its sections in
// file order. Only the textual content is kept; USLM markup is flattened
// to plain text with newlines at block boundaries.
func ReadSections(r io.Reader) ([]Section, error) {
	dec := xml.NewDecoder(r)

	var sections []Section
	var cur *Section
	depth := 0      // nesting depth inside the current <section>
	inNum := false  // inside the section's own <num>
	inHead := false // inside the section's own <heading>
	var body strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse uslm: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == "section" && cur == nil {
				cur = &Section{Identifier: attr(t, "identifier")}
				depth = 0
				body.Reset()
				continue
			}
			if cur == nil {
				continue
			}
			depth++
			switch {
			case name == "num" && depth == 1:
				inNum = true
				if v := attr(t, "value"); v != "" {
					cur.Num = v
				}
			case name == "heading" && depth == 1:
				inHead = true
			}

		case xml.EndElement:
			name := t.Name.Local
			if cur == nil {
				continue
			}
			if name == "section" && depth == 0 {
				cur.Heading = strings.TrimSpace(cur.Heading)
				cur.Body = strings.TrimSpace(body.String())
				sections = append(sections, *cur)
				cur = nil
				continue
			}
			depth--
			switch {
			case name == "num" && depth == 0:
				inNum = false
			case name == "heading" && depth == 0:
				inHead = false
			}
			if blockElements[name] {
				body.WriteByte('\n')
			}

		case xml.CharData:
			if cur == nil {
				continue
			}
			text := string(t)
			switch {
			case inNum:
				if cur.Num == "" {
					cur.Num = strings.Trim(strings.TrimSpace(text), "§. ")
				}
			case inHead:
				cur.Heading += text
			default:
				body.WriteString(text)
			}
		}
	}

	return sections, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
