package uscode

import (
	"strings"
	"testing"
)

const uslmSample = `<?xml version="1.0" encoding="UTF-8"?>
<uscDoc xmlns="http://xml.house.gov/schemas/uslm/1.0">
  <main>
    <title identifier="/us/usc/t1">
      <section identifier="/us/usc/t1/s1">
        <num value="1">&#167; 1.</num>
        <heading>Words denoting number</heading>
        <chapeau>In determining the meaning of any Act of Congress&#8212;</chapeau>
        <paragraph>
          <num value="a">(a)</num>
          <content>words importing the singular include the plural;</content>
        </paragraph>
        <paragraph>
          <num value="b">(b)</num>
          <content>words importing the plural include the singular;</content>
        </paragraph>
      </section>
      <section identifier="/us/usc/t1/s2">
        <num value="2">&#167; 2.</num>
        <heading>County as including parish</heading>
        <content>The word "county" includes a parish.</content>
      </section>
    </title>
  </main>
</uscDoc>`

func TestReadSections_Basic(t *testing.T) {
	sections, err := ReadSections(strings.NewReader(uslmSample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	one := sections[0]
	if one.Num != "1" {
		t.Errorf("expected num 1, got %q", one.Num)
	}
	if one.Identifier != "/us/usc/t1/s1" {
		t.Errorf("unexpected identifier %q", one.Identifier)
	}
	if one.Heading != "Words denoting number" {
		t.Errorf("unexpected heading %q", one.Heading)
	}
	if !strings.Contains(one.Body, "(a)") || !strings.Contains(one.Body, "singular include the plural") {
		t.Errorf("body missing paragraph content: %q", one.Body)
	}

	two := sections[1]
	if two.Num != "2" || !strings.Contains(two.Body, "parish") {
		t.Errorf("unexpected second section: %+v", two)
	}
}

func TestReadSections_BlockBoundariesBecomeLines(t *testing.T) {
	sections, err := ReadSections(strings.NewReader(uslmSample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := sections[0].Body
	// "(a)" and "(b)" must start their own lines so the marker scanner
	// can anchor on them.
	lineWithA := false
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "(a)") {
			lineWithA = true
		}
	}
	if !lineWithA {
		t.Errorf("expected (a) to be line-anchored in body: %q", body)
	}
}

func TestReadSections_Empty(t *testing.T) {
	sections, err := ReadSections(strings.NewReader(`<doc></doc>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 0 {
		t.Errorf("expected no sections, got %d", len(sections))
	}
}
