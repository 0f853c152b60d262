// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content parses the Markdown-like input document into the ordered
// section list that mapping strategies draw from. Parsing is permissive: any
// text, headings or not, yields a usable document.
package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/docpipe/pkg/types"
)

// now is stubbed in tests.
var now = time.Now

const dateLayout = "January 2, 2006"

// Document holds the parsed sections in presentation order. The body, date
// and table-of-contents sections are always present.
type Document struct {
	Sections []types.ContentSection

	byKey map[string]int
}

// Section returns the section stored under key (e.g. "title", "section_2",
// "body"). The boolean is false when the input document had no such section.
func (d *Document) Section(key string) (types.ContentSection, bool) {
	i, ok := d.byKey[key]
	if !ok {
		return types.ContentSection{}, false
	}
	return d.Sections[i], true
}

// NumberedSections returns how many section_N entries the document carries.
func (d *Document) NumberedSections() int {
	n := 0
	for _, s := range d.Sections {
		if s.Kind == types.SectionNumbered {
			n++
		}
	}
	return n
}

// Parse segments src into content sections. The first level-one heading
// becomes the title; a level-two heading directly after it becomes the
// subtitle; every other level-two heading opens a numbered section that
// collects the text beneath it. All non-heading text, in order, forms the
// body. Parse never fails: a document with no headings still produces body,
// date and table-of-contents sections.
func Parse(src string) *Document {
	lines := strings.Split(src, "\n")

	var (
		title     string
		subtitle  string
		headings  []string
		bodies    [][]string
		bodyLines []string
	)
	sawTitle := false
	afterTitle := false // directly after the title, before any body text
	current := -1       // index into headings/bodies, -1 = before any section

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "# ") || trimmed == "#":
			if !sawTitle {
				title = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
				sawTitle = true
				afterTitle = true
				continue
			}
			// later level-one headings read as plain body text
			bodyLines = append(bodyLines, trimmed)
			afterTitle = false

		case strings.HasPrefix(trimmed, "## ") || trimmed == "##":
			text := strings.TrimSpace(strings.TrimPrefix(trimmed, "##"))
			if afterTitle && subtitle == "" {
				subtitle = text
				afterTitle = false
				continue
			}
			afterTitle = false
			headings = append(headings, text)
			bodies = append(bodies, nil)
			current = len(headings) - 1

		case trimmed == "":
			continue

		default:
			afterTitle = false
			bodyLines = append(bodyLines, trimmed)
			if current >= 0 {
				bodies[current] = append(bodies[current], trimmed)
			}
		}
	}

	doc := &Document{byKey: map[string]int{}}

	if sawTitle {
		doc.add(types.ContentSection{Kind: types.SectionTitle, Heading: title, Text: title})
	}
	if subtitle != "" {
		doc.add(types.ContentSection{Kind: types.SectionSubtitle, Heading: subtitle, Text: subtitle})
	}
	for i, h := range headings {
		text := h
		if body := strings.Join(bodies[i], "\n"); body != "" {
			text = h + "\n\n" + body
		}
		doc.add(types.ContentSection{Kind: types.SectionNumbered, Index: i + 1, Heading: h, Text: text})
	}

	doc.add(types.ContentSection{Kind: types.SectionBody, Text: strings.Join(bodyLines, "\n")})
	doc.add(types.ContentSection{Kind: types.SectionDate, Text: now().Format(dateLayout)})
	doc.add(types.ContentSection{Kind: types.SectionTOC, Text: outline(headings)})

	return doc
}

func (d *Document) add(s types.ContentSection) {
	d.byKey[s.Key()] = len(d.Sections)
	d.Sections = append(d.Sections, s)
}

// outline renders the numbered-section headings as a plain table of contents.
func outline(headings []string) string {
	var b strings.Builder
	for i, h := range headings {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, h)
	}
	return b.String()
}
