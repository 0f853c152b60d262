// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared across pipeline stages.
package types

import "fmt"

// PlaceholderKind classifies a placeholder name from the fixed template
// vocabulary. Names that match the delimiter pattern but not the vocabulary
// are KindUnknown; the rule-based resolver rejects those, the LLM resolver
// may still attempt them.
type PlaceholderKind string

const (
	KindTitle    PlaceholderKind = "title"
	KindSubtitle PlaceholderKind = "subtitle"
	KindBody     PlaceholderKind = "body"
	KindSection  PlaceholderKind = "section"
	KindDate     PlaceholderKind = "date"
	KindTOC      PlaceholderKind = "toc"
	KindUnknown  PlaceholderKind = "unknown"
)

// Placeholder is one distinct placeholder name found in a template.
// Identity is the name; a name that occurs several times in the template is
// still a single Placeholder.
type Placeholder struct {
	// Name is the bare identifier between the delimiters, e.g. "TITLE" or
	// "SECTION_2".
	Name string `json:"name" yaml:"name"`

	Kind PlaceholderKind `json:"kind" yaml:"kind"`

	// Section is the 1-based index parsed from SECTION_<N> names; 0 for
	// every other kind.
	Section int `json:"section,omitempty" yaml:"section,omitempty"`

	// Occurrences counts how many times the name appears in the template.
	Occurrences int `json:"occurrences" yaml:"occurrences"`
}

// SectionKind tags a content fragment produced by the content parser.
type SectionKind string

const (
	SectionTitle    SectionKind = "title"
	SectionSubtitle SectionKind = "subtitle"
	SectionNumbered SectionKind = "section"
	SectionBody     SectionKind = "body"
	SectionDate     SectionKind = "date"
	SectionTOC      SectionKind = "toc"
)

// ContentSection is a semantic fragment of the input content document.
// Immutable once produced by the parser.
type ContentSection struct {
	Kind SectionKind `json:"kind" yaml:"kind"`

	// Index is the 1-based position of a numbered section; 0 otherwise.
	Index int `json:"index,omitempty" yaml:"index,omitempty"`

	// Heading is the source heading text for title, subtitle and numbered
	// sections; empty for synthesized fragments.
	Heading string `json:"heading,omitempty" yaml:"heading,omitempty"`

	// Text is the payload substituted into the template.
	Text string `json:"text" yaml:"text"`
}

// Key returns the stable identifier used to address this section in mapping
// rules and in the LLM reply schema: "title", "subtitle", "section_<N>",
// "body", "date", or "toc".
func (s ContentSection) Key() string {
	if s.Kind == SectionNumbered {
		return fmt.Sprintf("section_%d", s.Index)
	}
	return string(s.Kind)
}

// Mapping assigns each placeholder name the text that replaces it. A mapping
// handed to the composer must be total over the template's placeholders;
// both resolver strategies guarantee that or fail without producing one.
type Mapping map[string]string
