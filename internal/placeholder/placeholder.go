// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package placeholder finds and classifies substitution tokens in template
// text. A token's name is what appears between delimiters: SECTION_3 in
// {{SECTION_3}}, [[TITLE]], <<TITLE>> or ___TITLE___ depending on the
// pattern in effect.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pdiddy/docpipe/pkg/types"
)

// Pattern names one of the supported delimiter styles.
type Pattern string

const (
	PatternDefault    Pattern = "default"    // {{NAME}}
	PatternBracket    Pattern = "bracket"    // [[NAME]]
	PatternAngle      Pattern = "angle"      // <<NAME>>
	PatternUnderscore Pattern = "underscore" // ___NAME___
)

// Names are uppercase letters, digits and underscores: TITLE, SECTION_12.
// Anything else between delimiters is left alone.
const nameExpr = `([A-Z0-9_]+)`

var patternRes = map[Pattern]*regexp.Regexp{
	PatternDefault:    regexp.MustCompile(`\{\{` + nameExpr + `\}\}`),
	PatternBracket:    regexp.MustCompile(`\[\[` + nameExpr + `\]\]`),
	PatternAngle:      regexp.MustCompile(`<<` + nameExpr + `>>`),
	PatternUnderscore: regexp.MustCompile(`___` + nameExpr + `___`),
}

// Valid reports whether p is one of the supported patterns.
func (p Pattern) Valid() bool {
	_, ok := patternRes[p]
	return ok
}

// Regexp returns the compiled expression for p. Group 1 captures the name.
func (p Pattern) Regexp() (*regexp.Regexp, error) {
	re, ok := patternRes[p]
	if !ok {
		return nil, fmt.Errorf("unknown placeholder pattern %q", p)
	}
	return re, nil
}

var sectionNameRe = regexp.MustCompile(`^SECTION_([1-9][0-9]*)$`)

// Classify maps a placeholder name to its kind. For section placeholders the
// second return value carries the 1-based section index; it is zero
// otherwise.
func Classify(name string) (types.PlaceholderKind, int) {
	switch name {
	case "TITLE":
		return types.KindTitle, 0
	case "SUBTITLE":
		return types.KindSubtitle, 0
	case "BODY":
		return types.KindBody, 0
	case "DATE":
		return types.KindDate, 0
	case "TOC":
		return types.KindTOC, 0
	}
	if m := sectionNameRe.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return types.KindSection, n
		}
	}
	return types.KindUnknown, 0
}

// Extract scans paragraph texts for placeholders of the given pattern. Each
// distinct name appears once, in order of first occurrence, with every
// occurrence counted. A template with no placeholders yields an empty,
// non-nil slice.
func Extract(paragraphs []string, pat Pattern) ([]types.Placeholder, error) {
	re, err := pat.Regexp()
	if err != nil {
		return nil, err
	}

	found := []types.Placeholder{}
	index := map[string]int{}

	for _, text := range paragraphs {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := m[1]
			if i, ok := index[name]; ok {
				found[i].Occurrences++
				continue
			}
			kind, section := Classify(name)
			index[name] = len(found)
			found = append(found, types.Placeholder{
				Name:        name,
				Kind:        kind,
				Section:     section,
				Occurrences: 1,
			})
		}
	}
	return found, nil
}
