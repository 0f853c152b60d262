// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose substitutes resolved placeholder values into an open
// template document. Only placeholder characters change; every other byte of
// the document, formatting included, is left exactly as read.
package compose

import (
	"fmt"

	"github.com/pdiddy/docpipe/internal/docx"
	"github.com/pdiddy/docpipe/internal/placeholder"
	"github.com/pdiddy/docpipe/pkg/types"
)

// UnresolvedPlaceholderError reports a placeholder occurrence in the template
// with no entry in the mapping. Composition aborts before any part is
// modified on the way to disk.
type UnresolvedPlaceholderError struct {
	Name string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("placeholder %q has no mapped value", e.Name)
}

// Compose replaces every placeholder occurrence in doc with its mapped text.
// The mapping must cover all placeholders the template contains; a missing
// entry aborts with UnresolvedPlaceholderError and the caller must not save
// the document.
func Compose(doc *docx.Document, m types.Mapping, pat placeholder.Pattern) error {
	re, err := pat.Regexp()
	if err != nil {
		return err
	}
	return doc.ReplaceMatches(re, func(groups []string) (string, error) {
		name := groups[1]
		value, ok := m[name]
		if !ok {
			return "", &UnresolvedPlaceholderError{Name: name}
		}
		return value, nil
	})
}
