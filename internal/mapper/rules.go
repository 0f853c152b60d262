// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"context"
	"fmt"

	"github.com/pdiddy/docpipe/internal/content"
	"github.com/pdiddy/docpipe/pkg/types"
)

// RuleResolver maps placeholders by a fixed name-to-section table: TITLE to
// the title section, SECTION_N to the Nth numbered section, and so on. Names
// outside the vocabulary fail with UnknownPlaceholderError; recognized names
// the document cannot supply fail with UnresolvedPlaceholderError.
type RuleResolver struct{}

func (RuleResolver) Resolve(_ context.Context, placeholders []types.Placeholder, doc *content.Document) (types.Mapping, error) {
	m := types.Mapping{}
	for _, p := range placeholders {
		key, err := sectionKeyFor(p)
		if err != nil {
			return nil, err
		}
		section, ok := doc.Section(key)
		if !ok {
			return nil, &UnresolvedPlaceholderError{
				Name:   p.Name,
				Reason: fmt.Sprintf("content document has no %s section (%d numbered sections available)", key, doc.NumberedSections()),
			}
		}
		m[p.Name] = section.Text
	}
	return m, nil
}

func sectionKeyFor(p types.Placeholder) (string, error) {
	switch p.Kind {
	case types.KindTitle:
		return "title", nil
	case types.KindSubtitle:
		return "subtitle", nil
	case types.KindBody:
		return "body", nil
	case types.KindDate:
		return "date", nil
	case types.KindTOC:
		return "toc", nil
	case types.KindSection:
		return fmt.Sprintf("section_%d", p.Section), nil
	}
	return "", &UnknownPlaceholderError{Name: p.Name}
}
