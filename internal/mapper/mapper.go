// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapper assigns template placeholders to content sections. Two
// interchangeable strategies implement Resolver: a deterministic rule table
// and a single-shot LLM call. Both return a total mapping or an error —
// partial mappings never reach the composer.
package mapper

import (
	"context"

	"github.com/pdiddy/docpipe/internal/content"
	"github.com/pdiddy/docpipe/pkg/types"
)

// Resolver maps every given placeholder to replacement text drawn from doc.
// Implementations must assign all placeholders or fail without producing a
// mapping.
type Resolver interface {
	Resolve(ctx context.Context, placeholders []types.Placeholder, doc *content.Document) (types.Mapping, error)
}
