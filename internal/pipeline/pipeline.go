// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the conversion stages: read the template,
// parse the content, resolve the placeholder mapping, compose and save the
// output document.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/docpipe/internal/compose"
	"github.com/pdiddy/docpipe/internal/content"
	"github.com/pdiddy/docpipe/internal/docx"
	"github.com/pdiddy/docpipe/internal/mapper"
	"github.com/pdiddy/docpipe/internal/placeholder"
	"github.com/pdiddy/docpipe/pkg/types"
)

// Options configures one conversion run.
type Options struct {
	ContentPath  string
	TemplatePath string
	OutputPath   string

	// UseLLM selects the LLM mapping strategy instead of the rule table.
	UseLLM  bool
	Pattern placeholder.Pattern
	LLM     types.LLMConfig

	// Resolver overrides strategy selection when non-nil. Tests use this.
	Resolver mapper.Resolver
}

// Analyze opens the template at path and returns the distinct placeholder
// names in order of first appearance. The slice is non-nil even when the
// template has no placeholders.
func Analyze(path string, pat placeholder.Pattern) ([]string, error) {
	doc, err := docx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	found, err := placeholder.Extract(doc.ParagraphTexts(), pat)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(found))
	for _, p := range found {
		names = append(names, p.Name)
	}
	return names, nil
}

// Run executes the four-stage conversion and writes progress lines to w.
// No output file is created when any stage fails.
func Run(ctx context.Context, opts Options, w io.Writer) error {
	doc, err := docx.Open(opts.TemplatePath)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}
	found, err := placeholder.Extract(doc.ParagraphTexts(), opts.Pattern)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[1/4] template parsed: %d placeholders found\n", len(found))

	raw, err := os.ReadFile(opts.ContentPath)
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}
	parsed := content.Parse(string(raw))
	fmt.Fprintf(w, "[2/4] content parsed: %d sections\n", len(parsed.Sections))

	resolver := opts.Resolver
	strategy := "rules"
	if resolver == nil {
		if opts.UseLLM {
			resolver = mapper.NewLLMResolver(opts.LLM)
			strategy = "llm"
		} else {
			resolver = mapper.RuleResolver{}
		}
	}

	mapping, err := resolver.Resolve(ctx, found, parsed)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[3/4] mapping complete: %d entries (%s)\n", len(mapping), strategy)

	if err := compose.Compose(doc, mapping, opts.Pattern); err != nil {
		return err
	}
	if err := doc.SaveAs(opts.OutputPath); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Fprintf(w, "[4/4] wrote %s\n", opts.OutputPath)
	return nil
}

// BatchSummary reports the outcome of a directory conversion.
type BatchSummary struct {
	Converted []string
	Failed    map[string]error
}

// Total returns how many content files the batch attempted.
func (s BatchSummary) Total() int { return len(s.Converted) + len(s.Failed) }

// HasFailures reports whether any file failed to convert.
func (s BatchSummary) HasFailures() bool { return len(s.Failed) > 0 }

// RunBatch converts every .md file in contentDir against the same template,
// writing <name>.docx files into outDir. Files are processed in name order;
// a failing file is reported and skipped, the rest still convert.
func RunBatch(ctx context.Context, opts Options, contentDir, outDir string, w io.Writer) (BatchSummary, error) {
	entries, err := os.ReadDir(contentDir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading content directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	summary := BatchSummary{Failed: map[string]error{}}
	for _, name := range files {
		fileOpts := opts
		fileOpts.ContentPath = filepath.Join(contentDir, name)
		fileOpts.OutputPath = filepath.Join(outDir, strings.TrimSuffix(name, ".md")+".docx")

		fmt.Fprintf(w, "converting %s\n", name)
		if err := Run(ctx, fileOpts, w); err != nil {
			fmt.Fprintf(w, "warning: %s failed: %v\n", name, err)
			summary.Failed[name] = err
			continue
		}
		summary.Converted = append(summary.Converted, name)
	}

	fmt.Fprintf(w, "batch done: %d converted, %d failed\n", len(summary.Converted), len(summary.Failed))
	return summary, nil
}
