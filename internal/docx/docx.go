// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx reads and writes Word document containers. A .docx file is a
// zip archive of XML parts; this package keeps every part as raw bytes and
// edits text at the w:t run level, so everything outside the edited runs
// survives byte-for-byte — styles, tables, images, and parts this package
// knows nothing about.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
)

const mainPart = "word/document.xml"

// textPartPattern matches the package parts that carry visible document
// text: the main body plus section headers and footers.
var textPartPattern = regexp.MustCompile(`^word/(document\.xml|header\d*\.xml|footer\d*\.xml)$`)

// Document is an opened .docx package. Parts are held in memory; mutations
// stay in memory until SaveAs.
type Document struct {
	names []string // zip entry order, preserved on write
	parts map[string][]byte
}

// Open reads a .docx file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return doc, nil
}

// OpenReader reads a .docx package from an in-memory or seekable source.
func OpenReader(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading zip archive: %w", err)
	}

	d := &Document{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading part %s: %w", f.Name, err)
		}
		d.names = append(d.names, f.Name)
		d.parts[f.Name] = content
	}

	if _, ok := d.parts[mainPart]; !ok {
		return nil, fmt.Errorf("not a valid docx file: missing %s", mainPart)
	}
	return d, nil
}

// TextParts returns the names of parts carrying document text in reading
// order: the main body first, then headers and footers sorted by name.
func (d *Document) TextParts() []string {
	var extra []string
	for _, name := range d.names {
		if name != mainPart && textPartPattern.MatchString(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append([]string{mainPart}, extra...)
}

// ParagraphTexts returns the plain text of every paragraph across the text
// parts, top to bottom.
func (d *Document) ParagraphTexts() []string {
	var texts []string
	for _, name := range d.TextParts() {
		for _, p := range scanParagraphs(d.parts[name]) {
			texts = append(texts, p.text())
		}
	}
	return texts
}

// SaveAs writes the document to path. The archive is assembled fully in
// memory first, so a failed write never leaves a truncated file behind a
// successfully composed document.
func (d *Document) SaveAs(path string) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range d.names {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("creating part %s: %w", name, err)
		}
		if _, err := w.Write(d.parts[name]); err != nil {
			return fmt.Errorf("writing part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
