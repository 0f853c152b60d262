// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
)

// edit replaces the byte range [start,end) of a part with repl.
type edit struct {
	start, end int
	repl       []byte
}

// matchRepl is one regexp match over a paragraph's text plus its resolved
// replacement.
type matchRepl struct {
	a, b int // byte offsets in the paragraph text
	repl string
}

// ReplaceMatches rewrites every occurrence of re in the document's paragraph
// text. repl receives the submatches of one occurrence (index 0 is the whole
// match) and returns the text that takes its place. A match may span several
// runs: the run where the match starts receives the replacement and keeps its
// formatting; later covered runs keep only their text outside the match.
// An error from repl aborts immediately and nothing is saved.
func (d *Document) ReplaceMatches(re *regexp.Regexp, repl func(groups []string) (string, error)) error {
	for _, name := range d.TextParts() {
		out, err := replaceInPart(d.parts[name], re, repl)
		if err != nil {
			return err
		}
		d.parts[name] = out
	}
	return nil
}

func replaceInPart(data []byte, re *regexp.Regexp, repl func([]string) (string, error)) ([]byte, error) {
	var edits []edit

	for _, para := range scanParagraphs(data) {
		text := para.text()
		idx := re.FindAllStringSubmatchIndex(text, -1)
		if len(idx) == 0 {
			continue
		}

		matches := make([]matchRepl, 0, len(idx))
		for _, m := range idx {
			groups := make([]string, 0, len(m)/2)
			for g := 0; g < len(m); g += 2 {
				if m[g] < 0 {
					groups = append(groups, "")
					continue
				}
				groups = append(groups, text[m[g]:m[g+1]])
			}
			replacement, err := repl(groups)
			if err != nil {
				return nil, err
			}
			matches = append(matches, matchRepl{a: m[0], b: m[1], repl: replacement})
		}

		edits = append(edits, paragraphEdits(para, matches)...)
	}

	if len(edits) == 0 {
		return data, nil
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var buf bytes.Buffer
	prev := 0
	for _, e := range edits {
		buf.Write(data[prev:e.start])
		buf.Write(e.repl)
		prev = e.end
	}
	buf.Write(data[prev:])
	return buf.Bytes(), nil
}

// paragraphEdits converts matches over a paragraph's concatenated text into
// at most one edit per underlying run. Runs untouched by any match produce no
// edit and stay byte-identical.
func paragraphEdits(para paragraphRef, matches []matchRepl) []edit {
	var edits []edit
	off := 0

	for _, r := range para.runs {
		rStart, rEnd := off, off+len(r.text)
		off = rEnd

		touched := false
		var b strings.Builder
		cur := 0 // position within r.text

		for _, m := range matches {
			if m.b <= rStart || m.a >= rEnd {
				continue
			}
			touched = true
			la := m.a - rStart
			if la < 0 {
				la = 0
			}
			lb := m.b - rStart
			if lb > len(r.text) {
				lb = len(r.text)
			}
			b.WriteString(xmlEscaper.Replace(r.text[cur:la]))
			if m.a >= rStart {
				// The match starts here, so this run owns the replacement.
				b.WriteString(escapeText(m.repl))
			}
			cur = lb
		}

		if !touched {
			continue
		}
		b.WriteString(xmlEscaper.Replace(r.text[cur:]))
		edits = append(edits, edit{start: r.start, end: r.end, repl: []byte(b.String())})
	}
	return edits
}
