// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"bytes"
	"strings"
)

// textRun is one w:t element inside a part: the byte range of its escaped
// content and the unescaped text.
type textRun struct {
	start, end int // content byte range within the part
	text       string
}

// paragraphRef groups the text runs between one w:p open/close pair.
type paragraphRef struct {
	runs []textRun
}

func (p paragraphRef) text() string {
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.text)
	}
	return b.String()
}

// xmlUnescaper reverses the entity escaping Word applies inside w:t content.
var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// xmlEscaper escapes text for placement inside w:t content.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// escapeText renders replacement text as run content. Newlines become
// explicit w:br elements, since a literal newline inside w:t does not render
// as a line break.
func escapeText(s string) string {
	escaped := xmlEscaper.Replace(s)
	return strings.ReplaceAll(escaped, "\n", `</w:t><w:br/><w:t xml:space="preserve">`)
}

// openingTag reports whether raw starts with an opening tag of the given
// name (and not a longer name sharing the prefix, e.g. w:pPr for w:p).
func openingTag(raw []byte, name string) bool {
	if !bytes.HasPrefix(raw, []byte("<"+name)) {
		return false
	}
	if len(raw) <= len(name)+1 {
		return false
	}
	switch raw[len(name)+1] {
	case '>', ' ', '/':
		return true
	}
	return false
}

// scanParagraphs locates every paragraph and its text runs in a raw OOXML
// part. The scan is tolerant: anything it does not recognize is skipped,
// leaving those bytes untouched by later edits.
func scanParagraphs(data []byte) []paragraphRef {
	var paras []paragraphRef
	var cur *paragraphRef

	for i := 0; i < len(data); {
		j := bytes.IndexByte(data[i:], '<')
		if j < 0 {
			break
		}
		i += j
		rest := data[i:]

		switch {
		case openingTag(rest, "w:p"):
			paras = append(paras, paragraphRef{})
			cur = &paras[len(paras)-1]
			i += len("<w:p")

		case bytes.HasPrefix(rest, []byte("</w:p>")):
			cur = nil
			i += len("</w:p>")

		case openingTag(rest, "w:t"):
			tagEnd := bytes.IndexByte(rest, '>')
			if tagEnd < 0 {
				return paras
			}
			if rest[tagEnd-1] == '/' {
				// Self-closing w:t carries no text.
				i += tagEnd + 1
				continue
			}
			contentStart := i + tagEnd + 1
			rel := bytes.Index(data[contentStart:], []byte("</w:t>"))
			if rel < 0 {
				return paras
			}
			run := textRun{
				start: contentStart,
				end:   contentStart + rel,
				text:  xmlUnescaper.Replace(string(data[contentStart : contentStart+rel])),
			}
			if cur == nil {
				// Text outside any w:p (unusual, but keep it addressable).
				paras = append(paras, paragraphRef{})
				cur = &paras[len(paras)-1]
			}
			cur.runs = append(cur.runs, run)
			i = contentStart + rel + len("</w:t>")

		default:
			i++
		}
	}
	return paras
}
