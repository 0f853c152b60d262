package docx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docFooter = `</w:body></w:document>`

// buildArchive assembles a minimal docx package in memory.
func buildArchive(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// simpleBody wraps each given paragraph in one w:p with a single run.
func simpleBody(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(docHeader)
	for _, p := range paragraphs {
		b.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	b.WriteString(docFooter)
	return b.String()
}

func openArchive(t *testing.T, parts map[string]string) *Document {
	t.Helper()
	data := buildArchive(t, parts)
	doc, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	return doc
}

var tokenRe = regexp.MustCompile(`\{\{([A-Z0-9_]+)\}\}`)

func TestOpenRejectsNonDocx(t *testing.T) {
	data := buildArchive(t, map[string]string{"mimetype": "text/plain"})
	_, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		t.Fatal("expected error for archive without word/document.xml")
	}
	if !strings.Contains(err.Error(), "word/document.xml") {
		t.Errorf("error = %q, want mention of word/document.xml", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.docx"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParagraphTexts(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "single run per paragraph",
			body: simpleBody("Hello", "World"),
			want: []string{"Hello", "World"},
		},
		{
			name: "split runs concatenate",
			body: docHeader + `<w:p><w:r><w:t>{{TI</w:t></w:r><w:r><w:t>TLE}}</w:t></w:r></w:p>` + docFooter,
			want: []string{"{{TITLE}}"},
		},
		{
			name: "entities unescaped",
			body: simpleBody("A &amp; B &lt;ok&gt;"),
			want: []string{"A & B <ok>"},
		},
		{
			name: "self-closing and empty runs",
			body: docHeader + `<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t/></w:r><w:r><w:t>x</w:t></w:r></w:p>` + docFooter,
			want: []string{"x"},
		},
		{
			name: "preserve-space attribute",
			body: docHeader + `<w:p><w:r><w:t xml:space="preserve"> padded </w:t></w:r></w:p>` + docFooter,
			want: []string{" padded "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := openArchive(t, map[string]string{"word/document.xml": tt.body})
			got := doc.ParagraphTexts()
			if len(got) != len(tt.want) {
				t.Fatalf("got %d paragraphs %q, want %d %q", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("paragraph[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTextPartsOrder(t *testing.T) {
	doc := openArchive(t, map[string]string{
		"word/footer1.xml":  simpleBody("footer"),
		"word/document.xml": simpleBody("body"),
		"word/header1.xml":  simpleBody("header"),
		"word/styles.xml":   "<w:styles/>",
	})

	parts := doc.TextParts()
	want := []string{"word/document.xml", "word/footer1.xml", "word/header1.xml"}
	if len(parts) != len(want) {
		t.Fatalf("TextParts = %v, want %v", parts, want)
	}
	if parts[0] != "word/document.xml" {
		t.Errorf("first text part = %q, want the main body", parts[0])
	}

	texts := doc.ParagraphTexts()
	if texts[0] != "body" {
		t.Errorf("first paragraph = %q, want %q", texts[0], "body")
	}
}

func TestReplaceMatchesSingleRun(t *testing.T) {
	doc := openArchive(t, map[string]string{
		"word/document.xml": simpleBody("before {{TITLE}} after"),
	})

	err := doc.ReplaceMatches(tokenRe, func(groups []string) (string, error) {
		return "Hello", nil
	})
	if err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	texts := doc.ParagraphTexts()
	if texts[0] != "before Hello after" {
		t.Errorf("paragraph = %q, want %q", texts[0], "before Hello after")
	}
}

func TestReplaceMatchesAdjacentTokensInOneRun(t *testing.T) {
	doc := openArchive(t, map[string]string{
		"word/document.xml": simpleBody("{{TITLE}}{{BODY}}"),
	})

	values := map[string]string{"TITLE": "Hello", "BODY": "World text."}
	err := doc.ReplaceMatches(tokenRe, func(groups []string) (string, error) {
		return values[groups[1]], nil
	})
	if err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	if got := doc.ParagraphTexts()[0]; got != "HelloWorld text." {
		t.Errorf("paragraph = %q, want %q", got, "HelloWorld text.")
	}
}

func TestReplaceMatchesSpanningRuns(t *testing.T) {
	body := docHeader +
		`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>x{{TI</w:t></w:r>` +
		`<w:r><w:t>TLE}}y</w:t></w:r></w:p>` + docFooter
	doc := openArchive(t, map[string]string{"word/document.xml": body})

	err := doc.ReplaceMatches(tokenRe, func(groups []string) (string, error) {
		if groups[1] != "TITLE" {
			t.Errorf("matched name = %q, want TITLE", groups[1])
		}
		return "Hi", nil
	})
	if err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	if got := doc.ParagraphTexts()[0]; got != "xHiy" {
		t.Errorf("paragraph = %q, want %q", got, "xHiy")
	}
	// The replacement lands in the first run, keeping its bold properties.
	out := string(doc.parts["word/document.xml"])
	if !strings.Contains(out, `<w:rPr><w:b/></w:rPr><w:t>xHi</w:t>`) {
		t.Errorf("first run lost formatting or replacement: %s", out)
	}
}

func TestReplaceMatchesPreservesSurroundingBytes(t *testing.T) {
	body := docHeader +
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>{{TITLE}}</w:t></w:r></w:p>` +
		`<w:p><w:r><w:rPr><w:i/></w:rPr><w:t>untouched</w:t></w:r></w:p>` + docFooter
	doc := openArchive(t, map[string]string{"word/document.xml": body})

	err := doc.ReplaceMatches(tokenRe, func(groups []string) (string, error) {
		return "T", nil
	})
	if err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	got := string(doc.parts["word/document.xml"])
	want := strings.Replace(body, "{{TITLE}}", "T", 1)
	if got != want {
		t.Errorf("only the token content should change\n got: %s\nwant: %s", got, want)
	}
}

func TestReplaceMatchesEscapesReplacement(t *testing.T) {
	doc := openArchive(t, map[string]string{
		"word/document.xml": simpleBody("{{BODY}}"),
	})

	err := doc.ReplaceMatches(tokenRe, func(groups []string) (string, error) {
		return "a < b & c", nil
	})
	if err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	out := string(doc.parts["word/document.xml"])
	if !strings.Contains(out, "a &lt; b &amp; c") {
		t.Errorf("replacement not escaped: %s", out)
	}
	if got := doc.ParagraphTexts()[0]; got != "a < b & c" {
		t.Errorf("round-trip text = %q", got)
	}
}

func TestReplaceMatchesNewlinesBecomeBreaks(t *testing.T) {
	doc := openArchive(t, map[string]string{
		"word/document.xml": simpleBody("{{BODY}}"),
	})

	err := doc.ReplaceMatches(tokenRe, func(groups []string) (string, error) {
		return "line one\nline two", nil
	})
	if err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	out := string(doc.parts["word/document.xml"])
	if !strings.Contains(out, `line one</w:t><w:br/><w:t xml:space="preserve">line two`) {
		t.Errorf("newline not rendered as w:br: %s", out)
	}
}

func TestReplaceMatchesCoversHeadersAndFooters(t *testing.T) {
	doc := openArchive(t, map[string]string{
		"word/document.xml": simpleBody("{{TITLE}}"),
		"word/header1.xml":  simpleBody("{{DATE}}"),
	})

	values := map[string]string{"TITLE": "T", "DATE": "D"}
	err := doc.ReplaceMatches(tokenRe, func(groups []string) (string, error) {
		return values[groups[1]], nil
	})
	if err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	texts := doc.ParagraphTexts()
	if texts[0] != "T" || texts[1] != "D" {
		t.Errorf("texts = %q, want [T D]", texts)
	}
}

func TestReplaceMatchesErrorAborts(t *testing.T) {
	doc := openArchive(t, map[string]string{
		"word/document.xml": simpleBody("{{MYSTERY}}"),
	})

	wantErr := os.ErrNotExist // any sentinel will do
	err := doc.ReplaceMatches(tokenRe, func(groups []string) (string, error) {
		return "", wantErr
	})
	if err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestSaveAsRoundTrip(t *testing.T) {
	doc := openArchive(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   simpleBody("Hello"),
		"word/styles.xml":     `<w:styles/>`,
	})

	out := filepath.Join(t.TempDir(), "out.docx")
	if err := doc.SaveAs(out); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	reopened, err := Open(out)
	if err != nil {
		t.Fatalf("Open saved file: %v", err)
	}
	if len(reopened.names) != 3 {
		t.Errorf("saved archive has %d parts, want 3", len(reopened.names))
	}
	if got := reopened.ParagraphTexts(); len(got) != 1 || got[0] != "Hello" {
		t.Errorf("paragraphs after round trip = %q", got)
	}
}
