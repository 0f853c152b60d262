// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pdiddy/docpipe/internal/content"
	"github.com/pdiddy/docpipe/pkg/types"
)

// mappingSystemPrompt frames the model as a document-layout assistant and
// pins down the reply schema. Kept separate from the user prompt so servers
// that weight system messages treat the schema as binding.
const mappingSystemPrompt = `You are a document layout assistant. You assign template placeholders to content sections.

Respond with a single JSON object and nothing else. The object has one key, "assignments", holding an array of objects with exactly two string fields: "placeholder" (a placeholder name from the list given) and "section" (a section key from the list given). Every placeholder must appear exactly once. Do not invent placeholder names or section keys.

Example response:
{"assignments": [{"placeholder": "TITLE", "section": "title"}, {"placeholder": "BODY", "section": "body"}]}`

// mappingPromptTmpl renders the per-run user message: the placeholder names
// found in the template and the available content sections with short
// previews.
var mappingPromptTmpl = template.Must(template.New("mapping").Parse(`Placeholders found in the template:
{{range .Placeholders}}- {{.Name}}
{{end}}
Available content sections:
{{range .Sections}}- key: {{.Key}} ({{.Kind}}){{if .Preview}}
  preview: {{.Preview}}{{end}}
{{end}}
Assign every placeholder to the most suitable section key. Reply with the JSON object only.`))

const previewLimit = 200

type promptSection struct {
	Key     string
	Kind    string
	Preview string
}

// renderPrompt builds the user message for one mapping request.
func renderPrompt(placeholders []types.Placeholder, doc *content.Document) (string, error) {
	sections := make([]promptSection, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		sections = append(sections, promptSection{
			Key:     s.Key(),
			Kind:    string(s.Kind),
			Preview: preview(s.Text),
		})
	}

	var buf bytes.Buffer
	err := mappingPromptTmpl.Execute(&buf, struct {
		Placeholders []types.Placeholder
		Sections     []promptSection
	}{placeholders, sections})
	if err != nil {
		return "", fmt.Errorf("rendering mapping prompt: %w", err)
	}
	return buf.String(), nil
}

// preview flattens s to one line and truncates it so the prompt stays small.
func preview(s string) string {
	flat := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		flat = append(flat, r)
	}
	if len(flat) > previewLimit {
		return string(flat[:previewLimit]) + "..."
	}
	return string(flat)
}
