// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"text/template"
)

// AIBackend abstracts the hosted language model so tests can supply a mock.
// Complete sends one prompt and returns the raw text response. Each call is
// an independent trial: a failure never disables the LLM path for later
// calls in the same run.
type AIBackend interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Per-call token budgets. Title and description calls are small; section
// parsing returns the full structure and gets the large budget.
const (
	maxTokensTitle    = 256
	maxTokensSections = 4096
	maxTokensTable    = 300
	maxTokensEquation = 200
)

// promptData carries the fields the prompt templates reference.
type promptData struct {
	Excerpt  string
	Text     string
	Table    string
	Equation string
}

var titlePromptTmpl = template.Must(template.New("title").Parse(`Extract ONLY the title of this academic paper. Return just the title text, nothing else.

Paper excerpt:
{{.Excerpt}}`))

var sectionsPromptTmpl = template.Must(template.New("sections").Parse(`Parse this academic paper into sections. For each section, extract the heading and content.
Return a JSON array with format: [{"heading": "Section Name", "content": "Section text..."}]
Preserve the order sections appear in. Do not include any text outside the JSON array.

Paper text:
{{.Text}}`))

var tablePromptTmpl = template.Must(template.New("table").Parse(`Describe this table in ONE comprehensive paragraph. Include:
- What type of data the table contains
- The main columns and what they represent
- Key findings or patterns in the data

Keep it to one flowing paragraph. Do not use bullet points or multiple paragraphs.

Table data:
{{.Table}}`))

var equationPromptTmpl = template.Must(template.New("equation").Parse(`Describe this mathematical equation in ONE clear paragraph. Explain what the equation represents and what each variable means.

Keep it to one flowing paragraph in plain English. Do not use mathematical notation in your description.

Equation: {{.Equation}}`))

// renderPrompt executes a prompt template with the given data.
func renderPrompt(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
