// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/paperfmt/pkg/types"
)

// numericCellRe matches purely numeric cell values. A first row containing
// one is treated as data, not a header.
var numericCellRe = regexp.MustCompile(`^-?\d+(?:[.,]\d+)?$`)

// tableSampleCells is how many cells of the first data row the rule-based
// description quotes.
const tableSampleCells = 3

// tableLLMMaxRows bounds the serialized grid sent to the model.
const tableLLMMaxRows = 20

// DescribeTable produces a plain-text substitute for a table. The rule-based
// template states the total row count (header row included), the column
// count, and the header cell values when the first row looks like a header.
// The LLM path asks for a one-paragraph summary and falls back to the
// template on any failure.
func (e *Engine) DescribeTable(ctx context.Context, t types.RawTable) string {
	if e.mode == types.ModeLLMAssisted {
		if desc, err := e.tableLLM(ctx, t); err == nil {
			return desc
		}
	}
	return describeTableRule(t)
}

// describeTableRule composes the templated sentence. It counts all rows
// including the header; that convention is fixed and tested. Cell semantics
// are not interpreted.
func describeTableRule(t types.RawTable) string {
	if len(t.Rows) == 0 {
		return ""
	}
	rows := len(t.Rows)
	cols := len(t.Rows[0])

	var b strings.Builder
	fmt.Fprintf(&b, "Table with %d rows and %d columns.", rows, cols)

	if header := headerCells(t.Rows[0]); header != "" {
		b.WriteString(" Columns include: ")
		b.WriteString(header)
		b.WriteByte('.')
	}

	if rows > 1 {
		if sample := joinCells(t.Rows[1], tableSampleCells); sample != "" {
			b.WriteString(" Sample data: ")
			b.WriteString(sample)
			b.WriteByte('.')
		}
	}

	return b.String()
}

// headerCells joins the first-row cells when the row looks like a header:
// no purely-numeric cells. Otherwise it returns "".
func headerCells(row []string) string {
	var cells []string
	for _, c := range row {
		if c == "" {
			continue
		}
		if numericCellRe.MatchString(c) {
			return ""
		}
		cells = append(cells, c)
	}
	return strings.Join(cells, ", ")
}

// joinCells joins up to limit non-empty cells.
func joinCells(row []string, limit int) string {
	var cells []string
	for _, c := range row {
		if c == "" {
			continue
		}
		cells = append(cells, c)
		if len(cells) == limit {
			break
		}
	}
	return strings.Join(cells, ", ")
}

// tableLLM serializes the grid pipe-separated and asks for a one-paragraph
// summary.
func (e *Engine) tableLLM(ctx context.Context, t types.RawTable) (string, error) {
	rows := t.Rows
	if len(rows) > tableLLMMaxRows {
		rows = rows[:tableLLMMaxRows]
	}
	var grid strings.Builder
	for _, row := range rows {
		grid.WriteString(strings.Join(row, " | "))
		grid.WriteByte('\n')
	}

	prompt, err := renderPrompt(tablePromptTmpl, promptData{Table: grid.String()})
	if err != nil {
		return "", err
	}
	out, err := e.backend.Complete(ctx, prompt, maxTokensTable)
	if err != nil {
		return "", err
	}
	desc := strings.Join(strings.Fields(out), " ")
	if desc == "" {
		return "", fmt.Errorf("empty table description")
	}
	return desc, nil
}

// DescribeEquation produces a plain-text substitute for an equation span.
// The rule-based form is a verbatim-preserving placeholder, not an
// interpretation: "[Equation: <content with whitespace collapsed>]". The LLM
// path substitutes a plain-language paraphrase inside the same brackets and
// falls back to the placeholder on any failure.
func (e *Engine) DescribeEquation(ctx context.Context, raw string) string {
	if e.mode == types.ModeLLMAssisted {
		if desc, err := e.equationLLM(ctx, raw); err == nil {
			return "[Equation: " + desc + "]"
		}
	}
	return describeEquationRule(raw)
}

// envDelimRe matches LaTeX environment delimiters like \begin{equation}.
var envDelimRe = regexp.MustCompile(`\\(?:begin|end)\{[a-zA-Z*]+\}`)

// describeEquationRule collapses whitespace in the raw span and wraps it.
// Delimiters are dropped so the placeholder carries no equation markers.
func describeEquationRule(raw string) string {
	content := strings.Trim(strings.TrimSpace(raw), "$")
	content = envDelimRe.ReplaceAllString(content, "")
	return "[Equation: " + strings.Join(strings.Fields(content), " ") + "]"
}

// equationLLM asks for a plain-language paraphrase of the span.
func (e *Engine) equationLLM(ctx context.Context, raw string) (string, error) {
	prompt, err := renderPrompt(equationPromptTmpl, promptData{Equation: raw})
	if err != nil {
		return "", err
	}
	out, err := e.backend.Complete(ctx, prompt, maxTokensEquation)
	if err != nil {
		return "", err
	}
	desc := strings.Join(strings.Fields(out), " ")
	if desc == "" {
		return "", fmt.Errorf("empty equation description")
	}
	return desc, nil
}
