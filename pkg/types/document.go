// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the document model and configuration shared across
// the paperfmt pipeline stages.
package types

// Mode selects the extraction strategy for an engine instance. It is fixed
// at construction time; a single document is never processed with a mix of
// the two strategies.
type Mode string

const (
	// ModeRuleBased uses only fixed heuristics and patterns, no network calls.
	ModeRuleBased Mode = "rule-based"

	// ModeLLMAssisted uses a hosted language model for each extraction call,
	// with a mandatory fallback to the rule-based result on any failure.
	ModeLLMAssisted Mode = "llm-assisted"
)

// RawTable is a rectangular grid of cell strings recovered from one table in
// the source PDF. The first row is conventionally a header but this is not
// guaranteed.
type RawTable struct {
	// Page is the 1-based page number the table was found on.
	Page int `json:"page" yaml:"page"`

	// Index is the 1-based position of the table on its page.
	Index int `json:"index" yaml:"index"`

	// Rows holds the cell grid. Cells may be empty strings.
	Rows [][]string `json:"rows" yaml:"rows"`
}

// RawDocument is the extractor output: the full plain text of the PDF plus
// all recovered tables in document order. It is built once per input and
// never mutated afterwards.
type RawDocument struct {
	Text   string     `json:"text" yaml:"text"`
	Tables []RawTable `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// Section is one heading plus its associated body text. Headings are unique
// in practice but duplicates are preserved as separate sections rather than
// merged.
type Section struct {
	Heading string `json:"heading" yaml:"heading"`
	Content string `json:"content" yaml:"content"`
}

// ExtractedDocument is the structured record produced by the extraction
// engine and consumed by the renderer.
type ExtractedDocument struct {
	// Title is the paper title. Non-empty whenever the input text is
	// non-empty (best-effort first line when no plausible title is found).
	Title string `json:"title" yaml:"title"`

	// Abstract is the abstract body without the "Abstract" heading token.
	// Empty when the paper has no labeled abstract; that is a valid outcome.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Sections are the body sections in first-occurrence order.
	Sections []Section `json:"sections" yaml:"sections"`
}

// Description is a plain-text substitute for a table or equation, keyed by
// the byte span it replaces in the source text. Substitution is positional,
// not content-matched.
type Description struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
}
