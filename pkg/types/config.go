// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AIConfig holds shared settings for the Claude-assisted extraction calls.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API. An empty key selects
	// rule-based mode; it is never an error.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds each individual API call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// EngineConfig holds settings for the extraction engine.
type EngineConfig struct {
	AIConfig `yaml:",inline"`

	// TitlePrefixChars bounds the text excerpt sent for title extraction
	// (default 2000).
	TitlePrefixChars int `json:"title_prefix_chars" yaml:"title_prefix_chars"`

	// SectionInputChars bounds the text sent for section parsing
	// (default 15000).
	SectionInputChars int `json:"section_input_chars" yaml:"section_input_chars"`

	// AbstractCapChars bounds the abstract body when no section boundary
	// follows the marker (default 2500).
	AbstractCapChars int `json:"abstract_cap_chars" yaml:"abstract_cap_chars"`
}

// Alignment names a paragraph alignment for one text role.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignJustify Alignment = "justify"
)

// RoleStyle is the font size and alignment for one text role in the output.
type RoleStyle struct {
	FontSize  float64   `json:"font_size" yaml:"font_size"`
	Alignment Alignment `json:"alignment" yaml:"alignment"`
}

// StyleConfig enumerates the typographic rules for the rendered document:
// page size, the four margins, and per-role font size and alignment.
type StyleConfig struct {
	// PageSize is a gofpdf page size name: "A4" or "Letter".
	PageSize string `json:"page_size" yaml:"page_size"`

	// Margins in points.
	MarginLeft   float64 `json:"margin_left" yaml:"margin_left"`
	MarginRight  float64 `json:"margin_right" yaml:"margin_right"`
	MarginTop    float64 `json:"margin_top" yaml:"margin_top"`
	MarginBottom float64 `json:"margin_bottom" yaml:"margin_bottom"`

	Title        RoleStyle `json:"title" yaml:"title"`
	Heading      RoleStyle `json:"heading" yaml:"heading"`
	AbstractBody RoleStyle `json:"abstract_body" yaml:"abstract_body"`
	Body         RoleStyle `json:"body" yaml:"body"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Engine EngineConfig `json:"engine" yaml:"engine"`
	Style  StyleConfig  `json:"style" yaml:"style"`

	// PatternsFile optionally points to a YAML file overriding the built-in
	// pattern tables.
	PatternsFile string `json:"patterns_file,omitempty" yaml:"patterns_file,omitempty"`

	// HistoryDir is the directory holding the run-history database.
	HistoryDir string `json:"history_dir" yaml:"history_dir"`
}
