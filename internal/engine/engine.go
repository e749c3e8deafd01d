// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine infers document structure from extracted paper text: title,
// abstract, front-matter boundary, body sections, and table/equation
// descriptions. Every operation has a rule-based implementation and an
// LLM-assisted one selected by the engine mode; the LLM path always falls
// back to the rule-based result on failure, so no remote error reaches the
// caller.
package engine

import (
	"context"
	"strings"

	"github.com/pdiddy/paperfmt/internal/patterns"
	"github.com/pdiddy/paperfmt/pkg/types"
)

// Title scan limits for the rule-based path. A plausible title sits in the
// 3–300 character band within the first lines of the text.
const (
	titleScanLines = 15
	titleMinChars  = 3
	titleMaxChars  = 300
)

// Defaults for the configurable input bounds.
const (
	defaultTitlePrefixChars  = 2000
	defaultSectionInputChars = 15000
	defaultAbstractCapChars  = 2500
)

// Engine runs structure extraction in one fixed mode. Construct with New;
// all methods are safe to call on a single document sequentially.
type Engine struct {
	mode    types.Mode
	backend AIBackend
	pats    *patterns.Set
	cfg     types.EngineConfig
}

// New builds an Engine. When mode is ModeLLMAssisted a backend is required;
// a nil backend demotes the engine to rule-based mode.
func New(mode types.Mode, cfg types.EngineConfig, pats *patterns.Set, backend AIBackend) *Engine {
	if backend == nil {
		mode = types.ModeRuleBased
	}
	if pats == nil {
		pats = patterns.Default()
	}
	if cfg.TitlePrefixChars <= 0 {
		cfg.TitlePrefixChars = defaultTitlePrefixChars
	}
	if cfg.SectionInputChars <= 0 {
		cfg.SectionInputChars = defaultSectionInputChars
	}
	if cfg.AbstractCapChars <= 0 {
		cfg.AbstractCapChars = defaultAbstractCapChars
	}
	return &Engine{mode: mode, backend: backend, pats: pats, cfg: cfg}
}

// Mode reports the strategy the engine was constructed with.
func (e *Engine) Mode() types.Mode { return e.mode }

// ExtractTitle returns the paper title. Empty input yields an empty title;
// otherwise the result is non-empty (best-effort first line when no line
// fits the title band).
func (e *Engine) ExtractTitle(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if e.mode == types.ModeLLMAssisted {
		if title, err := e.titleLLM(ctx, text); err == nil {
			return title
		}
	}
	return e.titleRule(text)
}

// titleRule scans the top lines for the first plausible title: not blank,
// not a noise line, not a recognized section heading, and inside the length
// band. Trailing punctuation is trimmed. Multi-line titles are not
// reassembled on this path.
func (e *Engine) titleRule(text string) string {
	lines := strings.Split(text, "\n")

	limit := titleScanLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line == "" || e.pats.IsNoise(line) {
			continue
		}
		if len(line) < titleMinChars || len(line) > titleMaxChars {
			continue
		}
		if e.looksLikeHeading(line) {
			continue
		}
		return strings.TrimRight(line, " .,;:")
	}

	// Best-effort: first non-blank line.
	for _, line := range lines {
		if t := strings.TrimSpace(line); t != "" {
			return strings.TrimRight(t, " .,;:")
		}
	}
	return ""
}

// looksLikeHeading reports whether a candidate title line is really a
// section heading or caption. Title-case is deliberately not checked here;
// most titles are title-case.
func (e *Engine) looksLikeHeading(line string) bool {
	if e.pats.IsCaption(line) {
		return true
	}
	if _, ok := e.pats.MatchNumberedHeading(line); ok {
		return true
	}
	_, ok := e.pats.MatchAllCapsHeading(line)
	return ok
}

// abstractBounds locates the abstract: the byte offset of its marker, the
// start of its body, and the end of the body at the first following section
// boundary or the configured length cap.
func (e *Engine) abstractBounds(text string) (markerStart, bodyStart, bodyEnd int, ok bool) {
	loc := e.pats.AbstractMarker.FindStringIndex(text)
	if loc == nil {
		return 0, 0, 0, false
	}
	markerStart, bodyStart = loc[0], loc[1]

	rest := text[bodyStart:]
	bodyEnd = len(text)
	if b := e.pats.SectionBoundary.FindStringIndex(rest); b != nil {
		bodyEnd = bodyStart + b[0]
	} else if len(rest) > e.cfg.AbstractCapChars {
		bodyEnd = bodyStart + e.cfg.AbstractCapChars
	}
	return markerStart, bodyStart, bodyEnd, true
}

// ExtractAbstract returns the abstract body without its heading token. A
// paper without a labeled abstract yields an empty string; that is a valid
// outcome, not an error.
func (e *Engine) ExtractAbstract(text string) string {
	_, bodyStart, bodyEnd, ok := e.abstractBounds(text)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text[bodyStart:bodyEnd])
}

// RemoveFrontMatter drops authors, affiliations, and running headers by
// deleting everything before the abstract marker. Without an abstract
// boundary the input is returned unchanged.
func (e *Engine) RemoveFrontMatter(text string) string {
	markerStart, _, _, ok := e.abstractBounds(text)
	if !ok {
		return text
	}
	return text[markerStart:]
}

// ParseSections splits the text into heading/content sections in source
// order. In LLM-assisted mode a malformed response or API error falls back
// to the rule-based pass on the same input.
func (e *Engine) ParseSections(ctx context.Context, text string) []types.Section {
	if e.mode == types.ModeLLMAssisted {
		if sections, err := e.sectionsLLM(ctx, text); err == nil {
			return sections
		}
	}
	return e.sectionsRule(text)
}

// sectionsRule is a single forward pass classifying each line as heading or
// body. Heading shapes are tried in priority order: numbered, all-caps,
// title-case-before-blank; first match wins. Lines before the first heading
// are dropped. Duplicate headings stay separate sections.
func (e *Engine) sectionsRule(text string) []types.Section {
	lines := strings.Split(text, "\n")

	var sections []types.Section
	var body []string

	flush := func() {
		if len(sections) > 0 {
			sections[len(sections)-1].Content = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = nil
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		followedByBlank := i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == ""
		if heading, ok := e.classifyHeading(trimmed, followedByBlank); ok {
			flush()
			sections = append(sections, types.Section{Heading: heading})
			continue
		}

		if len(sections) > 0 {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// classifyHeading applies the three heading shapes in priority order.
// Numbered beats all-caps on lines matching both; figure/table captions are
// never headings.
func (e *Engine) classifyHeading(line string, followedByBlank bool) (string, bool) {
	if line == "" || e.pats.IsCaption(line) {
		return "", false
	}
	if h, ok := e.pats.MatchNumberedHeading(line); ok {
		return h, true
	}
	if h, ok := e.pats.MatchAllCapsHeading(line); ok {
		return h, true
	}
	if followedByBlank {
		if h, ok := e.pats.MatchTitleCaseHeading(line); ok {
			return h, true
		}
	}
	return "", false
}
