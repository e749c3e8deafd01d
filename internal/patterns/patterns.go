// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package patterns holds the fixed regex tables the extraction engine and
// normalizer apply: URLs, DOIs, emails, equation delimiters, heading shapes,
// abstract markers, noise lines, and figure/table captions. The tables are
// unit-testable independently of the control flow that applies them and can
// be overridden from a YAML file.
package patterns

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Set is a compiled pattern table. Build one with Default or Load; a Set is
// read-only after construction and safe for concurrent use.
type Set struct {
	// URL matches http/https URLs.
	URL *regexp.Regexp

	// WWW matches bare www. URLs without a scheme.
	WWW *regexp.Regexp

	// DOI matches bare DOI identifiers (10.NNNN/suffix).
	DOI *regexp.Regexp

	// DOILabel matches "doi:" prefixed references.
	DOILabel *regexp.Regexp

	// Email matches email addresses.
	Email *regexp.Regexp

	// Equations lists equation-span delimiters in priority order. Earlier
	// entries win when delimiters could nest, so display math ($$...$$) and
	// LaTeX environments come before inline $...$.
	Equations []*regexp.Regexp

	// HeadingNumbered matches numbered headings like "1. Introduction" or
	// "2.3 Results". Capture group 2 is the heading text.
	HeadingNumbered *regexp.Regexp

	// HeadingAllCaps matches short all-caps heading lines with no terminal
	// period.
	HeadingAllCaps *regexp.Regexp

	// HeadingTitleCase matches short title-case standalone lines. The
	// followed-by-blank-line requirement is checked by the caller, not here.
	HeadingTitleCase *regexp.Regexp

	// AbstractMarker matches an "Abstract" heading token at the start of a
	// line, with optional trailing punctuation. Mid-sentence uses of the
	// word do not match because of the line anchor.
	AbstractMarker *regexp.Regexp

	// SectionBoundary matches the first heading-like line that ends the
	// abstract: Introduction, Keywords, a numbered heading, or an all-caps
	// heading.
	SectionBoundary *regexp.Regexp

	// Noise lists line patterns skipped during title scanning: page numbers,
	// copyright marks, running headers, author/affiliation metadata.
	Noise []*regexp.Regexp

	// Caption matches figure/table caption lines, which are never classified
	// as section headings.
	Caption *regexp.Regexp
}

// Default returns the built-in pattern table.
func Default() *Set {
	return &Set{
		URL:      regexp.MustCompile(`https?://[^\s<>"]+`),
		WWW:      regexp.MustCompile(`\bwww\.[^\s<>"]+`),
		DOI:      regexp.MustCompile(`\b10\.\d{4,9}/\S+`),
		DOILabel: regexp.MustCompile(`(?i)\bdoi:\s*\S+`),
		Email:    regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
		Equations: []*regexp.Regexp{
			regexp.MustCompile(`(?s)\$\$.+?\$\$`),
			regexp.MustCompile(`(?s)\\begin\{(?:equation|align|eqnarray|gather|multline)\*?\}.*?\\end\{(?:equation|align|eqnarray|gather|multline)\*?\}`),
			regexp.MustCompile(`\$[^$\n]+\$`),
		},
		HeadingNumbered:  regexp.MustCompile(`^(\d+(?:\.\d+)*\.?)\s+([A-Z].*)$`),
		HeadingAllCaps:   regexp.MustCompile(`^[A-Z][A-Z0-9&\- ]{2,59}$`),
		HeadingTitleCase: regexp.MustCompile(`^[A-Z][A-Za-z-]*(?:\s+(?:[A-Z][A-Za-z-]*|of|and|the|for|in|on|to|a|an|with))*$`),
		AbstractMarker:   regexp.MustCompile(`(?mi)^[ \t]*(?:abstract|summary)(?:[ \t]*[:.\x{2014}\x{2013}-][ \t]*|[ \t]*$)`),
		SectionBoundary: regexp.MustCompile(`(?mi)^[ \t]*(?:` +
			`\d+(?:\.\d+)*\.?[ \t]+[A-Za-z].*` +
			`|(?:1[ \t]*\.?[ \t]*)?introduction\b.*` +
			`|keywords\b.*` +
			`|index terms\b.*` +
			`|[A-Z][A-Z0-9&\- ]{2,59}` +
			`)$`),
		Noise: []*regexp.Regexp{
			regexp.MustCompile(`^\d+$`),
			regexp.MustCompile(`(?i)copyright|©|all rights reserved`),
			regexp.MustCompile(`(?i)^(?:arxiv|preprint|proceedings|journal|vol\.?|volume|issn|isbn|doi)\b`),
			regexp.MustCompile(`(?i)https?://|www\.|@`),
			regexp.MustCompile(`(?i)\b(?:university|department|institute|author|abstract|published|received|accepted)\b`),
			regexp.MustCompile(`\d{4}`),
			regexp.MustCompile(`(?i)\bpage\b|\bvol\b`),
		},
		Caption: regexp.MustCompile(`(?i)^(?:figure|fig\.|table)\s+\d+`),
	}
}

// IsNoise reports whether line matches any noise pattern.
func (s *Set) IsNoise(line string) bool {
	for _, re := range s.Noise {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// IsCaption reports whether line is a figure/table caption.
func (s *Set) IsCaption(line string) bool {
	return s.Caption.MatchString(line)
}

// MatchNumberedHeading returns the heading text of a numbered heading line.
func (s *Set) MatchNumberedHeading(line string) (string, bool) {
	m := s.HeadingNumbered.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[2]), true
}

// MatchAllCapsHeading returns the heading text of a short all-caps line.
func (s *Set) MatchAllCapsHeading(line string) (string, bool) {
	if !s.HeadingAllCaps.MatchString(line) {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// MatchTitleCaseHeading returns the heading text of a short title-case line.
// The caller is responsible for the followed-by-blank-line requirement.
func (s *Set) MatchTitleCaseHeading(line string) (string, bool) {
	if len(line) > 60 || !s.HeadingTitleCase.MatchString(line) {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

// EquationSpans locates all equation spans in text: non-overlapping, computed
// once up front, with earlier (longer-delimiter) patterns taking precedence
// where delimiters could nest. Spans are returned in ascending order.
func (s *Set) EquationSpans(text string) []Span {
	var spans []Span
	for _, re := range s.Equations {
		for _, m := range re.FindAllStringIndex(text, -1) {
			candidate := Span{Start: m[0], End: m[1]}
			if !overlapsAny(spans, candidate) {
				spans = append(spans, candidate)
			}
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

func overlapsAny(spans []Span, c Span) bool {
	for _, sp := range spans {
		if c.Start < sp.End && sp.Start < c.End {
			return true
		}
	}
	return false
}

// file is the YAML override format: every field is an uncompiled regex
// string (or list of strings); empty fields keep the built-in default.
type file struct {
	URL              string   `yaml:"url"`
	WWW              string   `yaml:"www"`
	DOI              string   `yaml:"doi"`
	DOILabel         string   `yaml:"doi_label"`
	Email            string   `yaml:"email"`
	Equations        []string `yaml:"equations"`
	HeadingNumbered  string   `yaml:"heading_numbered"`
	HeadingAllCaps   string   `yaml:"heading_all_caps"`
	HeadingTitleCase string   `yaml:"heading_title_case"`
	AbstractMarker   string   `yaml:"abstract_marker"`
	SectionBoundary  string   `yaml:"section_boundary"`
	Noise            []string `yaml:"noise"`
	Caption          string   `yaml:"caption"`
}

// Load reads a YAML pattern file and merges it over the defaults. Unset
// fields keep their built-in values; invalid regexes are an error.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern file %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing pattern file %s: %w", path, err)
	}

	s := Default()
	overrides := []struct {
		src string
		dst **regexp.Regexp
	}{
		{f.URL, &s.URL},
		{f.WWW, &s.WWW},
		{f.DOI, &s.DOI},
		{f.DOILabel, &s.DOILabel},
		{f.Email, &s.Email},
		{f.HeadingNumbered, &s.HeadingNumbered},
		{f.HeadingAllCaps, &s.HeadingAllCaps},
		{f.HeadingTitleCase, &s.HeadingTitleCase},
		{f.AbstractMarker, &s.AbstractMarker},
		{f.SectionBoundary, &s.SectionBoundary},
		{f.Caption, &s.Caption},
	}
	for _, o := range overrides {
		if o.src == "" {
			continue
		}
		re, err := regexp.Compile(o.src)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q in %s: %w", o.src, path, err)
		}
		*o.dst = re
	}

	if len(f.Equations) > 0 {
		s.Equations, err = compileAll(f.Equations, path)
		if err != nil {
			return nil, err
		}
	}
	if len(f.Noise) > 0 {
		s.Noise, err = compileAll(f.Noise, path)
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func compileAll(srcs []string, path string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(srcs))
	for _, src := range srcs {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q in %s: %w", src, path, err)
		}
		res = append(res, re)
	}
	return res, nil
}
