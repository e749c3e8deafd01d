// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize cleans extracted paper text: equation spans become
// descriptions, table descriptions are inserted near their references, and
// URLs, DOIs, and email addresses are stripped. Normalizing already-clean
// text is a no-op.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/paperfmt/internal/patterns"
	"github.com/pdiddy/paperfmt/pkg/types"
)

// Normalizer applies the cleanup passes using one pattern table.
type Normalizer struct {
	pats *patterns.Set
}

// New builds a Normalizer. A nil pattern set selects the defaults.
func New(pats *patterns.Set) *Normalizer {
	if pats == nil {
		pats = patterns.Default()
	}
	return &Normalizer{pats: pats}
}

// Normalize runs the cleanup passes in a fixed order: equation spans first
// (their offsets refer to the input text), then table description insertion,
// then link stripping and whitespace collapsing. The order matters; doing
// link stripping first would shift the equation offsets.
func (n *Normalizer) Normalize(text string, tableDescs []string, equationDescs []types.Description) string {
	text = replaceSpans(text, equationDescs)
	text = insertTableDescs(text, tableDescs)
	text = n.stripLinks(text)
	return collapseWhitespace(text)
}

// replaceSpans substitutes each description for its byte span in a single
// left-to-right pass. Spans must be ascending and non-overlapping, computed
// once up front against the input text; this avoids the offset drift of
// repeated search-and-replace.
func replaceSpans(text string, descs []types.Description) string {
	if len(descs) == 0 {
		return text
	}

	var out strings.Builder
	pos := 0
	for _, d := range descs {
		if d.Start < pos || d.End > len(text) || d.Start > d.End {
			continue
		}
		out.WriteString(text[pos:d.Start])
		out.WriteString(d.Text)
		pos = d.End
	}
	out.WriteString(text[pos:])
	return out.String()
}

// insertTableDescs places each table description after the first textual
// reference to its number ("Table 1", "Table 2", ...). A table never
// referenced in the text is appended at the end; exact source offsets are
// not available for tables, so reference position is the approximation.
func insertTableDescs(text string, descs []string) string {
	for i, desc := range descs {
		if desc == "" {
			continue
		}
		num := i + 1
		marker := fmt.Sprintf("\n\n[Table %d: %s]\n\n", num, desc)

		ref := regexp.MustCompile(fmt.Sprintf(`(?i)\btable\s+%d\b`, num))
		if loc := ref.FindStringIndex(text); loc != nil {
			text = text[:loc[1]] + marker + text[loc[1]:]
		} else {
			text = text + marker
		}
	}
	return text
}

// stripLinks removes URLs, bare www references, DOIs, and email addresses.
func (n *Normalizer) stripLinks(text string) string {
	text = n.pats.URL.ReplaceAllString(text, "")
	text = n.pats.WWW.ReplaceAllString(text, "")
	text = n.pats.DOILabel.ReplaceAllString(text, "")
	text = n.pats.DOI.ReplaceAllString(text, "")
	text = n.pats.Email.ReplaceAllString(text, "")
	return text
}

var (
	spaceBeforeNewlineRe = regexp.MustCompile(`[ \t]+\n`)
	spaceAfterNewlineRe  = regexp.MustCompile(`\n[ \t]+`)
	spaceRunRe           = regexp.MustCompile(`[ \t]{2,}`)
	blankLineRunRe       = regexp.MustCompile(`\n{3,}`)
)

// collapseWhitespace reduces runs of spaces to a single space and runs of
// blank lines to a single blank line.
func collapseWhitespace(text string) string {
	text = spaceBeforeNewlineRe.ReplaceAllString(text, "\n")
	text = spaceAfterNewlineRe.ReplaceAllString(text, "\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankLineRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
