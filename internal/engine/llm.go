// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/paperfmt/pkg/types"
)

// jsonArrayRe pulls the first JSON array out of a model response that may
// carry surrounding prose.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// titleLLM asks the model for the title, sending only a bounded prefix of
// the text. This path accepts titles spanning multiple physical lines, which
// the rule-based scan cannot.
func (e *Engine) titleLLM(ctx context.Context, text string) (string, error) {
	excerpt := text
	if len(excerpt) > e.cfg.TitlePrefixChars {
		excerpt = excerpt[:e.cfg.TitlePrefixChars]
	}

	prompt, err := renderPrompt(titlePromptTmpl, promptData{Excerpt: excerpt})
	if err != nil {
		return "", err
	}
	out, err := e.backend.Complete(ctx, prompt, maxTokensTitle)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(out)
	if title == "" {
		return "", fmt.Errorf("empty title response")
	}
	return title, nil
}

// sectionsLLM asks the model for the full heading/content structure as a
// JSON array. Any malformed response is an error so the caller falls back to
// the rule-based pass.
func (e *Engine) sectionsLLM(ctx context.Context, text string) ([]types.Section, error) {
	input := text
	if len(input) > e.cfg.SectionInputChars {
		input = input[:e.cfg.SectionInputChars]
	}

	prompt, err := renderPrompt(sectionsPromptTmpl, promptData{Text: input})
	if err != nil {
		return nil, err
	}
	out, err := e.backend.Complete(ctx, prompt, maxTokensSections)
	if err != nil {
		return nil, err
	}

	raw := jsonArrayRe.FindString(out)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array in sections response")
	}

	var sections []types.Section
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return nil, fmt.Errorf("parsing sections response: %w", err)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("sections response is empty")
	}
	return sections, nil
}
