// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperfmt/internal/engine"
	"github.com/pdiddy/paperfmt/internal/patterns"
	"github.com/pdiddy/paperfmt/internal/render"
	"github.com/pdiddy/paperfmt/internal/secrets"
	"github.com/pdiddy/paperfmt/pkg/types"
)

// loadPatterns resolves the pattern tables: the --patterns flag wins, then
// the patterns_file config key, then the built-in defaults.
func loadPatterns(cmd *cobra.Command) (*patterns.Set, error) {
	path, _ := cmd.Flags().GetString("patterns")
	if path == "" {
		path = viper.GetString("patterns_file")
	}
	if path == "" {
		return patterns.Default(), nil
	}
	pats, err := patterns.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading patterns from %s: %w", path, err)
	}
	return pats, nil
}

// loadStyle resolves the output style: defaults overlaid with the YAML file
// from the --style flag or the style_file config key.
func loadStyle(cmd *cobra.Command) (types.StyleConfig, error) {
	style := render.DefaultStyle()

	path, _ := cmd.Flags().GetString("style")
	if path == "" {
		path = viper.GetString("style_file")
	}
	if path == "" {
		return style, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return style, fmt.Errorf("reading style file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return style, fmt.Errorf("parsing style file %s: %w", path, err)
	}
	if err := render.Validate(style); err != nil {
		return style, err
	}
	return style, nil
}

// resolveMode picks the extraction mode from the --mode flag and key
// availability. "auto" means LLM-assisted when a key is present. Requesting
// llm-assisted without a key warns and demotes to rule-based.
func resolveMode(cmd *cobra.Command, apiKey string) (types.Mode, error) {
	mode, _ := cmd.Flags().GetString("mode")
	switch mode {
	case "auto", "":
		if apiKey != "" {
			return types.ModeLLMAssisted, nil
		}
		return types.ModeRuleBased, nil
	case "rule-based":
		return types.ModeRuleBased, nil
	case "llm-assisted":
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "warning: no API key found, falling back to rule-based mode")
			return types.ModeRuleBased, nil
		}
		return types.ModeLLMAssisted, nil
	}
	return "", fmt.Errorf("unknown mode %q (want auto, rule-based, or llm-assisted)", mode)
}

// buildEngine constructs the extraction engine for a command invocation.
func buildEngine(cmd *cobra.Command, pats *patterns.Set) (*engine.Engine, error) {
	secretsDir, _ := rootCmd.PersistentFlags().GetString("secrets-dir")
	apiKey := secrets.APIKey(secretsDir)

	mode, err := resolveMode(cmd, apiKey)
	if err != nil {
		return nil, err
	}

	model, _ := cmd.Flags().GetString("model")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	cfg := types.EngineConfig{
		AIConfig: types.AIConfig{
			Model:   model,
			APIKey:  apiKey,
			Timeout: timeout,
		},
	}

	var backend engine.AIBackend
	if mode == types.ModeLLMAssisted {
		backend = &engine.ClaudeBackend{
			APIKey:  apiKey,
			Model:   model,
			Timeout: timeout,
		}
	}
	return engine.New(mode, cfg, pats, backend), nil
}

// addEngineFlags registers the extraction flags shared by process and
// inspect.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "auto", "extraction mode: auto, rule-based, or llm-assisted")
	cmd.Flags().String("model", "claude-sonnet-4-5-20250929", "AI model for llm-assisted extraction")
	cmd.Flags().Duration("timeout", 60*time.Second, "per-call timeout for AI requests")
	cmd.Flags().String("patterns", "", "YAML file overriding the built-in pattern tables")
}
