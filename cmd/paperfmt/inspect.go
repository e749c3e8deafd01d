// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperfmt/internal/pdfio"
	"github.com/pdiddy/paperfmt/internal/pipeline"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.pdf>",
	Short: "Extract a paper's structure without rendering",
	Long: `Inspect runs extraction and structure inference on a paper PDF and
prints the resulting title, abstract, and sections as YAML. No output PDF is
written. Useful for checking what process would produce before committing to
a render.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	addEngineFlags(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	pats, err := loadPatterns(cmd)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cmd, pats)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	raw, err := pdfio.NewExtractor().Extract(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "extracted %d characters, %d tables\n", len(raw.Text), len(raw.Tables))

	p := pipeline.New(pipeline.Config{Engine: eng, Patterns: pats})
	result := p.Extract(cmd.Context(), raw, cmd.ErrOrStderr())

	out, err := yaml.Marshal(result.Document)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
