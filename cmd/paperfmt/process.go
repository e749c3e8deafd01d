// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperfmt/internal/history"
	"github.com/pdiddy/paperfmt/internal/pdfio"
	"github.com/pdiddy/paperfmt/internal/pipeline"
	"github.com/pdiddy/paperfmt/internal/render"
)

var processCmd = &cobra.Command{
	Use:   "process <input.pdf> [output.pdf]",
	Short: "Clean and reformat one or more paper PDFs",
	Long: `Process extracts the text and tables from a paper PDF, infers its
structure, strips links and front matter, replaces tables and equations with
descriptive text, and writes a reformatted PDF.

With --batch, every argument is an input PDF and outputs are written to
--out-dir as <name>-clean.pdf. Batch runs are independent; one failed
document does not stop the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	addEngineFlags(processCmd)
	processCmd.Flags().String("style", "", "YAML file overriding the output style")
	processCmd.Flags().String("history-dir", ".paperfmt", "directory for the run-history database (empty disables history)")
	processCmd.Flags().Bool("batch", false, "treat all arguments as input PDFs")
	processCmd.Flags().String("out-dir", ".", "output directory for batch mode")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	pats, err := loadPatterns(cmd)
	if err != nil {
		return err
	}
	style, err := loadStyle(cmd)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cmd, pats)
	if err != nil {
		return err
	}

	var store *history.Store
	if dir, _ := cmd.Flags().GetString("history-dir"); dir != "" {
		store, err = history.NewStore(dir)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	p := pipeline.New(pipeline.Config{
		Extractor: pdfio.NewExtractor(),
		Engine:    eng,
		Renderer:  render.New(),
		Patterns:  pats,
		Style:     style,
		History:   store,
	})

	if batch, _ := cmd.Flags().GetBool("batch"); batch {
		outDir, _ := cmd.Flags().GetString("out-dir")
		result := p.ProcessBatch(cmd.Context(), args, outDir, cmd.OutOrStdout())
		if result.HasFailures() {
			return fmt.Errorf("%d of %d documents failed", result.Failed, result.Total())
		}
		return nil
	}

	input := args[0]
	output := ""
	if len(args) > 1 {
		output = args[1]
	} else {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		output = base + "-clean.pdf"
	}
	return p.ProcessFile(cmd.Context(), input, output, cmd.OutOrStdout())
}
