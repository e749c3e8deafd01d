// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperfmt/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past processing runs",
	Long:  `History lists past processing runs recorded by process --history-dir, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("history-dir", ".paperfmt", "directory holding the run-history database")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("yaml", false, "emit runs as YAML instead of the table view")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("history-dir")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.NewStore(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(limit)
	if err != nil {
		return err
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		out, err := yaml.Marshal(runs)
		if err != nil {
			return fmt.Errorf("marshaling runs: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := cmd.OutOrStdout()
	for _, r := range runs {
		fmt.Fprintf(w, "%4d  %s  %-12s  %s -> %s\n",
			r.ID, r.ProcessedAt.Format(time.DateTime), r.Mode, r.Input, r.Output)
		fmt.Fprintf(w, "      %q (%d sections, %d tables, %d equations)\n",
			r.Title, r.Sections, r.Tables, r.Equations)
	}
	return nil
}
