// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperfmt CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the paperfmt CLI.
var rootCmd = &cobra.Command{
	Use:   "paperfmt",
	Short: "Clean and reformat academic paper PDFs",
	Long: `paperfmt ingests an academic paper PDF and produces a cleaned,
reformatted PDF: title centered, front matter stripped, abstract preserved,
body reorganized into detected sections, tables and equations replaced by
descriptive text, and URLs removed.

Extraction is rule-based by default. Setting ANTHROPIC_API_KEY (or placing a
key in .secrets/anthropic-api-key) enables LLM-assisted extraction; every
LLM call falls back to the rule-based result on failure.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperfmt.yaml or ~/.config/paperfmt/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory holding the anthropic-api-key file")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperfmt")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperfmt"))
		}
	}

	viper.SetEnvPrefix("PAPERFMT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
