package main

import (
	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens/internal/api"
	"github.com/paperlens/paperlens/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "paperlens",
	Short: "Research paper and video analysis with LLM-backed summarization",
	Long: `PaperLens analyzes research papers and YouTube videos using an LLM.

Upload a PDF or Word document, or point it at a YouTube URL, and get back
a structured markdown analysis:
  - Summary
  - Key findings
  - Methodology
  - Conclusions
  - Citations and references`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.paperlens/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
