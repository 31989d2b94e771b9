package main

import (
	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running PaperLens server via HTTP.

These commands require a running server (paperlens serve).
Use --server to specify a custom server URL.

Examples:
  paperlens api health                      # Check server health
  paperlens api analyze paper thesis.pdf    # Analyze a document
  paperlens api analyze video <url>         # Analyze a YouTube video`,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analysis commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	for _, ep := range endpoints.HealthCommands() {
		apiCmd.AddCommand(ep.Command(getServerURL))
	}

	// Analysis as subcommand group
	for _, ep := range endpoints.AnalysisCommands() {
		analyzeCmd.AddCommand(ep.Command(getServerURL))
	}
	apiCmd.AddCommand(analyzeCmd)

	rootCmd.AddCommand(apiCmd)
}
