package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "curaflow",
	Short: "Data Curation API client",
	Long: `curaflow is a command-line client for the Hyland Data Curation API.
It uploads a document for server-side curation, waits for processing to
complete, and retrieves the curated result.

Credentials and endpoints are read from the environment (or a .env file):
  DATA_CURATION_CLIENT_ID        client ID for the token grant
  DATA_CURATION_CLIENT_SECRET    client secret for the token grant
  DATA_CURATION_API_URL          API base URL (optional)
  DATA_CURATION_AUTH_ENDPOINT    token endpoint (optional)
  DATA_CURATION_HTTP_TIMEOUT     per-request timeout, e.g. 45s (optional)

Examples:
  curaflow process document.pdf
  curaflow process document.pdf -o curated.txt --chunking --chunk-size 800
  curaflow process document.pdf --no-wait
  curaflow status job-123
  curaflow fetch job-123 -o curated.txt
  curaflow version`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("curaflow v%s\n", version)
		fmt.Println("Use 'curaflow --help' for available commands")
		fmt.Println("Use 'curaflow process --help' for processing options")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&journalDir, "journal-dir", "", "Job journal directory (default: ~/.curaflow)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFilePath, "log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(versionCmd)
}

// signalContext returns a context canceled on SIGINT or SIGTERM, so the
// polling loop can be interrupted cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
