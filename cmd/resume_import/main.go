// Package main provides the entry point for the résumé importer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_import",
	Short: "Résumé extraction, normalization and import",
	Long: "resume_import turns résumé text into normalized, deduplicated experience, education and skill records. " +
		"It can parse files locally, import them into PostgreSQL, or serve the same pipeline over a REST API.",
	SilenceUsage: true,
}

var (
	configPath string
	logMode    string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "Log mode: dev, prod or off (overrides LOG_MODE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
