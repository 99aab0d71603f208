package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-importer/internal/ingestion"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text",
	Short: "Extract cleaned text from a résumé file",
	Long:  "Extracts and cleans the text of a plain text, markdown or HTML résumé. Writes <name>.cleaned.txt and <name>.meta.json to --out-dir, or prints the text.",
	RunE:  runExtractText,
}

var (
	extractInput  string
	extractOutDir string
)

func init() {
	extractTextCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Path to résumé file (required)")
	extractTextCmd.Flags().StringVarP(&extractOutDir, "out-dir", "o", "", "Output directory (default: print text to stdout)")

	if err := extractTextCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(cmd *cobra.Command, _ []string) error {
	doc, err := ingestion.ExtractFile(extractInput)
	if err != nil {
		return err
	}

	if extractOutDir == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
		return nil
	}

	if err := ingestion.WriteOutput(extractOutDir, doc); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Extracted %s to %s\n", doc.Metadata.Summary(), extractOutDir)
	return nil
}
