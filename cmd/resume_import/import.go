package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-importer/internal/config"
	"github.com/jonathan/resume-importer/internal/ingestion"
	"github.com/jonathan/resume-importer/internal/observability"
	"github.com/jonathan/resume-importer/internal/pipeline"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Parse a résumé and import its records into a user's profile",
	Long: "Stores a résumé file as a new source of --user-id and imports its records, skipping records the user already has from other sources. " +
		"With --source-id an existing source is parsed again and its previously imported records are replaced.",
	RunE: runImport,
}

var (
	importInput       string
	importUserID      string
	importSourceID    string
	importDatabaseURL string
	importAPIKey      string
	importNoAI        bool
	importVerbose     bool
)

func init() {
	importCmd.Flags().StringVarP(&importInput, "in", "i", "", "Path to résumé file")
	importCmd.Flags().StringVar(&importUserID, "user-id", "", "User to import into (required with --in)")
	importCmd.Flags().StringVar(&importSourceID, "source-id", "", "Existing source to parse again")
	importCmd.Flags().StringVar(&importDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	importCmd.Flags().StringVar(&importAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	importCmd.Flags().BoolVar(&importNoAI, "no-ai", false, "Skip the language model and use heuristic extraction only")
	importCmd.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "Print progress and a readable summary of the parsed records")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	if importInput != "" && importSourceID != "" {
		return fmt.Errorf("cannot use --source-id with --in")
	}
	if importInput == "" && importSourceID == "" {
		return fmt.Errorf("must provide either --in (with --user-id) or --source-id")
	}

	var userID, sourceID uuid.UUID
	var doc *ingestion.Document
	var err error
	if importInput != "" {
		if importUserID == "" {
			return fmt.Errorf("--user-id is required with --in")
		}
		if userID, err = uuid.Parse(importUserID); err != nil {
			return fmt.Errorf("invalid user-id: %w", err)
		}
		if doc, err = ingestion.ExtractFile(importInput); err != nil {
			return err
		}
	} else if sourceID, err = uuid.Parse(importSourceID); err != nil {
		return fmt.Errorf("invalid source-id: %w", err)
	}

	ctx := cmd.Context()
	rt, err := newRuntime(ctx, config.Config{
		APIKey:      importAPIKey,
		DatabaseURL: importDatabaseURL,
		DisableAI:   importNoAI,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	database, err := rt.connect(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	opts := []pipeline.Option{pipeline.WithLogger(rt.logger), pipeline.WithMetrics(rt.metrics)}
	if importVerbose {
		opts = append(opts, pipeline.WithProgress(func(ev pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", ev.Step, ev.Message)
		}))
	}
	importer := pipeline.NewImporter(database, rt.parser(), opts...)

	var outcome *pipeline.Outcome
	if doc != nil {
		outcome, err = importer.ImportDocument(ctx, userID, doc)
	} else {
		outcome, err = importer.ImportSource(ctx, sourceID)
	}
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if importVerbose {
		printer.PrintResult(outcome.Parse)
	}
	printer.PrintImport(outcome.Import)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Source %s: %s\n", outcome.Source.ID, outcome.Source.ParseStatus)
	return nil
}
