package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-importer/internal/config"
	"github.com/jonathan/resume-importer/internal/ingestion"
	"github.com/jonathan/resume-importer/internal/observability"
	"github.com/jonathan/resume-importer/internal/parsing"
	"github.com/jonathan/resume-importer/internal/schemas"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse résumé files into structured records",
	Long: "Parse one or more résumé files (plain text, markdown or HTML) into experience, education and skill records. " +
		"With one file the result is printed as JSON; with --out-dir each file gets a <name>.batch.json.",
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseOutDir        string
	parseNoAI          bool
	parseVerbose       bool
	parseValidate      bool
	parseConcurrency   int
	parseMaxInputChars int
	parseTier          string
	parseModel         string
	parseAPIKey        string
)

func init() {
	parseCmd.Flags().StringVarP(&parseOutDir, "out-dir", "o", "", "Directory for <name>.batch.json files (default: print JSON to stdout)")
	parseCmd.Flags().BoolVar(&parseNoAI, "no-ai", false, "Skip the language model and use heuristic extraction only")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print a readable summary of each result to stderr")
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "Fail when a batch does not match the batch schema")
	parseCmd.Flags().IntVar(&parseConcurrency, "concurrency", 0, "Files parsed in parallel (default from config)")
	parseCmd.Flags().IntVar(&parseMaxInputChars, "max-input-chars", 0, "Characters sent to the model per résumé (default from config)")
	parseCmd.Flags().StringVar(&parseTier, "tier", "", "Model tier: lite, standard or advanced")
	parseCmd.Flags().StringVar(&parseModel, "model", "", "Model name overriding the tier's default")
	parseCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	rootCmd.AddCommand(parseCmd)
}

// parsedFile is the result of parsing one input file
type parsedFile struct {
	File string `json:"file"`
	*parsing.Result
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx, config.Config{
		APIKey:        parseAPIKey,
		Model:         parseModel,
		Tier:          parseTier,
		MaxInputChars: parseMaxInputChars,
		Concurrency:   parseConcurrency,
		DisableAI:     parseNoAI,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	parser := rt.parser()
	results := make([]parsedFile, len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.cfg.Concurrency)
	for i, path := range args {
		g.Go(func() error {
			doc, err := ingestion.ExtractFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			res := parser.Parse(gctx, doc.Text)
			if parseValidate {
				if err := schemas.ValidateBatch(res.Batch); err != nil {
					return fmt.Errorf("%s: batch does not validate against schema: %w", path, err)
				}
			}
			results[i] = parsedFile{File: path, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if parseVerbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		for _, r := range results {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\n%s\n", r.File)
			printer.PrintResult(r.Result)
		}
	}

	if parseOutDir != "" {
		return writeBatches(cmd, parseOutDir, results)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0].Result)
	}
	return enc.Encode(results)
}

// writeBatches writes each batch to <out-dir>/<name>.batch.json
func writeBatches(cmd *cobra.Command, outDir string, results []parsedFile) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, r := range results {
		base := strings.TrimSuffix(filepath.Base(r.File), filepath.Ext(r.File))
		outPath := filepath.Join(outDir, base+".batch.json")

		jsonBytes, err := json.MarshalIndent(r.Batch, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(outPath, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d experiences, %d education, %d skill groups, %d diagnostics -> %s\n",
			r.File, len(r.Batch.Experiences), len(r.Batch.Education), len(r.Batch.Skills), len(r.Diagnostics), outPath)
	}
	return nil
}
