package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-importer/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Validate batch JSON files against the batch schema",
	Long:  "Checks that each file is a parsed résumé batch (as written by `parse --out-dir`) matching the canonical batch schema.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		err := schemas.ValidateBatchFile(path)
		if err == nil {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", path)
			continue
		}

		failed++
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", path)
			for _, fe := range validationErr.Errors {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "    %s: %s\n", fe.Field, fe.Message)
			}
			continue
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", path, err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}
