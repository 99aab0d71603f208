package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-importer/internal/config"
	"github.com/jonathan/resume-importer/internal/pipeline"
	"github.com/jonathan/resume-importer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for parsing résumés and importing them into user profiles.`,
	RunE:  runServe,
}

var (
	servePort        int
	serveDatabaseURL string
	serveAPIKey      string
	serveNoAI        bool
	serveMigrate     bool
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	serveCmd.Flags().BoolVar(&serveNoAI, "no-ai", false, "Skip the language model and use heuristic extraction only")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	rt, err := newRuntime(ctx, config.Config{
		Port:        servePort,
		DatabaseURL: serveDatabaseURL,
		APIKey:      serveAPIKey,
		DisableAI:   serveNoAI,
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

	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}

	rt.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	parser := rt.parser()
	importer := pipeline.NewImporter(database, parser,
		pipeline.WithLogger(rt.logger),
		pipeline.WithMetrics(rt.metrics),
	)

	srv := server.New(server.Config{
		Port:     rt.cfg.Port,
		Logger:   rt.logger,
		Gatherer: rt.registry,
	}, database, parser, importer)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
