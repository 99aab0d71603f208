package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jonathan/resume-importer/internal/config"
	"github.com/jonathan/resume-importer/internal/db"
	"github.com/jonathan/resume-importer/internal/llm"
	"github.com/jonathan/resume-importer/internal/logging"
	"github.com/jonathan/resume-importer/internal/metrics"
	"github.com/jonathan/resume-importer/internal/parsing"
)

// runtime bundles what every command builds from configuration
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	client   llm.Client
}

// loadConfig resolves the effective configuration: command flags first, then
// the config file, environment and defaults.
func loadConfig(flags config.Config) (*config.Config, error) {
	flags.LogMode = firstNonEmpty(flags.LogMode, logMode)
	flags.LogLevel = firstNonEmpty(flags.LogLevel, logLevel)

	loaded, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	merged := flags.MergeWithDefaults(*loaded)
	merged.DisableAI = flags.DisableAI || loaded.DisableAI
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// newRuntime loads configuration and builds the logger, metrics and, unless
// disabled or unconfigured, the language-model client.
func newRuntime(ctx context.Context, flags config.Config) (*runtime, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics.New(registry),
	}

	switch {
	case cfg.DisableAI:
		logger.Info("language model disabled, using heuristic extraction only")
	case cfg.APIKey == "":
		logger.Warn("GEMINI_API_KEY not set, using heuristic extraction only")
	default:
		tier := llm.ParseTier(cfg.Tier)
		llmConfig := llm.DefaultConfig()
		if cfg.Model != "" {
			llmConfig = llmConfig.WithModel(tier, cfg.Model)
		}
		client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		rt.client = client
		logger.Debug("language model ready", zap.String("model", client.GetModel(tier)))
	}

	return rt, nil
}

// parser builds a Parser from the runtime configuration
func (rt *runtime) parser() *parsing.Parser {
	return parsing.New(rt.client,
		parsing.WithLogger(rt.logger),
		parsing.WithMetrics(rt.metrics),
		parsing.WithTier(llm.ParseTier(rt.cfg.Tier)),
		parsing.WithMaxInputChars(rt.cfg.MaxInputChars),
	)
}

// connect opens the database named by the configuration
func (rt *runtime) connect(ctx context.Context) (*db.DB, error) {
	if rt.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url)")
	}
	database, err := db.Connect(ctx, rt.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

// Close releases the client and flushes the logger
func (rt *runtime) Close() {
	if rt.client != nil {
		_ = rt.client.Close()
	}
	_ = rt.logger.Sync()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
