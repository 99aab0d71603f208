// Package logging builds the zap loggers used by the CLI and the server.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Modes accepted by New
const (
	ModeDevelopment = "dev"
	ModeProduction  = "prod"
	ModeOff         = "off"
)

// New returns a logger for mode ("dev", "prod" or "off") at the given level.
// An empty level keeps the mode's default (debug for dev, info for prod).
func New(mode, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeOff, "none", "nop":
		return zap.NewNop(), nil
	case ModeProduction, "production":
		cfg = zap.NewProductionConfig()
	case ModeDevelopment, "development", "":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log mode %q", mode)
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}

	return cfg.Build()
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
