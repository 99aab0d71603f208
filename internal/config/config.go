// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by Load
const (
	DefaultTier          = "standard"
	DefaultLogMode       = "dev"
	DefaultLogLevel      = "info"
	DefaultPort          = 8080
	DefaultMaxInputChars = 50000
	DefaultConcurrency   = 4
)

// Config is the importer configuration. Values come from a JSON file, then
// environment variables, then defaults; CLI flags are merged on top by the caller.
type Config struct {
	APIKey        string `json:"api_key,omitempty"`                                         // Gemini API key
	DatabaseURL   string `json:"database_url,omitempty"`                                    // PostgreSQL connection URL
	Model         string `json:"model,omitempty"`                                           // Overrides the model of the selected tier
	Tier          string `json:"tier,omitempty" validate:"omitempty,oneof=lite standard advanced"`
	LogMode       string `json:"log_mode,omitempty" validate:"omitempty,oneof=dev prod off"`
	LogLevel      string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Port          int    `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	MaxInputChars int    `json:"max_input_chars,omitempty" validate:"omitempty,min=1000,max=1000000"`
	Concurrency   int    `json:"concurrency,omitempty" validate:"omitempty,min=1,max=64"`
	DisableAI     bool   `json:"disable_ai,omitempty"` // Skip the language model and use heuristics only
}

// envVars maps environment variables onto config fields
var envVars = []struct {
	name  string
	apply func(c *Config, v string) error
}{
	{"GEMINI_API_KEY", func(c *Config, v string) error { c.APIKey = v; return nil }},
	{"DATABASE_URL", func(c *Config, v string) error { c.DatabaseURL = v; return nil }},
	{"RESUME_MODEL", func(c *Config, v string) error { c.Model = v; return nil }},
	{"RESUME_MODEL_TIER", func(c *Config, v string) error { c.Tier = v; return nil }},
	{"LOG_MODE", func(c *Config, v string) error { c.LogMode = v; return nil }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.LogLevel = v; return nil }},
	{"PORT", func(c *Config, v string) (err error) { c.Port, err = strconv.Atoi(v); return err }},
	{"RESUME_MAX_INPUT_CHARS", func(c *Config, v string) (err error) { c.MaxInputChars, err = strconv.Atoi(v); return err }},
	{"RESUME_DISABLE_AI", func(c *Config, v string) (err error) { c.DisableAI, err = strconv.ParseBool(v); return err }},
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: the file at path when non-empty,
// environment variables for fields the file left empty, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	env, err := FromEnv()
	if err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(*env)
	merged.DisableAI = cfg.DisableAI || env.DisableAI
	merged = merged.MergeWithDefaults(Defaults())

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// FromEnv reads the configuration fields set in the environment
func FromEnv() (*Config, error) {
	cfg := &Config{}
	for _, ev := range envVars {
		v, ok := os.LookupEnv(ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.apply(cfg, v); err != nil {
			return nil, fmt.Errorf("config error: invalid %s: %w", ev.name, err)
		}
	}
	return cfg, nil
}

// Defaults returns the default configuration
func Defaults() Config {
	return Config{
		Tier:          DefaultTier,
		LogMode:       DefaultLogMode,
		LogLevel:      DefaultLogLevel,
		Port:          DefaultPort,
		MaxInputChars: DefaultMaxInputChars,
		Concurrency:   DefaultConcurrency,
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the command.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Tier == "" {
		result.Tier = defaults.Tier
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxInputChars == 0 {
		result.MaxInputChars = defaults.MaxInputChars
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
