package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig limits one route. Path ending in "/" acts as a prefix.
// Burst falls back to Limit when zero.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Model-backed routes are the expensive ones; RATE_LIMIT_PARSE_PER_HOUR
// and RATE_LIMIT_PARSE_BURST tune them without touching upload limits.
const (
	defaultParsePerHour = 30
	defaultParseBurst   = 5
	defaultUploadPerMin = 100
	defaultUploadBurst  = 10
)

// LoadConfig reads the limiter settings from RATE_LIMIT_* variables.
func LoadConfig() *Config {
	env := envReader(os.Getenv)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	parse := EndpointLimits{
		Limit: env.integer("RATE_LIMIT_PARSE_PER_HOUR", defaultParsePerHour),
		Burst: env.integer("RATE_LIMIT_PARSE_BURST", defaultParseBurst),
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTimeout:     env.duration("RATE_LIMIT_IDLE_TIMEOUT", time.Hour),
		Whitelist:       clientSet(env.text("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(env.text("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpointConfigs(parse),
	}
}

// EndpointLimits is the per-hour budget applied to model-backed parsing
type EndpointLimits struct {
	Limit int
	Burst int
}

// DefaultEndpointConfigs returns the route limits used when nothing is overridden.
func DefaultEndpointConfigs() []EndpointConfig {
	return endpointConfigs(EndpointLimits{Limit: defaultParsePerHour, Burst: defaultParseBurst})
}

func endpointConfigs(parse EndpointLimits) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/parse", Method: "POST", Limit: parse.Limit, Window: time.Hour, Burst: parse.Burst},
		// covers POST /sources/{id}/parse
		{Path: "/sources/", Method: "POST", Limit: parse.Limit, Window: time.Hour, Burst: parse.Burst},
		{Path: "/users/", Method: "POST", Limit: defaultUploadPerMin, Window: time.Minute, Burst: defaultUploadBurst},
	}
}

// envReader wraps a lookup so tests can swap the environment
type envReader func(string) string

func (e envReader) text(key string) string {
	return strings.TrimSpace(e(key))
}

func (e envReader) integer(key string, fallback int) int {
	if n, err := strconv.Atoi(e.text(key)); err == nil {
		return n
	}
	return fallback
}

func (e envReader) boolean(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(e.text(key)); err == nil {
		return b
	}
	return fallback
}

func (e envReader) duration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.text(key)); err == nil {
		return d
	}
	return fallback
}

// clientSet splits a comma-separated client list, skipping blanks
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
