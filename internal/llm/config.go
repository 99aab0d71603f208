// Package llm provides the language model configuration and client abstraction
// used for résumé extraction.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for cheap, short extractions
	TierLite ModelTier = "lite"
	// TierStandard is for structured résumé extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or messy documents
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// defaultTemperature keeps extraction output stable between runs
const defaultTemperature float32 = 0.1

// DefaultMaxOutputTokens leaves room for a long career history
const DefaultMaxOutputTokens int32 = 8192

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32

	// MaxOutputTokens caps the answer length; zero keeps the provider default
	MaxOutputTokens int32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     defaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// ParseTier maps a tier name to a ModelTier, defaulting to TierStandard
func ParseTier(name string) ModelTier {
	switch ModelTier(name) {
	case TierLite, TierAdvanced:
		return ModelTier(name)
	default:
		return TierStandard
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

func (c *Config) temperature() float32 {
	if c.Temperature <= 0 {
		return defaultTemperature
	}
	return c.Temperature
}
