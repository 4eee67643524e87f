// Package llm wraps the Gemini API behind a small Client interface and uses it
// to polish the prose of parsed résumés.
package llm

import (
	"os"
	"strconv"
)

// ModelTier selects a model by cost. Rewrites of single entries use TierLite.
type ModelTier string

const (
	TierLite     ModelTier = "lite"
	TierStandard ModelTier = "standard"
)

// Default generation settings. A low temperature keeps rewrites close to the
// source text.
const (
	DefaultTemperature     float32 = 0.1
	DefaultMaxOutputTokens int32   = 1024
)

// Config holds the Gemini models and generation settings
type Config struct {
	Models          map[ModelTier]string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// ConfigFromEnv returns DefaultConfig with GEMINI_MODEL (lite tier),
// GEMINI_TEMPERATURE and GEMINI_MAX_OUTPUT_TOKENS applied when set and valid.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg = cfg.WithModel(TierLite, model)
	}
	if v, err := strconv.ParseFloat(os.Getenv("GEMINI_TEMPERATURE"), 32); err == nil && v >= 0 && v <= 2 {
		cfg.Temperature = float32(v)
	}
	if v, err := strconv.ParseInt(os.Getenv("GEMINI_MAX_OUTPUT_TOKENS"), 10, 32); err == nil && v > 0 {
		cfg.MaxOutputTokens = int32(v)
	}
	return cfg
}

// GetModel returns the model for tier, falling back to the standard tier and
// then the lite tier. Empty when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c using model for tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return &out
}
