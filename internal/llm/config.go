// Package llm wraps the Gemini API for the optional LLM-backed question
// generator.
package llm

import "time"

// ModelTier represents the capability level of a model.
type ModelTier string

const (
	// TierLite is for short generation tasks such as interview questions.
	TierLite ModelTier = "lite"
	// TierStandard is for structured output that needs more reasoning.
	TierStandard ModelTier = "standard"
)

// Config holds the model configuration for the Gemini client.
type Config struct {
	Models            map[ModelTier]string
	Temperature       float32
	MaxOutputTokens   int32
	SystemInstruction string
	Timeout           time.Duration
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:       0.7,
		MaxOutputTokens:   2048,
		SystemInstruction: "You are an interview coach. Respond with JSON only.",
		Timeout:           20 * time.Second,
	}
}

// GetModel returns the model name for a tier, falling back to the standard
// and then the lite model.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
