// Package llm provides the LLM provider abstraction behind the generation layer.
// Configuration is an explicit struct passed at construction, never ambient
// environment lookups inside the client.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Supported providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultModel is used when no model name is configured
const DefaultModel = "gemini-2.5-flash"

// DefaultTimeout bounds a single generation request
const DefaultTimeout = 30 * time.Second

// Config holds provider configuration for a client
type Config struct {
	Provider Provider
	Model    string
	Timeout  time.Duration
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    DefaultModel,
		Timeout:  DefaultTimeout,
	}
}

// withDefaults fills zero-valued fields in place of a nil or partial config
func (c *Config) withDefaults() *Config {
	out := DefaultConfig()
	if c == nil {
		return out
	}
	if c.Provider != "" {
		out.Provider = c.Provider
	}
	if c.Model != "" {
		out.Model = c.Model
	}
	if c.Timeout > 0 {
		out.Timeout = c.Timeout
	}
	return out
}
