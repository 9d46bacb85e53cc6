package config

import "time"

// defaultModels maps each provider to its default model.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:     "gpt-4o",
	ProviderOpenRouter: "openai/gpt-4o",
	ProviderAnthropic:  "claude-sonnet-4-5-20250929",
	ProviderOllama:     "llama3",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:              ProviderOpenAI,
		Model:                 defaultModels[ProviderOpenAI],
		MaxSolutions:          64,
		RequestTimeoutSeconds: 60,
		QueryTimeoutSeconds:   10,
		RateLimitRPM:          60,
		DataDir:               ".admitchat",
		Port:                  8080,
	}
}

// DefaultModel returns the default model for the given provider, falling
// back to the OpenAI default for unknown providers.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderOpenAI]
}

// RequestTimeout returns the model round-trip timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// QueryTimeout returns the knowledge-base execution timeout as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}
