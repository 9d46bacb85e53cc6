package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level admitchat configuration, corresponding to .admitchat.yml.
type Config struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`

	// CorpusFiles are glob patterns for Prolog rule files. Empty means
	// the embedded admissions corpus.
	CorpusFiles []string `yaml:"corpus_files" koanf:"corpus_files"`

	// MaxSolutions caps the binding sets collected per query.
	MaxSolutions int `yaml:"max_solutions" koanf:"max_solutions"`

	// RequestTimeoutSeconds bounds each model round trip.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`

	// QueryTimeoutSeconds bounds each knowledge-base execution.
	QueryTimeoutSeconds int `yaml:"query_timeout_seconds" koanf:"query_timeout_seconds"`

	// RateLimitRPM caps model requests per minute; 0 disables limiting.
	RateLimitRPM int `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`

	// DataDir holds the SQLite conversation store.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	// Port is the HTTP API listen port.
	Port int `yaml:"port" koanf:"port"`

	// AllowAllOrigins opens CORS to any origin (dev mode).
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
