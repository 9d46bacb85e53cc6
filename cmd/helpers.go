package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/nmehta6/admitchat/internal/chat"
	"github.com/nmehta6/admitchat/internal/config"
	"github.com/nmehta6/admitchat/internal/db"
	"github.com/nmehta6/admitchat/internal/kb"
	"github.com/nmehta6/admitchat/internal/llm"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `admitchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createProviderFromConfig creates the model provider, applying the
// configured rate limit.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
	}
	return provider, nil
}

// createKBSessionFromConfig loads the corpus and starts the logic
// session. A corpus that fails to load or parse is fatal.
func createKBSessionFromConfig(cfg *config.Config) (*kb.Session, error) {
	corpus, err := kb.LoadCorpus(cfg.CorpusFiles)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	session, err := kb.NewSession(corpus, kb.WithMaxSolutions(cfg.MaxSolutions))
	if err != nil {
		return nil, err
	}
	return session, nil
}

// openDatabase opens the conversation store under the data directory.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	return db.Open(filepath.Join(cfg.DataDir, "admitchat.db"))
}

// createOrchestratorFromConfig wires the full turn pipeline: provider,
// knowledge-base session, and conversation store.
func createOrchestratorFromConfig(cfg *config.Config) (*chat.Orchestrator, *db.DB, error) {
	provider, err := createProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating model provider: %w", err)
	}
	session, err := createKBSessionFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	orch := chat.NewOrchestrator(provider, session, chat.NewStore(database), chat.Options{
		Model:          cfg.Model,
		RequestTimeout: cfg.RequestTimeout(),
		QueryTimeout:   cfg.QueryTimeout(),
	})
	return orch, database, nil
}
