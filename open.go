package memberqa

import (
	"fmt"
	"net/http"

	"github.com/poiesic/memberqa/config"
	"github.com/poiesic/memberqa/ingestion"
	"github.com/poiesic/memberqa/storage/badger"
)

// Open creates an engine wired from cfg: local messages files first, then
// the messages API, with generations persisted to BadgerDB unless the index
// is disabled. opts are applied after the configured ones.
func Open(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := []EngineOption{
		WithTopK(cfg.TopK),
		WithAIConfig(cfg.AIConfig()),
		WithSource(SourceFromConfig(cfg)),
	}

	var backend *badger.Backend
	if !cfg.Index.Disabled {
		var err error
		backend, err = badger.OpenBackend(cfg.Index.Path, cfg.Index.InMemory)
		if err != nil {
			return nil, fmt.Errorf("opening index %q: %w", cfg.Index.Path, err)
		}
		repo, err := badger.NewCorpusRepository(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		base = append(base,
			WithRepository(repo),
			withCloser(repo.Close),
			withCloser(backend.Close),
		)
	}

	engine, err := NewEngine(append(base, opts...)...)
	if err != nil {
		if backend != nil {
			backend.Close()
		}
		return nil, err
	}
	return engine, nil
}

// SourceFromConfig builds the source chain described by cfg.
func SourceFromConfig(cfg *config.Config) ingestion.Source {
	sources := []ingestion.Source{
		ingestion.NewFileSource(ingestion.DefaultMessagePaths(cfg.Messages.Path)...),
	}
	if cfg.Messages.API != "" {
		sources = append(sources, ingestion.NewHTTPSource(cfg.Messages.API,
			ingestion.WithHTTPClient(&http.Client{Timeout: cfg.Messages.Timeout()}),
			ingestion.WithRateLimit(cfg.Messages.RateLimit, cfg.Messages.Burst),
			ingestion.WithRetryPolicy(ingestion.RetryPolicy{
				MaxAttempts: cfg.Messages.MaxAttempts,
				BaseDelay:   ingestion.DefaultRetryPolicy.BaseDelay,
				MaxDelay:    ingestion.DefaultRetryPolicy.MaxDelay,
			}),
		))
	}
	return ingestion.NewChainSource(sources...)
}
