package storage

import (
	"context"
	"time"

	"github.com/poiesic/memberqa/core"
)

// CorpusMeta describes the persisted generation.
type CorpusMeta struct {
	Generation uint64
	BuiltAt    time.Time
	Count      int
	Checksum   uint64
}

// CorpusRepository persists corpus snapshots.
// Implementations must be thread-safe and support concurrent access.
type CorpusRepository interface {
	// SaveCorpus stores c as the current generation and discards the
	// previous one. A failed save leaves the previous generation current.
	SaveCorpus(ctx context.Context, c *core.Corpus) error

	// LoadCorpus returns the current generation.
	// Returns ErrNotFound if nothing has been saved.
	LoadCorpus(ctx context.Context) (*core.Corpus, error)

	// Meta returns the meta record of the current generation.
	// Returns ErrNotFound if nothing has been saved.
	Meta(ctx context.Context) (*CorpusMeta, error)

	// Close releases resources held by the repository.
	// It does not close the underlying backend.
	Close() error
}
