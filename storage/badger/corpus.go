// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memberqa/core"
	"github.com/poiesic/memberqa/storage"
)

// CorpusRepository implements storage.CorpusRepository for BadgerDB.
//
// Each generation's documents live under their own key prefix. A save
// writes the new generation, then points the meta record at it, then drops
// the previous generation.
type CorpusRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

// newCorpusRepository is an internal constructor that returns the concrete type.
func newCorpusRepository(backend *Backend) (*CorpusRepository, error) {
	if backend == nil {
		return nil, errors.New("badger backend is required")
	}
	if backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &CorpusRepository{
		backend: backend,
		logger:  slog.Default().With("component", "corpus-repository"),
	}, nil
}

// NewCorpusRepository creates a corpus repository on backend.
//
// Returns storage.CorpusRepository interface to enforce abstraction.
func NewCorpusRepository(backend *Backend) (storage.CorpusRepository, error) {
	return newCorpusRepository(backend)
}

// Close is a no-op; the backend is owned by the caller.
func (r *CorpusRepository) Close() error {
	return nil
}

// SaveCorpus stores c as the current generation.
func (r *CorpusRepository) SaveCorpus(ctx context.Context, c *core.Corpus) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if c == nil {
		return core.ErrInvalidCorpus
	}
	if err := core.ValidateCorpus(c); err != nil {
		return err
	}

	previous, err := r.Meta(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	// Clear leftovers of an interrupted save of the same generation
	prefix := makeGenerationPrefix(c.Generation)
	if _, err := r.backend.DeletePrefix(prefix); err != nil {
		return fmt.Errorf("clearing generation %d: %w", c.Generation, err)
	}

	docs := c.Documents()
	err = r.backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for i := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := wb.Set(makeDocumentKey(c.Generation, i), storage.MarshalDocument(&docs[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing generation %d: %w", c.Generation, err)
	}

	meta := storage.MetaOf(c)
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(corpusMetaKey), storage.MarshalCorpusMeta(&meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("switching to generation %d: %w", c.Generation, err)
	}

	if previous != nil && previous.Generation != c.Generation {
		if _, err := r.backend.DeletePrefix(makeGenerationPrefix(previous.Generation)); err != nil {
			// The new generation is already current; stale keys are only wasted space
			r.logger.Warn("failed to drop previous generation", "generation", previous.Generation, "err", err)
		}
	}

	r.logger.Debug("saved corpus", "generation", c.Generation, "documents", len(docs))
	return nil
}

// Meta returns the meta record of the current generation.
func (r *CorpusRepository) Meta(ctx context.Context) (*storage.CorpusMeta, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var meta *storage.CorpusMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(corpusMetaKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalCorpusMeta(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// LoadCorpus returns the current generation, verified against its meta record.
func (r *CorpusRepository) LoadCorpus(ctx context.Context) (*core.Corpus, error) {
	meta, err := r.Meta(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]core.Document, 0, meta.Count)
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeGenerationPrefix(meta.Generation)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				doc, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				docs = append(docs, *doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if len(docs) != meta.Count {
		return nil, fmt.Errorf("%w: generation %d has %d documents, expected %d",
			storage.ErrCorruptCorpus, meta.Generation, len(docs), meta.Count)
	}

	c, err := core.RestoreCorpus(meta.Generation, docs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptCorpus, err)
	}
	if c.Checksum() != meta.Checksum {
		return nil, fmt.Errorf("%w: generation %d checksum mismatch", storage.ErrCorruptCorpus, meta.Generation)
	}
	c.BuiltAt = meta.BuiltAt

	r.logger.Debug("loaded corpus", "generation", meta.Generation, "documents", len(docs))
	return c, nil
}
