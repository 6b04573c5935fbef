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


// Package corpus owns the currently served corpus snapshot.
//
// Readers call Current once per query and work against the returned value for
// the rest of the request. Writers go through Reindex, which is serialized so at
// most one rebuild runs at a time, and publish the new snapshot with a single
// atomic store. A reader therefore sees either the old or the new generation in
// full, never a partially built one.
package corpus

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/poiesic/memberqa/core"
)

// ErrBuilderRequired is returned when Reindex is called without a builder.
var ErrBuilderRequired = errors.New("corpus builder required")

// Builder produces the next corpus. It receives the generation number the
// new snapshot must carry.
type Builder func(generation uint64) (*core.Corpus, error)

// Holder publishes immutable corpus snapshots.
type Holder struct {
	current atomic.Pointer[core.Corpus]
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewHolder creates a holder serving initial. A nil initial serves an empty corpus.
func NewHolder(initial *core.Corpus) *Holder {
	if initial == nil {
		initial = core.EmptyCorpus()
	}
	h := &Holder{
		logger: slog.Default().With("component", "corpus"),
	}
	h.current.Store(initial)
	return h
}

// Current returns the snapshot being served.
func (h *Holder) Current() *core.Corpus {
	return h.current.Load()
}

// Reindex builds a new snapshot with build and swaps it in.
// If build fails, the current snapshot is left untouched and the error is returned.
func (h *Holder) Reindex(build Builder) (*core.Corpus, error) {
	if build == nil {
		return nil, ErrBuilderRequired
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	previous := h.current.Load()
	next, err := build(previous.Generation + 1)
	if err != nil {
		h.logger.Warn("reindex failed, keeping current corpus", "generation", previous.Generation, "err", err)
		return nil, err
	}
	if next == nil {
		next = core.NewCorpus(previous.Generation+1, nil)
	}

	h.current.Store(next)
	h.logger.Info("corpus swapped", "generation", next.Generation, "documents", next.Len())
	return next, nil
}

// Replace publishes c without building, e.g. a generation loaded from storage.
func (h *Holder) Replace(c *core.Corpus) {
	if c == nil {
		c = core.EmptyCorpus()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current.Store(c)
}
