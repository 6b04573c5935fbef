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


package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/memberqa/core"
)

// Pipeline fetches raw records from a source and normalizes them.
type Pipeline struct {
	source     Source
	normalizer *Normalizer
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithNormalizer replaces the default normalizer. The pipeline takes
// ownership and releases it.
func WithNormalizer(n *Normalizer) Option {
	return func(p *Pipeline) error {
		if n == nil {
			return nil
		}
		if p.normalizer != nil {
			p.normalizer.Release()
		}
		p.normalizer = n
		return nil
	}
}

// WithProgress writes normalization progress to w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline reading from source.
func NewPipeline(source Source, opts ...Option) (*Pipeline, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}

	normalizer, err := NewNormalizer()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		source:     source,
		normalizer: normalizer,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.logger = p.logger.With("component", "ingestion")
	return p, nil
}

// Fetch pulls records from the source and normalizes them.
func (p *Pipeline) Fetch(ctx context.Context) ([]core.Document, error) {
	records, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", p.source.Name(), err)
	}
	return p.Normalize(ctx, records)
}

// Normalize converts raw records to documents in input order.
func (p *Pipeline) Normalize(ctx context.Context, records []json.RawMessage) ([]core.Document, error) {
	var progress *Progress
	if p.progress != nil {
		progress = NewProgress(p.progress, "normalizing", len(records), DefaultChunkSize)
	}

	docs, err := p.normalizer.Normalize(ctx, records, progress)
	if err != nil {
		return nil, err
	}
	progress.Finish()

	p.logger.Debug("ingested records", "source", p.source.Name(), "documents", len(docs))
	return docs, nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.normalizer != nil {
		p.normalizer.Release()
	}
}
