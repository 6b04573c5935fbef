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


// Package memberqa answers natural-language questions about member messages.
//
// An Engine serves one immutable corpus snapshot at a time. Questions are
// answered against the snapshot current when they arrive, while Reindex and
// Refresh build the next snapshot and swap it in atomically.
package memberqa

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/memberqa/ai"
	"github.com/poiesic/memberqa/ai/openai"
	"github.com/poiesic/memberqa/analysis"
	"github.com/poiesic/memberqa/answer"
	"github.com/poiesic/memberqa/core"
	"github.com/poiesic/memberqa/corpus"
	"github.com/poiesic/memberqa/extract"
	"github.com/poiesic/memberqa/ingestion"
	"github.com/poiesic/memberqa/search"
	"github.com/poiesic/memberqa/storage"
)

// DefaultSampleSize is the number of documents DebugSample returns for n <= 0.
const DefaultSampleSize = 5

// Stats summarizes the engine state.
type Stats struct {
	TotalDocs  int       `json:"total_docs"`
	Generation uint64    `json:"generation"`
	BuiltAt    time.Time `json:"built_at"`
	AnswerMode string    `json:"answer_mode"`
	LLMEnabled bool      `json:"llm_enabled"`
	LLMReason  string    `json:"llm_reason,omitempty"`
}

// Engine ties ingestion, the corpus snapshot and the answer pipeline together.
// It is safe for concurrent use.
type Engine struct {
	holder   *corpus.Holder
	answers  *answer.Service
	pipeline *ingestion.Pipeline
	repo     storage.CorpusRepository
	closers  []func() error
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	generator ai.Generator
	topK      int
	source    ingestion.Source
	repo      storage.CorpusRepository
	progress  io.Writer
	logger    *slog.Logger
	closers   []func() error
}

// WithAIConfig configures the external answer service.
// Default is rule-based answers only.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithGenerator uses gen instead of building an OpenAI generator from the
// AI config. The capability is still resolved from the AI config.
func WithGenerator(gen ai.Generator) EngineOption {
	return func(o *engineOptions) {
		o.generator = gen
	}
}

// WithTopK sets how many documents are ranked per question.
// Default is search.DefaultLimit.
func WithTopK(k int) EngineOption {
	return func(o *engineOptions) {
		o.topK = k
	}
}

// WithSource sets where Refresh reads records from.
func WithSource(source ingestion.Source) EngineOption {
	return func(o *engineOptions) {
		o.source = source
	}
}

// WithRepository persists each new generation to repo and lets Load
// restore it. The engine does not close repo.
func WithRepository(repo storage.CorpusRepository) EngineOption {
	return func(o *engineOptions) {
		o.repo = repo
	}
}

// WithProgress writes normalization progress to w.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// withCloser registers fn to run on Close, after the engine's own resources.
func withCloser(fn func() error) EngineOption {
	return func(o *engineOptions) {
		o.closers = append(o.closers, fn)
	}
}

// NewEngine creates an engine serving an empty corpus.
// Call Load or Reindex to populate it and Close when done.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		topK:   search.DefaultLimit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	answers, err := newAnswerService(options)
	if err != nil {
		return nil, err
	}

	source := options.source
	if source == nil {
		source = ingestion.NewChainSource()
	}
	pipelineOpts := []ingestion.Option{ingestion.WithLogger(options.logger)}
	if options.progress != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithProgress(options.progress))
	}
	pipeline, err := ingestion.NewPipeline(source, pipelineOpts...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		holder:   corpus.NewHolder(nil),
		answers:  answers,
		pipeline: pipeline,
		repo:     options.repo,
		closers:  options.closers,
		logger:   options.logger.With("component", "engine"),
	}, nil
}

func newAnswerService(options *engineOptions) (*answer.Service, error) {
	ranker, err := search.NewRanker(search.WithLimit(options.topK), search.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}
	extractor, err := extract.NewExtractor(extract.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	capability := ai.ResolveCapability(options.aiConfig)
	generator := options.generator
	if generator == nil && capability.UsesGenerator() {
		if generator, err = openai.NewGenerator(options.aiConfig); err != nil {
			return nil, err
		}
	}
	options.logger.Info("answer mode resolved",
		"mode", capability.Mode, "llm", capability.UsesGenerator(), "reason", capability.Reason)

	return answer.NewService(
		answer.WithRanker(ranker),
		answer.WithExtractor(extractor),
		answer.WithGenerator(generator, capability),
		answer.WithLogger(options.logger),
	)
}

// Close releases the ingestion workers and any resources the engine opened.
func (e *Engine) Close() error {
	e.pipeline.Release()

	var errs []error
	for _, fn := range e.closers {
		if err := fn(); err != nil {
			e.logger.Error("error closing engine resource", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Current returns the corpus snapshot being served.
func (e *Engine) Current() *core.Corpus {
	return e.holder.Current()
}

// Answer answers question against the current snapshot. It never fails.
func (e *Engine) Answer(ctx context.Context, question string) string {
	return e.answers.Answer(ctx, e.holder.Current(), question)
}

// Respond is Answer with details on how the answer was produced.
func (e *Engine) Respond(ctx context.Context, question string) answer.Response {
	return e.answers.Respond(ctx, e.holder.Current(), question)
}

// Reindex normalizes records into a new generation and swaps it in.
// On failure the current snapshot keeps being served.
func (e *Engine) Reindex(ctx context.Context, records []json.RawMessage) (int, error) {
	docs, err := e.pipeline.Normalize(ctx, records)
	if err != nil {
		return 0, err
	}
	return e.publish(ctx, docs)
}

// Refresh fetches records from the configured sources and reindexes them.
func (e *Engine) Refresh(ctx context.Context) (int, error) {
	docs, err := e.pipeline.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	return e.publish(ctx, docs)
}

func (e *Engine) publish(ctx context.Context, docs []core.Document) (int, error) {
	next, err := e.holder.Reindex(func(generation uint64) (*core.Corpus, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return core.NewCorpus(generation, docs), nil
	})
	if err != nil {
		return 0, err
	}

	e.persist(ctx, next)
	return next.Len(), nil
}

// persist saves c best-effort. Serving does not depend on storage.
func (e *Engine) persist(ctx context.Context, c *core.Corpus) {
	if e.repo == nil {
		return
	}
	if err := e.repo.SaveCorpus(ctx, c); err != nil {
		e.logger.Warn("failed to persist corpus", "generation", c.Generation, "err", err)
	}
}

// Load restores the persisted generation if there is one, otherwise it
// refreshes from the sources. When neither works the engine keeps serving
// an empty corpus; the failure is logged, not returned.
func (e *Engine) Load(ctx context.Context) (int, error) {
	if e.repo != nil {
		c, err := e.repo.LoadCorpus(ctx)
		switch {
		case err == nil:
			e.holder.Replace(c)
			e.logger.Info("loaded persisted corpus", "generation", c.Generation, "documents", c.Len())
			return c.Len(), nil
		case errors.Is(err, storage.ErrNotFound):
			e.logger.Debug("no persisted corpus")
		default:
			e.logger.Warn("cannot load persisted corpus, rebuilding", "err", err)
		}
	}

	n, err := e.Refresh(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		e.logger.Warn("no messages available, starting with an empty corpus", "err", err)
		return 0, nil
	}
	return n, nil
}

// Watch refreshes the corpus whenever the messages file at path changes,
// until ctx is done.
func (e *Engine) Watch(ctx context.Context, path string) error {
	w := ingestion.NewWatcher(path, ingestion.DefaultDebounce, func(ctx context.Context) error {
		_, err := e.Refresh(ctx)
		return err
	})
	return w.Run(ctx)
}

// DebugSample returns the first n documents of the current snapshot.
// n <= 0 means DefaultSampleSize.
func (e *Engine) DebugSample(n int, includeRaw bool) core.Sample {
	if n <= 0 {
		n = DefaultSampleSize
	}
	return core.NewSample(e.holder.Current(), n, includeRaw)
}

// Analyze reports on the current snapshot.
func (e *Engine) Analyze() analysis.Report {
	return analysis.Analyze(e.holder.Current())
}

// Stats returns the size and generation of the current snapshot and the
// resolved answer mode.
func (e *Engine) Stats() Stats {
	c := e.holder.Current()
	capability := e.answers.Capability()
	return Stats{
		TotalDocs:  c.Len(),
		Generation: c.Generation,
		BuiltAt:    c.BuiltAt,
		AnswerMode: string(capability.Mode),
		LLMEnabled: capability.UsesGenerator(),
		LLMReason:  capability.Reason,
	}
}
