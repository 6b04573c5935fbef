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


package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/memberqa/ai"
	"github.com/poiesic/memberqa/core"
	"github.com/poiesic/memberqa/extract"
	"github.com/poiesic/memberqa/search"
)

// Source names where an answer came from.
type Source string

const (
	SourceRules       Source = "rules"
	SourceGenerator   Source = "generator"
	SourceUnavailable Source = "unavailable"
	SourceRecovered   Source = "recovered"
)

// Response is an answer plus how it was produced.
type Response struct {
	Answer    string
	Source    Source
	Intent    extract.Intent
	Strategy  string
	Documents []core.Document
}

// Service answers questions against corpus snapshots.
// It is safe for concurrent use.
type Service struct {
	ranker     *search.Ranker
	extractor  *extract.Extractor
	generator  ai.Generator
	capability ai.Capability
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithRanker sets the ranker.
func WithRanker(r *search.Ranker) Option {
	return func(s *Service) error {
		if r == nil {
			return ErrRankerRequired
		}
		s.ranker = r
		return nil
	}
}

// WithExtractor sets the extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Service) error {
		if e == nil {
			return ErrExtractorRequired
		}
		s.extractor = e
		return nil
	}
}

// WithGenerator delegates answers to gen according to capability.
// gen may be nil when capability does not use it.
func WithGenerator(gen ai.Generator, capability ai.Capability) Option {
	return func(s *Service) error {
		s.generator = gen
		s.capability = capability
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates an answer service with a default ranker and extractor.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{
		capability: ai.Capability{Mode: ai.ModeRules, Reason: "no generator configured"},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	var err error
	if s.ranker == nil {
		if s.ranker, err = search.NewRanker(search.WithLogger(s.logger)); err != nil {
			return nil, err
		}
	}
	if s.extractor == nil {
		if s.extractor, err = extract.NewExtractor(extract.WithLogger(s.logger)); err != nil {
			return nil, err
		}
	}

	s.logger = s.logger.With("component", "answer-service")
	return s, nil
}

// Capability returns the resolved answer mode.
func (s *Service) Capability() ai.Capability {
	return s.capability
}

// Answer returns the answer text for question against c.
func (s *Service) Answer(ctx context.Context, c *core.Corpus, question string) string {
	return s.Respond(ctx, c, question).Answer
}

// Respond answers question against c and reports how. It never fails:
// a panic anywhere in the pipeline yields NoRelevantInformation.
func (s *Service) Respond(ctx context.Context, c *core.Corpus, question string) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("answer pipeline panicked", "question", question, "panic", fmt.Sprint(r))
			resp = Response{Answer: NoRelevantInformation, Source: SourceRecovered}
		}
	}()

	ranked := s.ranker.Rank(c, question, 0)

	if s.capability.Enabled && !s.capability.Available {
		return Response{
			Answer:    s.capability.UnavailableAnswer(),
			Source:    SourceUnavailable,
			Documents: ranked,
		}
	}

	if s.capability.UsesGenerator() && s.generator != nil {
		text, err := s.generator.Generate(ctx, question, ranked)
		if err == nil && strings.TrimSpace(text) != "" {
			return Response{
				Answer:    strings.TrimSpace(text),
				Source:    SourceGenerator,
				Documents: ranked,
			}
		}
		s.logger.Warn("generator failed, using rule-based answer", "err", err)
	}

	intent := extract.Classify(question)
	result, found := s.extractor.Extract(intent, question, ranked)
	s.logger.Debug("answered", "intent", intent, "strategy", result.Strategy, "found", found, "ranked", len(ranked))

	return Response{
		Answer:    Compose(intent, result, found, ranked),
		Source:    SourceRules,
		Intent:    intent,
		Strategy:  result.Strategy,
		Documents: ranked,
	}
}
