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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

const (
	// MessagesFileName is the local file looked up by DefaultMessagePaths.
	MessagesFileName = "messages.json"

	// DefaultFetchTimeout bounds one request to the messages API.
	DefaultFetchTimeout = 10 * time.Second

	maxPayloadBytes = 64 << 20
)

// Source yields raw message records.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Fetch returns all records in source order.
	Fetch(ctx context.Context) ([]json.RawMessage, error)
}

// DefaultMessagePaths returns the candidate locations of messages.json in
// lookup order: explicit, ./messages.json, /app/messages.json, next to the
// executable, then the working directory. Duplicates are removed.
func DefaultMessagePaths(explicit string) []string {
	candidates := []string{}
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, MessagesFileName, filepath.Join("/app", MessagesFileName))
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), MessagesFileName))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, MessagesFileName))
	}

	seen := make(map[string]bool, len(candidates))
	paths := make([]string, 0, len(candidates))
	for _, p := range candidates {
		key := p
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		paths = append(paths, p)
	}
	return paths
}

// FileSource reads the first readable candidate file.
type FileSource struct {
	paths  []string
	logger *slog.Logger
}

// NewFileSource creates a file source over candidate paths.
func NewFileSource(paths ...string) *FileSource {
	return &FileSource{
		paths:  paths,
		logger: slog.Default().With("component", "file-source"),
	}
}

// Name implements Source.
func (s *FileSource) Name() string {
	return "file"
}

// Paths returns the candidate paths in lookup order.
func (s *FileSource) Paths() []string {
	return s.paths
}

// Fetch reads and unwraps the first candidate that exists and parses.
// Unreadable or malformed candidates are skipped.
func (s *FileSource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	for _, path := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("cannot read messages file", "path", path, "err", err)
			}
			continue
		}

		records, err := Unwrap(data)
		if err != nil {
			s.logger.Warn("skipping malformed messages file", "path", path, "err", err)
			continue
		}

		s.logger.Info("loaded messages file", "path", path, "records", len(records))
		return records, nil
	}
	return nil, ErrNoMessages
}

// HTTPSource fetches records from the remote messages API.
type HTTPSource struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	retry   RetryPolicy
	logger  *slog.Logger
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the HTTP client.
// Default has a DefaultFetchTimeout timeout.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithRateLimit limits requests to rps per second with the given burst.
// Default is 1 request per second, burst 1.
func WithRateLimit(rps float64, burst int) HTTPOption {
	return func(s *HTTPSource) {
		s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithRetryPolicy sets the retry policy.
// Default is DefaultRetryPolicy.
func WithRetryPolicy(policy RetryPolicy) HTTPOption {
	return func(s *HTTPSource) {
		s.retry = policy
	}
}

// NewHTTPSource creates a source for the messages API at url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:     url,
		client:  &http.Client{Timeout: DefaultFetchTimeout},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		retry:   DefaultRetryPolicy,
		logger:  slog.Default().With("component", "http-source"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Source.
func (s *HTTPSource) Name() string {
	return "http"
}

// Fetch GETs the messages API. Server errors and transport failures are
// retried; other non-200 statuses and undecodable bodies are not.
func (s *HTTPSource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	var records []json.RawMessage
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		if err := s.limiter.Wait(ctx); err != nil {
			return Permanent(err)
		}

		var err error
		records, err = s.fetchOnce(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.url, err)
	}

	s.logger.Info("fetched messages", "url", s.url, "records", len(records))
	return records, nil
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, Permanent(err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, err
	}

	records, err := Unwrap(body)
	if err != nil {
		return nil, Permanent(err)
	}
	return records, nil
}

// ChainSource tries sources in order and returns the first success.
type ChainSource struct {
	sources []Source
	logger  *slog.Logger
}

// NewChainSource creates a chain over sources. Nil sources are skipped.
func NewChainSource(sources ...Source) *ChainSource {
	chain := &ChainSource{logger: slog.Default().With("component", "chain-source")}
	for _, s := range sources {
		if s != nil {
			chain.sources = append(chain.sources, s)
		}
	}
	return chain
}

// Name implements Source.
func (c *ChainSource) Name() string {
	return "chain"
}

// Fetch returns the records of the first source that succeeds.
func (c *ChainSource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	var errs []error
	for _, s := range c.sources {
		records, err := s.Fetch(ctx)
		if err == nil {
			return records, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Debug("source failed, trying next", "source", s.Name(), "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	if len(errs) == 0 {
		return nil, ErrNoSourceAvailable
	}
	return nil, fmt.Errorf("%w: %w", ErrNoSourceAvailable, errors.Join(errs...))
}
