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


package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/netutil"

	"github.com/poiesic/memberqa/ingestion"
)

const (
	// DefaultMaxConns caps concurrently open connections.
	DefaultMaxConns = 256

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	maxReindexBody = 64 << 20
)

// HTTPServer serves the question-answering API.
type HTTPServer struct {
	engine          Engine
	maxConns        int
	shutdownTimeout time.Duration
	handler         http.Handler
	logger          *slog.Logger
}

// Option configures an HTTPServer.
type Option func(*HTTPServer) error

// WithMaxConns caps concurrently open connections.
// Default is DefaultMaxConns.
func WithMaxConns(n int) Option {
	return func(s *HTTPServer) error {
		if n < 1 {
			return ErrInvalidMaxConns
		}
		s.maxConns = n
		return nil
	}
}

// WithShutdownTimeout bounds how long Serve waits for in-flight requests.
// Default is DefaultShutdownTimeout.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *HTTPServer) error {
		if d > 0 {
			s.shutdownTimeout = d
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *HTTPServer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewHTTPServer creates an HTTP server for engine.
func NewHTTPServer(engine Engine, opts ...Option) (*HTTPServer, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}

	s := &HTTPServer{
		engine:          engine,
		maxConns:        DefaultMaxConns,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "http")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ask", s.handleAsk)
	mux.HandleFunc("POST /reindex", s.handleReindex)
	mux.HandleFunc("GET /debug/sample", s.handleSample)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = withRequestID(withAccessLog(s.logger, withRecover(s.logger, mux)))
	return s, nil
}

// Handler returns the HTTP handler with middleware applied.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *HTTPServer) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. At most maxConns connections are open at once.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(netutil.LimitListener(ln, s.maxConns))
	}()
	s.logger.Info("listening", "addr", ln.Addr().String(), "max_conns", s.maxConns)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type reindexResponse struct {
	Status    string `json:"status"`
	TotalDocs int    `json:"total_docs"`
}

type reindexError struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type healthResponse struct {
	Status     string `json:"status"`
	TotalDocs  int    `json:"total_docs"`
	Generation uint64 `json:"generation"`
	AnswerMode string `json:"answer_mode"`
	LLMEnabled bool   `json:"llm_enabled"`
}

func (s *HTTPServer) handleAsk(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Answer: s.engine.Answer(r.Context(), q)})
}

// handleReindex refreshes from the configured sources. A request body, if
// present, is used as the messages payload instead.
func (s *HTTPServer) handleReindex(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxReindexBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var n int
	if len(bytes.TrimSpace(body)) > 0 {
		records, unwrapErr := ingestion.Unwrap(body)
		if unwrapErr != nil {
			writeJSON(w, http.StatusBadRequest, reindexError{Status: "error", Error: unwrapErr.Error()})
			return
		}
		n, err = s.engine.Reindex(r.Context(), records)
	} else {
		n, err = s.engine.Refresh(r.Context())
	}
	if err != nil {
		s.logger.Warn("reindex failed", "err", err, "request_id", r.Header.Get(RequestIDHeader))
		writeJSON(w, http.StatusBadGateway, reindexError{Status: "error", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, reindexResponse{Status: "ok", TotalDocs: n})
}

func (s *HTTPServer) handleSample(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	n := 0
	if v := query.Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "n must be an integer")
			return
		}
		n = parsed
	}

	includeRaw := false
	if v := query.Get("raw"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "raw must be a boolean")
			return
		}
		includeRaw = parsed
	}

	writeJSON(w, http.StatusOK, s.engine.DebugSample(n, includeRaw))
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.engine.Stats()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		TotalDocs:  stats.TotalDocs,
		Generation: stats.Generation,
		AnswerMode: stats.AnswerMode,
		LLMEnabled: stats.LLMEnabled,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
