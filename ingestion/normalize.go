package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/memberqa/core"
)

const (
	// DefaultChunkSize is the number of records one worker normalizes per task.
	DefaultChunkSize = 256
)

var (
	textFields      = []string{"text", "message"}
	memberFields    = []string{"member_name", "member", "author"}
	timestampFields = []string{"timestamp", "date"}
)

// NormalizeRecord maps one raw record onto a Document. Objects take text
// from text|message (else the record's JSON), member from
// member_name|member|author (else "unknown") and timestamp from
// timestamp|date (else ""). Any other JSON value becomes a text-only document.
// The ID is assigned later by core.NewCorpus.
func NormalizeRecord(raw json.RawMessage) core.Document {
	raw = bytes.TrimSpace(raw)
	doc := core.Document{
		Member: core.DefaultMember,
		Raw:    slices.Clone(raw),
	}

	var obj map[string]json.RawMessage
	if len(raw) > 0 && raw[0] == '{' && json.Unmarshal(raw, &obj) == nil {
		doc.Text = firstString(obj, textFields)
		if doc.Text == "" {
			doc.Text = compactJSON(raw)
		}
		if member := firstString(obj, memberFields); member != "" {
			doc.Member = member
		}
		doc.Timestamp = firstString(obj, timestampFields)
		return doc
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		doc.Text = s
	} else {
		doc.Text = string(raw)
	}
	return doc
}

// firstString returns the first non-empty scalar among keys.
func firstString(obj map[string]json.RawMessage, keys []string) string {
	for _, key := range keys {
		if s := scalarString(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

// scalarString renders strings as-is and numbers by their JSON text.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch c := raw[0]; {
	case c == '"':
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	case c == '-' || (c >= '0' && c <= '9'):
		return string(raw)
	}
	return ""
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Normalizer converts raw records to documents on a worker pool.
type Normalizer struct {
	pool      *ants.Pool
	chunkSize int
	logger    *slog.Logger
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) NormalizerOption {
	return func(n *Normalizer) error {
		if size < 1 {
			return ErrInvalidPoolSize
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if n.pool != nil {
			n.pool.Release()
		}
		n.pool = pool
		return nil
	}
}

// WithChunkSize sets how many records a single task handles.
// Default is DefaultChunkSize.
func WithChunkSize(size int) NormalizerOption {
	return func(n *Normalizer) error {
		if size < 1 {
			size = 1
		}
		n.chunkSize = size
		return nil
	}
}

// WithNormalizerLogger sets a custom logger.
// Default is slog.Default().
func WithNormalizerLogger(logger *slog.Logger) NormalizerOption {
	return func(n *Normalizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger
		return nil
	}
}

// NewNormalizer creates a normalizer with its own worker pool.
// Call Release when done.
func NewNormalizer(opts ...NormalizerOption) (*Normalizer, error) {
	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	n := &Normalizer{
		pool:      pool,
		chunkSize: DefaultChunkSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(n); optErr != nil {
			n.Release()
			return nil, optErr
		}
	}

	n.logger = n.logger.With("component", "normalizer")
	return n, nil
}

// Normalize converts records to documents in input order. progress may be nil.
func (n *Normalizer) Normalize(ctx context.Context, records []json.RawMessage, progress *Progress) ([]core.Document, error) {
	docs := make([]core.Document, len(records))

	// Small batches are not worth a round trip through the pool
	if len(records) <= n.chunkSize {
		for i, raw := range records {
			docs[i] = NormalizeRecord(raw)
		}
		progress.Add(len(records))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return docs, nil
	}

	var wg sync.WaitGroup
	for start := 0; start < len(records); start += n.chunkSize {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		end := min(start+n.chunkSize, len(records))
		wg.Add(1)
		err := n.pool.Submit(func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				docs[i] = NormalizeRecord(records[i])
			}
			progress.Add(end - start)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.logger.Debug("normalized records", "records", len(records), "chunk_size", n.chunkSize)
	return docs, nil
}

// Release releases the worker pool.
// The normalizer should not be used after calling Release.
func (n *Normalizer) Release() {
	if n.pool != nil {
		n.pool.Release()
	}
}
