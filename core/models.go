package core

import (
	"encoding/binary"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DefaultMember is the member name given to records that carry none.
const DefaultMember = "unknown"

// Fingerprint generates a deterministic 64-bit hash of text using BLAKE2b.
// Identical text always produces the same fingerprint.
func Fingerprint(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Document is one normalized member message.
type Document struct {
	ID        string          // Zero-based ordinal within one corpus generation
	Member    string          // Display name of the authoring member
	Text      string          // Message body, may be empty
	Timestamp string          // Free-form, usually ISO-8601, may be empty
	Raw       json.RawMessage // Copy of the source record, diagnostic only
}

// Corpus is one immutable generation of documents.
// A Corpus must not be modified after it has been published.
type Corpus struct {
	Generation uint64
	BuiltAt    time.Time
	docs       []Document
}

// NewCorpus builds a corpus from docs, assigning ordinal IDs in slice order.
// The slice is copied; later changes by the caller are not visible.
func NewCorpus(generation uint64, docs []Document) *Corpus {
	owned := make([]Document, len(docs))
	for i, doc := range docs {
		doc.ID = strconv.Itoa(i)
		if doc.Member == "" {
			doc.Member = DefaultMember
		}
		owned[i] = doc
	}
	return &Corpus{
		Generation: generation,
		BuiltAt:    time.Now().UTC(),
		docs:       owned,
	}
}

// EmptyCorpus returns a corpus with no documents.
func EmptyCorpus() *Corpus {
	return NewCorpus(0, nil)
}

// Len returns the number of documents. A nil corpus has none.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.docs)
}

// Documents returns the documents in corpus order.
// Callers must treat the returned slice as read-only.
func (c *Corpus) Documents() []Document {
	if c == nil {
		return nil
	}
	return c.docs
}

// Checksum returns a fingerprint over member, timestamp and text of every document.
func (c *Corpus) Checksum() uint64 {
	h, _ := blake2b.New(8, nil)
	for _, doc := range c.Documents() {
		h.Write([]byte(doc.Member))
		h.Write([]byte{0})
		h.Write([]byte(doc.Timestamp))
		h.Write([]byte{0})
		h.Write([]byte(doc.Text))
		h.Write([]byte{0})
	}
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

// SampleEntry is the diagnostic view of one document.
type SampleEntry struct {
	Member    string          `json:"member"`
	Text      string          `json:"text"`
	Timestamp string          `json:"timestamp"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// Sample is a read-only slice of the current corpus for inspection.
type Sample struct {
	TotalDocs int           `json:"total_docs"`
	Sample    []SampleEntry `json:"sample"`
}

// NewSample takes the first n documents of the corpus.
// Raw records are only included when includeRaw is set.
func NewSample(c *Corpus, n int, includeRaw bool) Sample {
	docs := c.Documents()
	if n > len(docs) {
		n = len(docs)
	}
	if n < 0 {
		n = 0
	}

	entries := make([]SampleEntry, n)
	for i := 0; i < n; i++ {
		entries[i] = SampleEntry{
			Member:    docs[i].Member,
			Text:      docs[i].Text,
			Timestamp: docs[i].Timestamp,
		}
		if includeRaw {
			entries[i].Raw = docs[i].Raw
		}
	}

	return Sample{
		TotalDocs: len(docs),
		Sample:    entries,
	}
}
