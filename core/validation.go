package core

import (
	"fmt"
	"strconv"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Member must not be empty (normalization substitutes DefaultMember)
//
// NOT validated:
//   - Text (empty messages are valid)
//   - Timestamp (free-form, may be empty or unparseable)
//   - Raw (never interpreted)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Member == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyMember)
	}

	return nil
}

// ValidateCorpus checks that every document is valid and that IDs are
// unique and contiguous, i.e. each ID is its zero-based position.
func ValidateCorpus(c *Corpus) error {
	if c == nil {
		return fmt.Errorf("%w: corpus is nil", ErrInvalidCorpus)
	}

	for i := range c.docs {
		doc := &c.docs[i]
		if doc.ID != strconv.Itoa(i) {
			return fmt.Errorf("%w: %w: position %d has id %q", ErrInvalidCorpus, ErrNonContiguousID, i, doc.ID)
		}
		if err := ValidateDocument(doc); err != nil {
			return fmt.Errorf("%w: position %d: %w", ErrInvalidCorpus, i, err)
		}
	}

	return nil
}

// RestoreCorpus rebuilds a corpus from documents that already carry IDs,
// e.g. when loading a persisted generation. IDs are kept and validated.
func RestoreCorpus(generation uint64, docs []Document) (*Corpus, error) {
	c := &Corpus{
		Generation: generation,
		docs:       docs,
	}
	if err := ValidateCorpus(c); err != nil {
		return nil, err
	}
	return c, nil
}
