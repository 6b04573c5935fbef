package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "valid document",
			doc:     &Document{ID: "0", Member: "Alice", Text: "hi"},
			wantErr: nil,
		},
		{
			name:    "valid document with empty text",
			doc:     &Document{ID: "0", Member: "Alice"},
			wantErr: nil,
		},
		{
			name:    "valid document with garbage timestamp",
			doc:     &Document{ID: "0", Member: "Alice", Timestamp: "yesterday-ish"},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty member",
			doc:     &Document{ID: "0"},
			wantErr: ErrEmptyMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCorpus(t *testing.T) {
	if err := ValidateCorpus(nil); !errors.Is(err, ErrInvalidCorpus) {
		t.Errorf("ValidateCorpus(nil) error = %v, want %v", err, ErrInvalidCorpus)
	}

	if err := ValidateCorpus(EmptyCorpus()); err != nil {
		t.Errorf("ValidateCorpus(empty) unexpected error = %v", err)
	}
}

func TestRestoreCorpus(t *testing.T) {
	t.Run("contiguous ids", func(t *testing.T) {
		c, err := RestoreCorpus(4, []Document{
			{ID: "0", Member: "Alice"},
			{ID: "1", Member: "Bob"},
		})
		if err != nil {
			t.Fatalf("RestoreCorpus() unexpected error = %v", err)
		}
		if c.Len() != 2 || c.Generation != 4 {
			t.Errorf("RestoreCorpus() = len %d gen %d, want len 2 gen 4", c.Len(), c.Generation)
		}
	})

	t.Run("gap in ids", func(t *testing.T) {
		_, err := RestoreCorpus(1, []Document{
			{ID: "0", Member: "Alice"},
			{ID: "2", Member: "Bob"},
		})
		if !errors.Is(err, ErrNonContiguousID) {
			t.Errorf("RestoreCorpus() error = %v, want %v", err, ErrNonContiguousID)
		}
	})

	t.Run("invalid document", func(t *testing.T) {
		_, err := RestoreCorpus(1, []Document{{ID: "0"}})
		if !errors.Is(err, ErrEmptyMember) {
			t.Errorf("RestoreCorpus() error = %v, want %v", err, ErrEmptyMember)
		}
	})
}
