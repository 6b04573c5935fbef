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


package storage

import (
	"fmt"

	"github.com/poiesic/memberqa/core"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, DocumentMUS.Size(*doc))
	DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, n, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: document: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: document: %d trailing bytes", ErrTruncatedData, len(data)-n)
	}
	return &doc, nil
}

// MarshalCorpusMeta serializes a CorpusMeta to bytes.
func MarshalCorpusMeta(meta *CorpusMeta) []byte {
	buf := make([]byte, CorpusMetaMUS.Size(*meta))
	CorpusMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalCorpusMeta deserializes a CorpusMeta from bytes.
func UnmarshalCorpusMeta(data []byte) (*CorpusMeta, error) {
	meta, _, err := CorpusMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus meta: %w", ErrSerializationFailed, err)
	}
	return &meta, nil
}

// MetaOf describes c as a CorpusMeta.
func MetaOf(c *core.Corpus) CorpusMeta {
	return CorpusMeta{
		Generation: c.Generation,
		BuiltAt:    c.BuiltAt,
		Count:      c.Len(),
		Checksum:   c.Checksum(),
	}
}
