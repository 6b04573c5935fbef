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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCorpus indicates a Corpus failed validation.
	ErrInvalidCorpus = errors.New("invalid corpus")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrNonContiguousID indicates a document ID does not match its position.
	ErrNonContiguousID = errors.New("document id is not its ordinal position")

	// ErrEmptyMember indicates the Member field is empty.
	ErrEmptyMember = errors.New("member cannot be empty")
)
