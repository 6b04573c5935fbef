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


// Package storage provides the persistence abstraction for memberqa corpora.
//
// A corpus is stored as one generation: the ordered documents plus a small
// meta record naming the generation, its size and checksum. Saving a new
// generation replaces the previous one; readers of the repository only ever
// see the generation the meta record points at.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage interface:
//
//	repo, err := badger.NewCorpusRepository(backend)  // returns storage.CorpusRepository
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Encoding
//
// Documents and meta records are encoded with mus-go, a compact binary
// format. See DocumentMUS and CorpusMetaMUS.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/index", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, err := badger.NewCorpusRepository(backend)
//	err = repo.SaveCorpus(ctx, corpus)
//	corpus, err = repo.LoadCorpus(ctx)  // storage.ErrNotFound if nothing saved
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
