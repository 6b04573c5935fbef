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


// Package search ranks corpus documents against a free-text query.
//
// The Ranker implements a two-phase algorithm:
//   - Direct member lookup: when query tokens name a member, that member's
//     messages are returned newest first
//   - Scored fallback: token overlap plus member, phrase and recency boosts,
//     with a corpus-order fallback so a nonempty corpus never ranks empty
//
// Tokenize is the shared tokenizer; the extraction layer uses it too.
package search
