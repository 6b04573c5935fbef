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


package search

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/memberqa/core"
)

const (
	// DefaultLimit is the number of documents returned when no limit is given.
	DefaultLimit = 5

	// Scored-fallback boosts.
	memberTokenBoost     = 150
	memberSubstringBoost = 200
	exactPhraseBoost     = 120
	recencyBaseYear      = 2000

	// Query tokens must be longer than this to trigger a member lookup.
	memberLookupMinLen = 2
	// Trimmed queries must be longer than this to earn the phrase boost.
	exactPhraseMinLen = 3
)

// Ranker orders corpus documents by relevance to a query.
type Ranker struct {
	limit  int
	logger *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLimit sets the default number of documents returned.
// Default is DefaultLimit.
func WithLimit(limit int) Option {
	return func(r *Ranker) error {
		if limit < 1 {
			return ErrInvalidLimit
		}
		r.limit = limit
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRanker creates a new ranker.
func NewRanker(opts ...Option) (*Ranker, error) {
	r := &Ranker{
		limit:  DefaultLimit,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	r.logger = r.logger.With("component", "ranker")
	return r, nil
}

// Limit returns the configured default limit.
func (r *Ranker) Limit() int {
	return r.limit
}

// Rank returns up to k documents from c, most relevant first.
// A k of 0 or less uses the configured limit.
func (r *Ranker) Rank(c *core.Corpus, query string, k int) []core.Document {
	return r.RankWithMonitor(c, query, k, nil)
}

// RankWithMonitor ranks like Rank and reports each stage to monitor.
func (r *Ranker) RankWithMonitor(c *core.Corpus, query string, k int, monitor RankMonitor) []core.Document {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if k < 1 {
		k = r.limit
	}

	docs := c.Documents()
	monitor.Start(query, len(docs))

	if len(docs) == 0 {
		monitor.Finish(nil)
		return []core.Document{}
	}

	queryTokens := Tokenize(query)

	// 1. Direct member lookup
	if member, hits := lookupMember(docs, queryTokens); member != "" {
		monitor.MemberLookup(member, hits)
		results := memberDocuments(docs, member, k)
		r.logger.Debug("ranked by member lookup", "member", member, "hits", hits, "results", len(results))
		monitor.Finish(results)
		return results
	}

	// 2. Scored fallback
	q := newScoredQuery(query, queryTokens)
	type scoredDoc struct {
		index int
		score int
	}
	scored := make([]scoredDoc, 0, len(docs))
	for i := range docs {
		score := q.score(&docs[i])
		if score > 0 {
			monitor.Scored(docs[i], score)
			scored = append(scored, scoredDoc{index: i, score: score})
		}
	}

	// Stable so ties keep corpus order
	slices.SortStableFunc(scored, func(a, b scoredDoc) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	if len(scored) == 0 {
		n := min(k, len(docs))
		monitor.Fallback(n)
		results := slices.Clone(docs[:n])
		r.logger.Debug("no positive scores, falling back to corpus order", "results", n)
		monitor.Finish(results)
		return results
	}

	results := make([]core.Document, len(scored))
	for i, s := range scored {
		results[i] = docs[s.index]
	}
	r.logger.Debug("ranked by score", "results", len(results), "top_score", scored[0].score)
	monitor.Finish(results)
	return results
}

// lookupMember counts one hit per document whose lowercased member contains
// any eligible query token, and returns the member with the most hits.
// Ties go to the member encountered first in corpus order.
func lookupMember(docs []core.Document, queryTokens []string) (string, int) {
	eligible := eligibleTokens(queryTokens, memberLookupMinLen)
	if len(eligible) == 0 {
		return "", 0
	}

	hits := make(map[string]int)
	var order []string
	for i := range docs {
		member := strings.ToLower(docs[i].Member)
		for _, tok := range eligible {
			if strings.Contains(member, tok) {
				if hits[docs[i].Member] == 0 {
					order = append(order, docs[i].Member)
				}
				hits[docs[i].Member]++
				break
			}
		}
	}

	best, bestHits := "", 0
	for _, member := range order {
		if hits[member] > bestHits {
			best, bestHits = member, hits[member]
		}
	}
	return best, bestHits
}

// memberDocuments returns all documents by member, newest first, truncated to k.
func memberDocuments(docs []core.Document, member string, k int) []core.Document {
	var results []core.Document
	for i := range docs {
		if docs[i].Member == member {
			results = append(results, docs[i])
		}
	}

	slices.SortStableFunc(results, func(a, b core.Document) int {
		return strings.Compare(timestampKey(b.Timestamp), timestampKey(a.Timestamp))
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}

// scoredQuery holds the query forms the fallback scorer needs.
type scoredQuery struct {
	lower   string
	phrase  string
	tokens  []string
	counts  map[string]int
	members map[string]bool
}

func newScoredQuery(query string, tokens []string) *scoredQuery {
	members := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		members[t] = true
	}
	phrase := strings.ToLower(strings.TrimSpace(query))
	if len(phrase) <= exactPhraseMinLen {
		phrase = ""
	}
	return &scoredQuery{
		lower:   strings.ToLower(query),
		phrase:  phrase,
		tokens:  tokens,
		counts:  countTokens(tokens),
		members: members,
	}
}

// score computes the fallback relevance of doc. Zero means irrelevant.
func (q *scoredQuery) score(doc *core.Document) int {
	score := 0

	// Token overlap
	if len(q.counts) > 0 {
		textCounts := countTokens(Tokenize(doc.Text))
		for tok, n := range q.counts {
			score += n * textCounts[tok]
		}
	}

	// Member-name token overlap
	for _, tok := range Tokenize(doc.Member) {
		if q.members[tok] {
			score += memberTokenBoost
			break
		}
	}

	// Full member name inside the query
	if member := strings.ToLower(doc.Member); member != "" && strings.Contains(q.lower, member) {
		score += memberSubstringBoost
	}

	// Exact phrase
	if q.phrase != "" && strings.Contains(strings.ToLower(doc.Text), q.phrase) {
		score += exactPhraseBoost
	}

	// Recency
	if year, ok := timestampYear(doc.Timestamp); ok && year > recencyBaseYear {
		score += year - recencyBaseYear
	}

	return score
}
