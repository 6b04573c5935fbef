package extract

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/memberqa/core"
	"github.com/poiesic/memberqa/search"
)

const (
	// DefaultMaxScanBytes bounds the text scanned per document.
	DefaultMaxScanBytes = 4096

	// Question tokens must be longer than this to narrow documents by member.
	memberFilterMinLen = 2
)

// Result is a structured fact pulled from documents.
// Which fields are set depends on Intent.
type Result struct {
	Intent   Intent
	Strategy string // Name of the strategy that produced the result

	Date    string // Temporal: matched date or range text
	IsRange bool   // Temporal: Date is a range

	Count    int      // Quantity: number of cars
	Inferred bool     // Quantity: Count came from a numeral, Names is empty
	Names    []string // Quantity: car models; Preference: restaurant names
}

// HasFact reports whether the result carries a structured fact.
// Generic results never do.
func (r Result) HasFact() bool {
	switch r.Intent {
	case IntentTemporal:
		return r.Date != ""
	case IntentQuantity:
		return r.Count > 0
	case IntentPreference:
		return len(r.Names) > 0
	default:
		return false
	}
}

// StrategyFunc inspects documents and returns a result when it finds one.
// Implementations must be pure.
type StrategyFunc func(docs []core.Document) (Result, bool)

// Strategy is a named extraction heuristic.
type Strategy struct {
	Name string
	Fn   StrategyFunc
}

// DefaultStrategies returns the built-in cascade for intent.
func DefaultStrategies(intent Intent) []Strategy {
	switch intent {
	case IntentTemporal:
		return []Strategy{
			{Name: "message-dates", Fn: extractDates},
		}
	case IntentQuantity:
		return []Strategy{
			{Name: "car-models", Fn: extractCarModels},
			{Name: "car-count", Fn: extractCarCount},
		}
	case IntentPreference:
		return []Strategy{
			{Name: "labeled-favorites", Fn: extractLabeledFavorites},
			{Name: "proper-nouns", Fn: extractVenueNames},
		}
	default:
		return []Strategy{
			{Name: "listing", Fn: listDocuments},
		}
	}
}

// Extractor runs the strategy cascade for a classified question.
type Extractor struct {
	cascades     map[Intent][]Strategy
	maxScanBytes int
	logger       *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithStrategies replaces the cascade used for intent.
func WithStrategies(intent Intent, strategies ...Strategy) Option {
	return func(e *Extractor) error {
		for _, s := range strategies {
			if s.Name == "" || s.Fn == nil {
				return ErrStrategyRequired
			}
		}
		e.cascades[intent] = strategies
		return nil
	}
}

// WithMaxScanBytes sets the per-document text budget.
// Default is DefaultMaxScanBytes.
func WithMaxScanBytes(n int) Option {
	return func(e *Extractor) error {
		if n < 1 {
			return ErrInvalidScanLimit
		}
		e.maxScanBytes = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExtractor creates an extractor with the default cascades.
func NewExtractor(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		cascades:     make(map[Intent][]Strategy),
		maxScanBytes: DefaultMaxScanBytes,
		logger:       slog.Default(),
	}
	for _, intent := range []Intent{IntentGeneric, IntentTemporal, IntentQuantity, IntentPreference} {
		e.cascades[intent] = DefaultStrategies(intent)
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	e.logger = e.logger.With("component", "extractor")
	return e, nil
}

// Extract runs the cascade for intent over the ranked documents.
// The boolean is false when every strategy came up empty.
func (e *Extractor) Extract(intent Intent, question string, ranked []core.Document) (Result, bool) {
	docs := e.prepare(question, ranked)

	for _, s := range e.cascades[intent] {
		result, ok := s.Fn(docs)
		if !ok {
			e.logger.Debug("strategy found nothing", "intent", intent, "strategy", s.Name)
			continue
		}
		result.Intent = intent
		result.Strategy = s.Name
		e.logger.Debug("strategy matched", "intent", intent, "strategy", s.Name)
		return result, true
	}

	return Result{Intent: intent}, false
}

// prepare narrows documents to members named in the question, when that
// leaves any, and bounds each text to the scan budget.
func (e *Extractor) prepare(question string, ranked []core.Document) []core.Document {
	docs := FilterByMember(question, ranked)

	bounded := make([]core.Document, len(docs))
	for i, doc := range docs {
		doc.Text = boundText(doc.Text, e.maxScanBytes)
		bounded[i] = doc
	}
	return bounded
}

// FilterByMember keeps documents whose lowercased member contains a question
// token longer than two characters. If none match, docs is returned as is.
func FilterByMember(question string, docs []core.Document) []core.Document {
	var tokens []string
	for _, tok := range search.Tokenize(question) {
		if len(tok) > memberFilterMinLen {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return docs
	}

	var filtered []core.Document
	for _, doc := range docs {
		member := strings.ToLower(doc.Member)
		for _, tok := range tokens {
			if strings.Contains(member, tok) {
				filtered = append(filtered, doc)
				break
			}
		}
	}

	if len(filtered) == 0 {
		return docs
	}
	return filtered
}

// boundText cuts s to at most limit bytes without splitting a rune.
func boundText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// listDocuments always succeeds; the composer lists the documents itself.
func listDocuments(_ []core.Document) (Result, bool) {
	return Result{}, true
}
