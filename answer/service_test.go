package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/memberqa/ai"
	"github.com/poiesic/memberqa/ai/mock"
	"github.com/poiesic/memberqa/core"
	"github.com/poiesic/memberqa/extract"
)

func testCorpus() *core.Corpus {
	return core.NewCorpus(1, []core.Document{
		{Member: "Layla Kawaguchi", Text: "trip planned for June 12, 2025", Timestamp: "2025-05-01T10:00:00"},
		{Member: "Vikram Desai", Text: "I still have a Tesla Model 3 and a Range Rover", Timestamp: "2025-03-10"},
		{Member: "Amira Khan", Text: "My favorite restaurants: Chez Louis, The Marina House", Timestamp: "2024-11-20"},
		{Member: "Hans Müller", Text: "Please confirm the dinner reservation", Timestamp: "2025-02-14"},
	})
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	s, err := NewService(opts...)
	require.NoError(t, err)
	return s
}

func TestService_Temporal(t *testing.T) {
	s := newTestService(t)

	resp := s.Respond(context.Background(), testCorpus(), "when are we traveling")
	assert.Equal(t, SourceRules, resp.Source)
	assert.Equal(t, extract.IntentTemporal, resp.Intent)
	assert.Contains(t, resp.Answer, "June 12, 2025")
}

func TestService_Quantity(t *testing.T) {
	s := newTestService(t)

	answer := s.Answer(context.Background(), testCorpus(), "how many cars does Vikram have")
	assert.Equal(t, "2 (models detected: Tesla Model 3, Range Rover).", answer)
}

func TestService_Preference(t *testing.T) {
	s := newTestService(t)

	answer := s.Answer(context.Background(), testCorpus(), "what are Amira's favorite restaurants")
	assert.Contains(t, answer, "Favorites: Chez Louis, The Marina House")
}

func TestService_AlwaysAnswers(t *testing.T) {
	s := newTestService(t)
	questions := []string{"", "?", "zzz", "Tell me about Hans", "how many cars", "restaurants", "when"}

	for _, q := range questions {
		assert.NotEmpty(t, s.Answer(context.Background(), testCorpus(), q), q)
	}
}

func TestService_EmptyCorpus(t *testing.T) {
	s := newTestService(t)

	assert.Equal(t, NoRelevantInformation, s.Answer(context.Background(), core.EmptyCorpus(), "Tell me about Hans"))
	assert.Equal(t, "No information about cars is available.", s.Answer(context.Background(), nil, "how many cars does Hans have"))
}

func TestService_Generator(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.GenerateFunc = func(_ context.Context, _ string, docs []core.Document) (string, error) {
		return "  Layla travels on June 12.  ", nil
	}
	capability := ai.ResolveCapability(ai.NewConfig(ai.WithAPIKey("sk-test")))
	s := newTestService(t, WithGenerator(gen, capability))

	resp := s.Respond(context.Background(), testCorpus(), "when is Layla traveling")
	assert.Equal(t, SourceGenerator, resp.Source)
	assert.Equal(t, "Layla travels on June 12.", resp.Answer)
	assert.Equal(t, 1, gen.CallCount())
	assert.Equal(t, resp.Documents, gen.LastDocs())
}

func TestService_GeneratorFailureFallsBackToRules(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.GenerateFunc = func(context.Context, string, []core.Document) (string, error) {
		return "", errors.New("model down")
	}
	capability := ai.ResolveCapability(ai.NewConfig(ai.WithAPIKey("sk-test")))
	s := newTestService(t, WithGenerator(gen, capability))

	resp := s.Respond(context.Background(), testCorpus(), "how many cars does Vikram have")
	assert.Equal(t, SourceRules, resp.Source)
	assert.Equal(t, "2 (models detected: Tesla Model 3, Range Rover).", resp.Answer)
}

func TestService_GeneratorUnavailable(t *testing.T) {
	capability := ai.ResolveCapability(ai.NewConfig(ai.WithMode(ai.ModeLLM)))
	s := newTestService(t, WithGenerator(nil, capability))

	resp := s.Respond(context.Background(), testCorpus(), "when are we traveling")
	assert.Equal(t, SourceUnavailable, resp.Source)
	assert.True(t, strings.HasPrefix(resp.Answer, "The external answer service is unavailable"))
}

func TestService_RulesModeIgnoresGenerator(t *testing.T) {
	gen := mock.NewMockGenerator()
	capability := ai.ResolveCapability(ai.NewConfig(ai.WithMode(ai.ModeRules), ai.WithAPIKey("sk-test")))
	s := newTestService(t, WithGenerator(gen, capability))

	s.Answer(context.Background(), testCorpus(), "when are we traveling")
	assert.Equal(t, 0, gen.CallCount())
}

func TestService_RecoversFromPanic(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.GenerateFunc = func(context.Context, string, []core.Document) (string, error) {
		panic("boom")
	}
	capability := ai.ResolveCapability(ai.NewConfig(ai.WithAPIKey("sk-test")))
	s := newTestService(t, WithGenerator(gen, capability))

	resp := s.Respond(context.Background(), testCorpus(), "anything")
	assert.Equal(t, NoRelevantInformation, resp.Answer)
	assert.Equal(t, SourceRecovered, resp.Source)
}

func TestNewService_RejectsNilCollaborators(t *testing.T) {
	_, err := NewService(WithRanker(nil))
	assert.ErrorIs(t, err, ErrRankerRequired)

	_, err = NewService(WithExtractor(nil))
	assert.ErrorIs(t, err, ErrExtractorRequired)
}
