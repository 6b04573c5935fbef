package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/memberqa/core"
)

func TestNewMCPServer(t *testing.T) {
	_, err := NewMCPServer(nil)
	assert.ErrorIs(t, err, ErrEngineRequired)
}

func TestMCPServer_handleAsk(t *testing.T) {
	ctx := context.Background()
	engine := &mockEngine{answer: "Favorites: Chez Louis, The Marina House."}
	server, err := NewMCPServer(engine)
	require.NoError(t, err)

	t.Run("answers question", func(t *testing.T) {
		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "what are Amira's favorite restaurants"})
		require.NoError(t, err)
		assert.Equal(t, "Favorites: Chez Louis, The Marina House.", output.Answer)
		assert.Equal(t, "what are Amira's favorite restaurants", engine.lastQuestion)
	})

	t.Run("requires question", func(t *testing.T) {
		_, _, err := server.handleAsk(ctx, nil, AskInput{})
		require.Error(t, err)
	})
}

func TestMCPServer_handleSample(t *testing.T) {
	engine := &mockEngine{sample: core.Sample{
		TotalDocs: 3,
		Sample: []core.SampleEntry{
			{Member: "Hans Müller", Text: "Hallo", Raw: json.RawMessage(`{"author":"Hans Müller","text":"Hallo"}`)},
			{Member: "unknown", Text: "x"},
		},
	}}
	server, err := NewMCPServer(engine)
	require.NoError(t, err)

	_, output, err := server.handleSample(context.Background(), nil, SampleInput{N: 2, IncludeRaw: true})
	require.NoError(t, err)
	assert.Equal(t, 2, engine.sampleN)
	assert.True(t, engine.sampleRaw)
	assert.Equal(t, 3, output.TotalDocs)
	require.Len(t, output.Sample, 2)
	assert.Equal(t, map[string]any{"author": "Hans Müller", "text": "Hallo"}, output.Sample[0].Raw)
	assert.Nil(t, output.Sample[1].Raw)
}
