package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/poiesic/memberqa"
	"github.com/poiesic/memberqa/core"
)

type mockEngine struct {
	mu           sync.Mutex
	answer       string
	reindexed    []json.RawMessage
	refreshN     int
	refreshErr   error
	refreshes    int
	sample       core.Sample
	sampleN      int
	sampleRaw    bool
	stats        memberqa.Stats
	panicOnAsk   bool
	lastQuestion string
}

func (m *mockEngine) Answer(_ context.Context, question string) string {
	if m.panicOnAsk {
		panic("boom")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuestion = question
	return m.answer
}

func (m *mockEngine) Reindex(_ context.Context, records []json.RawMessage) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reindexed = records
	return len(records), nil
}

func (m *mockEngine) Refresh(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	return m.refreshN, m.refreshErr
}

func (m *mockEngine) DebugSample(n int, includeRaw bool) core.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sampleN, m.sampleRaw = n, includeRaw
	return m.sample
}

func (m *mockEngine) Stats() memberqa.Stats {
	return m.stats
}
