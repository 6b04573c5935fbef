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


package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/memberqa/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, question string, docs []core.Document) (string, error)

	mu        sync.Mutex
	callCount int
	lastDocs  []core.Document
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records the call and returns GenerateFunc's result or a canned answer.
func (m *MockGenerator) Generate(ctx context.Context, question string, docs []core.Document) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastDocs = docs
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, question, docs)
	}
	return fmt.Sprintf("generated answer to %q from %d messages", question, len(docs)), nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastDocs returns the context documents of the most recent call.
func (m *MockGenerator) LastDocs() []core.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastDocs
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastDocs = nil
	m.GenerateFunc = nil
}
