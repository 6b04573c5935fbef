package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "whitespace only", input: "   \t\n", want: nil},
		{name: "lowercases", input: "Hello World", want: []string{"hello", "world"}},
		{name: "punctuation separates", input: "Alice's trip: June-12!", want: []string{"alice", "s", "trip", "june", "12"}},
		{name: "digits kept", input: "Model 3 in 2025", want: []string{"model", "3", "in", "2025"}},
		{name: "non-ascii separates", input: "café—bistro", want: []string{"caf", "bistro"}},
		{name: "trailing token", input: "ends with token", want: []string{"ends", "with", "token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTimestampYear(t *testing.T) {
	tests := []struct {
		ts     string
		year   int
		hasYrs bool
	}{
		{ts: "2024-05-01T10:00:00Z", year: 2024, hasYrs: true},
		{ts: "May 3, 2019", year: 2019, hasYrs: true},
		{ts: "", hasYrs: false},
		{ts: "yesterday", hasYrs: false},
		{ts: "12/05/24", hasYrs: false},
	}

	for _, tt := range tests {
		t.Run(tt.ts, func(t *testing.T) {
			year, ok := timestampYear(tt.ts)
			assert.Equal(t, tt.hasYrs, ok)
			assert.Equal(t, tt.year, year)
		})
	}
}

func TestTimestampKey(t *testing.T) {
	assert.Equal(t, "2024-01-01", timestampKey("2024-01-01"))
	assert.Equal(t, "", timestampKey("not a date"))
	assert.Equal(t, "", timestampKey(""))
}
