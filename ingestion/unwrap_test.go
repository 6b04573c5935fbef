package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"bare array", `[{"text":"a"},{"text":"b"}]`, 2},
		{"items", `{"total":1,"items":[{"text":"a"}]}`, 1},
		{"results", `{"results":[1,2,3]}`, 3},
		{"data array", `{"data":[{"text":"a"}]}`, 1},
		{"messages", `{"messages":[]}`, 0},
		{"nested data items", `{"data":{"items":[{"text":"a"},{"text":"b"}]}}`, 2},
		{"nested data messages", `{"data":{"messages":[{"text":"a"}]}}`, 1},
		{"leading whitespace", "  \n[{}]", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Unwrap([]byte(tt.payload))
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestUnwrap_PrefersItemsOverData(t *testing.T) {
	records, err := Unwrap([]byte(`{"data":[1],"items":[1,2]}`))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestUnwrap_Unrecognized(t *testing.T) {
	for _, payload := range []string{``, `"text"`, `42`, `{"count":3}`, `{"data":{"total":1}}`} {
		_, err := Unwrap([]byte(payload))
		assert.ErrorIs(t, err, ErrUnrecognizedPayload, payload)
	}
}

func TestUnwrap_Malformed(t *testing.T) {
	_, err := Unwrap([]byte(`[{"text":`))
	assert.Error(t, err)
}
