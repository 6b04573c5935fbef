package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/memberqa/core"
)

func doc(member, text, ts, raw string) core.Document {
	return core.Document{Member: member, Text: text, Timestamp: ts, Raw: json.RawMessage(raw)}
}

func TestAnalyze(t *testing.T) {
	c := core.NewCorpus(4, []core.Document{
		doc("Layla Kawaguchi", "Book Paris", "2025-05-01T10:00:00Z", `{"text":"Book Paris"}`),
		doc("Vikram Desai", "Book Paris", "2024-01-02", `{"message":"Book Paris"}`),
		doc("Layla Kawaguchi", `{"member_name":"Layla Kawaguchi"}`, "", `{"member_name":"Layla Kawaguchi"}`),
		doc("Amira Khan", "", "not a date", `{"text":""}`),
		doc("Layla Kawaguchi", "Thanks", "2025-06-12 09:30:00", `{"text":"Thanks"}`),
	})

	report := Analyze(c)
	assert.Equal(t, uint64(4), report.Generation)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, []MemberCount{
		{Member: "Layla Kawaguchi", Count: 3},
		{Member: "Vikram Desai", Count: 1},
		{Member: "Amira Khan", Count: 1},
	}, report.TopMembers)
	assert.Equal(t, 2, report.MissingText)
	// "Book Paris" twice and the two missing bodies
	assert.Equal(t, 2, report.Duplicates)

	require.NotNil(t, report.Earliest)
	require.NotNil(t, report.Latest)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *report.Earliest)
	assert.Equal(t, time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC), *report.Latest)
}

func TestAnalyze_Empty(t *testing.T) {
	report := Analyze(core.EmptyCorpus())
	assert.Zero(t, report.Total)
	assert.Empty(t, report.TopMembers)
	assert.Nil(t, report.Earliest)

	var b strings.Builder
	require.NoError(t, report.WriteText(&b))
	assert.Contains(t, b.String(), "(none)")
	assert.NotContains(t, b.String(), "Earliest")

	assert.Zero(t, Analyze(nil).Total)
}

func TestAnalyzeTop_Limit(t *testing.T) {
	var docs []core.Document
	for i := range 15 {
		for range i + 1 {
			docs = append(docs, doc(fmt.Sprintf("member-%02d", i), "x", "", ""))
		}
	}
	report := Analyze(core.NewCorpus(1, docs))
	require.Len(t, report.TopMembers, DefaultTopMembers)
	assert.Equal(t, "member-14", report.TopMembers[0].Member)
	assert.Equal(t, 15, report.TopMembers[0].Count)

	assert.Len(t, AnalyzeTop(core.NewCorpus(1, docs), 3).TopMembers, 3)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2025-05-01T10:00:00Z", true, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-05-01T12:00:00+02:00", true, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-05-01T10:00:00.123456", true, time.Date(2025, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{"2025-05-01", true, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"yesterday", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestReport_WriteText(t *testing.T) {
	c := core.NewCorpus(2, []core.Document{
		doc("Hans Müller", "Hallo", "2025-01-01", `{"text":"Hallo"}`),
	})
	var b strings.Builder
	require.NoError(t, Analyze(c).WriteText(&b))
	out := b.String()
	assert.Contains(t, out, "Total messages: 1 (generation 2)")
	assert.Contains(t, out, "Hans Müller")
	assert.Contains(t, out, "Missing text fields: 0")
	assert.Contains(t, out, "Earliest timestamp: 2025-01-01T00:00:00Z")
}
