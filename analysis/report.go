package analysis

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/memberqa/core"
)

// DefaultTopMembers is the number of members listed in a report.
const DefaultTopMembers = 10

// timestampLayouts are tried in order when parsing message timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// MemberCount is the number of documents written by one member.
type MemberCount struct {
	Member string `json:"member"`
	Count  int    `json:"count"`
}

// Report describes the shape of a corpus.
type Report struct {
	Generation  uint64        `json:"generation"`
	Total       int           `json:"total"`
	TopMembers  []MemberCount `json:"top_members"`
	MissingText int           `json:"missing_text"`
	Duplicates  int           `json:"duplicates"`
	Earliest    *time.Time    `json:"earliest,omitempty"`
	Latest      *time.Time    `json:"latest,omitempty"`
}

// Analyze builds a report over c. Timestamps that do not parse are ignored.
func Analyze(c *core.Corpus) Report {
	return AnalyzeTop(c, DefaultTopMembers)
}

// AnalyzeTop is Analyze with a custom number of listed members.
func AnalyzeTop(c *core.Corpus, top int) Report {
	docs := c.Documents()
	report := Report{
		Total:      len(docs),
		TopMembers: []MemberCount{},
	}
	if c != nil {
		report.Generation = c.Generation
	}

	counts := make(map[string]int)
	var order []string
	seen := make(map[uint64]bool, len(docs))
	var earliest, latest time.Time

	for i := range docs {
		doc := &docs[i]

		if counts[doc.Member] == 0 {
			order = append(order, doc.Member)
		}
		counts[doc.Member]++

		body := messageBody(doc)
		if body == "" {
			report.MissingText++
		}

		fp := core.Fingerprint(body)
		if seen[fp] {
			report.Duplicates++
		} else {
			seen[fp] = true
		}

		ts, ok := ParseTimestamp(doc.Timestamp)
		if !ok {
			continue
		}
		if earliest.IsZero() || ts.Before(earliest) {
			earliest = ts
		}
		if latest.IsZero() || ts.After(latest) {
			latest = ts
		}
	}

	for _, member := range order {
		report.TopMembers = append(report.TopMembers, MemberCount{Member: member, Count: counts[member]})
	}
	// Stable so equal counts keep first-seen order
	slices.SortStableFunc(report.TopMembers, func(a, b MemberCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if top >= 0 && len(report.TopMembers) > top {
		report.TopMembers = report.TopMembers[:top]
	}

	if !earliest.IsZero() {
		report.Earliest = &earliest
		report.Latest = &latest
	}
	return report
}

// messageBody returns the text the source record carried. Normalization
// substitutes the record's JSON for a missing body, which does not count.
func messageBody(doc *core.Document) string {
	raw := bytes.TrimSpace(doc.Raw)
	if len(raw) == 0 || raw[0] != '{' {
		return doc.Text
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return doc.Text
	}
	if hasScalar(obj["text"]) || hasScalar(obj["message"]) {
		return doc.Text
	}
	return ""
}

// hasScalar reports whether raw is a non-empty string or a number.
func hasScalar(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch c := raw[0]; {
	case c == '"':
		return !bytes.Equal(raw, []byte(`""`))
	case c == '-' || (c >= '0' && c <= '9'):
		return true
	}
	return false
}

// ParseTimestamp parses the timestamp forms seen in member messages.
func ParseTimestamp(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// WriteText prints the report in a human readable form.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total messages: %d (generation %d)\n", r.Total, r.Generation)
	b.WriteString("Top members by message count:\n")
	if len(r.TopMembers) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, mc := range r.TopMembers {
		fmt.Fprintf(&b, "  %-30s %d\n", mc.Member, mc.Count)
	}
	fmt.Fprintf(&b, "Missing text fields: %d\n", r.MissingText)
	fmt.Fprintf(&b, "Duplicate message bodies: %d\n", r.Duplicates)
	if r.Earliest != nil {
		fmt.Fprintf(&b, "Earliest timestamp: %s\n", r.Earliest.Format(time.RFC3339))
		fmt.Fprintf(&b, "Latest timestamp: %s\n", r.Latest.Format(time.RFC3339))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
