package extract

import (
	"regexp"
	"strings"

	"github.com/poiesic/memberqa/core"
)

const (
	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	dayPattern   = `\d{1,2}(?:st|nd|rd|th)?\b`
	yearPattern  = `(?:(?:,\s*|\s+)\d{4}\b)?`

	monthDayPattern = `\b` + monthPattern + `\s+` + dayPattern + yearPattern
)

var (
	dateRangeRe = regexp.MustCompile(`(?i)` + monthDayPattern + `\s*(?:to|-|–|—)\s*` + monthDayPattern)
	isoDateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})(?:T|\b)`)
	monthDayRe  = regexp.MustCompile(`(?i)` + monthDayPattern)
)

type dateCandidate struct {
	text    string
	isRange bool
}

// findDate returns the best date mention in one text: a range, else an ISO
// date, else a month-day with optional year.
func findDate(text string) (dateCandidate, bool) {
	if m := dateRangeRe.FindString(text); m != "" {
		return dateCandidate{text: collapseSpace(m), isRange: true}, true
	}
	// The date part only; a trailing time is dropped.
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		return dateCandidate{text: m[1]}, true
	}
	if m := monthDayRe.FindString(text); m != "" {
		return dateCandidate{text: collapseSpace(m)}, true
	}
	return dateCandidate{}, false
}

// extractDates collects one candidate per document and prefers the first range.
func extractDates(docs []core.Document) (Result, bool) {
	var candidates []dateCandidate
	for _, doc := range docs {
		if c, ok := findDate(doc.Text); ok {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return Result{}, false
	}

	chosen := candidates[0]
	for _, c := range candidates {
		if c.isRange {
			chosen = c
			break
		}
	}
	return Result{Date: chosen.text, IsRange: chosen.isRange}, true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
