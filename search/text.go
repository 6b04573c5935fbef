package search

import (
	"regexp"
	"strconv"
	"strings"
)

// Tokenize splits text into maximal runs of ASCII letters and digits,
// lowercased. Every other byte is a separator.
func Tokenize(text string) []string {
	var tokens []string
	start := -1
	for i := 0; i < len(text); i++ {
		if isAlnum(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, strings.ToLower(text[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, strings.ToLower(text[start:]))
	}
	return tokens
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// countTokens returns token frequencies.
func countTokens(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// eligibleTokens keeps tokens longer than minLen, in query order.
func eligibleTokens(tokens []string, minLen int) []string {
	eligible := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) > minLen {
			eligible = append(eligible, t)
		}
	}
	return eligible
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// timestampYear returns the first 4-digit run in ts.
func timestampYear(ts string) (int, bool) {
	m := yearPattern.FindString(ts)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return year, true
}

// timestampKey is the sort key for newest-first ordering. Timestamps without
// a 4-digit year cannot be placed in time and sort as the smallest value.
func timestampKey(ts string) string {
	if !yearPattern.MatchString(ts) {
		return ""
	}
	return ts
}
