package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/memberqa/core"
)

const (
	maxVenueNames    = 6
	minFavoriteRunes = 3
)

var (
	favoritesLabelRe = regexp.MustCompile(`(?i)favou?rite\s+restaurants?\s*:\s*([\p{L}\p{N} ,'’&-]+)`)
	properNounRe     = regexp.MustCompile(`\b[A-Z][\p{L}'’&-]*(?:[ \t]+[A-Z][\p{L}'’&-]*){0,3}`)
	venueKeywordRe   = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:restaurant|cafe|café|grill|bistro|kitchen|bar|tavern|trattoria|brasserie|diner|steakhouse|pizzeria|sushi|eatery|osteria|bakery|house|ramen|taqueria|pub)(?:$|[^\p{L}])`)
)

// nonNameWords are capitalized words that start sentences rather than name places.
var nonNameWords = map[string]bool{
	"a": true, "an": true, "the": true, "i": true, "i'm": true, "i've": true, "i'd": true, "i'll": true,
	"my": true, "we": true, "our": true, "you": true, "your": true, "he": true, "she": true, "they": true,
	"it": true, "this": true, "that": true, "these": true, "those": true, "there": true, "here": true,
	"please": true, "thanks": true, "thank": true, "hi": true, "hello": true, "hey": true,
	"can": true, "could": true, "would": true, "will": true, "should": true, "also": true,
	"and": true, "but": true, "or": true, "so": true, "if": true, "what": true, "when": true,
	"where": true, "how": true, "let": true, "let's": true, "just": true, "yes": true, "no": true,
	"january": true, "february": true, "march": true, "april": true, "may": true, "june": true,
	"july": true, "august": true, "september": true, "october": true, "november": true, "december": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
	"saturday": true, "sunday": true,
}

// extractLabeledFavorites reads the first "favorite restaurants: ..." label.
func extractLabeledFavorites(docs []core.Document) (Result, bool) {
	for _, doc := range docs {
		m := favoritesLabelRe.FindStringSubmatch(doc.Text)
		if m == nil {
			continue
		}

		names := newNameSet()
		for _, part := range listSeparatorRe.Split(m[1], -1) {
			part = collapseSpace(part)
			if utf8.RuneCountInString(part) < minFavoriteRunes {
				continue
			}
			names.add(part)
		}
		if names.len() > 0 {
			return Result{Names: names.names}, true
		}
		return Result{}, false
	}
	return Result{}, false
}

// extractVenueNames scans for capitalized phrases that look like venues.
func extractVenueNames(docs []core.Document) (Result, bool) {
	names := newNameSet()

	for _, doc := range docs {
		for _, candidate := range properNounRe.FindAllString(doc.Text, -1) {
			name := trimNonNameWords(candidate)
			if name == "" {
				continue
			}
			if !strings.Contains(name, " ") && !venueKeywordRe.MatchString(name) {
				continue
			}
			names.add(name)
			if names.len() == maxVenueNames {
				return Result{Names: names.names}, true
			}
		}
	}

	if names.len() == 0 {
		return Result{}, false
	}
	return Result{Names: names.names}, true
}

// trimNonNameWords drops leading stoplist words from a capitalized phrase.
// A phrase made only of stoplist words yields "".
func trimNonNameWords(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 0 && nonNameWords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}
