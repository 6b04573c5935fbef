package extract

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/memberqa/core"
)

// carVocabulary lists the makes and models recognized by name.
var carVocabulary = []string{
	"Acura", "Alfa Romeo", "Aston Martin", "Audi", "Audi A4", "Audi Q5", "Audi Q7",
	"Bentley", "BMW", "BMW M3", "BMW X5", "BMW i4", "Bugatti", "Buick",
	"Cadillac", "Cadillac Escalade", "Chevrolet", "Chevy Tahoe", "Corvette", "Chrysler",
	"Dodge", "Dodge Challenger", "Ferrari", "Fiat", "Ford", "Ford F-150", "Ford Mustang", "Ford Bronco",
	"Genesis", "GMC", "Honda", "Honda Civic", "Honda Accord", "Hyundai", "Infiniti",
	"Jaguar", "Jeep", "Jeep Wrangler", "Kia", "Lamborghini", "Land Rover", "Lexus", "Lincoln",
	"Lucid Air", "Maserati", "Mazda", "McLaren", "Mercedes", "Mercedes-Benz", "Mercedes G-Class",
	"Mini Cooper", "Mitsubishi", "Nissan", "Nissan Leaf", "Porsche", "Porsche 911", "Porsche Cayenne", "Porsche Taycan",
	"Range Rover", "Rivian", "Rivian R1S", "Rolls-Royce", "Rolls-Royce Phantom", "Subaru", "Subaru Outback",
	"Tesla", "Tesla Model 3", "Tesla Model S", "Tesla Model X", "Tesla Model Y", "Tesla Cybertruck",
	"Toyota", "Toyota Camry", "Toyota Prius", "Toyota Land Cruiser", "Volkswagen", "Volvo", "Volvo XC90",
}

var (
	carVocabularyRe = buildVocabularyPattern(carVocabulary)
	canonicalCars   = canonicalIndex(carVocabulary)

	possessionRe     = regexp.MustCompile(`(?i)\bI\s+(?:still\s+)?have\s+([^.!?;\n]+)`)
	listSeparatorRe  = regexp.MustCompile(`\s*(?:,|\band\b|&)\s*`)
	capitalizedRe    = regexp.MustCompile(`\b[A-Z][A-Za-z0-9-]*`)
	leadingPossessRe = regexp.MustCompile(`(?i)^(?:(?:a|an|the|my|our|his|her|their)\s+)+`)
	carCountRe       = regexp.MustCompile(`(?i)\b(\d+)\s+(?:cars?|vehicles)\b`)
)

// buildVocabularyPattern matches any term as a whole word. Longer terms are
// tried first so a model wins over its make.
func buildVocabularyPattern(terms []string) *regexp.Regexp {
	sorted := slices.Clone(terms)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return len(b) - len(a)
	})
	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func canonicalIndex(terms []string) map[string]string {
	idx := make(map[string]string, len(terms))
	for _, t := range terms {
		idx[strings.ToLower(t)] = t
	}
	return idx
}

// nameSet keeps names in first-seen order, deduplicated case-insensitively.
type nameSet struct {
	seen  map[string]bool
	names []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]bool)}
}

func (s *nameSet) add(name string) bool {
	key := strings.ToLower(name)
	if name == "" || s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.names = append(s.names, name)
	return true
}

func (s *nameSet) len() int {
	return len(s.names)
}

// extractCarModels collects named cars from the vocabulary and from
// "I [still] have ..." lists.
func extractCarModels(docs []core.Document) (Result, bool) {
	names := newNameSet()

	for _, doc := range docs {
		for _, m := range carVocabularyRe.FindAllString(doc.Text, -1) {
			if canonical, ok := canonicalCars[strings.ToLower(m)]; ok {
				m = canonical
			}
			names.add(m)
		}

		for _, match := range possessionRe.FindAllStringSubmatch(doc.Text, -1) {
			for _, segment := range listSeparatorRe.Split(match[1], -1) {
				segment = strings.TrimSpace(leadingPossessRe.ReplaceAllString(strings.TrimSpace(segment), ""))
				if segment == "" || !capitalizedRe.MatchString(segment) {
					continue
				}
				// Already counted through the vocabulary
				if carVocabularyRe.MatchString(segment) {
					continue
				}
				names.add(collapseSpace(segment))
			}
		}
	}

	if names.len() == 0 {
		return Result{}, false
	}
	return Result{Count: names.len(), Names: names.names}, true
}

// extractCarCount looks for an explicit "<n> cars" across all documents.
func extractCarCount(docs []core.Document) (Result, bool) {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	m := carCountRe.FindStringSubmatch(strings.Join(texts, "\n"))
	if m == nil {
		return Result{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return Result{}, false
	}
	return Result{Count: n, Inferred: true}, true
}
