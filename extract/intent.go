package extract

import "strings"

// Intent is the classified category of a question.
type Intent int

const (
	// IntentGeneric is the default when no other intent matches.
	IntentGeneric Intent = iota
	// IntentTemporal asks when something happens (trips, plans).
	IntentTemporal
	// IntentQuantity asks how many cars a member has.
	IntentQuantity
	// IntentPreference asks for favorite restaurants.
	IntentPreference
)

// String returns the intent name used in logs and diagnostics.
func (i Intent) String() string {
	switch i {
	case IntentTemporal:
		return "temporal"
	case IntentQuantity:
		return "quantity"
	case IntentPreference:
		return "preference"
	default:
		return "generic"
	}
}

var (
	temporalKeywords   = []string{"when", "trip", "travel", "planning"}
	preferenceKeywords = []string{"favorite restaurant", "favorite restaurants", "restaurants"}
)

// Classify maps a question to one intent. Rules are checked in a fixed order
// against the lowercased question and the first match wins.
func Classify(question string) Intent {
	q := strings.ToLower(question)

	if containsAny(q, temporalKeywords) {
		return IntentTemporal
	}
	if strings.Contains(q, "how many") && strings.Contains(q, "car") {
		return IntentQuantity
	}
	if containsAny(q, preferenceKeywords) {
		return IntentPreference
	}
	return IntentGeneric
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
