package answer

import (
	"fmt"
	"strings"

	"github.com/poiesic/memberqa/core"
	"github.com/poiesic/memberqa/extract"
)

// NoRelevantInformation is the generic answer when nothing can be said.
const NoRelevantInformation = "I don't see relevant information."

var notFoundPrefixes = map[extract.Intent]string{
	extract.IntentTemporal:   "Couldn't find an explicit trip date. Top matching messages:",
	extract.IntentQuantity:   "Couldn't find a clear car count. Top matching messages:",
	extract.IntentPreference: "Couldn't find favorite restaurants. Top matching messages:",
	extract.IntentGeneric:    "Top matching messages:",
}

var noInformation = map[extract.Intent]string{
	extract.IntentTemporal:   "No information about trips or dates is available.",
	extract.IntentQuantity:   "No information about cars is available.",
	extract.IntentPreference: "No information about restaurants is available.",
	extract.IntentGeneric:    NoRelevantInformation,
}

// Compose formats the extraction outcome for intent. found reports whether
// the extractor cascade produced a result; docs are the ranked documents.
func Compose(intent extract.Intent, result extract.Result, found bool, docs []core.Document) string {
	if found && result.HasFact() {
		return formatFact(intent, result)
	}

	if len(docs) == 0 {
		if msg, ok := noInformation[intent]; ok {
			return msg
		}
		return NoRelevantInformation
	}

	prefix, ok := notFoundPrefixes[intent]
	if !ok {
		prefix = notFoundPrefixes[extract.IntentGeneric]
	}
	return prefix + "\n\n" + FormatDocuments(docs)
}

func formatFact(intent extract.Intent, result extract.Result) string {
	switch intent {
	case extract.IntentTemporal:
		return result.Date + " — found in member messages."
	case extract.IntentQuantity:
		if result.Inferred || len(result.Names) == 0 {
			return fmt.Sprintf("%d (inferred).", result.Count)
		}
		return fmt.Sprintf("%d (models detected: %s).", result.Count, strings.Join(result.Names, ", "))
	case extract.IntentPreference:
		return "Favorites: " + strings.Join(result.Names, ", ") + "."
	default:
		return NoRelevantInformation
	}
}

// FormatDocuments renders documents as "[member] timestamp" header lines
// followed by the text, separated by blank lines.
func FormatDocuments(docs []core.Document) string {
	blocks := make([]string, len(docs))
	for i, doc := range docs {
		header := "[" + doc.Member + "]"
		if doc.Timestamp != "" {
			header += " " + doc.Timestamp
		}
		blocks[i] = header + "\n" + doc.Text
	}
	return strings.Join(blocks, "\n\n")
}
