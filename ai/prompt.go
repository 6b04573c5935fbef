package ai

import (
	"strings"

	"github.com/poiesic/memberqa/core"
)

// SystemPrompt constrains the model to the supplied context.
const SystemPrompt = "You answer only from context."

// BuildPrompt renders the user prompt for question with docs as context lines.
func BuildPrompt(question string, docs []core.Document) string {
	var b strings.Builder
	b.WriteString("You are an assistant that answers questions about members using only the provided context.\n\n")
	b.WriteString("Context:\n")
	for i, doc := range docs {
		if i > 0 {
			b.WriteByte('\n')
		}
		member := doc.Member
		if member == "" {
			member = core.DefaultMember
		}
		b.WriteString("- [")
		b.WriteString(member)
		b.WriteString("] ")
		b.WriteString(doc.Text)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer briefly using only the context above. If the answer is not present, say you don't know.")
	return b.String()
}
