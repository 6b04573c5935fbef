package ai

import (
	"context"

	"github.com/poiesic/memberqa/core"
)

// Generator produces an answer to a question from ranked member messages.
// Implementations must be safe for concurrent use.
type Generator interface {
	// Generate answers question using only docs as context.
	// The returned text is used verbatim as the answer.
	Generate(ctx context.Context, question string, docs []core.Document) (string, error)
}
