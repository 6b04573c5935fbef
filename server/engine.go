package server

import (
	"context"
	"encoding/json"

	"github.com/poiesic/memberqa"
	"github.com/poiesic/memberqa/core"
)

// Engine is the part of memberqa.Engine the servers use.
type Engine interface {
	Answer(ctx context.Context, question string) string
	Reindex(ctx context.Context, records []json.RawMessage) (int, error)
	Refresh(ctx context.Context) (int, error)
	DebugSample(n int, includeRaw bool) core.Sample
	Stats() memberqa.Stats
}

var _ Engine = (*memberqa.Engine)(nil)
