package search

import "github.com/poiesic/memberqa/core"

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to trace which phase produced a result and why.
type RankMonitor interface {
	Start(query string, corpusSize int)
	MemberLookup(member string, hits int)
	Scored(doc core.Document, score int)
	Fallback(count int)
	Finish(results []core.Document)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int) {}
func (n *noopMonitor) MemberLookup(_ string, _ int) {}
func (n *noopMonitor) Scored(_ core.Document, _ int) {}
func (n *noopMonitor) Fallback(_ int) {}
func (n *noopMonitor) Finish(_ []core.Document) {}
