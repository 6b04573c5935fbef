package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress reports how many records of a batch have been processed.
// It is safe for concurrent use. A nil *Progress ignores all calls.
type Progress struct {
	mu        sync.Mutex
	writer    io.Writer
	label     string
	total     int
	done      int
	every     int
	reported  int
	startTime time.Time
}

// NewProgress creates a progress reporter writing to w every `every` records.
func NewProgress(w io.Writer, label string, total, every int) *Progress {
	if every < 1 {
		every = 1
	}
	return &Progress{
		writer:    w,
		label:     label,
		total:     total,
		every:     every,
		startTime: time.Now(),
	}
}

// Add records n more processed records.
func (p *Progress) Add(n int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = min(p.done+n, p.total)
	if p.done-p.reported >= p.every {
		p.report()
		p.reported = p.done
	}
}

// Finish reports completion and ends the progress line.
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Done returns the number of processed records.
func (p *Progress) Done() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// report prints the current progress. Must be called with lock held.
func (p *Progress) report() {
	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}
	rate := 0.0
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 {
		rate = float64(p.done) / elapsed
	}

	fmt.Fprintf(p.writer, "\r%s: %d/%d (%.1f%%) - %.1f records/s",
		p.label, p.done, p.total, percentage, rate)
}
