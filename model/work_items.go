package model

import (
	"github.com/termcount-dev/termcount/term"
)

// WorkItem is a contiguous chunk of one frontier level. The worker that takes
// it writes only to Out and Worker, so no two workers share mutable state.
type WorkItem struct {
	Terms       []*term.Term
	DepthNumber int
	Out         *levelOutcome
	Worker      int // set by the worker that expanded the chunk
}

// NewWorkItem creates a new WorkItem writing its successors to out.
func NewWorkItem(terms []*term.Term, depth int, out *levelOutcome) *WorkItem {
	return &WorkItem{
		Terms:       terms,
		DepthNumber: depth,
		Out:         out,
	}
}

// partition splits terms into at most n contiguous chunks of near-equal size.
func partition(terms []*term.Term, n int) [][]*term.Term {
	if n > len(terms) {
		n = len(terms)
	}
	if n <= 0 {
		return nil
	}
	chunks := make([][]*term.Term, 0, n)
	size := len(terms) / n
	extra := len(terms) % n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < extra {
			end++
		}
		chunks = append(chunks, terms[start:end])
		start = end
	}
	return chunks
}
