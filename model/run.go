package model

import (
	"fmt"
	"io"
	"time"

	"github.com/termcount-dev/termcount/merge"
	"github.com/termcount-dev/termcount/term"
)

type ModelStatistics struct {
	Levels        int
	Expanded      int
	Dropped       int
	DroppedWeight uint64 // wrapping sum
	PeakFrontier  int
	FinalFrontier int
	MergedTerms   int
	InternedKeys  int
	Elapsed       time.Duration
}

type ModelResult struct {
	RunID       string
	Name        string
	TotalWeight uint64
	TermCount   int
	Terms       []*term.Term
	Merged      bool
	Truncated   bool
	Statistics  ModelStatistics
}

// levelOutcome is what expanding one slice of a frontier produced.
type levelOutcome struct {
	Terms         []*term.Term
	Active        int // non-terminal terms among Terms
	Expanded      int
	Dropped       int
	DroppedWeight uint64
	Err           error
}

func (o *levelOutcome) add(x *levelOutcome) {
	o.Terms = append(o.Terms, x.Terms...)
	o.Active += x.Active
	o.Expanded += x.Expanded
	o.Dropped += x.Dropped
	o.DroppedWeight += x.DroppedWeight
}

func expandSlice(terms []*term.Term, opts []term.ExpandOption) *levelOutcome {
	out := &levelOutcome{}
	for _, t := range terms {
		children, err := term.Expand(t, opts...)
		if err != nil {
			out.Err = err
			return out
		}
		out.Expanded++
		if len(children) == 0 {
			out.Dropped++
			out.DroppedWeight += t.Weight
			continue
		}
		out.Active += countActive(children)
		out.Terms = append(out.Terms, children...)
	}
	return out
}

func countActive(terms []*term.Term) int {
	n := 0
	for _, t := range terms {
		if !t.Terminal {
			n++
		}
	}
	return n
}

func sumWeights(terms []*term.Term) uint64 {
	var s uint64
	for _, t := range terms {
		s += t.Weight
	}
	return s
}

// recordLevel folds one finished level into the statistics and prints it.
func recordLevel(e *Executor, stats *ModelStatistics, depth int, out *levelOutcome) {
	stats.Levels = depth
	stats.Expanded += out.Expanded
	stats.Dropped += out.Dropped
	stats.DroppedWeight += out.DroppedWeight
	if len(out.Terms) > stats.PeakFrontier {
		stats.PeakFrontier = len(out.Terms)
	}
	debugFrontier(e.DebugWriter, depth, out.Terms)
}

func debugFrontier(w io.Writer, depth int, terms []*term.Term) {
	if w == io.Discard {
		return
	}
	fmt.Fprintf(w, "\n=== Depth %d: %d terms ===\n", depth, len(terms))
	for _, t := range terms {
		fmt.Fprintf(w, "%s\n", t)
	}
}

// buildResult sums the final frontier, merging it first when requested.
func buildResult(e *Executor, frontier []*term.Term, stats ModelStatistics, truncated bool) (*ModelResult, error) {
	stats.FinalFrontier = len(frontier)
	result := &ModelResult{
		RunID:       e.RunID,
		Name:        e.Name,
		TotalWeight: sumWeights(frontier),
		TermCount:   len(frontier),
		Terms:       frontier,
		Truncated:   truncated,
	}
	if e.Merge {
		merged, err := merge.Canonical(e.Store, frontier)
		if err != nil {
			return nil, fmt.Errorf("merging final frontier: %w", err)
		}
		result.Terms = merged
		result.TermCount = len(merged)
		result.Merged = true
		stats.MergedTerms = len(merged)
		stats.InternedKeys = e.Store.Len()
	}
	result.Statistics = stats
	return result, nil
}
