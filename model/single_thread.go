package model

import (
	"time"

	"github.com/termcount-dev/termcount/term"
)

type SingleThreadEngine struct {
	Queue    []*term.Term
	Executor *Executor
	depth    int // Current BFS depth
}

func InitSingleThread(exec *Executor) *SingleThreadEngine {
	return &SingleThreadEngine{
		Queue:    []*term.Term{exec.InitialTerm},
		Executor: exec,
	}
}

func (s *SingleThreadEngine) RunModel() (*ModelResult, error) {
	s.depth = 0
	e := s.Executor
	s.Queue = []*term.Term{e.InitialTerm}
	opts := e.expandOptions()
	stats := ModelStatistics{PeakFrontier: len(s.Queue)}
	active := countActive(s.Queue)

	for active > 0 {
		if e.MaxDepth > 0 && s.depth >= e.MaxDepth {
			reportMaxDepth(e)
			return buildResult(e, s.Queue, stats, true)
		}
		levelStart := time.Now()

		out := expandSlice(s.Queue, opts)
		if out.Err != nil {
			return nil, out.Err
		}
		s.depth++
		recordLevel(e, &stats, s.depth, out)
		e.Reporter.Printf("%s", formatDepthReport(s.depth, len(out.Terms), out.Active, out.Dropped, time.Since(levelStart)))
		s.Queue = out.Terms
		active = out.Active
	}

	return buildResult(e, s.Queue, stats, false)
}
