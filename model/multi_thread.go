package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/termcount-dev/termcount/term"
)

// chunksPerWorker controls how finely each level is partitioned.
const chunksPerWorker = 4

// MultiThreadEngine expands each frontier level in parallel. Workers are
// long-lived and fed from workQueue; a level is complete once every chunk has
// been written back, and only then is the next level started.
type MultiThreadEngine struct {
	// Configuration
	Executor       *Executor
	numExecThreads int

	// Cancellation
	ctx    context.Context
	cancel context.CancelFunc

	workQueue chan *WorkItem

	// Statistics (atomic)
	expandedCount int64
	depth         int

	// Coordination
	execWg  sync.WaitGroup
	levelWg sync.WaitGroup
}

// NewMultiThread creates a new multi-threaded expansion engine.
// numExecThreads: number of workers expanding terms
func NewMultiThread(executor *Executor, numExecThreads int) (*MultiThreadEngine, error) {
	// Default to NumCPU if not specified
	if numExecThreads <= 0 {
		numExecThreads = runtime.NumCPU()
	}

	m := &MultiThreadEngine{
		Executor:       executor,
		numExecThreads: numExecThreads,
	}

	return m, nil
}

// startWorkers launches the expansion worker goroutines.
func (m *MultiThreadEngine) startWorkers() {
	for i := 0; i < m.numExecThreads; i++ {
		m.execWg.Add(1)
		go m.execWorker(i)
	}
}

// RunModel executes the parallel breadth-first expansion.
func (m *MultiThreadEngine) RunModel() (*ModelResult, error) {
	m.ctx, m.cancel = context.WithCancel(context.Background())
	defer m.cancel()

	atomic.StoreInt64(&m.expandedCount, 0)
	m.depth = 0
	e := m.Executor

	m.workQueue = make(chan *WorkItem, m.numExecThreads*2)
	m.startWorkers()
	defer func() {
		close(m.workQueue)
		m.execWg.Wait()
	}()

	frontier := []*term.Term{e.InitialTerm}
	stats := ModelStatistics{PeakFrontier: len(frontier)}
	active := countActive(frontier)

	for active > 0 {
		if e.MaxDepth > 0 && m.depth >= e.MaxDepth {
			reportMaxDepth(e)
			return buildResult(e, frontier, stats, true)
		}
		levelStart := time.Now()

		out, err := m.expandLevel(frontier)
		if err != nil {
			return nil, err
		}
		m.depth++
		recordLevel(e, &stats, m.depth, out)
		e.Reporter.Printf("%s", formatDepthReport(m.depth, len(out.Terms), out.Active, out.Dropped, time.Since(levelStart)))
		frontier = out.Terms
		active = out.Active
	}

	return buildResult(e, frontier, stats, false)
}

// expandLevel fans one frontier level out to the workers and joins the chunks
// back together in frontier order.
func (m *MultiThreadEngine) expandLevel(frontier []*term.Term) (*levelOutcome, error) {
	chunks := partition(frontier, m.numExecThreads*chunksPerWorker)
	outs := make([]levelOutcome, len(chunks))

	items := make([]*WorkItem, len(chunks))
	m.levelWg.Add(len(chunks))
	for i, chunk := range chunks {
		items[i] = NewWorkItem(chunk, m.depth, &outs[i])
		m.workQueue <- items[i]
	}
	m.levelWg.Wait()
	m.debugWorkItems(items)

	total := &levelOutcome{}
	var firstErr error
	for i := range outs {
		if err := outs[i].Err; err != nil {
			// Chunks skipped after a cancel report context.Canceled; prefer the cause.
			if firstErr == nil || errors.Is(firstErr, context.Canceled) {
				firstErr = err
			}
			continue
		}
		total.add(&outs[i])
	}
	if firstErr != nil && !errors.Is(firstErr, context.Canceled) {
		return nil, firstErr
	}
	if err := m.ctx.Err(); err != nil {
		return nil, fmt.Errorf("expansion cancelled at depth %d: %w", m.depth, err)
	}
	return total, nil
}

// execWorker processes work items until the queue is closed.
func (m *MultiThreadEngine) execWorker(workerID int) {
	defer m.execWg.Done()

	for {
		workItem, ok := <-m.workQueue
		if !ok {
			return
		}

		m.processWorkItem(workerID, workItem)
		m.levelWg.Done()
	}
}

// processWorkItem expands one chunk into its result slot.
func (m *MultiThreadEngine) processWorkItem(workerID int, workItem *WorkItem) {
	workItem.Worker = workerID
	if m.ctx.Err() != nil {
		workItem.Out.Err = m.ctx.Err()
		return
	}

	out := expandSlice(workItem.Terms, m.Executor.expandOptions())
	atomic.AddInt64(&m.expandedCount, int64(out.Expanded))
	if out.Err != nil {
		log.Error().Err(out.Err).Int("worker", workerID).Int("depth", workItem.DepthNumber).
			Str("run", m.Executor.RunID).Msg("Term expansion error")
		m.cancel()
	}
	*workItem.Out = *out
}

// debugWorkItems prints one line per chunk of a finished level. It runs on the
// coordinator after the barrier, so DebugWriter is never written concurrently.
func (m *MultiThreadEngine) debugWorkItems(items []*WorkItem) {
	w := m.Executor.DebugWriter
	if w == io.Discard {
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "[Worker %d] Depth %d: expanded %d terms into %d\n",
			item.Worker, item.DepthNumber, item.Out.Expanded, len(item.Out.Terms))
	}
}

// Expanded returns how many terms the workers have expanded so far.
func (m *MultiThreadEngine) Expanded() int {
	return int(atomic.LoadInt64(&m.expandedCount))
}
