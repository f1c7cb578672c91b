package model

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/termcount-dev/termcount/cas"
	"github.com/termcount-dev/termcount/term"
)

var ErrNegativeCount = errors.New("counts must be non-negative")

// An Executor is the context and entrypoint for one counting run.
type Executor struct {
	Name string
	A    int
	B    int
	C    int
	N    int

	// Workers is the number of expansion workers. Zero means one per CPU.
	Workers        int
	SingleThread   bool
	MaxDepth       int
	Merge          bool
	StrictOverflow bool

	RunID       string
	DebugWriter io.Writer
	Reporter    Reporter
	Store       cas.CAS

	InitialTerm *term.Term
	Engine      Engine
}

type Engine interface {
	RunModel() (*ModelResult, error)
}

// Initialize validates the counts, seeds the initial term and picks an engine.
func (e *Executor) Initialize() error {
	for _, v := range []int{e.A, e.B, e.C, e.N} {
		if v < 0 {
			return fmt.Errorf("%w: a=%d b=%d c=%d n=%d", ErrNegativeCount, e.A, e.B, e.C, e.N)
		}
	}
	if e.RunID == "" {
		e.RunID = uuid.NewString()
	}
	if e.DebugWriter == nil {
		e.DebugWriter = io.Discard
	}
	if e.Reporter == nil {
		e.Reporter = &SilentReporter{}
	}
	if e.Store == nil {
		e.Store = cas.NewMemoryCAS()
	}
	e.InitialTerm = term.NewInitial(e.A, e.B, e.C, e.N)
	if e.Merge && e.InitialTerm.Slots() > 2 {
		log.Warn().Str("run", e.RunID).Int("slots", e.InitialTerm.Slots()).
			Msg("No canonical form for this slot count; merging only identical keys")
	}
	return e.InitEngine()
}

func (e *Executor) InitEngine() error {
	if e.SingleThread {
		e.Engine = InitSingleThread(e)
		return nil
	}
	m, err := NewMultiThread(e, e.Workers)
	if err != nil {
		return err
	}
	e.Engine = m
	return nil
}

func (e *Executor) RunModel() (*ModelResult, error) {
	if e.Engine == nil {
		return nil, errors.New("executor is not initialized")
	}
	start := time.Now()
	log.Debug().Str("run", e.RunID).Str("name", e.Name).
		Ints("counts", []int{e.A, e.B, e.C}).Int("n", e.N).
		Msg("Starting term expansion")

	result, err := e.Engine.RunModel()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", e.RunID, err)
	}
	result.Statistics.Elapsed = time.Since(start)

	log.Debug().Str("run", e.RunID).Uint64("total_weight", result.TotalWeight).
		Int("terms", result.TermCount).Int("levels", result.Statistics.Levels).
		Dur("elapsed", result.Statistics.Elapsed).
		Msg("Finished term expansion")
	return result, nil
}

func (e *Executor) expandOptions() []term.ExpandOption {
	if e.StrictOverflow {
		return []term.ExpandOption{term.StrictOverflow()}
	}
	return nil
}
