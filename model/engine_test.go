package model

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termcount-dev/termcount/term"
)

type countCase struct {
	name        string
	a, b, c, n  int
	totalWeight uint64
	termCount   int
	mergedCount int
	levels      int
}

var countCases = []countCase{
	{"single pi", 1, 0, 0, 1, 1, 1, 1, 3},
	{"stuck pi dropped", 1, 0, 0, 2, 2, 1, 1, 3},
	{"no pi", 1, 0, 0, 0, 0, 0, 0, 1},
	{"surplus pi", 1, 0, 0, 3, 0, 0, 0, 3},
	{"two A slots", 2, 0, 0, 2, 36, 16, 2, 5},
	{"two A slots odd pi", 2, 0, 0, 3, 216, 28, 3, 5},
	{"two A slots all pi", 2, 0, 0, 4, 144, 6, 1, 5},
	{"one B slot", 0, 1, 0, 2, 6, 2, 1, 5},
	{"one C slot", 0, 0, 1, 6, 720, 1, 1, 7},
	{"two B slots", 0, 2, 0, 4, 176400, 2828, 3, 9},
	{"no slots", 0, 0, 0, 0, 1, 1, 1, 1},
}

// runCounts is a helper that runs one count with the given engine settings
func runCounts(t *testing.T, tc countCase, singleThread bool, workers int, merge bool) *ModelResult {
	t.Helper()
	exec := &Executor{
		A:            tc.a,
		B:            tc.b,
		C:            tc.c,
		N:            tc.n,
		SingleThread: singleThread,
		Workers:      workers,
		Merge:        merge,
	}
	require.NoError(t, exec.Initialize())
	result, err := exec.RunModel()
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestRunModel_Counts(t *testing.T) {
	engines := []struct {
		name         string
		singleThread bool
		workers      int
	}{
		{"single thread", true, 0},
		{"1 worker", false, 1},
		{"3 workers", false, 3},
		{"default workers", false, 0},
	}

	for _, eng := range engines {
		for _, tc := range countCases {
			t.Run(eng.name+"/"+tc.name, func(t *testing.T) {
				result := runCounts(t, tc, eng.singleThread, eng.workers, false)
				assert.Equal(t, tc.totalWeight, result.TotalWeight)
				assert.Equal(t, tc.termCount, result.TermCount)
				assert.Equal(t, tc.levels, result.Statistics.Levels)
				assert.False(t, result.Truncated)
				assert.False(t, result.Merged)
				for _, tm := range result.Terms {
					assert.True(t, tm.Terminal)
				}

				merged := runCounts(t, tc, eng.singleThread, eng.workers, true)
				assert.Equal(t, tc.totalWeight, merged.TotalWeight, "merging keeps the total")
				assert.Equal(t, tc.mergedCount, merged.TermCount)
				assert.True(t, merged.Merged)
			})
		}
	}
}

func TestRunModel_EnginesAgreeOnFrontier(t *testing.T) {
	tc := countCase{a: 0, b: 2, c: 0, n: 4}
	single := runCounts(t, tc, true, 0, false)

	for _, workers := range []int{1, 2, 5, 16} {
		multi := runCounts(t, tc, false, workers, false)
		require.Len(t, multi.Terms, len(single.Terms))
		assert.Equal(t, single.Terms, multi.Terms, "frontier order is deterministic with %d workers", workers)
		assert.Equal(t, single.Statistics.Expanded, multi.Statistics.Expanded)
		assert.Equal(t, single.Statistics.PeakFrontier, multi.Statistics.PeakFrontier)
	}
}

func TestRunModel_TerminatesWithinBound(t *testing.T) {
	for _, tc := range countCases {
		result := runCounts(t, tc, true, 0, false)
		bound := tc.n + 2*tc.a + 4*tc.b + 6*tc.c
		// one extra level marks exhausted terms terminal
		assert.LessOrEqual(t, result.Statistics.Levels, bound+1, tc.name)
	}
}

func TestRunModel_DroppedWeightIsReported(t *testing.T) {
	result := runCounts(t, countCase{a: 1, n: 2}, true, 0, false)

	assert.Equal(t, 1, result.Statistics.Dropped)
	assert.Equal(t, uint64(2), result.Statistics.DroppedWeight)
	assert.Equal(t, uint64(2), result.TotalWeight)
}

func TestRunModel_MaxDepth(t *testing.T) {
	for _, singleThread := range []bool{true, false} {
		exec := &Executor{A: 1, N: 2, MaxDepth: 2, SingleThread: singleThread, Workers: 2}
		require.NoError(t, exec.Initialize())

		result, err := exec.RunModel()
		require.NoError(t, err)
		assert.True(t, result.Truncated)
		assert.Equal(t, 2, result.Statistics.Levels)
		assert.Equal(t, 2, result.TermCount)
		assert.Equal(t, uint64(4), result.TotalWeight)
	}
}

func TestRunModel_StrictOverflow(t *testing.T) {
	seed := &term.Term{
		Weight: math.MaxUint64,
		Pi:     2,
		Ds:     []uint64{1},
		Es:     []uint64{0},
		Deltas: [][]uint64{{0}},
	}

	for _, singleThread := range []bool{true, false} {
		exec := &Executor{SingleThread: singleThread, StrictOverflow: true, Workers: 2}
		require.NoError(t, exec.Initialize())
		exec.InitialTerm = seed
		require.NoError(t, exec.InitEngine())

		_, err := exec.RunModel()
		require.ErrorIs(t, err, term.ErrWeightOverflow)

		exec.StrictOverflow = false
		require.NoError(t, exec.InitEngine())
		result, err := exec.RunModel()
		require.NoError(t, err, "without strict mode weights wrap")
		assert.Equal(t, 1, result.Statistics.Dropped)
		assert.Equal(t, uint64(math.MaxUint64-1), result.Statistics.DroppedWeight)
	}
}

func TestInitialize_RejectsNegativeCounts(t *testing.T) {
	exec := &Executor{A: 1, N: -1}
	err := exec.Initialize()
	require.ErrorIs(t, err, ErrNegativeCount)
}

func TestInitialize_Defaults(t *testing.T) {
	exec := &Executor{A: 2, N: 2}
	require.NoError(t, exec.Initialize())

	assert.NotEmpty(t, exec.RunID)
	assert.NotNil(t, exec.Store)
	assert.NotNil(t, exec.DebugWriter)
	assert.IsType(t, &SilentReporter{}, exec.Reporter)
	assert.IsType(t, &MultiThreadEngine{}, exec.Engine)
	assert.Equal(t, []uint64{2, 2}, exec.InitialTerm.Ds)
}

func TestPartition(t *testing.T) {
	terms := make([]*term.Term, 10)
	for i := range terms {
		terms[i] = &term.Term{Weight: uint64(i)}
	}

	chunks := partition(terms, 4)
	require.Len(t, chunks, 4)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[1], 3)
	assert.Len(t, chunks[2], 2)
	assert.Len(t, chunks[3], 2)

	var flat []*term.Term
	for _, c := range chunks {
		flat = append(flat, c...)
	}
	assert.Equal(t, terms, flat)

	assert.Len(t, partition(terms[:2], 8), 2)
	assert.Empty(t, partition(nil, 8))
}

func TestMultiThreadEngine_CountsExpansions(t *testing.T) {
	exec := &Executor{B: 2, N: 4, Workers: 4}
	require.NoError(t, exec.Initialize())

	result, err := exec.RunModel()
	require.NoError(t, err)

	engine, ok := exec.Engine.(*MultiThreadEngine)
	require.True(t, ok)
	assert.Equal(t, result.Statistics.Expanded, engine.Expanded())
}

func TestRunModel_RepeatedRunsReseed(t *testing.T) {
	for _, singleThread := range []bool{true, false} {
		exec := &Executor{A: 2, N: 2, SingleThread: singleThread, Workers: 2}
		require.NoError(t, exec.Initialize())

		first, err := exec.RunModel()
		require.NoError(t, err)
		second, err := exec.RunModel()
		require.NoError(t, err)

		assert.Equal(t, first.TotalWeight, second.TotalWeight)
		assert.Equal(t, first.TermCount, second.TermCount)
		assert.Equal(t, 5, second.Statistics.Levels)
		assert.Equal(t, first.Statistics.Expanded, second.Statistics.Expanded)
	}
}

func TestMultiThreadEngine_DebugWriterBuffer(t *testing.T) {
	var buf bytes.Buffer
	exec := &Executor{A: 2, N: 2, Workers: 4, DebugWriter: &buf}
	require.NoError(t, exec.Initialize())

	result, err := exec.RunModel()
	require.NoError(t, err)
	assert.Equal(t, uint64(36), result.TotalWeight)

	out := buf.String()
	assert.Contains(t, out, "=== Depth 1:")
	assert.Contains(t, out, "[Worker ")
	assert.Contains(t, out, "Depth 4: expanded")
}
