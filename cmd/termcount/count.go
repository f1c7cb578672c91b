package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/termcount-dev/termcount/model"
)

var (
	debugFlag          bool
	mergeFlag          bool
	singleThreadFlag   bool
	strictOverflowFlag bool
	showTermsFlag      bool
	quietFlag          bool
	workersFlag        int
	maxDepthFlag       int
)

var countCmd = &cobra.Command{
	Use:   "count A B C N",
	Short: "Count terms for A degree-2, B degree-4 and C degree-6 vertices with exponent N",
	Args:  cobra.ExactArgs(4),
}

// addEngineFlags registers the flags shared by count and run.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "Print every frontier level to stderr")
	cmd.Flags().BoolVar(&singleThreadFlag, "single-thread", false, "Expand levels on a single goroutine")
	cmd.Flags().BoolVar(&strictOverflowFlag, "strict-overflow", false, "Fail instead of wrapping when a weight overflows 64 bits")
	cmd.Flags().BoolVar(&showTermsFlag, "show-terms", false, "List the final terms")
	cmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Skip per-level progress and statistics")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Number of expansion workers (0 = one per CPU)")
	cmd.Flags().IntVar(&maxDepthFlag, "max-depth", 0, "Stop after this many levels (0 = run to completion)")
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle through changedFlag.
	countCmd.Run = countCommand
	addEngineFlags(countCmd)
	countCmd.Flags().BoolVar(&mergeFlag, "merge", false, "Merge structurally equivalent terms before counting")
}

func parseCounts(args []string) ([4]int, error) {
	var out [4]int
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return out, fmt.Errorf("argument %d (%q) is not an integer", i+1, a)
		}
		if v < 0 {
			return out, fmt.Errorf("argument %d (%d) must be non-negative", i+1, v)
		}
		out[i] = v
	}
	return out, nil
}

func countCommand(cmd *cobra.Command, args []string) {
	counts, err := parseCounts(args)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid counts")
	}
	exec := &model.Executor{
		A:     counts[0],
		B:     counts[1],
		C:     counts[2],
		N:     counts[3],
		Merge: mergeFlag,
	}
	applyEngineFlags(exec)
	runExecutor(exec)
}

// applyEngineFlags overrides executor settings with any flags given on the
// command line.
func applyEngineFlags(exec *model.Executor) {
	flags := map[string]func(){
		"workers":         func() { exec.Workers = workersFlag },
		"single-thread":   func() { exec.SingleThread = singleThreadFlag },
		"max-depth":       func() { exec.MaxDepth = maxDepthFlag },
		"strict-overflow": func() { exec.StrictOverflow = strictOverflowFlag },
	}
	for name, apply := range flags {
		if changedFlag(name) != nil {
			apply()
		}
	}
	if debugFlag {
		exec.DebugWriter = os.Stderr
	} else {
		exec.DebugWriter = io.Discard
	}
	if quietFlag {
		exec.Reporter = &model.SilentReporter{}
	} else {
		exec.Reporter = &model.ColorReporter{Writer: os.Stderr}
	}
}

func runExecutor(exec *model.Executor) {
	err := exec.Initialize()
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't init executor")
	}

	if !quietFlag {
		fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("Expanding terms for a=%d b=%d c=%d n=%d...", exec.A, exec.B, exec.C, exec.N))
	}

	result, err := exec.RunModel()
	if err != nil {
		log.Fatal().Err(err).Str("run", exec.RunID).Msg("Error during term expansion")
	}

	fmt.Print(model.FormatResult(result))
	if showTermsFlag {
		fmt.Fprint(os.Stderr, model.FormatTerms(result))
	}
	if !quietFlag {
		fmt.Fprint(os.Stderr, model.FormatStatistics(result))
	}
}
