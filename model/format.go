package model

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"
)

func formatDepthReport(depth, frontier, active, dropped int, elapsed time.Duration) string {
	return fmt.Sprintf("%s depth %s: %s terms (%d active, %s dropped) in %s\n",
		color.Cyan.Sprint("▸"),
		color.Bold.Sprintf("%d", depth),
		color.Bold.Sprintf("%d", frontier),
		active,
		color.Yellow.Sprintf("%d", dropped),
		elapsed.Round(time.Microsecond))
}

func reportMaxDepth(e *Executor) {
	fmt.Fprintf(e.DebugWriter, "\n⚠ Reached maximum depth %d, stopping expansion\n", e.MaxDepth)
	e.Reporter.Printf("%s Reached maximum depth %d, stopping expansion\n",
		color.Yellow.Sprint("⚠"),
		e.MaxDepth)
}

// FormatResult formats the two outputs of a run, one per line.
func FormatResult(r *ModelResult) string {
	var b strings.Builder
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("[%s]\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("total_weight %d\n", r.TotalWeight))
	b.WriteString(fmt.Sprintf("terminal_count %d\n", r.TermCount))
	return b.String()
}

// FormatTerms lists the final terms of a run
func FormatTerms(r *ModelResult) string {
	var b strings.Builder
	title := "Final terms"
	if r.Merged {
		title = "Merged terms"
	}
	b.WriteString(color.Cyan.Sprintf("%s (%d):", title, len(r.Terms)))
	b.WriteString("\n")
	for i, t := range r.Terms {
		fmt.Fprintf(&b, "\n  Term %d:\n", i+1)
		t.PrettyPrintTo(&indentWriter{w: &b, indent: "     ", atLineStart: true})
	}
	return b.String()
}

// indentWriter wraps an io.Writer to add indentation to each line
type indentWriter struct {
	w           io.Writer
	indent      string
	atLineStart bool
}

func (iw *indentWriter) Write(p []byte) (n int, err error) {
	totalWritten := 0

	for len(p) > 0 {
		if iw.atLineStart {
			if _, err := io.WriteString(iw.w, iw.indent); err != nil {
				return totalWritten, err
			}
			iw.atLineStart = false
		}

		// Write up to and including the next newline
		idx := 0
		for idx < len(p) && p[idx] != '\n' {
			idx++
		}
		if idx < len(p) {
			idx++
			iw.atLineStart = true
		}

		written, err := iw.w.Write(p[:idx])
		totalWritten += written
		if err != nil {
			return totalWritten, err
		}

		p = p[idx:]
	}

	return totalWritten, nil
}

// FormatStatistics formats expansion statistics
func FormatStatistics(r *ModelResult) string {
	stats := r.Statistics
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Term expansion statistics ==="))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Run: "))
	b.WriteString(fmt.Sprintf("%s\n", r.RunID))
	b.WriteString(color.Bold.Sprint("Levels expanded: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Levels))
	b.WriteString(color.Bold.Sprint("Terms expanded: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Expanded))
	b.WriteString(color.Bold.Sprint("Peak frontier: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.PeakFrontier))
	b.WriteString(color.Bold.Sprint("Final frontier: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.FinalFrontier))

	// Dropped terms carry weight that is not part of the total
	b.WriteString(color.Bold.Sprint("Dropped terms: "))
	if stats.Dropped > 0 {
		b.WriteString(color.Yellow.Sprintf("%d (weight %d)\n", stats.Dropped, stats.DroppedWeight))
	} else {
		b.WriteString(fmt.Sprintf("%d\n", stats.Dropped))
	}

	if r.Merged {
		b.WriteString(color.Bold.Sprint("Merged terms: "))
		b.WriteString(fmt.Sprintf("%d (%d keys interned)\n", stats.MergedTerms, stats.InternedKeys))
	}
	if r.Truncated {
		b.WriteString(color.Yellow.Sprint("Expansion stopped at the maximum depth; totals cover an unfinished frontier\n"))
	}
	b.WriteString(color.Bold.Sprint("Elapsed: "))
	b.WriteString(fmt.Sprintf("%s\n", stats.Elapsed.Round(time.Millisecond)))
	return b.String()
}
