package term

import (
	"fmt"
	"io"
	"strings"
)

// String renders the term on a single line.
func (t *Term) String() string {
	return fmt.Sprintf("w=%d pi=%d ds=%s es=%s deltas=%s%s",
		t.Weight, t.Pi, formatVector(t.Ds), formatVector(t.Es), formatMatrix(t.Deltas), terminalSuffix(t))
}

// PrettyPrintTo writes the term one field per line.
func (t *Term) PrettyPrintTo(w io.Writer) {
	fmt.Fprintf(w, "weight = %d\n", t.Weight)
	fmt.Fprintf(w, "pi     = %d\n", t.Pi)
	fmt.Fprintf(w, "ds     = %s\n", formatVector(t.Ds))
	fmt.Fprintf(w, "es     = %s\n", formatVector(t.Es))
	fmt.Fprint(w, "deltas =")
	if len(t.Deltas) == 0 {
		fmt.Fprint(w, " []\n")
	} else {
		fmt.Fprint(w, "\n")
		for _, row := range t.Deltas {
			fmt.Fprintf(w, "  %s\n", formatVector(row))
		}
	}
	if t.Terminal {
		fmt.Fprint(w, "(terminal)\n")
	}
}

func formatVector(xs []uint64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatMatrix(rows [][]uint64) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = formatVector(row)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func terminalSuffix(t *Term) string {
	if t.Terminal {
		return " (terminal)"
	}
	return ""
}
