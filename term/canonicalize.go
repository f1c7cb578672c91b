package term

// CanonicalSupported reports whether Canonicalize normalizes terms with m
// slots. Only the two-slot case has a canonical form.
func CanonicalSupported(m int) bool {
	return m == 2
}

// Canonicalize returns a normalized copy of t so that mirror-image two-slot
// terms share one representative. For any other slot count the copy is
// returned unchanged.
func Canonicalize(t *Term) *Term {
	n := t.Clone()
	if !CanonicalSupported(n.Slots()) {
		return n
	}

	// Both orderings of a cross pair live in (0, 1).
	n.Deltas[0][1] += n.Deltas[1][0]
	n.Deltas[1][0] = 0

	if n.Es[1] > n.Es[0] {
		n.Es[0], n.Es[1] = n.Es[1], n.Es[0]
		n.swapDiagonal()
	} else if n.Deltas[1][1] > n.Deltas[0][0] {
		n.swapDiagonal()
	}
	return n
}

func (t *Term) swapDiagonal() {
	t.Deltas[0][0], t.Deltas[1][1] = t.Deltas[1][1], t.Deltas[0][0]
}
