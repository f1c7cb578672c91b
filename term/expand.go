package term

import (
	"errors"
	"fmt"
	"math/bits"
)

var ErrWeightOverflow = errors.New("term weight overflows uint64")

type expandConfig struct {
	strict bool
}

type ExpandOption func(*expandConfig)

// StrictOverflow makes Expand fail instead of wrapping when a weight
// multiplication leaves the uint64 range.
func StrictOverflow() ExpandOption {
	return func(c *expandConfig) {
		c.strict = true
	}
}

// Expand returns the successors of t.
//
// A terminal term maps to a copy of itself. An exhausted term maps to a
// terminal copy. Otherwise, for every primary slot d with Ds[d] > 0, in slot
// order, Expand emits the scalar-consumption child (when Pi > 0) followed by
// one cross-term child for every secondary slot i with Es[i] > 0.
//
// A term whose primary indices are all zero while Pi is still positive has no
// successors and is dropped together with its weight.
func Expand(t *Term, opts ...ExpandOption) ([]*Term, error) {
	var cfg expandConfig
	for _, o := range opts {
		o(&cfg)
	}

	if t.Terminal {
		return []*Term{t.Clone()}, nil
	}
	if t.Exhausted() {
		n := t.Clone()
		n.Terminal = true
		return []*Term{n}, nil
	}

	var out []*Term
	for d, dv := range t.Ds {
		if dv == 0 {
			continue
		}
		if t.Pi > 0 {
			n, err := t.consumeScalar(d, cfg.strict)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		for i, ev := range t.Es {
			if ev == 0 {
				continue
			}
			n, err := t.crossTerm(d, i, cfg.strict)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}
	return out, nil
}

func (t *Term) consumeScalar(d int, strict bool) (*Term, error) {
	w, err := mulWeight(t.Weight, t.Pi, strict)
	if err != nil {
		return nil, fmt.Errorf("consuming pi=%d at slot %d: %w", t.Pi, d, err)
	}
	n := t.Clone()
	n.Weight = w
	n.Pi = decrement(n.Pi, "pi")
	n.Ds[d] = decrement(n.Ds[d], "ds")
	n.Es[d]++
	return n, nil
}

func (t *Term) crossTerm(d, i int, strict bool) (*Term, error) {
	w, err := mulWeight(t.Weight, t.Es[i], strict)
	if err != nil {
		return nil, fmt.Errorf("pairing es[%d]=%d with slot %d: %w", i, t.Es[i], d, err)
	}
	n := t.Clone()
	n.Weight = w
	n.Ds[d] = decrement(n.Ds[d], "ds")
	n.Es[i] = decrement(n.Es[i], "es")
	n.Deltas[i][d]++
	return n, nil
}

func mulWeight(w, f uint64, strict bool) (uint64, error) {
	hi, lo := bits.Mul64(w, f)
	if hi != 0 && strict {
		return 0, ErrWeightOverflow
	}
	return lo, nil
}

func decrement(v uint64, what string) uint64 {
	if v == 0 {
		panic(fmt.Sprintf("%s decremented below zero", what))
	}
	return v - 1
}
