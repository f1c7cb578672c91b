package term

import (
	"io"

	"github.com/shamaton/msgpack/v2"
)

// Initial primary index values for the three vertex types.
const (
	DegreeA = 2
	DegreeB = 4
	DegreeC = 6
)

// Term is one state of the derivation. It is never mutated once it has been
// handed out; every successor is an independent deep copy.
type Term struct {
	Weight   uint64
	Pi       uint64
	Ds       []uint64
	Es       []uint64
	Deltas   [][]uint64
	Terminal bool
}

// NewInitial builds the seed term for a vertex types of degree 2, b of degree
// 4 and c of degree 6, with n available in the scalar accumulator.
func NewInitial(a, b, c, n int) *Term {
	m := a + b + c
	ds := make([]uint64, 0, m)
	for i := 0; i < a; i++ {
		ds = append(ds, DegreeA)
	}
	for i := 0; i < b; i++ {
		ds = append(ds, DegreeB)
	}
	for i := 0; i < c; i++ {
		ds = append(ds, DegreeC)
	}
	deltas := make([][]uint64, m)
	for i := range deltas {
		deltas[i] = make([]uint64, m)
	}
	return &Term{
		Weight: 1,
		Pi:     uint64(n),
		Ds:     ds,
		Es:     make([]uint64, m),
		Deltas: deltas,
	}
}

// Slots is the number of vertex slots m.
func (t *Term) Slots() int {
	return len(t.Ds)
}

func (t *Term) Clone() *Term {
	out := &Term{
		Weight:   t.Weight,
		Pi:       t.Pi,
		Ds:       append([]uint64(nil), t.Ds...),
		Es:       append([]uint64(nil), t.Es...),
		Deltas:   make([][]uint64, len(t.Deltas)),
		Terminal: t.Terminal,
	}
	for i, row := range t.Deltas {
		out.Deltas[i] = append([]uint64(nil), row...)
	}
	return out
}

// Exhausted reports whether no differentiation is left: every primary index
// and the scalar accumulator are zero.
func (t *Term) Exhausted() bool {
	return t.Pi == 0 && allZero(t.Ds)
}

// Key is the structural identity of a term: its secondary indices followed by
// the row-major cross counts. Weight, Pi and Ds are not part of it.
type Key struct {
	Es     []uint64
	Deltas []uint64
}

func (t *Term) Key() *Key {
	k := &Key{
		Es:     append([]uint64(nil), t.Es...),
		Deltas: make([]uint64, 0, len(t.Deltas)*len(t.Deltas)),
	}
	for _, row := range t.Deltas {
		k.Deltas = append(k.Deltas, row...)
	}
	return k
}

func (k *Key) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, k)
}

func (k *Key) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, k)
}

func allZero(xs []uint64) bool {
	for _, x := range xs {
		if x != 0 {
			return false
		}
	}
	return true
}
