package cas

import (
	"errors"
	"io"
)

var ErrCollision = errors.New("hash collision between distinct items")

// CAS interns serialized items under the 64-bit hash of their bytes. Two items
// with equal serializations share a hash; two different items never do.
type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool
	Len() int
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

type Hash uint64
