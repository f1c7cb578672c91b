// Package merge collapses structurally equivalent terms into one
// representative carrying the summed weight.
package merge

import (
	"fmt"

	"github.com/termcount-dev/termcount/cas"
	"github.com/termcount-dev/termcount/term"
)

// Group is one equivalence class found by Reduce.
type Group struct {
	Hash    cas.Hash
	Term    *term.Term
	Members int
}

// Reduce groups terms by their structural key and returns one representative
// per group, in first-seen order. The representative is a copy of the first
// member with the wrapping sum of all member weights. Terms are expected to be
// canonicalized already.
func Reduce(store cas.CAS, terms []*term.Term) ([]*term.Term, error) {
	groups, err := Groups(store, terms)
	if err != nil {
		return nil, err
	}
	out := make([]*term.Term, len(groups))
	for i, g := range groups {
		out[i] = g.Term
	}
	return out, nil
}

// Canonical canonicalizes every term and reduces the result.
func Canonical(store cas.CAS, terms []*term.Term) ([]*term.Term, error) {
	canon := make([]*term.Term, len(terms))
	for i, t := range terms {
		canon[i] = term.Canonicalize(t)
	}
	return Reduce(store, canon)
}

// Groups is Reduce with per-group membership counts.
func Groups(store cas.CAS, terms []*term.Term) ([]*Group, error) {
	var out []*Group
	index := make(map[cas.Hash]*Group)
	for i, t := range terms {
		h, err := store.Put(t.Key())
		if err != nil {
			return nil, fmt.Errorf("interning key of term %d: %w", i, err)
		}
		if g, ok := index[h]; ok {
			g.Term.Weight += t.Weight
			g.Members++
			continue
		}
		g := &Group{Hash: h, Term: t.Clone(), Members: 1}
		index[h] = g
		out = append(out, g)
	}
	return out, nil
}
