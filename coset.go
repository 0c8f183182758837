package unfold

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jt05610/unfold/petri"
)

// Coset is a set of pairwise concurrent conditions.
type Coset []*Condition

func (cs Coset) Contains(c *Condition) bool {
	for _, d := range cs {
		if d.id == c.id {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every condition of o is in cs.
func (cs Coset) ContainsAll(o Coset) bool {
	for _, c := range o {
		if !cs.Contains(c) {
			return false
		}
	}
	return true
}

// Places returns the multiset of places underlying the coset.
func (cs Coset) Places() []*petri.Place {
	places := make([]*petri.Place, len(cs))
	for i, c := range cs {
		places[i] = c.place
	}
	return places
}

// Marking returns the multiset of places of the coset as a marking.
func (cs Coset) Marking() petri.Marking {
	m := petri.NewMarking()
	for _, c := range cs {
		m.Add(c.place, 1)
	}
	return m
}

// key is a canonical fingerprint of the condition set.
func (cs Coset) key() string {
	ids := make([]int, len(cs))
	for i, c := range cs {
		ids[i] = c.id
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Cut is a maximal coset; its multiset of places equals a reachable marking
// of the originative net system.
type Cut struct {
	Coset
}

func newCut(conds ...*Condition) *Cut {
	cut := &Cut{Coset: make(Coset, 0, len(conds))}
	cut.Coset = append(cut.Coset, conds...)
	return cut
}

// derive returns the cut obtained by removing the pre-conditions of an event
// and adding its post-conditions.
func (cut *Cut) derive(pre, post Coset) *Cut {
	next := &Cut{Coset: make(Coset, 0, len(cut.Coset)-len(pre)+len(post))}
	for _, c := range cut.Coset {
		if !pre.Contains(c) {
			next.Coset = append(next.Coset, c)
		}
	}
	next.Coset = append(next.Coset, post...)
	return next
}
