package petri

import (
	"fmt"
	"sort"
	"strings"
)

// Marking is a multiset over the places of a net. Places with no tokens are
// absent from the map.
type Marking map[*Place]int

func NewMarking() Marking {
	return make(Marking)
}

func (m Marking) Get(p *Place) int {
	return m[p]
}

func (m Marking) Set(p *Place, n int) Marking {
	if n <= 0 {
		delete(m, p)
		return m
	}
	m[p] = n
	return m
}

func (m Marking) Add(p *Place, n int) Marking {
	return m.Set(p, m[p]+n)
}

func (m Marking) Sub(p *Place, n int) Marking {
	return m.Set(p, m[p]-n)
}

func (m Marking) Copy() Marking {
	cp := make(Marking, len(m))
	for p, n := range m {
		cp[p] = n
	}
	return cp
}

// Total returns the number of tokens in the marking.
func (m Marking) Total() int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

func (m Marking) Equal(o Marking) bool {
	if len(m) != len(o) {
		return false
	}
	for p, n := range m {
		if o[p] != n {
			return false
		}
	}
	return true
}

// Key returns a canonical fingerprint of the marking, usable as a map key.
func (m Marking) Key() string {
	parts := make([]string, 0, len(m))
	for p, n := range m {
		parts = append(parts, fmt.Sprintf("%s=%d", p.ID, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

func (m Marking) String() string {
	parts := make([]string, 0, len(m))
	for p, n := range m {
		parts = append(parts, fmt.Sprintf("%s:%d", p.Name, n))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, " ") + "}"
}
