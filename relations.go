package unfold

import (
	"fmt"
	"io"
)

// OrderingRelation classifies a pair of branching-process nodes. For any two
// nodes of the same prefix exactly one of causal, inverse-causal, concurrent
// and conflict holds; None is reserved for nodes the prefix does not know.
type OrderingRelation int

const (
	RelationNone OrderingRelation = iota
	RelationCausal
	RelationInverseCausal
	RelationConcurrent
	RelationConflict
)

func (r OrderingRelation) String() string {
	switch r {
	case RelationCausal:
		return "causal"
	case RelationInverseCausal:
		return "inverse-causal"
	case RelationConcurrent:
		return "concurrent"
	case RelationConflict:
		return "conflict"
	}
	return "none"
}

func (r OrderingRelation) symbol() string {
	switch r {
	case RelationCausal:
		return ">"
	case RelationInverseCausal:
		return "<"
	case RelationConcurrent:
		return "@"
	case RelationConflict:
		return "#"
	}
	return ""
}

// Causal reports whether n1 is a strict causal predecessor of n2.
func (u *Unfolding) Causal(n1, n2 Node) bool {
	preds, ok := u.ca[n2.ID()]
	if !ok {
		// candidate events have no causality record yet; walk their
		// pre-conditions instead
		switch n := n2.(type) {
		case *Event:
			for _, c := range n.pre {
				if c.id == n1.ID() {
					return true
				}
				if u.ca[c.id].has(n1) {
					return true
				}
			}
			return false
		case *Condition:
			if n.pre == nil {
				return false
			}
			if n.pre.id == n1.ID() {
				return true
			}
			return u.ca[n.pre.id].has(n1)
		}
	}
	return preds.has(n1)
}

// InverseCausal reports whether n2 is a strict causal predecessor of n1.
func (u *Unfolding) InverseCausal(n1, n2 Node) bool {
	return u.Causal(n2, n1)
}

// Concurrent reports whether n1 and n2 are concurrent: neither causally
// related nor in conflict. A node is concurrent with itself.
func (u *Unfolding) Concurrent(n1, n2 Node) bool {
	if u.co[n1.ID()].has(n2) {
		return true
	}
	if u.notCO[n1.ID()].has(n2) {
		return false
	}
	result := !u.Causal(n1, n2) && !u.InverseCausal(n1, n2) && !u.Conflict(n1, n2)
	if result {
		u.index(u.co, n1, n2)
	} else {
		u.index(u.notCO, n1, n2)
	}
	return result
}

// Conflict reports whether n1 and n2 are in conflict: some two distinct
// events in their causal pasts compete for a shared pre-condition. A node is
// never in conflict with itself.
func (u *Unfolding) Conflict(n1, n2 Node) bool {
	if u.ex[n1.ID()].has(n2) {
		return true
	}
	if u.notEX[n1.ID()].has(n2) {
		return false
	}
	if n1.ID() == n2.ID() {
		u.index(u.notEX, n1, n2)
		return false
	}

	past1 := u.eventPast(n1)
	past2 := u.eventPast(n2)
	for _, e1 := range past1 {
		for _, e2 := range past2 {
			if e1.id == e2.id {
				continue
			}
			if presetsOverlap(e1, e2) {
				u.index(u.ex, n1, n2)
				return true
			}
		}
	}
	u.index(u.notEX, n1, n2)
	return false
}

// Relation returns the one relation holding between n1 and n2.
func (u *Unfolding) Relation(n1, n2 Node) OrderingRelation {
	if u.Causal(n1, n2) {
		return RelationCausal
	}
	if u.InverseCausal(n1, n2) {
		return RelationInverseCausal
	}
	if u.Conflict(n1, n2) {
		return RelationConflict
	}
	return RelationConcurrent
}

// eventPast returns the events among n's causal predecessors, plus n itself
// if n is an event.
func (u *Unfolding) eventPast(n Node) []*Event {
	var events []*Event
	if e, ok := n.(*Event); ok {
		events = append(events, e)
	}
	for _, p := range u.ca[n.ID()] {
		if e, ok := p.(*Event); ok {
			events = append(events, e)
		}
	}
	return events
}

func presetsOverlap(e1, e2 *Event) bool {
	for _, c := range e1.pre {
		if e2.pre.Contains(c) {
			return true
		}
	}
	return false
}

// index records a symmetric relation fact in both directions.
func (u *Unfolding) index(m map[int]nodeSet, n1, n2 Node) {
	s1, ok := m[n1.ID()]
	if !ok {
		s1 = make(nodeSet)
		m[n1.ID()] = s1
	}
	s1.add(n2)
	s2, ok := m[n2.ID()]
	if !ok {
		s2 = make(nodeSet)
		m[n2.ID()] = s2
	}
	s2.add(n1)
}

// updateConcurrency seeds the concurrency cache with every pair of a freshly
// admitted cut, and with their pre-events where those are not causally
// related.
func (u *Unfolding) updateConcurrency(cut *Cut) {
	for _, c1 := range cut.Coset {
		e1 := c1.pre
		for _, c2 := range cut.Coset {
			u.index(u.co, c1, c2)
			e2 := c2.pre
			if e1 != nil && e2 != nil && !u.ca[e1.id].has(e2) && !u.ca[e2.id].has(e1) {
				u.index(u.co, e1, e2)
			}
			if c1.id != c2.id && e1 != nil && !u.ca[c2.id].has(e1) && !u.ca[e1.id].has(c2) {
				u.index(u.co, c2, e1)
			}
		}
	}
}

// WriteRelations writes the relation matrix over all nodes of the prefix,
// conditions first: '>' causal, '<' inverse-causal, '@' concurrent,
// '#' conflict.
func (u *Unfolding) WriteRelations(w io.Writer) error {
	nodes := make([]Node, 0, len(u.conds)+len(u.events))
	for _, c := range u.conds {
		nodes = append(nodes, c)
	}
	for _, e := range u.events {
		nodes = append(nodes, e)
	}

	if _, err := fmt.Fprint(w, " "); err != nil {
		return err
	}
	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "\t%s", n.Name()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, n1 := range nodes {
		if _, err := fmt.Fprint(w, n1.Name()); err != nil {
			return err
		}
		for _, n2 := range nodes {
			if _, err := fmt.Fprintf(w, "\t%s", u.Relation(n1, n2).symbol()); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
