package unfold

import (
	"github.com/jt05610/unfold/petri"
)

// Node is a node of a branching process: a Condition or an Event.
type Node interface {
	ID() int
	Name() string
	isNode()
}

// Condition denotes an occurrence of a token on a place. Its identity is the
// pair (place, pre-event); initial conditions have no pre-event.
type Condition struct {
	id    int
	name  string
	place *petri.Place
	pre   *Event
	post  []*Event
}

func (c *Condition) ID() int { return c.id }

func (c *Condition) Name() string { return c.name }

func (c *Condition) Place() *petri.Place { return c.place }

// PreEvent returns the sole event in the preset of the condition, or nil for
// an initial condition.
func (c *Condition) PreEvent() *Event { return c.pre }

// PostEvents returns the events consuming the condition, in admission order.
func (c *Condition) PostEvents() []*Event { return c.post }

func (c *Condition) IsInitial() bool { return c.pre == nil }

func (c *Condition) String() string { return c.name }

func (c *Condition) isNode() {}

// Event denotes an occurrence of a transition firing. Its identity is the
// pair (transition, pre-conditions); post-conditions are assigned once, when
// the event is admitted to the prefix.
type Event struct {
	id         int
	name       string
	transition *petri.Transition
	pre        Coset
	post       Coset
	lc         *LocalConfiguration
}

func (e *Event) ID() int { return e.id }

func (e *Event) Name() string { return e.name }

func (e *Event) Transition() *petri.Transition { return e.transition }

// PreConditions returns the coset the event consumes, ordered by the preset
// of its transition.
func (e *Event) PreConditions() Coset { return e.pre }

// PostConditions returns the coset the event produces. It is empty until the
// event is admitted.
func (e *Event) PostConditions() Coset { return e.post }

// LocalConfiguration returns the least set of events containing e and closed
// under causal predecessors, with the marking it reaches.
func (e *Event) LocalConfiguration() *LocalConfiguration { return e.lc }

func (e *Event) String() string { return e.name }

func (e *Event) isNode() {}

// key identifies an event structurally: same transition, same pre-conditions.
func (e *Event) key() string {
	return e.transition.ID + "/" + e.pre.key()
}

type nodeSet map[int]Node

func (s nodeSet) add(n Node) {
	s[n.ID()] = n
}

func (s nodeSet) addAll(o nodeSet) {
	for id, n := range o {
		s[id] = n
	}
}

func (s nodeSet) has(n Node) bool {
	if s == nil {
		return false
	}
	_, ok := s[n.ID()]
	return ok
}
