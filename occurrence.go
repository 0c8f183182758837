package unfold

import (
	"github.com/jt05610/unfold/petri"
)

// OccurrenceNet is a read-only projection of a prefix as an acyclic Petri
// net: one transition per event, one place per condition, flow mirroring
// pre/post. It keeps bidirectional maps between prefix nodes and view nodes
// and annotates cutoff transitions.
type OccurrenceNet struct {
	unf *Unfolding
	net *petri.Net

	e2t map[int]*petri.Transition
	c2p map[int]*petri.Place
	t2e map[string]*Event
	p2c map[string]*Condition
}

// OccurrenceNet builds the occurrence-net view of the prefix. The view
// shares the prefix; it stays valid as long as the prefix does.
func (u *Unfolding) OccurrenceNet() *OccurrenceNet {
	on := &OccurrenceNet{
		unf: u,
		net: petri.NewNet("unfolding"),
		e2t: make(map[int]*petri.Transition, len(u.events)),
		c2p: make(map[int]*petri.Place, len(u.conds)),
		t2e: make(map[string]*Event, len(u.events)),
		p2c: make(map[string]*Condition, len(u.conds)),
	}
	for _, e := range u.events {
		t := petri.NewTransition(e.name)
		on.net.WithTransitions(t)
		on.e2t[e.id] = t
		on.t2e[t.ID] = e
	}
	for _, c := range u.conds {
		p := petri.NewPlace(c.name, 1)
		on.net.WithPlaces(p)
		on.c2p[c.id] = p
		on.p2c[p.ID] = c
	}
	for _, e := range u.events {
		for _, c := range e.pre {
			if _, err := on.net.AddArc(on.c2p[c.id], on.e2t[e.id]); err != nil {
				panic(err)
			}
		}
	}
	for _, c := range u.conds {
		if c.pre == nil {
			continue
		}
		if _, err := on.net.AddArc(on.e2t[c.pre.id], on.c2p[c.id]); err != nil {
			panic(err)
		}
	}
	return on
}

// Net returns the projected net.
func (on *OccurrenceNet) Net() *petri.Net { return on.net }

// Unfolding returns the prefix the view projects.
func (on *OccurrenceNet) Unfolding() *Unfolding { return on.unf }

// Event returns the prefix event a view transition stands for.
func (on *OccurrenceNet) Event(t *petri.Transition) *Event {
	return on.t2e[t.ID]
}

// Condition returns the prefix condition a view place stands for.
func (on *OccurrenceNet) Condition(p *petri.Place) *Condition {
	return on.p2c[p.ID]
}

// TransitionOf returns the view transition standing for a prefix event.
func (on *OccurrenceNet) TransitionOf(e *Event) *petri.Transition {
	return on.e2t[e.id]
}

// PlaceOf returns the view place standing for a prefix condition.
func (on *OccurrenceNet) PlaceOf(c *Condition) *petri.Place {
	return on.c2p[c.id]
}

// CutoffEvents returns the view transitions standing for cutoff events.
func (on *OccurrenceNet) CutoffEvents() []*petri.Transition {
	result := make([]*petri.Transition, 0, len(on.unf.cutoffs))
	for _, e := range on.unf.cutoffs {
		result = append(result, on.e2t[e.id])
	}
	return result
}

// IsCutoff reports whether a view transition stands for a cutoff event.
func (on *OccurrenceNet) IsCutoff(t *petri.Transition) bool {
	e := on.t2e[t.ID]
	return e != nil && on.unf.IsCutoff(e)
}

// CorrespondingEvent returns the view transition standing for the
// corresponding event of the cutoff t, or nil.
func (on *OccurrenceNet) CorrespondingEvent(t *petri.Transition) *petri.Transition {
	e := on.t2e[t.ID]
	if e == nil {
		return nil
	}
	corr := on.unf.CorrespondingEvent(e)
	if corr == nil {
		return nil
	}
	return on.e2t[corr.id]
}

// Relation returns the ordering relation between two view nodes, or
// RelationNone when either does not belong to the view.
func (on *OccurrenceNet) Relation(n1, n2 petri.Node) OrderingRelation {
	b1 := on.node(n1)
	b2 := on.node(n2)
	if b1 == nil || b2 == nil {
		return RelationNone
	}
	return on.unf.Relation(b1, b2)
}

func (on *OccurrenceNet) node(n petri.Node) Node {
	switch v := n.(type) {
	case *petri.Place:
		if c := on.p2c[v.ID]; c != nil {
			return c
		}
	case *petri.Transition:
		if e := on.t2e[v.ID]; e != nil {
			return e
		}
	}
	return nil
}
