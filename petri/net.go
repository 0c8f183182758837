package petri

import (
	"errors"
)

// Net is a place/transition net.
type Net struct {
	ID          string
	Name        string
	Places      []*Place
	Transitions []*Transition
	Arcs        []*Arc
	inputs      map[string][]*Arc
	outputs     map[string][]*Arc
}

func NewNet(name string) *Net {
	return &Net{
		ID:      ID(),
		Name:    name,
		inputs:  make(map[string][]*Arc),
		outputs: make(map[string][]*Arc),
	}
}

func (n *Net) WithPlaces(places ...*Place) *Net {
	n.Places = append(n.Places, places...)
	return n
}

func (n *Net) WithTransitions(transitions ...*Transition) *Net {
	n.Transitions = append(n.Transitions, transitions...)
	return n
}

func (n *Net) WithArcs(arcs ...*Arc) *Net {
	for _, a := range arcs {
		if err := n.addArc(a); err != nil {
			panic(err)
		}
	}
	return n
}

func (n *Net) Arc(from, to Node) *Arc {
	for _, arc := range n.outputs[from.Identifier()] {
		if arc.Dest.Identifier() == to.Identifier() {
			return arc
		}
	}
	return nil
}

func (n *Net) Inputs(node Node) []*Arc {
	return n.inputs[node.Identifier()]
}

func (n *Net) Outputs(node Node) []*Arc {
	return n.outputs[node.Identifier()]
}

func (n *Net) AddArc(from, to Node) (*Arc, error) {
	a := NewArc(from, to)
	if err := n.addArc(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (n *Net) addArc(a *Arc) error {
	if a.Src.Kind() == a.Dest.Kind() {
		return errors.New("cannot connect two places or two transitions")
	}
	if n.Arc(a.Src, a.Dest) != nil {
		return errors.New("arc already exists")
	}
	n.Arcs = append(n.Arcs, a)
	n.outputs[a.Src.Identifier()] = append(n.outputs[a.Src.Identifier()], a)
	n.inputs[a.Dest.Identifier()] = append(n.inputs[a.Dest.Identifier()], a)
	return nil
}

// Place returns the place with the given name.
func (n *Net) Place(name string) *Place {
	for _, p := range n.Places {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Transition returns the transition with the given name.
func (n *Net) Transition(name string) *Transition {
	for _, t := range n.Transitions {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Preset returns the places feeding t, in arc insertion order.
func (n *Net) Preset(t *Transition) []*Place {
	arcs := n.inputs[t.ID]
	places := make([]*Place, 0, len(arcs))
	for _, a := range arcs {
		places = append(places, a.Src.(*Place))
	}
	return places
}

// Postset returns the places fed by t, in arc insertion order.
func (n *Net) Postset(t *Transition) []*Place {
	arcs := n.outputs[t.ID]
	places := make([]*Place, 0, len(arcs))
	for _, a := range arcs {
		places = append(places, a.Dest.(*Place))
	}
	return places
}

// PostsetTransitions returns the transitions whose preset meets any of the
// given places.
func (n *Net) PostsetTransitions(places []*Place) []*Transition {
	index := make(map[string]bool, len(places))
	for _, p := range places {
		index[p.ID] = true
	}
	var result []*Transition
	for _, t := range n.Transitions {
		for _, a := range n.inputs[t.ID] {
			if index[a.Src.Identifier()] {
				result = append(result, t)
				break
			}
		}
	}
	return result
}

// Enabled returns true if the transition is enabled under the marking.
func (n *Net) Enabled(m Marking, t *Transition) bool {
	for _, p := range n.Preset(t) {
		if m[p] == 0 {
			return false
		}
	}
	return true
}

var ErrPlaceFull = errors.New("place is full")

// Fire returns the marking reached by firing t under m. The marking m is not
// modified.
func (n *Net) Fire(m Marking, t *Transition) (Marking, error) {
	if !n.Enabled(m, t) {
		return nil, errors.New("transition " + t.Name + " is not enabled")
	}
	next := m.Copy()
	for _, p := range n.Preset(t) {
		next.Sub(p, 1)
	}
	for _, p := range n.Postset(t) {
		if p.Bound > 0 && next[p] >= p.Bound {
			return nil, ErrPlaceFull
		}
		next.Add(p, 1)
	}
	return next, nil
}

// Available returns the transitions enabled under the marking.
func (n *Net) Available(m Marking) []*Transition {
	transitions := make([]*Transition, 0)
	for _, t := range n.Transitions {
		if n.Enabled(m, t) {
			transitions = append(transitions, t)
		}
	}
	return transitions
}
