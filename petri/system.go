package petri

// System couples a net with an initial marking.
type System struct {
	*Net
	initial Marking
}

func NewSystem(n *Net, initial Marking) *System {
	if initial == nil {
		initial = NewMarking()
	}
	return &System{
		Net:     n,
		initial: initial,
	}
}

// Places shadows the embedded slice so that *System presents the net-system
// contract consumed by the unfolding engine.
func (s *System) Places() []*Place {
	return s.Net.Places
}

func (s *System) Transitions() []*Transition {
	return s.Net.Transitions
}

// InitialMarking returns a copy of the initial marking.
func (s *System) InitialMarking() Marking {
	return s.initial.Copy()
}
