package petri

// Arc is a connection from a place to a transition or a transition to a place.
type Arc struct {
	ID string `json:"_id"`
	// Src is the place or transition that is the source of the arc.
	Src Node `json:"-"`
	// Dest is the place or transition that is the destination of the arc.
	Dest Node `json:"-"`
}

func NewArc(from, to Node) *Arc {
	return &Arc{
		ID:   ID(),
		Src:  from,
		Dest: to,
	}
}

func (a *Arc) Identifier() string { return a.ID }

func (a *Arc) String() string {
	return a.Src.String() + " -> " + a.Dest.String()
}
