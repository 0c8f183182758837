package petri

var _ Node = (*Place)(nil)

// Place represents a place.
type Place struct {
	ID string `json:"_id"`
	// Name is the name of the place
	Name string `json:"name,omitempty"`
	// Bound is the maximum number of tokens that can be in this place
	Bound int `json:"bound,omitempty"`
}

// NewPlace creates a new place.
func NewPlace(name string, bound int) *Place {
	return &Place{
		ID:    ID(),
		Name:  name,
		Bound: bound,
	}
}

func (p *Place) Kind() NodeKind { return PlaceNode }

func (p *Place) Identifier() string { return p.ID }

func (p *Place) String() string { return p.Name }
