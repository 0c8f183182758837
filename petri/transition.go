package petri

var _ Node = (*Transition)(nil)

// Transition represents a transition.
type Transition struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func NewTransition(name string) *Transition {
	return &Transition{
		ID:   ID(),
		Name: name,
	}
}

func (t *Transition) Kind() NodeKind { return TransitionNode }

func (t *Transition) Identifier() string { return t.ID }

func (t *Transition) String() string { return t.Name }
