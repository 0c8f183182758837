package petri

import "github.com/google/uuid"

type NodeKind int

const (
	PlaceNode NodeKind = iota
	TransitionNode
)

// Node is a place or a transition of a net.
type Node interface {
	Kind() NodeKind
	Identifier() string
	String() string
}

// ID mints a stable identifier for a node.
func ID() string {
	return uuid.New().String()
}
