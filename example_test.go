package unfold_test

import (
	"fmt"

	"github.com/jt05610/unfold"
	"github.com/jt05610/unfold/petri"
)

// ExampleNew unfolds a cyclic net: the second occurrence of the producing
// transition reaches a marking already reached by the first one, so it
// becomes a cutoff and the prefix stays finite.
func ExampleNew() {
	p := petri.NewPlace("p", 1)
	q := petri.NewPlace("q", 1)
	produce := petri.NewTransition("produce")
	reset := petri.NewTransition("reset")
	net := petri.NewNet("cycle").WithPlaces(p, q).WithTransitions(produce, reset).WithArcs(
		petri.NewArc(p, produce),
		petri.NewArc(produce, q),
		petri.NewArc(q, reset),
		petri.NewArc(reset, p),
	)
	sys := petri.NewSystem(net, petri.NewMarking().Set(p, 1))

	u, err := unfold.New(sys, unfold.DefaultSetup())
	if err != nil {
		panic(err)
	}

	fmt.Println(len(u.Conditions()), "conditions")
	fmt.Println(len(u.Events()), "events")
	for _, e := range u.CutoffEvents() {
		fmt.Println(e.Name(), "is a cutoff of", u.CorrespondingEvent(e).Name())
	}

	// Output:
	// 4 conditions
	// 3 events
	// produce1 is a cutoff of produce0
}
