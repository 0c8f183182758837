package unfold_test

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/jt05610/unfold"
	"github.com/jt05610/unfold/analysis"
	"github.com/jt05610/unfold/petri"
)

// sequenceNet is a -> T -> b -> U -> c with one token on a.
func sequenceNet() *petri.System {
	a := petri.NewPlace("a", 1)
	b := petri.NewPlace("b", 1)
	c := petri.NewPlace("c", 1)
	T := petri.NewTransition("T")
	U := petri.NewTransition("U")
	net := petri.NewNet("sequence").WithPlaces(a, b, c).WithTransitions(T, U).WithArcs(
		petri.NewArc(a, T),
		petri.NewArc(T, b),
		petri.NewArc(b, U),
		petri.NewArc(U, c),
	)
	return petri.NewSystem(net, petri.NewMarking().Set(a, 1))
}

// choiceNet is a -> T -> b and a -> U -> c with one token on a.
func choiceNet() *petri.System {
	a := petri.NewPlace("a", 1)
	b := petri.NewPlace("b", 1)
	c := petri.NewPlace("c", 1)
	T := petri.NewTransition("T")
	U := petri.NewTransition("U")
	net := petri.NewNet("choice").WithPlaces(a, b, c).WithTransitions(T, U).WithArcs(
		petri.NewArc(a, T),
		petri.NewArc(T, b),
		petri.NewArc(a, U),
		petri.NewArc(U, c),
	)
	return petri.NewSystem(net, petri.NewMarking().Set(a, 1))
}

// forkNet is a -> T -> {b, c}, b -> U -> d, c -> V -> e with one token on a.
func forkNet() *petri.System {
	a := petri.NewPlace("a", 1)
	b := petri.NewPlace("b", 1)
	c := petri.NewPlace("c", 1)
	d := petri.NewPlace("d", 1)
	e := petri.NewPlace("e", 1)
	T := petri.NewTransition("T")
	U := petri.NewTransition("U")
	V := petri.NewTransition("V")
	net := petri.NewNet("fork").WithPlaces(a, b, c, d, e).WithTransitions(T, U, V).WithArcs(
		petri.NewArc(a, T),
		petri.NewArc(T, b),
		petri.NewArc(T, c),
		petri.NewArc(b, U),
		petri.NewArc(U, d),
		petri.NewArc(c, V),
		petri.NewArc(V, e),
	)
	return petri.NewSystem(net, petri.NewMarking().Set(a, 1))
}

// cycleNet is p -> produce -> q, q -> reset -> p with one token on p.
func cycleNet() *petri.System {
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
	return petri.NewSystem(net, petri.NewMarking().Set(p, 1))
}

// accumulatorNet is p -> T -> {p, s} with one token on p; s fills without
// bound.
func accumulatorNet() *petri.System {
	p := petri.NewPlace("p", 1)
	s := petri.NewPlace("s", 100)
	T := petri.NewTransition("T")
	net := petri.NewNet("accumulator").WithPlaces(p, s).WithTransitions(T).WithArcs(
		petri.NewArc(p, T),
		petri.NewArc(T, p),
		petri.NewArc(T, s),
	)
	return petri.NewSystem(net, petri.NewMarking().Set(p, 1))
}

func nodes(u *unfold.Unfolding) []unfold.Node {
	all := make([]unfold.Node, 0, len(u.Conditions())+len(u.Events()))
	for _, c := range u.Conditions() {
		all = append(all, c)
	}
	for _, e := range u.Events() {
		all = append(all, e)
	}
	return all
}

// checkInvariants verifies the structural invariants every prefix must
// satisfy, whatever terminated its construction.
func checkInvariants(t *testing.T, u *unfold.Unfolding, sys *petri.System) {
	t.Helper()
	checkAcyclic(t, u)
	checkPlaceFidelity(t, u, sys)
	checkPreEvents(t, u)
	checkNoDuplicateEvents(t, u)
	checkRelationPartition(t, u)
	checkCutoffs(t, u)
}

func checkAcyclic(t *testing.T, u *unfold.Unfolding) {
	t.Helper()
	const (
		white = iota
		grey
		black
	)
	color := make(map[int]int)
	var visit func(n unfold.Node) bool
	succs := func(n unfold.Node) []unfold.Node {
		var out []unfold.Node
		switch v := n.(type) {
		case *unfold.Condition:
			for _, e := range v.PostEvents() {
				out = append(out, e)
			}
		case *unfold.Event:
			for _, c := range v.PostConditions() {
				out = append(out, c)
			}
		}
		return out
	}
	visit = func(n unfold.Node) bool {
		switch color[n.ID()] {
		case grey:
			return false
		case black:
			return true
		}
		color[n.ID()] = grey
		for _, s := range succs(n) {
			if !visit(s) {
				return false
			}
		}
		color[n.ID()] = black
		return true
	}
	for _, n := range nodes(u) {
		if !visit(n) {
			t.Fatalf("flow graph has a cycle through %s", n.Name())
		}
	}
}

func placeCounts(places []*petri.Place) map[string]int {
	counts := make(map[string]int)
	for _, p := range places {
		counts[p.Name]++
	}
	return counts
}

func sameCounts(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func checkPlaceFidelity(t *testing.T, u *unfold.Unfolding, sys *petri.System) {
	t.Helper()
	for _, e := range u.Events() {
		pre := placeCounts(e.PreConditions().Places())
		want := placeCounts(sys.Preset(e.Transition()))
		if !sameCounts(pre, want) {
			t.Errorf("event %s: pre-conditions %v do not match preset %v", e.Name(), pre, want)
		}
		post := placeCounts(e.PostConditions().Places())
		want = placeCounts(sys.Postset(e.Transition()))
		if !sameCounts(post, want) {
			t.Errorf("event %s: post-conditions %v do not match postset %v", e.Name(), post, want)
		}
	}
}

func checkPreEvents(t *testing.T, u *unfold.Unfolding) {
	t.Helper()
	events := make(map[int]bool)
	for _, e := range u.Events() {
		events[e.ID()] = true
	}
	for _, c := range u.Conditions() {
		if c.IsInitial() {
			continue
		}
		e := c.PreEvent()
		if !events[e.ID()] {
			t.Errorf("condition %s has a pre-event outside the prefix", c.Name())
			continue
		}
		if !e.PostConditions().Contains(c) {
			t.Errorf("condition %s is missing from the post-conditions of %s", c.Name(), e.Name())
		}
	}
}

func checkNoDuplicateEvents(t *testing.T, u *unfold.Unfolding) {
	t.Helper()
	seen := make(map[string]string)
	for _, e := range u.Events() {
		ids := make([]int, 0, len(e.PreConditions()))
		for _, c := range e.PreConditions() {
			ids = append(ids, c.ID())
		}
		sort.Ints(ids)
		key := e.Transition().ID + fmt.Sprint(ids)
		if prev, ok := seen[key]; ok {
			t.Errorf("events %s and %s share transition and pre-conditions", prev, e.Name())
		}
		seen[key] = e.Name()
	}
}

func checkRelationPartition(t *testing.T, u *unfold.Unfolding) {
	t.Helper()
	all := nodes(u)
	for _, n1 := range all {
		for _, n2 := range all {
			if n1.ID() == n2.ID() {
				if !u.Concurrent(n1, n2) {
					t.Errorf("%s should be concurrent with itself", n1.Name())
				}
				if u.Conflict(n1, n2) {
					t.Errorf("%s should not conflict with itself", n1.Name())
				}
				continue
			}
			count := 0
			if u.Causal(n1, n2) {
				count++
			}
			if u.InverseCausal(n1, n2) {
				count++
			}
			if u.Concurrent(n1, n2) {
				count++
			}
			if u.Conflict(n1, n2) {
				count++
			}
			if count != 1 {
				t.Errorf("%s vs %s: %d relations hold, want exactly 1", n1.Name(), n2.Name(), count)
			}
		}
	}
}

func checkCutoffs(t *testing.T, u *unfold.Unfolding) {
	t.Helper()
	order := u.Setup().Order
	for _, e := range u.CutoffEvents() {
		corr := u.CorrespondingEvent(e)
		if corr == nil {
			t.Errorf("cutoff %s has no corresponding event", e.Name())
			continue
		}
		if !e.LocalConfiguration().Marking().Equal(corr.LocalConfiguration().Marking()) {
			t.Errorf("cutoff %s and %s reach different markings", e.Name(), corr.Name())
		}
		if !order.Smaller(corr.LocalConfiguration(), e.LocalConfiguration()) {
			t.Errorf("corresponding %s is not smaller than cutoff %s", corr.Name(), e.Name())
		}
	}
}

// checkCutMarkings verifies that the places of every cut form a reachable
// marking of the originative system.
func checkCutMarkings(t *testing.T, u *unfold.Unfolding, sys *petri.System) {
	t.Helper()
	reachable := make(map[string]bool)
	for _, m := range analysis.Explore(sys, 10000) {
		reachable[m.Key()] = true
	}
	for _, cut := range u.Cuts() {
		if !reachable[cut.Marking().Key()] {
			t.Errorf("cut %s is not a reachable marking", cut.Marking())
		}
	}
}

func TestSequence(t *testing.T) {
	sys := sequenceNet()
	u, err := unfold.New(sys, unfold.DefaultSetup())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(u.Conditions()); got != 3 {
		t.Errorf("got %d conditions, want 3", got)
	}
	if got := len(u.Events()); got != 2 {
		t.Errorf("got %d events, want 2", got)
	}
	if got := len(u.CutoffEvents()); got != 0 {
		t.Errorf("got %d cutoffs, want 0", got)
	}
	all := nodes(u)
	for _, n1 := range all {
		for _, n2 := range all {
			if u.Conflict(n1, n2) {
				t.Errorf("%s and %s should not conflict", n1.Name(), n2.Name())
			}
			if n1.ID() != n2.ID() && u.Concurrent(n1, n2) {
				t.Errorf("%s and %s should be causally ordered", n1.Name(), n2.Name())
			}
		}
	}
	checkInvariants(t, u, sys)
	checkCutMarkings(t, u, sys)
}

func TestChoice(t *testing.T) {
	sys := choiceNet()
	u, err := unfold.New(sys, unfold.DefaultSetup())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(u.Conditions()); got != 3 {
		t.Errorf("got %d conditions, want 3", got)
	}
	if got := len(u.Events()); got != 2 {
		t.Errorf("got %d events, want 2", got)
	}
	T0 := u.EventsOf(sys.Net.Transition("T"))[0]
	U0 := u.EventsOf(sys.Net.Transition("U"))[0]
	if !u.Conflict(T0, U0) {
		t.Error("T0 and U0 should be in conflict")
	}
	b0 := u.ConditionsOf(sys.Net.Place("b"))[0]
	c0 := u.ConditionsOf(sys.Net.Place("c"))[0]
	if !u.Conflict(b0, c0) {
		t.Error("b0 and c0 should be in conflict")
	}
	if !u.Conflict(T0, c0) {
		t.Error("T0 and c0 should be in conflict")
	}
	checkInvariants(t, u, sys)
	checkCutMarkings(t, u, sys)
}

func TestFork(t *testing.T) {
	sys := forkNet()
	u, err := unfold.New(sys, unfold.DefaultSetup())
	if err != nil {
		t.Fatal(err)
	}
	U0 := u.EventsOf(sys.Net.Transition("U"))[0]
	V0 := u.EventsOf(sys.Net.Transition("V"))[0]
	if !u.Concurrent(U0, V0) {
		t.Error("U0 and V0 should be concurrent")
	}
	b0 := u.ConditionsOf(sys.Net.Place("b"))[0]
	c0 := u.ConditionsOf(sys.Net.Place("c"))[0]
	if !u.Concurrent(b0, c0) {
		t.Error("b0 and c0 should be concurrent")
	}
	d0 := u.ConditionsOf(sys.Net.Place("d"))[0]
	e0 := u.ConditionsOf(sys.Net.Place("e"))[0]
	if !u.Concurrent(d0, e0) {
		t.Error("d0 and e0 should be concurrent")
	}
	T0 := u.EventsOf(sys.Net.Transition("T"))[0]
	if !u.Causal(T0, U0) {
		t.Error("T0 should precede U0")
	}
	checkInvariants(t, u, sys)
	checkCutMarkings(t, u, sys)
}

func TestEmptyMarking(t *testing.T) {
	a := petri.NewPlace("a", 1)
	T := petri.NewTransition("T")
	net := petri.NewNet("idle").WithPlaces(a).WithTransitions(T).WithArcs(petri.NewArc(a, T))
	sys := petri.NewSystem(net, petri.NewMarking())
	u, err := unfold.New(sys, unfold.DefaultSetup())
	if !errors.Is(err, unfold.ErrNoInitialMarking) {
		t.Fatalf("got err %v, want ErrNoInitialMarking", err)
	}
	if len(u.Conditions()) != 0 || len(u.Events()) != 0 {
		t.Error("prefix should be empty")
	}
}

func TestEmptyNet(t *testing.T) {
	sys := petri.NewSystem(petri.NewNet("empty"), nil)
	u, err := unfold.New(sys, unfold.DefaultSetup())
	if !errors.Is(err, unfold.ErrEmptyNet) {
		t.Fatalf("got err %v, want ErrEmptyNet", err)
	}
	if len(u.Conditions()) != 0 {
		t.Error("prefix should be empty")
	}
}

func TestSelfLoop(t *testing.T) {
	a := petri.NewPlace("a", 1)
	T := petri.NewTransition("T")
	net := petri.NewNet("loop").WithPlaces(a).WithTransitions(T).WithArcs(
		petri.NewArc(a, T),
		petri.NewArc(T, a),
	)
	sys := petri.NewSystem(net, petri.NewMarking().Set(a, 1))
	setup := unfold.DefaultSetup()
	setup.MaxEvents = 10
	u, err := unfold.New(sys, setup)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(u.Events()); got != 2 {
		t.Fatalf("got %d events, want 2", got)
	}
	events := u.Events()
	first, second := events[0], events[1]
	if u.IsCutoff(first) {
		t.Error("the first occurrence must not be a cutoff")
	}
	if !u.IsCutoff(second) {
		t.Fatal("the second occurrence must be a cutoff")
	}
	if corr := u.CorrespondingEvent(second); corr != first {
		t.Errorf("corresponding event is %v, want %s", corr, first.Name())
	}
	checkInvariants(t, u, sys)
}
