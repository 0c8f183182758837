package unfold

import (
	"sort"

	"github.com/jt05610/unfold/petri"
)

// LocalConfiguration is the smallest set of events containing some event and
// closed under causal predecessors, together with the marking reached by
// firing exactly those events from the initial marking.
type LocalConfiguration struct {
	events  map[int]*Event
	marking petri.Marking
}

func (lc *LocalConfiguration) Size() int { return len(lc.events) }

func (lc *LocalConfiguration) Contains(e *Event) bool {
	_, ok := lc.events[e.id]
	return ok
}

// Events returns the events of the configuration in creation order.
func (lc *LocalConfiguration) Events() []*Event {
	events := make([]*Event, 0, len(lc.events))
	for _, e := range lc.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].id < events[j].id })
	return events
}

// Marking returns the marking reached by the configuration.
func (lc *LocalConfiguration) Marking() petri.Marking {
	return lc.marking
}

// localConfiguration computes (and memoizes) the local configuration of e.
// It is valid for candidate events as well: their causal past is fixed by
// their pre-conditions at creation time.
func (u *Unfolding) localConfiguration(e *Event) *LocalConfiguration {
	if e.lc != nil {
		return e.lc
	}
	events := map[int]*Event{e.id: e}
	for _, c := range e.pre {
		for id, n := range u.ca[c.id] {
			if ev, ok := n.(*Event); ok {
				events[id] = ev
			}
		}
	}
	// accumulate the net token balance per place first; applying Sub/Add
	// event by event would floor transient negatives away
	balance := make(map[*petri.Place]int)
	for _, ev := range events {
		for _, p := range u.sys.Preset(ev.transition) {
			balance[p]--
		}
		for _, p := range u.sys.Postset(ev.transition) {
			balance[p]++
		}
	}
	marking := u.sys.InitialMarking()
	for p, n := range balance {
		switch {
		case n > 0:
			marking.Add(p, n)
		case n < 0:
			marking.Sub(p, -n)
		}
	}
	e.lc = &LocalConfiguration{events: events, marking: marking}
	return e.lc
}
