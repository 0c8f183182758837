package unfold

import (
	"github.com/jt05610/unfold/petri"
)

// constructSafe builds the prefix with the optimization for safe systems: no
// cut enumeration beyond the initial cut, possible extensions computed
// incrementally from the concurrency relation (Khomenko).
func (u *Unfolding) constructSafe() {
	if !u.addInitialCut() {
		return
	}
	pe := u.possibleExtensionsA()
	for len(pe) > 0 {
		if u.countEvents >= u.setup.MaxEvents {
			u.limitReached = true
			return
		}
		e := u.setup.Order.Minimal(pe)
		pe = removeEvent(pe, e)
		if !u.addEventSafe(e) {
			return
		}
		if corr := u.checkCutoff(e); corr != nil {
			u.addCutoff(e, corr)
		} else {
			pe = mergeExtensions(pe, u.updatePossibleExtensions(e))
		}
	}
}

// addEventSafe admits an event without deriving cuts.
func (u *Unfolding) addEventSafe(e *Event) bool {
	u.admit(e)
	u.countEvents++
	return true
}

// updatePossibleExtensions computes the candidate events enabled by the
// post-conditions of a freshly admitted event. Only the affected transitions
// are considered: those consuming from the postset of e's transition but not
// from the places e consumed without reproducing, since only they can gain an
// enablement from e.
func (u *Unfolding) updatePossibleExtensions(e *Event) []*Event {
	t := e.transition
	post := u.sys.Postset(t)

	consumed := make(map[string]bool)
	for _, p := range u.sys.Preset(t) {
		consumed[p.ID] = true
	}
	for _, p := range post {
		delete(consumed, p.ID)
	}
	var consumedOnly []*petri.Place
	for _, p := range u.sys.Preset(t) {
		if consumed[p.ID] {
			consumedOnly = append(consumedOnly, p)
		}
	}
	excluded := make(map[string]bool)
	for _, v := range u.sys.PostsetTransitions(consumedOnly) {
		excluded[v.ID] = true
	}

	conc := u.concurrentConditions(e)
	var upe []*Event
	seen := make(map[string]bool)
	for _, v := range u.sys.PostsetTransitions(post) {
		if excluded[v.ID] {
			continue
		}
		preset := make(Coset, 0)
		for _, b := range e.post {
			if placeIn(u.sys.Preset(v), b.place) {
				preset = append(preset, b)
			}
		}
		u.cover(conc, v, preset, &upe, seen)
	}
	return upe
}

// cover extends preset to a full cover of t's preset by picking one
// concurrent condition per remaining place, recursing on the conditions
// concurrent with the pick. Every completed cover yields one candidate.
func (u *Unfolding) cover(conc []*Condition, t *petri.Transition, preset Coset, out *[]*Event, seen map[string]bool) {
	pre := u.sys.Preset(t)
	if len(pre) == len(preset) {
		// order the pre-conditions by the preset of t
		ordered := make(Coset, 0, len(pre))
		for _, p := range pre {
			for _, c := range preset {
				if c.place.ID == p.ID {
					ordered = append(ordered, c)
					break
				}
			}
		}
		e := u.newEvent(t, ordered)
		if !seen[e.key()] {
			seen[e.key()] = true
			*out = append(*out, e)
		}
		return
	}
	var p *petri.Place
	for _, q := range pre {
		if !placeIn(preset.Places(), q) {
			p = q
			break
		}
	}
	if p == nil {
		return
	}
	for _, d := range conc {
		if d.place.ID != p.ID {
			continue
		}
		var narrowed []*Condition
		for _, dd := range conc {
			if u.Concurrent(d, dd) {
				narrowed = append(narrowed, dd)
			}
		}
		next := make(Coset, 0, len(preset)+1)
		next = append(next, preset...)
		next = append(next, d)
		u.cover(narrowed, t, next, out, seen)
	}
}

// concurrentConditions returns the conditions of the prefix concurrent with
// the given event.
func (u *Unfolding) concurrentConditions(e *Event) []*Condition {
	var result []*Condition
	for _, c := range u.conds {
		if u.Concurrent(e, c) {
			result = append(result, c)
		}
	}
	return result
}

func placeIn(places []*petri.Place, p *petri.Place) bool {
	for _, q := range places {
		if q.ID == p.ID {
			return true
		}
	}
	return false
}

func mergeExtensions(pe, upe []*Event) []*Event {
	seen := make(map[string]bool, len(pe))
	for _, e := range pe {
		seen[e.key()] = true
	}
	for _, e := range upe {
		if !seen[e.key()] {
			seen[e.key()] = true
			pe = append(pe, e)
		}
	}
	return pe
}
