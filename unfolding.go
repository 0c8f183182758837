// Package unfold computes complete finite prefix unfoldings of place/transition
// net systems.
//
// The construction follows:
//   - Javier Esparza, Stefan Römer, Walter Vogler: An Improvement of
//     McMillan's Unfolding Algorithm. FMSD 20(3):285-310 (2002).
//   - Victor Khomenko: Model Checking Based on Prefixes of Petri Net
//     Unfoldings. PhD Thesis (2003).
package unfold

import (
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/jt05610/unfold/petri"
)

// System is the contract the engine requires from whatever models the
// originative net. *petri.System satisfies it.
type System interface {
	Places() []*petri.Place
	Transitions() []*petri.Transition
	Preset(t *petri.Transition) []*petri.Place
	Postset(t *petri.Transition) []*petri.Place
	PostsetTransitions(places []*petri.Place) []*petri.Transition
	InitialMarking() petri.Marking
}

var (
	// ErrEmptyNet reports a net system without places or transitions.
	ErrEmptyNet = errors.New("net system is empty")
	// ErrNoInitialMarking reports a net system whose initial marking carries
	// no tokens.
	ErrNoInitialMarking = errors.New("net system has no initial marking")
	// ErrBoundExceeded reports that some cut would exceed the configured
	// per-place bound. The prefix built so far remains queryable.
	ErrBoundExceeded = errors.New("cut exceeds place bound")
)

// Unfolding is the complete finite prefix of a net system's unfolding. It is
// built once, by New, and safe for concurrent reads only after construction
// finished and no relation queries race each other (the relation caches
// memoize on read).
type Unfolding struct {
	sys   System
	setup *Setup
	log   *zap.Logger

	conds  []*Condition
	events []*Event

	// occurrences of places and transitions, keyed by identifier
	p2cs map[string][]*Condition
	t2es map[string][]*Event

	// causality: node id to the set of its strict causal predecessors
	ca map[int]nodeSet

	// memoized relation caches, each negatively answerable
	co    map[int]nodeSet
	notCO map[int]nodeSet
	ex    map[int]nodeSet
	notEX map[int]nodeSet

	// cut index: condition id to every cut containing it (general variant)
	c2cut map[int][]*Cut
	cuts  []*Cut

	initialCut *Cut

	cutoff2corr map[int]*Event
	cutoffs     []*Event

	seq         int // node id sequence
	countEvents int

	limitReached bool
	err          error
}

// New constructs the complete prefix unfolding of sys. A non-nil error may
// accompany a non-empty, still-queryable prefix (ErrBoundExceeded).
func New(sys System, setup *Setup) (*Unfolding, error) {
	if setup == nil {
		setup = DefaultSetup()
	}
	if sys == nil {
		return &Unfolding{setup: setup, err: ErrEmptyNet}, ErrEmptyNet
	}
	u := &Unfolding{
		sys:         sys,
		setup:       setup.normalize(sys),
		p2cs:        make(map[string][]*Condition),
		t2es:        make(map[string][]*Event),
		ca:          make(map[int]nodeSet),
		co:          make(map[int]nodeSet),
		notCO:       make(map[int]nodeSet),
		ex:          make(map[int]nodeSet),
		notEX:       make(map[int]nodeSet),
		c2cut:       make(map[int][]*Cut),
		cutoff2corr: make(map[int]*Event),
	}
	u.log = u.setup.Logger
	if len(sys.Places()) == 0 && len(sys.Transitions()) == 0 {
		u.err = ErrEmptyNet
		return u, u.err
	}
	if sys.InitialMarking().Total() == 0 {
		u.err = ErrNoInitialMarking
		return u, u.err
	}
	if u.setup.SafeOptimization {
		u.constructSafe()
	} else {
		u.construct()
	}
	return u, u.err
}

// construct builds the prefix with the general, cut-driven algorithm (ERV).
func (u *Unfolding) construct() {
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
		if u.overlapsCutoffs(u.localConfiguration(e)) {
			pe = removeEvent(pe, e)
			continue
		}
		if !u.addEvent(e) {
			return
		}
		if corr := u.checkCutoff(e); corr != nil {
			u.addCutoff(e, corr)
		}
		pe = u.possibleExtensionsA()
	}
}

func (u *Unfolding) addInitialCut() bool {
	m0 := u.sys.InitialMarking()
	initial := newCut()
	for _, p := range u.sys.Places() {
		for i := 0; i < m0.Get(p); i++ {
			c := u.newCondition(p, nil)
			u.addCondition(c)
			initial.Coset = append(initial.Coset, c)
		}
	}
	u.initialCut = initial
	if !u.addCut(initial) {
		u.err = ErrBoundExceeded
		return false
	}
	return true
}

func (u *Unfolding) newCondition(p *petri.Place, pre *Event) *Condition {
	u.seq++
	return &Condition{
		id:    u.seq,
		name:  p.Name + strconv.Itoa(len(u.p2cs[p.ID])),
		place: p,
		pre:   pre,
	}
}

// newEvent creates a candidate event. Its local configuration is fixed by
// its pre-conditions and computed immediately.
func (u *Unfolding) newEvent(t *petri.Transition, pre Coset) *Event {
	u.seq++
	e := &Event{
		id:         u.seq,
		transition: t,
		pre:        pre,
	}
	u.localConfiguration(e)
	return e
}

func (u *Unfolding) addCondition(c *Condition) {
	u.conds = append(u.conds, c)
	u.updateCausalityCondition(c)
	u.p2cs[c.place.ID] = append(u.p2cs[c.place.ID], c)
}

// addEvent admits a candidate event to the prefix: it inserts the event,
// creates and attaches its post-conditions, updates causality and the
// indexes, and derives the new cuts the event induces. It returns false if a
// derived cut violates the bound; the prefix is then terminated as it
// stands.
func (u *Unfolding) addEvent(e *Event) bool {
	u.admit(e)

	// derive new cuts: every cut containing the full preset of e yields one
	for _, cut := range u.c2cut[e.pre[0].id] {
		if !cut.ContainsAll(e.pre) {
			continue
		}
		if !u.addCut(cut.derive(e.pre, e.post)) {
			u.err = ErrBoundExceeded
			u.log.Debug("bound exceeded", zap.String("event", e.name))
			return false
		}
	}
	u.countEvents++
	return true
}

// admit performs the bookkeeping shared by both construction variants.
func (u *Unfolding) admit(e *Event) {
	e.name = e.transition.Name + strconv.Itoa(len(u.t2es[e.transition.ID]))
	u.events = append(u.events, e)
	u.updateCausalityEvent(e)
	u.t2es[e.transition.ID] = append(u.t2es[e.transition.ID], e)
	for _, c := range e.pre {
		c.post = append(c.post, e)
	}

	post := make(Coset, 0, len(u.sys.Postset(e.transition)))
	for _, p := range u.sys.Postset(e.transition) {
		c := u.newCondition(p, e)
		post = append(post, c)
		u.addCondition(c)
	}
	e.post = post
	u.log.Debug("event admitted",
		zap.String("event", e.name),
		zap.Int("size", e.lc.Size()),
	)
}

// addCut indexes a cut and seeds the concurrency cache with its pairs. It
// returns false if some place's multiplicity inside the cut would exceed the
// configured bound; the cut is then not admitted.
func (u *Unfolding) addCut(cut *Cut) bool {
	u.updateConcurrency(cut)

	counts := make(map[string]int)
	for _, c := range cut.Coset {
		n := counts[c.place.ID]
		if n == u.setup.MaxBound {
			return false
		}
		counts[c.place.ID] = n + 1
	}
	for _, c := range cut.Coset {
		u.c2cut[c.id] = append(u.c2cut[c.id], cut)
	}
	u.cuts = append(u.cuts, cut)
	return true
}

// possibleExtensionsA enumerates candidate events whose presets are covered
// by a co-set inside some cut of the prefix. Each cut yields at most one
// co-set per transition, made of the first condition of each preset place in
// the cut; other choices among several conditions of the same place in one
// cut are not enumerated.
func (u *Unfolding) possibleExtensionsA() []*Event {
	var result []*Event
	seen := make(map[string]bool)
	for _, t := range u.sys.Transitions() {
		pre := u.sys.Preset(t)
		if len(pre) == 0 {
			continue
		}
		for _, cut := range u.cutsWithPlace(pre[0]) {
			coset := containsPlaces(cut, pre)
			if coset == nil {
				continue
			}
			if u.realized(t, coset) {
				continue
			}
			key := t.ID + "/" + coset.key()
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, u.newEvent(t, coset))
		}
	}
	for _, e := range u.setup.Extensions.PossibleExtensions(u, result) {
		if !seen[e.key()] {
			seen[e.key()] = true
			result = append(result, e)
		}
	}
	return result
}

// cutsWithPlace returns the cuts containing a condition of place p, without
// duplicates: grouped by condition in creation order, each condition's cuts
// in admission order.
func (u *Unfolding) cutsWithPlace(p *petri.Place) []*Cut {
	var result []*Cut
	seen := make(map[*Cut]bool)
	for _, c := range u.p2cs[p.ID] {
		for _, cut := range u.c2cut[c.id] {
			if !seen[cut] {
				seen[cut] = true
				result = append(result, cut)
			}
		}
	}
	return result
}

// containsPlaces picks, for each place, a condition of the cut with that
// place; nil if some place has none.
func containsPlaces(cut *Cut, places []*petri.Place) Coset {
	coset := make(Coset, 0, len(places))
	for _, p := range places {
		var found *Condition
		for _, c := range cut.Coset {
			if c.place.ID == p.ID {
				found = c
				break
			}
		}
		if found == nil {
			return nil
		}
		coset = append(coset, found)
	}
	return coset
}

// Candidate creates a candidate event of t consuming the given coset. It is
// intended for PossibleExtensions hooks; candidates become part of the
// prefix only once the engine admits them.
func (u *Unfolding) Candidate(t *petri.Transition, pre Coset) *Event {
	return u.newEvent(t, pre)
}

// realized reports whether an event of t with exactly the given preset is
// already in the prefix.
func (u *Unfolding) realized(t *petri.Transition, coset Coset) bool {
	key := coset.key()
	for _, e := range u.t2es[t.ID] {
		if e.pre.key() == key {
			return true
		}
	}
	return false
}

// checkCutoff looks for an already-present event reaching the same marking
// via a smaller configuration. The first match found is passed through the
// CheckCutoff hook, which may veto or replace it.
func (u *Unfolding) checkCutoff(e *Event) *Event {
	lce := u.localConfiguration(e)
	for _, f := range u.events {
		if f.id == e.id {
			continue
		}
		lcf := u.localConfiguration(f)
		if lce.marking.Equal(lcf.marking) && u.setup.Order.Smaller(lcf, lce) {
			return u.setup.Extensions.CheckCutoff(u, e, f)
		}
	}
	return nil
}

func (u *Unfolding) addCutoff(e, corr *Event) {
	u.cutoff2corr[e.id] = corr
	u.cutoffs = append(u.cutoffs, e)
	u.log.Debug("cutoff declared",
		zap.String("event", e.name),
		zap.String("corresponding", corr.name),
	)
}

func (u *Unfolding) overlapsCutoffs(lc *LocalConfiguration) bool {
	for _, e := range u.cutoffs {
		if lc.Contains(e) {
			return true
		}
	}
	return false
}

func removeEvent(events []*Event, e *Event) []*Event {
	result := events[:0]
	for _, f := range events {
		if f.id != e.id {
			result = append(result, f)
		}
	}
	return result
}

func (u *Unfolding) updateCausalityCondition(c *Condition) {
	preds := make(nodeSet)
	if c.pre != nil {
		preds.addAll(u.ca[c.pre.id])
		preds.add(c.pre)
	}
	u.ca[c.id] = preds
}

func (u *Unfolding) updateCausalityEvent(e *Event) {
	preds := make(nodeSet)
	for _, c := range e.pre {
		preds.addAll(u.ca[c.id])
		preds.add(c)
	}
	u.ca[e.id] = preds
}

/**************************************************************************
 * Public interface
 **************************************************************************/

// Setup returns the effective setup of the run.
func (u *Unfolding) Setup() *Setup { return u.setup }

// System returns the originative net system.
func (u *Unfolding) System() System { return u.sys }

// Conditions returns the conditions of the prefix in creation order.
func (u *Unfolding) Conditions() []*Condition { return u.conds }

// Events returns the events of the prefix in admission order.
func (u *Unfolding) Events() []*Event { return u.events }

// ConditionsOf returns the conditions that are occurrences of p.
func (u *Unfolding) ConditionsOf(p *petri.Place) []*Condition {
	return u.p2cs[p.ID]
}

// EventsOf returns the events that are occurrences of t.
func (u *Unfolding) EventsOf(t *petri.Transition) []*Event {
	return u.t2es[t.ID]
}

// Cuts returns the admitted cuts in admission order. The safe variant only
// tracks the initial cut.
func (u *Unfolding) Cuts() []*Cut { return u.cuts }

// InitialCut returns the cut corresponding to the initial marking.
func (u *Unfolding) InitialCut() *Cut { return u.initialCut }

// CutoffEvents returns the cutoff events in detection order.
func (u *Unfolding) CutoffEvents() []*Event { return u.cutoffs }

// IsCutoff reports whether e is a cutoff event.
func (u *Unfolding) IsCutoff(e *Event) bool {
	_, ok := u.cutoff2corr[e.id]
	return ok
}

// CorrespondingEvent returns the smaller-configuration event witnessing the
// cutoff e, or nil if e is not a cutoff.
func (u *Unfolding) CorrespondingEvent(e *Event) *Event {
	return u.cutoff2corr[e.id]
}

// LimitReached reports whether construction stopped because the event cap
// was reached. This is informational, not an error.
func (u *Unfolding) LimitReached() bool { return u.limitReached }

// Err returns the terminal error of the run, if any. A prefix with a non-nil
// Err still satisfies all structural invariants.
func (u *Unfolding) Err() error { return u.err }
