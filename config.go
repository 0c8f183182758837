package unfold

import (
	"math"

	"go.uber.org/zap"
)

// Extender is an extension point invoked by the engine. The defaults change
// nothing: no extra possible extensions, every detected correspondence kept.
type Extender interface {
	// PossibleExtensions returns additional candidate events given the ones
	// the engine computed.
	PossibleExtensions(u *Unfolding, pe []*Event) []*Event
	// CheckCutoff may veto (return nil) or replace the corresponding event
	// of a detected cutoff.
	CheckCutoff(u *Unfolding, cutoff, corr *Event) *Event
}

// NopExtender is the default Extender.
type NopExtender struct{}

var _ Extender = (*NopExtender)(nil)

func (NopExtender) PossibleExtensions(*Unfolding, []*Event) []*Event { return nil }

func (NopExtender) CheckCutoff(_ *Unfolding, _, corr *Event) *Event { return corr }

// Setup configures an unfolding run.
type Setup struct {
	// MaxEvents is the absolute cap on events in the prefix. When reached the
	// engine terminates with what is built.
	MaxEvents int
	// MaxBound is the per-place multiplicity cap inside any cut. Exceeding it
	// terminates the run.
	MaxBound int
	// SafeOptimization selects the construction restricted to safe
	// (1-bounded) systems, which computes co-sets on demand instead of
	// enumerating cuts.
	SafeOptimization bool
	// Order is the adequate order used to pick extensions and declare
	// cutoffs. Defaults to the ERV order over the system's transitions.
	Order AdequateOrder
	// Extensions hooks into possible-extension and cutoff computation.
	Extensions Extender
	// Logger receives debug traces of the construction.
	Logger *zap.Logger
}

func DefaultSetup() *Setup {
	return &Setup{
		MaxEvents: math.MaxInt,
		MaxBound:  1,
	}
}

func (s *Setup) normalize(sys System) *Setup {
	cp := *s
	if cp.MaxEvents <= 0 {
		cp.MaxEvents = math.MaxInt
	}
	if cp.MaxBound <= 0 {
		cp.MaxBound = 1
	}
	if cp.Order == nil {
		cp.Order = NewERVOrder(sys)
	}
	if cp.Extensions == nil {
		cp.Extensions = NopExtender{}
	}
	if cp.Logger == nil {
		cp.Logger = zap.NewNop()
	}
	return &cp
}
