// Package analysis provides marking-level analyses of place/transition nets:
// incidence matrices, state-equation reachability, and bounded exploration
// of the marking graph.
package analysis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jt05610/unfold/petri"
)

type Net struct {
	*petri.Net
}

func New(n *petri.Net) *Net {
	return &Net{Net: n}
}

func (n *Net) FiringVector(t int) *mat.Dense {
	v := make([]float64, len(n.Transitions))
	v[t] = 1
	return mat.NewDense(1, len(n.Transitions), v)
}

func (n *Net) arcNet(t *petri.Transition, p *petri.Place) float64 {
	ret := float64(0)
	if n.Arc(t, p) != nil {
		ret++
	}
	if n.Arc(p, t) != nil {
		ret--
	}
	return ret
}

// Incidence returns the |T| x |P| incidence matrix of the net.
func (n *Net) Incidence() *mat.Dense {
	m := len(n.Places)
	k := len(n.Transitions)
	d := make([]float64, m*k)
	for i, trans := range n.Transitions {
		for j, place := range n.Places {
			d[i*m+j] = n.arcNet(trans, place)
		}
	}
	return mat.NewDense(k, m, d)
}

func (n *Net) vector(m petri.Marking) *mat.Dense {
	v := make([]float64, len(n.Places))
	for i, p := range n.Places {
		v[i] = float64(m.Get(p))
	}
	return mat.NewDense(1, len(n.Places), v)
}

// Reachable checks the state-equation condition for reaching target from
// initial: a nonnegative firing-count solution must exist. This is a
// necessary condition only; use Explore for an exact answer on bounded nets.
func (n *Net) Reachable(initial, target petri.Marking) bool {
	in := n.vector(initial)
	res := n.vector(target)
	res.Sub(res, in)
	inc := n.Incidence()
	var sol mat.Dense
	if err := sol.Solve(inc.T(), res.T()); err != nil {
		return false
	}
	for i := range n.Transitions {
		if sol.At(i, 0) < -1e-9 {
			return false
		}
	}
	return true
}

// Explore walks the marking graph of sys breadth-first and returns the
// markings it reaches. It stops expanding once at least limit markings have
// been collected, so the result may hold a few more than limit. Place bounds
// cap the walk on unbounded nets.
func Explore(sys *petri.System, limit int) []petri.Marking {
	initial := sys.InitialMarking()
	seen := map[string]bool{initial.Key(): true}
	result := []petri.Marking{initial}
	queue := []petri.Marking{initial}
	for len(queue) > 0 && len(result) < limit {
		m := queue[0]
		queue = queue[1:]
		for _, t := range sys.Net.Available(m) {
			next, err := sys.Net.Fire(m, t)
			if err != nil {
				continue
			}
			if seen[next.Key()] {
				continue
			}
			seen[next.Key()] = true
			result = append(result, next)
			queue = append(queue, next)
		}
	}
	return result
}
