package unfold

// AdequateOrder is a strict well-founded partial order over local
// configurations. It must refine set inclusion: if lc ⊊ lc' then
// Smaller(lc, lc') holds.
type AdequateOrder interface {
	// Minimal returns an order-minimum of a nonempty set of events, compared
	// by their local configurations. Ties break on the first encountered.
	Minimal(events []*Event) *Event
	// Smaller reports whether a is strictly smaller than b.
	Smaller(a, b *LocalConfiguration) bool
}

func minimalBy(o AdequateOrder, events []*Event) *Event {
	if len(events) == 0 {
		return nil
	}
	best := events[0]
	for _, e := range events[1:] {
		if o.Smaller(e.lc, best.lc) {
			best = e
		}
	}
	return best
}

// SizeOrder orders configurations by cardinality. This is McMillan's
// original adequate order.
type SizeOrder struct{}

var _ AdequateOrder = (*SizeOrder)(nil)

func NewSizeOrder() *SizeOrder { return &SizeOrder{} }

func (o *SizeOrder) Minimal(events []*Event) *Event {
	return minimalBy(o, events)
}

func (o *SizeOrder) Smaller(a, b *LocalConfiguration) bool {
	return a.Size() < b.Size()
}

// ERVOrder is the Esparza-Römer-Vogler order: configurations compare first
// by cardinality, then by their Parikh vectors under a fixed total order on
// the transitions of the originative net.
type ERVOrder struct {
	index map[string]int
	n     int
}

var _ AdequateOrder = (*ERVOrder)(nil)

func NewERVOrder(sys System) *ERVOrder {
	ts := sys.Transitions()
	index := make(map[string]int, len(ts))
	for i, t := range ts {
		index[t.ID] = i
	}
	return &ERVOrder{index: index, n: len(ts)}
}

func (o *ERVOrder) Minimal(events []*Event) *Event {
	return minimalBy(o, events)
}

func (o *ERVOrder) Smaller(a, b *LocalConfiguration) bool {
	if a.Size() != b.Size() {
		return a.Size() < b.Size()
	}
	va, vb := o.parikh(a), o.parikh(b)
	for i := 0; i < o.n; i++ {
		if va[i] != vb[i] {
			// the configuration with more occurrences of the smaller
			// transition precedes lexicographically
			return va[i] > vb[i]
		}
	}
	return false
}

func (o *ERVOrder) parikh(lc *LocalConfiguration) []int {
	v := make([]int, o.n)
	for _, e := range lc.events {
		v[o.index[e.transition.ID]]++
	}
	return v
}
