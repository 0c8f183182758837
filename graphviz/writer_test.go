package graphviz_test

import (
	"bytes"
	"testing"

	"github.com/jt05610/unfold"
	"github.com/jt05610/unfold/graphviz"
	"github.com/jt05610/unfold/petri"
)

func cycleUnfolding(t *testing.T) *unfold.Unfolding {
	t.Helper()
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
		t.Fatal(err)
	}
	return u
}

func TestWriter_Flush(t *testing.T) {
	u := cycleUnfolding(t)
	on := u.OccurrenceNet()
	if len(on.CutoffEvents()) == 0 {
		t.Fatal("the cycle should produce a cutoff to draw")
	}
	cfg := &graphviz.Config{
		Font:    graphviz.Helvetica,
		RankDir: graphviz.LeftToRight,
		Format:  graphviz.DOT,
	}
	w := graphviz.New(cfg)
	var buf bytes.Buffer
	if err := w.Flush(&buf, on); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("the writer should emit a graph")
	}
}
