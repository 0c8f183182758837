package graphviz

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/jt05610/unfold"
	"github.com/jt05610/unfold/petri"
)

// Writer renders an occurrence net: circles for conditions, boxes for
// events, cutoff events filled orange with a dashed orange edge to their
// corresponding event.
type Writer struct {
	*Config
	g       *cgraph.Graph
	mapping map[string]*cgraph.Node
}

func (w *Writer) writeCondition(i int, p *petri.Place) error {
	node, err := w.g.CreateNode(fmt.Sprintf("c%d", i))
	if err != nil {
		return err
	}
	node.SetShape(cgraph.CircleShape)
	node.SetLabel(p.Name)
	node.Set("fontname", string(w.Font))
	w.mapping[p.ID] = node
	return nil
}

func (w *Writer) writeEvent(i int, t *petri.Transition, cutoff bool) error {
	node, err := w.g.CreateNode(fmt.Sprintf("e%d", i))
	if err != nil {
		return err
	}
	node.SetShape(cgraph.BoxShape)
	node.SetLabel(t.Name)
	node.Set("fontname", string(w.Font))
	if cutoff {
		node.SetStyle(cgraph.FilledNodeStyle)
		node.SetFillColor("orange")
	}
	w.mapping[t.ID] = node
	return nil
}

// Flush writes the rendered occurrence net to out.
func (w *Writer) Flush(out io.Writer, on *unfold.OccurrenceNet) error {
	graph := graphviz.New()
	defer func() {
		_ = graph.Close()
	}()
	g, err := graph.Graph()
	if err != nil {
		return err
	}
	g.SetRankDir(cgraph.RankDir(w.RankDir))
	w.g = g
	w.mapping = make(map[string]*cgraph.Node)

	net := on.Net()
	for i, p := range net.Places {
		if err := w.writeCondition(i, p); err != nil {
			return err
		}
	}
	for i, t := range net.Transitions {
		if err := w.writeEvent(i, t, on.IsCutoff(t)); err != nil {
			return err
		}
	}
	for i, a := range net.Arcs {
		src := w.mapping[a.Src.Identifier()]
		dst := w.mapping[a.Dest.Identifier()]
		if _, err := w.g.CreateEdge(fmt.Sprintf("a%d", i), src, dst); err != nil {
			return err
		}
	}
	for i, t := range on.CutoffEvents() {
		corr := on.CorrespondingEvent(t)
		if corr == nil {
			continue
		}
		edge, err := w.g.CreateEdge(fmt.Sprintf("x%d", i), w.mapping[t.ID], w.mapping[corr.ID])
		if err != nil {
			return err
		}
		edge.SetStyle(cgraph.DashedEdgeStyle)
		edge.SetColor("orange")
	}

	format := w.Format
	if format == "" {
		format = DOT
	}
	return graph.Render(g, graphviz.Format(format), out)
}

type Font string

const (
	Helvetica Font = "Helvetica"
	Arial     Font = "Arial"
	SansSerif Font = "sans-serif"
)

type RankDir string

const (
	LeftToRight RankDir = "LR"
	RightToLeft RankDir = "RL"
	TopToBottom RankDir = "TB"
	BottomToTop RankDir = "BT"
)

type Format string

const (
	DOT Format = Format(graphviz.XDOT)
	SVG Format = Format(graphviz.SVG)
	PNG Format = Format(graphviz.PNG)
)

type Config struct {
	Name string
	Font
	RankDir
	Format
}

func New(config *Config) *Writer {
	if config.Name == "" {
		config.Name = "unfolding"
	}
	if config.Font == "" {
		config.Font = Helvetica
	}
	if config.RankDir == "" {
		config.RankDir = LeftToRight
	}
	return &Writer{
		Config:  config,
		mapping: make(map[string]*cgraph.Node),
	}
}
