// Package petrifile reads and writes net systems in a YAML format:
//
//	name: producer-consumer
//	places:
//	  buffer: {bound: 2, tokens: 1}
//	transitions: [produce, consume]
//	arcs:
//	  - {from: produce, to: buffer}
//	  - {from: buffer, to: consume}
package petrifile

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jt05610/unfold/petri"
)

type PlaceDef struct {
	Bound  int `yaml:"bound,omitempty"`
	Tokens int `yaml:"tokens,omitempty"`
}

type ArcDef struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type Petrifile struct {
	Name        string              `yaml:"name"`
	Places      map[string]PlaceDef `yaml:"places"`
	Transitions []string            `yaml:"transitions"`
	Arcs        []ArcDef            `yaml:"arcs"`
}

// System builds the net system the file describes.
func (f *Petrifile) System() (*petri.System, error) {
	net := petri.NewNet(f.Name)

	names := make([]string, 0, len(f.Places))
	for name := range f.Places {
		names = append(names, name)
	}
	sort.Strings(names)

	marking := petri.NewMarking()
	for _, name := range names {
		def := f.Places[name]
		bound := def.Bound
		if bound == 0 {
			bound = 1
		}
		p := petri.NewPlace(name, bound)
		net.WithPlaces(p)
		if def.Tokens > 0 {
			marking.Set(p, def.Tokens)
		}
	}
	for _, name := range f.Transitions {
		net.WithTransitions(petri.NewTransition(name))
	}
	for _, a := range f.Arcs {
		from := node(net, a.From)
		if from == nil {
			return nil, fmt.Errorf("unknown arc source %q", a.From)
		}
		to := node(net, a.To)
		if to == nil {
			return nil, fmt.Errorf("unknown arc destination %q", a.To)
		}
		if _, err := net.AddArc(from, to); err != nil {
			return nil, fmt.Errorf("arc %s -> %s: %w", a.From, a.To, err)
		}
	}
	return petri.NewSystem(net, marking), nil
}

func node(net *petri.Net, name string) petri.Node {
	if p := net.Place(name); p != nil {
		return p
	}
	if t := net.Transition(name); t != nil {
		return t
	}
	return nil
}

// Load decodes a net system from r.
func Load(r io.Reader) (*petri.System, error) {
	var f Petrifile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}
	return f.System()
}

// Save encodes sys to w.
func Save(w io.Writer, sys *petri.System) error {
	f := Petrifile{
		Name:   sys.Net.Name,
		Places: make(map[string]PlaceDef, len(sys.Net.Places)),
	}
	marking := sys.InitialMarking()
	for _, p := range sys.Net.Places {
		f.Places[p.Name] = PlaceDef{
			Bound:  p.Bound,
			Tokens: marking.Get(p),
		}
	}
	for _, t := range sys.Net.Transitions {
		f.Transitions = append(f.Transitions, t.Name)
	}
	for _, a := range sys.Net.Arcs {
		f.Arcs = append(f.Arcs, ArcDef{From: a.Src.String(), To: a.Dest.String()})
	}
	enc := yaml.NewEncoder(w)
	defer func() {
		_ = enc.Close()
	}()
	return enc.Encode(&f)
}
