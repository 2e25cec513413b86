package dag

import (
	"github.com/pkg/errors"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// Builder assembles a Graph from layers declared in topological order.
// It interns variables and parameters by name, computes per-variable
// fanout, and validates the single-producer invariant. Layers must be
// added so that every input is either a declared graph input or the
// output of an earlier layer.
type Builder struct {
	backend tensor.Backend
	inputs  map[string]bool
	layers  []builderLayer
}

type builderLayer struct {
	name    string
	layer   Layer
	inputs  []string
	outputs []string
	params  []string
}

// NewBuilder creates a Builder targeting the given backend.
func NewBuilder(backend tensor.Backend) *Builder {
	return &Builder{
		backend: backend,
		inputs:  make(map[string]bool),
	}
}

// AddInput declares graph input variables (bound by Eval, or constants
// set directly on the variable store before evaluation).
func (b *Builder) AddInput(names ...string) *Builder {
	for _, n := range names {
		b.inputs[n] = true
	}
	return b
}

// AddLayer appends a layer reading the named input variables and writing
// the named outputs, bound to the named parameters. The same variable may
// appear more than once as an input; each occurrence counts toward fanout.
func (b *Builder) AddLayer(name string, layer Layer, inputs, outputs, params []string) *Builder {
	b.layers = append(b.layers, builderLayer{
		name:    name,
		layer:   layer,
		inputs:  inputs,
		outputs: outputs,
		params:  params,
	})
	return b
}

// Build validates the declarations and produces an executable Graph.
func (b *Builder) Build() (*Graph, error) {
	g := &Graph{
		backend:    b.backend,
		varIndex:   make(map[string]int),
		paramIndex: make(map[string]int),
	}

	internVar := func(name string) int {
		if i, ok := g.varIndex[name]; ok {
			return i
		}
		i := len(g.vars)
		g.vars = append(g.vars, &Variable{Name: name})
		g.varIndex[name] = i
		return i
	}
	internParam := func(name string) int {
		if i, ok := g.paramIndex[name]; ok {
			return i
		}
		i := len(g.params)
		g.params = append(g.params, &Param{Name: name})
		g.paramIndex[name] = i
		return i
	}

	for name := range b.inputs {
		internVar(name)
	}

	seenNodes := make(map[string]bool)
	producer := make(map[string]string) // variable name -> producing node
	produced := make(map[string]bool)

	for _, bl := range b.layers {
		if bl.name == "" {
			return nil, errors.New("layer with empty name")
		}
		if seenNodes[bl.name] {
			return nil, errors.Errorf("duplicate layer name %q", bl.name)
		}
		seenNodes[bl.name] = true
		if len(bl.outputs) == 0 {
			return nil, errors.Errorf("layer %q declares no outputs", bl.name)
		}

		n := &Node{Name: bl.name, Layer: bl.layer}
		for _, in := range bl.inputs {
			if !b.inputs[in] && !produced[in] {
				return nil, errors.Errorf("layer %q: input %q is neither a graph input nor produced by an earlier layer",
					bl.name, in)
			}
			id := internVar(in)
			n.Inputs = append(n.Inputs, id)
			g.vars[id].Fanout++
		}
		for _, out := range bl.outputs {
			if prev, ok := producer[out]; ok {
				return nil, errors.Errorf("variable %q produced by both %q and %q", out, prev, bl.name)
			}
			if b.inputs[out] {
				return nil, errors.Errorf("variable %q is both a graph input and an output of %q", out, bl.name)
			}
			producer[out] = bl.name
			produced[out] = true
			n.Outputs = append(n.Outputs, internVar(out))
		}
		for _, p := range bl.params {
			n.Params = append(n.Params, internParam(p))
		}
		g.nodes = append(g.nodes, n)
	}

	return g, nil
}
