package dag

import (
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// Graph is an evaluator-owned computation graph: an ordered sequence of
// nodes in topological order, the variable and parameter stores, and the
// engine flags. The graph exclusively owns every value and derivative
// buffer; evaluation is single-threaded and mutates the stores in place.
type Graph struct {
	nodes      []*Node
	vars       []*Variable
	varIndex   map[string]int
	params     []*Param
	paramIndex map[string]int

	backend tensor.Backend

	conserveMemory      bool
	computingDerivative bool
	paramDersAccumulate bool
}

// Binding pairs a variable name with a value (an input value for the
// forward pass, or a derivative seed for the backward pass).
type Binding struct {
	Name  string
	Value *tensor.RawTensor
}

// Backend returns the compute backend evaluating this graph.
func (g *Graph) Backend() tensor.Backend {
	return g.backend
}

// Device returns the device bound input values are materialized on.
func (g *Graph) Device() tensor.Device {
	return g.backend.Device()
}

// Nodes returns the graph's nodes in topological order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Var looks up a variable by name.
func (g *Graph) Var(name string) (*Variable, bool) {
	i, ok := g.varIndex[name]
	if !ok {
		return nil, false
	}
	return g.vars[i], true
}

// Param looks up a parameter by name.
func (g *Graph) Param(name string) (*Param, bool) {
	i, ok := g.paramIndex[name]
	if !ok {
		return nil, false
	}
	return g.params[i], true
}

// Params returns all parameters, in registration order.
func (g *Graph) Params() []*Param {
	return g.params
}

// SetConserveMemory controls whether intermediate buffers are released as
// soon as no consumer needs them.
func (g *Graph) SetConserveMemory(on bool) {
	g.conserveMemory = on
}

// SetParamDersAccumulate controls whether parameter derivatives accumulate
// across backward steps instead of being overwritten.
func (g *Graph) SetParamDersAccumulate(on bool) {
	g.paramDersAccumulate = on
}

// MarkPrecious protects the named variables from memory conservation.
func (g *Graph) MarkPrecious(names ...string) error {
	for _, name := range names {
		i, ok := g.varIndex[name]
		if !ok {
			return errors.Errorf("unknown variable %q", name)
		}
		g.vars[i].Precious = true
	}
	return nil
}

// InitParams asks every layer for initial parameter values and fills in
// parameters that do not yet hold one. Parameters shared between nodes
// keep the first initialization.
func (g *Graph) InitParams() error {
	for _, n := range g.nodes {
		vals, err := n.Layer.InitParams(g.backend)
		if err != nil {
			return errors.Wrapf(err, "layer %q: init", n.Name)
		}
		if len(vals) != len(n.Params) {
			return errors.Errorf("layer %q: init produced %d values, node declares %d parameters",
				n.Name, len(vals), len(n.Params))
		}
		for i, id := range n.Params {
			p := g.params[id]
			if p.Value == nil {
				p.Value = g.backend.Place(vals[i])
			}
		}
	}
	return nil
}

// ResetLayers clears layer-internal transient state on every layer.
func (g *Graph) ResetLayers() {
	for _, n := range g.nodes {
		n.Layer.Reset()
	}
}

// Move relocates parameter values and populated variable buffers to the
// given device and tells each layer to move its auxiliary buffers.
func (g *Graph) Move(device tensor.Device) {
	for _, p := range g.params {
		if p.Value != nil {
			p.Value = p.Value.CloneTo(device)
		}
		if p.Der != nil {
			p.Der = p.Der.CloneTo(device)
		}
	}
	for _, v := range g.vars {
		if v.Value != nil {
			v.Value = v.Value.CloneTo(device)
		}
		if v.Der != nil {
			v.Der = v.Der.CloneTo(device)
		}
	}
	for _, n := range g.nodes {
		n.Layer.Move(device)
	}
}

// Stats returns per-node cumulative forward/backward timings.
func (g *Graph) Stats() []NodeStats {
	stats := make([]NodeStats, len(g.nodes))
	for i, n := range g.nodes {
		stats[i] = NodeStats{Name: n.Name, Forward: n.forwardTime, Backward: n.backwardTime}
	}
	return stats
}

// Eval runs a forward pass and, when derivative bindings are supplied, a
// backward pass.
//
// All binding names are resolved before any store mutation, so an unknown
// name fails with the stores untouched. After any mid-pass error the
// stores are partially mutated and must not be trusted; callers must not
// resume and should start a fresh Eval.
//
// Supplying several outputs each with its own derivative weight
// backpropagates the weighted sum of those outputs: accumulation sums all
// contributions reaching any shared upstream variable. Outputs without a
// binding keep an absent derivative and are excluded from backpropagation.
func (g *Graph) Eval(inputs []Binding, derOutputs []Binding) error {
	// Phase 0: atomic name resolution.
	inputIDs := make([]int, len(inputs))
	for i, b := range inputs {
		id, ok := g.varIndex[b.Name]
		if !ok {
			return errors.Errorf("bind input: unknown variable %q", b.Name)
		}
		inputIDs[i] = id
	}
	derIDs := make([]int, len(derOutputs))
	for i, b := range derOutputs {
		id, ok := g.varIndex[b.Name]
		if !ok {
			return errors.Errorf("bind derivative: unknown variable %q", b.Name)
		}
		derIDs[i] = id
	}

	// Phase 1: bind inputs, materialized on the configured device.
	for i, b := range inputs {
		g.vars[inputIDs[i]].Value = g.backend.Place(b.Value)
	}

	// Phase 2: forward pass.
	g.computingDerivative = len(derOutputs) > 0
	for _, v := range g.vars {
		v.pendingRefs = v.Fanout
	}
	start := time.Now()
	for _, n := range g.nodes {
		if err := g.forwardNode(n); err != nil {
			return err
		}
	}
	klog.V(1).Infof("forward pass: %d nodes in %s", len(g.nodes), time.Since(start))

	if !g.computingDerivative {
		return nil
	}

	// Phase 3: backward pass. Derivatives are cleared store-wide first so
	// that only seeded outputs (and what they reach) carry gradients.
	for _, v := range g.vars {
		v.Der = nil
		v.pendingRefs = 0
	}
	for i, b := range derOutputs {
		v := g.vars[derIDs[i]]
		seed, err := g.seedDerivative(v, b.Value)
		if err != nil {
			return errors.Wrapf(err, "bind derivative %q", b.Name)
		}
		v.Der = seed
	}
	start = time.Now()
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if err := g.backwardNode(g.nodes[i]); err != nil {
			return err
		}
	}
	klog.V(1).Infof("backward pass: %d nodes in %s", len(g.nodes), time.Since(start))
	return nil
}

// seedDerivative places a bound output derivative on the device. A
// one-element binding against a larger output acts as a scalar objective
// weight and is expanded to the output's shape.
func (g *Graph) seedDerivative(v *Variable, der *tensor.RawTensor) (*tensor.RawTensor, error) {
	if der == nil {
		return nil, errors.New("nil derivative value")
	}
	if der.NumElements() == 1 && v.Value != nil && v.Value.NumElements() > 1 {
		var w float64
		switch der.DType() {
		case tensor.Float32:
			w = float64(der.AsFloat32()[0])
		case tensor.Float64:
			w = der.AsFloat64()[0]
		default:
			return nil, errors.Errorf("scalar weight must be float32 or float64, got %s", der.DType())
		}
		full, err := tensor.Full(v.Value.Shape(), w, v.Value.DType(), tensor.CPU)
		if err != nil {
			return nil, err
		}
		return g.backend.Place(full), nil
	}
	if v.Value != nil && !der.Shape().Equal(v.Value.Shape()) && der.NumElements() != v.Value.NumElements() {
		return nil, errors.Errorf("derivative shape %v does not match value shape %v",
			der.Shape(), v.Value.Shape())
	}
	return g.backend.Place(der), nil
}
