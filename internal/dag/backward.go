package dag

import (
	"time"

	"github.com/pkg/errors"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// backwardNode executes one node's backward step.
//
// A node with any output derivative absent is skipped entirely: none of
// its outputs were demanded by backpropagation, so it neither produces
// nor propagates a gradient. This is the documented mechanism for
// excluding auxiliary outputs (metrics) from the backward pass.
func (g *Graph) backwardNode(n *Node) (err error) {
	start := time.Now()
	defer func() {
		n.backwardTime += time.Since(start)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("layer %q: backward: %v", n.Name, r)
		}
	}()

	derOutputs := make([]*tensor.RawTensor, len(n.Outputs))
	for i, id := range n.Outputs {
		v := g.vars[id]
		if v.Der == nil {
			return nil // skip: output not demanded by backpropagation
		}
		derOutputs[i] = v.Der
	}

	inputs := make([]*tensor.RawTensor, len(n.Inputs))
	for i, id := range n.Inputs {
		inputs[i] = g.vars[id].Value
	}
	params := make([]*tensor.RawTensor, len(n.Params))
	for i, id := range n.Params {
		params[i] = g.params[id].Value
	}

	if g.conserveMemory {
		// This node is the sole producer of its outputs and the last
		// consumer of their derivatives; both buffers can go now.
		for _, id := range n.Outputs {
			v := g.vars[id]
			if v.Precious {
				continue
			}
			v.Value = nil
			v.Der = nil
		}
	}

	derInputs, derParams, err := n.Layer.Backward(g.backend, inputs, params, derOutputs)
	if err != nil {
		return errors.Wrapf(err, "layer %q: backward", n.Name)
	}
	if len(derInputs) != len(n.Inputs) {
		return errors.Errorf("layer %q: backward returned %d input derivatives, node declares %d inputs",
			n.Name, len(derInputs), len(n.Inputs))
	}
	if len(derParams) != len(n.Params) {
		return errors.Errorf("layer %q: backward returned %d parameter derivatives, node declares %d parameters",
			n.Name, len(derParams), len(n.Params))
	}

	// Apply input derivatives in declared slot order. The contribution
	// counter decides overwrite versus accumulate and MUST be incremented
	// after each applied contribution: the first contribution overwrites,
	// every later one (including a second slot of the same node) adds.
	for i, id := range n.Inputs {
		d := derInputs[i]
		if d == nil {
			continue
		}
		v := g.vars[id]
		if v.pendingRefs == 0 {
			v.Der = d
		} else {
			v.Der = g.backend.Add(v.Der, d)
		}
		v.pendingRefs++
	}

	for i, id := range n.Params {
		d := derParams[i]
		if d == nil {
			continue
		}
		p := g.params[id]
		if p.Der == nil || !g.paramDersAccumulate {
			p.Der = d
		} else {
			p.Der = g.backend.Add(p.Der, d)
		}
	}
	return nil
}
