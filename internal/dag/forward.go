package dag

import (
	"time"

	"github.com/pkg/errors"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// forwardNode executes one node's forward step.
//
// Input values are gathered before reclamation so the layer still sees
// them after the store's reference is dropped. Reclamation runs only when
// no backward pass will follow: the backward drivers need the forward
// values, and reclaim outputs themselves as they retire.
func (g *Graph) forwardNode(n *Node) (err error) {
	start := time.Now()
	defer func() {
		n.forwardTime += time.Since(start)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("layer %q: forward: %v", n.Name, r)
		}
	}()

	inputs := make([]*tensor.RawTensor, len(n.Inputs))
	for i, id := range n.Inputs {
		v := g.vars[id]
		if v.Value == nil {
			return errors.Errorf("layer %q: input variable %q holds no value", n.Name, v.Name)
		}
		inputs[i] = v.Value
	}
	params := make([]*tensor.RawTensor, len(n.Params))
	for i, id := range n.Params {
		p := g.params[id]
		if p.Value == nil {
			return errors.Errorf("layer %q: parameter %q is uninitialized", n.Name, p.Name)
		}
		params[i] = p.Value
	}

	if !g.computingDerivative && g.conserveMemory {
		// One decrement per input occurrence: a node listing the same
		// variable twice consumes two of its pending references.
		for _, id := range n.Inputs {
			v := g.vars[id]
			if v.Precious {
				continue
			}
			v.pendingRefs--
			if v.pendingRefs == 0 {
				v.Value = nil
			}
		}
	}

	outputs, err := n.Layer.Forward(g.backend, inputs, params)
	if err != nil {
		return errors.Wrapf(err, "layer %q: forward", n.Name)
	}
	if len(outputs) != len(n.Outputs) {
		return errors.Errorf("layer %q: forward returned %d outputs, node declares %d",
			n.Name, len(outputs), len(n.Outputs))
	}

	// Overwrite is safe: every variable has a single producing node.
	for i, id := range n.Outputs {
		g.vars[id].Value = outputs[i]
	}
	return nil
}
