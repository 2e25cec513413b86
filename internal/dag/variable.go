// Package dag implements the execution engine for directed-acyclic-graph
// neural computations: the variable and parameter stores, the per-node
// forward and backward drivers, and the two-phase graph evaluator.
package dag

import "github.com/dagnet-ml/dagnet/internal/tensor"

// Variable is a named slot holding a value and, during backward, an
// accumulated derivative.
//
// Fanout is the number of (node, input-slot) occurrences reading this
// variable. It is fixed when the graph is built and never recomputed
// mid-pass; the engine's memory reclamation depends on it being exact.
type Variable struct {
	Name     string
	Value    *tensor.RawTensor
	Der      *tensor.RawTensor
	Fanout   int
	Precious bool

	// pendingRefs is repurposed per pass. During forward it counts down
	// from Fanout; reaching zero releases Value unless Precious. During
	// backward it counts derivative contributions up from zero: the first
	// contribution overwrites Der, later ones accumulate.
	pendingRefs int
}

// PendingRefs exposes the pass-local counter for tests and diagnostics.
func (v *Variable) PendingRefs() int {
	return v.pendingRefs
}

// Param is a named trainable parameter with a value and a derivative
// accumulated across one backward pass.
type Param struct {
	Name  string
	Value *tensor.RawTensor
	Der   *tensor.RawTensor
}
