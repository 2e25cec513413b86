// Package optim provides optimizers updating graph parameters from the
// derivatives accumulated by a backward pass. The engine leaves parameter
// derivatives in the parameter store; an optimizer consumes them between
// evaluations.
package optim

import "github.com/dagnet-ml/dagnet/internal/dag"

// Optimizer updates parameter values from their accumulated derivatives.
type Optimizer interface {
	// Step applies one update to every parameter holding a derivative.
	// Parameters without a derivative (for example upstream of a skipped
	// node) are left untouched.
	Step(params []*dag.Param) error

	// ZeroDer drops accumulated derivatives before the next evaluation.
	ZeroDer(params []*dag.Param)
}

// zeroDer is shared by all optimizers.
func zeroDer(params []*dag.Param) {
	for _, p := range params {
		p.Der = nil
	}
}
