package optim

import (
	"github.com/pkg/errors"

	"github.com/dagnet-ml/dagnet/internal/dag"
	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// SGD implements stochastic gradient descent with optional momentum and
// weight decay.
//
// Update rule:
//
//	g = der + weightDecay * value
//	velocity = momentum * velocity + g
//	value = value - lr * velocity
type SGD struct {
	backend     tensor.Backend
	lr          float64
	momentum    float64
	weightDecay float64
	velocities  map[*dag.Param]*tensor.RawTensor
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR          float64 // learning rate (default 0.01)
	Momentum    float64 // momentum factor in [0, 1)
	WeightDecay float64 // L2 penalty coefficient
}

// NewSGD creates an SGD optimizer.
func NewSGD(backend tensor.Backend, cfg SGDConfig) *SGD {
	if cfg.LR == 0 {
		cfg.LR = 0.01
	}
	return &SGD{
		backend:     backend,
		lr:          cfg.LR,
		momentum:    cfg.Momentum,
		weightDecay: cfg.WeightDecay,
		velocities:  make(map[*dag.Param]*tensor.RawTensor),
	}
}

// Step applies one SGD update.
func (s *SGD) Step(params []*dag.Param) error {
	for _, p := range params {
		if p.Der == nil {
			continue
		}
		if p.Value == nil {
			return errors.Errorf("parameter %q has a derivative but no value", p.Name)
		}
		g := p.Der
		if s.weightDecay != 0 {
			g = s.backend.Add(g, s.backend.MulScalar(p.Value, s.weightDecay))
		}
		if s.momentum != 0 {
			if v, ok := s.velocities[p]; ok {
				g = s.backend.Add(s.backend.MulScalar(v, s.momentum), g)
			}
			s.velocities[p] = g
		}
		p.Value = s.backend.Sub(p.Value, s.backend.MulScalar(g, s.lr))
	}
	return nil
}

// ZeroDer drops accumulated derivatives.
func (s *SGD) ZeroDer(params []*dag.Param) {
	zeroDer(params)
}
