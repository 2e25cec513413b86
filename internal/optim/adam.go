package optim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/dagnet-ml/dagnet/internal/dag"
	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// Adam implements the Adam optimizer (Kingma & Ba, 2014) with bias
// correction.
type Adam struct {
	backend tensor.Backend
	lr      float64
	beta1   float64
	beta2   float64
	eps     float64

	step int
	m    map[*dag.Param]*tensor.RawTensor // first moment
	v    map[*dag.Param]*tensor.RawTensor // second moment
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR    float64 // learning rate (default 0.001)
	Beta1 float64 // first moment decay (default 0.9)
	Beta2 float64 // second moment decay (default 0.999)
	Eps   float64 // numerical stabilizer (default 1e-8)
}

// NewAdam creates an Adam optimizer.
func NewAdam(backend tensor.Backend, cfg AdamConfig) *Adam {
	if cfg.LR == 0 {
		cfg.LR = 0.001
	}
	if cfg.Beta1 == 0 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = 0.999
	}
	if cfg.Eps == 0 {
		cfg.Eps = 1e-8
	}
	return &Adam{
		backend: backend,
		lr:      cfg.LR,
		beta1:   cfg.Beta1,
		beta2:   cfg.Beta2,
		eps:     cfg.Eps,
		m:       make(map[*dag.Param]*tensor.RawTensor),
		v:       make(map[*dag.Param]*tensor.RawTensor),
	}
}

// Step applies one Adam update.
func (a *Adam) Step(params []*dag.Param) error {
	a.step++
	b := a.backend
	bc1 := 1 - math.Pow(a.beta1, float64(a.step))
	bc2 := 1 - math.Pow(a.beta2, float64(a.step))

	for _, p := range params {
		if p.Der == nil {
			continue
		}
		if p.Value == nil {
			return errors.Errorf("parameter %q has a derivative but no value", p.Name)
		}
		g := p.Der

		m := a.m[p]
		if m == nil {
			m = b.MulScalar(g, 1-a.beta1)
		} else {
			m = b.Add(b.MulScalar(m, a.beta1), b.MulScalar(g, 1-a.beta1))
		}
		a.m[p] = m

		v := a.v[p]
		g2 := b.Mul(g, g)
		if v == nil {
			v = b.MulScalar(g2, 1-a.beta2)
		} else {
			v = b.Add(b.MulScalar(v, a.beta2), b.MulScalar(g2, 1-a.beta2))
		}
		a.v[p] = v

		mHat := b.MulScalar(m, 1/bc1)
		vHat := b.MulScalar(v, 1/bc2)
		update := b.Div(mHat, b.AddScalar(b.Sqrt(vHat), a.eps))
		p.Value = b.Sub(p.Value, b.MulScalar(update, a.lr))
	}
	return nil
}

// ZeroDer drops accumulated derivatives.
func (a *Adam) ZeroDer(params []*dag.Param) {
	zeroDer(params)
}
