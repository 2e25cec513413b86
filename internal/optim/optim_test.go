package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagnet-ml/dagnet/internal/backend/cpu"
	"github.com/dagnet-ml/dagnet/internal/dag"
	"github.com/dagnet-ml/dagnet/internal/tensor"
)

func param(t *testing.T, name string, value, der []float32) *dag.Param {
	t.Helper()
	p := &dag.Param{Name: name}
	var err error
	p.Value, err = tensor.FromFloat32(value, tensor.Shape{len(value)}, tensor.CPU)
	require.NoError(t, err)
	if der != nil {
		p.Der, err = tensor.FromFloat32(der, tensor.Shape{len(der)}, tensor.CPU)
		require.NoError(t, err)
	}
	return p
}

func TestSGD_Step(t *testing.T) {
	b := cpu.New()
	opt := NewSGD(b, SGDConfig{LR: 0.1})

	p := param(t, "w", []float32{1, 2}, []float32{10, -10})
	require.NoError(t, opt.Step([]*dag.Param{p}))
	assert.InDeltaSlice(t, []float32{0, 3}, p.Value.AsFloat32(), 1e-6)
}

func TestSGD_SkipsParamsWithoutDer(t *testing.T) {
	b := cpu.New()
	opt := NewSGD(b, SGDConfig{LR: 0.1})

	p := param(t, "w", []float32{1, 2}, nil)
	require.NoError(t, opt.Step([]*dag.Param{p}))
	assert.Equal(t, []float32{1, 2}, p.Value.AsFloat32())
}

func TestSGD_Momentum(t *testing.T) {
	b := cpu.New()
	opt := NewSGD(b, SGDConfig{LR: 1, Momentum: 0.5})

	p := param(t, "w", []float32{0}, []float32{1})
	require.NoError(t, opt.Step([]*dag.Param{p}))
	assert.InDelta(t, -1.0, float64(p.Value.AsFloat32()[0]), 1e-6)

	// Second step with the same gradient: velocity = 0.5*1 + 1 = 1.5.
	require.NoError(t, opt.Step([]*dag.Param{p}))
	assert.InDelta(t, -2.5, float64(p.Value.AsFloat32()[0]), 1e-6)
}

func TestSGD_WeightDecay(t *testing.T) {
	b := cpu.New()
	opt := NewSGD(b, SGDConfig{LR: 0.1, WeightDecay: 0.5})

	// g = 0 + 0.5 * 2 = 1, step = -0.1.
	p := param(t, "w", []float32{2}, []float32{0})
	require.NoError(t, opt.Step([]*dag.Param{p}))
	assert.InDelta(t, 1.9, float64(p.Value.AsFloat32()[0]), 1e-6)
}

func TestSGD_ErrorOnValuelessParam(t *testing.T) {
	b := cpu.New()
	opt := NewSGD(b, SGDConfig{})
	p := &dag.Param{Name: "ghost"}
	var err error
	p.Der, err = tensor.FromFloat32([]float32{1}, tensor.Shape{1}, tensor.CPU)
	require.NoError(t, err)
	assert.Error(t, opt.Step([]*dag.Param{p}))
}

func TestAdam_FirstStepMagnitude(t *testing.T) {
	b := cpu.New()
	opt := NewAdam(b, AdamConfig{LR: 0.1})

	// With bias correction the first Adam step is lr * sign(g) regardless
	// of gradient magnitude (eps aside).
	p := param(t, "w", []float32{1, 1}, []float32{100, -0.001})
	require.NoError(t, opt.Step([]*dag.Param{p}))
	got := p.Value.AsFloat32()
	assert.InDelta(t, 0.9, float64(got[0]), 1e-3)
	assert.InDelta(t, 1.1, float64(got[1]), 1e-3)
}

func TestAdam_ConvergesOnQuadratic(t *testing.T) {
	b := cpu.New()
	opt := NewAdam(b, AdamConfig{LR: 0.1})

	// Minimize f(w) = (w - 3)^2 by feeding its gradient 2(w - 3).
	p := param(t, "w", []float32{0}, nil)
	for i := 0; i < 200; i++ {
		w := p.Value.AsFloat32()[0]
		var err error
		p.Der, err = tensor.FromFloat32([]float32{2 * (w - 3)}, tensor.Shape{1}, tensor.CPU)
		require.NoError(t, err)
		require.NoError(t, opt.Step([]*dag.Param{p}))
	}
	assert.InDelta(t, 3.0, float64(p.Value.AsFloat32()[0]), 0.1)
}

func TestZeroDer(t *testing.T) {
	b := cpu.New()
	opt := NewSGD(b, SGDConfig{})
	p := param(t, "w", []float32{1}, []float32{2})
	opt.ZeroDer([]*dag.Param{p})
	assert.Nil(t, p.Der)
	assert.NotNil(t, p.Value)
}
