package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagnet-ml/dagnet/internal/backend/cpu"
	"github.com/dagnet-ml/dagnet/internal/dag"
	"github.com/dagnet-ml/dagnet/internal/layers"
	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// TestTraining_LinearRegression fits y = 2x + 1 end to end: graph
// evaluation produces the parameter derivatives, the optimizer consumes
// them between evaluations.
func TestTraining_LinearRegression(t *testing.T) {
	backend := cpu.New()
	g, err := dag.NewBuilder(backend).
		AddInput("x", "target").
		AddLayer("fc", layers.NewLinear(1, 1, true), []string{"x"}, []string{"pred"}, []string{"w", "b"}).
		AddLayer("loss", layers.NewMSE(), []string{"pred", "target"}, []string{"objective"}, nil).
		Build()
	require.NoError(t, err)
	require.NoError(t, g.InitParams())
	g.SetConserveMemory(true)
	require.NoError(t, g.MarkPrecious("objective"))

	xs := []float32{-2, -1, 0, 1, 2, 3}
	ys := make([]float32, len(xs))
	for i, x := range xs {
		ys[i] = 2*x + 1
	}
	x, err := tensor.FromFloat32(xs, tensor.Shape{len(xs), 1}, tensor.CPU)
	require.NoError(t, err)
	target, err := tensor.FromFloat32(ys, tensor.Shape{len(ys), 1}, tensor.CPU)
	require.NoError(t, err)

	opt := NewSGD(backend, SGDConfig{LR: 0.05, Momentum: 0.9})
	var lastLoss float32
	for i := 0; i < 300; i++ {
		opt.ZeroDer(g.Params())
		require.NoError(t, g.Eval(
			[]dag.Binding{{Name: "x", Value: x}, {Name: "target", Value: target}},
			[]dag.Binding{{Name: "objective", Value: tensor.Scalar(1, tensor.CPU)}}))
		obj, _ := g.Var("objective")
		lastLoss = obj.Value.AsFloat32()[0]
		require.NoError(t, opt.Step(g.Params()))
	}
	assert.Less(t, float64(lastLoss), 1e-3)

	w, _ := g.Param("w")
	b, _ := g.Param("b")
	assert.InDelta(t, 2.0, float64(w.Value.AsFloat32()[0]), 0.05)
	assert.InDelta(t, 1.0, float64(b.Value.AsFloat32()[0]), 0.05)
}
