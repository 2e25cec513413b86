package layers

import (
	"math/rand"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// Linear is a fully connected layer: y = x @ W (+ b).
//
// Input shape:  [batch, in]
// Weight shape: [in, out]
// Bias shape:   [out]
// Output shape: [batch, out]
//
// With bias the layer binds two parameters (weight, bias); without it,
// one.
type Linear struct {
	In   int
	Out  int
	Bias bool
	Seed int64 // initialization seed; 0 means a fixed default
}

// NewLinear creates a fully connected layer.
func NewLinear(in, out int, bias bool) *Linear {
	return &Linear{In: in, Out: out, Bias: bias}
}

// Kind returns the config registry tag.
func (l *Linear) Kind() string { return "linear" }

// Forward computes y = x @ W (+ b).
func (l *Linear) Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := checkArity(l.Kind(), "inputs", len(inputs), 1); err != nil {
		return nil, err
	}
	if err := checkArity(l.Kind(), "parameters", len(params), l.numParams()); err != nil {
		return nil, err
	}
	y := b.MatMul(inputs[0], params[0])
	if l.Bias {
		y = b.Add(y, params[1])
	}
	return []*tensor.RawTensor{y}, nil
}

// Backward computes dX = dY @ W^T, dW = X^T @ dY and dB = sum_batch(dY).
func (l *Linear) Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) ([]*tensor.RawTensor, []*tensor.RawTensor, error) {
	if err := checkArity(l.Kind(), "output derivatives", len(derOutputs), 1); err != nil {
		return nil, nil, err
	}
	dy := derOutputs[0]
	dx := b.MatMul(dy, b.Transpose(params[0]))
	dw := b.MatMul(b.Transpose(inputs[0]), dy)
	derParams := []*tensor.RawTensor{dw}
	if l.Bias {
		derParams = append(derParams, b.SumDim(dy, 0, false))
	}
	return []*tensor.RawTensor{dx}, derParams, nil
}

// InitParams produces a Xavier-initialized weight and a zero bias.
func (l *Linear) InitParams(tensor.Backend) ([]*tensor.RawTensor, error) {
	seed := l.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))
	w, err := xavierUniform(rng, l.In, l.Out, tensor.Shape{l.In, l.Out})
	if err != nil {
		return nil, err
	}
	if !l.Bias {
		return []*tensor.RawTensor{w}, nil
	}
	bias, err := tensor.Zeros(tensor.Shape{l.Out}, tensor.Float32, tensor.CPU)
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{w, bias}, nil
}

// Reset is a no-op: Linear keeps no transient state.
func (l *Linear) Reset() {}

// Move is a no-op: Linear keeps no auxiliary buffers.
func (l *Linear) Move(tensor.Device) {}

func (l *Linear) numParams() int {
	if l.Bias {
		return 2
	}
	return 1
}
