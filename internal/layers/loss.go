package layers

import "github.com/dagnet-ml/dagnet/internal/tensor"

// MSE computes the mean squared error between a prediction and a target:
// y = mean((pred - target)^2), a one-element output.
type MSE struct {
	stateless
}

// NewMSE creates a mean-squared-error loss layer.
func NewMSE() *MSE { return &MSE{} }

func (m *MSE) Kind() string { return "mse" }

func (m *MSE) Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := checkArity(m.Kind(), "inputs", len(inputs), 2); err != nil {
		return nil, err
	}
	diff := b.Sub(inputs[0], inputs[1])
	n := float64(inputs[0].NumElements())
	loss := b.MulScalar(b.Sum(b.Mul(diff, diff)), 1/n)
	return []*tensor.RawTensor{loss}, nil
}

// Backward: dPred = dy * 2/n * (pred - target), dTarget = -dPred.
// dy is the one-element objective weight and broadcasts.
func (m *MSE) Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) ([]*tensor.RawTensor, []*tensor.RawTensor, error) {
	if err := checkArity(m.Kind(), "output derivatives", len(derOutputs), 1); err != nil {
		return nil, nil, err
	}
	diff := b.Sub(inputs[0], inputs[1])
	n := float64(inputs[0].NumElements())
	dPred := b.MulScalar(b.Mul(diff, derOutputs[0]), 2/n)
	dTarget := b.MulScalar(dPred, -1)
	return []*tensor.RawTensor{dPred, dTarget}, nil, nil
}
