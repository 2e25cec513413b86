package layers

import "github.com/dagnet-ml/dagnet/internal/tensor"

// Softmax normalizes along a dimension (the last one by default).
type Softmax struct {
	stateless
	Dim int
}

// NewSoftmax creates a softmax layer normalizing along dim (negative
// values count from the end).
func NewSoftmax(dim int) *Softmax { return &Softmax{Dim: dim} }

func (s *Softmax) Kind() string { return "softmax" }

func (s *Softmax) Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := checkArity(s.Kind(), "inputs", len(inputs), 1); err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{b.Softmax(inputs[0], s.Dim)}, nil
}

// Backward: with y = softmax(x), dx = y * (dy - sum(dy * y, dim)).
func (s *Softmax) Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) ([]*tensor.RawTensor, []*tensor.RawTensor, error) {
	if err := checkArity(s.Kind(), "output derivatives", len(derOutputs), 1); err != nil {
		return nil, nil, err
	}
	y := b.Softmax(inputs[0], s.Dim)
	dot := b.SumDim(b.Mul(derOutputs[0], y), s.Dim, true)
	dx := b.Mul(y, b.Sub(derOutputs[0], dot))
	return []*tensor.RawTensor{dx}, nil, nil
}
