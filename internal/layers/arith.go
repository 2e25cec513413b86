package layers

import (
	"github.com/pkg/errors"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// Scale multiplies its input by a fixed factor.
type Scale struct {
	stateless
	Factor float64
}

// NewScale creates a fixed-factor scaling layer.
func NewScale(factor float64) *Scale { return &Scale{Factor: factor} }

func (s *Scale) Kind() string { return "scale" }

func (s *Scale) Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := checkArity(s.Kind(), "inputs", len(inputs), 1); err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{b.MulScalar(inputs[0], s.Factor)}, nil
}

func (s *Scale) Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) ([]*tensor.RawTensor, []*tensor.RawTensor, error) {
	if err := checkArity(s.Kind(), "output derivatives", len(derOutputs), 1); err != nil {
		return nil, nil, err
	}
	return []*tensor.RawTensor{b.MulScalar(derOutputs[0], s.Factor)}, nil, nil
}

// Sum adds its inputs element-wise. Listing the same variable for several
// slots is allowed; the engine accumulates one derivative per slot.
type Sum struct {
	stateless
	Arity int
}

// NewSum creates an n-ary element-wise addition layer.
func NewSum(arity int) *Sum { return &Sum{Arity: arity} }

func (s *Sum) Kind() string { return "sum" }

func (s *Sum) Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := checkArity(s.Kind(), "inputs", len(inputs), s.Arity); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, errors.New("sum: no inputs")
	}
	if len(inputs) == 1 {
		return []*tensor.RawTensor{inputs[0]}, nil
	}
	out := b.Add(inputs[0], inputs[1])
	for _, in := range inputs[2:] {
		out = b.Add(out, in)
	}
	return []*tensor.RawTensor{out}, nil
}

// Backward passes the output derivative through to every input slot.
func (s *Sum) Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) ([]*tensor.RawTensor, []*tensor.RawTensor, error) {
	if err := checkArity(s.Kind(), "output derivatives", len(derOutputs), 1); err != nil {
		return nil, nil, err
	}
	derInputs := make([]*tensor.RawTensor, len(inputs))
	for i := range derInputs {
		derInputs[i] = derOutputs[0]
	}
	return derInputs, nil, nil
}
