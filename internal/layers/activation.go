package layers

import "github.com/dagnet-ml/dagnet/internal/tensor"

// ReLU applies max(0, x) element-wise.
type ReLU struct {
	stateless
}

// NewReLU creates a ReLU activation layer.
func NewReLU() *ReLU { return &ReLU{} }

func (r *ReLU) Kind() string { return "relu" }

func (r *ReLU) Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := checkArity(r.Kind(), "inputs", len(inputs), 1); err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{b.ReLU(inputs[0])}, nil
}

func (r *ReLU) Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) ([]*tensor.RawTensor, []*tensor.RawTensor, error) {
	if err := checkArity(r.Kind(), "output derivatives", len(derOutputs), 1); err != nil {
		return nil, nil, err
	}
	dx := b.Mul(derOutputs[0], b.Step(inputs[0]))
	return []*tensor.RawTensor{dx}, nil, nil
}

// Sigmoid applies 1/(1+exp(-x)) element-wise.
type Sigmoid struct {
	stateless
}

// NewSigmoid creates a sigmoid activation layer.
func NewSigmoid() *Sigmoid { return &Sigmoid{} }

func (s *Sigmoid) Kind() string { return "sigmoid" }

func (s *Sigmoid) Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := checkArity(s.Kind(), "inputs", len(inputs), 1); err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{b.Sigmoid(inputs[0])}, nil
}

// Backward recomputes the activation from the retained input:
// dx = dy * s * (1 - s).
func (s *Sigmoid) Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) ([]*tensor.RawTensor, []*tensor.RawTensor, error) {
	if err := checkArity(s.Kind(), "output derivatives", len(derOutputs), 1); err != nil {
		return nil, nil, err
	}
	sig := b.Sigmoid(inputs[0])
	oneMinus := b.AddScalar(b.MulScalar(sig, -1), 1)
	dx := b.Mul(derOutputs[0], b.Mul(sig, oneMinus))
	return []*tensor.RawTensor{dx}, nil, nil
}

// Tanh applies the hyperbolic tangent element-wise.
type Tanh struct {
	stateless
}

// NewTanh creates a tanh activation layer.
func NewTanh() *Tanh { return &Tanh{} }

func (t *Tanh) Kind() string { return "tanh" }

func (t *Tanh) Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := checkArity(t.Kind(), "inputs", len(inputs), 1); err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{b.Tanh(inputs[0])}, nil
}

// Backward: dx = dy * (1 - tanh(x)^2).
func (t *Tanh) Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) ([]*tensor.RawTensor, []*tensor.RawTensor, error) {
	if err := checkArity(t.Kind(), "output derivatives", len(derOutputs), 1); err != nil {
		return nil, nil, err
	}
	th := b.Tanh(inputs[0])
	dx := b.Mul(derOutputs[0], b.AddScalar(b.MulScalar(b.Mul(th, th), -1), 1))
	return []*tensor.RawTensor{dx}, nil, nil
}
