package cpu

import "github.com/dagnet-ml/dagnet/internal/tensor"

// AddScalar adds a scalar to every element.
func (c *CPUBackend) AddScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return c.unaryOp("add_scalar", x, func(v float64) float64 { return v + s })
}

// MulScalar multiplies every element by a scalar.
func (c *CPUBackend) MulScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return c.unaryOp("mul_scalar", x, func(v float64) float64 { return v * s })
}
