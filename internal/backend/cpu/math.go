package cpu

import (
	"fmt"
	"math"

	"github.com/dagnet-ml/dagnet/internal/parallel"
	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// unaryOp applies an element-wise function defined on float64 to a
// Float32 or Float64 tensor.
func (c *CPUBackend) unaryOp(op string, x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result := c.newResult(op, x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		xv, rv := x.AsFloat32(), result.AsFloat32()
		parallel.Ranges(len(rv), func(s, e int) {
			for i := s; i < e; i++ {
				rv[i] = float32(f(float64(xv[i])))
			}
		}, c.par)
	case tensor.Float64:
		xv, rv := x.AsFloat64(), result.AsFloat64()
		parallel.Ranges(len(rv), func(s, e int) {
			for i := s; i < e; i++ {
				rv[i] = f(xv[i])
			}
		}, c.par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return result
}

// Exp computes the element-wise exponential.
func (c *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("exp", x, math.Exp)
}

// Sqrt computes the element-wise square root.
func (c *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("sqrt", x, math.Sqrt)
}

// Tanh computes the element-wise hyperbolic tangent.
func (c *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("tanh", x, math.Tanh)
}

// ReLU computes max(0, x) element-wise.
func (c *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("relu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid computes 1/(1+exp(-x)) element-wise.
func (c *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("sigmoid", x, func(v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	})
}

// Step computes the Heaviside step: 1 where x > 0, else 0.
func (c *CPUBackend) Step(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("step", x, func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
}
