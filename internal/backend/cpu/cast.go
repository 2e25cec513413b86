package cpu

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// Cast converts a tensor to a different data type. Float16 storage uses
// IEEE 754 binary16 with round-to-nearest-even.
func (c *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}
	result := c.newResult("cast", x.Shape(), dtype)

	// Widen the source to float64, then narrow to the target.
	n := x.NumElements()
	src := make([]float64, n)
	switch x.DType() {
	case tensor.Float32:
		for i, v := range x.AsFloat32() {
			src[i] = float64(v)
		}
	case tensor.Float64:
		copy(src, x.AsFloat64())
	case tensor.Float16:
		for i, v := range x.AsFloat16() {
			src[i] = float64(v.Float32())
		}
	case tensor.Int32:
		for i, v := range x.AsInt32() {
			src[i] = float64(v)
		}
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}

	switch dtype {
	case tensor.Float32:
		rv := result.AsFloat32()
		for i, v := range src {
			rv[i] = float32(v)
		}
	case tensor.Float64:
		copy(result.AsFloat64(), src)
	case tensor.Float16:
		rv := result.AsFloat16()
		for i, v := range src {
			rv[i] = float16.Fromfloat32(float32(v))
		}
	case tensor.Int32:
		rv := result.AsInt32()
		for i, v := range src {
			rv[i] = int32(v)
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", dtype))
	}
	return result
}
