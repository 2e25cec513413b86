package cpu

import (
	"fmt"
	"math"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// Sum computes the total sum of all elements, returning a scalar-shaped
// tensor of one element.
func (c *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := c.newResult("sum", tensor.Shape{1}, x.DType())
	switch x.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range x.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		var sum float64
		for _, v := range x.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}
	return result
}

// dimExtents splits a shape around dim into outer, size and inner extents
// for strided reduction loops.
func dimExtents(shape tensor.Shape, dim int) (outer, size, inner int) {
	outer, size, inner = 1, shape[dim], 1
	for _, d := range shape[:dim] {
		outer *= d
	}
	for _, d := range shape[dim+1:] {
		inner *= d
	}
	return outer, size, inner
}

// SumDim sums along a dimension. With keepDim the reduced dimension stays
// with size 1, otherwise it is removed.
func (c *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sum_dim: dimension %d out of range for shape %v", dim, shape))
	}

	outShape := make(tensor.Shape, 0, len(shape))
	for i, d := range shape {
		if i == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, d)
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	outer, size, inner := dimExtents(shape, dim)
	result := c.newResult("sum_dim", outShape, x.DType())

	switch x.DType() {
	case tensor.Float32:
		xv, rv := x.AsFloat32(), result.AsFloat32()
		for o := 0; o < outer; o++ {
			for i := 0; i < inner; i++ {
				var sum float32
				for d := 0; d < size; d++ {
					sum += xv[(o*size+d)*inner+i]
				}
				rv[o*inner+i] = sum
			}
		}
	case tensor.Float64:
		xv, rv := x.AsFloat64(), result.AsFloat64()
		for o := 0; o < outer; o++ {
			for i := 0; i < inner; i++ {
				var sum float64
				for d := 0; d < size; d++ {
					sum += xv[(o*size+d)*inner+i]
				}
				rv[o*inner+i] = sum
			}
		}
	default:
		panic(fmt.Sprintf("sum_dim: unsupported dtype %s", x.DType()))
	}
	return result
}

// Softmax computes a numerically stable softmax along the given dimension.
func (c *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("softmax: dimension %d out of range for shape %v", dim, shape))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("softmax: unsupported dtype %s", x.DType()))
	}

	outer, size, inner := dimExtents(shape, dim)
	result := c.newResult("softmax", shape, x.DType())
	xv, rv := x.AsFloat32(), result.AsFloat32()

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			maxVal := float32(math.Inf(-1))
			for d := 0; d < size; d++ {
				if v := xv[(o*size+d)*inner+i]; v > maxVal {
					maxVal = v
				}
			}
			var sum float32
			for d := 0; d < size; d++ {
				e := float32(math.Exp(float64(xv[(o*size+d)*inner+i] - maxVal)))
				rv[(o*size+d)*inner+i] = e
				sum += e
			}
			for d := 0; d < size; d++ {
				rv[(o*size+d)*inner+i] /= sum
			}
		}
	}
	return result
}
