package cpu

import (
	"fmt"

	"github.com/dagnet-ml/dagnet/internal/parallel"
	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
// Rows of the output are computed in parallel.
func (c *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	if len(a.Shape()) != 2 || len(b.Shape()) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D tensors, got %v and %v", a.Shape(), b.Shape()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}
	m, k := a.Shape()[0], a.Shape()[1]
	k2, n := b.Shape()[0], b.Shape()[1]
	if k != k2 {
		panic(fmt.Sprintf("matmul: inner dimensions do not match: %v @ %v", a.Shape(), b.Shape()))
	}

	result := c.newResult("matmul", tensor.Shape{m, n}, a.DType())

	rowPar := c.par
	rowPar.MinChunkSize = 1 // each row is k*n multiply-adds, always worth a goroutine

	switch a.DType() {
	case tensor.Float32:
		av, bv, rv := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		parallel.For(m, func(row int) {
			for col := 0; col < n; col++ {
				var sum float32
				for i := 0; i < k; i++ {
					sum += av[row*k+i] * bv[i*n+col]
				}
				rv[row*n+col] = sum
			}
		}, rowPar)
	case tensor.Float64:
		av, bv, rv := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		parallel.For(m, func(row int) {
			for col := 0; col < n; col++ {
				var sum float64
				for i := 0; i < k; i++ {
					sum += av[row*k+i] * bv[i*n+col]
				}
				rv[row*n+col] = sum
			}
		}, rowPar)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}
	return result
}

// Transpose swaps the two dimensions of a 2D tensor.
func (c *CPUBackend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	if len(t.Shape()) != 2 {
		panic(fmt.Sprintf("transpose: expected 2D tensor, got %v", t.Shape()))
	}
	rows, cols := t.Shape()[0], t.Shape()[1]
	result := c.newResult("transpose", tensor.Shape{cols, rows}, t.DType())

	switch t.DType() {
	case tensor.Float32:
		tv, rv := t.AsFloat32(), result.AsFloat32()
		for r := 0; r < rows; r++ {
			for cc := 0; cc < cols; cc++ {
				rv[cc*rows+r] = tv[r*cols+cc]
			}
		}
	case tensor.Float64:
		tv, rv := t.AsFloat64(), result.AsFloat64()
		for r := 0; r < rows; r++ {
			for cc := 0; cc < cols; cc++ {
				rv[cc*rows+r] = tv[r*cols+cc]
			}
		}
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}
	return result
}
