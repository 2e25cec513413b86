// Package cpu implements the CPU backend with parallel elementwise kernels.
package cpu

import (
	"fmt"

	"github.com/dagnet-ml/dagnet/internal/parallel"
	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// CPUBackend implements tensor operations in pure Go.
//
// Every operation allocates a fresh result tensor; inputs are never
// mutated. The execution engine relies on this: forward inputs must stay
// intact for the backward pass, and derivative accumulation must not
// alias the contribution it is summing into.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (c *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (c *CPUBackend) Device() tensor.Device {
	return c.device
}

// Place materializes a value on the CPU. Values already on the CPU are
// returned as-is; anything else is copied host-side.
func (c *CPUBackend) Place(t *tensor.RawTensor) *tensor.RawTensor {
	if t.Device() == tensor.CPU {
		return t
	}
	return t.CloneTo(tensor.CPU)
}

// Add performs element-wise addition with broadcasting.
func (c *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (c *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (c *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (c *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// newResult allocates a result tensor, panicking on invalid shapes.
// Shape violations inside kernels are programmer errors.
func (c *CPUBackend) newResult(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}

// binaryOp applies an element-wise binary function with broadcasting.
func (c *CPUBackend) binaryOp(op string, a, b *tensor.RawTensor,
	f32 func(x, y float32) float32, f64 func(x, y float64) float64) *tensor.RawTensor {

	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", op, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	result := c.newResult(op, outShape, a.DType())

	if !needsBroadcast {
		switch a.DType() {
		case tensor.Float32:
			av, bv, rv := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
			parallel.Ranges(len(rv), func(s, e int) {
				for i := s; i < e; i++ {
					rv[i] = f32(av[i], bv[i])
				}
			}, c.par)
		case tensor.Float64:
			av, bv, rv := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
			parallel.Ranges(len(rv), func(s, e int) {
				for i := s; i < e; i++ {
					rv[i] = f64(av[i], bv[i])
				}
			}, c.par)
		default:
			panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
		}
		return result
	}

	aIdx := newBroadcastIndexer(outShape, a.Shape())
	bIdx := newBroadcastIndexer(outShape, b.Shape())

	switch a.DType() {
	case tensor.Float32:
		av, bv, rv := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		parallel.Ranges(len(rv), func(s, e int) {
			for i := s; i < e; i++ {
				rv[i] = f32(av[aIdx.srcIndex(i)], bv[bIdx.srcIndex(i)])
			}
		}, c.par)
	case tensor.Float64:
		av, bv, rv := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		parallel.Ranges(len(rv), func(s, e int) {
			for i := s; i < e; i++ {
				rv[i] = f64(av[aIdx.srcIndex(i)], bv[bIdx.srcIndex(i)])
			}
		}, c.par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
	return result
}

// broadcastIndexer maps flat indices in the broadcast output back to flat
// indices in a source tensor whose shape may have size-1 dimensions.
type broadcastIndexer struct {
	outStrides []int
	effStrides []int // source strides, 0 where the source dim is 1
}

func newBroadcastIndexer(out, src tensor.Shape) *broadcastIndexer {
	outStrides := out.ComputeStrides()
	srcStrides := src.ComputeStrides()
	eff := make([]int, len(out))
	offset := len(out) - len(src)
	for d := range out {
		if d < offset {
			continue // missing source dim, treated as size 1
		}
		if src[d-offset] != 1 {
			eff[d] = srcStrides[d-offset]
		}
	}
	return &broadcastIndexer{outStrides: outStrides, effStrides: eff}
}

func (bi *broadcastIndexer) srcIndex(flat int) int {
	idx := 0
	for d, stride := range bi.outStrides {
		coord := flat / stride
		flat %= stride
		idx += coord * bi.effStrides[d]
	}
	return idx
}
