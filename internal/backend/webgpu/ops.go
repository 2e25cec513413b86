//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// runBinaryOp executes an element-wise binary operation on GPU.
// Operands must be Float32 and shape-identical; broadcasting falls back
// to the host kernels in the caller.
func (b *Backend) runBinaryOp(a, other *tensor.RawTensor, shaderName, shaderCode string) *tensor.RawTensor {
	numElements := a.NumElements()

	shader := b.compileShader(shaderName, shaderCode)
	pipeline := b.getOrCreatePipeline(shaderName, shader)

	bufferA := b.createBuffer(a.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferA.Release()
	bufferOther := b.createBuffer(other.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferOther.Release()

	resultSize := uint64(a.ByteSize())
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(numElements))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferA, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferOther, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	workgroups := uint32((numElements + workgroupSize - 1) / workgroupSize)
	b.dispatch(pipeline, bindGroup, workgroups, 1)

	return b.readResult(bufferResult, resultSize, a.Shape(), shaderName)
}

// runUnaryOp executes an element-wise unary operation on GPU.
func (b *Backend) runUnaryOp(input *tensor.RawTensor, shaderName, shaderCode string, uniformTail []byte) *tensor.RawTensor {
	numElements := input.NumElements()

	shader := b.compileShader(shaderName, shaderCode)
	pipeline := b.getOrCreatePipeline(shaderName, shader)

	bufferInput := b.createBuffer(input.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferInput.Release()

	resultSize := uint64(input.ByteSize())
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(numElements))
	copy(params[4:], uniformTail)
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferInput, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	workgroups := uint32((numElements + workgroupSize - 1) / workgroupSize)
	b.dispatch(pipeline, bindGroup, workgroups, 1)

	return b.readResult(bufferResult, resultSize, input.Shape(), shaderName)
}

// dispatch runs one compute pass and submits it.
func (b *Backend) dispatch(pipeline *wgpu.ComputePipeline, bindGroup *wgpu.BindGroup, x, y uint32) {
	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.DispatchWorkgroups(x, y, 1)
	computePass.End()
	b.queue.Submit(encoder.Finish(nil))
}

// readResult copies a GPU result buffer into a new GPU-tagged tensor.
func (b *Backend) readResult(buffer *wgpu.Buffer, size uint64, shape tensor.Shape, op string) *tensor.RawTensor {
	data, err := b.readBuffer(buffer, size)
	if err != nil {
		panic(fmt.Sprintf("webgpu %s: %v", op, err))
	}
	result, err := tensor.NewRaw(shape, tensor.Float32, tensor.GPU)
	if err != nil {
		panic(fmt.Sprintf("webgpu %s: %v", op, err))
	}
	copy(result.Data(), data)
	return result
}

// gpuEligible reports whether a binary op can run on the shader path.
func gpuEligible(a, b *tensor.RawTensor) bool {
	return a.DType() == tensor.Float32 && b.DType() == tensor.Float32 && a.Shape().Equal(b.Shape())
}

// Add performs element-wise addition.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !gpuEligible(a, other) {
		return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.Add(a, other) })
	}
	return b.runBinaryOp(a, other, "add", binaryShader("+"))
}

// Sub performs element-wise subtraction.
func (b *Backend) Sub(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !gpuEligible(a, other) {
		return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.Sub(a, other) })
	}
	return b.runBinaryOp(a, other, "sub", binaryShader("-"))
}

// Mul performs element-wise multiplication.
func (b *Backend) Mul(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !gpuEligible(a, other) {
		return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.Mul(a, other) })
	}
	return b.runBinaryOp(a, other, "mul", binaryShader("*"))
}

// Div performs element-wise division.
func (b *Backend) Div(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !gpuEligible(a, other) {
		return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.Div(a, other) })
	}
	return b.runBinaryOp(a, other, "div", binaryShader("/"))
}

func (b *Backend) unaryFloat32(x *tensor.RawTensor, name, code string) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("webgpu %s: only float32 is supported, got %s", name, x.DType()))
	}
	return b.runUnaryOp(x, name, code, nil)
}

// Exp computes the element-wise exponential.
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryFloat32(x, "exp", unaryShader("exp(x)"))
}

// Sqrt computes the element-wise square root.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryFloat32(x, "sqrt", unaryShader("sqrt(x)"))
}

// Tanh computes the element-wise hyperbolic tangent.
func (b *Backend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryFloat32(x, "tanh", unaryShader("tanh(x)"))
}

// ReLU computes max(0, x) element-wise.
func (b *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryFloat32(x, "relu", unaryShader("max(x, 0.0)"))
}

// Sigmoid computes 1/(1+exp(-x)) element-wise.
func (b *Backend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryFloat32(x, "sigmoid", unaryShader("1.0 / (1.0 + exp(-x))"))
}

// Step computes the Heaviside step element-wise.
func (b *Backend) Step(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryFloat32(x, "step", unaryShader("select(0.0, 1.0, x > 0.0)"))
}

func (b *Backend) scalarOp(x *tensor.RawTensor, s float64, name, code string) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("webgpu %s: only float32 is supported, got %s", name, x.DType()))
	}
	tail := make([]byte, 4)
	binary.LittleEndian.PutUint32(tail, math.Float32bits(float32(s)))
	return b.runUnaryOp(x, name, code, tail)
}

// AddScalar adds a scalar to every element.
func (b *Backend) AddScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return b.scalarOp(x, s, "add_scalar", scalarShader("x + params.value"))
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return b.scalarOp(x, s, "mul_scalar", scalarShader("x * params.value"))
}

// MatMul performs 2D matrix multiplication on GPU.
func (b *Backend) MatMul(a, other *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || other.DType() != tensor.Float32 ||
		len(a.Shape()) != 2 || len(other.Shape()) != 2 || a.Shape()[1] != other.Shape()[0] {
		return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.MatMul(a, other) })
	}
	m, k, n := a.Shape()[0], a.Shape()[1], other.Shape()[1]

	shader := b.compileShader("matmul", matmulShader)
	pipeline := b.getOrCreatePipeline("matmul", shader)

	bufferA := b.createBuffer(a.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferA.Release()
	bufferB := b.createBuffer(other.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferB.Release()

	resultSize := uint64(m * n * 4)
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(m))
	binary.LittleEndian.PutUint32(params[4:8], uint32(k))
	binary.LittleEndian.PutUint32(params[8:12], uint32(n))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferA, 0, uint64(a.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferB, 0, uint64(other.ByteSize())),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	b.dispatch(pipeline, bindGroup, uint32((n+15)/16), uint32((m+15)/16))
	return b.readResult(bufferResult, resultSize, tensor.Shape{m, n}, "matmul")
}

// Transpose swaps the two dimensions of a 2D tensor on GPU.
func (b *Backend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	if t.DType() != tensor.Float32 || len(t.Shape()) != 2 {
		return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.Transpose(t) })
	}
	rows, cols := t.Shape()[0], t.Shape()[1]

	shader := b.compileShader("transpose", transposeShader)
	pipeline := b.getOrCreatePipeline("transpose", shader)

	bufferInput := b.createBuffer(t.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferInput.Release()

	resultSize := uint64(t.ByteSize())
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(rows))
	binary.LittleEndian.PutUint32(params[4:8], uint32(cols))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferInput, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	b.dispatch(pipeline, bindGroup, uint32((cols+15)/16), uint32((rows+15)/16))
	return b.readResult(bufferResult, resultSize, tensor.Shape{cols, rows}, "transpose")
}

// Softmax falls back to the host kernels; the reduction does not map to
// a single elementwise dispatch.
func (b *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.Softmax(x, dim) })
}

// Sum falls back to the host kernels.
func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.Sum(x) })
}

// SumDim falls back to the host kernels.
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.SumDim(x, dim, keepDim) })
}

// Cast falls back to the host kernels.
func (b *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return b.onHost(func(h tensor.Backend) *tensor.RawTensor { return h.Cast(x, dtype) })
}
