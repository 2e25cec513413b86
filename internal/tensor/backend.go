package tensor

// Backend defines the interface every compute backend must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - cpu: pure Go with parallel elementwise loops
//   - webgpu: WGSL compute shaders via go-webgpu
//
// Operations panic on shape or dtype violations; those are programmer
// errors, not runtime conditions. The execution engine converts panics
// raised during a layer invocation into pass-aborting errors.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations (2D).
	MatMul(a, b *RawTensor) *RawTensor
	Transpose(t *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, s float64) *RawTensor
	MulScalar(x *RawTensor, s float64) *RawTensor

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor

	// Activation functions.
	ReLU(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor
	Step(x *RawTensor) *RawTensor // 1 where x > 0, else 0
	Softmax(x *RawTensor, dim int) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                           // total sum (scalar result)
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // sum along dimension

	// Type conversion, including Float16 <-> Float32.
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Place materializes a value on this backend's device. This is the only
	// device-transfer operation the execution engine requires.
	Place(t *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
