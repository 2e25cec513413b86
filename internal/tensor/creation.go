package tensor

import "github.com/pkg/errors"

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return NewRaw(shape, dtype, device)
}

// Full creates a tensor filled with the given value.
// Only Float32 and Float64 are supported.
func Full(shape Shape, value float64, dtype DataType, device Device) (*RawTensor, error) {
	t, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		v := float32(value)
		data := t.AsFloat32()
		for i := range data {
			data[i] = v
		}
	case Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = value
		}
	default:
		return nil, errors.Errorf("fill not supported for dtype %s", dtype)
	}
	return t, nil
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return Full(shape, 1, dtype, device)
}

// FromFloat32 creates a Float32 tensor from a slice, copying the data.
func FromFloat32(data []float32, shape Shape, device Device) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, errors.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t, err := NewRaw(shape, Float32, device)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat32(), data)
	return t, nil
}

// FromFloat64 creates a Float64 tensor from a slice, copying the data.
func FromFloat64(data []float64, shape Shape, device Device) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, errors.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t, err := NewRaw(shape, Float64, device)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat64(), data)
	return t, nil
}

// Scalar creates a one-element Float32 tensor holding v. Scalars seed
// output derivatives when backpropagating a weighted objective.
func Scalar(v float32, device Device) *RawTensor {
	t, err := FromFloat32([]float32{v}, Shape{1}, device)
	if err != nil {
		panic(err) // Shape{1} is always valid
	}
	return t
}
