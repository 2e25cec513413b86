package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 5, Shape{5}.NumElements())

	assert.NoError(t, Shape{2, 3}.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.Error(t, Shape{-1, 3}.Validate())

	assert.True(t, Shape{2, 3}.Equal(Shape{2, 3}))
	assert.False(t, Shape{2, 3}.Equal(Shape{3, 2}))
	assert.False(t, Shape{2, 3}.Equal(Shape{2, 3, 1}))

	s := Shape{4, 5}
	c := s.Clone()
	c[0] = 99
	assert.Equal(t, 4, s[0])

	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{7}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b, want Shape
		expand     bool
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false},
		{Shape{2, 3}, Shape{3}, Shape{2, 3}, true},
		{Shape{2, 1}, Shape{2, 3}, Shape{2, 3}, true},
		{Shape{1}, Shape{4}, Shape{4}, true},
		{Shape{4, 1, 5}, Shape{3, 1}, Shape{4, 3, 5}, true},
	}
	for _, tc := range tests {
		got, expand, err := BroadcastShapes(tc.a, tc.b)
		require.NoError(t, err, "%v vs %v", tc.a, tc.b)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.expand, expand, "%v vs %v", tc.a, tc.b)
	}

	_, _, err := BroadcastShapes(Shape{2, 3}, Shape{2, 4})
	assert.Error(t, err)
}

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, raw.Shape())
	assert.Equal(t, Float32, raw.DType())
	assert.Equal(t, CPU, raw.Device())
	assert.Equal(t, 6, raw.NumElements())
	for _, v := range raw.AsFloat32() {
		assert.Zero(t, v)
	}

	_, err = NewRaw(Shape{0, 3}, Float32, CPU)
	assert.Error(t, err)
}

func TestFromSlices(t *testing.T) {
	raw, err := FromFloat32([]float32{1, 2, 3, 4}, Shape{2, 2}, CPU)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, raw.AsFloat32())

	_, err = FromFloat32([]float32{1, 2, 3}, Shape{2, 2}, CPU)
	assert.Error(t, err, "length mismatch")

	d, err := FromFloat64([]float64{1.5, 2.5}, Shape{2}, CPU)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5}, d.AsFloat64())
	assert.Equal(t, Float64, d.DType())

	// FromFloat32 copies: mutating the source must not reach the tensor.
	src := []float32{9, 9}
	cp, err := FromFloat32(src, Shape{2}, CPU)
	require.NoError(t, err)
	src[0] = 0
	assert.Equal(t, float32(9), cp.AsFloat32()[0])
}

func TestCreationHelpers(t *testing.T) {
	z, err := Zeros(Shape{3}, Float32, CPU)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0}, z.AsFloat32())

	o, err := Ones(Shape{3}, Float64, CPU)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, o.AsFloat64())

	f, err := Full(Shape{2}, -2.5, Float32, CPU)
	require.NoError(t, err)
	assert.Equal(t, []float32{-2.5, -2.5}, f.AsFloat32())

	_, err = Full(Shape{2}, 1, Int32, CPU)
	assert.Error(t, err)

	s := Scalar(3.5, CPU)
	assert.Equal(t, Shape{1}, s.Shape())
	assert.Equal(t, float32(3.5), s.AsFloat32()[0])
}

func TestClone(t *testing.T) {
	raw, err := FromFloat32([]float32{1, 2, 3}, Shape{3}, CPU)
	require.NoError(t, err)

	clone := raw.Clone()
	clone.AsFloat32()[0] = 42
	assert.Equal(t, float32(1), raw.AsFloat32()[0], "clone owns its buffer")
	assert.Equal(t, raw.Shape(), clone.Shape())

	moved := raw.CloneTo(GPU)
	assert.Equal(t, GPU, moved.Device())
	assert.Equal(t, CPU, raw.Device())
	assert.Equal(t, raw.AsFloat32(), moved.AsFloat32())
}

func TestFloat16Storage(t *testing.T) {
	raw, err := NewRaw(Shape{3}, Float16, CPU)
	require.NoError(t, err)

	h := raw.AsFloat16()
	require.Len(t, h, 3)
	assert.Equal(t, float32(0), h[0].Float32())
}

func TestDataType(t *testing.T) {
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, 2, Float16.Size())
	assert.Equal(t, 4, Int32.Size())
	assert.Equal(t, "float32", Float32.String())
}

func TestDevice(t *testing.T) {
	assert.Equal(t, "cpu", CPU.String())
	assert.Equal(t, "gpu", GPU.String())

	d, err := ParseDevice("gpu")
	require.NoError(t, err)
	assert.Equal(t, GPU, d)

	_, err = ParseDevice("tpu")
	assert.Error(t, err)
}
