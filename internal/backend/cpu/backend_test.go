package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

func fromF32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromFloat32(data, shape, tensor.CPU)
	require.NoError(t, err)
	return raw
}

func TestBinaryOps(t *testing.T) {
	b := New()
	a := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{4})
	c := fromF32(t, []float32{4, 3, 2, 1}, tensor.Shape{4})

	assert.Equal(t, []float32{5, 5, 5, 5}, b.Add(a, c).AsFloat32())
	assert.Equal(t, []float32{-3, -1, 1, 3}, b.Sub(a, c).AsFloat32())
	assert.Equal(t, []float32{4, 6, 6, 4}, b.Mul(a, c).AsFloat32())
	assert.Equal(t, []float32{0.25, 2.0 / 3.0, 1.5, 4}, b.Div(a, c).AsFloat32())
}

func TestBinaryOps_InputsUntouched(t *testing.T) {
	b := New()
	a := fromF32(t, []float32{1, 2, 3}, tensor.Shape{3})
	c := fromF32(t, []float32{10, 20, 30}, tensor.Shape{3})

	out := b.Add(a, c)
	out.AsFloat32()[0] = 99

	assert.Equal(t, []float32{1, 2, 3}, a.AsFloat32())
	assert.Equal(t, []float32{10, 20, 30}, c.AsFloat32())
}

func TestBroadcasting(t *testing.T) {
	b := New()

	t.Run("matrix plus row", func(t *testing.T) {
		m := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		row := fromF32(t, []float32{10, 20, 30}, tensor.Shape{3})
		out := b.Add(m, row)
		assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
		assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.AsFloat32())
	})

	t.Run("matrix times column", func(t *testing.T) {
		m := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		col := fromF32(t, []float32{10, 100}, tensor.Shape{2, 1})
		out := b.Mul(m, col)
		assert.Equal(t, []float32{10, 20, 30, 400, 500, 600}, out.AsFloat32())
	})

	t.Run("scalar against vector", func(t *testing.T) {
		v := fromF32(t, []float32{1, 2, 3}, tensor.Shape{3})
		s := fromF32(t, []float32{5}, tensor.Shape{1})
		assert.Equal(t, []float32{6, 7, 8}, b.Add(v, s).AsFloat32())
		assert.Equal(t, []float32{6, 7, 8}, b.Add(s, v).AsFloat32())
	})

	t.Run("incompatible shapes panic", func(t *testing.T) {
		a := fromF32(t, []float32{1, 2, 3}, tensor.Shape{3})
		c := fromF32(t, []float32{1, 2}, tensor.Shape{2})
		assert.Panics(t, func() { b.Add(a, c) })
	})
}

func TestScalarOps(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, -2, 3}, tensor.Shape{3})
	assert.Equal(t, []float32{2, -1, 4}, b.AddScalar(x, 1).AsFloat32())
	assert.Equal(t, []float32{2, -4, 6}, b.MulScalar(x, 2).AsFloat32())
}

func TestUnaryOps(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5})

	relu := b.ReLU(x).AsFloat32()
	assert.Equal(t, []float32{0, 0, 0, 0.5, 2}, relu)

	step := b.Step(x).AsFloat32()
	assert.Equal(t, []float32{0, 0, 0, 1, 1}, step)

	sig := b.Sigmoid(x).AsFloat32()
	assert.InDelta(t, 0.5, float64(sig[2]), 1e-6)
	assert.InDelta(t, 1/(1+math.Exp(2)), float64(sig[0]), 1e-6)

	th := b.Tanh(x).AsFloat32()
	assert.InDelta(t, math.Tanh(2), float64(th[4]), 1e-6)

	exp := b.Exp(x).AsFloat32()
	assert.InDelta(t, math.Exp(-0.5), float64(exp[1]), 1e-6)

	sq := b.Sqrt(fromF32(t, []float32{4, 9, 16}, tensor.Shape{3})).AsFloat32()
	assert.Equal(t, []float32{2, 3, 4}, sq)
}

func TestMatMul(t *testing.T) {
	b := New()

	a := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	c := fromF32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})
	out := b.MatMul(a, c)
	require.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.AsFloat32())

	t.Run("inner dim mismatch panics", func(t *testing.T) {
		bad := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
		assert.Panics(t, func() { b.MatMul(a, bad) })
	})
}

func TestTranspose(t *testing.T) {
	b := New()
	a := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := b.Transpose(a)
	require.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.AsFloat32())
}

func TestSum(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	total := b.Sum(x)
	require.Equal(t, tensor.Shape{1}, total.Shape())
	assert.Equal(t, float32(21), total.AsFloat32()[0])
}

func TestSumDim(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	cols := b.SumDim(x, 0, false)
	require.Equal(t, tensor.Shape{3}, cols.Shape())
	assert.Equal(t, []float32{5, 7, 9}, cols.AsFloat32())

	rows := b.SumDim(x, 1, true)
	require.Equal(t, tensor.Shape{2, 1}, rows.Shape())
	assert.Equal(t, []float32{6, 15}, rows.AsFloat32())

	neg := b.SumDim(x, -1, false)
	assert.Equal(t, []float32{6, 15}, neg.AsFloat32())

	vec := b.SumDim(fromF32(t, []float32{1, 2, 3}, tensor.Shape{3}), 0, false)
	require.Equal(t, tensor.Shape{1}, vec.Shape())
	assert.Equal(t, float32(6), vec.AsFloat32()[0])
}

func TestSoftmax(t *testing.T) {
	b := New()

	t.Run("rows normalize", func(t *testing.T) {
		x := fromF32(t, []float32{1, 2, 3, 3, 2, 1}, tensor.Shape{2, 3})
		y := b.Softmax(x, 1).AsFloat32()
		for row := 0; row < 2; row++ {
			var sum float32
			for col := 0; col < 3; col++ {
				sum += y[row*3+col]
			}
			assert.InDelta(t, 1.0, float64(sum), 1e-6)
		}
		// Second row is the reverse of the first.
		assert.InDelta(t, float64(y[0]), float64(y[5]), 1e-6)
		assert.InDelta(t, float64(y[2]), float64(y[3]), 1e-6)
	})

	t.Run("large inputs stay finite", func(t *testing.T) {
		x := fromF32(t, []float32{1000, 1001, 1002}, tensor.Shape{3})
		y := b.Softmax(x, 0).AsFloat32()
		var sum float32
		for _, v := range y {
			require.False(t, math.IsNaN(float64(v)))
			require.False(t, math.IsInf(float64(v), 0))
			sum += v
		}
		assert.InDelta(t, 1.0, float64(sum), 1e-6)
	})
}

func TestCast(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1.5, -2.25, 3}, tensor.Shape{3})

	t.Run("to float64 and back", func(t *testing.T) {
		f64 := b.Cast(x, tensor.Float64)
		require.Equal(t, tensor.Float64, f64.DType())
		assert.Equal(t, []float64{1.5, -2.25, 3}, f64.AsFloat64())
		back := b.Cast(f64, tensor.Float32)
		assert.Equal(t, x.AsFloat32(), back.AsFloat32())
	})

	t.Run("to float16", func(t *testing.T) {
		f16 := b.Cast(x, tensor.Float16)
		require.Equal(t, tensor.Float16, f16.DType())
		back := b.Cast(f16, tensor.Float32)
		// These values are exactly representable in binary16.
		assert.Equal(t, x.AsFloat32(), back.AsFloat32())
	})

	t.Run("to int32 truncates", func(t *testing.T) {
		i32 := b.Cast(x, tensor.Int32)
		require.Equal(t, tensor.Int32, i32.DType())
		assert.Equal(t, []int32{1, -2, 3}, i32.AsInt32())
	})

	t.Run("same dtype clones", func(t *testing.T) {
		clone := b.Cast(x, tensor.Float32)
		clone.AsFloat32()[0] = 42
		assert.Equal(t, float32(1.5), x.AsFloat32()[0])
	})
}

func TestPlace(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2}, tensor.Shape{2})
	assert.Same(t, x, b.Place(x), "host values pass through untouched")
	assert.Equal(t, "CPU", b.Name())
	assert.Equal(t, tensor.CPU, b.Device())
}

func TestLargeParallelOp(t *testing.T) {
	b := New()
	n := 100_000 // large enough to split across workers
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i)
	}
	x := fromF32(t, data, tensor.Shape{n})
	out := b.AddScalar(x, 1).AsFloat32()
	for i := 0; i < n; i += 9973 {
		require.Equal(t, float32(i+1), out[i])
	}
	require.Equal(t, float32(n), out[n-1])
}
