package layers

import (
	"math"
	"math/rand"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// xavierUniform initializes a Float32 tensor with Xavier/Glorot uniform
// values in [-limit, limit], limit = sqrt(6 / (fanIn + fanOut)).
func xavierUniform(rng *rand.Rand, fanIn, fanOut int, shape tensor.Shape) (*tensor.RawTensor, error) {
	t, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		return nil, err
	}
	limit := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	data := t.AsFloat32()
	for i := range data {
		data[i] = (rng.Float32()*2 - 1) * limit
	}
	return t, nil
}
