package layers

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// Dropout zeroes a random fraction of its input using inverted dropout:
// kept elements are scaled by 1/(1-rate) so the expectation is unchanged.
//
// The mask is drawn on the first Forward call and reused until Reset, so
// the backward pass sees the same draw as the forward pass that produced
// its derivatives. Reset clears the mask for a fresh stochastic draw.
type Dropout struct {
	Rate float64
	Seed int64

	rng  *rand.Rand
	mask *tensor.RawTensor
}

// NewDropout creates a dropout layer dropping the given fraction.
func NewDropout(rate float64) *Dropout { return &Dropout{Rate: rate} }

func (d *Dropout) Kind() string { return "dropout" }

func (d *Dropout) Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := checkArity(d.Kind(), "inputs", len(inputs), 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	if d.Rate <= 0 {
		return []*tensor.RawTensor{x}, nil
	}
	if d.Rate >= 1 {
		return nil, errors.Errorf("dropout: rate %v leaves nothing", d.Rate)
	}
	if d.mask == nil || !d.mask.Shape().Equal(x.Shape()) {
		mask, err := d.drawMask(x.Shape())
		if err != nil {
			return nil, err
		}
		d.mask = b.Place(mask)
	}
	return []*tensor.RawTensor{b.Mul(x, d.mask)}, nil
}

func (d *Dropout) Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) ([]*tensor.RawTensor, []*tensor.RawTensor, error) {
	if err := checkArity(d.Kind(), "output derivatives", len(derOutputs), 1); err != nil {
		return nil, nil, err
	}
	if d.Rate <= 0 {
		return []*tensor.RawTensor{derOutputs[0]}, nil, nil
	}
	if d.mask == nil {
		return nil, nil, errors.New("dropout: backward called before forward drew a mask")
	}
	return []*tensor.RawTensor{b.Mul(derOutputs[0], d.mask)}, nil, nil
}

func (d *Dropout) drawMask(shape tensor.Shape) (*tensor.RawTensor, error) {
	if d.rng == nil {
		seed := d.Seed
		if seed == 0 {
			seed = 1
		}
		d.rng = rand.New(rand.NewSource(seed))
	}
	mask, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		return nil, err
	}
	scale := float32(1 / (1 - d.Rate))
	data := mask.AsFloat32()
	for i := range data {
		if d.rng.Float64() >= d.Rate {
			data[i] = scale
		}
	}
	return mask, nil
}

// InitParams returns nothing: dropout has no parameters.
func (d *Dropout) InitParams(tensor.Backend) ([]*tensor.RawTensor, error) { return nil, nil }

// Reset discards the mask so the next Forward draws a fresh one.
func (d *Dropout) Reset() {
	d.mask = nil
}

// Move relocates the mask, the layer's only auxiliary buffer.
func (d *Dropout) Move(device tensor.Device) {
	if d.mask != nil {
		d.mask = d.mask.CloneTo(device)
	}
}
