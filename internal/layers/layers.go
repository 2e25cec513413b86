// Package layers provides the built-in layer implementations that plug
// into the dag execution engine.
package layers

import (
	"github.com/pkg/errors"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// stateless provides the no-op half of the layer contract for layers
// without parameters or internal buffers.
type stateless struct{}

func (stateless) InitParams(tensor.Backend) ([]*tensor.RawTensor, error) { return nil, nil }
func (stateless) Reset()                                                 {}
func (stateless) Move(tensor.Device)                                     {}

func checkArity(kind, what string, got, want int) error {
	if got != want {
		return errors.Errorf("%s: expected %d %s, got %d", kind, want, what, got)
	}
	return nil
}
