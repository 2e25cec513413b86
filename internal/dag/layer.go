package dag

import "github.com/dagnet-ml/dagnet/internal/tensor"

// Layer is the contract every layer implementation must satisfy to plug
// into the engine. The engine owns all value and derivative buffers; a
// layer only receives references for the duration of one Forward or
// Backward invocation and must not retain or mutate them.
type Layer interface {
	// Kind returns the layer's registered kind tag, used by the
	// configuration round-trip.
	Kind() string

	// Forward computes output values from input and parameter values.
	// It must not mutate its arguments.
	Forward(b tensor.Backend, inputs, params []*tensor.RawTensor) ([]*tensor.RawTensor, error)

	// Backward computes the derivative of each input and each parameter,
	// shape-matched to the corresponding value, given the same inputs and
	// parameters plus the derivative of each output. A nil entry in either
	// result means the layer contributes no derivative for that slot.
	Backward(b tensor.Backend, inputs, params, derOutputs []*tensor.RawTensor) (derInputs, derParams []*tensor.RawTensor, err error)

	// InitParams produces initial values for the layer's parameters, in
	// the order the layer was bound to them.
	InitParams(b tensor.Backend) ([]*tensor.RawTensor, error)

	// Reset clears layer-internal transient state (such as a stochastic
	// mask) so subsequent Forward calls behave as a fresh draw.
	Reset()

	// Move relocates layer-internal auxiliary buffers to the named
	// device. Engine-managed value/derivative buffers are not affected.
	Move(device tensor.Device)
}
