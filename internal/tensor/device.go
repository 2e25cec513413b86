package tensor

import "github.com/pkg/errors"

// Device represents the compute device a tensor's data lives on.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	GPU
)

// String returns the device tag used in configuration files and logs.
func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case GPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// ParseDevice resolves a device tag ("cpu", "gpu") to a Device.
func ParseDevice(tag string) (Device, error) {
	switch tag {
	case "cpu", "":
		return CPU, nil
	case "gpu":
		return GPU, nil
	default:
		return CPU, errors.Errorf("unknown device tag %q", tag)
	}
}
