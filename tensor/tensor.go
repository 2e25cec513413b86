// Copyright 2025 Dagnet Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor types shared by the compute backends
// and the graph execution engine.
//
// Example:
//
//	import (
//	    "github.com/dagnet-ml/dagnet/backend/cpu"
//	    "github.com/dagnet-ml/dagnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{3}, backend.Device())
//	    y := backend.MulScalar(x, 2)
//	    _ = y
//	}
package tensor

import "github.com/dagnet-ml/dagnet/internal/tensor"

// RawTensor is the low-level tensor representation.
type RawTensor = tensor.RawTensor

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType represents runtime type information for tensors.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Float16 = tensor.Float16
	Int32   = tensor.Int32
)

// Device represents the compute device a tensor's data lives on.
type Device = tensor.Device

// Supported devices.
const (
	CPU = tensor.CPU
	GPU = tensor.GPU
)

// Backend defines the interface every compute backend must implement.
type Backend = tensor.Backend

// ParseDevice resolves a device tag ("cpu", "gpu") to a Device.
func ParseDevice(tag string) (Device, error) {
	return tensor.ParseDevice(tag)
}

// NewRaw creates a new zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype, device)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Ones(shape, dtype, device)
}

// Full creates a tensor filled with the given value.
func Full(shape Shape, value float64, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Full(shape, value, dtype, device)
}

// FromFloat32 creates a Float32 tensor from a slice, copying the data.
func FromFloat32(data []float32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromFloat32(data, shape, device)
}

// FromFloat64 creates a Float64 tensor from a slice, copying the data.
func FromFloat64(data []float64, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromFloat64(data, shape, device)
}

// Scalar creates a one-element Float32 tensor holding v.
func Scalar(v float32, device Device) *RawTensor {
	return tensor.Scalar(v, device)
}

// BroadcastShapes implements NumPy-style broadcasting rules.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
