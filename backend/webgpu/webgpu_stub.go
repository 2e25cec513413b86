//go:build !windows

// Copyright 2025 Dagnet Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU backend for tensor operations, built on
// WebGPU compute shaders. The go-webgpu bindings currently ship for
// Windows only; on other platforms New reports the backend unavailable.
package webgpu

import (
	"github.com/pkg/errors"

	"github.com/dagnet-ml/dagnet/tensor"
)

// New reports that the WebGPU backend is unavailable on this platform.
func New() (tensor.Backend, error) {
	return nil, errors.New("webgpu: backend not available on this platform")
}
