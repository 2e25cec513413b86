//go:build windows

// Copyright 2025 Dagnet Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU backend for tensor operations, built on
// WebGPU compute shaders.
package webgpu

import (
	internalwebgpu "github.com/dagnet-ml/dagnet/internal/backend/webgpu"
	"github.com/dagnet-ml/dagnet/tensor"
)

// Backend implements tensor operations on GPU using WebGPU.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend. Call Release on the returned backend
// when done to free GPU resources.
func New() (tensor.Backend, error) {
	b, err := internalwebgpu.New()
	if err != nil {
		return nil, err
	}
	return b, nil
}
