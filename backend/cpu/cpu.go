// Copyright 2025 Dagnet Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU backend for tensor operations.
package cpu

import (
	internalcpu "github.com/dagnet-ml/dagnet/internal/backend/cpu"
	"github.com/dagnet-ml/dagnet/tensor"
)

// Backend implements tensor operations in pure Go.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
func New() *Backend {
	return internalcpu.New()
}
