// Copyright 2025 Dagnet Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers updating graph parameters from the
// derivatives accumulated by a backward pass.
package optim

import (
	"github.com/dagnet-ml/dagnet/internal/optim"
	"github.com/dagnet-ml/dagnet/tensor"
)

// Optimizer updates parameter values from their accumulated derivatives.
type Optimizer = optim.Optimizer

// SGD implements stochastic gradient descent with optional momentum and
// weight decay.
type SGD = optim.SGD

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// Adam implements the Adam optimizer.
type Adam = optim.Adam

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewSGD creates an SGD optimizer.
func NewSGD(backend tensor.Backend, cfg SGDConfig) *SGD {
	return optim.NewSGD(backend, cfg)
}

// NewAdam creates an Adam optimizer.
func NewAdam(backend tensor.Backend, cfg AdamConfig) *Adam {
	return optim.NewAdam(backend, cfg)
}
