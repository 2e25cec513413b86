// Copyright 2025 Dagnet Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layers provides the built-in layer implementations that plug
// into the dag execution engine.
package layers

import "github.com/dagnet-ml/dagnet/internal/layers"

// Linear is a fully connected layer: y = x @ W (+ b).
type Linear = layers.Linear

// ReLU applies max(0, x) element-wise.
type ReLU = layers.ReLU

// Sigmoid applies 1/(1+exp(-x)) element-wise.
type Sigmoid = layers.Sigmoid

// Tanh applies the hyperbolic tangent element-wise.
type Tanh = layers.Tanh

// Softmax normalizes along a dimension.
type Softmax = layers.Softmax

// Dropout zeroes a random fraction of its input (inverted dropout).
type Dropout = layers.Dropout

// Scale multiplies its input by a fixed factor.
type Scale = layers.Scale

// Sum adds its inputs element-wise.
type Sum = layers.Sum

// MSE computes the mean squared error between prediction and target.
type MSE = layers.MSE

// NewLinear creates a fully connected layer.
func NewLinear(in, out int, bias bool) *Linear { return layers.NewLinear(in, out, bias) }

// NewReLU creates a ReLU activation layer.
func NewReLU() *ReLU { return layers.NewReLU() }

// NewSigmoid creates a sigmoid activation layer.
func NewSigmoid() *Sigmoid { return layers.NewSigmoid() }

// NewTanh creates a tanh activation layer.
func NewTanh() *Tanh { return layers.NewTanh() }

// NewSoftmax creates a softmax layer normalizing along dim.
func NewSoftmax(dim int) *Softmax { return layers.NewSoftmax(dim) }

// NewDropout creates a dropout layer dropping the given fraction.
func NewDropout(rate float64) *Dropout { return layers.NewDropout(rate) }

// NewScale creates a fixed-factor scaling layer.
func NewScale(factor float64) *Scale { return layers.NewScale(factor) }

// NewSum creates an n-ary element-wise addition layer.
func NewSum(arity int) *Sum { return layers.NewSum(arity) }

// NewMSE creates a mean-squared-error loss layer.
func NewMSE() *MSE { return layers.NewMSE() }
