// Copyright 2025 Dagnet Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dag provides the execution engine for directed-acyclic-graph
// neural computations.
//
// A Graph holds layers wired through named variables. Eval runs one
// forward pass and, when output derivative bindings are supplied, one
// backward pass, reclaiming intermediate buffers as soon as no consumer
// needs them when memory conservation is on.
//
// Example:
//
//	backend := cpu.New()
//	g, _ := dag.NewBuilder(backend).
//	    AddInput("x").
//	    AddLayer("fc", layers.NewLinear(3, 2, true), []string{"x"}, []string{"y"}, []string{"w", "b"}).
//	    Build()
//	_ = g.InitParams()
//	x, _ := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{1, 3}, backend.Device())
//	_ = g.Eval([]dag.Binding{{Name: "x", Value: x}}, nil)
package dag

import (
	"github.com/dagnet-ml/dagnet/internal/dag"
	"github.com/dagnet-ml/dagnet/tensor"
)

// Graph is an evaluator-owned computation graph.
type Graph = dag.Graph

// Builder assembles a Graph from layers declared in topological order.
type Builder = dag.Builder

// Layer is the contract every layer implementation must satisfy.
type Layer = dag.Layer

// Node binds a Layer to resolved variable and parameter indexes.
type Node = dag.Node

// NodeStats reports a node's cumulative pass timings.
type NodeStats = dag.NodeStats

// Variable is a named slot holding a value and an accumulated derivative.
type Variable = dag.Variable

// Param is a named trainable parameter.
type Param = dag.Param

// Binding pairs a variable name with a value or derivative seed.
type Binding = dag.Binding

// NewBuilder creates a Builder targeting the given backend.
func NewBuilder(backend tensor.Backend) *Builder {
	return dag.NewBuilder(backend)
}
