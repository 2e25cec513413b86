package dag

import "time"

// Node binds a Layer instance to resolved input, output and parameter
// indexes within a graph. Duplicate input indexes are permitted; every
// occurrence counts separately for fanout and accumulation.
type Node struct {
	Name    string
	Layer   Layer
	Inputs  []int
	Outputs []int
	Params  []int

	// Diagnostic cumulative timings, not part of the execution contract.
	forwardTime  time.Duration
	backwardTime time.Duration
}

// NodeStats reports a node's cumulative pass timings.
type NodeStats struct {
	Name     string
	Forward  time.Duration
	Backward time.Duration
}
