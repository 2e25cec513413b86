// Package config implements the layer and graph configuration round-trip.
//
// Every layer kind has an explicit record listing exactly its serializable
// fields, paired with explicit encode/build functions. No runtime
// introspection is used; adding a layer kind means adding its record and
// its two switch arms.
package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dagnet-ml/dagnet/internal/dag"
	"github.com/dagnet-ml/dagnet/internal/layers"
	"github.com/dagnet-ml/dagnet/internal/tensor"
)

// Linear is the configuration record for a fully connected layer.
type Linear struct {
	In   int   `yaml:"in"`
	Out  int   `yaml:"out"`
	Bias bool  `yaml:"bias"`
	Seed int64 `yaml:"seed,omitempty"`
}

// Dropout is the configuration record for a dropout layer.
type Dropout struct {
	Rate float64 `yaml:"rate"`
	Seed int64   `yaml:"seed,omitempty"`
}

// Softmax is the configuration record for a softmax layer.
type Softmax struct {
	Dim int `yaml:"dim"`
}

// Scale is the configuration record for a fixed-factor scaling layer.
type Scale struct {
	Factor float64 `yaml:"factor"`
}

// Sum is the configuration record for an n-ary addition layer.
type Sum struct {
	Arity int `yaml:"arity"`
}

// Layer describes one graph node: its kind, wiring, and the kind-specific
// record. Exactly one of the kind fields is set, matching Kind.
type Layer struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Inputs  []string `yaml:"inputs"`
	Outputs []string `yaml:"outputs"`
	Params  []string `yaml:"params,omitempty"`

	Linear  *Linear  `yaml:"linear,omitempty"`
	Dropout *Dropout `yaml:"dropout,omitempty"`
	Softmax *Softmax `yaml:"softmax,omitempty"`
	Scale   *Scale   `yaml:"scale,omitempty"`
	Sum     *Sum     `yaml:"sum,omitempty"`
}

// Graph describes a whole computation graph.
type Graph struct {
	Device   string   `yaml:"device,omitempty"`
	Inputs   []string `yaml:"inputs"`
	Precious []string `yaml:"precious,omitempty"`
	Layers   []Layer  `yaml:"layers"`
}

// BuildLayer constructs a layer instance from its configuration record.
func BuildLayer(c Layer) (dag.Layer, error) {
	switch c.Kind {
	case "linear":
		if c.Linear == nil {
			return nil, errors.Errorf("layer %q: missing linear record", c.Name)
		}
		l := layers.NewLinear(c.Linear.In, c.Linear.Out, c.Linear.Bias)
		l.Seed = c.Linear.Seed
		return l, nil
	case "relu":
		return layers.NewReLU(), nil
	case "sigmoid":
		return layers.NewSigmoid(), nil
	case "tanh":
		return layers.NewTanh(), nil
	case "softmax":
		if c.Softmax == nil {
			return nil, errors.Errorf("layer %q: missing softmax record", c.Name)
		}
		return layers.NewSoftmax(c.Softmax.Dim), nil
	case "dropout":
		if c.Dropout == nil {
			return nil, errors.Errorf("layer %q: missing dropout record", c.Name)
		}
		l := layers.NewDropout(c.Dropout.Rate)
		l.Seed = c.Dropout.Seed
		return l, nil
	case "scale":
		if c.Scale == nil {
			return nil, errors.Errorf("layer %q: missing scale record", c.Name)
		}
		return layers.NewScale(c.Scale.Factor), nil
	case "sum":
		if c.Sum == nil {
			return nil, errors.Errorf("layer %q: missing sum record", c.Name)
		}
		return layers.NewSum(c.Sum.Arity), nil
	case "mse":
		return layers.NewMSE(), nil
	default:
		return nil, errors.Errorf("layer %q: unknown kind %q", c.Name, c.Kind)
	}
}

// EncodeLayer produces the configuration record for a layer instance.
func EncodeLayer(name string, l dag.Layer, inputs, outputs, params []string) (Layer, error) {
	c := Layer{
		Name:    name,
		Kind:    l.Kind(),
		Inputs:  inputs,
		Outputs: outputs,
		Params:  params,
	}
	switch v := l.(type) {
	case *layers.Linear:
		c.Linear = &Linear{In: v.In, Out: v.Out, Bias: v.Bias, Seed: v.Seed}
	case *layers.Dropout:
		c.Dropout = &Dropout{Rate: v.Rate, Seed: v.Seed}
	case *layers.Softmax:
		c.Softmax = &Softmax{Dim: v.Dim}
	case *layers.Scale:
		c.Scale = &Scale{Factor: v.Factor}
	case *layers.Sum:
		c.Sum = &Sum{Arity: v.Arity}
	case *layers.ReLU, *layers.Sigmoid, *layers.Tanh, *layers.MSE:
		// no kind-specific fields
	default:
		return Layer{}, errors.Errorf("layer %q: kind %q has no configuration record", name, l.Kind())
	}
	return c, nil
}

// BuildGraph constructs an executable graph from a configuration. A
// non-empty device tag must name the backend's device; a graph declared
// for gpu does not silently run on a cpu backend.
func BuildGraph(cfg Graph, backend tensor.Backend) (*dag.Graph, error) {
	if cfg.Device != "" {
		device, err := tensor.ParseDevice(cfg.Device)
		if err != nil {
			return nil, errors.Wrap(err, "graph device")
		}
		if device != backend.Device() {
			return nil, errors.Errorf("graph declares device %q but backend %s computes on %s",
				cfg.Device, backend.Name(), backend.Device())
		}
	}
	b := dag.NewBuilder(backend)
	b.AddInput(cfg.Inputs...)
	for _, lc := range cfg.Layers {
		layer, err := BuildLayer(lc)
		if err != nil {
			return nil, err
		}
		b.AddLayer(lc.Name, layer, lc.Inputs, lc.Outputs, lc.Params)
	}
	g, err := b.Build()
	if err != nil {
		return nil, err
	}
	if len(cfg.Precious) > 0 {
		if err := g.MarkPrecious(cfg.Precious...); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// LoadGraph parses a YAML graph definition and builds it.
func LoadGraph(data []byte, backend tensor.Backend) (*dag.Graph, error) {
	var cfg Graph
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse graph config")
	}
	return BuildGraph(cfg, backend)
}

// MarshalGraph serializes a graph configuration to YAML.
func MarshalGraph(cfg Graph) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "marshal graph config")
	}
	return out, nil
}
