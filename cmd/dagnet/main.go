// Package main provides the dagnet command line interface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/dagnet-ml/dagnet/backend/cpu"
	"github.com/dagnet-ml/dagnet/dag"
	"github.com/dagnet-ml/dagnet/internal/config"
	"github.com/dagnet-ml/dagnet/layers"
	"github.com/dagnet-ml/dagnet/optim"
	"github.com/dagnet-ml/dagnet/tensor"
)

const version = "v0.1.0-dev"

func main() {
	root := &cobra.Command{
		Use:   "dagnet",
		Short: "Dagnet - DAG neural computation engine for Go",
	}
	klog.InitFlags(nil)
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(versionCmd(), demoCmd(), describeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dagnet %s\n", version)
		},
	}
}

// describeCmd loads a YAML graph definition and prints its structure.
func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <graph.yaml>",
		Short: "Load a graph definition and print its nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			g, err := config.LoadGraph(data, cpu.New())
			if err != nil {
				return err
			}
			for i, n := range g.Nodes() {
				fmt.Printf("%3d  %-16s %s\n", i, n.Name, n.Layer.Kind())
			}
			return nil
		},
	}
}

// demoCmd trains a tiny MLP on XOR, exercising the evaluator and the SGD
// optimizer end to end.
func demoCmd() *cobra.Command {
	var epochs int
	var lr float64
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Train a small MLP on XOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(epochs, lr)
		},
	}
	cmd.Flags().IntVar(&epochs, "epochs", 2000, "training epochs")
	cmd.Flags().Float64Var(&lr, "lr", 0.5, "learning rate")
	return cmd
}

func runDemo(epochs int, lr float64) error {
	backend := cpu.New()

	g, err := dag.NewBuilder(backend).
		AddInput("x", "target").
		AddLayer("fc1", layers.NewLinear(2, 8, true), []string{"x"}, []string{"h1"}, []string{"w1", "b1"}).
		AddLayer("act1", layers.NewTanh(), []string{"h1"}, []string{"a1"}, nil).
		AddLayer("fc2", layers.NewLinear(8, 1, true), []string{"a1"}, []string{"pred"}, []string{"w2", "b2"}).
		AddLayer("loss", layers.NewMSE(), []string{"pred", "target"}, []string{"objective"}, nil).
		Build()
	if err != nil {
		return err
	}
	if err := g.InitParams(); err != nil {
		return err
	}
	g.SetConserveMemory(true)
	if err := g.MarkPrecious("objective", "pred"); err != nil {
		return err
	}

	x, err := tensor.FromFloat32([]float32{0, 0, 0, 1, 1, 0, 1, 1}, tensor.Shape{4, 2}, backend.Device())
	if err != nil {
		return err
	}
	target, err := tensor.FromFloat32([]float32{0, 1, 1, 0}, tensor.Shape{4, 1}, backend.Device())
	if err != nil {
		return err
	}

	sgd := optim.NewSGD(backend, optim.SGDConfig{LR: lr})
	inputs := []dag.Binding{{Name: "x", Value: x}, {Name: "target", Value: target}}
	seed := []dag.Binding{{Name: "objective", Value: tensor.Scalar(1, backend.Device())}}

	for epoch := 1; epoch <= epochs; epoch++ {
		sgd.ZeroDer(g.Params())
		if err := g.Eval(inputs, seed); err != nil {
			return err
		}
		if err := sgd.Step(g.Params()); err != nil {
			return err
		}
		if epoch%500 == 0 || epoch == 1 {
			obj, _ := g.Var("objective")
			fmt.Printf("epoch %5d  loss %.6f\n", epoch, obj.Value.AsFloat32()[0])
		}
	}

	if err := g.Eval(inputs, nil); err != nil {
		return err
	}
	pred, _ := g.Var("pred")
	fmt.Println("predictions:")
	for i, v := range pred.Value.AsFloat32() {
		fmt.Printf("  x=%v  ->  %.3f\n", x.AsFloat32()[i*2:i*2+2], v)
	}
	return nil
}
