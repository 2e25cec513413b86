//go:build windows

package webgpu

import (
	"testing"

	"github.com/dagnet-ml/dagnet/internal/tensor"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New()
	if err != nil {
		t.Logf("WebGPU not available: %v", err)
		t.Skip("WebGPU not available on this system")
	}
	t.Cleanup(b.Release)
	return b
}

func TestNew(t *testing.T) {
	b := newBackend(t)

	if b.Name() != "WebGPU" {
		t.Errorf("expected backend name WebGPU, got %q", b.Name())
	}
	if b.Device() != tensor.GPU {
		t.Errorf("expected device gpu, got %v", b.Device())
	}
}

func TestPlace(t *testing.T) {
	b := newBackend(t)

	x, err := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{3}, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	placed := b.Place(x)
	if placed.Device() != tensor.GPU {
		t.Errorf("expected placed tensor on gpu, got %v", placed.Device())
	}
	if b.Place(placed) != placed {
		t.Error("placing a gpu tensor should be a no-op")
	}
}

func TestAdd(t *testing.T) {
	b := newBackend(t)

	a, _ := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{4}, tensor.GPU)
	c, _ := tensor.FromFloat32([]float32{10, 20, 30, 40}, tensor.Shape{4}, tensor.GPU)
	out := b.Add(a, c)

	want := []float32{11, 22, 33, 44}
	got := out.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if out.Device() != tensor.GPU {
		t.Errorf("result should be gpu-tagged, got %v", out.Device())
	}
}

func TestMatMul(t *testing.T) {
	b := newBackend(t)

	a, _ := tensor.FromFloat32([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.GPU)
	c, _ := tensor.FromFloat32([]float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2}, tensor.GPU)
	out := b.MatMul(a, c)

	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("expected shape [2 2], got %v", out.Shape())
	}
	want := []float32{58, 64, 139, 154}
	got := out.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// TestHostFallback exercises an operation without a shader path:
// broadcasting runs on the host kernels but the result must come back
// gpu-tagged so the backend contract holds.
func TestHostFallback(t *testing.T) {
	b := newBackend(t)

	m, _ := tensor.FromFloat32([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.GPU)
	row, _ := tensor.FromFloat32([]float32{10, 20, 30}, tensor.Shape{3}, tensor.GPU)
	out := b.Add(m, row)

	want := []float32{11, 22, 33, 14, 25, 36}
	got := out.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if out.Device() != tensor.GPU {
		t.Errorf("fallback result should be gpu-tagged, got %v", out.Device())
	}

	soft := b.Softmax(m, -1)
	if soft.Device() != tensor.GPU {
		t.Errorf("softmax fallback should be gpu-tagged, got %v", soft.Device())
	}
}

func TestUnaryOps(t *testing.T) {
	b := newBackend(t)

	x, _ := tensor.FromFloat32([]float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5}, tensor.GPU)

	relu := b.ReLU(x).AsFloat32()
	wantRelu := []float32{0, 0, 0, 0.5, 2}
	for i := range wantRelu {
		if relu[i] != wantRelu[i] {
			t.Errorf("relu element %d: got %v, want %v", i, relu[i], wantRelu[i])
		}
	}

	step := b.Step(x).AsFloat32()
	wantStep := []float32{0, 0, 0, 1, 1}
	for i := range wantStep {
		if step[i] != wantStep[i] {
			t.Errorf("step element %d: got %v, want %v", i, step[i], wantStep[i])
		}
	}
}
