package layer

import (
	"math"
	"testing"

	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

func TestOutputSize(t *testing.T) {
	tests := []struct {
		in, kernel, stride, pad int
		want                    int
	}{
		{32, 5, 1, 2, 32},
		{32, 2, 2, 0, 16},
		{16, 5, 1, 2, 16},
		{8, 2, 2, 0, 4},
		{5, 2, 2, 0, 2},
		{7, 3, 2, 1, 4},
		{1, 1, 1, 0, 1},
	}
	for _, tt := range tests {
		if got := OutputSize(tt.in, tt.kernel, tt.stride, tt.pad); got != tt.want {
			t.Errorf("OutputSize(%d, %d, %d, %d) = %d, want %d",
				tt.in, tt.kernel, tt.stride, tt.pad, got, tt.want)
		}
	}
}

func TestOutputSizePanics(t *testing.T) {
	cases := [][4]int{
		{4, 2, 0, 0}, // zero stride
		{3, 5, 1, 0}, // kernel larger than padded input
	}
	for _, c := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("OutputSize%v did not panic", c)
				}
			}()
			OutputSize(c[0], c[1], c[2], c[3])
		}()
	}
}

func TestDenseForward(t *testing.T) {
	d := NewDense(volume.Shape{W: 1, H: 2, D: 2}, 3)
	if d.Inputs() != 4 || d.Outputs() != 3 {
		t.Fatalf("Dense dims = %d -> %d, want 4 -> 3", d.Inputs(), d.Outputs())
	}
	copy(d.Weights(), []float64{
		1, 0, 0, 0,
		0, 1, 1, 0,
		1, 1, 1, 1,
	})
	copy(d.Bias().Data(), []float64{0.5, -1, 0})

	in := volume.New(1, 2, 2, 0)
	copy(in.Data(), []float64{2, 3, 4, 5})
	out := volume.NewShape(d.OutShape())
	d.Forward(in, out)

	want := []float64{2.5, 6, 14}
	for i, w := range want {
		if math.Abs(out.Data()[i]-w) > 1e-12 {
			t.Errorf("out[%d] = %f, want %f", i, out.Data()[i], w)
		}
	}
}

func TestDenseFilterViews(t *testing.T) {
	d := NewDense(volume.Shape{W: 2, H: 2, D: 1}, 2)
	d.Filter(1).Set(0, 0, 3, 9)
	if d.Weights()[7] != 9 {
		t.Errorf("filter view does not alias weight row: %v", d.Weights())
	}
	if d.ParamCount() != 10 {
		t.Errorf("ParamCount = %d, want 10", d.ParamCount())
	}
	if d.OutShape() != (volume.Shape{W: 1, H: 1, D: 2}) {
		t.Errorf("OutShape = %v", d.OutShape())
	}
}

func TestReLULayer(t *testing.T) {
	shape := volume.Shape{W: 2, H: 1, D: 3}
	r := NewReLU(shape)
	if r.OutShape() != shape {
		t.Fatalf("OutShape = %v, want %v", r.OutShape(), shape)
	}

	in := volume.NewShape(shape)
	copy(in.Data(), []float64{-1, 2, -3, 4, 0, -0.5})
	out := volume.NewShape(shape)
	r.Forward(in, out)

	want := []float64{0, 2, 0, 4, 0, 0}
	for i, w := range want {
		if out.Data()[i] != w {
			t.Errorf("out[%d] = %f, want %f", i, out.Data()[i], w)
		}
	}

	again := volume.NewShape(shape)
	r.Forward(out, again)
	for i := range want {
		if again.Data()[i] != out.Data()[i] {
			t.Errorf("relu(relu(x)) != relu(x) at %d", i)
		}
	}
}

func TestSoftmaxLayer(t *testing.T) {
	s := NewSoftmax(volume.Shape{W: 1, H: 1, D: 10})
	in := volume.New(1, 1, 10, 0)
	in.Set(0, 0, 3, 1000)
	out := volume.NewShape(s.OutShape())
	s.Forward(in, out)

	if math.Abs(out.At(0, 0, 3)-1) > 1e-12 {
		t.Errorf("p[3] = %f, want 1", out.At(0, 0, 3))
	}
	sum := 0.0
	for _, p := range out.Data() {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("sum = %f, want 1", sum)
	}
}

func TestLayerInterface(t *testing.T) {
	in := volume.Shape{W: 8, H: 8, D: 3}
	layers := []Layer{
		NewConv(in, 3, 4, 1, 1),
		NewReLU(in),
		NewMaxPool(in, 2, 2),
		NewDense(in, 5),
		NewSoftmax(in),
	}
	names := []string{"conv", "relu", "pool", "fc", "softmax"}
	for i, l := range layers {
		if l.Name() != names[i] {
			t.Errorf("layer %d Name = %q, want %q", i, l.Name(), names[i])
		}
		if l.InShape() != in {
			t.Errorf("%s InShape = %v, want %v", l.Name(), l.InShape(), in)
		}
	}
}
