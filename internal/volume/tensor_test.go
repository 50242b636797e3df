package volume

import (
	"testing"

	"gorgonia.org/tensor"
)

func TestFromTensorFloat64(t *testing.T) {
	backing := make([]float64, 3*2*4)
	for i := range backing {
		backing[i] = float64(i)
	}
	tt := tensor.New(tensor.WithShape(3, 2, 4), tensor.WithBacking(backing))

	v, err := FromTensor(tt)
	if err != nil {
		t.Fatalf("FromTensor: %v", err)
	}
	if v.Shape() != (Shape{W: 4, H: 2, D: 3}) {
		t.Fatalf("Shape = %v, want 4x2x3", v.Shape())
	}
	for c := 0; c < 3; c++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 4; x++ {
				want := float64(c*8 + y*4 + x)
				if got := v.At(x, y, c); got != want {
					t.Errorf("At(%d,%d,%d) = %f, want %f", x, y, c, got, want)
				}
			}
		}
	}
}

func TestFromTensorFloat32(t *testing.T) {
	backing := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	tt := tensor.New(tensor.WithShape(2, 2, 2), tensor.WithBacking(backing))

	v, err := FromTensor(tt)
	if err != nil {
		t.Fatalf("FromTensor: %v", err)
	}
	// Channel 1, y=1, x=0 is backing[4+2+0].
	if got := v.At(0, 1, 1); got != 7 {
		t.Errorf("At(0,1,1) = %f, want 7", got)
	}
}

func TestFromTensorRejectsRank(t *testing.T) {
	tt := tensor.New(tensor.WithShape(4, 4), tensor.WithBacking(make([]float64, 16)))
	if _, err := FromTensor(tt); err == nil {
		t.Error("FromTensor accepted a rank-2 tensor")
	}
}

func TestTensorRoundTrip(t *testing.T) {
	v := New(5, 3, 2, 0)
	for i := range v.Data() {
		v.Data()[i] = float64(i) * 0.5
	}

	tt := ToTensor(v)
	if got := tt.Shape(); got[0] != 2 || got[1] != 3 || got[2] != 5 {
		t.Fatalf("tensor shape = %v, want (2, 3, 5)", got)
	}
	val, err := tt.At(1, 2, 4)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if val.(float64) != v.At(4, 2, 1) {
		t.Errorf("tensor(1,2,4) = %v, want %f", val, v.At(4, 2, 1))
	}

	back, err := FromTensor(tt)
	if err != nil {
		t.Fatalf("FromTensor: %v", err)
	}
	for i := range v.Data() {
		if back.Data()[i] != v.Data()[i] {
			t.Fatalf("round trip differs at %d: %f != %f", i, back.Data()[i], v.Data()[i])
		}
	}
}
