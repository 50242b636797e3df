package layer

import (
	"github.com/FlavioCFOliveira/catnet/internal/activations"
	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

// ReLU applies max(0, x) elementwise. Output shape equals input shape.
type ReLU struct {
	shape volume.Shape
	act   activations.ReLU
}

// NewReLU creates a rectified-linear layer for inputs of shape in.
func NewReLU(in volume.Shape) *ReLU {
	return &ReLU{shape: in}
}

// Forward writes relu(in) to out.
func (r *ReLU) Forward(in, out *volume.Volume) {
	r.act.ActivateInto(out.Data(), in.Data())
}

// InShape returns the expected input shape.
func (r *ReLU) InShape() volume.Shape { return r.shape }

// OutShape equals InShape.
func (r *ReLU) OutShape() volume.Shape { return r.shape }

// Name returns "relu".
func (r *ReLU) Name() string { return "relu" }

// ParamCount returns 0.
func (r *ReLU) ParamCount() int { return 0 }

// Softmax turns its input, read as a flat vector, into a probability
// distribution of the same length stored in a 1x1xN volume.
type Softmax struct {
	in  volume.Shape
	act activations.Softmax
}

// NewSoftmax creates a softmax layer for inputs of shape in.
func NewSoftmax(in volume.Shape) *Softmax {
	return &Softmax{in: in}
}

// Forward writes softmax(in) to out.
func (s *Softmax) Forward(in, out *volume.Volume) {
	s.act.ActivateInto(out.Data(), in.Data())
}

// InShape returns the expected input shape.
func (s *Softmax) InShape() volume.Shape { return s.in }

// OutShape returns 1x1xN where N is the input element count.
func (s *Softmax) OutShape() volume.Shape { return volume.Shape{W: 1, H: 1, D: s.in.Len()} }

// Name returns "softmax".
func (s *Softmax) Name() string { return "softmax" }

// ParamCount returns 0.
func (s *Softmax) ParamCount() int { return 0 }
