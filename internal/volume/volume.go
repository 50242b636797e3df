// Package volume provides the dense three-dimensional array that carries
// activations and learned parameters between layers.
package volume

import (
	"fmt"
)

// Shape is the width, height and depth of a Volume.
type Shape struct {
	W, H, D int
}

// Len returns the number of elements a Volume of this shape holds.
func (s Shape) Len() int {
	return s.W * s.H * s.D
}

// String formats the shape as WxHxD.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.W, s.H, s.D)
}

// Volume is a W x H x D array of float64 stored in one contiguous buffer.
// The element at (x, y, d) lives at offset (W*y + x)*D + d, so depth is the
// fastest-varying index and all channels of one pixel are adjacent.
//
// Accessors do not check bounds beyond what the Go runtime does for the
// backing slice; coordinates are the caller's responsibility.
type Volume struct {
	w, h, d int
	data    []float64
}

// New allocates a Volume and sets every element to fill.
// Panics if any dimension is not positive.
func New(w, h, d int, fill float64) *Volume {
	mustPositive(w, h, d)
	v := &Volume{w: w, h: h, d: d, data: make([]float64, w*h*d)}
	if fill != 0 {
		v.Fill(fill)
	}
	return v
}

// NewShape allocates a zero-filled Volume of the given shape.
func NewShape(s Shape) *Volume {
	return New(s.W, s.H, s.D, 0)
}

// Wrap returns a Volume backed by data without copying it.
// Panics if len(data) != w*h*d.
func Wrap(w, h, d int, data []float64) *Volume {
	mustPositive(w, h, d)
	if len(data) != w*h*d {
		panic(fmt.Sprintf("volume: buffer length %d does not match %dx%dx%d", len(data), w, h, d))
	}
	return &Volume{w: w, h: h, d: d, data: data}
}

func mustPositive(w, h, d int) {
	if w <= 0 || h <= 0 || d <= 0 {
		panic(fmt.Sprintf("volume: invalid dimensions %dx%dx%d", w, h, d))
	}
}

// Width returns the size along x.
func (v *Volume) Width() int { return v.w }

// Height returns the size along y.
func (v *Volume) Height() int { return v.h }

// Depth returns the number of channels.
func (v *Volume) Depth() int { return v.d }

// Shape returns the dimensions of v.
func (v *Volume) Shape() Shape {
	return Shape{W: v.w, H: v.h, D: v.d}
}

// Len returns the number of elements.
func (v *Volume) Len() int {
	return len(v.data)
}

// Data returns the backing buffer. Writes through it modify v.
func (v *Volume) Data() []float64 {
	return v.data
}

// Index returns the flat offset of (x, y, d).
func (v *Volume) Index(x, y, d int) int {
	return (v.w*y+x)*v.d + d
}

// At returns the value at (x, y, d).
func (v *Volume) At(x, y, d int) float64 {
	return v.data[(v.w*y+x)*v.d+d]
}

// Set stores val at (x, y, d).
func (v *Volume) Set(x, y, d int, val float64) {
	v.data[(v.w*y+x)*v.d+d] = val
}

// Fill sets every element to val.
func (v *Volume) Fill(val float64) {
	for i := range v.data {
		v.data[i] = val
	}
}

// Clone returns a deep copy of v.
func (v *Volume) Clone() *Volume {
	c := &Volume{w: v.w, h: v.h, d: v.d, data: make([]float64, len(v.data))}
	copy(c.data, v.data)
	return c
}

// Release drops the backing buffer. The Volume must not be used afterwards.
func (v *Volume) Release() {
	v.data = nil
}

// Copy copies the contents of src into dst.
//
// dst and src must have the same shape. This is not checked: with differing
// shapes only the shorter of the two buffers is copied and the layout of
// the result is meaningless.
func Copy(dst, src *Volume) {
	copy(dst.data, src.data)
}
