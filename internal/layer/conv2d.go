package layer

import (
	"fmt"

	"github.com/FlavioCFOliveira/catnet/internal/kernel"
	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

// Conv is a 2D convolution with square kernels and implicit zero padding.
type Conv struct {
	in  volume.Shape
	out volume.Shape

	kernelSize int
	stride     int
	padding    int

	// All filters in one buffer: filter d occupies
	// weights[d*filterLen : (d+1)*filterLen] with the volume layout of a
	// kernelSize x kernelSize x in.D volume.
	weights []float64
	filters []*volume.Volume
	bias    *volume.Volume
}

// NewConv creates a convolution over inputs of shape in with the given
// number of filters. Weights and biases start at zero.
func NewConv(in volume.Shape, kernelSize, filters, stride, padding int) *Conv {
	if kernelSize <= 0 || filters <= 0 {
		panic(fmt.Sprintf("layer: invalid conv kernel %d / filters %d", kernelSize, filters))
	}
	out := volume.Shape{
		W: OutputSize(in.W, kernelSize, stride, padding),
		H: OutputSize(in.H, kernelSize, stride, padding),
		D: filters,
	}

	filterLen := kernelSize * kernelSize * in.D
	weights := make([]float64, filters*filterLen)
	vols := make([]*volume.Volume, filters)
	for d := range vols {
		vols[d] = volume.Wrap(kernelSize, kernelSize, in.D, weights[d*filterLen:(d+1)*filterLen])
	}

	return &Conv{
		in:         in,
		out:        out,
		kernelSize: kernelSize,
		stride:     stride,
		padding:    padding,
		weights:    weights,
		filters:    vols,
		bias:       volume.New(1, 1, filters, 0),
	}
}

// Forward computes, for every output cell (ax, ay, d),
//
//	bias[d] + sum filter[d](fx, fy, c) * in(ax*stride-pad+fx, ay*stride-pad+fy, c)
//
// where terms whose input coordinate falls outside the input are skipped.
//
// Because depth is the fastest axis, the in-bounds part of one filter row,
// (fx0..fx1, fy, all c), and the matching input row segment are both
// contiguous, so each row contributes a single dot product.
func (c *Conv) Forward(in, out *volume.Volume) {
	src := in.Data()
	dst := out.Data()
	bias := c.bias.Data()

	inW, inH, depth := c.in.W, c.in.H, c.in.D
	outW, outH, outD := c.out.W, c.out.H, c.out.D
	k := c.kernelSize

	for ay := 0; ay < outH; ay++ {
		y := ay*c.stride - c.padding
		fy0, fy1 := clip(y, k, inH)

		for ax := 0; ax < outW; ax++ {
			x := ax*c.stride - c.padding
			fx0, fx1 := clip(x, k, inW)
			seg := (fx1 - fx0) * depth
			cell := dst[(outW*ay+ax)*outD : (outW*ay+ax+1)*outD]

			for d := range cell {
				f := c.filters[d].Data()
				sum := 0.0
				if seg > 0 {
					for fy := fy0; fy < fy1; fy++ {
						fo := (k*fy + fx0) * depth
						io := (inW*(y+fy) + x + fx0) * depth
						sum += kernel.Dot(f[fo:fo+seg], src[io:io+seg])
					}
				}
				cell[d] = sum + bias[d]
			}
		}
	}
}

// clip returns the kernel offsets [lo, hi) for which origin+offset lies in
// [0, size). hi <= lo when the window misses the input entirely.
func clip(origin, k, size int) (lo, hi int) {
	lo, hi = 0, k
	if origin < 0 {
		lo = -origin
	}
	if origin+k > size {
		hi = size - origin
	}
	return lo, hi
}

// InShape returns the expected input shape.
func (c *Conv) InShape() volume.Shape { return c.in }

// OutShape returns the produced output shape.
func (c *Conv) OutShape() volume.Shape { return c.out }

// Name returns "conv".
func (c *Conv) Name() string { return "conv" }

// ParamCount returns the number of filter weights plus biases.
func (c *Conv) ParamCount() int { return len(c.weights) + c.out.D }

// KernelSize returns the side of the square kernel.
func (c *Conv) KernelSize() int { return c.kernelSize }

// Stride returns the stride.
func (c *Conv) Stride() int { return c.stride }

// Padding returns the implicit zero padding.
func (c *Conv) Padding() int { return c.padding }

// Filters returns the number of output channels.
func (c *Conv) Filters() int { return c.out.D }

// Filter returns filter d as a KernelSize x KernelSize x InShape().D volume.
func (c *Conv) Filter(d int) *volume.Volume { return c.filters[d] }

// Bias returns the 1x1xFilters bias volume.
func (c *Conv) Bias() *volume.Volume { return c.bias }
