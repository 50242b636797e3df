package layer

import (
	"fmt"
	"math"

	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

// MaxPool downsamples each channel by taking the maximum over square
// windows. Pooling never pads.
type MaxPool struct {
	in  volume.Shape
	out volume.Shape

	kernelSize int
	stride     int
}

// NewMaxPool creates a max pooling layer for inputs of shape in.
func NewMaxPool(in volume.Shape, kernelSize, stride int) *MaxPool {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("layer: invalid pool kernel %d", kernelSize))
	}
	out := volume.Shape{
		W: OutputSize(in.W, kernelSize, stride, 0),
		H: OutputSize(in.H, kernelSize, stride, 0),
		D: in.D,
	}
	// Every window must contain at least one input position, otherwise its
	// output would be the -Inf starting value.
	if (out.W-1)*stride >= in.W || (out.H-1)*stride >= in.H {
		panic(fmt.Sprintf("layer: pool %d/%d leaves empty windows on %v", kernelSize, stride, in))
	}
	return &MaxPool{in: in, out: out, kernelSize: kernelSize, stride: stride}
}

// Forward writes, for each output cell (ax, ay, d), the maximum of
// in(ax*stride+fx, ay*stride+fy, d) over the in-bounds window positions.
func (m *MaxPool) Forward(in, out *volume.Volume) {
	src := in.Data()
	dst := out.Data()
	inW, inH, depth := m.in.W, m.in.H, m.in.D
	k := m.kernelSize

	for ay := 0; ay < m.out.H; ay++ {
		y := ay * m.stride
		for ax := 0; ax < m.out.W; ax++ {
			x := ax * m.stride
			cell := dst[(m.out.W*ay+ax)*depth : (m.out.W*ay+ax+1)*depth]
			for d := range cell {
				cell[d] = math.Inf(-1)
			}

			for fy := 0; fy < k; fy++ {
				oy := y + fy
				if oy >= inH {
					break
				}
				for fx := 0; fx < k; fx++ {
					ox := x + fx
					if ox >= inW {
						break
					}
					px := src[(inW*oy+ox)*depth : (inW*oy+ox+1)*depth]
					for d, v := range px {
						if v > cell[d] {
							cell[d] = v
						}
					}
				}
			}
		}
	}
}

// InShape returns the expected input shape.
func (m *MaxPool) InShape() volume.Shape { return m.in }

// OutShape returns the produced output shape.
func (m *MaxPool) OutShape() volume.Shape { return m.out }

// Name returns "pool".
func (m *MaxPool) Name() string { return "pool" }

// ParamCount returns 0.
func (m *MaxPool) ParamCount() int { return 0 }

// KernelSize returns the window side.
func (m *MaxPool) KernelSize() int { return m.kernelSize }

// Stride returns the stride.
func (m *MaxPool) Stride() int { return m.stride }
