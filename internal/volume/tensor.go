package volume

import (
	"fmt"

	"gorgonia.org/tensor"
)

// FromTensor converts a channel-major (C, H, W) tensor into a Volume with
// depth C. Float64 and Float32 tensors are accepted.
func FromTensor(t tensor.Tensor) (*Volume, error) {
	shape := t.Shape()
	if len(shape) != 3 {
		return nil, fmt.Errorf("volume: tensor shape %v is not (C, H, W)", shape)
	}
	c, h, w := shape[0], shape[1], shape[2]
	if c <= 0 || h <= 0 || w <= 0 {
		return nil, fmt.Errorf("volume: tensor shape %v has an empty dimension", shape)
	}

	v := New(w, h, c, 0)

	if dense, ok := t.(*tensor.Dense); ok && !dense.IsView() {
		switch backing := dense.Data().(type) {
		case []float64:
			fillCHW(v, func(i int) float64 { return backing[i] })
			return v, nil
		case []float32:
			fillCHW(v, func(i int) float64 { return float64(backing[i]) })
			return v, nil
		}
	}

	// Views and other tensor kinds go through the generic accessor.
	for ch := 0; ch < c; ch++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				val, err := t.At(ch, y, x)
				if err != nil {
					return nil, fmt.Errorf("volume: reading tensor at (%d,%d,%d): %w", ch, y, x, err)
				}
				switch f := val.(type) {
				case float64:
					v.Set(x, y, ch, f)
				case float32:
					v.Set(x, y, ch, float64(f))
				default:
					return nil, fmt.Errorf("volume: unsupported tensor dtype %v", t.Dtype())
				}
			}
		}
	}
	return v, nil
}

// fillCHW copies a contiguous CHW buffer, read through at, into v.
func fillCHW(v *Volume, at func(i int) float64) {
	plane := v.w * v.h
	for ch := 0; ch < v.d; ch++ {
		for y := 0; y < v.h; y++ {
			for x := 0; x < v.w; x++ {
				v.data[(v.w*y+x)*v.d+ch] = at(ch*plane + y*v.w + x)
			}
		}
	}
}

// ToTensor returns a (D, H, W) float64 tensor holding a copy of v.
func ToTensor(v *Volume) *tensor.Dense {
	plane := v.w * v.h
	backing := make([]float64, v.Len())
	for y := 0; y < v.h; y++ {
		for x := 0; x < v.w; x++ {
			base := (v.w*y + x) * v.d
			for ch := 0; ch < v.d; ch++ {
				backing[ch*plane+y*v.w+x] = v.data[base+ch]
			}
		}
	}
	return tensor.New(tensor.WithShape(v.d, v.h, v.w), tensor.WithBacking(backing))
}
