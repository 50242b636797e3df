// Package kernel selects the dot-product routine used by the convolution and
// fully-connected layers for the host CPU.
package kernel

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"gonum.org/v1/gonum/floats"
)

// Path identifies which dot-product implementation is active.
type Path int

const (
	// Gonum uses gonum's assembly dot product.
	Gonum Path = iota
	// Lanes uses the portable multi-accumulator loop in this package.
	Lanes
)

func (p Path) String() string {
	switch p {
	case Gonum:
		return "gonum"
	case Lanes:
		return "lanes"
	}
	return fmt.Sprintf("Path(%d)", int(p))
}

// Dot returns the inner product of a and b, which must have equal length.
// The summation order differs from a scalar loop, so results agree with a
// naive reference only up to floating-point reassociation.
var Dot func(a, b []float64) float64

var (
	active Path
	lanes  int
)

func init() {
	if cpuid.CPU.Supports(cpuid.AVX512F) {
		lanes = 8
	} else {
		lanes = 4
	}
	Use(detect())
}

func detect() Path {
	switch runtime.GOARCH {
	case "amd64":
		if cpuid.CPU.Supports(cpuid.SSE2) {
			return Gonum
		}
	case "arm64":
		if cpuid.CPU.Supports(cpuid.ASIMD) {
			return Gonum
		}
	}
	return Lanes
}

// Use forces the given implementation. It must not be called while a
// forward pass is running.
func Use(p Path) {
	active = p
	switch p {
	case Gonum:
		Dot = floats.Dot
	default:
		active = Lanes
		Dot = DotLanes
	}
}

// Active returns the implementation currently bound to Dot.
func Active() Path {
	return active
}

// LaneCount returns the number of independent accumulators DotLanes uses.
func LaneCount() int {
	return lanes
}

// Describe returns a one-line summary of the CPU and the chosen path.
func Describe() string {
	brand := cpuid.CPU.BrandName
	if brand == "" {
		brand = runtime.GOARCH
	}
	return fmt.Sprintf("%s %s (%d logical cores), dot=%s, lanes=%d",
		cpuid.CPU.VendorString, brand, cpuid.CPU.LogicalCores, active, lanes)
}

// DotLanes computes the inner product with LaneCount() independent partial
// sums that are combined once at the end. Panics if len(a) != len(b).
func DotLanes(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("kernel: slice length mismatch")
	}
	if lanes == 8 {
		return dot8(a, b)
	}
	return dot4(a, b)
}

func dot4(a, b []float64) float64 {
	var s0, s1, s2, s3 float64
	n := len(a) &^ 3
	for i := 0; i < n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	sum := s0 + s1 + s2 + s3
	for i := n; i < len(a); i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func dot8(a, b []float64) float64 {
	var s0, s1, s2, s3, s4, s5, s6, s7 float64
	n := len(a) &^ 7
	for i := 0; i < n; i += 8 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
		s4 += a[i+4] * b[i+4]
		s5 += a[i+5] * b[i+5]
		s6 += a[i+6] * b[i+6]
		s7 += a[i+7] * b[i+7]
	}
	sum := (s0 + s1 + s2 + s3) + (s4 + s5 + s6 + s7)
	for i := n; i < len(a); i++ {
		sum += a[i] * b[i]
	}
	return sum
}
