// Package activations provides the elementwise and vector activation
// functions used by the inference layers.
package activations

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Activation is an elementwise activation function.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64
}

// ReLU activation function.
type ReLU struct{}

// Activate returns 0 for negative x and x otherwise.
func (ReLU) Activate(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// ActivateInto applies ReLU from src to dst, which must have equal length.
func (ReLU) ActivateInto(dst, src []float64) {
	dst = dst[:len(src)]
	for i, v := range src {
		if v < 0 {
			dst[i] = 0
		} else {
			dst[i] = v
		}
	}
}

// Softmax activation function for output layer.
type Softmax struct{}

// ActivateInto writes softmax(src) into dst, which must have the same
// length as src and must not be empty.
//
// The maximum is subtracted before exponentiation so large inputs do not
// overflow; dst doubles as the scratch space for the exponentials.
func (Softmax) ActivateInto(dst, src []float64) {
	dst = dst[:len(src)]
	maxVal := floats.Max(src)

	for i, v := range src {
		dst[i] = math.Exp(v - maxVal)
	}
	sum := floats.Sum(dst)

	for i := range dst {
		dst[i] /= sum
	}
}
