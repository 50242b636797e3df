// Package layer provides the forward kernels of the classifier: convolution,
// rectified-linear activation, max pooling, fully-connected and softmax.
//
// Every layer is immutable once its parameters are loaded, so a single
// instance may be shared by any number of goroutines as long as each of
// them passes its own input and output volumes.
package layer

import (
	"fmt"

	"github.com/FlavioCFOliveira/catnet/internal/volume"
	"gonum.org/v1/gonum/mat"
)

// Layer maps one input volume to one output volume.
type Layer interface {
	// Forward reads in and overwrites out. in must have InShape() and out
	// must have OutShape(); in and out must not share storage.
	Forward(in, out *volume.Volume)

	InShape() volume.Shape
	OutShape() volume.Shape

	// Name is a short identifier such as "conv" or "pool".
	Name() string

	// ParamCount is the number of learned values the layer holds.
	ParamCount() int
}

// OutputSize returns the number of output positions along one spatial axis:
// (in + 2*pad - kernel)/stride + 1. Panics if the result is not positive.
func OutputSize(in, kernel, stride, pad int) int {
	if stride <= 0 {
		panic(fmt.Sprintf("layer: stride must be positive, got %d", stride))
	}
	span := in + 2*pad - kernel
	if span < 0 {
		panic(fmt.Sprintf("layer: kernel %d does not fit input %d with padding %d", kernel, in, pad))
	}
	return span/stride + 1
}

// Dense is a fully connected layer. It treats its input as a flat vector of
// InShape().Len() values and produces a 1x1xOutputs volume.
type Dense struct {
	in      volume.Shape
	inputs  int
	outputs int

	// Row-major [outputs x inputs]; row i is the filter of neuron i.
	weights []float64
	w       *mat.Dense
	filters []*volume.Volume
	bias    *volume.Volume
}

// NewDense creates a fully connected layer with zero weights and biases.
func NewDense(in volume.Shape, outputs int) *Dense {
	if outputs <= 0 {
		panic(fmt.Sprintf("layer: dense outputs must be positive, got %d", outputs))
	}
	inputs := in.Len()
	weights := make([]float64, outputs*inputs)

	filters := make([]*volume.Volume, outputs)
	for i := range filters {
		filters[i] = volume.Wrap(1, 1, inputs, weights[i*inputs:(i+1)*inputs])
	}

	return &Dense{
		in:      in,
		inputs:  inputs,
		outputs: outputs,
		weights: weights,
		w:       mat.NewDense(outputs, inputs, weights),
		filters: filters,
		bias:    volume.New(1, 1, outputs, 0),
	}
}

// Forward computes out[i] = bias[i] + sum_k in[k]*W[i][k].
func (d *Dense) Forward(in, out *volume.Volume) {
	x := mat.NewVecDense(d.inputs, in.Data())
	y := mat.NewVecDense(d.outputs, out.Data())
	y.MulVec(d.w, x)
	y.AddVec(y, mat.NewVecDense(d.outputs, d.bias.Data()))
}

// InShape returns the expected input shape.
func (d *Dense) InShape() volume.Shape { return d.in }

// OutShape returns 1x1xOutputs.
func (d *Dense) OutShape() volume.Shape { return volume.Shape{W: 1, H: 1, D: d.outputs} }

// Name returns "fc".
func (d *Dense) Name() string { return "fc" }

// ParamCount returns outputs*inputs + outputs.
func (d *Dense) ParamCount() int { return len(d.weights) + d.outputs }

// Inputs returns the flattened input length.
func (d *Dense) Inputs() int { return d.inputs }

// Outputs returns the number of neurons.
func (d *Dense) Outputs() int { return d.outputs }

// Weights returns the row-major weight matrix backing the layer.
func (d *Dense) Weights() []float64 { return d.weights }

// Filter returns neuron i's weights as a 1x1xInputs view.
func (d *Dense) Filter(i int) *volume.Volume { return d.filters[i] }

// Bias returns the 1x1xOutputs bias volume.
func (d *Dense) Bias() *volume.Volume { return d.bias }
