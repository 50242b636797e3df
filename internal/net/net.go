// Package net provides the fixed eleven-layer classifier, the per-worker
// activation batches and the concurrent classification driver.
package net

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/FlavioCFOliveira/catnet/internal/layer"
	"github.com/FlavioCFOliveira/catnet/internal/volume"
	"github.com/FlavioCFOliveira/catnet/internal/weights"
)

const (
	// Layers is the number of layers; there are Layers+1 stage volumes.
	Layers = 11

	// Classes is the number of output probabilities.
	Classes = 10

	// CatClass is the output index of the "cat" class.
	CatClass = 3
)

// InputShape is the shape every image must have.
var InputShape = volume.Shape{W: 32, H: 32, D: 3}

// Weight files read by Load, in layer order.
var weightFiles = []struct {
	layer int
	name  string
}{
	{0, "layer1_conv.txt"},
	{3, "layer4_conv.txt"},
	{6, "layer7_conv.txt"},
	{9, "layer10_fc.txt"},
}

// Network is the fixed topology
//
//	conv(5x5,16) relu pool(2) conv(5x5,20) relu pool(2) conv(5x5,20) relu pool(2) fc(10) softmax
//
// over 32x32x3 inputs. Layer parameters are read-only once loaded, so one
// Network can serve many goroutines, each with its own Batch.
type Network struct {
	layers []layer.Layer
	shapes []volume.Shape

	convs []*layer.Conv
	fc    *layer.Dense

	// Stage volumes used by Predict.
	v []*volume.Volume

	batches sync.Pool
}

// New builds the network with all weights and biases set to zero. Each
// layer's input shape is the previous layer's output shape.
func New() *Network {
	n := &Network{shapes: []volume.Shape{InputShape}}

	c1 := n.conv(layer.NewConv(n.last(), 5, 16, 1, 2))
	n.push(layer.NewReLU(c1.OutShape()))
	n.push(layer.NewMaxPool(n.last(), 2, 2))

	n.conv(layer.NewConv(n.last(), 5, 20, 1, 2))
	n.push(layer.NewReLU(n.last()))
	n.push(layer.NewMaxPool(n.last(), 2, 2))

	n.conv(layer.NewConv(n.last(), 5, 20, 1, 2))
	n.push(layer.NewReLU(n.last()))
	n.push(layer.NewMaxPool(n.last(), 2, 2))

	n.fc = layer.NewDense(n.last(), Classes)
	n.push(n.fc)
	n.push(layer.NewSoftmax(n.last()))

	n.v = make([]*volume.Volume, len(n.shapes))
	for i, s := range n.shapes {
		n.v[i] = volume.NewShape(s)
	}
	n.batches.New = func() any { return NewBatch(n, 1) }
	return n
}

func (n *Network) last() volume.Shape {
	return n.shapes[len(n.shapes)-1]
}

func (n *Network) push(l layer.Layer) {
	n.layers = append(n.layers, l)
	n.shapes = append(n.shapes, l.OutShape())
}

func (n *Network) conv(c *layer.Conv) *layer.Conv {
	n.convs = append(n.convs, c)
	n.push(c)
	return c
}

// Load builds the network and reads its parameters from the weight files
// in dir.
func Load(dir string) (*Network, error) {
	n := New()
	for _, wf := range weightFiles {
		path := filepath.Join(dir, wf.name)
		var err error
		switch l := n.layers[wf.layer].(type) {
		case *layer.Conv:
			err = weights.LoadConv(path, l)
		case *layer.Dense:
			err = weights.LoadDense(path, l)
		}
		if err != nil {
			return nil, fmt.Errorf("loading layer %d: %w", wf.layer+1, err)
		}
	}
	return n, nil
}

// Save writes the network's parameters to dir in the format Load reads.
func (n *Network) Save(dir string) error {
	for _, wf := range weightFiles {
		path := filepath.Join(dir, wf.name)
		var err error
		switch l := n.layers[wf.layer].(type) {
		case *layer.Conv:
			err = weights.SaveConv(path, l)
		case *layer.Dense:
			err = weights.SaveDense(path, l)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Layers returns the layers in execution order.
func (n *Network) Layers() []layer.Layer {
	return n.layers
}

// Shapes returns the Layers+1 stage shapes, input first.
func (n *Network) Shapes() []volume.Shape {
	return n.shapes
}

// InputShape returns the shape of the first stage.
func (n *Network) InputShape() volume.Shape {
	return n.shapes[0]
}

// Classes returns the number of output probabilities.
func (n *Network) Classes() int {
	return n.shapes[Layers].D
}

// ConvLayers returns the three convolution layers in order.
func (n *Network) ConvLayers() []*layer.Conv {
	return n.convs
}

// DenseLayer returns the fully-connected layer.
func (n *Network) DenseLayer() *layer.Dense {
	return n.fc
}

// Forward runs the image in slot of b through every layer, reading
// b.Stage(0, slot) and leaving the probabilities in b.Stage(Layers, slot).
// p may be nil.
func (n *Network) Forward(b *Batch, slot int, p Profiler) {
	if p == nil {
		for i, l := range n.layers {
			l.Forward(b.v[i][slot], b.v[i+1][slot])
		}
		return
	}
	for i, l := range n.layers {
		start := time.Now()
		l.Forward(b.v[i][slot], b.v[i+1][slot])
		p.Observe(i, l.Name(), time.Since(start))
	}
}

// Predict classifies a single image using the network's own stage volumes
// and returns a copy of the class probabilities. It must not be called
// concurrently on the same Network; use Classify for that.
func (n *Network) Predict(in *volume.Volume) ([]float64, error) {
	if err := checkInput(0, in); err != nil {
		return nil, err
	}
	volume.Copy(n.v[0], in)
	for i, l := range n.layers {
		l.Forward(n.v[i], n.v[i+1])
	}
	out := make([]float64, Classes)
	copy(out, n.v[Layers].Data())
	return out, nil
}

// Summary prints one line per layer with its output shape and parameter
// count.
func (n *Network) Summary(w io.Writer) {
	fmt.Fprintln(w, "_________________________________________________________________")
	fmt.Fprintf(w, "%-25s %-20s %-10s\n", "Layer (type)", "Output Shape", "Param #")
	fmt.Fprintln(w, "=================================================================")
	fmt.Fprintf(w, "%-25s %-20s %-10d\n", "input", n.shapes[0], 0)

	total := 0
	for i, l := range n.layers {
		total += l.ParamCount()
		fmt.Fprintf(w, "%-25s %-20s %-10d\n", fmt.Sprintf("%s_%d", l.Name(), i), l.OutShape(), l.ParamCount())
	}
	fmt.Fprintln(w, "=================================================================")
	fmt.Fprintf(w, "Total params: %d\n", total)
}
