// Package catnet is the public entry point to the cat classifier.
package catnet

import (
	"github.com/FlavioCFOliveira/catnet/internal/dataset"
	"github.com/FlavioCFOliveira/catnet/internal/layer"
	"github.com/FlavioCFOliveira/catnet/internal/net"
	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

// Re-export common types for easier access
type (
	Network  = net.Network
	Batch    = net.Batch
	Config   = net.Config
	Profiler = net.Profiler
	Timings  = net.Timings
	Volume   = volume.Volume
	Shape    = volume.Shape
	Layer    = layer.Layer
	Record   = dataset.Record
)

// CatClass is the output index of "cat".
const CatClass = net.CatClass

// Errors
var (
	ErrInputShape = net.ErrInputShape
	ErrClassRange = net.ErrClassRange
)

// Volumes
func NewVolume(w, h, d int, fill float64) *Volume {
	return volume.New(w, h, d, fill)
}

// Networks
func NewNetwork() *Network {
	return net.New()
}

func LoadNetwork(dir string) (*Network, error) {
	return net.Load(dir)
}

func NewBatch(n *Network, size int) *Batch {
	return net.NewBatch(n, size)
}

// Classification
func DefaultConfig() Config {
	return net.DefaultConfig()
}

func Classify(n *Network, inputs []*Volume, cfg Config) ([]float64, error) {
	return net.Classify(n, inputs, cfg)
}

func ClassifyCats(n *Network, inputs []*Volume) ([]float64, error) {
	return net.ClassifyCats(n, inputs)
}

func Probabilities(n *Network, inputs []*Volume, cfg Config) ([][]float64, error) {
	return net.Probabilities(n, inputs, cfg)
}

func NewTimings() *Timings {
	return net.NewTimings()
}

// Datasets
func LoadCIFAR10(path string) ([]Record, error) {
	return dataset.LoadCIFAR10File(path)
}

func LoadPNGDir(dir string) ([]Record, error) {
	return dataset.LoadPNGDir(dir)
}
