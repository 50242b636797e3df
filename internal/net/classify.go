package net

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

var (
	// ErrInputShape is matched by every *InputError.
	ErrInputShape = errors.New("input shape mismatch")

	// ErrClassRange is returned for a target class outside [0, Classes).
	ErrClassRange = errors.New("target class out of range")
)

// InputError reports an input image that does not match InputShape.
type InputError struct {
	Index int
	Got   volume.Shape
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %d: shape %v, network expects %v", e.Index, e.Got, InputShape)
}

// Is reports whether target is ErrInputShape.
func (e *InputError) Is(target error) bool { return target == ErrInputShape }

// Config controls a classification run.
type Config struct {
	// Workers is the number of goroutines; <= 0 means runtime.NumCPU().
	Workers int

	// TargetClass is the output index whose probability Classify returns.
	TargetClass int

	// Profiler, when non-nil, receives per-layer timings.
	Profiler Profiler
}

// DefaultConfig classifies cats on every CPU without profiling.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU(), TargetClass: CatClass}
}

// Classify returns, for every input, the probability the network assigns
// to cfg.TargetClass. Inputs are not modified. All inputs are validated
// before any work starts.
func Classify(n *Network, inputs []*volume.Volume, cfg Config) ([]float64, error) {
	if cfg.TargetClass < 0 || cfg.TargetClass >= Classes {
		return nil, fmt.Errorf("%w: %d", ErrClassRange, cfg.TargetClass)
	}
	out := make([]float64, len(inputs))
	err := n.run(inputs, cfg, func(i int, probs []float64) {
		out[i] = probs[cfg.TargetClass]
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ClassifyCats runs Classify with DefaultConfig.
func ClassifyCats(n *Network, inputs []*volume.Volume) ([]float64, error) {
	return Classify(n, inputs, DefaultConfig())
}

// Probabilities returns the full class distribution for every input.
// cfg.TargetClass is ignored.
func Probabilities(n *Network, inputs []*volume.Volume, cfg Config) ([][]float64, error) {
	out := make([][]float64, len(inputs))
	err := n.run(inputs, cfg, func(i int, probs []float64) {
		out[i] = append([]float64(nil), probs...)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func checkInput(i int, v *volume.Volume) error {
	if v == nil {
		return &InputError{Index: i}
	}
	if v.Shape() != InputShape || v.Len() != InputShape.Len() {
		return &InputError{Index: i, Got: v.Shape()}
	}
	return nil
}

// run fans the inputs out over a fixed set of workers. Each worker takes a
// batch from the pool once, then claims image indices one at a time until
// none are left, so no volume is allocated per image.
func (n *Network) run(inputs []*volume.Volume, cfg Config, collect func(i int, probs []float64)) error {
	for i, in := range inputs {
		if err := checkInput(i, in); err != nil {
			return err
		}
	}
	if len(inputs) == 0 {
		return nil
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(inputs))

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			b := n.batches.Get().(*Batch)
			defer n.batches.Put(b)

			for {
				i := int(next.Add(1) - 1)
				if i >= len(inputs) {
					return
				}
				volume.Copy(b.Input(0), inputs[i])
				n.Forward(b, 0, cfg.Profiler)
				collect(i, b.Output(0).Data())
			}
		}()
	}
	wg.Wait()
	return nil
}
