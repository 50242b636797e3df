package net

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Profiler receives the wall time of every layer invocation. A nil
// Profiler disables timing entirely.
type Profiler interface {
	Observe(layer int, name string, d time.Duration)
}

// Timings accumulates per-layer durations. It is safe for concurrent use.
type Timings struct {
	mu    sync.Mutex
	names [Layers]string
	total [Layers]time.Duration
	count [Layers]int
}

// NewTimings returns an empty accumulator.
func NewTimings() *Timings {
	return &Timings{}
}

// Observe adds d to layer's total.
func (t *Timings) Observe(layer int, name string, d time.Duration) {
	t.mu.Lock()
	t.names[layer] = name
	t.total[layer] += d
	t.count[layer]++
	t.mu.Unlock()
}

// Layer returns the accumulated time and call count of one layer.
func (t *Timings) Layer(i int) (time.Duration, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total[i], t.count[i]
}

// Total returns the time summed over all layers and workers.
func (t *Timings) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	var sum time.Duration
	for _, d := range t.total {
		sum += d
	}
	return sum
}

// Report writes one line per layer, in microseconds, then the total.
func (t *Timings) Report(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := map[string]int{}
	var sum time.Duration
	for i := range t.total {
		if t.count[i] == 0 {
			continue
		}
		name := strings.ToUpper(t.names[i])
		seen[name]++
		sum += t.total[i]
		fmt.Fprintf(w, "%-12s = %d\n", fmt.Sprintf("%s_L%d", name, seen[name]), t.total[i].Microseconds())
	}
	fmt.Fprintf(w, "%-12s = %d\n", "TOTAL_TIME", sum.Microseconds())
}
