package weights

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteConv writes l in the convolution text format. Values use the
// shortest representation that parses back to the same float64.
func WriteConv(w io.Writer, l ConvTarget) error {
	bw := bufio.NewWriter(w)
	k := l.KernelSize()
	depth := l.InShape().D
	fmt.Fprintf(bw, "%d %d %d %d\n", k, k, depth, l.Filters())

	for d := 0; d < l.Filters(); d++ {
		f := l.Filter(d)
		for x := 0; x < k; x++ {
			for y := 0; y < k; y++ {
				for z := 0; z < depth; z++ {
					writeFloat(bw, f.At(x, y, z))
				}
			}
		}
	}
	for _, b := range l.Bias().Data() {
		writeFloat(bw, b)
	}
	return bw.Flush()
}

// WriteDense writes l in the fully-connected text format.
func WriteDense(w io.Writer, l DenseTarget) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", l.Inputs(), l.Outputs())
	for _, v := range l.Weights() {
		writeFloat(bw, v)
	}
	for _, b := range l.Bias().Data() {
		writeFloat(bw, b)
	}
	return bw.Flush()
}

// SaveConv writes l to path.
func SaveConv(path string, l ConvTarget) error {
	return save(path, func(w io.Writer) error { return WriteConv(w, l) })
}

// SaveDense writes l to path.
func SaveDense(path string, l DenseTarget) error {
	return save(path, func(w io.Writer) error { return WriteDense(w, l) })
}

func save(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create weights: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func writeFloat(w *bufio.Writer, v float64) {
	w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	w.WriteByte('\n')
}
