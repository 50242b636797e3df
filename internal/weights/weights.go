// Package weights reads and writes the whitespace-separated text files that
// hold the learned parameters of convolution and fully-connected layers.
//
// Convolution file:
//
//	kernel_w kernel_h in_depth out_depth
//	out_depth*kernel_w*kernel_h*in_depth filter values (channel, x, y, depth order)
//	out_depth biases
//
// Fully-connected file:
//
//	num_inputs out_depth
//	out_depth*num_inputs filter values (neuron-major)
//	out_depth biases
//
// Anything after the last bias is ignored.
package weights

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

// ErrMalformed is matched by every *ParseError.
var ErrMalformed = errors.New("malformed weight file")

// ParseError reports a token that could not be read.
type ParseError struct {
	File  string // empty when reading from a plain io.Reader
	Token int    // zero-based index of the offending token
	Text  string // token text, empty on premature end of input
	Err   error
}

func (e *ParseError) Error() string {
	where := "weights"
	if e.File != "" {
		where = e.File
	}
	if e.Text == "" {
		return fmt.Sprintf("%s: token %d: %v", where, e.Token, e.Err)
	}
	return fmt.Sprintf("%s: token %d %q: %v", where, e.Token, e.Text, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMalformed.
func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

// ShapeError reports a header value that does not match the layer.
type ShapeError struct {
	File  string
	Field string
	Want  int
	Got   int
}

func (e *ShapeError) Error() string {
	where := "weights"
	if e.File != "" {
		where = e.File
	}
	return fmt.Sprintf("%s: %s is %d, layer expects %d", where, e.Field, e.Got, e.Want)
}

// ConvTarget is a convolution layer whose parameters can be filled.
type ConvTarget interface {
	KernelSize() int
	InShape() volume.Shape
	Filters() int
	Filter(d int) *volume.Volume
	Bias() *volume.Volume
}

// DenseTarget is a fully-connected layer whose parameters can be filled.
type DenseTarget interface {
	Inputs() int
	Outputs() int
	Weights() []float64
	Bias() *volume.Volume
}

type tokenizer struct {
	sc   *bufio.Scanner
	file string
	n    int
}

func newTokenizer(r io.Reader, file string) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc, file: file}
}

func (t *tokenizer) next() (string, error) {
	if !t.sc.Scan() {
		err := t.sc.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return "", &ParseError{File: t.file, Token: t.n, Err: err}
	}
	t.n++
	return t.sc.Text(), nil
}

func (t *tokenizer) integer() (int, error) {
	s, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{File: t.file, Token: t.n - 1, Text: s, Err: err}
	}
	return v, nil
}

func (t *tokenizer) floats(dst []float64) error {
	for i := range dst {
		s, err := t.next()
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return &ParseError{File: t.file, Token: t.n - 1, Text: s, Err: err}
		}
		dst[i] = v
	}
	return nil
}

func (t *tokenizer) header(fields []string, want []int) error {
	for i, field := range fields {
		got, err := t.integer()
		if err != nil {
			return err
		}
		if got != want[i] {
			return &ShapeError{File: t.file, Field: field, Want: want[i], Got: got}
		}
	}
	return nil
}

// ReadConv fills l from a convolution weight file. The layer is modified
// only if the whole file parses.
func ReadConv(r io.Reader, l ConvTarget) error {
	return readConv(newTokenizer(r, ""), l)
}

// LoadConv opens path and reads it with ReadConv.
func LoadConv(path string, l ConvTarget) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open weights: %w", err)
	}
	defer f.Close()
	return readConv(newTokenizer(f, path), l)
}

func readConv(t *tokenizer, l ConvTarget) error {
	k := l.KernelSize()
	depth := l.InShape().D
	filters := l.Filters()

	err := t.header(
		[]string{"kernel width", "kernel height", "input depth", "output depth"},
		[]int{k, k, depth, filters},
	)
	if err != nil {
		return err
	}

	// The file lists each filter x-major, the volume layout is y-major.
	raw := make([]float64, filters*k*k*depth)
	if err := t.floats(raw); err != nil {
		return err
	}
	bias := make([]float64, filters)
	if err := t.floats(bias); err != nil {
		return err
	}

	i := 0
	for d := 0; d < filters; d++ {
		f := l.Filter(d)
		for x := 0; x < k; x++ {
			for y := 0; y < k; y++ {
				for z := 0; z < depth; z++ {
					f.Set(x, y, z, raw[i])
					i++
				}
			}
		}
	}
	copy(l.Bias().Data(), bias)
	return nil
}

// ReadDense fills l from a fully-connected weight file. The layer is
// modified only if the whole file parses.
func ReadDense(r io.Reader, l DenseTarget) error {
	return readDense(newTokenizer(r, ""), l)
}

// LoadDense opens path and reads it with ReadDense.
func LoadDense(path string, l DenseTarget) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open weights: %w", err)
	}
	defer f.Close()
	return readDense(newTokenizer(f, path), l)
}

func readDense(t *tokenizer, l DenseTarget) error {
	err := t.header(
		[]string{"input count", "output depth"},
		[]int{l.Inputs(), l.Outputs()},
	)
	if err != nil {
		return err
	}

	w := make([]float64, l.Inputs()*l.Outputs())
	if err := t.floats(w); err != nil {
		return err
	}
	bias := make([]float64, l.Outputs())
	if err := t.floats(bias); err != nil {
		return err
	}

	copy(l.Weights(), w)
	copy(l.Bias().Data(), bias)
	return nil
}
