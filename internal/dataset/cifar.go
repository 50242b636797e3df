// Package dataset turns CIFAR-10 binary batches and PNG files into
// 32x32x3 volumes ready for classification.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gorgonia.org/tensor"

	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

const (
	// ImageSize is the width and height of every image.
	ImageSize = 32
	// Channels is the number of colour planes.
	Channels = 3

	labelSize  = 1
	pixelBytes = ImageSize * ImageSize * Channels
	recordSize = labelSize + pixelBytes
)

// CIFAR10Labels names the ten classes in output order.
var CIFAR10Labels = [10]string{
	"airplane", "automobile", "bird", "cat", "deer",
	"dog", "frog", "horse", "ship", "truck",
}

// Record is one decoded image. Label is -1 when the source carries none.
type Record struct {
	Name  string
	Label int
	Image *volume.Volume
}

// LoadCIFAR10 reads binary CIFAR-10 records until EOF. Each record is a
// label byte followed by the red, green and blue planes, row-major. Pixel
// values are kept on their raw 0-255 scale.
func LoadCIFAR10(r io.Reader) ([]Record, error) {
	var records []Record
	buf := make([]byte, recordSize)
	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("cifar record %d: truncated", len(records))
		}
		if err != nil {
			return nil, err
		}

		label := int(buf[0])
		if label >= len(CIFAR10Labels) {
			return nil, fmt.Errorf("cifar record %d: label %d out of range", len(records), label)
		}

		pixels := make([]float64, pixelBytes)
		for i, b := range buf[labelSize:] {
			pixels[i] = float64(b)
		}
		t := tensor.New(tensor.WithShape(Channels, ImageSize, ImageSize), tensor.WithBacking(pixels))
		img, err := volume.FromTensor(t)
		if err != nil {
			return nil, err
		}

		records = append(records, Record{
			Name:  fmt.Sprintf("cifar[%d]", len(records)),
			Label: label,
			Image: img,
		})
	}
	return records, nil
}

// LoadCIFAR10File opens path and reads it with LoadCIFAR10.
func LoadCIFAR10File(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := LoadCIFAR10(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
