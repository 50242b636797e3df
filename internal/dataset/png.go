package dataset

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

// LoadPNG decodes a 32x32 PNG into a 32x32x3 volume of 0-255 RGB values.
// Alpha is ignored.
func LoadPNG(r io.Reader) (*volume.Volume, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() != ImageSize || b.Dy() != ImageSize {
		return nil, fmt.Errorf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), ImageSize, ImageSize)
	}

	v := volume.New(ImageSize, ImageSize, Channels, 0)
	for y := 0; y < ImageSize; y++ {
		for x := 0; x < ImageSize; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			v.Set(x, y, 0, float64(c.R))
			v.Set(x, y, 1, float64(c.G))
			v.Set(x, y, 2, float64(c.B))
		}
	}
	return v, nil
}

// LoadPNGDir loads every *.png file in dir, sorted by name.
func LoadPNGDir(dir string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	records := make([]Record, 0, len(names))
	for _, name := range names {
		img, err := loadPNGFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		records = append(records, Record{Name: name, Label: -1, Image: img})
	}
	return records, nil
}

func loadPNGFile(path string) (*volume.Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := LoadPNG(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// WritePNG encodes the first three channels of v, clamped to 0-255, as an
// opaque PNG.
func WritePNG(w io.Writer, v *volume.Volume) error {
	if v.Depth() < Channels {
		return fmt.Errorf("volume depth %d, need %d channels", v.Depth(), Channels)
	}
	img := image.NewNRGBA(image.Rect(0, 0, v.Width(), v.Height()))
	for y := 0; y < v.Height(); y++ {
		for x := 0; x < v.Width(); x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: clamp8(v.At(x, y, 0)),
				G: clamp8(v.At(x, y, 1)),
				B: clamp8(v.At(x, y, 2)),
				A: 255,
			})
		}
	}
	return png.Encode(w, img)
}

func clamp8(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	return uint8(f + 0.5)
}
