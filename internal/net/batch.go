package net

import (
	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

// Batch holds the stage volumes for a number of image slots: Stage(l, s)
// is the activation entering layer l for the image in slot s. A Batch is
// owned by one goroutine and reused for every image it processes.
type Batch struct {
	v    [][]*volume.Volume
	size int
}

// NewBatch allocates a batch of size slots shaped after n's stages.
func NewBatch(n *Network, size int) *Batch {
	b := &Batch{v: make([][]*volume.Volume, len(n.shapes)), size: size}
	for i, s := range n.shapes {
		b.v[i] = make([]*volume.Volume, size)
		for j := range b.v[i] {
			b.v[i][j] = volume.NewShape(s)
		}
	}
	return b
}

// Size returns the number of slots.
func (b *Batch) Size() int { return b.size }

// Stage returns the volume at stage l for slot.
func (b *Batch) Stage(l, slot int) *volume.Volume { return b.v[l][slot] }

// Input returns the first-stage volume for slot.
func (b *Batch) Input(slot int) *volume.Volume { return b.v[0][slot] }

// Output returns the probability volume for slot.
func (b *Batch) Output(slot int) *volume.Volume { return b.v[len(b.v)-1][slot] }

// Release drops every volume. The batch must not be used afterwards.
func (b *Batch) Release() {
	for _, stage := range b.v {
		for _, v := range stage {
			v.Release()
		}
	}
	b.v = nil
	b.size = 0
}
