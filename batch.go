package dctscale

import (
	"github.com/pkg/errors"
)

// Batch holds Count square blocks of Size x Size positions with Channels
// samples each, stored in (Count, Size, Size, Channels) row-major order.
type Batch struct {
	Count    int
	Size     int
	Channels int
	Data     []float64
}

func NewBatch(count, size, channels int) (*Batch, error) {
	if count <= 0 || size <= 0 || channels <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "batch shape (%d, %d, %d, %d)", count, size, size, channels)
	}
	return &Batch{
		Count:    count,
		Size:     size,
		Channels: channels,
		Data:     make([]float64, count*size*size*channels),
	}, nil
}

// BatchFromBlocks copies single channel blocks into a new Batch.
// Every block must be square and share the side length of the first one.
func BatchFromBlocks[T Real](blocks [][][]T) (*Batch, error) {
	if len(blocks) < 1 {
		return nil, errors.Wrap(ErrShapeMismatch, "empty block list")
	}
	size := len(blocks[0])
	b, err := NewBatch(len(blocks), size, 1)
	if err != nil {
		return nil, errors.Wrapf(ErrShapeMismatch, "block[0] has %d rows", size)
	}
	for n, block := range blocks {
		if len(block) != size {
			return nil, errors.Wrapf(ErrShapeMismatch, "block[%d] has %d rows, want %d", n, len(block), size)
		}
		for i, row := range block {
			if len(row) != size {
				return nil, errors.Wrapf(ErrShapeMismatch, "block[%d] row %d has %d cols, want %d", n, i, len(row), size)
			}
			offset := (n*size + i) * size
			for j, v := range row {
				b.Data[offset+j] = float64(v)
			}
		}
	}
	return b, nil
}

// BatchFromSlice copies flat (count, size, size, channels) data into a new Batch.
func BatchFromSlice[T Real](data []T, count, size, channels int) (*Batch, error) {
	b, err := NewBatch(count, size, channels)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(data) != len(b.Data) {
		return nil, errors.Wrapf(ErrShapeMismatch, "got %d samples, want %d", len(data), len(b.Data))
	}
	for i, v := range data {
		b.Data[i] = float64(v)
	}
	return b, nil
}

// Shape returns (Count, Size, Size, Channels).
func (b *Batch) Shape() [4]int {
	return [4]int{b.Count, b.Size, b.Size, b.Channels}
}

// validate reports ErrShapeMismatch unless every dimension is positive and
// Data holds exactly Count*Size*Size*Channels samples.
func (b *Batch) validate() error {
	if b.Count <= 0 || b.Size <= 0 || b.Channels <= 0 {
		return errors.Wrapf(ErrShapeMismatch, "batch shape %v has non-positive dimensions", b.Shape())
	}
	if len(b.Data) != b.Count*b.Size*b.Size*b.Channels {
		return errors.Wrapf(ErrShapeMismatch, "batch has %d samples, shape %v", len(b.Data), b.Shape())
	}
	return nil
}

func (b *Batch) index(n, i, j, c int) int {
	return ((n*b.Size+i)*b.Size+j)*b.Channels + c
}

func (b *Batch) At(n, i, j, c int) float64 {
	return b.Data[b.index(n, i, j, c)]
}

func (b *Batch) Set(n, i, j, c int, v float64) {
	b.Data[b.index(n, i, j, c)] = v
}

// Block returns a row-major copy of channel c of block n.
func (b *Batch) Block(n, c int) []float64 {
	out := make([]float64, b.Size*b.Size)
	b.readBlock(out, n, c)
	return out
}

// SetBlock overwrites channel c of block n from a row-major plane.
func (b *Batch) SetBlock(n, c int, plane []float64) error {
	if len(plane) != b.Size*b.Size {
		return errors.Wrapf(ErrShapeMismatch, "plane has %d samples, want %d", len(plane), b.Size*b.Size)
	}
	b.writeBlock(plane, n, c)
	return nil
}

func (b *Batch) readBlock(dst []float64, n, c int) {
	if b.Channels == 1 {
		plane := b.Size * b.Size
		copy(dst, b.Data[n*plane:(n+1)*plane])
		return
	}
	base := b.index(n, 0, 0, c)
	for p := range dst {
		dst[p] = b.Data[base+p*b.Channels]
	}
}

func (b *Batch) writeBlock(src []float64, n, c int) {
	if b.Channels == 1 {
		plane := b.Size * b.Size
		copy(b.Data[n*plane:(n+1)*plane], src)
		return
	}
	base := b.index(n, 0, 0, c)
	for p, v := range src {
		b.Data[base+p*b.Channels] = v
	}
}

// Blocks returns channel 0 of every block as [count][size][size].
func (b *Batch) Blocks() [][][]float64 {
	out := make([][][]float64, b.Count)
	for n := 0; n < b.Count; n += 1 {
		plane := b.Block(n, 0)
		out[n] = make([][]float64, b.Size)
		for i := 0; i < b.Size; i += 1 {
			out[n][i] = plane[i*b.Size : (i+1)*b.Size]
		}
	}
	return out
}

func (b *Batch) Clone() *Batch {
	data := make([]float64, len(b.Data))
	copy(data, b.Data)
	return &Batch{
		Count:    b.Count,
		Size:     b.Size,
		Channels: b.Channels,
		Data:     data,
	}
}
