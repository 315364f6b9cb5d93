package dctscale

import (
	"runtime"

	"github.com/pkg/errors"
)

// BlockTransform is a separable orthonormal 2D transform of Size() x Size()
// blocks stored row-major. Implementations are safe for concurrent use.
type BlockTransform interface {
	Size() int
	Forward(dst, src []float64)
	Inverse(dst, src []float64)
}

// TransformFunc builds a BlockTransform for side length n.
type TransformFunc func(n int) (BlockTransform, error)

// TransformBatch applies t.Forward to every block and channel of x.
func TransformBatch(t BlockTransform, x *Batch) (*Batch, error) {
	return applyBatch(t, x, false, runtime.GOMAXPROCS(0))
}

// InverseTransformBatch applies t.Inverse to every block and channel of x.
func InverseTransformBatch(t BlockTransform, x *Batch) (*Batch, error) {
	return applyBatch(t, x, true, runtime.GOMAXPROCS(0))
}

func applyBatch(t BlockTransform, x *Batch, inverse bool, workers int) (*Batch, error) {
	if x == nil {
		return nil, errors.Wrap(ErrShapeMismatch, "nil batch")
	}
	if x.Size != t.Size() {
		return nil, errors.Wrapf(ErrShapeMismatch, "block size %d, transform size %d", x.Size, t.Size())
	}
	if err := x.validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	out := &Batch{
		Count:    x.Count,
		Size:     x.Size,
		Channels: x.Channels,
		Data:     make([]float64, len(x.Data)),
	}
	planes := x.Count * x.Channels
	err := parallelFor(planes, workers, func(start, end int) error {
		plane := x.Size * x.Size
		src := make([]float64, plane)
		dst := make([]float64, plane)
		for p := start; p < end; p += 1 {
			n, c := p/x.Channels, p%x.Channels
			x.readBlock(src, n, c)
			if inverse {
				t.Inverse(dst, src)
			} else {
				t.Forward(dst, src)
			}
			out.writeBlock(dst, n, c)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}
