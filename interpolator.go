package dctscale

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// Interpolator upsamples initN x initN blocks to targetN x targetN blocks
// in the transform domain: coefficients are reordered into zigzag scan order,
// zero extended at the tail up to targetN*targetN and placed back into a
// targetN grid before the inverse transform.
//
// The scan rank is the coordinate shared by both sizes, so no new
// low-frequency content is introduced. An Interpolator is safe for concurrent use.
//
// By default (GainAmplitude) retained coefficients are multiplied by
// targetN/initN so a flat block keeps its value. WithGain(GainEnergy) skips
// that factor and yields the plain orthonormal result, whose samples are
// exactly initN/targetN times the default output.
type Interpolator struct {
	opt     *option
	initN   int
	targetN int
	src     BlockTransform
	dst     BlockTransform
	srcScan *ScanIndex
	dstScan *ScanIndex
	gain    float64
	logger  *slog.Logger
}

func NewInterpolator(initN, targetN int, funcs ...OptionFunc) (*Interpolator, error) {
	opt := newOption()
	for _, fn := range funcs {
		fn(opt)
	}

	if initN <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "initN=%d must be positive", initN)
	}
	if targetN < initN {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "targetN=%d < initN=%d: shrinking is not supported", targetN, initN)
	}

	src, err := opt.transformFunc(initN)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	dst, err := opt.transformFunc(targetN)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	srcScan, err := NewScanIndex(initN)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	dstScan, err := NewScanIndex(targetN)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	gain := 1.0
	if opt.gain == GainAmplitude {
		gain = float64(targetN) / float64(initN)
	}

	opt.logger.Debug("interpolator ready",
		slog.Int("initN", initN),
		slog.Int("targetN", targetN),
		slog.String("gain", opt.gain.String()),
		slog.Int("parallelism", opt.parallelism),
	)

	return &Interpolator{
		opt:     opt,
		initN:   initN,
		targetN: targetN,
		src:     src,
		dst:     dst,
		srcScan: srcScan,
		dstScan: dstScan,
		gain:    gain,
		logger:  opt.logger,
	}, nil
}

func (ip *Interpolator) InitSize() int {
	return ip.initN
}

func (ip *Interpolator) TargetSize() int {
	return ip.targetN
}

// Scale returns the upsampling factor targetN/initN.
func (ip *Interpolator) Scale() float64 {
	return float64(ip.targetN) / float64(ip.initN)
}

// Transform upsamples every block and channel of x. x.Size must equal the
// configured initN; the result has the same Count and Channels with Size targetN.
func (ip *Interpolator) Transform(x *Batch) (*Batch, error) {
	if x == nil {
		return nil, errors.Wrap(ErrShapeMismatch, "nil batch")
	}
	if x.Size != ip.initN {
		return nil, errors.Wrapf(ErrShapeMismatch, "input blocks are %dx%d, want %dx%d", x.Size, x.Size, ip.initN, ip.initN)
	}
	if err := x.validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	started := time.Now()
	out := &Batch{
		Count:    x.Count,
		Size:     ip.targetN,
		Channels: x.Channels,
		Data:     make([]float64, x.Count*ip.targetN*ip.targetN*x.Channels),
	}

	planes := x.Count * x.Channels
	err := parallelFor(planes, ip.opt.parallelism, func(start, end int) error {
		w := ip.newWorkspace()
		for p := start; p < end; p += 1 {
			n, c := p/x.Channels, p%x.Channels
			x.readBlock(w.samples, n, c)
			if err := ip.upsample(w); err != nil {
				return errors.WithStack(err)
			}
			out.writeBlock(w.result, n, c)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ip.logger.Debug("interpolated",
		slog.Any("in", x.Shape()),
		slog.Any("out", out.Shape()),
		slog.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}

type workspace struct {
	samples  []float64 // initN^2, row-major
	coeffs   []float64 // initN^2, row-major
	scan     []float64 // targetN^2, scan order
	extended []float64 // targetN^2, row-major
	result   []float64 // targetN^2, row-major
}

func (ip *Interpolator) newWorkspace() *workspace {
	small := ip.initN * ip.initN
	large := ip.targetN * ip.targetN
	return &workspace{
		samples:  make([]float64, small),
		coeffs:   make([]float64, small),
		scan:     make([]float64, large),
		extended: make([]float64, large),
		result:   make([]float64, large),
	}
}

// upsample runs one plane from w.samples to w.result.
func (ip *Interpolator) upsample(w *workspace) error {
	small := ip.initN * ip.initN

	ip.src.Forward(w.coeffs, w.samples)

	if err := ip.srcScan.ToScanOrder(w.scan[:small], w.coeffs); err != nil {
		return errors.WithStack(err)
	}
	if ip.gain != 1.0 {
		for r := 0; r < small; r += 1 {
			w.scan[r] *= ip.gain
		}
	}
	clear(w.scan[small:])

	if err := ip.dstScan.FromScanOrder(w.extended, w.scan); err != nil {
		return errors.WithStack(err)
	}

	ip.dst.Inverse(w.result, w.extended)
	return nil
}

// TransformBlocks upsamples single channel blocks.
func TransformBlocks[T Real](ip *Interpolator, blocks [][][]T) ([][][]float64, error) {
	x, err := BatchFromBlocks(blocks)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	y, err := ip.Transform(x)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return y.Blocks(), nil
}
