package dctscale

import (
	"io"
	"log/slog"
	"runtime"
)

// GainMode selects how coefficient amplitudes are carried across block sizes.
type GainMode uint8

const (
	// GainAmplitude scales retained coefficients by targetN/initN so block means are preserved.
	GainAmplitude GainMode = iota
	// GainEnergy keeps orthonormal coefficients untouched; the sum of squares is preserved
	// and amplitudes shrink by initN/targetN.
	GainEnergy
)

func (g GainMode) String() string {
	switch g {
	case GainAmplitude:
		return "amplitude"
	case GainEnergy:
		return "energy"
	}
	return "unknown"
}

type OptionFunc func(*option)

type option struct {
	parallelism   int
	transformFunc TransformFunc
	gain          GainMode
	logger        *slog.Logger
}

// WithParallelism sets the number of goroutines used per call; n <= 0 means GOMAXPROCS.
func WithParallelism(n int) OptionFunc {
	return func(opt *option) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		opt.parallelism = n
	}
}

// WithTransform replaces the block transform (NewDCT by default).
func WithTransform(fn TransformFunc) OptionFunc {
	return func(opt *option) {
		if fn != nil {
			opt.transformFunc = fn
		}
	}
}

// WithGain selects the gain mode (GainAmplitude by default); unknown modes are ignored.
func WithGain(mode GainMode) OptionFunc {
	return func(opt *option) {
		switch mode {
		case GainAmplitude, GainEnergy:
			opt.gain = mode
		}
	}
}

func WithLogger(logger *slog.Logger) OptionFunc {
	return func(opt *option) {
		if logger != nil {
			opt.logger = logger
		}
	}
}

func newOption() *option {
	return &option{
		parallelism:   runtime.GOMAXPROCS(0),
		transformFunc: dctTransformFunc,
		gain:          GainAmplitude,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func dctTransformFunc(n int) (BlockTransform, error) {
	d, err := NewDCT(n)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func hadamardTransformFunc(n int) (BlockTransform, error) {
	h, err := NewHadamard(n)
	if err != nil {
		return nil, err
	}
	return h, nil
}

var (
	// DCTTransform builds orthonormal DCT-II block transforms.
	DCTTransform TransformFunc = dctTransformFunc
	// HadamardTransform builds orthonormal sequency ordered Walsh-Hadamard block transforms.
	HadamardTransform TransformFunc = hadamardTransformFunc
)
