package dctscale

import (
	"bytes"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func constantBatch(tb testing.TB, count, size int, c float64) *Batch {
	tb.Helper()
	b, err := NewBatch(count, size, 1)
	if err != nil {
		tb.Fatalf("%+v", err)
	}
	for i := range b.Data {
		b.Data[i] = c
	}
	return b
}

func TestNewInterpolator(t *testing.T) {
	t.Run("valid", func(tt *testing.T) {
		ip, err := NewInterpolator(8, 16)
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		if ip.InitSize() != 8 || ip.TargetSize() != 16 || ip.Scale() != 2.0 {
			tt.Errorf("sizes %d->%d scale %v", ip.InitSize(), ip.TargetSize(), ip.Scale())
		}
	})
	t.Run("shrink", func(tt *testing.T) {
		if _, err := NewInterpolator(16, 8); errors.Is(err, ErrInvalidConfiguration) != true {
			tt.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	})
	t.Run("non positive", func(tt *testing.T) {
		for _, n := range []int{0, -1} {
			if _, err := NewInterpolator(n, 8); errors.Is(err, ErrInvalidConfiguration) != true {
				tt.Errorf("initN=%d: expected ErrInvalidConfiguration, got %v", n, err)
			}
		}
	})
	t.Run("hadamard size", func(tt *testing.T) {
		if _, err := NewInterpolator(4, 6, WithTransform(HadamardTransform)); errors.Is(err, ErrInvalidConfiguration) != true {
			tt.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	})
	t.Run("unknown gain", func(tt *testing.T) {
		tests := []struct {
			name   string
			funcs  []OptionFunc
			expect float64
		}{
			{"default", nil, 100.0},
			{"unknown", []OptionFunc{WithGain(GainMode(7))}, 100.0},
			{"energy then unknown", []OptionFunc{WithGain(GainEnergy), WithGain(GainMode(7))}, 50.0},
		}
		for _, tc := range tests {
			ip, err := NewInterpolator(8, 16, tc.funcs...)
			if err != nil {
				tt.Fatalf("%s: %+v", tc.name, err)
			}
			y, err := ip.Transform(constantBatch(tt, 1, 8, 100.0))
			if err != nil {
				tt.Fatalf("%s: %+v", tc.name, err)
			}
			for i, v := range y.Data {
				if math.Abs(v-tc.expect) > 1e-9 {
					tt.Errorf("%s: sample %d = %v, want %v", tc.name, i, v, tc.expect)
					break
				}
			}
		}
	})
}

func TestInterpolatorTransform(t *testing.T) {
	t.Run("identity", func(tt *testing.T) {
		rng := rand.New(rand.NewSource(2020))
		for _, n := range []int{1, 3, 8, 16} {
			for _, gain := range []GainMode{GainAmplitude, GainEnergy} {
				ip, err := NewInterpolator(n, n, WithGain(gain))
				if err != nil {
					tt.Fatalf("%+v", err)
				}
				x := randomBatch(tt, 3, n, 1, rng)
				y, err := ip.Transform(x)
				if err != nil {
					tt.Fatalf("%+v", err)
				}
				if cmp.Equal(y.Data, x.Data, approx(roundTripEpsilon)) != true {
					tt.Errorf("n=%d gain=%s: %s", n, gain, cmp.Diff(x.Data, y.Data, approx(roundTripEpsilon)))
				}
			}
		}
	})
	t.Run("shape", func(tt *testing.T) {
		rng := rand.New(rand.NewSource(1))
		ip, _ := NewInterpolator(8, 16)
		x := randomBatch(tt, 4, 8, 1, rng)
		y, err := ip.Transform(x)
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		if expect := [4]int{4, 16, 16, 1}; y.Shape() != expect {
			tt.Errorf("%v != %v", y.Shape(), expect)
		}
		for _, v := range y.Data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				tt.Fatalf("non finite output %v", v)
			}
		}
	})
	t.Run("mean", func(tt *testing.T) {
		sizes := [][2]int{{8, 16}, {3, 5}, {4, 4}, {2, 7}, {1, 8}}
		for _, s := range sizes {
			ip, err := NewInterpolator(s[0], s[1])
			if err != nil {
				tt.Fatalf("%+v", err)
			}
			y, err := ip.Transform(constantBatch(tt, 2, s[0], 123.5))
			if err != nil {
				tt.Fatalf("%+v", err)
			}
			for i, v := range y.Data {
				if math.Abs(v-123.5) > 1e-9 {
					tt.Fatalf("%d->%d: y[%d] = %v, want 123.5", s[0], s[1], i, v)
				}
			}
		}
	})
	t.Run("energy", func(tt *testing.T) {
		ip, _ := NewInterpolator(8, 16, WithGain(GainEnergy))
		y, err := ip.Transform(constantBatch(tt, 1, 8, 10))
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		for i, v := range y.Data {
			if math.Abs(v-5) > 1e-9 {
				tt.Fatalf("y[%d] = %v, want 5", i, v)
			}
		}

		rng := rand.New(rand.NewSource(8))
		x := randomBatch(tt, 1, 8, 1, rng)
		y, err = ip.Transform(x)
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		ex, ey := sumSquares(x.Data), sumSquares(y.Data)
		if math.Abs(ex-ey) > 1e-9*ex {
			tt.Errorf("energy %v != %v", ey, ex)
		}
	})
	t.Run("gradient", func(tt *testing.T) {
		block := make([][]float64, 8)
		for i := range block {
			block[i] = make([]float64, 8)
			for j := range block[i] {
				block[i][j] = 255.0 * float64(j) / 7.0
			}
		}
		ip, _ := NewInterpolator(8, 16)
		out, err := TransformBlocks(ip, [][][]float64{block})
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		y := out[0]
		if len(y) != 16 || len(y[0]) != 16 {
			tt.Fatalf("got %dx%d", len(y), len(y[0]))
		}
		for i := 0; i < 16; i += 1 {
			for j := 1; j < 16; j += 1 {
				if y[i][j] <= y[i][j-1] {
					tt.Errorf("row %d not increasing at %d: %v <= %v", i, j, y[i][j], y[i][j-1])
				}
			}
			if cmp.Equal(y[i], y[0], approx(1e-9)) != true {
				tt.Errorf("row %d differs from row 0", i)
			}
		}
		for i := 0; i < 16; i += 1 {
			for j := 0; j < 16; j += 1 {
				v := y[i][j]
				if v < -8 || v > 255+8 {
					tt.Errorf("ringing at (%d,%d): %v", i, j, v)
				}
				// half a source step is 18.2
				if d := math.Abs(v - block[i/2][j/2]); d > 16 {
					tt.Errorf("(%d,%d) differs from replication by %v", i, j, d)
				}
			}
		}
	})
	t.Run("mismatch", func(tt *testing.T) {
		ip, _ := NewInterpolator(8, 16)
		for _, n := range []int{4, 16} {
			x, _ := NewBatch(1, n, 1)
			if _, err := ip.Transform(x); errors.Is(err, ErrShapeMismatch) != true {
				tt.Errorf("size=%d: expected ErrShapeMismatch, got %v", n, err)
			}
		}
		if _, err := ip.Transform(nil); errors.Is(err, ErrShapeMismatch) != true {
			tt.Errorf("expected ErrShapeMismatch, got %v", err)
		}
		if _, err := TransformBlocks(ip, [][][]int{{{1, 2}, {3, 4}}}); errors.Is(err, ErrShapeMismatch) != true {
			tt.Errorf("expected ErrShapeMismatch, got %v", err)
		}

		malformed := map[string]*Batch{
			"short data":    {Count: 2, Size: 8, Channels: 1, Data: make([]float64, 64)},
			"zero channels": {Count: 3, Size: 8, Channels: 0},
			"zero count":    {Count: 0, Size: 8, Channels: 1},
			"negative":      {Count: -1, Size: 8, Channels: -1, Data: make([]float64, 64)},
		}
		for name, b := range malformed {
			y, err := ip.Transform(b)
			if errors.Is(err, ErrShapeMismatch) != true {
				tt.Errorf("%s: expected ErrShapeMismatch, got %v", name, err)
			}
			if y != nil {
				tt.Errorf("%s: expected no batch, got shape %v", name, y.Shape())
			}
		}
	})
	t.Run("channels", func(tt *testing.T) {
		rng := rand.New(rand.NewSource(77))
		ip, _ := NewInterpolator(4, 8)
		x := randomBatch(tt, 3, 4, 3, rng)
		y, err := ip.Transform(x)
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		for n := 0; n < 3; n += 1 {
			for c := 0; c < 3; c += 1 {
				single, _ := BatchFromSlice(x.Block(n, c), 1, 4, 1)
				want, err := ip.Transform(single)
				if err != nil {
					tt.Fatalf("%+v", err)
				}
				if cmp.Equal(y.Block(n, c), want.Data, approx(1e-12)) != true {
					tt.Errorf("block %d channel %d differs from single channel run", n, c)
				}
			}
		}
	})
	t.Run("parallelism", func(tt *testing.T) {
		rng := rand.New(rand.NewSource(13))
		x := randomBatch(tt, 17, 8, 1, rng)
		seq, _ := NewInterpolator(8, 16, WithParallelism(1))
		par, _ := NewInterpolator(8, 16, WithParallelism(4))
		a, err := seq.Transform(x)
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		b, err := par.Transform(x)
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		if cmp.Equal(a.Data, b.Data, approx(1e-12)) != true {
			tt.Errorf("parallel result differs")
		}
	})
	t.Run("hadamard", func(tt *testing.T) {
		rng := rand.New(rand.NewSource(21))
		ip, err := NewInterpolator(8, 8, WithTransform(HadamardTransform))
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		x := randomBatch(tt, 2, 8, 1, rng)
		y, err := ip.Transform(x)
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		if cmp.Equal(y.Data, x.Data, approx(roundTripEpsilon)) != true {
			tt.Errorf("hadamard identity mismatch")
		}

		up, err := NewInterpolator(4, 16, WithTransform(HadamardTransform))
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		z, err := up.Transform(constantBatch(tt, 1, 4, 42))
		if err != nil {
			tt.Fatalf("%+v", err)
		}
		for i, v := range z.Data {
			if math.Abs(v-42) > 1e-9 {
				tt.Fatalf("z[%d] = %v, want 42", i, v)
			}
		}
	})
	t.Run("logger", func(tt *testing.T) {
		buf := bytes.NewBuffer(nil)
		logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ip, _ := NewInterpolator(2, 4, WithLogger(logger))
		if _, err := ip.Transform(constantBatch(tt, 1, 2, 1)); err != nil {
			tt.Fatalf("%+v", err)
		}
		if strings.Contains(buf.String(), "interpolator ready") != true {
			tt.Errorf("missing construction record: %s", buf.String())
		}
		if strings.Contains(buf.String(), "msg=interpolated") != true {
			tt.Errorf("missing transform record: %s", buf.String())
		}
	})
}

func BenchmarkInterpolator(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x := randomBatch(b, 64, 8, 1, rng)
	b.Run("dct/8x8->16x16", func(tb *testing.B) {
		ip, _ := NewInterpolator(8, 16)
		tb.ResetTimer()
		for i := 0; i < tb.N; i += 1 {
			if _, err := ip.Transform(x); err != nil {
				tb.Fatalf("%+v", err)
			}
		}
	})
	b.Run("hadamard/8x8->16x16", func(tb *testing.B) {
		ip, _ := NewInterpolator(8, 16, WithTransform(HadamardTransform))
		tb.ResetTimer()
		for i := 0; i < tb.N; i += 1 {
			if _, err := ip.Transform(x); err != nil {
				tb.Fatalf("%+v", err)
			}
		}
	})
}
