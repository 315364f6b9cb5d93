package dctscale

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
)

// ScaleGray upsamples img tile by tile. Both image dimensions must be
// multiples of InitSize(); the result is Scale() times larger.
func (ip *Interpolator) ScaleGray(img *image.Gray) (*image.Gray, error) {
	tx, ty, err := ip.tiles(img.Bounds())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	x, err := NewBatch(tx*ty, ip.initN, 1)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	b := img.Bounds()
	for n := 0; n < tx*ty; n += 1 {
		ox := b.Min.X + (n%tx)*ip.initN
		oy := b.Min.Y + (n/tx)*ip.initN
		for i := 0; i < ip.initN; i += 1 {
			for j := 0; j < ip.initN; j += 1 {
				x.Set(n, i, j, 0, float64(img.GrayAt(ox+j, oy+i).Y))
			}
		}
	}

	y, err := ip.Transform(x)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	out := image.NewGray(image.Rect(0, 0, tx*ip.targetN, ty*ip.targetN))
	for n := 0; n < tx*ty; n += 1 {
		ox := (n % tx) * ip.targetN
		oy := (n / tx) * ip.targetN
		for i := 0; i < ip.targetN; i += 1 {
			for j := 0; j < ip.targetN; j += 1 {
				out.SetGray(ox+j, oy+i, color.Gray{Y: clampUint8(y.At(n, i, j, 0))})
			}
		}
	}
	return out, nil
}

// ScaleRGBA upsamples img tile by tile treating R, G, B and A as independent channels.
func (ip *Interpolator) ScaleRGBA(img image.Image) (*image.RGBA, error) {
	tx, ty, err := ip.tiles(img.Bounds())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	x, err := NewBatch(tx*ty, ip.initN, 4)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	b := img.Bounds()
	for n := 0; n < tx*ty; n += 1 {
		ox := b.Min.X + (n%tx)*ip.initN
		oy := b.Min.Y + (n/tx)*ip.initN
		for i := 0; i < ip.initN; i += 1 {
			for j := 0; j < ip.initN; j += 1 {
				c := color.RGBAModel.Convert(img.At(ox+j, oy+i)).(color.RGBA)
				x.Set(n, i, j, 0, float64(c.R))
				x.Set(n, i, j, 1, float64(c.G))
				x.Set(n, i, j, 2, float64(c.B))
				x.Set(n, i, j, 3, float64(c.A))
			}
		}
	}

	y, err := ip.Transform(x)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	out := image.NewRGBA(image.Rect(0, 0, tx*ip.targetN, ty*ip.targetN))
	for n := 0; n < tx*ty; n += 1 {
		ox := (n % tx) * ip.targetN
		oy := (n / tx) * ip.targetN
		for i := 0; i < ip.targetN; i += 1 {
			for j := 0; j < ip.targetN; j += 1 {
				a := clampUint8(y.At(n, i, j, 3))
				out.SetRGBA(ox+j, oy+i, color.RGBA{
					// premultiplied: keep color channels within alpha
					R: min(clampUint8(y.At(n, i, j, 0)), a),
					G: min(clampUint8(y.At(n, i, j, 1)), a),
					B: min(clampUint8(y.At(n, i, j, 2)), a),
					A: a,
				})
			}
		}
	}
	return out, nil
}

func (ip *Interpolator) tiles(r image.Rectangle) (int, int, error) {
	w, h := r.Dx(), r.Dy()
	if w < ip.initN || h < ip.initN || w%ip.initN != 0 || h%ip.initN != 0 {
		return 0, 0, errors.Wrapf(ErrShapeMismatch, "image %dx%d is not tiled by %dx%d blocks", w, h, ip.initN, ip.initN)
	}
	return w / ip.initN, h / ip.initN, nil
}

func clampUint8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}
