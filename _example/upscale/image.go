package main

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/pkg/errors"
)

func loadPNG(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return img, nil
}

func saveImage(img image.Image, name string) error {
	out, err := os.Create(name)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func cropToMultiple(src image.Image, n int) *image.RGBA {
	b := src.Bounds()
	w, h := (b.Dx()/n)*n, (b.Dy()/n)*n
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 1 {
		for x := 0; x < w; x += 1 {
			dst.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// resizeBox shrinks by from/to, averaging every source cell.
func resizeBox(src *image.RGBA, from, to int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx()*to/from, b.Dy()*to/from
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 1 {
		for x := 0; x < w; x += 1 {
			x0, x1 := x*from/to, (x+1)*from/to
			y0, y1 := y*from/to, (y+1)*from/to
			var r, g, bl, a, count int
			for sy := y0; sy < y1; sy += 1 {
				for sx := x0; sx < x1; sx += 1 {
					c := src.RGBAAt(sx, sy)
					r += int(c.R)
					g += int(c.G)
					bl += int(c.B)
					a += int(c.A)
					count += 1
				}
			}
			if count == 0 {
				continue
			}
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8(r / count),
				G: uint8(g / count),
				B: uint8(bl / count),
				A: uint8(a / count),
			})
		}
	}
	return dst
}

func resizeNN(src *image.RGBA, from, to int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx()*to/from, b.Dy()*to/from
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 1 {
		for x := 0; x < w; x += 1 {
			dst.SetRGBA(x, y, src.RGBAAt(x*from/to, y*from/to))
		}
	}
	return dst
}
