package main

import (
	"image"
	"image/color"
	"math"
)

// CalcPSNR calculates Peak Signal-to-Noise Ratio of the luma plane.
func CalcPSNR(img1, img2 image.Image) float64 {
	bounds := img1.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var mse float64
	for y := 0; y < h; y += 1 {
		for x := 0; x < w; x += 1 {
			r1, g1, b1, _ := img1.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r2, g2, b2, _ := img2.At(img2.Bounds().Min.X+x, img2.Bounds().Min.Y+y).RGBA()

			y1, _, _ := color.RGBToYCbCr(uint8(r1>>8), uint8(g1>>8), uint8(b1>>8))
			y2, _, _ := color.RGBToYCbCr(uint8(r2>>8), uint8(g2>>8), uint8(b2>>8))

			d := float64(y1) - float64(y2)
			mse += d * d
		}
	}
	mse /= float64(w * h)

	if mse == 0 {
		return 100.0 // Infinite
	}
	return 20 * math.Log10(255.0/math.Sqrt(mse))
}
