package photo

import (
	"image"

	"golang.org/x/image/draw"
)

// Fit scales img down so it fits within maxW x maxH, keeping the aspect
// ratio. Images that already fit, or a non-positive bound, return img.
func Fit(img image.Image, maxW, maxH int) image.Image {
	return fit(img, maxW, maxH, draw.CatmullRom)
}

// FitFast is Fit with bilinear sampling, for thumbnails.
func FitFast(img image.Image, maxW, maxH int) image.Image {
	return fit(img, maxW, maxH, draw.ApproxBiLinear)
}

func fit(img image.Image, maxW, maxH int, scaler draw.Scaler) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxW <= 0 || maxH <= 0 || w == 0 || h == 0 || (w <= maxW && h <= maxH) {
		return img
	}

	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
