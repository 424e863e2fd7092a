package roi

import (
	"image"
	"math"
)

// FitBackground places an image of w x h pixels centred on a canvasW x canvasH
// scene, scaled down to fit but never enlarged. An invalid scale (degenerate
// canvas or image sizes) falls back to 1; the second return reports that.
func FitBackground(ref string, img image.Image, w, h, canvasW, canvasH int) (*Background, bool) {
	scale := math.Min(math.Min(float64(canvasW)/float64(w), float64(canvasH)/float64(h)), 1)
	fallback := false
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		scale = 1
		fallback = true
	}
	dw := math.Max(1, math.Round(float64(w)*scale))
	dh := math.Max(1, math.Round(float64(h)*scale))
	return &Background{
		Ref:           ref,
		Image:         img,
		NativeWidth:   w,
		NativeHeight:  h,
		ScaleX:        scale,
		ScaleY:        scale,
		Left:          (float64(canvasW) - float64(w)*scale) / 2,
		Top:           (float64(canvasH) - float64(h)*scale) / 2,
		DisplayWidth:  dw,
		DisplayHeight: dh,
	}, fallback
}

// FitImage is FitBackground for a decoded image.
func FitImage(ref string, img image.Image, canvasW, canvasH int) (*Background, bool) {
	b := img.Bounds()
	return FitBackground(ref, img, b.Dx(), b.Dy(), canvasW, canvasH)
}
