package imaging

import (
	"image"
	"image/draw"
)

// Normalize returns img in a color model the OCR engine handles directly.
// Grayscale and opaque RGBA images pass through untouched; anything else
// (paletted, CMYK, YCbCr, 16-bit, translucent) is redrawn as opaque RGBA,
// flattening transparency onto white.
func Normalize(img image.Image) image.Image {
	switch m := img.(type) {
	case *image.Gray:
		return m
	case *image.RGBA:
		if m.Opaque() {
			return m
		}
	}
	return ToRGB(img)
}

// IsNormalized reports whether Normalize would return img unchanged.
func IsNormalized(img image.Image) bool {
	switch m := img.(type) {
	case *image.Gray:
		return true
	case *image.RGBA:
		return m.Opaque()
	}
	return false
}

// ToRGB draws img over a white background into a new opaque RGBA image.
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
