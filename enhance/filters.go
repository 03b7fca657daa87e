package enhance

import (
	"ocrprep/raster"
)

var sharpenKernel = raster.MustKernel(
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
)

// lut maps every channel value to its adjusted value.
type lut [256]uint8

func (t *lut) applyRGB(img *raster.Image) {
	p := img.Pix
	for i := 0; i < len(p); i += 4 {
		p[i] = t[p[i]]
		p[i+1] = t[p[i+1]]
		p[i+2] = t[p[i+2]]
	}
}

func grayscale(img *raster.Image) {
	p := img.Pix
	for i := 0; i < len(p); i += 4 {
		avg := raster.ClampUint8((float64(p[i]) + float64(p[i+1]) + float64(p[i+2])) / 3)
		p[i], p[i+1], p[i+2] = avg, avg, avg
	}
}

func contrastFactor(c float64) float64 {
	return (259 * (c + 255)) / (255 * (259 - c))
}

func contrast(img *raster.Image, c float64) {
	factor := contrastFactor(c)

	var t lut
	for v := range t {
		t[v] = raster.ClampUint8(factor*(float64(v)-128) + 128)
	}
	t.applyRGB(img)
}

func brightness(img *raster.Image, offset float64) {
	var t lut
	for v := range t {
		t[v] = raster.ClampUint8(float64(v) + offset)
	}
	t.applyRGB(img)
}

func sharpen(img *raster.Image, keepAlpha bool) *raster.Image {
	return sharpenKernel.Convolve(img, keepAlpha)
}
