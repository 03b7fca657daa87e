package raster

import (
	"fmt"
	"math"
)

// Kernel is a square convolution matrix with an odd side length.
type Kernel struct {
	side    int
	weights []float64
}

// NewKernel builds a kernel from row-major weights. The number of weights must
// be the square of an odd number.
func NewKernel(weights ...float64) (Kernel, error) {
	side := int(math.Round(math.Sqrt(float64(len(weights)))))
	switch {
	case len(weights) == 0:
		return Kernel{}, fmt.Errorf("empty kernel")
	case side*side != len(weights):
		return Kernel{}, fmt.Errorf("kernel with %d weights is not square", len(weights))
	case side%2 == 0:
		return Kernel{}, fmt.Errorf("kernel side must be odd, got %d", side)
	}

	w := make([]float64, len(weights))
	copy(w, weights)
	return Kernel{side: side, weights: w}, nil
}

// MustKernel is like NewKernel but panics on invalid weights.
func MustKernel(weights ...float64) Kernel {
	k, err := NewKernel(weights...)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Kernel) Side() int {
	return k.side
}

// Convolve applies k to the color channels of src and returns a new image.
// Taps falling outside the image contribute nothing. The alpha channel is
// copied from src when keepAlpha is set, otherwise it is written as 255.
func (k Kernel) Convolve(src *Image, keepAlpha bool) *Image {
	half := k.side / 2
	dst := &Image{
		Width:  src.Width,
		Height: src.Height,
		Pix:    make([]uint8, len(src.Pix)),
	}

	for y := range src.Height {
		for x := range src.Width {
			var r, g, b float64
			for ky := range k.side {
				sy := y + ky - half
				if sy < 0 || sy >= src.Height {
					continue
				}
				for kx := range k.side {
					sx := x + kx - half
					if sx < 0 || sx >= src.Width {
						continue
					}
					off := src.Offset(sx, sy)
					wt := k.weights[ky*k.side+kx]
					r += float64(src.Pix[off]) * wt
					g += float64(src.Pix[off+1]) * wt
					b += float64(src.Pix[off+2]) * wt
				}
			}

			off := dst.Offset(x, y)
			dst.Pix[off] = ClampUint8(r)
			dst.Pix[off+1] = ClampUint8(g)
			dst.Pix[off+2] = ClampUint8(b)
			if keepAlpha {
				dst.Pix[off+3] = src.Pix[off+3]
			} else {
				dst.Pix[off+3] = 0xFF
			}
		}
	}

	return dst
}
