package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Image is a tightly packed, non-premultiplied RGBA pixel buffer. The pixel at
// (x, y) starts at Pix[(y*Width+x)*4].
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed (transparent black) image.
func New(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// FromPix wraps an existing RGBA buffer after checking its length.
func FromPix(width, height int, pix []uint8) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel buffer has %d bytes, %dx%d needs %d", len(pix), width, height, width*height*4)
	}
	return &Image{Width: width, Height: height, Pix: pix}, nil
}

// ErrTooLarge is returned by Decode when an image header announces more
// pixels than allowed.
var ErrTooLarge = errors.New("image too large")

// FromImage copies any image.Image into a new buffer. Colors are converted
// through color.NRGBAModel, so non-premultiplied sources keep their exact
// channel values.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	img, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	switch s := src.(type) {
	case *image.NRGBA:
		rowLen := 4 * img.Width
		for y := range img.Height {
			off := s.PixOffset(b.Min.X, b.Min.Y+y)
			copy(img.Pix[y*rowLen:(y+1)*rowLen], s.Pix[off:off+rowLen])
		}
	case *image.Paletted:
		palette := make([]color.NRGBA, len(s.Palette))
		for i, c := range s.Palette {
			palette[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
		for y := range img.Height {
			for x := range img.Width {
				idx := int(s.ColorIndexAt(b.Min.X+x, b.Min.Y+y))
				if idx < len(palette) {
					img.set(x, y, palette[idx])
				}
			}
		}
	default:
		for y := range img.Height {
			for x := range img.Width {
				img.set(x, y, color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA))
			}
		}
	}
	return img, nil
}

func (img *Image) set(x, y int, c color.NRGBA) {
	i := img.Offset(x, y)
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = c.A
}

// Decode reads an image in any registered format. When maxPixels is positive,
// images whose header announces more pixels are rejected with ErrTooLarge
// before any pixel data is read.
func Decode(r io.Reader, maxPixels int) (*Image, string, error) {
	var head bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, "", err
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, format, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	src, format, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, format, err
	}

	img, err := FromImage(src)
	if err != nil {
		return nil, format, err
	}
	return img, format, nil
}

// NRGBA returns an image.Image view sharing the same pixel buffer.
func (img *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: 4 * img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{Width: img.Width, Height: img.Height, Pix: pix}
}

// Offset returns the index of the red channel of pixel (x, y).
func (img *Image) Offset(x, y int) int {
	return (y*img.Width + x) * 4
}

// ClampUint8 stores a computed channel value the way a clamped byte array
// does: NaN becomes 0, values are clamped to [0, 255] and rounded half to even.
func ClampUint8(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.RoundToEven(v))
}
