package raster

import (
	"fmt"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is a lossless output encoding.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists the supported output encodings.
var Formats = []Format{PNG, BMP, TIFF}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tiff", "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	}
	return "image/png"
}

// Encode writes img to w in the requested format.
func Encode(w io.Writer, img *Image, f Format) error {
	m := img.NRGBA()

	switch f {
	case PNG, "":
		enc := png.Encoder{
			CompressionLevel: png.DefaultCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, m); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case BMP:
		if err := bmp.Encode(w, m); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case TIFF:
		if err := tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}

	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
