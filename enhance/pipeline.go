// Package enhance prepares images for text recognition: grayscale,
// contrast, brightness and sharpening, applied in that order.
package enhance

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"ocrprep/raster"
)

var (
	ErrDecode         = errors.New("could not decode image")
	ErrEncode         = errors.New("could not encode image")
	ErrInvalidOptions = errors.New("invalid enhancement options")
)

// Apply runs the enabled steps on a copy of img. The source image is never
// modified, the returned image belongs to the caller.
func Apply(logger *slog.Logger, img *raster.Image, opts Options) (*raster.Image, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	out := img.Clone()

	if opts.Grayscale {
		grayscale(out)
	}
	if opts.Contrast != 0 {
		contrast(out, opts.Contrast)
	}
	if opts.Brightness != 0 {
		brightness(out, opts.Brightness)
	}
	if opts.Sharpen {
		out = sharpen(out, opts.PreserveAlpha)
	}

	if opts.Denoise {
		logger.Debug("denoise requested, no filter available")
	}
	if opts.AutoRotate {
		logger.Debug("auto-rotate requested, no rotation available")
	}

	return out, nil
}

// Enhance decodes an image from r, applies opts and writes the result to w in
// the given lossless format. Images above the pixel limit fail with ErrDecode
// wrapping raster.ErrTooLarge.
func Enhance(logger *slog.Logger, r io.Reader, w io.Writer, opts Options, format raster.Format) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	img, _, err := raster.Decode(r, opts.pixelLimit())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	out, err := Apply(logger, img, opts)
	if err != nil {
		return err
	}

	if err := raster.Encode(w, out, format); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// EnhanceBytes is Enhance for in-memory images, producing PNG.
func EnhanceBytes(logger *slog.Logger, src []byte, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Enhance(logger, bytes.NewReader(src), &buf, opts, raster.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
