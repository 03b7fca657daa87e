// Package ocr hands enhanced images to a text recognition engine. The
// engine itself is an external collaborator: Tesseract through gosseract
// when the binary is built with the "ocr" tag.
package ocr

import (
	"context"
	"errors"
	"strconv"
)

// ErrNotCompiled is returned by NewTesseract when the binary was built
// without the "ocr" tag.
var ErrNotCompiled = errors.New("OCR support not compiled in, rebuild with -tags ocr")

// Input is a single encoded image submitted for recognition.
type Input struct {
	// ID is echoed back in the Result.
	ID string
	// Image holds the encoded image bytes (PNG, TIFF, ...).
	Image []byte
	// Languages are trained data names such as "eng" or "deu".
	Languages []string
	// Metadata carries engine variables, e.g. tessedit_pageseg_mode.
	Metadata map[string]string
}

// Result is the recognized text for one Input.
type Result struct {
	ID         string
	Text       string
	Confidence float64
	Language   string
}

type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

type Option func(*Input)

func WithLanguages(langs ...string) Option {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithPageSegMode sets the Tesseract page segmentation mode.
func WithPageSegMode(mode int) Option {
	return func(in *Input) { setVariable(in, "tessedit_pageseg_mode", strconv.Itoa(mode)) }
}

// WithWhitelist restricts recognition to the given characters.
func WithWhitelist(chars string) Option {
	return func(in *Input) { setVariable(in, "tessedit_char_whitelist", chars) }
}

func NewInput(id string, image []byte, opts ...Option) Input {
	in := Input{ID: id, Image: image}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

func setVariable(in *Input, key, value string) {
	if in.Metadata == nil {
		in.Metadata = make(map[string]string)
	}
	in.Metadata[key] = value
}
