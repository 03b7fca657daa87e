package enhance

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxContrast bounds the contrast adjustment on both sides. The contrast
// factor has a pole at 259.
const MaxContrast = 255

// DefaultMaxPixels bounds decoded images when Options.MaxPixels is unset.
const DefaultMaxPixels = 1 << 26

// Options selects the enhancement steps. The zero value disables everything.
type Options struct {
	Grayscale  bool    `yaml:"grayscale" json:"grayscale"`
	Contrast   float64 `yaml:"contrast" json:"contrast"`
	Brightness float64 `yaml:"brightness" json:"brightness"`
	Sharpen    bool    `yaml:"sharpen" json:"sharpen"`

	// Denoise and AutoRotate are accepted but have no effect on the pixels.
	Denoise    bool `yaml:"denoise" json:"denoise"`
	AutoRotate bool `yaml:"autoRotate" json:"autoRotate"`

	// PreserveAlpha keeps the source alpha through sharpening. Without it the
	// sharpened image is fully opaque.
	PreserveAlpha bool `yaml:"preserveAlpha" json:"preserveAlpha"`

	// MaxPixels rejects larger images before they are decoded. Zero means
	// DefaultMaxPixels.
	MaxPixels int `yaml:"maxPixels" json:"maxPixels"`
}

func (o Options) Validate() error {
	if math.IsNaN(o.Contrast) || o.Contrast < -MaxContrast || o.Contrast > MaxContrast {
		return fmt.Errorf("%w: contrast %v outside [-%d, %d]", ErrInvalidOptions, o.Contrast, MaxContrast, MaxContrast)
	}
	if math.IsNaN(o.Brightness) || math.IsInf(o.Brightness, 0) {
		return fmt.Errorf("%w: brightness %v is not a finite number", ErrInvalidOptions, o.Brightness)
	}
	if o.MaxPixels < 0 {
		return fmt.Errorf("%w: negative pixel limit %d", ErrInvalidOptions, o.MaxPixels)
	}
	return nil
}

// Merge returns o overridden by every enabled switch and non-zero value of over.
func (o Options) Merge(over Options) Options {
	o.Grayscale = o.Grayscale || over.Grayscale
	o.Sharpen = o.Sharpen || over.Sharpen
	o.Denoise = o.Denoise || over.Denoise
	o.AutoRotate = o.AutoRotate || over.AutoRotate
	o.PreserveAlpha = o.PreserveAlpha || over.PreserveAlpha
	if over.Contrast != 0 {
		o.Contrast = over.Contrast
	}
	if over.Brightness != 0 {
		o.Brightness = over.Brightness
	}
	if over.MaxPixels != 0 {
		o.MaxPixels = over.MaxPixels
	}
	return o
}

// Identity reports whether no step changes pixels.
func (o Options) Identity() bool {
	return !o.Grayscale && o.Contrast == 0 && o.Brightness == 0 && !o.Sharpen
}

func (o Options) pixelLimit() int {
	if o.MaxPixels == 0 {
		return DefaultMaxPixels
	}
	return o.MaxPixels
}

// ReadOptions parses a YAML preset. Unknown keys are rejected.
func ReadOptions(r io.Reader) (Options, error) {
	var opts Options
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("%w: could not parse preset: %w", ErrInvalidOptions, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptions reads a YAML preset from a file.
func LoadOptions(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("could not open preset %q: %w", path, err)
	}
	defer f.Close()

	opts, err := ReadOptions(f)
	if err != nil {
		return Options{}, fmt.Errorf("invalid preset %q: %w", path, err)
	}
	return opts, nil
}
