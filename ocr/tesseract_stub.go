//go:build !ocr

package ocr

// NewTesseract reports ErrNotCompiled: this binary has no Tesseract support.
func NewTesseract() (Engine, error) {
	return nil, ErrNotCompiled
}
