//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewTesseractNotCompiled(t *testing.T) {
	engine, err := NewTesseract()
	if !errors.Is(err, ErrNotCompiled) {
		t.Fatalf("expected ErrNotCompiled, got %v", err)
	}
	if engine != nil {
		t.Fatalf("expected nil engine, got %T", engine)
	}
}
