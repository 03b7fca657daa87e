package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKernelValidation(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		side    int
		err     bool
	}{
		{name: "empty", err: true},
		{name: "not square", weights: []float64{1, 2, 3}, err: true},
		{name: "even side", weights: []float64{1, 1, 1, 1}, err: true},
		{name: "identity 1x1", weights: []float64{1}, side: 1},
		{name: "3x3", weights: make([]float64, 9), side: 3},
		{name: "5x5", weights: make([]float64, 25), side: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKernel(tt.weights...)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.side, k.Side())
		})
	}
}

func TestMustKernelPanics(t *testing.T) {
	assert.Panics(t, func() { MustKernel(1, 2) })
}

func TestConvolveIdentity(t *testing.T) {
	src, err := FromPix(2, 2, []uint8{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	})
	require.NoError(t, err)

	k := MustKernel(0, 0, 0, 0, 1, 0, 0, 0, 0)

	kept := k.Convolve(src, true)
	assert.Equal(t, src.Pix, kept.Pix)

	opaque := k.Convolve(src, false)
	for i := 0; i < len(opaque.Pix); i += 4 {
		assert.Equal(t, src.Pix[i:i+3], opaque.Pix[i:i+3])
		assert.Equal(t, uint8(255), opaque.Pix[i+3])
	}
}

func TestConvolveSkipsOutOfBoundsTaps(t *testing.T) {
	// A box kernel over a 1x3 strip of 30s: the ends see two taps, the
	// middle sees three.
	src, err := FromPix(3, 1, []uint8{
		30, 30, 30, 255,
		30, 30, 30, 255,
		30, 30, 30, 255,
	})
	require.NoError(t, err)

	k := MustKernel(1, 1, 1, 1, 1, 1, 1, 1, 1)
	dst := k.Convolve(src, true)

	assert.Equal(t, uint8(60), dst.Pix[0])
	assert.Equal(t, uint8(90), dst.Pix[4])
	assert.Equal(t, uint8(60), dst.Pix[8])
}

func TestConvolveDoesNotMutateSource(t *testing.T) {
	src, err := FromPix(1, 1, []uint8{100, 100, 100, 0})
	require.NoError(t, err)

	k := MustKernel(2)
	dst := k.Convolve(src, false)

	assert.Equal(t, []uint8{100, 100, 100, 0}, src.Pix)
	assert.Equal(t, []uint8{200, 200, 200, 255}, dst.Pix)
}
