package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHannSymmetric(t *testing.T) {
	w := NewHann(5, true).GetCoefficients()
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 0.5, 0}, w, 1e-12)
}

func TestHannInteriorHasNoZeros(t *testing.T) {
	w := NewHannInterior(3).GetCoefficients()
	require.Len(t, w, 3)
	assert.InDeltaSlice(t, []float64{0.5, 1, 0.5}, w, 1e-12)
}

func TestHammingEndpoints(t *testing.T) {
	w := NewHamming(5, true).GetCoefficients()
	assert.InDelta(t, 0.08, w[0], 1e-12)
	assert.InDelta(t, 1.0, w[2], 1e-12)
	assert.InDelta(t, 0.08, w[4], 1e-12)
}

func TestNewWindow(t *testing.T) {
	w, err := New("hamming", 4, false)
	require.NoError(t, err)
	assert.Equal(t, "hamming", w.GetType())
	assert.Equal(t, 4, w.GetSize())

	out := w.Apply([]float64{1, 1, 1, 1})
	assert.Len(t, out, 4)
	assert.Nil(t, w.Apply([]float64{1}))
	assert.Error(t, w.ApplyInPlace([]float64{1}))

	_, err = New("triangle", 4, false)
	assert.Error(t, err)
	_, err = New("hann", 0, false)
	assert.Error(t, err)
}

func TestBlackmanSymmetric(t *testing.T) {
	w := NewBlackman(5, true).GetCoefficients()
	assert.InDeltaSlice(t, []float64{0, 0.34, 1, 0.34, 0}, w, 1e-12)
}

func TestAllTypesConstruct(t *testing.T) {
	for _, kind := range Types {
		w, err := New(kind, 8, true)
		require.NoError(t, err, kind)
		assert.Equal(t, kind, w.GetType())
		assert.Len(t, w.GetCoefficients(), 8)
	}

	r := NewRectangular(3)
	assert.Equal(t, []float64{2, 3, 4}, r.Apply([]float64{2, 3, 4}))
}
