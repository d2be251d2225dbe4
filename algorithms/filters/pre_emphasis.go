package filters

import (
	"fmt"
)

// PreEmphasis implements a first-order pre-emphasis filter for speech.
// Pre-emphasis compensates for the spectral roll-off of voiced speech
// (about -6 dB/octave from the glottal source), which improves the
// conditioning of linear prediction.
//
// The filter implements the transfer function:
// H(z) = 1 - α*z^-1
//
// With the difference equation:
// y[n] = x[n] - α*x[n-1]
//
// References:
//   - L.R. Rabiner, R.W. Schafer, "Digital Processing of Speech Signals",
//     Prentice-Hall, 1978, Chapter 4
type PreEmphasis struct {
	coefficient float64 // Pre-emphasis coefficient α
	lastSample  float64 // Previous input sample x[n-1]
}

// DefaultPreEmphasis is the coefficient commonly used for speech
const DefaultPreEmphasis = 0.97

// NewPreEmphasis creates a pre-emphasis filter with specified coefficient.
//
// Parameters:
//   - coefficient: Pre-emphasis coefficient α (0.0 <= α < 1.0)
//     Higher values = more emphasis of high frequencies
func NewPreEmphasis(coefficient float64) *PreEmphasis {
	return &PreEmphasis{coefficient: coefficient}
}

// NewPreEmphasisDefault creates a pre-emphasis filter with α = 0.97
func NewPreEmphasisDefault() *PreEmphasis {
	return NewPreEmphasis(DefaultPreEmphasis)
}

// Process applies pre-emphasis filtering to a single sample.
// Implements: y[n] = x[n] - α*x[n-1]
func (pe *PreEmphasis) Process(input float64) float64 {
	output := input - pe.coefficient*pe.lastSample
	pe.lastSample = input
	return output
}

// ProcessBuffer filters a block of samples, carrying state across calls
func (pe *PreEmphasis) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, x := range input {
		output[i] = pe.Process(x)
	}
	return output
}

// Apply filters a whole signal from a zero initial state. The first
// output sample equals the first input sample.
func (pe *PreEmphasis) Apply(signal []float64) []float64 {
	pe.Reset()
	return pe.ProcessBuffer(signal)
}

// Reset clears the filter state
func (pe *PreEmphasis) Reset() {
	pe.lastSample = 0.0
}

// SetCoefficient changes α
func (pe *PreEmphasis) SetCoefficient(coefficient float64) error {
	if coefficient < 0.0 || coefficient >= 1.0 {
		return fmt.Errorf("pre-emphasis coefficient must be in [0, 1), got %f", coefficient)
	}
	pe.coefficient = coefficient
	return nil
}

// GetCoefficient returns α
func (pe *PreEmphasis) GetCoefficient() float64 {
	return pe.coefficient
}
