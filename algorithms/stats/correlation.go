package stats

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-speech/algorithms/common"
)

// AutoCorrelation computes the (unnormalised) autocorrelation
// r[τ] = Σ x[i]·x[i+τ] for τ = 0..maxLag using a zero-padded FFT
type AutoCorrelation struct {
	maxLag int
}

// NewAutoCorrelation creates an autocorrelation calculator
func NewAutoCorrelation(maxLag int) *AutoCorrelation {
	return &AutoCorrelation{maxLag: maxLag}
}

// Compute returns r[0..maxLag]. Lags beyond the signal length are zero.
func (ac *AutoCorrelation) Compute(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if ac.maxLag < 0 {
		return nil, fmt.Errorf("negative max lag %d", ac.maxLag)
	}

	// Padding to 2N avoids circular wrap-around
	size := common.NextPowerOfTwo(2 * len(signal))
	padded := make([]float64, size)
	copy(padded, signal)

	spectrum := fft.FFTReal(padded)
	for i, v := range spectrum {
		mag := cmplx.Abs(v)
		spectrum[i] = complex(mag*mag, 0)
	}
	inverse := fft.IFFT(spectrum)

	result := make([]float64, ac.maxLag+1)
	for lag := 0; lag <= ac.maxLag && lag < len(signal); lag++ {
		result[lag] = real(inverse[lag])
	}
	return result, nil
}

// NormalizedCrossCorrelation returns the Pearson-style normalised
// correlation between x[a:a+n] and x[b:b+n]. It returns 0 when either
// segment is silent or out of range.
func NormalizedCrossCorrelation(x []float64, a, b, n int) float64 {
	if n <= 0 || a < 0 || b < 0 || a+n > len(x) || b+n > len(x) {
		return 0
	}
	s1 := x[a : a+n]
	s2 := x[b : b+n]

	e1 := floats.Dot(s1, s1)
	e2 := floats.Dot(s2, s2)
	if e1 == 0 || e2 == 0 {
		return 0
	}
	return floats.Dot(s1, s2) / math.Sqrt(e1*e2)
}
