package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the FFT of a real signal using mjibson/go-dsp
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	// go-dsp handles non-power-of-2 sizes (Bluestein)
	return fft.FFTReal(x)
}

// ComputeInverseReal computes the inverse FFT and returns the real part only
func (f *FFT) ComputeInverseReal(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := fft.IFFT(x)
	realResult := make([]float64, len(result))

	for i, val := range result {
		realResult[i] = real(val)
	}

	return realResult
}

// FFTFreq returns the sample frequencies of an n-point DFT with sample
// spacing d, in the standard order: 0, 1, ..., ceil(n/2)-1, -floor(n/2), ..., -1
// all divided by d*n
func FFTFreq(n int, d float64) []float64 {
	if n <= 0 {
		return []float64{}
	}

	freqs := make([]float64, n)
	scale := 1.0 / (float64(n) * d)
	positive := (n-1)/2 + 1

	for i := 0; i < positive; i++ {
		freqs[i] = float64(i) * scale
	}
	for i := positive; i < n; i++ {
		freqs[i] = float64(i-n) * scale
	}

	return freqs
}
