package windowing

import "fmt"

// Window is a fixed-size tapering function
type Window interface {
	Apply(signal []float64) []float64
	ApplyInPlace(signal []float64) error
	GetCoefficients() []float64
	GetSize() int
	GetType() string
}

// Types lists the window names accepted by New
var Types = []string{"hann", "hamming", "blackman", "rectangular"}

// New creates a window by name
func New(kind string, size int, symmetric bool) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid window size %d", size)
	}
	switch kind {
	case "hann", "hanning":
		return NewHann(size, symmetric), nil
	case "hamming":
		return NewHamming(size, symmetric), nil
	case "blackman":
		return NewBlackman(size, symmetric), nil
	case "rectangular", "boxcar", "none":
		return NewRectangular(size), nil
	default:
		return nil, fmt.Errorf("unknown window type %q", kind)
	}
}

// applyCoefficients multiplies signal by coefficients into a new slice
func applyCoefficients(signal, coefficients []float64) []float64 {
	if len(signal) != len(coefficients) {
		return nil
	}
	windowed := make([]float64, len(signal))
	for i := range signal {
		windowed[i] = signal[i] * coefficients[i]
	}
	return windowed
}

func applyCoefficientsInPlace(signal, coefficients []float64) error {
	if len(signal) != len(coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(coefficients))
	}
	for i := range signal {
		signal[i] *= coefficients[i]
	}
	return nil
}
