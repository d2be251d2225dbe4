package temporal

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Total returns the signal energy Σx²
func Total(signal []float64) float64 {
	return floats.Dot(signal, signal)
}

// RMSE returns the root-mean-square amplitude √(Σx²/N), 0 for an empty signal
func RMSE(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}
	return math.Sqrt(Total(signal) / float64(len(signal)))
}
