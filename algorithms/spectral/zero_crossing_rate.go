package spectral

import (
	"math"
)

// DefaultZeroThreshold is the magnitude at or below which a sample counts
// as exactly zero
const DefaultZeroThreshold = 1e-10

// ZeroCrossingRate counts sign changes of a waveform
type ZeroCrossingRate struct {
	sampleRate int
	threshold  float64
}

// NewZeroCrossingRate creates a new zero crossing calculator
func NewZeroCrossingRate(sampleRate int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		sampleRate: sampleRate,
		threshold:  DefaultZeroThreshold,
	}
}

// NewZeroCrossingRateWithThreshold creates calculator with a custom zero threshold
func NewZeroCrossingRateWithThreshold(sampleRate int, threshold float64) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		sampleRate: sampleRate,
		threshold:  threshold,
	}
}

// Count returns the number of sign changes between consecutive samples.
// Samples with |x| <= threshold are clipped to zero and zero is positive,
// so the first sample never counts as a crossing.
func (zcr *ZeroCrossingRate) Count(signal []float64) int {
	if len(signal) < 2 {
		return 0
	}

	crossings := 0
	prev := zcr.negative(signal[0])
	for _, x := range signal[1:] {
		cur := zcr.negative(x)
		if cur != prev {
			crossings++
		}
		prev = cur
	}
	return crossings
}

// Compute returns the crossing rate in crossings per second
func (zcr *ZeroCrossingRate) Compute(signal []float64) float64 {
	if len(signal) < 2 || zcr.sampleRate <= 0 {
		return 0.0
	}
	duration := float64(len(signal)) / float64(zcr.sampleRate)
	return float64(zcr.Count(signal)) / duration
}

func (zcr *ZeroCrossingRate) negative(x float64) bool {
	if math.Abs(x) <= zcr.threshold {
		return false
	}
	return math.Signbit(x)
}
