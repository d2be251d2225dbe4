package stats

import (
	"math"
	"sort"
)

// Quantile returns the p-th quantile (0 <= p <= 1) of data using linear
// interpolation between closest ranks, h = (n-1)p. This is the default
// definition of numpy/pandas, so tables stay comparable with feature sets
// computed by those tools. gonum's stat.Quantile only offers the Empirical
// and LinInterp (p·n) definitions.
func Quantile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 || math.IsNaN(p) {
		return math.NaN()
	}
	sorted := sortedCopy(data)
	return quantileSorted(sorted, p)
}

func quantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// Median returns the 0.5 quantile
func Median(data []float64) float64 {
	return Quantile(data, 0.5)
}

// IQR returns Q3 - Q1
func IQR(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := sortedCopy(data)
	return quantileSorted(sorted, 0.75) - quantileSorted(sorted, 0.25)
}

// Mode returns the most frequent value. Ties resolve to the smallest value.
func Mode(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := sortedCopy(data)

	best, bestCount := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if count := j - i; count > bestCount {
			best, bestCount = sorted[i], count
		}
		i = j
	}
	return best
}

func sortedCopy(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}
