package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distribution summarises a sample with the eleven descriptors used by
// the statistical feature set
type Distribution struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"` // Population standard deviation
	Max      float64 `json:"max"`
	Min      float64 `json:"min"`
	Median   float64 `json:"median"`
	Skewness float64 `json:"skewness"` // Biased (Fisher-Pearson) skewness
	Kurtosis float64 `json:"kurtosis"` // Biased excess kurtosis (normal = 0)
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	Mode     float64 `json:"mode"`
	IQR      float64 `json:"iqr"`
}

// Values returns the descriptors in table order
func (d *Distribution) Values() []float64 {
	return []float64{
		d.Mean, d.StdDev, d.Max, d.Min, d.Median,
		d.Skewness, d.Kurtosis, d.Q1, d.Q3, d.Mode, d.IQR,
	}
}

// Describe computes the distribution descriptors of data. It returns false
// for an empty sample.
func Describe(data []float64) (*Distribution, bool) {
	if len(data) == 0 {
		return nil, false
	}

	sorted := sortedCopy(data)
	mean := stat.Mean(data, nil)

	// Central moments about the mean, normalised by n
	m2 := stat.Moment(2, data, nil)
	m3 := stat.Moment(3, data, nil)
	m4 := stat.Moment(4, data, nil)

	skew, kurt := math.NaN(), math.NaN()
	if m2 > 0 {
		skew = m3 / math.Pow(m2, 1.5)
		kurt = m4/(m2*m2) - 3.0
	}

	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)

	return &Distribution{
		Mean:     mean,
		StdDev:   math.Sqrt(m2),
		Max:      floats.Max(data),
		Min:      floats.Min(data),
		Median:   quantileSorted(sorted, 0.5),
		Skewness: skew,
		Kurtosis: kurt,
		Q1:       q1,
		Q3:       q3,
		Mode:     Mode(sorted),
		IQR:      q3 - q1,
	}, true
}
