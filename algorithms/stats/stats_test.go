package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	data := []float64{4, 1, 3, 2}

	assert.InDelta(t, 1.75, Quantile(data, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Median(data), 1e-12)
	assert.InDelta(t, 3.25, Quantile(data, 0.75), 1e-12)
	assert.InDelta(t, 1.5, IQR(data), 1e-12)
	assert.Equal(t, 1.0, Quantile(data, 0))
	assert.Equal(t, 4.0, Quantile(data, 1))

	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	assert.True(t, math.IsNaN(Quantile(data, 1.5)))
	// input is left untouched
	assert.Equal(t, []float64{4, 1, 3, 2}, data)
}

func TestModeBreaksTiesLow(t *testing.T) {
	assert.Equal(t, 2.0, Mode([]float64{3, 2, 3, 2, 1}))
	assert.Equal(t, 5.0, Mode([]float64{5, 5, 5, 1}))
	assert.Equal(t, 0.0, Mode([]float64{0.5, 0}))
	assert.True(t, math.IsNaN(Mode(nil)))
}

func TestDescribe(t *testing.T) {
	d, ok := Describe([]float64{1, 2, 3, 4})
	require.True(t, ok)

	assert.InDelta(t, 2.5, d.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), d.StdDev, 1e-12)
	assert.Equal(t, 4.0, d.Max)
	assert.Equal(t, 1.0, d.Min)
	assert.InDelta(t, 2.5, d.Median, 1e-12)
	assert.InDelta(t, 0, d.Skewness, 1e-12)
	// m4/m2^2 - 3 = 2.5625/1.5625 - 3
	assert.InDelta(t, -1.36, d.Kurtosis, 1e-12)
	assert.InDelta(t, 1.75, d.Q1, 1e-12)
	assert.InDelta(t, 3.25, d.Q3, 1e-12)
	assert.Equal(t, 1.0, d.Mode)
	assert.InDelta(t, 1.5, d.IQR, 1e-12)
	assert.Len(t, d.Values(), 11)

	_, ok = Describe(nil)
	assert.False(t, ok)
}

func TestDescribeConstantSample(t *testing.T) {
	d, ok := Describe([]float64{7, 7, 7})
	require.True(t, ok)
	assert.Equal(t, 0.0, d.StdDev)
	assert.True(t, math.IsNaN(d.Skewness))
	assert.True(t, math.IsNaN(d.Kurtosis))
	assert.Equal(t, 7.0, d.Mode)
}

func TestAutoCorrelationMatchesDirectSum(t *testing.T) {
	x := []float64{1, -2, 3, 0.5, -1}
	r, err := NewAutoCorrelation(3).Compute(x)
	require.NoError(t, err)
	require.Len(t, r, 4)

	for lag := 0; lag < 4; lag++ {
		want := 0.0
		for i := 0; i+lag < len(x); i++ {
			want += x[i] * x[i+lag]
		}
		assert.InDelta(t, want, r[lag], 1e-9, "lag %d", lag)
	}

	_, err = NewAutoCorrelation(3).Compute(nil)
	assert.Error(t, err)
}

func TestNormalizedCrossCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 1, 2, 3, 0, 0, 0}
	assert.InDelta(t, 1.0, NormalizedCrossCorrelation(x, 0, 3, 3), 1e-12)
	assert.Equal(t, 0.0, NormalizedCrossCorrelation(x, 0, 6, 3))
	assert.Equal(t, 0.0, NormalizedCrossCorrelation(x, 0, 8, 3))
}

func TestFitProjectionDeterministic(t *testing.T) {
	data := [][]float64{
		{1, 10, 0.5},
		{2, 18, 0.1},
		{3, 33, 0.9},
		{4, 41, 0.3},
		{5, 48, math.NaN()},
	}

	first, model, err := FitTransform(data, 2)
	require.NoError(t, err)
	second, _, err := FitTransform(data, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, len(data))
	for _, row := range first {
		require.Len(t, row, 2)
		assert.False(t, math.IsNaN(row[0]) || math.IsNaN(row[1]))
	}

	// projected scores are centred
	for c := 0; c < 2; c++ {
		sum := 0.0
		for _, row := range first {
			sum += row[c]
		}
		assert.InDelta(t, 0, sum, 1e-9)
	}
	assert.GreaterOrEqual(t, model.Variances[0], model.Variances[1])
}

func TestFitProjectionSignConvention(t *testing.T) {
	data := [][]float64{{1, 2}, {2, 4.5}, {3, 5.5}, {4, 8}}
	model, err := FitProjection(data, 2)
	require.NoError(t, err)

	rows, cols := model.Basis.Dims()
	for c := 0; c < cols; c++ {
		maxAbs, val := 0.0, 0.0
		for r := 0; r < rows; r++ {
			if v := model.Basis.At(r, c); math.Abs(v) > maxAbs {
				maxAbs, val = math.Abs(v), v
			}
		}
		assert.Positive(t, val)
	}
}

func TestFitProjectionDropsMissingColumns(t *testing.T) {
	nan := math.NaN()
	data := [][]float64{{1, nan, 3}, {2, nan, 1}, {4, nan, 2}}
	model, err := FitProjection(data, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, model.Kept)
}

func TestFitProjectionInsufficientData(t *testing.T) {
	tests := map[string][][]float64{
		"single row":     {{1, 2, 3}},
		"no rows":        {},
		"constant block": {{1, 1}, {1, 1}, {1, 1}},
		"one varying":    {{1, 5}, {2, 5}, {3, 5}},
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FitProjection(data, 2)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInsufficientDataForProjection))
		})
	}
}
