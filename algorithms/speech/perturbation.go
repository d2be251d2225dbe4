package speech

import (
	"math"
)

// perturbationSeries is a sequence of per-period values (durations or
// amplitudes) with validity flags. pairOK[i] reports whether values i and
// i+1 may be compared.
type perturbationSeries struct {
	values []float64
	valid  []bool
	pairOK []bool
}

func newPerturbationSeries(values []float64, valid []bool, comparable func(i int) bool) *perturbationSeries {
	s := &perturbationSeries{
		values: values,
		valid:  valid,
	}
	if len(values) > 1 {
		s.pairOK = make([]bool, len(values)-1)
		for i := range s.pairOK {
			s.pairOK[i] = valid[i] && valid[i+1] && comparable(i)
		}
	}
	return s
}

// mean of the valid values, NaN if there are none
func (s *perturbationSeries) mean() float64 {
	sum, n := 0.0, 0
	for i, v := range s.values {
		if s.valid[i] {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// meanAbsDiff averages |v[i+1] - v[i]| over comparable pairs
func (s *perturbationSeries) meanAbsDiff() float64 {
	sum, n := 0.0, 0
	for i, ok := range s.pairOK {
		if ok {
			sum += math.Abs(s.values[i+1] - s.values[i])
			n++
		}
	}
	return average(sum, n)
}

// meanAbsLogRatioDB averages |20·log10(v[i+1]/v[i])| over comparable pairs
func (s *perturbationSeries) meanAbsLogRatioDB() float64 {
	sum, n := 0.0, 0
	for i, ok := range s.pairOK {
		if ok {
			sum += math.Abs(20 * math.Log10(s.values[i+1]/s.values[i]))
			n++
		}
	}
	return average(sum, n)
}

// windowDeviation averages the absolute difference between the centre of
// each length-k window and the window mean. Every adjacent pair inside the
// window must be comparable.
func (s *perturbationSeries) windowDeviation(k int) float64 {
	sum, n := 0.0, 0
	for start := 0; start+k <= len(s.values); start++ {
		ok := true
		for j := start; j < start+k-1; j++ {
			if !s.pairOK[j] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		windowSum := 0.0
		for j := start; j < start+k; j++ {
			windowSum += s.values[j]
		}
		sum += math.Abs(s.values[start+k/2] - windowSum/float64(k))
		n++
	}
	return average(sum, n)
}

// secondDiff averages |(v[i+2]-v[i+1]) - (v[i+1]-v[i])|
func (s *perturbationSeries) secondDiff() float64 {
	sum, n := 0.0, 0
	for i := 0; i+1 < len(s.pairOK); i++ {
		if s.pairOK[i] && s.pairOK[i+1] {
			sum += math.Abs(s.values[i+2] - 2*s.values[i+1] + s.values[i])
			n++
		}
	}
	return average(sum, n)
}

func average(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
