package speech

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-speech/algorithms/stats"
)

// LPCMethod selects how predictor coefficients are estimated
type LPCMethod int

const (
	// LPCBurg minimises forward and backward prediction error directly on
	// the samples
	LPCBurg LPCMethod = iota
	// LPCAutocorrelation solves the normal equations with Levinson-Durbin
	LPCAutocorrelation
)

// String returns the method name used in configuration
func (m LPCMethod) String() string {
	switch m {
	case LPCAutocorrelation:
		return "autocorrelation"
	default:
		return "burg"
	}
}

// ParseLPCMethod parses "burg" or "autocorrelation" (also "levinson")
func ParseLPCMethod(s string) (LPCMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "burg":
		return LPCBurg, nil
	case "autocorrelation", "levinson", "levinson-durbin":
		return LPCAutocorrelation, nil
	default:
		return LPCBurg, fmt.Errorf("unknown LPC method %q", s)
	}
}

// LPCAnalyzer performs Linear Predictive Coding analysis.
// LPC models the vocal tract as an all-pole filter, essential for
// formant extraction and vocal tract modeling
type LPCAnalyzer struct {
	sampleRate int
	order      int
	method     LPCMethod
}

// LPCResult contains LPC analysis results
type LPCResult struct {
	// Inverse filter A(z) = 1 + a1·z^-1 + ... + ap·z^-p as [1, a1, ..., ap]
	Coefficients    []float64 `json:"coefficients"`
	ReflectionCoeff []float64 `json:"reflection_coeff"` // k1..kp
	ResidualEnergy  float64   `json:"residual_energy"`  // Final prediction error energy
	Order           int       `json:"order"`
	Method          LPCMethod `json:"method"`
	StabilityCheck  bool      `json:"stability_check"` // All |k| < 1
}

// NewLPCAnalyzer creates a Burg LPC analyzer. A non-positive order selects
// 2 + sampleRate/1000, enough poles for one formant per kHz.
func NewLPCAnalyzer(sampleRate int, order int) *LPCAnalyzer {
	return NewLPCAnalyzerWithMethod(sampleRate, order, LPCBurg)
}

// NewLPCAnalyzerWithMethod creates an analyzer using the given method
func NewLPCAnalyzerWithMethod(sampleRate int, order int, method LPCMethod) *LPCAnalyzer {
	if order <= 0 {
		order = 2 + sampleRate/1000
	}

	return &LPCAnalyzer{
		sampleRate: sampleRate,
		order:      order,
		method:     method,
	}
}

// Order returns the prediction order
func (lpc *LPCAnalyzer) Order() int {
	return lpc.order
}

// Analyze performs LPC analysis on the input signal
func (lpc *LPCAnalyzer) Analyze(signal []float64) (*LPCResult, error) {
	if len(signal) <= lpc.order {
		return nil, fmt.Errorf("signal of %d samples too short for LPC analysis of order %d", len(signal), lpc.order)
	}
	for i, x := range signal {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("non-finite sample at index %d", i)
		}
	}

	var (
		coeffs, reflection []float64
		energy             float64
		err                error
	)
	switch lpc.method {
	case LPCAutocorrelation:
		r, acErr := stats.NewAutoCorrelation(lpc.order).Compute(signal)
		if acErr != nil {
			return nil, fmt.Errorf("autocorrelation computation failed: %w", acErr)
		}
		coeffs, reflection, energy, err = levinsonDurbin(r, lpc.order)
		if err != nil {
			return nil, fmt.Errorf("Levinson-Durbin recursion failed: %w", err)
		}
	default:
		coeffs, reflection, energy = burg(signal, lpc.order)
	}

	return &LPCResult{
		Coefficients:    coeffs,
		ReflectionCoeff: reflection,
		ResidualEnergy:  energy,
		Order:           lpc.order,
		Method:          lpc.method,
		StabilityCheck:  checkStability(reflection),
	}, nil
}

// burg estimates the inverse filter with Burg's recursion
func burg(signal []float64, order int) ([]float64, []float64, float64) {
	coeffs := make([]float64, order+1)
	prev := make([]float64, order+1)
	coeffs[0], prev[0] = 1, 1
	reflection := make([]float64, order)

	fwd := append([]float64(nil), signal[1:]...)
	bwd := append([]float64(nil), signal[:len(signal)-1]...)

	den := floats.Dot(fwd, fwd) + floats.Dot(bwd, bwd)
	for i := 0; i < order; i++ {
		k := -2 * floats.Dot(bwd, fwd) / (den + math.SmallestNonzeroFloat64)
		reflection[i] = k

		coeffs, prev = prev, coeffs
		for j := 1; j <= i+1; j++ {
			coeffs[j] = prev[j] + k*prev[i-j+1]
		}

		for n := range fwd {
			f, b := fwd[n], bwd[n]
			fwd[n] = f + k*b
			bwd[n] = b + k*f
		}

		den = (1-k*k)*den - bwd[len(bwd)-1]*bwd[len(bwd)-1] - fwd[0]*fwd[0]
		fwd = fwd[1:]
		bwd = bwd[:len(bwd)-1]
		if len(fwd) == 0 {
			break
		}
	}

	return coeffs, reflection, math.Max(den, 0) / 2
}

// levinsonDurbin solves the normal equations for autocorrelation r in
// inverse filter form
func levinsonDurbin(r []float64, order int) ([]float64, []float64, float64, error) {
	if len(r) < order+1 {
		return nil, nil, 0, fmt.Errorf("insufficient autocorrelation values")
	}
	if r[0] == 0 {
		return nil, nil, 0, fmt.Errorf("zero energy signal")
	}

	a := make([]float64, order+1)
	tmp := make([]float64, order+1)
	k := make([]float64, order)
	a[0] = 1
	energy := r[0]

	for i := 1; i <= order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc += a[j] * r[i-j]
		}
		if energy <= 0 {
			return nil, nil, 0, fmt.Errorf("prediction error energy became zero at order %d", i)
		}

		ki := -acc / energy
		k[i-1] = ki

		copy(tmp, a)
		a[i] = ki
		for j := 1; j < i; j++ {
			a[j] = tmp[j] + ki*tmp[i-j]
		}

		energy *= 1 - ki*ki
	}

	return a, k, energy, nil
}

// checkStability reports whether the all-pole filter is minimum phase
func checkStability(reflection []float64) bool {
	for _, k := range reflection {
		if math.Abs(k) >= 1 {
			return false
		}
	}
	return true
}
