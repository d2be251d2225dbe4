package speech

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-speech/algorithms/common"
	"github.com/RyanBlaney/sonido-speech/algorithms/filters"
	"github.com/RyanBlaney/sonido-speech/algorithms/windowing"
)

// FormantParams controls frame-level formant tracking
type FormantParams struct {
	FrameDuration    float64 `json:"frame_duration"` // Seconds
	HopDuration      float64 `json:"hop_duration"`   // Seconds
	PreEmphasis      float64 `json:"pre_emphasis"`
	Window           string  `json:"window"`    // One of windowing.Types
	LPCOrder         int     `json:"lpc_order"` // 0 selects 2 + sampleRate/1000
	MaxFormants      int     `json:"max_formants"`
	MinFrequency     float64 `json:"min_frequency"`     // Hz
	MaxBandwidth     float64 `json:"max_bandwidth"`     // Hz
	SilenceThreshold float64 `json:"silence_threshold"` // Frame peak relative to global peak
}

// DefaultFormantParams returns 25 ms frames every 10 ms, tracking F1-F3
func DefaultFormantParams() FormantParams {
	return FormantParams{
		FrameDuration:    0.025,
		HopDuration:      0.010,
		PreEmphasis:      filters.DefaultPreEmphasis,
		Window:           "hamming",
		MaxFormants:      3,
		MinFrequency:     90,
		MaxBandwidth:     400,
		SilenceThreshold: 0.03,
	}
}

// FormantData represents a single formant measurement
type FormantData struct {
	Frequency float64 `json:"frequency"` // Formant frequency (Hz)
	Bandwidth float64 `json:"bandwidth"` // Formant bandwidth (Hz)
}

// FormantFrame holds the formants of one analysis frame. Frequencies has
// MaxFormants entries; missing formants and silent frames are 0.
type FormantFrame struct {
	Time        float64   `json:"time"`
	Frequencies []float64 `json:"frequencies"`
}

// FormantAnalyzer extracts vocal tract resonances (formants) from speech.
// Formants are the roots of the LPC inverse filter that lie close to the
// unit circle.
type FormantAnalyzer struct {
	sampleRate int
	params     FormantParams

	lpcAnalyzer *LPCAnalyzer
}

// NewFormantAnalyzer creates a new formant analyzer with default parameters
func NewFormantAnalyzer(sampleRate int) *FormantAnalyzer {
	return NewFormantAnalyzerWithParams(sampleRate, DefaultFormantParams())
}

// NewFormantAnalyzerWithParams creates formant analyzer with custom parameters
func NewFormantAnalyzerWithParams(sampleRate int, params FormantParams) *FormantAnalyzer {
	return &FormantAnalyzer{
		sampleRate:  sampleRate,
		params:      params,
		lpcAnalyzer: NewLPCAnalyzer(sampleRate, params.LPCOrder),
	}
}

// AnalyzeFrames tracks formants over the whole signal
func (f *FormantAnalyzer) AnalyzeFrames(signal []float64) ([]FormantFrame, error) {
	if f.sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", f.sampleRate)
	}
	sr := float64(f.sampleRate)
	frameSize := int(math.Round(f.params.FrameDuration * sr))
	hopSize := common.MaxInt(1, int(math.Round(f.params.HopDuration*sr)))
	if frameSize <= f.lpcAnalyzer.Order() {
		return nil, fmt.Errorf("frame of %d samples too short for LPC order %d", frameSize, f.lpcAnalyzer.Order())
	}
	if len(signal) < frameSize {
		return nil, fmt.Errorf("signal too short for formant analysis (need at least %d samples)", frameSize)
	}

	emphasized := filters.NewPreEmphasis(f.params.PreEmphasis).Apply(signal)
	window, err := windowing.New(f.params.Window, frameSize, true)
	if err != nil {
		return nil, err
	}
	globalPeak := common.PeakAmplitude(signal)

	numFrames := (len(signal)-frameSize)/hopSize + 1
	frames := make([]FormantFrame, numFrames)

	for i := 0; i < numFrames; i++ {
		start := i * hopSize
		frames[i] = FormantFrame{
			Time:        (float64(start) + float64(frameSize)/2) / sr,
			Frequencies: make([]float64, f.params.MaxFormants),
		}

		if globalPeak == 0 || common.PeakAmplitude(signal[start:start+frameSize]) < f.params.SilenceThreshold*globalPeak {
			continue
		}

		formants, err := f.AnalyzeFrame(window.Apply(emphasized[start : start+frameSize]))
		if err != nil {
			continue
		}
		for j := 0; j < len(formants) && j < f.params.MaxFormants; j++ {
			frames[i].Frequencies[j] = formants[j].Frequency
		}
	}

	return frames, nil
}

// AnalyzeFrame returns the formant candidates of one windowed frame sorted
// by frequency
func (f *FormantAnalyzer) AnalyzeFrame(frame []float64) ([]FormantData, error) {
	lpcResult, err := f.lpcAnalyzer.Analyze(frame)
	if err != nil {
		return nil, fmt.Errorf("LPC analysis failed: %w", err)
	}

	roots, err := polynomialRoots(lpcResult.Coefficients)
	if err != nil {
		return nil, fmt.Errorf("formant extraction failed: %w", err)
	}

	sr := float64(f.sampleRate)
	var formants []FormantData
	for _, z := range roots {
		if imag(z) < 0 {
			continue
		}
		radius := cmplx.Abs(z)
		if radius == 0 {
			continue
		}
		freq := math.Atan2(imag(z), real(z)) * sr / (2 * math.Pi)
		bandwidth := -math.Log(radius) * sr / math.Pi

		if freq > f.params.MinFrequency && freq < sr/2 && bandwidth < f.params.MaxBandwidth {
			formants = append(formants, FormantData{Frequency: freq, Bandwidth: bandwidth})
		}
	}

	sort.Slice(formants, func(i, j int) bool {
		return formants[i].Frequency < formants[j].Frequency
	})
	return formants, nil
}

// polynomialRoots returns the roots of z^p + c1·z^(p-1) + ... + cp for
// coefficients [1, c1, ..., cp] as the eigenvalues of the companion matrix
func polynomialRoots(coeffs []float64) ([]complex128, error) {
	p := len(coeffs) - 1
	if p < 1 {
		return nil, nil
	}
	if coeffs[0] == 0 {
		return nil, fmt.Errorf("leading coefficient is zero")
	}

	companion := mat.NewDense(p, p, nil)
	for j := 0; j < p; j++ {
		companion.Set(0, j, -coeffs[j+1]/coeffs[0])
	}
	for i := 1; i < p; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, fmt.Errorf("eigen decomposition did not converge")
	}
	return eig.Values(nil), nil
}
