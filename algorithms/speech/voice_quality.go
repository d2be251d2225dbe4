package speech

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-speech/algorithms/common"
	"github.com/RyanBlaney/sonido-speech/algorithms/stats"
	"github.com/RyanBlaney/sonido-speech/algorithms/tonal"
)

// VoiceQualityParams controls harmonicity, pulse detection and the
// perturbation measures
type VoiceQualityParams struct {
	// Period validity for jitter and shimmer
	MinPeriod          float64 `json:"min_period"` // Seconds
	MaxPeriod          float64 `json:"max_period"` // Seconds
	MaxPeriodFactor    float64 `json:"max_period_factor"`
	MaxAmplitudeFactor float64 `json:"max_amplitude_factor"`

	// Harmonicity (cross-correlation) analysis
	HNRTimeStep         float64 `json:"hnr_time_step"`
	HNRMinPitch         float64 `json:"hnr_min_pitch"`
	HNRSilenceThreshold float64 `json:"hnr_silence_threshold"`
	HNRPeriodsPerWindow float64 `json:"hnr_periods_per_window"`

	// PulseMinCorrelation stops pulse propagation through a voiced stretch
	PulseMinCorrelation float64 `json:"pulse_min_correlation"`
}

// DefaultVoiceQualityParams returns the conventional voice report settings
func DefaultVoiceQualityParams() VoiceQualityParams {
	return VoiceQualityParams{
		MinPeriod:           0.0001,
		MaxPeriod:           0.02,
		MaxPeriodFactor:     1.3,
		MaxAmplitudeFactor:  1.6,
		HNRTimeStep:         0.01,
		HNRMinPitch:         75,
		HNRSilenceThreshold: 0.1,
		HNRPeriodsPerWindow: 1,
		PulseMinCorrelation: 0.3,
	}
}

// JitterMeasures holds period perturbation measures. Undefined measures are NaN.
type JitterMeasures struct {
	Local         float64 `json:"local"`
	LocalAbsolute float64 `json:"local_absolute"` // Seconds
	RAP           float64 `json:"rap"`
	PPQ5          float64 `json:"ppq5"`
	DDP           float64 `json:"ddp"`
}

// ShimmerMeasures holds amplitude perturbation measures. Undefined measures are NaN.
type ShimmerMeasures struct {
	Local   float64 `json:"local"`
	LocalDB float64 `json:"local_db"`
	APQ3    float64 `json:"apq3"`
	APQ5    float64 `json:"apq5"`
	APQ11   float64 `json:"apq11"`
	DDA     float64 `json:"dda"`
}

// VoiceQualityResult contains voice quality measurements
type VoiceQualityResult struct {
	HNR     float64         `json:"hnr"` // Mean harmonics-to-noise ratio (dB) over voiced frames
	Jitter  JitterMeasures  `json:"jitter"`
	Shimmer ShimmerMeasures `json:"shimmer"`

	Pulses    []float64 `json:"pulses"` // Glottal pulse times in seconds
	NumPulses int       `json:"num_pulses"`
}

// VoiceQualityAnalyzer analyzes voice quality characteristics
type VoiceQualityAnalyzer struct {
	sampleRate int
	params     VoiceQualityParams
}

// NewVoiceQualityAnalyzer creates a new voice quality analyzer
func NewVoiceQualityAnalyzer(sampleRate int) *VoiceQualityAnalyzer {
	return NewVoiceQualityAnalyzerWithParams(sampleRate, DefaultVoiceQualityParams())
}

// NewVoiceQualityAnalyzerWithParams creates an analyzer with custom parameters
func NewVoiceQualityAnalyzerWithParams(sampleRate int, params VoiceQualityParams) *VoiceQualityAnalyzer {
	return &VoiceQualityAnalyzer{
		sampleRate: sampleRate,
		params:     params,
	}
}

// AnalyzeVoiceQuality measures HNR, jitter and shimmer of signal using
// contour to locate voiced stretches. It fails with
// tonal.ErrNoVoicedSegment when fewer than three pulses are found.
func (vqa *VoiceQualityAnalyzer) AnalyzeVoiceQuality(signal []float64, contour *tonal.PitchContour) (*VoiceQualityResult, error) {
	if contour == nil || contour.VoicedCount() == 0 {
		return nil, tonal.ErrNoVoicedSegment
	}

	hnr, err := vqa.HarmonicsToNoise(signal)
	if err != nil {
		return nil, fmt.Errorf("harmonicity analysis failed: %w", err)
	}

	pulses := vqa.PointProcess(signal, contour)
	if len(pulses) < 3 {
		return nil, fmt.Errorf("%w: found %d glottal pulses, need at least 3", tonal.ErrNoVoicedSegment, len(pulses))
	}

	return &VoiceQualityResult{
		HNR:       hnr,
		Jitter:    vqa.Jitter(pulses),
		Shimmer:   vqa.Shimmer(signal, pulses),
		Pulses:    pulses,
		NumPulses: len(pulses),
	}, nil
}

// HarmonicsToNoise returns the mean cross-correlation HNR in dB over voiced
// frames, NaN when no frame is voiced
func (vqa *VoiceQualityAnalyzer) HarmonicsToNoise(signal []float64) (float64, error) {
	p := vqa.params
	params := tonal.PitchParams{
		Method:           tonal.MethodCrossCorrelation,
		TimeStep:         p.HNRTimeStep,
		Floor:            p.HNRMinPitch,
		Ceiling:          float64(vqa.sampleRate) / 2,
		PeriodsPerWindow: p.HNRPeriodsPerWindow,
		SilenceThreshold: p.HNRSilenceThreshold,
	}

	contour, err := tonal.NewPitchTracker(vqa.sampleRate, params).Track(signal)
	if errors.Is(err, tonal.ErrNoVoicedSegment) {
		return math.NaN(), nil
	}
	if err != nil {
		return 0, err
	}

	var values []float64
	for _, f := range contour.Frames {
		if f.Voiced() {
			values = append(values, correlationToDB(f.Strength))
		}
	}
	if len(values) == 0 {
		return math.NaN(), nil
	}
	return common.Mean(values), nil
}

func correlationToDB(r float64) float64 {
	switch {
	case r <= 1e-15:
		return -150
	case r > 1-1e-15:
		return 150
	default:
		return 10 * math.Log10(r/(1-r))
	}
}

// PointProcess locates glottal pulses inside the voiced stretches of
// contour. Each stretch is anchored at the largest absolute sample near its
// middle, and pulses are propagated backwards and forwards one local
// period at a time to the lag that maximises the waveform correlation.
func (vqa *VoiceQualityAnalyzer) PointProcess(signal []float64, contour *tonal.PitchContour) []float64 {
	var pulses []float64
	for _, interval := range contour.VoicedIntervals() {
		pulses = append(pulses, vqa.intervalPulses(signal, contour, interval)...)
	}
	sort.Float64s(pulses)
	return pulses
}

func (vqa *VoiceQualityAnalyzer) intervalPulses(signal []float64, contour *tonal.PitchContour, interval tonal.Interval) []float64 {
	sr := float64(vqa.sampleRate)
	first := common.MaxInt(0, int(math.Ceil(interval.Start*sr)))
	last := common.MinInt(len(signal)-1, int(math.Floor(interval.End*sr)))
	if last <= first {
		return nil
	}

	mid := (interval.Start + interval.End) / 2
	f0 := contour.FrequencyAt(mid)
	if f0 <= 0 {
		f0 = contour.Mean(tonal.UnitHertz)
	}
	period := sr / f0

	// Anchor on the strongest excursion within one period of the middle
	lo := common.MaxInt(first, int(math.Round(mid*sr-period/2)))
	hi := common.MinInt(last, int(math.Round(mid*sr+period/2)))
	anchor, peak := lo, -1.0
	for i := lo; i <= hi; i++ {
		if a := math.Abs(signal[i]); a > peak {
			anchor, peak = i, a
		}
	}

	pulses := []float64{float64(anchor) / sr}
	for _, direction := range []int{-1, 1} {
		cursor, localPeriod := float64(anchor), period
		for {
			if f := contour.FrequencyAt(cursor / sr); f > 0 {
				localPeriod = sr / f
			}
			next, corr := vqa.nextPulse(signal, cursor, localPeriod, direction)
			if corr < vqa.params.PulseMinCorrelation || next < float64(first) || next > float64(last) {
				break
			}
			pulses = append(pulses, next/sr)
			cursor = next
		}
	}
	return pulses
}

// nextPulse finds the pulse one period away from cursor in direction by
// maximising the normalised correlation between period-long segments
func (vqa *VoiceQualityAnalyzer) nextPulse(signal []float64, cursor, period float64, direction int) (float64, float64) {
	half := common.MaxInt(1, int(math.Round(period/2)))
	centre := int(math.Round(cursor))
	minLag := common.MaxInt(1, int(math.Floor(0.8*period)))
	maxLag := int(math.Ceil(1.25 * period))

	// corr[k] holds lag minLag-1+k so both neighbours of every candidate exist
	corr := make([]float64, maxLag-minLag+3)
	for k := range corr {
		lag := minLag - 1 + k
		other := centre + direction*lag
		corr[k] = stats.NormalizedCrossCorrelation(signal, centre-half, other-half, 2*half)
	}

	best, bestCorr := -1, math.Inf(-1)
	for k := 1; k < len(corr)-1; k++ {
		if corr[k] > bestCorr {
			best, bestCorr = k, corr[k]
		}
	}
	if best < 0 {
		return cursor, 0
	}

	offset, height := common.ParabolicPeak(corr, best)
	lag := float64(minLag-1+best) + offset
	return float64(centre) + float64(direction)*lag, height
}

// Jitter computes the period perturbation measures of a pulse train
func (vqa *VoiceQualityAnalyzer) Jitter(pulses []float64) JitterMeasures {
	periods, valid := vqa.periods(pulses)
	series := newPerturbationSeries(periods, valid, func(i int) bool {
		return ratioWithin(periods[i], periods[i+1], vqa.params.MaxPeriodFactor)
	})

	meanPeriod := series.mean()
	absolute := series.meanAbsDiff()

	return JitterMeasures{
		Local:         absolute / meanPeriod,
		LocalAbsolute: absolute,
		RAP:           series.windowDeviation(3) / meanPeriod,
		PPQ5:          series.windowDeviation(5) / meanPeriod,
		DDP:           series.secondDiff() / meanPeriod,
	}
}

// Shimmer computes the amplitude perturbation measures of a pulse train.
// Each pulse gets one amplitude, the peak absolute sample between the
// midpoints of its adjacent periods. Pulses i and i+1 are compared only
// when the period between them is valid.
func (vqa *VoiceQualityAnalyzer) Shimmer(signal []float64, pulses []float64) ShimmerMeasures {
	periods, periodValid := vqa.periods(pulses)
	amplitudes, valid := vqa.pulseAmplitudes(signal, pulses, periods, periodValid)

	series := newPerturbationSeries(amplitudes, valid, func(i int) bool {
		if !periodValid[i] {
			return false
		}
		if i > 0 && periodValid[i-1] && !ratioWithin(periods[i-1], periods[i], vqa.params.MaxPeriodFactor) {
			return false
		}
		return ratioWithin(amplitudes[i], amplitudes[i+1], vqa.params.MaxAmplitudeFactor)
	})

	meanAmplitude := series.mean()

	return ShimmerMeasures{
		Local:   series.meanAbsDiff() / meanAmplitude,
		LocalDB: series.meanAbsLogRatioDB(),
		APQ3:    series.windowDeviation(3) / meanAmplitude,
		APQ5:    series.windowDeviation(5) / meanAmplitude,
		APQ11:   series.windowDeviation(11) / meanAmplitude,
		DDA:     series.secondDiff() / meanAmplitude,
	}
}

// pulseAmplitudes measures the peak absolute sample within half a period
// on either side of each pulse. A side whose period is out of range
// borrows the half-width of the other side; a pulse with no valid
// neighbouring period has no amplitude.
func (vqa *VoiceQualityAnalyzer) pulseAmplitudes(signal, pulses, periods []float64, periodValid []bool) ([]float64, []bool) {
	sr := float64(vqa.sampleRate)
	amplitudes := make([]float64, len(pulses))
	valid := make([]bool, len(pulses))

	for i, p := range pulses {
		left, right := math.NaN(), math.NaN()
		if i > 0 && periodValid[i-1] {
			left = periods[i-1] / 2
		}
		if i < len(periods) && periodValid[i] {
			right = periods[i] / 2
		}
		switch {
		case math.IsNaN(left) && math.IsNaN(right):
			continue
		case math.IsNaN(left):
			left = right
		case math.IsNaN(right):
			right = left
		}

		start := common.MaxInt(0, int(math.Round((p-left)*sr)))
		end := common.MinInt(len(signal), int(math.Round((p+right)*sr)))
		if end <= start {
			continue
		}
		amplitudes[i] = common.PeakAmplitude(signal[start:end])
		valid[i] = amplitudes[i] > 0
	}
	return amplitudes, valid
}

// periods returns the inter-pulse intervals and whether each lies inside
// the configured period range
func (vqa *VoiceQualityAnalyzer) periods(pulses []float64) ([]float64, []bool) {
	if len(pulses) < 2 {
		return nil, nil
	}
	periods := make([]float64, len(pulses)-1)
	valid := make([]bool, len(periods))
	for i := range periods {
		periods[i] = pulses[i+1] - pulses[i]
		valid[i] = periods[i] >= vqa.params.MinPeriod && periods[i] <= vqa.params.MaxPeriod
	}
	return periods, valid
}

func ratioWithin(a, b, factor float64) bool {
	if a <= 0 || b <= 0 {
		return false
	}
	return math.Max(a, b)/math.Min(a, b) <= factor
}
