package tonal

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-speech/algorithms/common"
	"github.com/RyanBlaney/sonido-speech/algorithms/stats"
	"github.com/RyanBlaney/sonido-speech/algorithms/windowing"
)

// ErrNoVoicedSegment is returned when a recording yields no voiced frame
// (or too few glottal pulses to measure perturbation)
var ErrNoVoicedSegment = errors.New("no voiced segment")

// PitchMethod selects the periodicity measure used per frame
type PitchMethod int

const (
	// MethodAutocorrelation uses the Hann-windowed autocorrelation divided
	// by the window's own autocorrelation
	MethodAutocorrelation PitchMethod = iota
	// MethodCrossCorrelation uses the normalised cross-correlation of
	// one analysis segment against its lagged copy
	MethodCrossCorrelation
)

// PitchParams contains parameters for pitch tracking
type PitchParams struct {
	Method PitchMethod `json:"method"`

	// TimeStep between frame centres in seconds; 0 selects 0.75/Floor
	TimeStep float64 `json:"time_step"`

	// Frequency range constraints (Hz)
	Floor   float64 `json:"floor"`
	Ceiling float64 `json:"ceiling"`

	// PeriodsPerWindow of the floor pitch covered by one analysis window
	PeriodsPerWindow float64 `json:"periods_per_window"`

	VoicingThreshold float64 `json:"voicing_threshold"`
	SilenceThreshold float64 `json:"silence_threshold"` // Relative to the global peak
	OctaveCost       float64 `json:"octave_cost"`       // Per octave, favours higher candidates
}

// DefaultPitchParams returns the autocorrelation settings used for F0
// statistics (75-500 Hz)
func DefaultPitchParams() PitchParams {
	return PitchParams{
		Method:           MethodAutocorrelation,
		Floor:            75,
		Ceiling:          500,
		PeriodsPerWindow: 3,
		VoicingThreshold: 0.45,
		SilenceThreshold: 0.03,
		OctaveCost:       0.01,
	}
}

// MinimumDetectablePitch is the lowest floor whose analysis window still
// fits in a recording of the given duration
func MinimumDetectablePitch(duration, periodsPerWindow float64) float64 {
	if duration <= 0 {
		return math.Inf(1)
	}
	return periodsPerWindow / duration
}

// PitchFrame is the result for one analysis frame
type PitchFrame struct {
	Time      float64 `json:"time"`      // Frame centre in seconds
	Frequency float64 `json:"frequency"` // Hz, 0 when unvoiced
	Strength  float64 `json:"strength"`  // Correlation of the chosen candidate
}

// Voiced reports whether the frame carries a pitch
func (f PitchFrame) Voiced() bool {
	return f.Frequency > 0
}

// PitchContour is a sequence of equally spaced pitch frames
type PitchContour struct {
	Frames   []PitchFrame `json:"frames"`
	TimeStep float64      `json:"time_step"`
	Floor    float64      `json:"floor"`
	Ceiling  float64      `json:"ceiling"`
}

// PitchTracker estimates a pitch contour using short-term correlation
// with per-frame voicing decisions.
//
// References:
//   - Boersma, P. (1993). "Accurate short-term analysis of the fundamental
//     frequency and the harmonics-to-noise ratio of a sampled sound"
type PitchTracker struct {
	params     PitchParams
	sampleRate int
}

// NewPitchTracker creates a tracker for signals at sampleRate
func NewPitchTracker(sampleRate int, params PitchParams) *PitchTracker {
	return &PitchTracker{
		params:     params,
		sampleRate: sampleRate,
	}
}

// frameLayout describes where analysis frames sit in the signal
type frameLayout struct {
	span      int // Samples read per frame
	segment   int // Correlation segment length
	minLag    int
	maxLag    int
	numFrames int
	firstTime float64
	timeStep  float64
}

// Track computes the pitch contour of signal. It fails with
// ErrNoVoicedSegment when the signal is shorter than one analysis window.
func (pt *PitchTracker) Track(signal []float64) (*PitchContour, error) {
	p := pt.params
	if pt.sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", pt.sampleRate)
	}
	if p.Floor <= 0 || p.Ceiling <= p.Floor {
		return nil, fmt.Errorf("invalid pitch range %.1f-%.1f Hz", p.Floor, p.Ceiling)
	}
	if p.PeriodsPerWindow <= 0 {
		return nil, fmt.Errorf("invalid periods per window %f", p.PeriodsPerWindow)
	}

	sr := float64(pt.sampleRate)
	ceiling := math.Min(p.Ceiling, sr/2)

	layout, err := pt.layout(len(signal), ceiling)
	if err != nil {
		return nil, err
	}

	globalPeak := common.PeakAmplitude(common.RemoveMean(signal))

	var analyse func(frame []float64) (lag, strength float64, ok bool)
	switch p.Method {
	case MethodAutocorrelation:
		analyse, err = pt.autocorrelationAnalyser(layout, ceiling)
		if err != nil {
			return nil, err
		}
	case MethodCrossCorrelation:
		analyse = pt.crossCorrelationAnalyser(layout, ceiling)
	default:
		return nil, fmt.Errorf("unknown pitch method %d", p.Method)
	}

	contour := &PitchContour{
		Frames:   make([]PitchFrame, layout.numFrames),
		TimeStep: layout.timeStep,
		Floor:    p.Floor,
		Ceiling:  ceiling,
	}

	for i := 0; i < layout.numFrames; i++ {
		t := layout.firstTime + float64(i)*layout.timeStep
		contour.Frames[i].Time = t

		start := int(math.Round(t*sr)) - layout.span/2
		start = common.MaxInt(0, common.MinInt(start, len(signal)-layout.span))
		frame := common.RemoveMean(signal[start : start+layout.span])

		localPeak := common.PeakAmplitude(frame)
		if localPeak == 0 || globalPeak == 0 {
			continue
		}

		lag, strength, ok := analyse(frame)
		if !ok {
			continue
		}

		unvoiced := p.VoicingThreshold + math.Max(0,
			2-(localPeak/globalPeak)/(p.SilenceThreshold/(1+p.VoicingThreshold)))

		freq := sr / lag
		score := strength - p.OctaveCost*math.Log2(p.Floor/freq)
		if score > unvoiced {
			contour.Frames[i].Frequency = freq
			contour.Frames[i].Strength = strength
		}
	}

	return contour, nil
}

func (pt *PitchTracker) layout(n int, ceiling float64) (*frameLayout, error) {
	p := pt.params
	sr := float64(pt.sampleRate)

	l := &frameLayout{
		timeStep: p.TimeStep,
		minLag:   common.MaxInt(2, int(math.Floor(sr/ceiling))),
	}
	if l.timeStep <= 0 {
		l.timeStep = 0.75 / p.Floor
	}

	window := int(math.Round(p.PeriodsPerWindow * sr / p.Floor))
	switch p.Method {
	case MethodAutocorrelation:
		l.span = window
		l.segment = window
		l.maxLag = common.MinInt(int(math.Ceil(sr/p.Floor)), window/2)
	default:
		l.segment = window
		l.maxLag = int(math.Ceil(sr / p.Floor))
		l.span = window + l.maxLag + 1
	}

	if l.span > n || l.maxLag <= l.minLag {
		return nil, fmt.Errorf("%w: %d samples is shorter than one %d-sample analysis window",
			ErrNoVoicedSegment, n, l.span)
	}

	duration := float64(n) / sr
	spanDuration := float64(l.span) / sr
	l.numFrames = int(math.Floor((duration-spanDuration)/l.timeStep)) + 1
	l.firstTime = (duration - float64(l.numFrames-1)*l.timeStep) / 2

	return l, nil
}

// autocorrelationAnalyser returns a frame analyser for the windowed
// autocorrelation method
func (pt *PitchTracker) autocorrelationAnalyser(l *frameLayout, ceiling float64) (func([]float64) (float64, float64, bool), error) {
	window := windowing.NewHannInterior(l.span)
	ac := stats.NewAutoCorrelation(l.maxLag)

	windowAC, err := ac.Compute(window.GetCoefficients())
	if err != nil {
		return nil, err
	}
	for k := l.maxLag; k >= 0; k-- {
		windowAC[k] /= windowAC[0]
	}

	threshold := 0.5 * pt.params.VoicingThreshold

	return func(frame []float64) (float64, float64, bool) {
		windowed := window.Apply(frame)
		r, err := ac.Compute(windowed)
		if err != nil || r[0] <= 0 {
			return 0, 0, false
		}
		r0 := r[0]
		for k := range r {
			if windowAC[k] > 0 {
				r[k] = r[k] / r0 / windowAC[k]
			} else {
				r[k] = 0
			}
		}
		return pt.bestCandidate(r, l.minLag, l.maxLag-1, threshold, ceiling)
	}, nil
}

// crossCorrelationAnalyser returns a frame analyser for the normalised
// cross-correlation method
func (pt *PitchTracker) crossCorrelationAnalyser(l *frameLayout, ceiling float64) func([]float64) (float64, float64, bool) {
	return func(frame []float64) (float64, float64, bool) {
		r := make([]float64, l.maxLag+1)
		for k := l.minLag - 1; k <= l.maxLag; k++ {
			r[k] = stats.NormalizedCrossCorrelation(frame, 0, k, l.segment)
		}
		return pt.bestCandidate(r, l.minLag, l.maxLag-1, 0, ceiling)
	}
}

// bestCandidate searches local maxima of r in [lo, hi] and returns the
// interpolated lag and correlation of the strongest one after octave cost
func (pt *PitchTracker) bestCandidate(r []float64, lo, hi int, threshold, ceiling float64) (float64, float64, bool) {
	sr := float64(pt.sampleRate)
	p := pt.params

	bestLag, bestStrength, bestScore := 0.0, 0.0, math.Inf(-1)
	for k := lo; k <= hi; k++ {
		if r[k] <= threshold || r[k] <= r[k-1] || r[k] < r[k+1] {
			continue
		}

		offset, height := common.ParabolicPeak(r, k)
		if height > 1 {
			height = 1 / height
		}
		lag := float64(k) + offset
		freq := sr / lag
		if freq < p.Floor || freq > ceiling {
			continue
		}

		score := height - p.OctaveCost*math.Log2(p.Floor/freq)
		if score > bestScore {
			bestLag, bestStrength, bestScore = lag, height, score
		}
	}

	if bestLag == 0 {
		return 0, 0, false
	}
	return bestLag, bestStrength, true
}

// VoicedFrequencies returns the frequencies of voiced frames in Hz
func (c *PitchContour) VoicedFrequencies() []float64 {
	var out []float64
	for _, f := range c.Frames {
		if f.Voiced() {
			out = append(out, f.Frequency)
		}
	}
	return out
}

// VoicedCount returns the number of voiced frames
func (c *PitchContour) VoicedCount() int {
	count := 0
	for _, f := range c.Frames {
		if f.Voiced() {
			count++
		}
	}
	return count
}

// Mean returns the mean pitch over voiced frames in unit, NaN if none
func (c *PitchContour) Mean(unit PitchUnit) float64 {
	values := convertAll(c.VoicedFrequencies(), unit)
	if len(values) == 0 {
		return math.NaN()
	}
	return common.Mean(values)
}

// StdDev returns the sample standard deviation of the pitch over voiced
// frames in unit, NaN with fewer than two voiced frames
func (c *PitchContour) StdDev(unit PitchUnit) float64 {
	values := convertAll(c.VoicedFrequencies(), unit)
	if len(values) < 2 {
		return math.NaN()
	}
	return common.StandardDeviation(values)
}

// FrequencyAt returns the frequency of the frame nearest to t, 0 when that
// frame is unvoiced or t lies outside the contour
func (c *PitchContour) FrequencyAt(t float64) float64 {
	if len(c.Frames) == 0 || c.TimeStep <= 0 {
		return 0
	}
	first := c.Frames[0].Time
	i := int(math.Round((t - first) / c.TimeStep))
	if i < 0 || i >= len(c.Frames) {
		return 0
	}
	if math.Abs(t-c.Frames[i].Time) > c.TimeStep {
		return 0
	}
	return c.Frames[i].Frequency
}

// Interval is a time span in seconds
type Interval struct {
	Start float64
	End   float64
}

// VoicedIntervals merges runs of voiced frames into time spans, each
// extended by half a time step on both sides
func (c *PitchContour) VoicedIntervals() []Interval {
	var intervals []Interval
	half := c.TimeStep / 2
	inRun := false

	for _, f := range c.Frames {
		switch {
		case f.Voiced() && !inRun:
			intervals = append(intervals, Interval{Start: f.Time - half, End: f.Time + half})
			inRun = true
		case f.Voiced():
			intervals[len(intervals)-1].End = f.Time + half
		default:
			inRun = false
		}
	}
	return intervals
}
