package speech

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-speech/algorithms/tonal"
)

func sine(freq, amp float64, sampleRate int, seconds float64) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

// vowel sums five equal-amplitude harmonics of f0
func vowel(f0 float64, sampleRate int, seconds float64) []float64 {
	out := make([]float64, int(seconds*float64(sampleRate)))
	for h := 1; h <= 5; h++ {
		for i := range out {
			out[i] += 0.15 * math.Sin(2*math.Pi*f0*float64(h)*float64(i)/float64(sampleRate))
		}
	}
	return out
}

func TestBurgRecoversSinusoidPredictor(t *testing.T) {
	const sr = 8000
	omega := 2 * math.Pi * 440 / sr
	result, err := NewLPCAnalyzer(sr, 2).Analyze(sine(440, 0.8, sr, 0.1))
	require.NoError(t, err)

	require.Len(t, result.Coefficients, 3)
	assert.Equal(t, 1.0, result.Coefficients[0])
	assert.InDelta(t, -2*math.Cos(omega), result.Coefficients[1], 1e-3)
	assert.InDelta(t, 1.0, result.Coefficients[2], 1e-3)
	assert.Equal(t, LPCBurg, result.Method)
}

func TestLevinsonMatchesFirstOrderAR(t *testing.T) {
	// x[n] = 0.9 x[n-1] + e[n] with deterministic pseudo-noise
	x := make([]float64, 4000)
	seed := uint32(1)
	for i := 1; i < len(x); i++ {
		seed = seed*1664525 + 1013904223
		e := float64(seed)/float64(math.MaxUint32) - 0.5
		x[i] = 0.9*x[i-1] + e
	}

	for _, method := range []LPCMethod{LPCBurg, LPCAutocorrelation} {
		result, err := NewLPCAnalyzerWithMethod(8000, 1, method).Analyze(x)
		require.NoError(t, err)
		assert.InDelta(t, -0.9, result.Coefficients[1], 0.05, method.String())
		assert.True(t, result.StabilityCheck)
	}
}

func TestLPCRejectsShortInput(t *testing.T) {
	_, err := NewLPCAnalyzer(8000, 12).Analyze(make([]float64, 12))
	assert.Error(t, err)

	_, err = NewLPCAnalyzer(8000, 2).Analyze([]float64{1, math.NaN(), 3, 4})
	assert.Error(t, err)
}

func TestLPCSilenceIsFlat(t *testing.T) {
	result, err := NewLPCAnalyzer(8000, 4).Analyze(make([]float64, 100))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 0, 0}, result.Coefficients)

	_, err = NewLPCAnalyzerWithMethod(8000, 4, LPCAutocorrelation).Analyze(make([]float64, 100))
	assert.Error(t, err)
}

func TestParseLPCMethod(t *testing.T) {
	m, err := ParseLPCMethod("Levinson")
	require.NoError(t, err)
	assert.Equal(t, LPCAutocorrelation, m)

	m, err = ParseLPCMethod("")
	require.NoError(t, err)
	assert.Equal(t, LPCBurg, m)

	_, err = ParseLPCMethod("covariance")
	assert.Error(t, err)
}

func TestPolynomialRoots(t *testing.T) {
	// (z - 0.5)(z + 0.25) = z^2 - 0.25z - 0.125
	roots, err := polynomialRoots([]float64{1, -0.25, -0.125})
	require.NoError(t, err)
	require.Len(t, roots, 2)

	re := []float64{real(roots[0]), real(roots[1])}
	if re[0] > re[1] {
		re[0], re[1] = re[1], re[0]
	}
	assert.InDeltaSlice(t, []float64{-0.25, 0.5}, re, 1e-9)
}

func TestFormantFramesOfResonance(t *testing.T) {
	const sr = 10000
	// Second-order resonator at 700 Hz driven by an impulse train at 100 Hz
	r := 0.97
	theta := 2 * math.Pi * 700 / sr
	a1, a2 := 2*r*math.Cos(theta), -r*r

	x := make([]float64, sr/2)
	for i := range x {
		if i%100 == 0 {
			x[i] = 1
		}
		if i >= 1 {
			x[i] += a1 * x[i-1]
		}
		if i >= 2 {
			x[i] += a2 * x[i-2]
		}
	}

	frames, err := NewFormantAnalyzer(sr).AnalyzeFrames(x)
	require.NoError(t, err)
	require.NotEmpty(t, frames)
	assert.InDelta(t, 0.0125, frames[0].Time, 1e-12)

	hits := 0
	for _, f := range frames {
		require.Len(t, f.Frequencies, 3)
		if math.Abs(f.Frequencies[0]-700) < 60 {
			hits++
		}
	}
	assert.Greater(t, hits, len(frames)/2)
}

func TestFormantSilentFramesAreZero(t *testing.T) {
	frames, err := NewFormantAnalyzer(8000).AnalyzeFrames(make([]float64, 800))
	require.NoError(t, err)
	for _, f := range frames {
		assert.Equal(t, []float64{0, 0, 0}, f.Frequencies)
	}

	_, err = NewFormantAnalyzer(8000).AnalyzeFrames(make([]float64, 10))
	assert.Error(t, err)
}

func TestVoiceQualityOfSteadyVowel(t *testing.T) {
	const sr = 16000
	signal := vowel(150, sr, 1.0)

	result, err := NewSpeechAnalyzer(sr, tonal.DefaultPitchParams()).AnalyzeProsody(signal, tonal.UnitHertz)
	require.NoError(t, err)

	assert.InDelta(t, 150, result.MeanF0, 2)
	assert.False(t, result.FloorRaised)

	vq := result.VoiceQuality
	require.NotNil(t, vq)
	assert.Greater(t, vq.NumPulses, 100)
	assert.Greater(t, vq.HNR, 20.0)

	for name, v := range map[string]float64{
		"local jitter": vq.Jitter.Local, "rap": vq.Jitter.RAP, "ppq5": vq.Jitter.PPQ5,
		"ddp": vq.Jitter.DDP, "local shimmer": vq.Shimmer.Local, "apq3": vq.Shimmer.APQ3,
		"apq5": vq.Shimmer.APQ5, "apq11": vq.Shimmer.APQ11, "dda": vq.Shimmer.DDA,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
	assert.Less(t, vq.Jitter.Local, 0.01)
	assert.Less(t, vq.Shimmer.Local, 0.05)
}

func TestProsodyOfSilence(t *testing.T) {
	_, err := NewSpeechAnalyzer(16000, tonal.DefaultPitchParams()).AnalyzeProsody(make([]float64, 16000), tonal.UnitHertz)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tonal.ErrNoVoicedSegment))
}

func TestProsodyRaisesFloorForShortRecording(t *testing.T) {
	const sr = 16000
	// 30 ms cannot hold three periods of 75 Hz
	result, err := NewSpeechAnalyzer(sr, tonal.DefaultPitchParams()).AnalyzeProsody(vowel(250, sr, 0.03), tonal.UnitHertz)
	if err != nil {
		assert.True(t, errors.Is(err, tonal.ErrNoVoicedSegment))
		return
	}
	assert.True(t, result.FloorRaised)
	assert.InDelta(t, 100, result.Floor, 1e-6)
}

func TestPerturbationSeries(t *testing.T) {
	values := []float64{1, 2, 1, 2, 1}
	valid := []bool{true, true, true, true, true}
	s := newPerturbationSeries(values, valid, func(int) bool { return true })

	assert.InDelta(t, 1.4, s.mean(), 1e-12)
	assert.InDelta(t, 1.0, s.meanAbsDiff(), 1e-12)
	assert.InDelta(t, 2.0, s.secondDiff(), 1e-12)
	// windows [1 2 1], [2 1 2], [1 2 1]: |2-4/3|, |1-5/3|, |2-4/3|
	assert.InDelta(t, 2.0/3, s.windowDeviation(3), 1e-12)
	assert.True(t, math.IsNaN(s.windowDeviation(11)))

	none := newPerturbationSeries(values, valid, func(int) bool { return false })
	assert.True(t, math.IsNaN(none.meanAbsDiff()))
}

func TestJitterRejectsOutOfRangePeriods(t *testing.T) {
	vqa := NewVoiceQualityAnalyzer(16000)
	// 5 ms periods with one 50 ms gap
	pulses := []float64{0, 0.005, 0.010, 0.015, 0.065, 0.070, 0.075}
	j := vqa.Jitter(pulses)
	assert.InDelta(t, 0, j.Local, 1e-9)
	assert.InDelta(t, 0, j.LocalAbsolute, 1e-9)

	assert.True(t, math.IsNaN(vqa.Jitter([]float64{0, 0.005}).Local))
}

func TestJitterOfAlternatingPeriods(t *testing.T) {
	// 5 ms and 5.5 ms periods alternate
	pulses := []float64{0}
	for i := 0; i < 10; i++ {
		step := 0.005
		if i%2 == 1 {
			step = 0.0055
		}
		pulses = append(pulses, pulses[len(pulses)-1]+step)
	}

	j := NewVoiceQualityAnalyzer(16000).Jitter(pulses)
	const meanPeriod = 0.00525
	assert.InDelta(t, 0.0005, j.LocalAbsolute, 1e-9)
	assert.InDelta(t, 0.0005/meanPeriod, j.Local, 1e-6)
	assert.InDelta(t, 2*0.0005/3/meanPeriod, j.RAP, 1e-6)
	assert.InDelta(t, 2*0.0005/5/meanPeriod, j.PPQ5, 1e-6)
	assert.InDelta(t, 0.001/meanPeriod, j.DDP, 1e-6)
}

// bumpTrain places a raised-cosine bump of the given peak at the centre of
// every 80-sample period and returns the signal and the bump times
func bumpTrain(sampleRate int, peaks []float64) ([]float64, []float64) {
	const period, width = 80, 20
	signal := make([]float64, period*len(peaks))
	pulses := make([]float64, len(peaks))
	for k, a := range peaks {
		centre := period*k + period/2
		pulses[k] = float64(centre) / float64(sampleRate)
		for n := centre - width/2 + 1; n < centre+width/2; n++ {
			signal[n] = a * (0.5 + 0.5*math.Cos(2*math.Pi*float64(n-centre)/width))
		}
	}
	return signal, pulses
}

func alternating(n int, a, b float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a
		if i%2 == 1 {
			out[i] = b
		}
	}
	return out
}

func TestShimmerOfAlternatingAmplitudes(t *testing.T) {
	const sr = 16000
	signal, pulses := bumpTrain(sr, alternating(20, 0.30, 0.24))

	s := NewVoiceQualityAnalyzer(sr).Shimmer(signal, pulses)
	const mean, diff = 0.27, 0.06
	assert.InDelta(t, diff/mean, s.Local, 1e-9)
	assert.InDelta(t, 20*math.Log10(0.30/0.24), s.LocalDB, 1e-9)
	assert.InDelta(t, 2*diff/3/mean, s.APQ3, 1e-9)
	assert.InDelta(t, 2*diff/5/mean, s.APQ5, 1e-9)
	assert.InDelta(t, 6*diff/11/mean, s.APQ11, 1e-9)
	assert.InDelta(t, 2*diff/mean, s.DDA, 1e-9)
}

func TestShimmerOfConstantAmplitudes(t *testing.T) {
	const sr = 16000
	signal, pulses := bumpTrain(sr, alternating(12, 0.5, 0.5))

	s := NewVoiceQualityAnalyzer(sr).Shimmer(signal, pulses)
	assert.InDelta(t, 0, s.Local, 1e-12)
	assert.InDelta(t, 0, s.LocalDB, 1e-12)
	assert.InDelta(t, 0, s.DDA, 1e-12)
}

func TestShimmerIgnoresPairsAcrossGaps(t *testing.T) {
	const sr = 16000
	signal, pulses := bumpTrain(sr, alternating(8, 0.30, 0.24))
	// Move the second half 50 ms later so the middle period is out of range
	shifted := make([]float64, len(signal)+800)
	copy(shifted, signal[:320])
	copy(shifted[320+800:], signal[320:])
	for i := 4; i < len(pulses); i++ {
		pulses[i] += 0.05
	}

	s := NewVoiceQualityAnalyzer(sr).Shimmer(shifted, pulses)
	// 6 comparable pairs, all differing by 0.06
	assert.InDelta(t, 0.06/0.27, s.Local, 1e-9)
}

// modulatedVowel is a cosine-phase vowel whose period k, centred on its
// main peak, is scaled by amplitudes[k % len(amplitudes)]
func modulatedVowel(f0 float64, sampleRate int, seconds float64, amplitudes []float64) []float64 {
	period := float64(sampleRate) / f0
	out := make([]float64, int(seconds*float64(sampleRate)))
	for i := range out {
		k := int(math.Floor((float64(i) + period/2) / period))
		v := 0.0
		for h := 1; h <= 5; h++ {
			v += 0.15 * math.Cos(2*math.Pi*f0*float64(h)*float64(i)/float64(sampleRate))
		}
		out[i] = amplitudes[k%len(amplitudes)] * v
	}
	return out
}

func TestShimmerOfModulatedVowel(t *testing.T) {
	const sr = 16000
	signal := modulatedVowel(100, sr, 1.0, []float64{1.0, 0.8})

	result, err := NewSpeechAnalyzer(sr, tonal.DefaultPitchParams()).AnalyzeProsody(signal, tonal.UnitHertz)
	require.NoError(t, err)
	assert.InDelta(t, 100, result.MeanF0, 2)

	s := result.VoiceQuality.Shimmer
	// Alternating 1.0 and 0.8: |diff|/mean = 0.2/0.9
	assert.InDelta(t, 0.2/0.9, s.Local, 0.02)
	assert.InDelta(t, 20*math.Log10(1/0.8), s.LocalDB, 0.2)
	assert.InDelta(t, 2*0.2/3/0.9, s.APQ3, 0.02)
	assert.InDelta(t, 2*0.2/0.9, s.DDA, 0.04)
	assert.Less(t, result.VoiceQuality.Jitter.Local, 0.01)
}
