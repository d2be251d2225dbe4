package tonal

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, amp float64, sampleRate int, seconds float64) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestTrackSineTone(t *testing.T) {
	tracker := NewPitchTracker(16000, DefaultPitchParams())
	contour, err := tracker.Track(sine(200, 0.5, 16000, 1.0))
	require.NoError(t, err)

	require.NotEmpty(t, contour.Frames)
	assert.Greater(t, contour.VoicedCount(), len(contour.Frames)/2)
	assert.InDelta(t, 200, contour.Mean(UnitHertz), 1.0)
	assert.Less(t, contour.StdDev(UnitHertz), 1.0)
	assert.InDelta(t, 0.01, contour.TimeStep, 1e-12)

	intervals := contour.VoicedIntervals()
	require.NotEmpty(t, intervals)
	assert.Less(t, intervals[0].Start, intervals[0].End)
	assert.InDelta(t, 200, contour.FrequencyAt(0.5), 1.0)
}

func TestTrackSilenceIsUnvoiced(t *testing.T) {
	tracker := NewPitchTracker(16000, DefaultPitchParams())
	contour, err := tracker.Track(make([]float64, 16000))
	require.NoError(t, err)
	assert.Zero(t, contour.VoicedCount())
	assert.True(t, math.IsNaN(contour.Mean(UnitHertz)))
}

func TestTrackTooShort(t *testing.T) {
	tracker := NewPitchTracker(16000, DefaultPitchParams())
	_, err := tracker.Track(sine(200, 0.5, 16000, 0.01))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoVoicedSegment))
}

func TestTrackCrossCorrelation(t *testing.T) {
	params := DefaultPitchParams()
	params.Method = MethodCrossCorrelation
	params.Ceiling = 8000
	params.PeriodsPerWindow = 1
	params.VoicingThreshold = 0
	params.SilenceThreshold = 0.1
	params.OctaveCost = 0
	params.TimeStep = 0.01

	contour, err := NewPitchTracker(16000, params).Track(sine(160, 0.5, 16000, 0.5))
	require.NoError(t, err)
	assert.Greater(t, contour.VoicedCount(), 0)
	for _, f := range contour.Frames {
		if f.Voiced() {
			assert.Greater(t, f.Strength, 0.99)
		}
	}
}

func TestTrackInvalidParams(t *testing.T) {
	params := DefaultPitchParams()
	params.Ceiling = params.Floor
	_, err := NewPitchTracker(16000, params).Track(sine(200, 0.5, 16000, 1))
	assert.Error(t, err)

	_, err = NewPitchTracker(0, DefaultPitchParams()).Track(sine(200, 0.5, 16000, 1))
	assert.Error(t, err)
}

func TestMinimumDetectablePitch(t *testing.T) {
	assert.InDelta(t, 30, MinimumDetectablePitch(0.1, 3), 1e-12)
	assert.True(t, math.IsInf(MinimumDetectablePitch(0, 3), 1))
}

func TestPitchUnits(t *testing.T) {
	unit, err := ParsePitchUnit("hertz")
	require.NoError(t, err)
	assert.Equal(t, UnitHertz, unit)

	unit, err = ParsePitchUnit("Semitones")
	require.NoError(t, err)
	assert.InDelta(t, 12, unit.Convert(200), 1e-12)

	unit, err = ParsePitchUnit("MEL")
	require.NoError(t, err)
	assert.InDelta(t, 550*math.Log(2), unit.Convert(550), 1e-12)

	unit, err = ParsePitchUnit("erb")
	require.NoError(t, err)
	assert.Greater(t, unit.Convert(200), unit.Convert(100))

	_, err = ParsePitchUnit("bark")
	assert.Error(t, err)
}
