package speech

import (
	"fmt"

	"github.com/RyanBlaney/sonido-speech/algorithms/tonal"
)

// SpeechAnalyzer combines pitch tracking and voice quality analysis into
// the prosodic measurement set of one recording
type SpeechAnalyzer struct {
	sampleRate           int
	pitchParams          tonal.PitchParams
	voiceQualityAnalyzer *VoiceQualityAnalyzer
}

// ProsodyResult contains the pitch statistics and voice quality of a recording
type ProsodyResult struct {
	MeanF0 float64         `json:"mean_f0"`
	StdF0  float64         `json:"std_f0"`
	Unit   tonal.PitchUnit `json:"unit"`

	// Floor actually used; above the requested floor when the recording is
	// too short to hold PeriodsPerWindow periods of it
	Floor       float64 `json:"floor"`
	FloorRaised bool    `json:"floor_raised"`

	Contour      *tonal.PitchContour `json:"-"`
	VoiceQuality *VoiceQualityResult `json:"voice_quality"`

	SignalLength float64 `json:"signal_length"` // Seconds
}

// NewSpeechAnalyzer creates an analyzer using the given pitch settings
func NewSpeechAnalyzer(sampleRate int, pitchParams tonal.PitchParams) *SpeechAnalyzer {
	return &SpeechAnalyzer{
		sampleRate:           sampleRate,
		pitchParams:          pitchParams,
		voiceQualityAnalyzer: NewVoiceQualityAnalyzer(sampleRate),
	}
}

// AnalyzeProsody tracks pitch and measures HNR, jitter and shimmer.
// Errors wrap tonal.ErrNoVoicedSegment when nothing voiced is found.
func (sa *SpeechAnalyzer) AnalyzeProsody(signal []float64, unit tonal.PitchUnit) (*ProsodyResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal provided")
	}
	if sa.sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sa.sampleRate)
	}

	duration := float64(len(signal)) / float64(sa.sampleRate)
	params := sa.pitchParams
	result := &ProsodyResult{
		Unit:         unit,
		SignalLength: duration,
	}

	if minPitch := tonal.MinimumDetectablePitch(duration, params.PeriodsPerWindow); params.Floor < minPitch {
		params.Floor = minPitch
		result.FloorRaised = true
		if params.Ceiling <= params.Floor {
			return nil, fmt.Errorf("%w: recording of %.3fs too short for pitch ceiling %.1f Hz",
				tonal.ErrNoVoicedSegment, duration, params.Ceiling)
		}
	}
	result.Floor = params.Floor

	contour, err := tonal.NewPitchTracker(sa.sampleRate, params).Track(signal)
	if err != nil {
		return nil, fmt.Errorf("pitch tracking failed: %w", err)
	}
	if contour.VoicedCount() == 0 {
		return nil, fmt.Errorf("pitch tracking failed: %w", tonal.ErrNoVoicedSegment)
	}
	result.Contour = contour
	result.MeanF0 = contour.Mean(unit)
	result.StdF0 = contour.StdDev(unit)

	vq, err := sa.voiceQualityAnalyzer.AnalyzeVoiceQuality(signal, contour)
	if err != nil {
		return nil, fmt.Errorf("voice quality analysis failed: %w", err)
	}
	result.VoiceQuality = vq

	return result, nil
}
