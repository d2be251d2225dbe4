package features

import (
	"errors"

	"github.com/RyanBlaney/sonido-speech/algorithms/tonal"
)

var (
	// ErrEmptyWaveform is returned for a recording with no samples
	ErrEmptyWaveform = errors.New("empty waveform")

	// ErrNoVoicedSegment is returned when a recording has no voiced frame or
	// too few glottal pulses for perturbation measures
	ErrNoVoicedSegment = tonal.ErrNoVoicedSegment
)
