package transcode

import (
	"errors"
	"path/filepath"
	"time"
)

// ErrUnreadableAudio is returned when a file is missing, zero-length,
// corrupt or cannot be decoded by any configured decoder
var ErrUnreadableAudio = errors.New("unreadable audio")

// Recording is one decoded audio file at its native sample rate.
// Samples are mixed down to mono and normalised to [-1, 1].
// A Recording is not modified after DecodeFile returns it.
type Recording struct {
	ID         string    `json:"id"`   // File name, used as the row identity
	Path       string    `json:"path"` // Full path the recording was loaded from
	SampleRate int       `json:"sample_rate"`
	Channels   int       `json:"channels"` // Channel count of the source file
	BitDepth   int       `json:"bit_depth,omitempty"`
	Samples    []float64 `json:"-"`
}

// NewRecording builds a Recording from in-memory samples
func NewRecording(path string, sampleRate int, samples []float64) *Recording {
	return &Recording{
		ID:         filepath.Base(path),
		Path:       path,
		SampleRate: sampleRate,
		Channels:   1,
		Samples:    samples,
	}
}

// Duration returns the length of the recording
func (r *Recording) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(r.Samples)) / float64(r.SampleRate) * float64(time.Second))
}

// Seconds returns the length of the recording in seconds
func (r *Recording) Seconds() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(len(r.Samples)) / float64(r.SampleRate)
}

// IsEmpty reports whether the recording holds no samples
func (r *Recording) IsEmpty() bool {
	return len(r.Samples) == 0
}
