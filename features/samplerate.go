package features

import (
	"context"

	"github.com/RyanBlaney/sonido-speech/transcode"
)

// SampleRateExtractor reports the native sample rate of each recording
type SampleRateExtractor struct{}

func NewSampleRateExtractor() *SampleRateExtractor {
	return &SampleRateExtractor{}
}

func (s *SampleRateExtractor) Name() string      { return "samplerate" }
func (s *SampleRateExtractor) IDColumn() string  { return "Filename" }
func (s *SampleRateExtractor) Columns() []Column { return Scalars("Sample Rate") }

func (s *SampleRateExtractor) Extract(ctx context.Context, rec *transcode.Recording) (FeatureRow, error) {
	if err := ctx.Err(); err != nil {
		return FeatureRow{}, err
	}
	return FeatureRow{ID: rec.ID, Values: []float64{float64(rec.SampleRate)}}, nil
}
