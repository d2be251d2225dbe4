package features

import (
	"context"
	"math"

	"github.com/RyanBlaney/sonido-speech/algorithms/spectral"
	"github.com/RyanBlaney/sonido-speech/algorithms/stats"
	"github.com/RyanBlaney/sonido-speech/algorithms/temporal"
	"github.com/RyanBlaney/sonido-speech/transcode"
)

// SpectralColumns are the fields of the statistical table in order
var SpectralColumns = []string{
	"Mean_Freq", "Std_Freq", "Max_Freq", "Min_Freq", "Median_Freq",
	"Skew_Freq", "Kurtosis_Freq", "Q1_Freq", "Q3_Freq", "Mode_Freq", "IQR_Freq",
	"Energy", "RMSE", "Zero_Crossings",
}

// SpectralExtractor describes the distribution of FFT bin frequencies and
// the energy and zero crossings of the waveform
type SpectralExtractor struct{}

// NewSpectralExtractor creates the statistical extractor
func NewSpectralExtractor() *SpectralExtractor {
	return &SpectralExtractor{}
}

func (s *SpectralExtractor) Name() string     { return "spectral" }
func (s *SpectralExtractor) IDColumn() string { return "Filename" }

func (s *SpectralExtractor) Columns() []Column {
	return Scalars(SpectralColumns...)
}

// Extract computes the fourteen statistical descriptors of rec. The
// frequency grid uses unit sample spacing, so frequencies are in cycles per
// sample.
func (s *SpectralExtractor) Extract(ctx context.Context, rec *transcode.Recording) (FeatureRow, error) {
	if err := ctx.Err(); err != nil {
		return FeatureRow{}, err
	}
	if rec.IsEmpty() {
		return FeatureRow{}, ErrEmptyWaveform
	}

	freqs := spectral.FFTFreq(len(rec.Samples), 1)
	for i, f := range freqs {
		freqs[i] = math.Abs(f)
	}

	dist, ok := stats.Describe(freqs)
	if !ok {
		return FeatureRow{}, ErrEmptyWaveform
	}

	zc := spectral.NewZeroCrossingRate(rec.SampleRate).Count(rec.Samples)

	values := append(dist.Values(),
		temporal.Total(rec.Samples),
		temporal.RMSE(rec.Samples),
		float64(zc),
	)
	return FeatureRow{ID: rec.ID, Values: values}, nil
}
