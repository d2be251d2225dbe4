package features

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/sonido-speech/algorithms/speech"
	"github.com/RyanBlaney/sonido-speech/algorithms/tonal"
	"github.com/RyanBlaney/sonido-speech/logging"
	"github.com/RyanBlaney/sonido-speech/transcode"
)

// ProsodicColumns are the fields of the prosodic table in order
var ProsodicColumns = []string{
	"meanF0Hz", "stdevF0Hz", "HNR",
	"localJitter", "localabsoluteJitter", "rapJitter", "ppq5Jitter", "ddpJitter",
	"localShimmer", "localdbShimmer", "apq3Shimmer", "apq5Shimmer", "apq11Shimmer", "ddaShimmer",
}

// ProsodicConfig holds the pitch range and output unit
type ProsodicConfig struct {
	Floor   float64         `json:"floor"`   // Hz
	Ceiling float64         `json:"ceiling"` // Hz
	Unit    tonal.PitchUnit `json:"unit"`
}

// DefaultProsodicConfig returns a 75-500 Hz range reported in Hertz
func DefaultProsodicConfig() ProsodicConfig {
	p := tonal.DefaultPitchParams()
	return ProsodicConfig{
		Floor:   p.Floor,
		Ceiling: p.Ceiling,
		Unit:    tonal.UnitHertz,
	}
}

// ProsodicExtractor measures pitch statistics, HNR, jitter and shimmer
type ProsodicExtractor struct {
	config ProsodicConfig
	logger logging.Logger
}

// NewProsodicExtractor validates config and creates the extractor
func NewProsodicExtractor(config ProsodicConfig) (*ProsodicExtractor, error) {
	if config.Floor <= 0 || config.Ceiling <= config.Floor {
		return nil, fmt.Errorf("invalid pitch range %.1f-%.1f Hz", config.Floor, config.Ceiling)
	}
	if config.Unit == "" {
		config.Unit = tonal.UnitHertz
	}

	return &ProsodicExtractor{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "prosodic_extractor",
		}),
	}, nil
}

func (p *ProsodicExtractor) Name() string     { return "prosody" }
func (p *ProsodicExtractor) IDColumn() string { return "voiceID" }

func (p *ProsodicExtractor) Columns() []Column {
	return Scalars(ProsodicColumns...)
}

// Extract analyses one recording. A recording too short for the configured
// floor is analysed with the floor raised to the lowest detectable pitch.
func (p *ProsodicExtractor) Extract(ctx context.Context, rec *transcode.Recording) (FeatureRow, error) {
	if err := ctx.Err(); err != nil {
		return FeatureRow{}, err
	}
	if rec.IsEmpty() {
		return FeatureRow{}, ErrEmptyWaveform
	}

	params := tonal.DefaultPitchParams()
	params.Floor = p.config.Floor
	params.Ceiling = p.config.Ceiling

	result, err := speech.NewSpeechAnalyzer(rec.SampleRate, params).AnalyzeProsody(rec.Samples, p.config.Unit)
	if err != nil {
		return FeatureRow{}, err
	}

	if result.FloorRaised {
		p.logger.Warn("Pitch floor raised for short recording", logging.Fields{
			"recording":       rec.ID,
			"duration":        rec.Seconds(),
			"requested_floor": p.config.Floor,
			"floor":           result.Floor,
		})
	}

	vq := result.VoiceQuality
	return FeatureRow{
		ID: rec.ID,
		Values: []float64{
			result.MeanF0, result.StdF0, vq.HNR,
			vq.Jitter.Local, vq.Jitter.LocalAbsolute, vq.Jitter.RAP, vq.Jitter.PPQ5, vq.Jitter.DDP,
			vq.Shimmer.Local, vq.Shimmer.LocalDB, vq.Shimmer.APQ3, vq.Shimmer.APQ5, vq.Shimmer.APQ11, vq.Shimmer.DDA,
		},
	}, nil
}
