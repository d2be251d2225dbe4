package features

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/sonido-speech/algorithms/speech"
	"github.com/RyanBlaney/sonido-speech/transcode"
)

// DefaultLPCOrder is the prediction order of the LPC table
const DefaultLPCOrder = 12

// LPCExtractor fits one all-pole model to each whole recording
type LPCExtractor struct {
	order  int
	method speech.LPCMethod
}

// NewLPCExtractor creates an extractor of the given order and method
func NewLPCExtractor(order int, method speech.LPCMethod) (*LPCExtractor, error) {
	if order <= 0 {
		return nil, fmt.Errorf("LPC order must be positive: %d", order)
	}
	return &LPCExtractor{order: order, method: method}, nil
}

func (l *LPCExtractor) Name() string     { return "lpc" }
func (l *LPCExtractor) IDColumn() string { return "Filename" }

func (l *LPCExtractor) Columns() []Column {
	return []Column{{Name: "LPC Coefficients", Width: l.order + 1}}
}

// Extract returns the inverse filter coefficients [1, a1, ..., ap]
func (l *LPCExtractor) Extract(ctx context.Context, rec *transcode.Recording) (FeatureRow, error) {
	if err := ctx.Err(); err != nil {
		return FeatureRow{}, err
	}
	if rec.IsEmpty() {
		return FeatureRow{}, ErrEmptyWaveform
	}

	result, err := speech.NewLPCAnalyzerWithMethod(rec.SampleRate, l.order, l.method).Analyze(rec.Samples)
	if err != nil {
		return FeatureRow{}, fmt.Errorf("LPC analysis failed: %w", err)
	}
	return FeatureRow{ID: rec.ID, Values: result.Coefficients}, nil
}
