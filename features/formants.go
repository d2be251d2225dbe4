package features

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/sonido-speech/algorithms/speech"
	"github.com/RyanBlaney/sonido-speech/transcode"
)

// FormantColumns are the fields of a frame-level formant table
var FormantColumns = []string{"F1frequency", "F2frequency", "F3frequency"}

// FormantExtractor writes one frame-level F1-F3 table per recording
type FormantExtractor struct {
	params    speech.FormantParams
	outputDir string
}

// NewFormantExtractor creates an extractor writing into outputDir
func NewFormantExtractor(outputDir string, params speech.FormantParams) *FormantExtractor {
	params.MaxFormants = len(FormantColumns)
	return &FormantExtractor{
		params:    params,
		outputDir: outputDir,
	}
}

// OutputPath returns where the table of rec is written
func (f *FormantExtractor) OutputPath(rec *transcode.Recording) string {
	name := strings.TrimSuffix(rec.ID, filepath.Ext(rec.ID)) + ".csv"
	return filepath.Join(f.outputDir, name)
}

// Frames tracks formants over rec, one row per analysis frame
func (f *FormantExtractor) Frames(ctx context.Context, rec *transcode.Recording) (*FeatureTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rec.IsEmpty() {
		return nil, ErrEmptyWaveform
	}

	frames, err := speech.NewFormantAnalyzerWithParams(rec.SampleRate, f.params).AnalyzeFrames(rec.Samples)
	if err != nil {
		return nil, fmt.Errorf("formant analysis failed: %w", err)
	}

	t := NewFeatureTable("filename", Scalars(FormantColumns...))
	for _, frame := range frames {
		if err := t.Append(FeatureRow{ID: rec.ID, Values: frame.Frequencies}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Process tracks formants over rec and writes the table to OutputPath
func (f *FormantExtractor) Process(ctx context.Context, rec *transcode.Recording) error {
	t, err := f.Frames(ctx, rec)
	if err != nil {
		return err
	}
	if err := t.Write(f.OutputPath(rec)); err != nil {
		return fmt.Errorf("failed to write formant table: %w", err)
	}
	return nil
}
