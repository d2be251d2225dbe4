package features

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/iter"

	"github.com/RyanBlaney/sonido-speech/logging"
	"github.com/RyanBlaney/sonido-speech/report"
	"github.com/RyanBlaney/sonido-speech/transcode"
)

// FileResult is the outcome of one recording in a batch
type FileResult struct {
	Path   string
	Status report.Status
	Err    error
	Row    *FeatureRow
}

// BatchRunner decodes recordings and runs per-file work on a bounded pool.
// Results come back in input order whatever the pool size.
type BatchRunner struct {
	decoder *transcode.Decoder
	workers int
	logger  logging.Logger
}

// NewBatchRunner creates a runner. workers <= 0 selects GOMAXPROCS.
func NewBatchRunner(decoder *transcode.Decoder, workers int) *BatchRunner {
	if decoder == nil {
		decoder = transcode.NewDecoder(nil)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &BatchRunner{
		decoder: decoder,
		workers: workers,
		logger: logging.WithFields(logging.Fields{
			"component": "batch_runner",
		}),
	}
}

// Run extracts one row per path and folds the successful rows into a table
// in input order. Per-file failures are recorded in the results and do not
// stop the batch; only cancellation does.
func (b *BatchRunner) Run(ctx context.Context, paths []string, e Extractor) (*FeatureTable, []FileResult, error) {
	logger := b.logger.WithFields(logging.Fields{
		"function":  "Run",
		"extractor": e.Name(),
	})

	results := b.each(ctx, paths, func(ctx context.Context, rec *transcode.Recording) (*FeatureRow, error) {
		row, err := e.Extract(ctx, rec)
		if err != nil {
			return nil, err
		}
		return &row, nil
	})

	t := NewTableFor(e)
	for i, r := range results {
		if r.Row == nil {
			continue
		}
		if err := t.Append(*r.Row); err != nil {
			results[i].Status = report.StatusSkipped
			results[i].Err = err
			results[i].Row = nil
			logger.Warn("Row rejected", logging.Fields{"path": r.Path, "error": err.Error()})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, results, err
	}

	logger.Info("Batch complete", logging.Fields{
		"files": len(paths),
		"rows":  len(t.Rows),
	})
	return t, results, nil
}

// ForEach runs fn on every decoded recording, for work that writes its own
// output instead of producing a row
func (b *BatchRunner) ForEach(ctx context.Context, paths []string, fn func(context.Context, *transcode.Recording) error) ([]FileResult, error) {
	results := b.each(ctx, paths, func(ctx context.Context, rec *transcode.Recording) (*FeatureRow, error) {
		return nil, fn(ctx, rec)
	})
	return results, ctx.Err()
}

func (b *BatchRunner) each(ctx context.Context, paths []string, fn func(context.Context, *transcode.Recording) (*FeatureRow, error)) []FileResult {
	mapper := iter.Mapper[string, FileResult]{MaxGoroutines: b.workers}

	return mapper.Map(paths, func(path *string) FileResult {
		res := FileResult{Path: *path}
		if err := ctx.Err(); err != nil {
			res.Status, res.Err = report.StatusSkipped, err
			return res
		}

		rec, err := b.decoder.DecodeFile(ctx, *path)
		if err == nil {
			res.Row, err = fn(ctx, rec)
		}
		if err != nil {
			res.Status, res.Err = report.StatusSkipped, err
			b.logSkip(*path, err)
			return res
		}

		res.Status = report.StatusProcessed
		return res
	})
}

func (b *BatchRunner) logSkip(path string, err error) {
	reason := "extraction failed"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return
	case errors.Is(err, transcode.ErrUnreadableAudio):
		reason = "unreadable audio"
	case errors.Is(err, ErrEmptyWaveform):
		reason = "empty waveform"
	case errors.Is(err, ErrNoVoicedSegment):
		reason = "no voiced segment"
	}

	b.logger.Warn(fmt.Sprintf("Skipping recording: %s", reason), logging.Fields{
		"path":  path,
		"error": err.Error(),
	})
}
