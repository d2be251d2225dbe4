package table

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/RyanBlaney/sonido-speech/logging"
	"github.com/RyanBlaney/sonido-speech/report"
)

// FileOutcome is the result of processing one table file
type FileOutcome struct {
	Path   string
	Status report.Status
	Err    error
	Rows   int
}

// Merger concatenates every table in a directory into one corpus table
type Merger struct {
	policy PurgePolicy
	logger logging.Logger
}

// NewMerger creates a merger that applies policy to empty tables
func NewMerger(policy PurgePolicy) *Merger {
	return &Merger{
		policy: policy,
		logger: logging.WithFields(logging.Fields{
			"component": "corpus_merger",
		}),
	}
}

// MergeDirectory reads each .csv file of dir in listing order and stacks
// their rows under the union header. The output path is excluded from the
// inputs. Files that fail to parse are reported and skipped (or purged, per
// policy); the merge itself fails only when dir cannot be listed, the
// context is cancelled, or nothing readable remains.
func (m *Merger) MergeDirectory(ctx context.Context, dir, output string) (*Table, []FileOutcome, error) {
	logger := m.logger.WithFields(logging.Fields{
		"function": "MergeDirectory",
		"dir":      dir,
	})

	paths, err := listFiles(dir, ".csv")
	if err != nil {
		return nil, nil, err
	}

	outputAbs, _ := filepath.Abs(output)

	var tables []*Table
	var outcomes []FileOutcome
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, outcomes, err
		}
		if abs, _ := filepath.Abs(path); output != "" && abs == outputAbs {
			continue
		}

		t, err := Read(path)
		if err != nil {
			status, cause := m.policy.Handle(path, err)
			logger.Warn("Table not merged", logging.Fields{
				"path":   path,
				"status": string(status),
				"error":  cause.Error(),
			})
			outcomes = append(outcomes, FileOutcome{Path: path, Status: status, Err: cause})
			continue
		}

		tables = append(tables, t)
		outcomes = append(outcomes, FileOutcome{Path: path, Status: report.StatusProcessed, Rows: len(t.Rows)})
	}

	if len(tables) == 0 {
		return nil, outcomes, fmt.Errorf("no readable tables in %s", dir)
	}

	merged := Concat(tables...)
	logger.Info("Merged tables", logging.Fields{
		"tables": len(tables),
		"rows":   len(merged.Rows),
	})
	return merged, outcomes, nil
}
