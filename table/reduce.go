package table

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-speech/logging"
	"github.com/RyanBlaney/sonido-speech/report"
)

// Reduce collapses the measurement rows of t into one row of per-column
// arithmetic means. Empty and NaN cells are ignored. A column holding any
// non-numeric cell keeps its first non-empty value.
func Reduce(t *Table) (*Table, error) {
	if len(t.Header) == 0 {
		return nil, ErrEmptyDataTable
	}
	if len(t.Rows) == 0 {
		return nil, ErrEmptyMeasurementTable
	}

	row := make([]string, len(t.Header))
	for c := range t.Header {
		row[c] = reduceColumn(t.Rows, c)
	}

	out := New(t.Header)
	out.Rows = [][]string{row}
	return out, nil
}

func reduceColumn(rows [][]string, c int) string {
	first := ""
	sum, n := 0.0, 0
	numeric := true

	for _, row := range rows {
		cell := strings.TrimSpace(row[c])
		if cell == "" {
			continue
		}
		if first == "" {
			first = cell
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false
			continue
		}
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}

	switch {
	case !numeric:
		return first
	case n == 0:
		return ""
	default:
		return strconv.FormatFloat(sum/float64(n), 'g', -1, 64)
	}
}

// ReduceFile replaces the table at path with its column means
func ReduceFile(path string) error {
	t, err := Read(path)
	if err != nil {
		return err
	}
	reduced, err := Reduce(t)
	if err != nil {
		return err
	}
	return Write(path, reduced)
}

// Reducer applies ReduceFile to every table of a directory
type Reducer struct {
	policy PurgePolicy
	logger logging.Logger
}

// NewReducer creates a reducer that applies policy to empty tables
func NewReducer(policy PurgePolicy) *Reducer {
	return &Reducer{
		policy: policy,
		logger: logging.WithFields(logging.Fields{
			"component": "column_reducer",
		}),
	}
}

// ReduceDirectory reduces each .csv file of dir in place, in listing order
func (r *Reducer) ReduceDirectory(ctx context.Context, dir string) ([]FileOutcome, error) {
	logger := r.logger.WithFields(logging.Fields{
		"function": "ReduceDirectory",
		"dir":      dir,
	})

	paths, err := listFiles(dir, ".csv")
	if err != nil {
		return nil, err
	}

	var outcomes []FileOutcome
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		if err := ReduceFile(path); err != nil {
			status, cause := r.policy.Handle(path, err)
			logger.Warn("Table not reduced", logging.Fields{
				"path":   path,
				"status": string(status),
				"error":  cause.Error(),
			})
			outcomes = append(outcomes, FileOutcome{Path: path, Status: status, Err: cause})
			continue
		}

		logger.Debug("Reduced table", logging.Fields{"path": path})
		outcomes = append(outcomes, FileOutcome{Path: path, Status: report.StatusProcessed, Rows: 1})
	}
	return outcomes, nil
}
