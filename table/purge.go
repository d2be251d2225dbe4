package table

import (
	"errors"
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-speech/logging"
	"github.com/RyanBlaney/sonido-speech/report"
)

// PurgePolicy decides what happens to a table file that failed validation
// with ErrEmptyDataTable or ErrEmptyMeasurementTable. With Enabled set the
// file is deleted; otherwise it is left in place and skipped. Other errors
// never delete anything.
type PurgePolicy struct {
	Enabled bool

	remove func(string) error
	logger logging.Logger
}

// NewPurgePolicy creates a policy that deletes empty tables when enabled
func NewPurgePolicy(enabled bool) PurgePolicy {
	return PurgePolicy{
		Enabled: enabled,
		remove:  os.Remove,
		logger: logging.WithFields(logging.Fields{
			"component": "purge_policy",
		}),
	}
}

// Handle classifies a per-file error and applies the policy. The returned
// error is the cause, or the removal failure.
func (p PurgePolicy) Handle(path string, cause error) (report.Status, error) {
	if !errors.Is(cause, ErrEmptyDataTable) && !errors.Is(cause, ErrEmptyMeasurementTable) {
		return report.StatusSkipped, cause
	}
	if !p.Enabled {
		return report.StatusSkipped, cause
	}

	remove := p.remove
	if remove == nil {
		remove = os.Remove
	}
	if err := remove(path); err != nil {
		return report.StatusSkipped, fmt.Errorf("failed to purge %s: %w", path, err)
	}

	if p.logger != nil {
		p.logger.Warn("Removed empty table", logging.Fields{
			"path":   path,
			"reason": cause.Error(),
		})
	}
	return report.StatusDeleted, cause
}
