package features

import (
	"context"

	"github.com/RyanBlaney/sonido-speech/transcode"
)

// Extractor computes one family of descriptors for a recording.
// Implementations hold no state across recordings and are safe for
// concurrent use.
type Extractor interface {
	Name() string
	IDColumn() string
	Columns() []Column
	Extract(ctx context.Context, rec *transcode.Recording) (FeatureRow, error)
}

// NewTableFor returns an empty table with the extractor's header
func NewTableFor(e Extractor) *FeatureTable {
	return NewFeatureTable(e.IDColumn(), e.Columns())
}
