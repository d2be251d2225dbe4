package features

import (
	"fmt"

	"github.com/RyanBlaney/sonido-speech/algorithms/stats"
)

// PerturbationColumns are the jitter and shimmer fields reduced by
// AddVarianceProjection
var PerturbationColumns = []string{
	"localJitter", "localabsoluteJitter", "rapJitter", "ppq5Jitter", "ddpJitter",
	"localShimmer", "localdbShimmer", "apq3Shimmer", "apq5Shimmer", "apq11Shimmer", "ddaShimmer",
}

// ProjectionColumns are the component columns appended to the table
var ProjectionColumns = []string{"JitterPCA", "ShimmerPCA"}

// AddVarianceProjection fits a two-component PCA over the perturbation
// columns of t and appends the component scores as JitterPCA and ShimmerPCA.
// It must run after every row is in the table. Errors wrap
// stats.ErrInsufficientDataForProjection when the block cannot be projected;
// t is left unchanged on error.
func AddVarianceProjection(t *FeatureTable) (*stats.ProjectionModel, error) {
	block := make([][]float64, len(t.Rows))
	for i := range block {
		block[i] = make([]float64, len(PerturbationColumns))
	}
	for c, name := range PerturbationColumns {
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		for r, v := range values {
			block[r][c] = v
		}
	}

	scores, model, err := stats.FitTransform(block, len(ProjectionColumns))
	if err != nil {
		return nil, fmt.Errorf("variance projection failed: %w", err)
	}
	if err := t.AddColumns(ProjectionColumns, scores); err != nil {
		return nil, err
	}
	return model, nil
}
