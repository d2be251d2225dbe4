package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientDataForProjection is returned when the block has fewer
// than two rows or fewer non-degenerate columns than requested components
var ErrInsufficientDataForProjection = errors.New("insufficient data for projection")

// degenerateScale is the population standard deviation under which a
// column is treated as constant
const degenerateScale = 1e-12

// ProjectionModel holds everything fitted by FitProjection: per-column
// imputation means, standardisation scales and the principal basis.
// It is meant to be fitted and applied within a single run.
type ProjectionModel struct {
	Kept      []int      // Input column indices that were not entirely missing
	Means     []float64  // Imputation / centering mean per kept column
	Scales    []float64  // Population standard deviation per kept column (1 when constant)
	Basis     *mat.Dense // len(Kept) x components loading matrix
	Variances []float64  // Variance explained by each retained component
}

// FitProjection fits mean imputation, standardisation and a PCA basis with
// the given number of components over data (rows x columns; NaN = missing).
//
// Columns that are entirely missing are dropped from the block. Component
// signs are fixed so the largest-magnitude loading of each component is
// positive, making repeated fits on identical input bit-identical.
func FitProjection(data [][]float64, components int) (*ProjectionModel, error) {
	if components <= 0 {
		return nil, fmt.Errorf("components must be positive: %d", components)
	}
	rows := len(data)
	if rows < 2 {
		return nil, fmt.Errorf("%w: %d rows", ErrInsufficientDataForProjection, rows)
	}
	cols := len(data[0])
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), cols)
		}
	}

	model := &ProjectionModel{}
	for c := 0; c < cols; c++ {
		sum, count := 0.0, 0
		for r := 0; r < rows; r++ {
			if v := data[r][c]; !math.IsNaN(v) {
				sum += v
				count++
			}
		}
		if count == 0 {
			continue
		}
		model.Kept = append(model.Kept, c)
		model.Means = append(model.Means, sum/float64(count))
	}

	// Scales come from the imputed column, as a separate imputer then
	// scaler would see it
	nonDegenerate := 0
	model.Scales = make([]float64, len(model.Kept))
	for k, c := range model.Kept {
		ss := 0.0
		for r := 0; r < rows; r++ {
			d := imputed(data[r][c], model.Means[k]) - model.Means[k]
			ss += d * d
		}
		scale := math.Sqrt(ss / float64(rows))
		if scale < degenerateScale {
			scale = 1
		} else {
			nonDegenerate++
		}
		model.Scales[k] = scale
	}

	if nonDegenerate < components || nonDegenerate < 2 {
		return nil, fmt.Errorf("%w: %d non-degenerate columns", ErrInsufficientDataForProjection, nonDegenerate)
	}

	standardized := model.standardize(data)

	var pc stat.PC
	if ok := pc.PrincipalComponents(standardized, nil); !ok {
		return nil, fmt.Errorf("%w: decomposition failed", ErrInsufficientDataForProjection)
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	_, available := vecs.Dims()
	if available < components {
		return nil, fmt.Errorf("%w: only %d components available", ErrInsufficientDataForProjection, available)
	}

	basis := mat.DenseCopyOf(vecs.Slice(0, len(model.Kept), 0, components))
	fixSigns(basis)
	model.Basis = basis
	model.Variances = pc.VarsTo(nil)[:components]

	return model, nil
}

// Transform projects data onto the fitted basis. Rows are returned in
// input order.
func (m *ProjectionModel) Transform(data [][]float64) [][]float64 {
	standardized := m.standardize(data)
	rows, _ := standardized.Dims()
	_, components := m.Basis.Dims()

	var projected mat.Dense
	projected.Mul(standardized, m.Basis)

	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]float64, components)
		for c := 0; c < components; c++ {
			out[r][c] = projected.At(r, c)
		}
	}
	return out
}

// FitTransform fits a model on data and projects the same data with it
func FitTransform(data [][]float64, components int) ([][]float64, *ProjectionModel, error) {
	model, err := FitProjection(data, components)
	if err != nil {
		return nil, nil, err
	}
	return model.Transform(data), model, nil
}

func (m *ProjectionModel) standardize(data [][]float64) *mat.Dense {
	out := mat.NewDense(len(data), len(m.Kept), nil)
	for r, row := range data {
		for k, c := range m.Kept {
			v := imputed(row[c], m.Means[k])
			out.Set(r, k, (v-m.Means[k])/m.Scales[k])
		}
	}
	return out
}

func imputed(v, mean float64) float64 {
	if math.IsNaN(v) {
		return mean
	}
	return v
}

// fixSigns flips each column so that its largest-magnitude entry is positive
func fixSigns(basis *mat.Dense) {
	rows, cols := basis.Dims()
	for c := 0; c < cols; c++ {
		maxAbs, sign := 0.0, 1.0
		for r := 0; r < rows; r++ {
			if v := basis.At(r, c); math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
				sign = math.Copysign(1, v)
			}
		}
		if sign < 0 {
			for r := 0; r < rows; r++ {
				basis.Set(r, c, -basis.At(r, c))
			}
		}
	}
}
