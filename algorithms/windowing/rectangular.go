package windowing

// Rectangular leaves the frame unchanged
type Rectangular struct {
	size         int
	coefficients []float64
}

// NewRectangular creates a new rectangular window
func NewRectangular(size int) *Rectangular {
	r := &Rectangular{
		size:         size,
		coefficients: make([]float64, size),
	}
	for i := range r.coefficients {
		r.coefficients[i] = 1
	}
	return r
}

func (r *Rectangular) Apply(signal []float64) []float64 {
	return applyCoefficients(signal, r.coefficients)
}

func (r *Rectangular) ApplyInPlace(signal []float64) error {
	return applyCoefficientsInPlace(signal, r.coefficients)
}

func (r *Rectangular) GetCoefficients() []float64 {
	return append([]float64(nil), r.coefficients...)
}

func (r *Rectangular) GetSize() int    { return r.size }
func (r *Rectangular) GetType() string { return "rectangular" }
