package windowing

import (
	"math"
)

// Blackman is a three-term cosine window with lower sidelobes than Hamming,
// at the cost of a wider main lobe
type Blackman struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewBlackman creates a new Blackman window
func NewBlackman(size int, symmetric bool) *Blackman {
	b := &Blackman{
		size:      size,
		symmetric: symmetric,
	}
	b.generate()
	return b
}

func (b *Blackman) generate() {
	b.coefficients = make([]float64, b.size)
	if b.size == 1 {
		b.coefficients[0] = 1
		return
	}

	denominator := float64(b.size)
	if b.symmetric {
		denominator = float64(b.size - 1)
	}

	for i := 0; i < b.size; i++ {
		arg := 2 * math.Pi * float64(i) / denominator
		// Clamp the -0 rounding at the end points
		b.coefficients[i] = math.Max(0, 0.42-0.5*math.Cos(arg)+0.08*math.Cos(2*arg))
	}
}

func (b *Blackman) Apply(signal []float64) []float64 {
	return applyCoefficients(signal, b.coefficients)
}

func (b *Blackman) ApplyInPlace(signal []float64) error {
	return applyCoefficientsInPlace(signal, b.coefficients)
}

func (b *Blackman) GetCoefficients() []float64 {
	return append([]float64(nil), b.coefficients...)
}

func (b *Blackman) GetSize() int    { return b.size }
func (b *Blackman) GetType() string { return "blackman" }
