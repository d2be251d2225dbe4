package tonal

import (
	"fmt"
	"math"
	"strings"
)

// PitchUnit is the scale in which pitch statistics are reported
type PitchUnit string

const (
	UnitHertz     PitchUnit = "Hertz"
	UnitMel       PitchUnit = "mel"
	UnitSemitones PitchUnit = "semitones re 100 Hz"
	UnitERB       PitchUnit = "ERB"
)

// ParsePitchUnit accepts the unit names case-insensitively, plus the short
// forms "hz" and "semitones"
func ParsePitchUnit(s string) (PitchUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hertz", "hz":
		return UnitHertz, nil
	case "mel":
		return UnitMel, nil
	case "semitones", "semitones re 100 hz", "st":
		return UnitSemitones, nil
	case "erb":
		return UnitERB, nil
	default:
		return "", fmt.Errorf("unknown pitch unit %q", s)
	}
}

// Convert maps a frequency in Hz to unit
func (u PitchUnit) Convert(hz float64) float64 {
	switch u {
	case UnitMel:
		return 550 * math.Log(1+hz/550)
	case UnitSemitones:
		return 12 * math.Log2(hz/100)
	case UnitERB:
		return 11.17*math.Log((hz+312)/(hz+14680)) + 43
	default:
		return hz
	}
}

func convertAll(hz []float64, unit PitchUnit) []float64 {
	out := make([]float64, len(hz))
	for i, f := range hz {
		out[i] = unit.Convert(f)
	}
	return out
}
