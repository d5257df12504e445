package cahnhilliard

import (
	"fmt"
	"math"
)

// Material holds the physical constants of the binary mixture.
type Material struct {
	AverageConcentration float64 // target mean of the field
	Mobility             float64 // M
	GradientPenalty      float64 // κ
	BarrierHeight        float64 // A, scales the double-well chemical potential
}

// NewMaterial validates and returns material parameters.
func NewMaterial(avg, mobility, kappa, barrier float64) (Material, error) {
	m := Material{
		AverageConcentration: avg,
		Mobility:             mobility,
		GradientPenalty:      kappa,
		BarrierHeight:        barrier,
	}
	if err := m.Validate(); err != nil {
		return Material{}, err
	}
	return m, nil
}

// Validate reports a configuration error for non-positive coefficients.
func (m Material) Validate() error {
	if math.IsNaN(m.AverageConcentration) || math.IsInf(m.AverageConcentration, 0) {
		return fmt.Errorf("%w: average concentration %g is not finite", ErrInvalidMaterial, m.AverageConcentration)
	}
	if !positive(m.Mobility) {
		return fmt.Errorf("%w: mobility %g must be positive", ErrInvalidMaterial, m.Mobility)
	}
	if !positive(m.GradientPenalty) {
		return fmt.Errorf("%w: gradient penalty %g must be positive", ErrInvalidMaterial, m.GradientPenalty)
	}
	if !positive(m.BarrierHeight) {
		return fmt.Errorf("%w: barrier height %g must be positive", ErrInvalidMaterial, m.BarrierHeight)
	}
	return nil
}
