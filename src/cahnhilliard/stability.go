package cahnhilliard

import "fmt"

// maxCurvature bounds f''(c) of the double well on [0, 1].
const maxCurvature = 2.0

// StableTimeStep returns the largest Δt for which the explicit scheme is
// linearly stable on g.
//
// Linearizing c ← c + Δt·M·∇²(A·f''·c − κ∇²c) around a uniform state, a
// Fourier mode with discrete wavenumber k² grows by 1 − Δt·M·k²(A·f'' + κk²).
// The 5-point stencil normalized by dx·dy reaches k² = 8/(dx·dy), so
//
//	Δt ≤ 2 / (M·k²·(2A + κ·k²))
func StableTimeStep(g Grid, m Material) float64 {
	k2 := 8.0 / g.CellArea()
	return 2.0 / (m.Mobility * k2 * (maxCurvature*m.BarrierHeight + m.GradientPenalty*k2))
}

// CheckStability returns ErrUnstableTimeStep if dt exceeds StableTimeStep.
func CheckStability(g Grid, m Material, dt float64) error {
	if limit := StableTimeStep(g, m); dt > limit {
		return fmt.Errorf("%w: dt=%g > %g", ErrUnstableTimeStep, dt, limit)
	}
	return nil
}
