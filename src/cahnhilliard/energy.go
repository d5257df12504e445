package cahnhilliard

import "gonum.org/v1/gonum/mat"

// BulkEnergyDensity is the double-well c²(1-c)², with minima at c=0 and c=1.
func BulkEnergyDensity(c float64) float64 {
	d := 1.0 - c
	return c * c * d * d
}

// ChemicalPotential is the derivative of the double well:
// 2c(1-c)² − 2c²(1-c).
func ChemicalPotential(c float64) float64 {
	d := 1.0 - c
	return 2.0*c*d*d - 2.0*c*c*d
}

// FreeEnergy returns the discretized total free energy of f:
//
//	F = Σ c²(1-c)² + ½κ((c[i+1,j]-c[i,j])² + (c[i,j+1]-c[i,j])²)
//
// with periodic wrap. The sum carries no dx·dy cell weighting, the gradient
// term uses raw differences rather than differences over dx and dy, and the
// bulk term is not scaled by the barrier height A. VariationalDerivative uses
// all three, so F is the exact Lyapunov functional of the dynamics only for
// dx = dy = 1 and A = 1. On other grids it is a trend diagnostic whose scale
// differs from the energy the dynamics minimize.
func FreeEnergy(f *Field) float64 {
	g := f.grid
	kappa := f.material.GradientPenalty
	c := f.value

	var bulk, grad float64
	for i := 0; i < g.NX; i++ {
		_, in := Neighbors(i, g.NX)
		row := c.RawRowView(i)
		next := c.RawRowView(in)

		for j := 0; j < g.NY; j++ {
			_, jn := Neighbors(j, g.NY)
			v := row[j]
			dxc := next[j] - v
			dyc := row[jn] - v

			bulk += BulkEnergyDensity(v)
			grad += dxc*dxc + dyc*dyc
		}
	}
	return bulk + 0.5*kappa*grad
}

// VariationalDerivative assembles δF/δc over the grid:
//
//	δF/δc = A·μ(c) − κ∇²c
//
// ∇²c is left in the field's Laplacian buffer and δF/δc in its gradient
// buffer, which is returned.
func VariationalDerivative(f *Field) *mat.Dense {
	g := f.grid
	area := g.CellArea()
	a := f.material.BarrierHeight
	kappa := f.material.GradientPenalty

	for i := 0; i < g.NX; i++ {
		ip, in := Neighbors(i, g.NX)
		for j := 0; j < g.NY; j++ {
			jp, jn := Neighbors(j, g.NY)

			lap := Stencil(f.value, ip, i, in, jp, j, jn, area)
			f.laplacian.Set(i, j, lap)
			f.gradient.Set(i, j, a*ChemicalPotential(f.value.At(i, j))-kappa*lap)
		}
	}
	return f.gradient
}

// OuterLaplacian applies the stencil to the δF/δc buffer, writing
// ∇²(δF/δc) into the Laplacian buffer. VariationalDerivative must have run
// first: every point needs its four neighbors' δF/δc fully materialized.
func OuterLaplacian(f *Field) *mat.Dense {
	LaplacianInto(f.laplacian, f.gradient, f.grid)
	return f.laplacian
}
