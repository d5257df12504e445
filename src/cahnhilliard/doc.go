// ------------------------------------------------------------
// Cahn-Hilliard spinodal decomposition in Go
// ------------------------------------------------------------
// PDE:
//   ∂c/∂t = ∇²( M δF/δc ),   δF/δc = A f'(c) − κ ∇²c
//   f(c)  = c² (1 − c)²      (double well, minima at c = 0 and c = 1)
//
// Method:
//   - 2D explicit finite differences (forward Euler in time)
//   - 5-point Laplacian applied twice (∇²c, then ∇²(δF/δc))
//   - Periodic boundary conditions on both axes
//   - Discrete free energy tracked as a correctness diagnostic
// ------------------------------------------------------------

// Package cahnhilliard simulates phase separation of a binary mixture on a
// periodic 2D grid.
//
// A run is built from a Grid, a Material and a Clock. NewMicrostructure seeds
// the concentration field with noise around the average concentration, and a
// Driver evolves it in place:
//
//	field, err := cahnhilliard.NewMicrostructure(grid, material, 0.02, rand.New(rand.NewSource(seed)))
//	driver, err := cahnhilliard.NewDriver(field, clock, cahnhilliard.Options{EnergyCheckInterval: 100})
//	err = driver.Run(ctx)
//
// The field's Value matrix is live; hosts copy it with Snapshot before the
// next step mutates it.
package cahnhilliard
