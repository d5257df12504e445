// ------------------------------------------------------------
// Spinodal Decomposition (Cahn-Hilliard) in Go
// ------------------------------------------------------------
// PDE:
//   ∂c/∂t = ∇²( M [ A f'(c) − κ ∇²c ] ),   f(c) = c²(1 − c)²
//
// Method:
//   - 2D explicit finite differences, forward Euler in time
//   - Periodic boundary conditions
//   - Heatmap snapshots saved as PNG (~300 DPI)
//   - Free-energy trace (CSV + plot), final field CSV, resumable snapshot
//   - Optional SQLite run record
//
// Output folder (relative to where you run the program):
//   output/spinodal/<run-id>/
//
// Usage:
//   spinodal run --nx 128 --ny 128 --steps 20000 --seed 7
//   spinodal resume output/spinodal/<run-id>/snapshot.json --steps 10000
// ------------------------------------------------------------

package main

import "github.com/mohammadijoo/CahnHilliard_Go/src/spinodal/cmd"

func main() {
	cmd.Execute()
}
