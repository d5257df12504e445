package cahnhilliard

import (
	"fmt"
	"math"
)

// Grid describes the 2D periodic discretization.
//
// Derived quantities are methods so they can never drift from NX, NY, DX, DY.
type Grid struct {
	NX, NY int     // grid point counts
	DX, DY float64 // spacing
}

// NewGrid validates and returns a grid descriptor.
func NewGrid(nx, ny int, dx, dy float64) (Grid, error) {
	g := Grid{NX: nx, NY: ny, DX: dx, DY: dy}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// Validate reports a configuration error for non-positive dimensions or spacing.
func (g Grid) Validate() error {
	if g.NX <= 0 || g.NY <= 0 {
		return fmt.Errorf("%w: nx=%d ny=%d must be positive", ErrInvalidGrid, g.NX, g.NY)
	}
	if !positive(g.DX) || !positive(g.DY) {
		return fmt.Errorf("%w: dx=%g dy=%g must be positive", ErrInvalidGrid, g.DX, g.DY)
	}
	return nil
}

// PointCount is nx*ny.
func (g Grid) PointCount() int { return g.NX * g.NY }

// CellArea is dx*dy. The Laplacian stencil normalizes by it.
func (g Grid) CellArea() float64 { return g.DX * g.DY }

// DomainArea is (dx*nx)*(dy*ny).
func (g Grid) DomainArea() float64 {
	return (g.DX * float64(g.NX)) * (g.DY * float64(g.NY))
}

// X and Y return physical coordinates of a grid column/row.
func (g Grid) X(i int) float64 { return float64(i) * g.DX }
func (g Grid) Y(j int) float64 { return float64(j) * g.DY }

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
