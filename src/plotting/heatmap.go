package plotting

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
)

// concentrationGrid exposes a concentration matrix as a GridXYZ.
// Columns run along x (matrix rows i), rows along y (matrix columns j).
type concentrationGrid struct {
	grid   cahnhilliard.Grid
	values mat.Matrix
}

func (g concentrationGrid) Dims() (c, r int) { return g.grid.NX, g.grid.NY }
func (g concentrationGrid) Z(c, r int) float64 { return g.values.At(c, r) }
func (g concentrationGrid) X(c int) float64 { return g.grid.X(c) }
func (g concentrationGrid) Y(r int) float64 { return g.grid.Y(r) }

// SaveFieldHeatMap renders values (nx × ny) as a heatmap PNG.
// values should be a snapshot; the live field changes every step.
func SaveFieldHeatMap(filename, title string, grid cahnhilliard.Grid, values mat.Matrix) error {
	if r, c := values.Dims(); r != grid.NX || c != grid.NY {
		return errors.New("heatmap: values do not match grid")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	stylePlot(p)

	pal := moreland.Kindlmann().Palette(255)
	hm := plotter.NewHeatMap(concentrationGrid{grid: grid, values: values}, pal)
	// A flat field would give a zero-width color range.
	if hm.Min == hm.Max {
		hm.Min -= 0.5
		hm.Max += 0.5
	}
	p.Add(hm)

	return savePlotPNG(p, heatmapPage, filename)
}
