package plotting

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
)

// SaveEnergyPlot draws the free energy against simulated time.
func SaveEnergyPlot(filename string, samples []cahnhilliard.EnergySample) error {
	if len(samples) == 0 {
		return errors.New("energy plot: no samples")
	}

	p := plot.New()
	p.Title.Text = "Total Free Energy vs Time"
	p.X.Label.Text = "time"
	p.Y.Label.Text = "F"
	stylePlot(p)

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Time
		pts[i].Y = s.Energy
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("energy plot: %w", err)
	}
	line.LineStyle.Width = vg.Points(3.0)
	p.Add(line)

	return savePlotPNG(p, tracePage, filename)
}
