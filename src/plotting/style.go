// Package plotting renders simulation outputs: concentration heatmaps and
// free-energy traces as 300 DPI PNGs (Gonum Plot), plus CSV logs.
package plotting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DPI of every raster canvas.
const DPI = 300

// maxTicks caps the labels per axis.
const maxTicks = 10

// page is a canvas size.
type page struct {
	width, height vg.Length
}

var (
	heatmapPage = page{width: 8 * vg.Inch, height: 6.5 * vg.Inch}
	tracePage   = page{width: 8 * vg.Inch, height: 6 * vg.Inch}
)

// spanTicker places at most n evenly spaced ticks over the axis range.
// Labels carry just enough decimals to tell neighboring ticks apart, so a
// grid axis reads "0 7 14" and an energy axis "3.66 3.67 3.68".
type spanTicker struct {
	n int
}

func (t spanTicker) Ticks(lo, hi float64) []plot.Tick {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil
	}
	if lo == hi {
		return []plot.Tick{{Value: lo, Label: strconv.FormatFloat(lo, 'g', 4, 64)}}
	}

	n := max(t.n, 2)
	step := (hi - lo) / float64(n-1)
	prec := labelPrecision(step)

	ticks := make([]plot.Tick, n)
	for i := range ticks {
		v := lo + float64(i)*step
		ticks[i] = plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', prec, 64)}
	}
	return ticks
}

// labelPrecision is the number of decimals that resolves a tick spacing of step.
func labelPrecision(step float64) int {
	switch {
	case step <= 0:
		return 0
	case step >= 1:
		if step == math.Trunc(step) {
			return 0
		}
		return 1
	}
	return int(math.Ceil(-math.Log10(step) - 1e-9))
}

// stylePlot applies the shared look: large fonts, thick axes and range-aware
// tick labels on both axes.
func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(22)
	p.Title.Padding = vg.Points(12)

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font.Size = vg.Points(18)
		ax.Label.Padding = vg.Points(10)
		ax.LineStyle.Width = vg.Points(2.2)
		ax.Padding = vg.Points(20)

		ax.Tick.LineStyle.Width = vg.Points(2.0)
		ax.Tick.Length = vg.Points(8)
		ax.Tick.Label.Font.Size = vg.Points(14)
		ax.Tick.Marker = spanTicker{n: maxTicks}
	}
}

// savePlotPNG draws p on a DPI raster canvas of the given page size and
// writes it to filename, creating parent directories.
func savePlotPNG(p *plot.Plot, pg page, filename string) (err error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(vgimg.UseWH(pg.width, pg.height), vgimg.UseDPI(DPI))
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("cannot close png: %w", cerr)
		}
	}()

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
