package plotting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
)

func createCSV(filename string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, nil, fmt.Errorf("CSV: cannot create directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("CSV: cannot open %s: %w", filename, err)
	}
	return f, csv.NewWriter(f), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 15, 64)
}

// WriteEnergyCSV saves the energy trace with a header row.
func WriteEnergyCSV(filename string, samples []cahnhilliard.EnergySample) error {
	f, w, err := createCSV(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{"step", "t", "F", "dF", "drift"}); err != nil {
		return fmt.Errorf("CSV: cannot write header: %w", err)
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Step),
			formatFloat(s.Time),
			formatFloat(s.Energy),
			formatFloat(s.Delta),
			strconv.FormatBool(s.Drift),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("CSV: cannot write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("CSV: flush: %w", err)
	}
	return nil
}

// WriteFieldCSV dumps a concentration matrix, one grid row i per line.
func WriteFieldCSV(filename string, values mat.Matrix) error {
	f, w, err := createCSV(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	r, c := values.Dims()
	row := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = formatFloat(values.At(i, j))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("CSV: cannot write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("CSV: flush: %w", err)
	}
	return nil
}
