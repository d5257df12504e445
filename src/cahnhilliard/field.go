package cahnhilliard

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Field is the mutable simulation state: the concentration c plus two
// scratch buffers of the same nx × ny shape.
//
// Row index i runs over x (NX rows), column index j over y (NY columns).
// The buffers are only meaningful right after the pass that filled them.
type Field struct {
	grid     Grid
	material Material

	value     *mat.Dense // c
	gradient  *mat.Dense // δF/δc
	laplacian *mat.Dense // ∇²c or ∇²(δF/δc)
}

// NewUniformField returns a field with every cell at the average concentration.
func NewUniformField(g Grid, m Material) (*Field, error) {
	if err := validate(g, m); err != nil {
		return nil, err
	}

	data := make([]float64, g.PointCount())
	for k := range data {
		data[k] = m.AverageConcentration
	}
	return newField(g, m, mat.NewDense(g.NX, g.NY, data)), nil
}

// NewFieldFromValues wraps an existing nx × ny matrix. The matrix is copied.
func NewFieldFromValues(g Grid, m Material, values *mat.Dense) (*Field, error) {
	if err := validate(g, m); err != nil {
		return nil, err
	}
	if values == nil {
		return nil, fmt.Errorf("%w: values are nil", ErrShapeMismatch)
	}
	if r, c := values.Dims(); r != g.NX || c != g.NY {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrShapeMismatch, r, c, g.NX, g.NY)
	}

	v := mat.NewDense(g.NX, g.NY, nil)
	v.Copy(values)
	return newField(g, m, v), nil
}

func newField(g Grid, m Material, value *mat.Dense) *Field {
	return &Field{
		grid:      g,
		material:  m,
		value:     value,
		gradient:  mat.NewDense(g.NX, g.NY, nil),
		laplacian: mat.NewDense(g.NX, g.NY, nil),
	}
}

func validate(g Grid, m Material) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return m.Validate()
}

func (f *Field) Grid() Grid { return f.grid }
func (f *Field) Material() Material { return f.material }

// Value returns the live concentration matrix. It is mutated by every step;
// hosts that keep it across steps should use Snapshot.
func (f *Field) Value() *mat.Dense { return f.value }

// Gradient returns the δF/δc buffer filled by VariationalDerivative.
func (f *Field) Gradient() *mat.Dense { return f.gradient }

// LaplacianBuffer returns the scratch buffer holding the last Laplacian pass.
func (f *Field) LaplacianBuffer() *mat.Dense { return f.laplacian }

// At returns c at grid point (i, j).
func (f *Field) At(i, j int) float64 { return f.value.At(i, j) }

// Snapshot returns a deep copy of the concentration matrix.
func (f *Field) Snapshot() *mat.Dense {
	return mat.DenseCopyOf(f.value)
}

// Sum is Σ c over the grid.
func (f *Field) Sum() float64 {
	return floats.Sum(f.value.RawMatrix().Data)
}

// Mean is the grid average of c. It is conserved by the dynamics.
func (f *Field) Mean() float64 {
	return f.Sum() / float64(f.grid.PointCount())
}

// Bounds returns the smallest and largest concentration on the grid.
func (f *Field) Bounds() (lo, hi float64) {
	data := f.value.RawMatrix().Data
	return floats.Min(data), floats.Max(data)
}
