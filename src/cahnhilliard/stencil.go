package cahnhilliard

import "gonum.org/v1/gonum/mat"

// Neighbors returns the periodic previous and next indices of i on an axis
// of length m. Indices are 0-based: 0's previous is m-1 and m-1's next is 0.
func Neighbors(i, m int) (prev, next int) {
	prev, next = i-1, i+1
	if prev < 0 {
		prev = m - 1
	}
	if next >= m {
		next = 0
	}
	return prev, next
}

// Stencil evaluates the 5-point Laplacian of f at (i, j) given the already
// wrapped neighbor indices along each axis.
//
// The sum is normalized by the cell area, which equals h² only when dx == dy.
func Stencil(f *mat.Dense, ip, i, in, jp, j, jn int, cellArea float64) float64 {
	return (f.At(ip, j) + f.At(in, j) + f.At(i, jp) + f.At(i, jn) - 4.0*f.At(i, j)) / cellArea
}

// LaplacianInto writes the periodic 5-point Laplacian of src into dst.
// dst and src must be distinct nx × ny matrices.
func LaplacianInto(dst, src *mat.Dense, g Grid) {
	area := g.CellArea()
	for i := 0; i < g.NX; i++ {
		ip, in := Neighbors(i, g.NX)

		row := src.RawRowView(i)
		up := src.RawRowView(ip)
		dn := src.RawRowView(in)
		out := dst.RawRowView(i)

		for j := 0; j < g.NY; j++ {
			jp, jn := Neighbors(j, g.NY)
			out[j] = (up[j] + dn[j] + row[jp] + row[jn] - 4.0*row[j]) / area
		}
	}
}
