package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sum returns the sum of all elements.
func (m *Matrix) Sum() float64 {
	return mat.Sum(m.d)
}

// SumRows sums across columns, returning a (rows, 1) matrix.
func (m *Matrix) SumRows() *Matrix {
	out := Zeros(m.Rows(), 1)
	for i := 0; i < m.Rows(); i++ {
		out.d.Set(i, 0, floats.Sum(m.d.RawRowView(i)))
	}
	return out
}

// SumCols sums down each column, returning a (1, cols) matrix.
func (m *Matrix) SumCols() *Matrix {
	out := Zeros(1, m.Cols())
	dst := out.d.RawRowView(0)
	for i := 0; i < m.Rows(); i++ {
		floats.Add(dst, m.d.RawRowView(i))
	}
	return out
}

// MaxCols returns the maximum of each column as a (1, cols) matrix.
func (m *Matrix) MaxCols() *Matrix {
	out := Full(1, m.Cols(), math.Inf(-1))
	dst := out.d.RawRowView(0)
	for i := 0; i < m.Rows(); i++ {
		for j, v := range m.d.RawRowView(i) {
			if v > dst[j] {
				dst[j] = v
			}
		}
	}
	return out
}

// ArgMaxCols returns the row index of the largest element in each column.
// Ties resolve to the lowest index.
func (m *Matrix) ArgMaxCols() []int {
	out := make([]int, m.Cols())
	col := make([]float64, m.Rows())
	for j := range out {
		mat.Col(col, j, m.d)
		out[j] = floats.MaxIdx(col)
	}
	return out
}
