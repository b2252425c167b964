package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/mlp/internal/parallel"
)

// MatMul returns a·b. a.Cols must equal b.Rows.
func MatMul(a, b *Matrix) *Matrix {
	if a.Cols() != b.Rows() {
		panic(&ShapeError{
			Op:   "tensor.MatMul",
			Want: Shape{Rows: a.Cols(), Cols: b.Cols()},
			Got:  b.Shape(),
		})
	}
	var out mat.Dense
	out.Mul(a.d, b.d)
	return &Matrix{d: &out}
}

// T returns the transpose as a new matrix.
func (m *Matrix) T() *Matrix {
	return &Matrix{d: mat.DenseCopyOf(m.d.T())}
}

// Add returns m + other.
func (m *Matrix) Add(other *Matrix) *Matrix {
	mustMatch("Matrix.Add", m.Shape(), other.Shape())
	var out mat.Dense
	out.Add(m.d, other.d)
	return &Matrix{d: &out}
}

// Sub returns m - other.
func (m *Matrix) Sub(other *Matrix) *Matrix {
	mustMatch("Matrix.Sub", m.Shape(), other.Shape())
	var out mat.Dense
	out.Sub(m.d, other.d)
	return &Matrix{d: &out}
}

// MulElem returns the element-wise (Hadamard) product.
func (m *Matrix) MulElem(other *Matrix) *Matrix {
	mustMatch("Matrix.MulElem", m.Shape(), other.Shape())
	var out mat.Dense
	out.MulElem(m.d, other.d)
	return &Matrix{d: &out}
}

// Scale returns s·m.
func (m *Matrix) Scale(s float64) *Matrix {
	var out mat.Dense
	out.Scale(s, m.d)
	return &Matrix{d: &out}
}

// AddScalar returns m + s element-wise.
func (m *Matrix) AddScalar(s float64) *Matrix {
	return m.Map(func(v float64) float64 { return v + s })
}

// Map applies f to every element and returns the result.
//
// Large matrices are split into row ranges processed concurrently; f must
// therefore be a pure function of its argument.
func (m *Matrix) Map(f func(v float64) float64) *Matrix {
	out := Zeros(m.Rows(), m.Cols())
	parallel.Rows(m.Rows(), m.Cols(), func(start, end int) {
		for i := start; i < end; i++ {
			src := m.d.RawRowView(i)
			dst := out.d.RawRowView(i)
			for j, v := range src {
				dst[j] = f(v)
			}
		}
	}, parallel.DefaultConfig())
	return out
}

// Zip applies f pairwise to m and other.
func (m *Matrix) Zip(other *Matrix, f func(a, b float64) float64) *Matrix {
	mustMatch("Matrix.Zip", m.Shape(), other.Shape())
	out := Zeros(m.Rows(), m.Cols())
	parallel.Rows(m.Rows(), m.Cols(), func(start, end int) {
		for i := start; i < end; i++ {
			a := m.d.RawRowView(i)
			b := other.d.RawRowView(i)
			dst := out.d.RawRowView(i)
			for j := range dst {
				dst[j] = f(a[j], b[j])
			}
		}
	}, parallel.DefaultConfig())
	return out
}

// AddColumn broadcasts the (rows, 1) column vector col across every column of m.
func (m *Matrix) AddColumn(col *Matrix) *Matrix {
	mustMatch("Matrix.AddColumn", Shape{Rows: m.Rows(), Cols: 1}, col.Shape())
	out := m.Clone()
	for i := 0; i < m.Rows(); i++ {
		b := col.d.At(i, 0)
		row := out.d.RawRowView(i)
		for j := range row {
			row[j] += b
		}
	}
	return out
}

// SubRow subtracts the (1, cols) row vector row from every row of m.
func (m *Matrix) SubRow(row *Matrix) *Matrix {
	mustMatch("Matrix.SubRow", Shape{Rows: 1, Cols: m.Cols()}, row.Shape())
	r := row.d.RawRowView(0)
	out := m.Clone()
	for i := 0; i < m.Rows(); i++ {
		dst := out.d.RawRowView(i)
		for j := range dst {
			dst[j] -= r[j]
		}
	}
	return out
}

// DivRow divides every row of m element-wise by the (1, cols) row vector row.
func (m *Matrix) DivRow(row *Matrix) *Matrix {
	mustMatch("Matrix.DivRow", Shape{Rows: 1, Cols: m.Cols()}, row.Shape())
	r := row.d.RawRowView(0)
	out := m.Clone()
	for i := 0; i < m.Rows(); i++ {
		dst := out.d.RawRowView(i)
		for j := range dst {
			dst[j] /= r[j]
		}
	}
	return out
}

// SliceCols returns a copy of columns [from, to).
func (m *Matrix) SliceCols(from, to int) *Matrix {
	if from < 0 || to > m.Cols() || from >= to {
		panic(&ShapeError{
			Op:   "Matrix.SliceCols",
			Want: Shape{Rows: m.Rows(), Cols: to - from},
			Got:  m.Shape(),
		})
	}
	return &Matrix{d: mat.DenseCopyOf(m.d.Slice(0, m.Rows(), from, to))}
}
