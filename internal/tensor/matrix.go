// Package tensor provides the dense 2-D matrix substrate used by layers and
// optimizers.
//
// Matrix wraps a gonum mat.Dense. Every operation returns a new Matrix; the
// only in-place mutators are Set, CopyFrom and the slice returned by RawData,
// which optimizers use to update their parameters element by element.
//
// Size mismatches are programmer errors and panic with a *ShapeError.
package tensor

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense row-major (rows, cols) matrix of float64.
//
// Activations are laid out feature × batch, weights out × in.
type Matrix struct {
	d *mat.Dense
}

// New creates a Matrix that takes ownership of data (row-major).
// A nil data slice yields a zero matrix.
func New(rows, cols int, data []float64) *Matrix {
	s := Shape{Rows: rows, Cols: cols}
	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("tensor.New: %v", err))
	}
	if data != nil && len(data) != s.NumElements() {
		panic(fmt.Sprintf("tensor.New: shape %v requires %d elements, got %d", s, s.NumElements(), len(data)))
	}
	return &Matrix{d: mat.NewDense(rows, cols, data)}
}

// Zeros creates a zero-filled matrix.
func Zeros(rows, cols int) *Matrix {
	return New(rows, cols, nil)
}

// Full creates a matrix with every element set to v.
func Full(rows, cols int, v float64) *Matrix {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = v
	}
	return New(rows, cols, data)
}

// FromRows builds a matrix from equally sized rows. The rows are copied.
func FromRows(rows [][]float64) *Matrix {
	if len(rows) == 0 {
		panic("tensor.FromRows: no rows")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			panic(fmt.Sprintf("tensor.FromRows: row %d has %d elements, want %d", i, len(r), cols))
		}
		data = append(data, r...)
	}
	return New(len(rows), cols, data)
}

// FromColumns builds a matrix whose j-th column is cols[j]. The input is copied.
//
// This is how samples (one vector per example) become a feature × batch matrix.
func FromColumns(cols [][]float64) *Matrix {
	if len(cols) == 0 {
		panic("tensor.FromColumns: no columns")
	}
	rows := len(cols[0])
	m := Zeros(rows, len(cols))
	for j, c := range cols {
		if len(c) != rows {
			panic(fmt.Sprintf("tensor.FromColumns: column %d has %d elements, want %d", j, len(c), rows))
		}
		m.d.SetCol(j, c)
	}
	return m
}

// RandUniform draws every element independently from U[lo, hi) using rng.
func RandUniform(rows, cols int, lo, hi float64, rng *rand.Rand) *Matrix {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = lo + (hi-lo)*rng.Float64()
	}
	return New(rows, cols, data)
}

// Shape returns the matrix dimensions.
func (m *Matrix) Shape() Shape {
	r, c := m.d.Dims()
	return Shape{Rows: r, Cols: c}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	r, _ := m.d.Dims()
	return r
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	_, c := m.d.Dims()
	return c
}

// At returns the element at (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.d.At(i, j)
}

// Set stores v at (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.d.Set(i, j, v)
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []float64 {
	return mat.Col(nil, j, m.d)
}

// RawData returns the backing row-major slice. Writes are visible in m.
func (m *Matrix) RawData() []float64 {
	return m.d.RawMatrix().Data
}

// Data returns a row-major copy of the elements.
func (m *Matrix) Data() []float64 {
	raw := m.RawData()
	out := make([]float64, len(raw))
	copy(out, raw)
	return out
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{d: mat.DenseCopyOf(m.d)}
}

// CopyFrom overwrites m with the contents of src, which must have the same shape.
func (m *Matrix) CopyFrom(src *Matrix) {
	mustMatch("Matrix.CopyFrom", m.Shape(), src.Shape())
	m.d.Copy(src.d)
}

// Mat exposes the matrix as a read-only gonum mat.Matrix.
func (m *Matrix) Mat() mat.Matrix {
	return m.d
}

// EqualApprox reports whether m and other have the same shape and all
// elements within tol of each other.
func (m *Matrix) EqualApprox(other *Matrix, tol float64) bool {
	if m.Shape() != other.Shape() {
		return false
	}
	return mat.EqualApprox(m.d, other.d, tol)
}

// String formats the matrix for debugging.
func (m *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m.d, mat.Squeeze()))
}
