// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/tensor"
)

// Matrix is a dense row-major float64 matrix.
type Matrix = tensor.Matrix

// Shape is a (rows, cols) pair.
type Shape = tensor.Shape

// ShapeError reports incompatible operand shapes.
type ShapeError = tensor.ShapeError

// ErrShapeMismatch is matched by every *ShapeError.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// New creates a (rows, cols) matrix from row-major data.
func New(rows, cols int, data []float64) *Matrix {
	return tensor.New(rows, cols, data)
}

// Zeros creates a zero-filled matrix.
func Zeros(rows, cols int) *Matrix {
	return tensor.Zeros(rows, cols)
}

// Full creates a matrix with every element set to v.
func Full(rows, cols int, v float64) *Matrix {
	return tensor.Full(rows, cols, v)
}

// FromRows builds a matrix from equal-length rows.
func FromRows(rows [][]float64) *Matrix {
	return tensor.FromRows(rows)
}

// FromColumns builds a matrix whose j-th column is cols[j].
func FromColumns(cols [][]float64) *Matrix {
	return tensor.FromColumns(cols)
}

// RandUniform draws every element from U[lo, hi) using rng.
func RandUniform(rows, cols int, lo, hi float64, rng *rand.Rand) *Matrix {
	return tensor.RandUniform(rows, cols, lo, hi, rng)
}

// MatMul returns a · b.
func MatMul(a, b *Matrix) *Matrix {
	return tensor.MatMul(a, b)
}
