package tensor

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is matched by every *ShapeError via errors.Is.
var ErrShapeMismatch = errors.New("shape mismatch")

// Shape is the (rows, cols) size of a Matrix.
type Shape struct {
	Rows int
	Cols int
}

// NumElements returns rows*cols.
func (s Shape) NumElements() int {
	return s.Rows * s.Cols
}

// Validate checks that both dimensions are positive.
func (s Shape) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return fmt.Errorf("invalid shape %v: dimensions must be > 0", s)
	}
	return nil
}

// T returns the transposed shape.
func (s Shape) T() Shape {
	return Shape{Rows: s.Cols, Cols: s.Rows}
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d,%d)", s.Rows, s.Cols)
}

// ShapeError describes a dimension mismatch detected by operation Op.
//
// Layers and optimizers panic with a *ShapeError when called with a matrix
// of the wrong size; model-level checks return it as an error instead.
type ShapeError struct {
	Op   string
	Want Shape
	Got  Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: want %v, got %v", e.Op, ErrShapeMismatch, e.Want, e.Got)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// mustMatch panics with a *ShapeError unless got equals want.
func mustMatch(op string, want, got Shape) {
	if want != got {
		panic(&ShapeError{Op: op, Want: want, Got: got})
	}
}
