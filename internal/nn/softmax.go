package nn

import (
	"math"

	"github.com/born-ml/mlp/internal/tensor"
)

// Softmax normalises each column of its input into a probability distribution.
//
// Forward is numerically stable: each column has its maximum subtracted
// before exponentiation.
//
// Softmax is always the last layer and is always trained with cross-entropy.
// Its Backward therefore takes the one-hot target matrix T, not an upstream
// gradient, and returns the fused softmax + cross-entropy gradient
// (Y - T) / batch_size.
type Softmax struct {
	dim    int
	output *tensor.Matrix
}

// NewSoftmax creates a Softmax over dim classes.
func NewSoftmax(dim int) *Softmax {
	return &Softmax{dim: dim}
}

// Forward computes the column-wise softmax and caches it.
func (s *Softmax) Forward(input *tensor.Matrix, _ bool) *tensor.Matrix {
	checkInput("Softmax.Forward", s.dim, input)

	exp := input.SubRow(input.MaxCols()).Map(math.Exp)
	s.output = exp.DivRow(exp.SumCols())
	return s.output.Clone()
}

// Backward returns (Y - target) / batch_size where target is the one-hot
// matrix for the batch.
func (s *Softmax) Backward(target *tensor.Matrix) *tensor.Matrix {
	var want tensor.Shape
	if s.output != nil {
		want = s.output.Shape()
	}
	checkCached("Softmax.Backward", s.output, want, target.Shape())

	return s.output.Sub(target).Scale(1 / float64(target.Cols()))
}

// InDim returns the number of classes.
func (s *Softmax) InDim() int { return s.dim }

// OutDim returns the number of classes.
func (s *Softmax) OutDim() int { return s.dim }
