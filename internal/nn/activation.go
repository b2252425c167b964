package nn

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/tensor"
)

// ReLU is a Rectified Linear Unit activation.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU struct {
	dim   int
	input *tensor.Matrix
}

// NewReLU creates a ReLU over dim features.
func NewReLU(dim int) *ReLU {
	return &ReLU{dim: dim}
}

// Forward applies max(0, x).
func (r *ReLU) Forward(input *tensor.Matrix, _ bool) *tensor.Matrix {
	checkInput("ReLU.Forward", r.dim, input)
	r.input = input.Clone()
	return input.Map(relu)
}

// Backward passes grad where the cached input was positive and zero elsewhere.
func (r *ReLU) Backward(grad *tensor.Matrix) *tensor.Matrix {
	var want tensor.Shape
	if r.input != nil {
		want = r.input.Shape()
	}
	checkCached("ReLU.Backward", r.input, want, grad.Shape())

	mask := r.input.Map(func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
	return grad.MulElem(mask)
}

// InDim returns the feature dimension.
func (r *ReLU) InDim() int { return r.dim }

// OutDim returns the feature dimension.
func (r *ReLU) OutDim() int { return r.dim }

// BinarizedActivation stochastically binarizes activations during training.
//
// Training forward maps each v to p = clamp((v+1)/2, 0, 1) and outputs +1
// with probability p, -1 otherwise. Inference forward is a plain ReLU; the
// two modes deliberately differ.
//
// Backward is a straight-through estimator: grad passes where the cached
// input lies strictly inside (-1, 1) and is zero elsewhere.
type BinarizedActivation struct {
	dim   int
	rng   *rand.Rand
	input *tensor.Matrix
}

// NewBinarizedActivation creates a BinarizedActivation drawing from rng.
func NewBinarizedActivation(dim int, rng *rand.Rand) *BinarizedActivation {
	return &BinarizedActivation{dim: dim, rng: rng}
}

// Forward binarizes input when train is set and applies ReLU otherwise.
func (b *BinarizedActivation) Forward(input *tensor.Matrix, train bool) *tensor.Matrix {
	checkInput("BinarizedActivation.Forward", b.dim, input)
	b.input = input.Clone()
	if !train {
		return input.Map(relu)
	}

	// Draws happen in row-major order on this goroutine so a seeded rng
	// reproduces the same output.
	out := input.Clone()
	data := out.RawData()
	for i, v := range data {
		p := min(max((v+1)/2, 0), 1)
		if b.rng.Float64() < p {
			data[i] = 1
		} else {
			data[i] = -1
		}
	}
	return out
}

// Backward applies the straight-through estimator.
func (b *BinarizedActivation) Backward(grad *tensor.Matrix) *tensor.Matrix {
	var want tensor.Shape
	if b.input != nil {
		want = b.input.Shape()
	}
	checkCached("BinarizedActivation.Backward", b.input, want, grad.Shape())

	mask := b.input.Map(func(v float64) float64 {
		if v > -1 && v < 1 {
			return 1
		}
		return 0
	})
	return grad.MulElem(mask)
}

// InDim returns the feature dimension.
func (b *BinarizedActivation) InDim() int { return b.dim }

// OutDim returns the feature dimension.
func (b *BinarizedActivation) OutDim() int { return b.dim }

func relu(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
