package nn

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/tensor"
)

// Affine implements a fully connected layer.
//
// Performs the transformation: y = W·x + b
// where:
//   - x is the input with shape (in, batch)
//   - W is the weight with shape (out, in)
//   - b is the bias with shape (out, 1), broadcast over the batch
//   - y is the output with shape (out, batch)
//
// W and b live inside their own Optimizer, which also decides how Backward
// moves them.
//
// Example:
//
//	newOpt, _ := optim.NewConstructor(optim.KindAdam, optim.Settings{})
//	fc := nn.NewAffine(784, 128, newOpt, rng)
//	y := fc.Forward(x, true) // x: (784, batch) → y: (128, batch)
type Affine struct {
	params
}

// NewAffine creates an Affine layer whose weight and bias use optimizers from newOpt.
func NewAffine(in, out int, newOpt optim.Constructor, rng *rand.Rand) *Affine {
	return &Affine{params: newParams(in, out, newOpt, rng)}
}

// Forward computes W·x + b.
func (a *Affine) Forward(input *tensor.Matrix, _ bool) *tensor.Matrix {
	checkInput("Affine.Forward", a.in, input)
	a.input = input.Clone()
	return tensor.MatMul(a.weight.Value(), input).AddColumn(a.bias.Value())
}

// Backward computes the input gradient Wᵀ·grad and updates W and b with
// grad·xᵀ and the row sums of grad.
func (a *Affine) Backward(grad *tensor.Matrix) *tensor.Matrix {
	return a.backward("Affine.Backward", grad)
}

// BinarizedAffine is a fully connected layer whose forward pass uses the sign
// of its weight and bias.
//
// Forward computes sign(W)·x + sign(b) with sign(v) = +1 for v > 0 and -1
// otherwise. The optimizers keep full-precision shadow parameters; Backward is
// the same as Affine's, so the gradient passes straight through the sign.
type BinarizedAffine struct {
	params
}

// NewBinarizedAffine creates a BinarizedAffine layer.
func NewBinarizedAffine(in, out int, newOpt optim.Constructor, rng *rand.Rand) *BinarizedAffine {
	return &BinarizedAffine{params: newParams(in, out, newOpt, rng)}
}

// Forward computes sign(W)·x + sign(b).
func (b *BinarizedAffine) Forward(input *tensor.Matrix, _ bool) *tensor.Matrix {
	checkInput("BinarizedAffine.Forward", b.in, input)
	b.input = input.Clone()
	w := b.weight.Value().Map(sign)
	bias := b.bias.Value().Map(sign)
	return tensor.MatMul(w, input).AddColumn(bias)
}

// Backward updates the full-precision parameters and returns Wᵀ·grad.
func (b *BinarizedAffine) Backward(grad *tensor.Matrix) *tensor.Matrix {
	return b.backward("BinarizedAffine.Backward", grad)
}

// params is the weight/bias pair shared by the Affine-family layers.
type params struct {
	in     int
	out    int
	weight optim.Optimizer // (out, in)
	bias   optim.Optimizer // (out, 1)
	input  *tensor.Matrix
}

func newParams(in, out int, newOpt optim.Constructor, rng *rand.Rand) params {
	return params{
		in:     in,
		out:    out,
		weight: newOpt(out, in, rng),
		bias:   newOpt(out, 1, rng),
	}
}

// backward computes all gradients against the pre-update weight, then
// applies the updates.
func (p *params) backward(op string, grad *tensor.Matrix) *tensor.Matrix {
	var batch int
	if p.input != nil {
		batch = p.input.Cols()
	}
	checkCached(op, p.input, tensor.Shape{Rows: p.out, Cols: batch}, grad.Shape())

	gradW := tensor.MatMul(grad, p.input.T())
	gradB := grad.SumRows()
	gradX := tensor.MatMul(p.weight.Value().T(), grad)

	p.weight.Update(gradW)
	p.bias.Update(gradB)

	return gradX
}

// InDim returns the input dimension.
func (p *params) InDim() int { return p.in }

// OutDim returns the output dimension.
func (p *params) OutDim() int { return p.out }

// Weight returns the weight optimizer.
func (p *params) Weight() optim.Optimizer { return p.weight }

// Bias returns the bias optimizer.
func (p *params) Bias() optim.Optimizer { return p.bias }

func sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}
