// Package nn implements the differentiable layers of a feed-forward network.
//
// This package provides:
//   - Layer interface: forward/backward over feature × batch matrices
//   - Affine and BinarizedAffine: fully connected layers owning two optimizers
//   - ReLU, BinarizedActivation: element-wise activations
//   - Softmax: output layer fused with cross-entropy in its backward pass
//   - Loss helpers: OneHot, CrossEntropy, ArgMax
//
// There is no autodiff: every layer computes its own input gradient and
// layers with parameters update them during Backward.
package nn

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/tensor"
)

var (
	// ErrUnknownLayer is returned when a layer kind is not recognised.
	ErrUnknownLayer = errors.New("unknown layer")

	// ErrInvalidDims is returned for non-positive or inconsistent layer dimensions.
	ErrInvalidDims = errors.New("invalid layer dimensions")
)

// Layer is one stage of a feed-forward network.
//
// Forward caches what Backward needs, so calls must alternate per batch:
// Forward(x) followed by at most one Backward for that same x.
type Layer interface {
	// Forward computes the layer output for a (in, batch) input. train selects
	// the training-mode forward, which only differs for BinarizedActivation.
	Forward(input *tensor.Matrix, train bool) *tensor.Matrix

	// Backward maps the gradient with respect to the output to the gradient
	// with respect to the cached input, updating parameters on the way.
	Backward(grad *tensor.Matrix) *tensor.Matrix
}

// Dimensioned is implemented by layers that know their input and output sizes.
type Dimensioned interface {
	InDim() int
	OutDim() int
}

// Kind names a layer variant in configuration.
type Kind string

// Recognised layer kinds.
const (
	KindAffine              Kind = "affine"
	KindReLU                Kind = "relu"
	KindSoftmax             Kind = "softmax"
	KindBinarizedActivation Kind = "binarized_activation"
	KindBinarizedAffine     Kind = "binarized_affine"
)

// Kinds lists every recognised layer kind.
func Kinds() []Kind {
	return []Kind{KindAffine, KindReLU, KindSoftmax, KindBinarizedActivation, KindBinarizedAffine}
}

// ParseKind maps a configuration string to a Kind, ignoring case, '-' and '_'.
func ParseKind(s string) (Kind, error) {
	norm := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Kinds() {
		if norm == strings.ReplaceAll(string(k), "_", "") {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %v)", ErrUnknownLayer, s, Kinds())
}

// HasParams reports whether layers of this kind own optimizers.
func (k Kind) HasParams() bool {
	return k == KindAffine || k == KindBinarizedAffine
}

// Spec describes one layer to build.
type Spec struct {
	Kind      Kind
	In        int
	Out       int
	Optimizer optim.Constructor // Required for Affine-family kinds, ignored otherwise.
}

// Build constructs the layer described by spec.
func Build(spec Spec, rng *rand.Rand) (Layer, error) {
	if spec.In <= 0 || spec.Out <= 0 {
		return nil, fmt.Errorf("%w: %s (%d -> %d)", ErrInvalidDims, spec.Kind, spec.In, spec.Out)
	}
	if spec.Kind.HasParams() && spec.Optimizer == nil {
		return nil, fmt.Errorf("%s layer requires an optimizer: %w", spec.Kind, optim.ErrUnknownOptimizer)
	}
	if !spec.Kind.HasParams() && spec.In != spec.Out {
		return nil, fmt.Errorf("%w: %s must have in == out, got %d -> %d", ErrInvalidDims, spec.Kind, spec.In, spec.Out)
	}

	switch spec.Kind {
	case KindAffine:
		return NewAffine(spec.In, spec.Out, spec.Optimizer, rng), nil
	case KindBinarizedAffine:
		return NewBinarizedAffine(spec.In, spec.Out, spec.Optimizer, rng), nil
	case KindReLU:
		return NewReLU(spec.In), nil
	case KindSoftmax:
		return NewSoftmax(spec.In), nil
	case KindBinarizedActivation:
		return NewBinarizedActivation(spec.In, rng), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownLayer, spec.Kind)
}

// checkInput panics unless x has dim rows.
func checkInput(op string, dim int, x *tensor.Matrix) {
	if x.Rows() != dim {
		panic(&tensor.ShapeError{Op: op, Want: tensor.Shape{Rows: dim, Cols: x.Cols()}, Got: x.Shape()})
	}
}

// checkCached panics if Backward runs before Forward or with a gradient that
// does not match the forward output.
func checkCached(op string, cached *tensor.Matrix, want, got tensor.Shape) {
	if cached == nil {
		panic(op + ": called before Forward")
	}
	if want != got {
		panic(&tensor.ShapeError{Op: op, Want: want, Got: got})
	}
}
