// Package optim implements the parameter-update rules used by Affine-family layers.
//
// This package provides:
//   - Optimizer interface: owns one parameter matrix and its update rule state
//   - SGD: plain stochastic gradient descent
//   - MomentumSGD: SGD with a persistent velocity buffer
//   - Adam: Adaptive Moment Estimation
//
// Unlike a framework optimizer that walks a list of parameters, each Optimizer
// here owns exactly one parameter. A layer holds one Optimizer for its weight
// and one for its bias and calls Update from its backward pass.
//
// Example usage:
//
//	rng := rand.New(rand.NewPCG(42, 42))
//	w := optim.NewAdam(10, 784, rng, optim.AdamConfig{})
//
//	out := tensor.MatMul(w.Value(), input)
//	// ... compute gradW with the same shape as w.Value() ...
//	w.Update(gradW)
package optim

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/born-ml/mlp/internal/tensor"
)

// ErrUnknownOptimizer is returned when an optimizer kind is not recognised.
var ErrUnknownOptimizer = errors.New("unknown optimizer")

// Optimizer owns a learnable parameter matrix and the rule used to adjust it.
type Optimizer interface {
	// Value returns the current parameter. Callers must not modify it.
	Value() *tensor.Matrix

	// Update consumes a gradient with the parameter's shape and mutates
	// the parameter in place. A gradient of any other shape panics with
	// a *tensor.ShapeError.
	Update(grad *tensor.Matrix)
}

// Constructor creates an Optimizer for a freshly initialised (rows, cols)
// parameter. Layers take a Constructor so the update rule is chosen when the
// network is built.
type Constructor func(rows, cols int, rng *rand.Rand) Optimizer

// Kind names an update rule.
type Kind string

// Recognised optimizer kinds.
const (
	KindSGD         Kind = "sgd"
	KindMomentumSGD Kind = "momentum_sgd"
	KindAdam        Kind = "adam"
)

// Kinds lists every recognised optimizer kind.
func Kinds() []Kind {
	return []Kind{KindSGD, KindMomentumSGD, KindAdam}
}

// ParseKind maps a configuration string to a Kind.
//
// Matching ignores case, '-' and '_', so "MomentumSGD", "momentum-sgd" and
// "momentum_sgd" are equivalent. "momentum" is accepted as a short form.
func ParseKind(s string) (Kind, error) {
	norm := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "sgd":
		return KindSGD, nil
	case "momentumsgd", "momentum":
		return KindMomentumSGD, nil
	case "adam":
		return KindAdam, nil
	}
	return "", fmt.Errorf("%w %q (want one of %v)", ErrUnknownOptimizer, s, Kinds())
}

// Settings carries the hyperparameters for every rule; only the one matching
// the selected Kind is used. Zero values select the defaults.
type Settings struct {
	SGD      SGDConfig
	Momentum MomentumConfig
	Adam     AdamConfig
}

// NewConstructor returns a Constructor for kind.
func NewConstructor(kind Kind, s Settings) (Constructor, error) {
	switch kind {
	case KindSGD:
		return func(rows, cols int, rng *rand.Rand) Optimizer {
			return NewSGD(rows, cols, rng, s.SGD)
		}, nil
	case KindMomentumSGD:
		return func(rows, cols int, rng *rand.Rand) Optimizer {
			return NewMomentumSGD(rows, cols, rng, s.Momentum)
		}, nil
	case KindAdam:
		return func(rows, cols int, rng *rand.Rand) Optimizer {
			return NewAdam(rows, cols, rng, s.Adam)
		}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownOptimizer, kind)
}

// InitParam draws a (rows, cols) parameter from U[-0.5/rows, 0.5/rows].
//
// rows is the layer's output dimension, so the range shrinks with fan-out.
func InitParam(rows, cols int, rng *rand.Rand) *tensor.Matrix {
	bound := 0.5 / float64(rows)
	return tensor.RandUniform(rows, cols, -bound, bound, rng)
}

// checkGrad panics unless grad has the parameter's shape.
func checkGrad(op string, param, grad *tensor.Matrix) {
	if param.Shape() != grad.Shape() {
		panic(&tensor.ShapeError{Op: op, Want: param.Shape(), Got: grad.Shape()})
	}
}
