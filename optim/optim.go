// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/optim"
)

// Optimizer owns a parameter matrix and the rule that updates it.
type Optimizer = optim.Optimizer

// Constructor creates an Optimizer over a freshly initialised parameter.
type Constructor = optim.Constructor

// Kind names an update rule in configuration.
type Kind = optim.Kind

// Update rules.
const (
	KindSGD         = optim.KindSGD
	KindMomentumSGD = optim.KindMomentumSGD
	KindAdam        = optim.KindAdam
)

// ErrUnknownOptimizer is returned for unrecognised kinds.
var ErrUnknownOptimizer = optim.ErrUnknownOptimizer

// Settings carries the hyperparameters of every rule.
type Settings = optim.Settings

// SGD is plain stochastic gradient descent.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD.
type SGDConfig = optim.SGDConfig

// MomentumSGD is SGD with a velocity buffer.
type MomentumSGD = optim.MomentumSGD

// MomentumConfig contains configuration for MomentumSGD.
type MomentumConfig = optim.MomentumConfig

// Adam is the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam.
type AdamConfig = optim.AdamConfig

// NewSGD creates an SGD optimizer over a (rows, cols) parameter.
func NewSGD(rows, cols int, rng *rand.Rand, config SGDConfig) *SGD {
	return optim.NewSGD(rows, cols, rng, config)
}

// NewMomentumSGD creates a MomentumSGD optimizer over a (rows, cols) parameter.
func NewMomentumSGD(rows, cols int, rng *rand.Rand, config MomentumConfig) *MomentumSGD {
	return optim.NewMomentumSGD(rows, cols, rng, config)
}

// NewAdam creates an Adam optimizer over a (rows, cols) parameter.
//
// Example:
//
//	w := optim.NewAdam(10, 784, rng, optim.AdamConfig{LR: 0.001})
func NewAdam(rows, cols int, rng *rand.Rand, config AdamConfig) *Adam {
	return optim.NewAdam(rows, cols, rng, config)
}

// ParseKind maps a name such as "MomentumSGD" or "adam" to a Kind.
func ParseKind(s string) (Kind, error) {
	return optim.ParseKind(s)
}

// NewConstructor returns a Constructor for kind.
func NewConstructor(kind Kind, s Settings) (Constructor, error) {
	return optim.NewConstructor(kind, s)
}
