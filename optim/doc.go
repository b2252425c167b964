// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the parameter-update rules used by fully connected layers.
//
// # Overview
//
// This package contains:
//   - SGD: plain stochastic gradient descent
//   - MomentumSGD: SGD with a velocity buffer
//   - Adam: Adaptive Moment Estimation
//   - Optimizer interface for custom rules
//
// Each Optimizer owns one parameter matrix. A layer holds one for its weight
// and one for its bias and calls Update from its backward pass.
//
// # Basic Usage
//
//	rng := rand.New(rand.NewPCG(42, 42))
//
//	// Choose the rule for every Affine layer of a network.
//	newOpt, err := optim.NewConstructor(optim.KindAdam, optim.Settings{
//	    Adam: optim.AdamConfig{LR: 0.001},
//	})
//	layer := nn.NewAffine(784, 1000, newOpt, rng)
//
// # Optimizers
//
// SGD:
//
//	w -= lr * grad
//
// MomentumSGD:
//
//	delta = momentum * delta - lr * grad
//	w += delta
//
// Adam:
//
//	m = beta1 * m + (1-beta1) * grad
//	v = beta2 * v + (1-beta2) * grad²
//	w -= lr * (m / (1-beta1^t)) / (sqrt(v / (1-beta1^t)) + eps)
//
// Set AdamConfig.TextbookBias to correct v with (1-beta2^t).
package optim
