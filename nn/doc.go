// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers and the training loop of a feed-forward network.
//
// # Overview
//
// This package contains:
//   - Affine: fully connected layer y = W·x + b
//   - BinarizedAffine: affine layer whose forward pass uses sign(W) and sign(b)
//   - ReLU, BinarizedActivation: element-wise activations
//   - Softmax: output layer; its backward pass takes the one-hot target
//   - Model: ordered layers plus mini-batch training
//
// Inputs are (features, batch) matrices: each column is one sample. There is
// no autodiff. Every layer computes its own input gradient and layers with
// parameters update them during Backward.
//
// # Basic Usage
//
//	rng := rand.New(rand.NewPCG(42, 42))
//	adam, _ := optim.NewConstructor(optim.KindAdam, optim.Settings{})
//
//	m := nn.NewModel(nn.WithConfig(nn.Config{Epochs: 10, BatchSize: 100, Classes: 10}))
//	m.Add(nn.NewAffine(784, 1000, adam, rng))
//	m.Add(nn.NewReLU(1000))
//	m.Add(nn.NewAffine(1000, 10, adam, rng))
//	m.Add(nn.NewSoftmax(10))
//
//	stats, err := m.Train(ctx, train, test)
//
// # Loss
//
// CrossEntropy adds CrossEntropyEpsilon before the logarithm so that zero
// probabilities stay finite.
package nn
