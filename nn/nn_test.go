// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/model"
	"github.com/born-ml/mlp/nn"
	"github.com/born-ml/mlp/optim"
	"github.com/born-ml/mlp/tensor"
)

func TestModel_PublicAPI(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	sgd, err := optim.NewConstructor(optim.KindSGD, optim.Settings{SGD: optim.SGDConfig{LR: 1}})
	require.NoError(t, err)

	m := nn.NewModel(
		nn.WithConfig(nn.Config{Epochs: 5, BatchSize: 2, Classes: 2}),
		model.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	m.Add(nn.NewAffine(2, 2, sgd, rng))
	m.Add(nn.NewSoftmax(2))

	ds := nn.Dataset{
		Images: tensor.FromColumns([][]float64{{1, 0}, {0, 1}, {1, 0}, {0, 1}}),
		Labels: []int{0, 1, 0, 1},
	}
	stats, err := m.Train(context.Background(), ds, ds)
	require.NoError(t, err)
	require.Len(t, stats, 5)
	assert.Equal(t, 1.0, stats[4].TestAccuracy)
	assert.Equal(t, []int{0, 1}, m.Eval(tensor.FromColumns([][]float64{{1, 0}, {0, 1}})))
}

func TestBuild_PublicAPI(t *testing.T) {
	kind, err := nn.ParseKind("BinarizedActivation")
	require.NoError(t, err)

	l, err := nn.Build(nn.Spec{Kind: kind, In: 3, Out: 3}, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	assert.IsType(t, &nn.BinarizedActivation{}, l)

	_, err = nn.Build(nn.Spec{Kind: nn.KindAffine, In: 3, Out: 2}, nil)
	assert.ErrorIs(t, err, optim.ErrUnknownOptimizer)
}

func TestLoss_PublicAPI(t *testing.T) {
	y := nn.OneHot([]int{1, 0}, 2)
	assert.Equal(t, []int{1, 0}, nn.ArgMax(y))
	assert.InDelta(t, 0, nn.CrossEntropy(y, []int{1, 0}, 2), 1e-7)
}
