// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/model"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/tensor"
)

// Layer is one stage of a feed-forward network.
type Layer = nn.Layer

// Dimensioned is implemented by layers that know their sizes.
type Dimensioned = nn.Dimensioned

// Kind names a layer variant in configuration.
type Kind = nn.Kind

// Layer kinds.
const (
	KindAffine              = nn.KindAffine
	KindReLU                = nn.KindReLU
	KindSoftmax             = nn.KindSoftmax
	KindBinarizedActivation = nn.KindBinarizedActivation
	KindBinarizedAffine     = nn.KindBinarizedAffine
)

// Errors returned when building layers.
var (
	ErrUnknownLayer = nn.ErrUnknownLayer
	ErrInvalidDims  = nn.ErrInvalidDims
)

// Spec describes one layer to build.
type Spec = nn.Spec

// Layer types.
type (
	Affine              = nn.Affine
	BinarizedAffine     = nn.BinarizedAffine
	ReLU                = nn.ReLU
	BinarizedActivation = nn.BinarizedActivation
	Softmax             = nn.Softmax
)

// NewAffine creates a fully connected layer; newOpt creates the optimizers
// that own W and b.
func NewAffine(in, out int, newOpt optim.Constructor, rng *rand.Rand) *Affine {
	return nn.NewAffine(in, out, newOpt, rng)
}

// NewBinarizedAffine creates an affine layer that binarizes its parameters
// in the forward pass.
func NewBinarizedAffine(in, out int, newOpt optim.Constructor, rng *rand.Rand) *BinarizedAffine {
	return nn.NewBinarizedAffine(in, out, newOpt, rng)
}

// NewReLU creates a ReLU activation of width dim.
func NewReLU(dim int) *ReLU {
	return nn.NewReLU(dim)
}

// NewBinarizedActivation creates a stochastic ±1 activation drawing from rng.
func NewBinarizedActivation(dim int, rng *rand.Rand) *BinarizedActivation {
	return nn.NewBinarizedActivation(dim, rng)
}

// NewSoftmax creates a column-wise softmax of width dim.
func NewSoftmax(dim int) *Softmax {
	return nn.NewSoftmax(dim)
}

// Build constructs the layer described by spec.
func Build(spec Spec, rng *rand.Rand) (Layer, error) {
	return nn.Build(spec, rng)
}

// ParseKind maps a name such as "Affine" or "binarized-activation" to a Kind.
func ParseKind(s string) (Kind, error) {
	return nn.ParseKind(s)
}

// CrossEntropyEpsilon is added to predictions before taking the logarithm.
const CrossEntropyEpsilon = nn.CrossEntropyEpsilon

// OneHot returns a (classes, len(labels)) matrix with a single 1 per column.
func OneHot(labels []int, classes int) *tensor.Matrix {
	return nn.OneHot(labels, classes)
}

// CrossEntropy returns the mean cross-entropy of pred against labels.
func CrossEntropy(pred *tensor.Matrix, labels []int, classes int) float64 {
	return nn.CrossEntropy(pred, labels, classes)
}

// ArgMax returns the row index of the largest value in each column.
func ArgMax(pred *tensor.Matrix) []int {
	return nn.ArgMax(pred)
}

// Model is an ordered sequence of layers with a mini-batch training loop.
type Model = model.Model

// Config holds the training loop parameters.
type Config = model.Config

// Dataset pairs a (features, samples) image matrix with its labels.
type Dataset = model.Dataset

// EpochStats summarises one training epoch.
type EpochStats = model.EpochStats

// Option configures a Model.
type Option = model.Option

// NewModel creates an empty model.
func NewModel(opts ...Option) *Model {
	return model.New(opts...)
}

// WithConfig sets the training loop parameters.
func WithConfig(cfg Config) Option {
	return model.WithConfig(cfg)
}

// WithEpochFunc registers a function called after every epoch.
func WithEpochFunc(f func(EpochStats)) Option {
	return model.WithEpochFunc(f)
}
