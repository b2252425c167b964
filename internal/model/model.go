// Package model drives a sequence of layers through mini-batch training and
// inference.
package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// ErrEmptyModel is returned when training or validating a model without layers.
var ErrEmptyModel = errors.New("model has no layers")

// Config holds the training loop parameters.
type Config struct {
	Epochs    int // Passes over the training set (default: 10)
	BatchSize int // Samples per mini-batch (default: 100)
	Classes   int // Number of output classes (default: 10)
}

func (c Config) withDefaults() Config {
	if c.Epochs == 0 {
		c.Epochs = 10
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.Classes == 0 {
		c.Classes = 10
	}
	return c
}

// EpochStats summarises one epoch.
type EpochStats struct {
	Epoch        int // 1-based
	Epochs       int
	Batches      int
	TrainLoss    float64 // Mean cross-entropy over the epoch's batches
	TestAccuracy float64 // Fraction of test samples classified correctly
	Duration     time.Duration
}

// Option configures a Model.
type Option func(*Model)

// WithConfig sets the training loop parameters.
func WithConfig(cfg Config) Option {
	return func(m *Model) { m.cfg = cfg.withDefaults() }
}

// WithLogger sets the logger used for progress reports.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithEpochFunc registers a function called after every epoch.
func WithEpochFunc(f func(EpochStats)) Option {
	return func(m *Model) { m.onEpoch = f }
}

// Model is an ordered sequence of layers.
//
// Forward runs the layers in order and Backward in reverse. The last layer
// is expected to be a Softmax: Train seeds the backward pass with the one-hot
// target matrix.
type Model struct {
	layers  []nn.Layer
	cfg     Config
	logger  *slog.Logger
	onEpoch func(EpochStats)
}

// New creates an empty model.
func New(opts ...Option) *Model {
	m := &Model{
		cfg:    Config{}.withDefaults(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add appends a layer. Dimensions are not checked here; see Validate.
func (m *Model) Add(l nn.Layer) {
	m.layers = append(m.layers, l)
}

// Layers returns the layer sequence.
func (m *Model) Layers() []nn.Layer {
	return m.layers
}

// Config returns the training loop parameters.
func (m *Model) Config() Config {
	return m.cfg
}

// Validate checks that consecutive layers agree on their dimensions, starting
// from featureDim input features and ending in Classes outputs.
//
// Layers that do not implement nn.Dimensioned are skipped and break the chain.
func (m *Model) Validate(featureDim int) error {
	if len(m.layers) == 0 {
		return ErrEmptyModel
	}

	prev := featureDim
	for i, l := range m.layers {
		d, ok := l.(nn.Dimensioned)
		if !ok {
			prev = 0
			continue
		}
		if prev > 0 && d.InDim() != prev {
			return fmt.Errorf("layer %d (%T) expects %d inputs, previous stage produces %d: %w",
				i, l, d.InDim(), prev, tensor.ErrShapeMismatch)
		}
		prev = d.OutDim()
	}
	if prev > 0 && prev != m.cfg.Classes {
		return fmt.Errorf("last layer produces %d outputs, model has %d classes: %w",
			prev, m.cfg.Classes, tensor.ErrShapeMismatch)
	}
	return nil
}

// Forward runs every layer in order.
func (m *Model) Forward(x *tensor.Matrix, train bool) *tensor.Matrix {
	for _, l := range m.layers {
		x = l.Forward(x, train)
	}
	return x
}

// Backward runs every layer in reverse, starting from seed.
func (m *Model) Backward(seed *tensor.Matrix) *tensor.Matrix {
	g := seed
	for i := len(m.layers) - 1; i >= 0; i-- {
		g = m.layers[i].Backward(g)
	}
	return g
}

// TrainBatch performs one training step on a batch and returns its cross-entropy.
func (m *Model) TrainBatch(images *tensor.Matrix, labels []int) float64 {
	y := m.Forward(images, true)
	loss := nn.CrossEntropy(y, labels, m.cfg.Classes)
	m.Backward(nn.OneHot(labels, m.cfg.Classes))
	return loss
}

// Eval runs an inference forward pass and returns the predicted class of
// every column.
func (m *Model) Eval(images *tensor.Matrix) []int {
	return nn.ArgMax(m.Forward(images, false))
}

// Accuracy returns the fraction of columns of images whose prediction equals
// the label.
func (m *Model) Accuracy(images *tensor.Matrix, labels []int) float64 {
	pred := m.Eval(images)
	correct := 0
	for i, p := range pred {
		if p == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(labels))
}

// Train runs Epochs passes of mini-batch SGD over train, evaluating on test
// after each pass.
//
// Batches are contiguous and samples beyond the last full batch are skipped.
// Invalid inputs are rejected before any parameter is touched; ctx is checked
// between batches.
func (m *Model) Train(ctx context.Context, train, test Dataset) (stats []EpochStats, err error) {
	if train.Images == nil {
		return nil, fmt.Errorf("train: training set is empty")
	}
	featureDim := train.Images.Rows()
	if err := m.Validate(featureDim); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	if err := train.Validate(featureDim, m.cfg.Classes); err != nil {
		return nil, fmt.Errorf("train: training set: %w", err)
	}
	if err := test.Validate(featureDim, m.cfg.Classes); err != nil {
		return nil, fmt.Errorf("train: test set: %w", err)
	}

	batchSize := m.cfg.BatchSize
	batchNum := train.Len() / batchSize
	if batchNum == 0 {
		return nil, fmt.Errorf("train: %d training samples is less than one batch of %d", train.Len(), batchSize)
	}

	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*tensor.ShapeError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("train: %w", se)
		}
	}()

	m.logger.Info("training", "train_size", train.Len(), "test_size", test.Len(),
		"epochs", m.cfg.Epochs, "batch_size", batchSize, "batches", batchNum, "layers", len(m.layers))

	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		start := time.Now()
		lossSum := 0.0
		for b := 0; b < batchNum; b++ {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			images, labels := train.Batch(b, batchSize)
			loss := m.TrainBatch(images, labels)
			lossSum += loss
			m.logger.Debug("batch", "epoch", epoch+1, "batch", b+1, "loss", loss)
		}

		s := EpochStats{
			Epoch:        epoch + 1,
			Epochs:       m.cfg.Epochs,
			Batches:      batchNum,
			TrainLoss:    lossSum / float64(batchNum),
			TestAccuracy: m.Accuracy(test.Images, test.Labels),
			Duration:     time.Since(start),
		}
		stats = append(stats, s)

		m.logger.Info("epoch", "epoch", fmt.Sprintf("%d/%d", s.Epoch, s.Epochs),
			"train_loss", s.TrainLoss, "test_accuracy", s.TestAccuracy, "duration", s.Duration)
		if m.onEpoch != nil {
			m.onEpoch(s)
		}
	}

	return stats, nil
}
