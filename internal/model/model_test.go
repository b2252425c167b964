package model

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/tensor"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clusters returns n samples per class around three well separated centres,
// interleaved so every batch of three holds one sample of each class.
func clusters(n int, rng *rand.Rand) Dataset {
	centres := [][]float64{{3, 0}, {0, 3}, {-3, -3}}
	var cols [][]float64
	var labels []int
	for i := 0; i < n; i++ {
		for c, centre := range centres {
			cols = append(cols, []float64{
				centre[0] + 0.6*(rng.Float64()-0.5),
				centre[1] + 0.6*(rng.Float64()-0.5),
			})
			labels = append(labels, c)
		}
	}
	return Dataset{Images: tensor.FromColumns(cols), Labels: labels}
}

func newSGD(t *testing.T, lr float64) optim.Constructor {
	t.Helper()
	newOpt, err := optim.NewConstructor(optim.KindSGD, optim.Settings{SGD: optim.SGDConfig{LR: lr}})
	require.NoError(t, err)
	return newOpt
}

func TestTrain_SeparableClusters(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	train := clusters(10, rng)
	test := clusters(5, rng)

	m := New(WithConfig(Config{Epochs: 1, BatchSize: 3, Classes: 3}), WithLogger(discard()))
	m.Add(nn.NewAffine(2, 3, newSGD(t, 0.5), rng))
	m.Add(nn.NewSoftmax(3))

	stats, err := m.Train(context.Background(), train, test)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, 1, stats[0].Epoch)
	assert.Equal(t, 10, stats[0].Batches)
	assert.Greater(t, stats[0].TestAccuracy, 1.0/3)
	assert.Greater(t, stats[0].TrainLoss, 0.0)
}

func TestTrain_LossDecreases(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	train := clusters(20, rng)
	test := clusters(5, rng)

	newOpt, err := optim.NewConstructor(optim.KindAdam, optim.Settings{Adam: optim.AdamConfig{LR: 0.01}})
	require.NoError(t, err)

	var seen []EpochStats
	m := New(
		WithConfig(Config{Epochs: 3, BatchSize: 6, Classes: 3}),
		WithLogger(discard()),
		WithEpochFunc(func(s EpochStats) { seen = append(seen, s) }),
	)
	m.Add(nn.NewAffine(2, 8, newOpt, rng))
	m.Add(nn.NewReLU(8))
	m.Add(nn.NewAffine(8, 3, newOpt, rng))
	m.Add(nn.NewSoftmax(3))

	stats, err := m.Train(context.Background(), train, test)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, stats, seen)
	assert.Less(t, stats[2].TrainLoss, stats[0].TrainLoss)
}

func TestTrain_DiscardsRemainder(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	train := clusters(4, rng) // 12 samples
	test := clusters(1, rng)

	m := New(WithConfig(Config{Epochs: 1, BatchSize: 5, Classes: 3}), WithLogger(discard()))
	m.Add(nn.NewAffine(2, 3, newSGD(t, 0.1), rng))
	m.Add(nn.NewSoftmax(3))

	stats, err := m.Train(context.Background(), train, test)
	require.NoError(t, err)
	assert.Equal(t, 2, stats[0].Batches)
}

// spy records the order in which the model calls its layers.
type spy struct {
	name  string
	calls *[]string
}

func (s *spy) Forward(x *tensor.Matrix, train bool) *tensor.Matrix {
	mode := "infer"
	if train {
		mode = "train"
	}
	*s.calls = append(*s.calls, "fwd:"+s.name+":"+mode)
	return x
}

func (s *spy) Backward(g *tensor.Matrix) *tensor.Matrix {
	*s.calls = append(*s.calls, "bwd:"+s.name)
	return g
}

func TestTrainBatch_Order(t *testing.T) {
	var calls []string
	m := New(WithConfig(Config{Classes: 2}), WithLogger(discard()))
	m.Add(&spy{name: "a", calls: &calls})
	m.Add(&spy{name: "b", calls: &calls})
	m.Add(nn.NewSoftmax(2))

	m.TrainBatch(tensor.New(2, 1, []float64{0, 1}), []int{1})
	m.Eval(tensor.New(2, 1, []float64{0, 1}))

	want := []string{"fwd:a:train", "fwd:b:train", "bwd:b", "bwd:a", "fwd:a:infer", "fwd:b:infer"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestEval(t *testing.T) {
	m := New(WithConfig(Config{Classes: 3}), WithLogger(discard()))
	m.Add(nn.NewSoftmax(3))

	x := tensor.FromColumns([][]float64{{0, 5, 1}, {9, 0, 0}, {0, 0, 0.5}})
	if diff := cmp.Diff([]int{1, 0, 2}, m.Eval(x)); diff != "" {
		t.Errorf("Eval mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 2.0/3, m.Accuracy(x, []int{1, 0, 0}), 1e-12)
}

func TestValidate(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	newOpt := newSGD(t, 0.1)

	m := New(WithConfig(Config{Classes: 3}))
	assert.ErrorIs(t, m.Validate(4), ErrEmptyModel)

	m.Add(nn.NewAffine(4, 5, newOpt, rng))
	m.Add(nn.NewReLU(5))
	m.Add(nn.NewAffine(5, 3, newOpt, rng))
	m.Add(nn.NewSoftmax(3))
	assert.NoError(t, m.Validate(4))
	assert.ErrorIs(t, m.Validate(6), tensor.ErrShapeMismatch)

	bad := New(WithConfig(Config{Classes: 3}))
	bad.Add(nn.NewAffine(4, 5, newOpt, rng))
	bad.Add(nn.NewReLU(6))
	err := bad.Validate(4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layer 1")

	wrongClasses := New(WithConfig(Config{Classes: 10}))
	wrongClasses.Add(nn.NewSoftmax(3))
	assert.ErrorIs(t, wrongClasses.Validate(3), tensor.ErrShapeMismatch)
}

func TestTrain_RejectsBadInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	train := clusters(4, rng)
	test := clusters(1, rng)

	build := func() *Model {
		m := New(WithConfig(Config{Epochs: 1, BatchSize: 3, Classes: 3}), WithLogger(discard()))
		m.Add(nn.NewAffine(2, 3, newSGD(t, 0.1), rng))
		m.Add(nn.NewSoftmax(3))
		return m
	}

	badLabels := Dataset{Images: train.Images, Labels: append([]int(nil), train.Labels...)}
	badLabels.Labels[3] = 7
	_, err := build().Train(context.Background(), badLabels, test)
	assert.ErrorContains(t, err, "out of range")

	short := Dataset{Images: train.Images, Labels: train.Labels[:5]}
	_, err = build().Train(context.Background(), short, test)
	assert.ErrorContains(t, err, "labels")

	wide := Dataset{Images: tensor.Zeros(4, 12), Labels: train.Labels}
	_, err = build().Train(context.Background(), wide, test)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, err = build().Train(context.Background(), train, Dataset{})
	assert.ErrorContains(t, err, "test set")

	m := New(WithConfig(Config{Epochs: 1, BatchSize: 50, Classes: 3}), WithLogger(discard()))
	m.Add(nn.NewSoftmax(3))
	_, err = m.Train(context.Background(), Dataset{Images: tensor.Zeros(3, 12), Labels: train.Labels}, Dataset{Images: tensor.Zeros(3, 3), Labels: test.Labels})
	assert.ErrorContains(t, err, "less than one batch")
}

func TestTrain_ShapePanicBecomesError(t *testing.T) {
	rng := rand.New(rand.NewPCG(6, 6))
	train := clusters(2, rng)
	test := clusters(1, rng)

	var calls []string
	m := New(WithConfig(Config{Epochs: 1, BatchSize: 3, Classes: 3}), WithLogger(discard()))
	m.Add(&spy{name: "opaque", calls: &calls}) // breaks the dimension chain
	m.Add(nn.NewAffine(4, 3, newSGD(t, 0.1), rng))
	m.Add(nn.NewSoftmax(3))

	_, err := m.Train(context.Background(), train, test)
	require.Error(t, err)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestTrain_Cancelled(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	train := clusters(3, rng)
	test := clusters(1, rng)

	m := New(WithConfig(Config{Epochs: 2, BatchSize: 3, Classes: 3}), WithLogger(discard()))
	m.Add(nn.NewAffine(2, 3, newSGD(t, 0.1), rng))
	m.Add(nn.NewSoftmax(3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := m.Train(ctx, train, test)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stats)
}

func TestConfigDefaults(t *testing.T) {
	cfg := New().Config()
	assert.Equal(t, Config{Epochs: 10, BatchSize: 100, Classes: 10}, cfg)
}
