package config

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
)

const binarized = `
seed: 7
epochs: 3
batch_size: 20
classes: 4
layers:
  - {kind: BinarizedAffine, in: 16, out: 32, optimizer: MomentumSGD}
  - {kind: binarized_activation, in: 32, out: 32}
  - {kind: affine, in: 32, out: 4, optimizer: sgd}
  - {kind: softmax, in: 4, out: 4}
sgd:
  lr: 0.05
adam:
  betas: [0.8, 0.99]
  textbook_bias: true
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(binarized))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Epochs)
	assert.Equal(t, 20, cfg.BatchSize)
	assert.Equal(t, 4, cfg.Classes)
	assert.Len(t, cfg.Layers, 4)
	assert.Equal(t, 16, cfg.FeatureDim())
	assert.Equal(t, 0.05, cfg.SGD.LR)
	assert.Equal(t, [2]float64{0.8, 0.99}, cfg.Adam.Betas)
	assert.True(t, cfg.Adam.TextbookBias)
}

func TestParse_KeepsDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("epochs: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Epochs)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, Default().Layers, cfg.Layers)

	cfg, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
		msg  string
	}{
		"unknown layer": {
			doc:  "classes: 3\nlayers:\n  - {kind: conv2d, in: 3, out: 3}\n",
			want: nn.ErrUnknownLayer,
		},
		"unknown optimizer": {
			doc:  "classes: 3\nlayers:\n  - {kind: affine, in: 3, out: 3, optimizer: rmsprop}\n",
			want: optim.ErrUnknownOptimizer,
		},
		"missing optimizer": {
			doc:  "classes: 3\nlayers:\n  - {kind: affine, in: 3, out: 3}\n",
			want: optim.ErrUnknownOptimizer,
		},
		"broken chain": {
			doc:  "classes: 3\nlayers:\n  - {kind: affine, in: 4, out: 5, optimizer: sgd}\n  - {kind: softmax, in: 3, out: 3}\n",
			want: nn.ErrInvalidDims,
		},
		"activation changes size": {
			doc:  "classes: 3\nlayers:\n  - {kind: relu, in: 4, out: 3}\n",
			want: nn.ErrInvalidDims,
		},
		"optimizer on activation": {
			doc: "classes: 3\nlayers:\n  - {kind: relu, in: 3, out: 3, optimizer: adam}\n",
			msg: "not allowed",
		},
		"wrong classes": {
			doc: "classes: 5\nlayers:\n  - {kind: softmax, in: 3, out: 3}\n",
			msg: "want 5 classes",
		},
		"bad batch": {
			doc: "batch_size: -1\n",
			msg: "batch_size",
		},
		"unknown field": {
			doc: "learning_rate: 0.1\n",
			msg: "learning_rate",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.doc))
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
			if tc.msg != "" {
				assert.ErrorContains(t, err, tc.msg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(binarized), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Classes)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "open config")
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	cfg.ApplyOverrides(Overrides{Epochs: 1, BatchSize: 0, Seed: 99})

	assert.Equal(t, 1, cfg.Epochs)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, uint64(99), cfg.Seed)
}

func TestBuild(t *testing.T) {
	cfg, err := Parse(strings.NewReader(binarized))
	require.NoError(t, err)

	m, err := cfg.Build(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)))
	require.NoError(t, err)
	require.Len(t, m.Layers(), 4)

	assert.IsType(t, &nn.BinarizedAffine{}, m.Layers()[0])
	assert.IsType(t, &nn.BinarizedActivation{}, m.Layers()[1])
	assert.IsType(t, &nn.Affine{}, m.Layers()[2])
	assert.IsType(t, &nn.Softmax{}, m.Layers()[3])

	assert.IsType(t, &optim.MomentumSGD{}, m.Layers()[0].(*nn.BinarizedAffine).Weight())
	sgd, ok := m.Layers()[2].(*nn.Affine).Bias().(*optim.SGD)
	require.True(t, ok)
	assert.Equal(t, 0.05, sgd.GetLR())

	assert.Equal(t, 20, m.Config().BatchSize)
	assert.NoError(t, m.Validate(cfg.FeatureDim()))
}

func TestBuild_Reproducible(t *testing.T) {
	cfg, err := Parse(strings.NewReader(binarized))
	require.NoError(t, err)

	a, err := cfg.Build(rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	b, err := cfg.Build(rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)

	wa := a.Layers()[2].(*nn.Affine).Weight().Value()
	wb := b.Layers()[2].(*nn.Affine).Weight().Value()
	assert.True(t, wa.EqualApprox(wb, 0))
}
