// Package config describes a network and its training run as a YAML document.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/mlp/internal/model"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
)

// LayerConfig is one entry of the layer list.
type LayerConfig struct {
	Kind      string `yaml:"kind"`
	In        int    `yaml:"in"`
	Out       int    `yaml:"out"`
	Optimizer string `yaml:"optimizer,omitempty"` // Affine-family layers only
}

// Config captures the network architecture and training knobs.
type Config struct {
	Seed      uint64        `yaml:"seed"`
	Epochs    int           `yaml:"epochs"`
	BatchSize int           `yaml:"batch_size"`
	Classes   int           `yaml:"classes"`
	Layers    []LayerConfig `yaml:"layers"`

	SGD      optim.SGDConfig      `yaml:"sgd"`
	Momentum optim.MomentumConfig `yaml:"momentum_sgd"`
	Adam     optim.AdamConfig     `yaml:"adam"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Seed      uint64
	Epochs    int
	BatchSize int
}

// Default returns the 784-1000-10 MNIST network trained with Adam.
func Default() *Config {
	return &Config{
		Seed:      42,
		Epochs:    10,
		BatchSize: 100,
		Classes:   10,
		Layers: []LayerConfig{
			{Kind: string(nn.KindAffine), In: 784, Out: 1000, Optimizer: string(optim.KindAdam)},
			{Kind: string(nn.KindReLU), In: 1000, Out: 1000},
			{Kind: string(nn.KindAffine), In: 1000, Out: 10, Optimizer: string(optim.KindAdam)},
			{Kind: string(nn.KindSoftmax), In: 10, Out: 10},
		},
	}
}

// Load reads and validates a Config from a YAML file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a Config. Fields missing from the document keep
// the values of Default; an absent layer list keeps the default network.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	layers := cfg.Layers
	cfg.Layers = nil

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(cfg.Layers) == 0 {
		cfg.Layers = layers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
}

// Validate verifies the config describes a buildable network. Every problem
// found is reported.
func (c *Config) Validate() error {
	var errs []error
	if c.Epochs <= 0 {
		errs = append(errs, errors.New("epochs must be > 0"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, errors.New("batch_size must be > 0"))
	}
	if c.Classes <= 1 {
		errs = append(errs, errors.New("classes must be > 1"))
	}
	if len(c.Layers) == 0 {
		errs = append(errs, errors.New("at least one layer is required"))
	}

	for i, l := range c.Layers {
		if _, err := c.spec(l); err != nil {
			errs = append(errs, fmt.Errorf("layer %d: %w", i, err))
			continue
		}
		if i > 0 && c.Layers[i-1].Out != l.In {
			errs = append(errs, fmt.Errorf("layer %d: %w: expects %d inputs, layer %d produces %d",
				i, nn.ErrInvalidDims, l.In, i-1, c.Layers[i-1].Out))
		}
	}
	if n := len(c.Layers); n > 0 && c.Layers[n-1].Out != c.Classes {
		errs = append(errs, fmt.Errorf("last layer produces %d outputs, want %d classes", c.Layers[n-1].Out, c.Classes))
	}

	return errors.Join(errs...)
}

// FeatureDim returns the number of input features the network expects.
func (c *Config) FeatureDim() int {
	if len(c.Layers) == 0 {
		return 0
	}
	return c.Layers[0].In
}

// Settings returns the optimizer hyperparameters.
func (c *Config) Settings() optim.Settings {
	return optim.Settings{SGD: c.SGD, Momentum: c.Momentum, Adam: c.Adam}
}

// ModelConfig returns the training loop parameters.
func (c *Config) ModelConfig() model.Config {
	return model.Config{Epochs: c.Epochs, BatchSize: c.BatchSize, Classes: c.Classes}
}

// Build constructs the model, drawing initial parameters from rng.
func (c *Config) Build(rng *rand.Rand, opts ...model.Option) (*model.Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts = append([]model.Option{model.WithConfig(c.ModelConfig())}, opts...)
	m := model.New(opts...)
	for i, l := range c.Layers {
		spec, err := c.spec(l)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layer, err := nn.Build(spec, rng)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		slog.Debug("layer", "index", i, "kind", spec.Kind, "in", spec.In, "out", spec.Out, "optimizer", l.Optimizer)
		m.Add(layer)
	}
	return m, nil
}

func (c *Config) spec(l LayerConfig) (nn.Spec, error) {
	kind, err := nn.ParseKind(l.Kind)
	if err != nil {
		return nn.Spec{}, err
	}
	spec := nn.Spec{Kind: kind, In: l.In, Out: l.Out}

	if l.In <= 0 || l.Out <= 0 {
		return spec, fmt.Errorf("%w: %s (%d -> %d)", nn.ErrInvalidDims, kind, l.In, l.Out)
	}
	if !kind.HasParams() {
		if l.Optimizer != "" {
			return spec, fmt.Errorf("%s layer has no parameters, optimizer %q is not allowed", kind, l.Optimizer)
		}
		if l.In != l.Out {
			return spec, fmt.Errorf("%w: %s must have in == out, got %d -> %d", nn.ErrInvalidDims, kind, l.In, l.Out)
		}
		return spec, nil
	}

	optKind, err := optim.ParseKind(l.Optimizer)
	if err != nil {
		return spec, fmt.Errorf("%s layer: %w", kind, err)
	}
	spec.Optimizer, err = optim.NewConstructor(optKind, c.Settings())
	if err != nil {
		return spec, err
	}
	return spec, nil
}
