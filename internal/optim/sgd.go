package optim

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/tensor"
)

// SGD implements plain stochastic gradient descent.
//
// Update rule:
//
//	param = param - lr * gradient
type SGD struct {
	value *tensor.Matrix
	lr    float64
}

// SGDConfig holds configuration for SGD.
type SGDConfig struct {
	LR float64 `yaml:"lr"` // Learning rate (default: 0.01)
}

// NewSGD creates an SGD optimizer over a freshly initialised (rows, cols) parameter.
func NewSGD(rows, cols int, rng *rand.Rand, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		value: InitParam(rows, cols, rng),
		lr:    config.LR,
	}
}

// Value returns the current parameter.
func (s *SGD) Value() *tensor.Matrix {
	return s.value
}

// Update applies param -= lr * grad.
func (s *SGD) Update(grad *tensor.Matrix) {
	checkGrad("SGD.Update", s.value, grad)

	p := s.value.RawData()
	g := grad.RawData()
	for i := range p {
		p[i] -= s.lr * g[i]
	}
}

// GetLR returns the learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// MomentumSGD implements SGD with a velocity ("delta") buffer.
//
// Update rule:
//
//	delta = momentum * delta - lr * gradient
//	param = param + delta
//
// The delta buffer starts at zero and persists across calls, so a zero
// gradient keeps moving the parameter along the previous direction while the
// step shrinks by the momentum factor each call.
type MomentumSGD struct {
	value    *tensor.Matrix
	delta    *tensor.Matrix
	lr       float64
	momentum float64
}

// MomentumConfig holds configuration for MomentumSGD.
type MomentumConfig struct {
	LR       float64 `yaml:"lr"`       // Learning rate (default: 0.01)
	Momentum float64 `yaml:"momentum"` // Momentum factor (default: 0.9)
}

// NewMomentumSGD creates a MomentumSGD optimizer over a freshly initialised parameter.
func NewMomentumSGD(rows, cols int, rng *rand.Rand, config MomentumConfig) *MomentumSGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Momentum == 0 {
		config.Momentum = 0.9
	}
	return &MomentumSGD{
		value:    InitParam(rows, cols, rng),
		delta:    tensor.Zeros(rows, cols),
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// Value returns the current parameter.
func (m *MomentumSGD) Value() *tensor.Matrix {
	return m.value
}

// Delta returns the velocity buffer.
func (m *MomentumSGD) Delta() *tensor.Matrix {
	return m.delta
}

// Update applies one momentum step.
func (m *MomentumSGD) Update(grad *tensor.Matrix) {
	checkGrad("MomentumSGD.Update", m.value, grad)

	p := m.value.RawData()
	d := m.delta.RawData()
	g := grad.RawData()
	for i := range p {
		d[i] = m.momentum*d[i] - m.lr*g[i]
		p[i] += d[i]
	}
}

// GetLR returns the learning rate.
func (m *MomentumSGD) GetLR() float64 {
	return m.lr
}
