package optim

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta1^t)                        // (1 - beta2^t) with TextbookBias
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// The second moment is corrected with beta1^t by default. Set
// AdamConfig.TextbookBias to use the Kingma & Ba correction instead.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	value *tensor.Matrix
	m     *tensor.Matrix // First moment estimate
	v     *tensor.Matrix // Second moment estimate

	lr       float64
	beta1    float64
	beta2    float64
	eps      float64
	textbook bool

	beta1t float64 // beta1^t for the next step
	beta2t float64 // beta2^t for the next step
	t      int
}

// AdamConfig holds configuration for Adam.
type AdamConfig struct {
	LR           float64    `yaml:"lr"`            // Learning rate (default: 0.001)
	Betas        [2]float64 `yaml:"betas"`         // Moment decay rates (default: [0.9, 0.999])
	Eps          float64    `yaml:"eps"`           // Term for numerical stability (default: 1e-8)
	TextbookBias bool       `yaml:"textbook_bias"` // Correct v with beta2^t instead of beta1^t
}

// NewAdam creates an Adam optimizer over a freshly initialised (rows, cols) parameter.
//
// Default hyperparameters:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(rows, cols int, rng *rand.Rand, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		value:    InitParam(rows, cols, rng),
		m:        tensor.Zeros(rows, cols),
		v:        tensor.Zeros(rows, cols),
		lr:       config.LR,
		beta1:    config.Betas[0],
		beta2:    config.Betas[1],
		eps:      config.Eps,
		textbook: config.TextbookBias,
		beta1t:   config.Betas[0],
		beta2t:   config.Betas[1],
	}
}

// Value returns the current parameter.
func (a *Adam) Value() *tensor.Matrix {
	return a.value
}

// Update performs a single Adam step.
func (a *Adam) Update(grad *tensor.Matrix) {
	checkGrad("Adam.Update", a.value, grad)

	biasCorrection1 := 1 - a.beta1t
	biasCorrection2 := 1 - a.beta1t
	if a.textbook {
		biasCorrection2 = 1 - a.beta2t
	}

	p := a.value.RawData()
	m := a.m.RawData()
	v := a.v.RawData()
	g := grad.RawData()
	for i := range p {
		m[i] = a.beta1*m[i] + (1-a.beta1)*g[i]
		v[i] = a.beta2*v[i] + (1-a.beta2)*g[i]*g[i]

		mHat := m[i] / biasCorrection1
		vHat := v[i] / biasCorrection2

		p[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
	}

	a.beta1t *= a.beta1
	a.beta2t *= a.beta2
	a.t++
}

// GetLR returns the learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// GetTimestep returns the number of updates applied so far.
func (a *Adam) GetTimestep() int {
	return a.t
}
