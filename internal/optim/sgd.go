package optim

import (
	"github.com/inkwell-ml/inkwell/internal/nn"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule (with momentum mu):
//
//	velocity = mu * velocity - lr * gradient
//	param = param + velocity
//
// With Momentum zero this is plain gradient descent.
type SGD struct {
	lr       float32
	momentum float32

	velocity map[*nn.Parameter][]float32
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float32 // learning rate (default: 0.01)
	Momentum float32 // momentum coefficient (default: 0)
}

// NewSGD creates a new SGD optimizer, filling unset config fields with the
// standard defaults.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		lr:       config.LR,
		momentum: config.Momentum,
		velocity: make(map[*nn.Parameter][]float32),
	}
}

// Step performs a single SGD update on all parameters.
func (s *SGD) Step(params []*nn.Parameter) {
	for _, param := range params {
		grad := param.Grad().Data()
		data := param.Data().Data()

		if s.momentum == 0 {
			for i, g := range grad {
				data[i] -= s.lr * g
			}
			continue
		}

		v, ok := s.velocity[param]
		if !ok {
			v = make([]float32, len(data))
			s.velocity[param] = v
		}
		for i, g := range grad {
			v[i] = s.momentum*v[i] - s.lr*g
			data[i] += v[i]
		}
	}
}

// Name returns "sgd".
func (s *SGD) Name() string {
	return "sgd"
}

// LR returns the current learning rate.
func (s *SGD) LR() float32 {
	return s.lr
}
