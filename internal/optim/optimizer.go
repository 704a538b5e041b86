// Package optim implements optimization algorithms for training.
//
// This package provides:
//   - Optimizer interface: the contract the trainer drives
//   - SGD: stochastic gradient descent with momentum
//   - Adam: adaptive moment estimation
//
// Optimizers read each parameter's accumulated gradient and update the
// parameter values in place, once per batch.
package optim

import (
	"fmt"

	"github.com/inkwell-ml/inkwell/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one gradient update to all given parameters, reading
	// each parameter's Grad buffer.
	Step(params []*nn.Parameter)

	// Name returns the algorithm name ("adam", "sgd").
	Name() string
}

// ByName constructs an optimizer with default hyperparameters from its
// configuration name.
func ByName(name string) (Optimizer, error) {
	switch name {
	case "adam":
		return NewAdam(AdamConfig{}), nil
	case "sgd":
		return NewSGD(SGDConfig{}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", name)
	}
}
