package nn

import (
	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters hold the live value mutated by the optimizer and a gradient
// buffer of the same shape, filled by the owning layer's backward pass.
type Parameter struct {
	name string
	data *tensor.Tensor
	grad *tensor.Tensor
}

// NewParameter creates a new trainable parameter.
//
// The value tensor should be initialized before creating the Parameter.
// The gradient buffer is allocated immediately with the same shape.
func NewParameter(name string, data *tensor.Tensor) *Parameter {
	return &Parameter{
		name: name,
		data: data,
		grad: tensor.Zeros(data.Shape()),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Data returns the parameter value tensor.
func (p *Parameter) Data() *tensor.Tensor {
	return p.data
}

// Grad returns the gradient tensor.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// ZeroGrad clears the gradient buffer.
//
// Called before each training step so gradients from the previous batch do
// not accumulate.
func (p *Parameter) ZeroGrad() {
	p.grad.Fill(0)
}

// Snapshot returns a copy of the current parameter values.
func (p *Parameter) Snapshot() []float32 {
	values := make([]float32, p.data.NumElements())
	copy(values, p.data.Data())
	return values
}

// Restore overwrites the parameter values with a snapshot taken earlier.
func (p *Parameter) Restore(values []float32) {
	copy(p.data.Data(), values)
}
