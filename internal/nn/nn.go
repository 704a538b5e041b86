// Package nn implements the neural network layers of the framework.
//
// This package provides the building blocks for constructing classifiers:
//   - Layer interface: the common contract for all layers
//   - Parameter: trainable parameters with gradient storage
//   - Conv2D, Dense: parameterized layers
//   - ReLU, Softmax: activations
//   - BatchNorm, MaxPool2D, Dropout, Flatten: structural layers
//   - CategoricalCrossEntropy: loss for one-hot targets
//   - Sequential: layer container with construction-time shape validation
//
// Layers carry their own backward pass: Forward caches whatever the layer
// needs, Backward consumes the cached state and the upstream gradient. The
// layer set is closed; Sequential interprets the ordered stack.
package nn

import (
	"errors"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// ErrShapeMismatch reports a tensor shape that is incompatible with a
// layer's declared input, either at model construction or at batch time.
var ErrShapeMismatch = errors.New("shape mismatch")

// Layer is the base interface for all neural network layers.
//
// Forward computes the layer output for a batch; the training flag switches
// layers with distinct train/inference behavior (BatchNorm, Dropout).
// Backward takes the gradient of the loss with respect to the layer output,
// accumulates parameter gradients, and returns the gradient with respect to
// the layer input. Backward must be called after Forward on the same batch.
//
// OutputShape maps a per-sample input shape (without the batch dimension)
// to the per-sample output shape, or fails with ErrShapeMismatch. Sequential
// uses it to validate the whole stack before the first forward pass.
type Layer interface {
	Forward(x *tensor.Tensor, training bool) *tensor.Tensor
	Backward(grad *tensor.Tensor) *tensor.Tensor
	OutputShape(input tensor.Shape) (tensor.Shape, error)

	// Parameters returns all trainable parameters of this layer.
	// Layers without trainable state return nil.
	Parameters() []*Parameter

	String() string
}
