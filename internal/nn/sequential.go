package nn

import (
	"fmt"
	"strings"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// Sequential is a container that chains layers into a feed-forward stack.
//
// Each layer's output becomes the next layer's input. The stack is
// validated at construction: every layer's OutputShape is applied to the
// declared per-sample input shape, so incompatible layers fail with
// ErrShapeMismatch before any data flows.
//
// Example:
//
//	model, err := nn.NewSequential(tensor.Shape{28, 28, 1},
//	    nn.NewConv2D(1, 32, 3, nn.Same, rng),
//	    nn.NewReLU(),
//	    nn.NewFlatten(),
//	    nn.NewDense(28*28*32, 10, rng),
//	    nn.NewSoftmax(),
//	)
type Sequential struct {
	inputShape tensor.Shape
	layers     []Layer
}

// NewSequential creates a validated layer stack for the given per-sample
// input shape (without the batch dimension).
func NewSequential(inputShape tensor.Shape, layers ...Layer) (*Sequential, error) {
	if err := inputShape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid input shape: %v", ErrShapeMismatch, err)
	}

	shape := inputShape.Clone()
	for i, layer := range layers {
		next, err := layer.OutputShape(shape)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, layer, err)
		}
		shape = next
	}

	return &Sequential{
		inputShape: inputShape.Clone(),
		layers:     layers,
	}, nil
}

// InputShape returns the declared per-sample input shape.
func (s *Sequential) InputShape() tensor.Shape {
	return s.inputShape
}

// Forward applies all layers in declared order.
func (s *Sequential) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	out := x
	for _, layer := range s.layers {
		out = layer.Forward(out, training)
	}
	return out
}

// Backward propagates the output gradient through the stack in reverse,
// accumulating parameter gradients along the way.
func (s *Sequential) Backward(grad *tensor.Tensor) *tensor.Tensor {
	for i := len(s.layers) - 1; i >= 0; i-- {
		grad = s.layers[i].Backward(grad)
	}
	return grad
}

// Parameters returns all trainable parameters from all layers.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range s.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// Len returns the number of layers in the stack.
func (s *Sequential) Len() int {
	return len(s.layers)
}

// NumParameters returns the total number of trainable scalar values.
func (s *Sequential) NumParameters() int {
	total := 0
	for _, p := range s.Parameters() {
		total += p.Data().NumElements()
	}
	return total
}

// Summary renders a per-layer table: layer description, per-sample output
// shape and parameter count, followed by the total parameter count.
func (s *Sequential) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-40s %-20s %s\n", "Layer", "Output Shape", "Params")
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	shape := s.inputShape
	for _, layer := range s.layers {
		// Construction already validated the chain.
		shape, _ = layer.OutputShape(shape)

		count := 0
		for _, p := range layer.Parameters() {
			count += p.Data().NumElements()
		}
		fmt.Fprintf(&sb, "%-40s %-20s %d\n", layer.String(), formatShape(shape), count)
	}

	sb.WriteString(strings.Repeat("-", 72) + "\n")
	fmt.Fprintf(&sb, "Total params: %d\n", s.NumParameters())
	return sb.String()
}

func formatShape(s tensor.Shape) string {
	parts := make([]string, 0, len(s)+1)
	parts = append(parts, "N")
	for _, d := range s {
		parts = append(parts, fmt.Sprintf("%d", d))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
