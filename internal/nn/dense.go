package nn

import (
	"fmt"
	"math/rand"

	"github.com/inkwell-ml/inkwell/internal/cpu"
	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// Dense implements a fully connected layer.
//
// Performs the transformation: y = x @ W^T + b
// where:
//   - x is the input tensor with shape [batch, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch, out_features]
//
// Weights are initialized using Xavier/Glorot initialization, biases to
// zeros.
type Dense struct {
	inFeatures  int
	outFeatures int

	weight *Parameter // [out_features, in_features]
	bias   *Parameter // [out_features]

	input *tensor.Tensor // cached forward input for the backward pass
}

// NewDense creates a new fully connected layer.
func NewDense(inFeatures, outFeatures int, rng *rand.Rand) *Dense {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("dense: invalid features in=%d, out=%d", inFeatures, outFeatures))
	}

	weightShape := tensor.Shape{outFeatures, inFeatures}
	weight := NewParameter("dense.weight", Xavier(inFeatures, outFeatures, weightShape, rng))
	bias := NewParameter("dense.bias", tensor.Zeros(tensor.Shape{outFeatures}))

	return &Dense{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes y = x @ W^T + b and caches the input for Backward.
func (l *Dense) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("dense: expected 2D input [batch, features], got shape %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("dense: expected input with %d features, got %d", l.inFeatures, shape[1]))
	}

	l.input = x

	// [batch, in] @ [out, in]^T -> [batch, out]
	out := cpu.MatMulTransposeB(x, l.weight.Data())
	od := out.Data()
	b := l.bias.Data().Data()
	for r := 0; r < shape[0]; r++ {
		row := od[r*l.outFeatures : (r+1)*l.outFeatures]
		for i := range row {
			row[i] += b[i]
		}
	}
	return out
}

// Backward accumulates weight and bias gradients and returns the gradient
// with respect to the layer input.
//
//	dW = g^T @ x, db = sum over batch of g, dx = g @ W
func (l *Dense) Backward(grad *tensor.Tensor) *tensor.Tensor {
	batch := grad.Shape()[0]

	// dW: [out, in] = grad^T [batch, out] @ input [batch, in]
	gradWeight := cpu.MatMulTransposeA(grad, l.input)
	accumulate(l.weight.Grad(), gradWeight)

	g := grad.Data()
	db := l.bias.Grad().Data()
	for r := 0; r < batch; r++ {
		row := g[r*l.outFeatures : (r+1)*l.outFeatures]
		for i, v := range row {
			db[i] += v
		}
	}

	// dx: [batch, in] = grad [batch, out] @ W [out, in]
	return cpu.MatMul(grad, l.weight.Data())
}

// OutputShape validates the per-sample input shape and returns the output
// feature shape. A multi-dimensional input (e.g. un-flattened feature maps)
// fails with ErrShapeMismatch.
func (l *Dense) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) != 1 {
		return nil, fmt.Errorf("%w: dense expects a flat input [features], got %v (insert Flatten)",
			ErrShapeMismatch, input)
	}
	if input[0] != l.inFeatures {
		return nil, fmt.Errorf("%w: dense expects %d input features, got %d",
			ErrShapeMismatch, l.inFeatures, input[0])
	}
	return tensor.Shape{l.outFeatures}, nil
}

// Parameters returns the weight and bias parameters.
func (l *Dense) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

func (l *Dense) String() string {
	return fmt.Sprintf("Dense(units=%d)", l.outFeatures)
}
