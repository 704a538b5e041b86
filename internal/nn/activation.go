package nn

import (
	"math"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// ReLU is a Rectified Linear Unit activation layer.
//
// Applies the element-wise function f(x) = max(0, x). The forward pass
// caches which inputs were positive so Backward can gate the gradient.
type ReLU struct {
	mask []bool
}

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	out := tensor.New(x.Shape())
	in := x.Data()
	od := out.Data()

	r.mask = make([]bool, len(in))
	for i, v := range in {
		if v > 0 {
			od[i] = v
			r.mask[i] = true
		}
	}
	return out
}

// Backward zeroes the gradient wherever the forward input was non-positive.
func (r *ReLU) Backward(grad *tensor.Tensor) *tensor.Tensor {
	out := tensor.New(grad.Shape())
	g := grad.Data()
	od := out.Data()
	for i, pass := range r.mask {
		if pass {
			od[i] = g[i]
		}
	}
	return out
}

// OutputShape is the identity for ReLU.
func (r *ReLU) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return input.Clone(), nil
}

// Parameters returns nil (ReLU has no trainable parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

func (r *ReLU) String() string {
	return "ReLU()"
}

// Softmax normalizes the last dimension into a probability distribution.
//
// Each row of the output is non-negative and sums to 1. Computed with the
// usual max-subtraction for numerical stability.
type Softmax struct {
	output *tensor.Tensor
}

// NewSoftmax creates a new Softmax activation layer.
func NewSoftmax() *Softmax {
	return &Softmax{}
}

// Forward applies softmax over the last dimension.
func (s *Softmax) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	shape := x.Shape()
	classes := shape[len(shape)-1]
	rows := x.NumElements() / classes

	out := tensor.New(shape)
	in := x.Data()
	od := out.Data()

	for r := 0; r < rows; r++ {
		row := in[r*classes : (r+1)*classes]
		outRow := od[r*classes : (r+1)*classes]

		maxV := row[0]
		for _, v := range row[1:] {
			if v > maxV {
				maxV = v
			}
		}
		sum := float32(0)
		for i, v := range row {
			e := float32(math.Exp(float64(v - maxV)))
			outRow[i] = e
			sum += e
		}
		for i := range outRow {
			outRow[i] /= sum
		}
	}

	s.output = out
	return out
}

// Backward applies the softmax Jacobian to the upstream gradient.
//
// For each row: dx_i = p_i * (g_i - sum_j g_j * p_j).
func (s *Softmax) Backward(grad *tensor.Tensor) *tensor.Tensor {
	shape := grad.Shape()
	classes := shape[len(shape)-1]
	rows := grad.NumElements() / classes

	out := tensor.New(shape)
	g := grad.Data()
	p := s.output.Data()
	od := out.Data()

	for r := 0; r < rows; r++ {
		base := r * classes
		dot := float32(0)
		for i := 0; i < classes; i++ {
			dot += g[base+i] * p[base+i]
		}
		for i := 0; i < classes; i++ {
			od[base+i] = p[base+i] * (g[base+i] - dot)
		}
	}
	return out
}

// OutputShape is the identity for Softmax.
func (s *Softmax) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return input.Clone(), nil
}

// Parameters returns nil (Softmax has no trainable parameters).
func (s *Softmax) Parameters() []*Parameter {
	return nil
}

func (s *Softmax) String() string {
	return "Softmax()"
}
