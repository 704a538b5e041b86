package nn

import (
	"fmt"

	"github.com/inkwell-ml/inkwell/internal/cpu"
	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// MaxPool2D is a 2D max pooling layer.
//
// Max pooling reduces spatial dimensions by taking the maximum value in
// each window. The pipeline uses non-overlapping 2x2 windows with stride 2,
// halving the spatial extent. MaxPool2D has no learnable parameters.
//
// Input shape:  [batch, height, width, channels]
// Output shape: [batch, (height-size)/stride+1, (width-size)/stride+1, channels]
type MaxPool2D struct {
	size   int
	stride int

	argmax  []int
	inShape tensor.Shape
}

// NewMaxPool2D creates a new 2D max pooling layer.
func NewMaxPool2D(size, stride int) *MaxPool2D {
	if size <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid window size %d", size))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}
	return &MaxPool2D{size: size, stride: stride}
}

// Forward pools the input and records which positions were selected.
func (m *MaxPool2D) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	if len(x.Shape()) != 4 {
		panic(fmt.Sprintf("maxpool2d: expected 4D input [N,H,W,C], got %dD", len(x.Shape())))
	}
	m.inShape = x.Shape().Clone()
	out, argmax := cpu.MaxPool2D(x, m.size, m.stride)
	m.argmax = argmax
	return out
}

// Backward routes each output gradient to the input position selected by
// the forward pass.
func (m *MaxPool2D) Backward(grad *tensor.Tensor) *tensor.Tensor {
	return cpu.MaxPool2DBackward(grad, m.argmax, m.inShape)
}

// OutputShape validates the per-sample input shape and returns the pooled
// shape.
func (m *MaxPool2D) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) != 3 {
		return nil, fmt.Errorf("%w: maxpool2d expects input [H,W,C], got %v", ErrShapeMismatch, input)
	}
	h := (input[0]-m.size)/m.stride + 1
	w := (input[1]-m.size)/m.stride + 1
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("%w: maxpool2d window %d does not fit input %v",
			ErrShapeMismatch, m.size, input)
	}
	return tensor.Shape{h, w, input[2]}, nil
}

// Parameters returns nil (MaxPool2D has no trainable parameters).
func (m *MaxPool2D) Parameters() []*Parameter {
	return nil
}

func (m *MaxPool2D) String() string {
	return fmt.Sprintf("MaxPool2D(size=%d, stride=%d)", m.size, m.stride)
}
