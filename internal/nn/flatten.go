package nn

import (
	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// Flatten collapses all non-batch dimensions into one.
//
// Input shape:  [batch, d1, d2, ...]
// Output shape: [batch, d1*d2*...]
//
// Used to feed pooled feature maps into dense layers.
type Flatten struct {
	inShape tensor.Shape
}

// NewFlatten creates a new Flatten layer.
func NewFlatten() *Flatten {
	return &Flatten{}
}

// Forward reshapes the batch to 2D. The output shares the input's backing
// data.
func (f *Flatten) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	shape := x.Shape()
	f.inShape = shape.Clone()
	return x.Reshape(shape[0], x.NumElements()/shape[0])
}

// Backward restores the gradient to the forward input shape.
func (f *Flatten) Backward(grad *tensor.Tensor) *tensor.Tensor {
	return grad.Reshape(f.inShape...)
}

// OutputShape collapses the per-sample shape to a single dimension.
func (f *Flatten) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return tensor.Shape{input.NumElements()}, nil
}

// Parameters returns nil (Flatten has no trainable parameters).
func (f *Flatten) Parameters() []*Parameter {
	return nil
}

func (f *Flatten) String() string {
	return "Flatten()"
}
