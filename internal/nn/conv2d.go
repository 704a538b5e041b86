package nn

import (
	"fmt"
	"math/rand"

	"github.com/inkwell-ml/inkwell/internal/cpu"
	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// Padding selects how Conv2D pads its input.
type Padding int

const (
	// Valid applies no padding; each spatial dimension shrinks by
	// kernel_size - 1.
	Valid Padding = iota

	// Same pads so the spatial dimensions are preserved (stride 1,
	// odd kernel sizes).
	Same
)

func (p Padding) String() string {
	if p == Same {
		return "same"
	}
	return "valid"
}

// Conv2D is a 2D convolutional layer over channels-last input.
//
// Performs convolution: output = Conv2D(input, weight) + bias
//
// Input shape:  [batch, height, width, in_channels]
// Weight shape: [kernel, kernel, in_channels, out_channels]
// Bias shape:   [out_channels]
// Output shape: [batch, out_h, out_w, out_channels]
//
// Stride is 1 in both spatial dimensions. With Valid padding the spatial
// extent shrinks by kernel-1; with Same padding it is preserved.
//
// Example:
//
//	// 1 channel in, 32 filters, 3x3 kernel, same padding
//	conv := nn.NewConv2D(1, 32, 3, nn.Same, rng)
//	output := conv.Forward(input, true) // [N, 28, 28, 32] for MNIST input
type Conv2D struct {
	inChannels  int
	outChannels int
	kernelSize  int
	padding     Padding

	weight *Parameter // [kernel, kernel, in_channels, out_channels]
	bias   *Parameter // [out_channels]

	input *tensor.Tensor // cached forward input for the backward pass
}

// NewConv2D creates a new 2D convolutional layer with Xavier-initialized
// weights and zero biases.
func NewConv2D(inChannels, outChannels, kernelSize int, padding Padding, rng *rand.Rand) *Conv2D {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size %d", kernelSize))
	}

	weightShape := tensor.Shape{kernelSize, kernelSize, inChannels, outChannels}
	fanIn := inChannels * kernelSize * kernelSize
	fanOut := outChannels * kernelSize * kernelSize
	weight := NewParameter("conv2d.weight", Xavier(fanIn, fanOut, weightShape, rng))
	bias := NewParameter("conv2d.bias", tensor.Zeros(tensor.Shape{outChannels}))

	return &Conv2D{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		padding:     padding,
		weight:      weight,
		bias:        bias,
	}
}

func (c *Conv2D) pad() int {
	if c.padding == Same {
		return (c.kernelSize - 1) / 2
	}
	return 0
}

// Forward performs the forward pass and caches the input for Backward.
func (c *Conv2D) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [N,H,W,C], got %dD", len(shape)))
	}
	if shape[3] != c.inChannels {
		panic(fmt.Sprintf("conv2d: input channels %d != expected %d", shape[3], c.inChannels))
	}

	c.input = x
	return cpu.Conv2D(x, c.weight.Data(), c.bias.Data(), 1, c.pad())
}

// Backward accumulates weight and bias gradients and returns the gradient
// with respect to the layer input.
func (c *Conv2D) Backward(grad *tensor.Tensor) *tensor.Tensor {
	gradInput, gradWeight, gradBias := cpu.Conv2DBackward(c.input, c.weight.Data(), grad, 1, c.pad())

	accumulate(c.weight.Grad(), gradWeight)
	accumulate(c.bias.Grad(), gradBias)
	return gradInput
}

// OutputShape validates the per-sample input shape and returns the
// per-sample output shape.
func (c *Conv2D) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) != 3 {
		return nil, fmt.Errorf("%w: conv2d expects input [H,W,C], got %v", ErrShapeMismatch, input)
	}
	if input[2] != c.inChannels {
		return nil, fmt.Errorf("%w: conv2d expects %d input channels, got %d",
			ErrShapeMismatch, c.inChannels, input[2])
	}

	h, w := input[0], input[1]
	if c.padding == Valid {
		h -= c.kernelSize - 1
		w -= c.kernelSize - 1
	}
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("%w: conv2d kernel %d does not fit input %v",
			ErrShapeMismatch, c.kernelSize, input)
	}
	return tensor.Shape{h, w, c.outChannels}, nil
}

// Parameters returns the weight and bias parameters.
func (c *Conv2D) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}

func (c *Conv2D) String() string {
	return fmt.Sprintf("Conv2D(filters=%d, kernel_size=%d, padding=%s)",
		c.outChannels, c.kernelSize, c.padding)
}

// accumulate adds src into dst element-wise.
func accumulate(dst, src *tensor.Tensor) {
	d := dst.Data()
	s := src.Data()
	for i := range d {
		d[i] += s[i]
	}
}
