// Package cpu implements the compute kernels behind the neural network
// layers: 2D convolution, max pooling and matrix multiplication, each with
// its backward counterpart.
//
// All kernels are plain sequential loops over channels-last (NHWC) tensors.
// Training in this module is single-threaded by design; there is no device
// abstraction and no kernel-level parallelism.
package cpu

import (
	"fmt"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// Conv2D performs a 2D convolution over a channels-last input.
//
// Input shape:  [batch, height, width, in_channels]
// Kernel shape: [kernel_h, kernel_w, in_channels, out_channels]
// Bias shape:   [out_channels] (may be nil)
// Output shape: [batch, out_h, out_w, out_channels]
//
// Where:
//
//	out_h = (height + 2*pad - kernel_h) / stride + 1
//	out_w = (width + 2*pad - kernel_w) / stride + 1
//
// Padding is symmetric zero padding applied to both spatial dimensions.
func Conv2D(input, kernel, bias *tensor.Tensor, stride, pad int) *tensor.Tensor {
	n, h, w, cIn, kh, kw, cOut := convDims(input, kernel)

	hOut := (h+2*pad-kh)/stride + 1
	wOut := (w+2*pad-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("cpu: conv2d output dimensions %dx%d invalid (input %dx%d, kernel %dx%d, pad %d)",
			hOut, wOut, h, w, kh, kw, pad))
	}

	output := tensor.New(tensor.Shape{n, hOut, wOut, cOut})

	in := input.Data()
	k := kernel.Data()
	out := output.Data()
	var b []float32
	if bias != nil {
		b = bias.Data()
	}

	for bi := 0; bi < n; bi++ {
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				outBase := ((bi*hOut+oh)*wOut + ow) * cOut
				for co := 0; co < cOut; co++ {
					sum := float32(0)
					for fh := 0; fh < kh; fh++ {
						ih := oh*stride + fh - pad
						if ih < 0 || ih >= h {
							continue
						}
						for fw := 0; fw < kw; fw++ {
							iw := ow*stride + fw - pad
							if iw < 0 || iw >= w {
								continue
							}
							inBase := ((bi*h+ih)*w + iw) * cIn
							kBase := ((fh*kw+fw)*cIn)*cOut + co
							for ci := 0; ci < cIn; ci++ {
								sum += in[inBase+ci] * k[kBase+ci*cOut]
							}
						}
					}
					if b != nil {
						sum += b[co]
					}
					out[outBase+co] = sum
				}
			}
		}
	}
	return output
}

// Conv2DBackward computes the gradients of a 2D convolution.
//
// Given the forward input, the kernel and the gradient of the loss with
// respect to the convolution output, it returns the gradients with respect
// to the input, the kernel and the bias. Stride and padding must match the
// forward call.
func Conv2DBackward(input, kernel, grad *tensor.Tensor, stride, pad int) (gradInput, gradKernel, gradBias *tensor.Tensor) {
	n, h, w, cIn, kh, kw, cOut := convDims(input, kernel)

	gradShape := grad.Shape()
	hOut := gradShape[1]
	wOut := gradShape[2]

	gradInput = tensor.New(input.Shape())
	gradKernel = tensor.New(kernel.Shape())
	gradBias = tensor.New(tensor.Shape{cOut})

	in := input.Data()
	k := kernel.Data()
	g := grad.Data()
	gi := gradInput.Data()
	gk := gradKernel.Data()
	gb := gradBias.Data()

	for bi := 0; bi < n; bi++ {
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				outBase := ((bi*hOut+oh)*wOut + ow) * cOut
				for co := 0; co < cOut; co++ {
					gv := g[outBase+co]
					if gv == 0 {
						continue
					}
					gb[co] += gv
					for fh := 0; fh < kh; fh++ {
						ih := oh*stride + fh - pad
						if ih < 0 || ih >= h {
							continue
						}
						for fw := 0; fw < kw; fw++ {
							iw := ow*stride + fw - pad
							if iw < 0 || iw >= w {
								continue
							}
							inBase := ((bi*h+ih)*w + iw) * cIn
							kBase := ((fh*kw+fw)*cIn)*cOut + co
							for ci := 0; ci < cIn; ci++ {
								gk[kBase+ci*cOut] += in[inBase+ci] * gv
								gi[inBase+ci] += k[kBase+ci*cOut] * gv
							}
						}
					}
				}
			}
		}
	}
	return gradInput, gradKernel, gradBias
}

func convDims(input, kernel *tensor.Tensor) (n, h, w, cIn, kh, kw, cOut int) {
	inShape := input.Shape()
	kShape := kernel.Shape()

	if len(inShape) != 4 {
		panic(fmt.Sprintf("cpu: conv2d input must be 4D [N,H,W,C], got %dD", len(inShape)))
	}
	if len(kShape) != 4 {
		panic(fmt.Sprintf("cpu: conv2d kernel must be 4D [Kh,Kw,Cin,Cout], got %dD", len(kShape)))
	}
	if inShape[3] != kShape[2] {
		panic(fmt.Sprintf("cpu: conv2d input channels %d != kernel channels %d", inShape[3], kShape[2]))
	}
	return inShape[0], inShape[1], inShape[2], inShape[3], kShape[0], kShape[1], kShape[3]
}
