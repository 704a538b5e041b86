package cpu

import (
	"fmt"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// MaxPool2D performs 2D max pooling over a channels-last input.
//
// Input shape:  [batch, height, width, channels]
// Output shape: [batch, out_h, out_w, channels]
//
// Where:
//
//	out_h = (height - size) / stride + 1
//	out_w = (width - size) / stride + 1
//
// The second return value records, for every output element, the flat index
// into the input of the maximum it selected. MaxPool2DBackward uses it to
// route gradients.
func MaxPool2D(input *tensor.Tensor, size, stride int) (*tensor.Tensor, []int) {
	inShape := input.Shape()
	if len(inShape) != 4 {
		panic(fmt.Sprintf("cpu: maxpool2d input must be 4D [N,H,W,C], got %dD", len(inShape)))
	}
	n, h, w, c := inShape[0], inShape[1], inShape[2], inShape[3]

	hOut := (h-size)/stride + 1
	wOut := (w-size)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("cpu: maxpool2d output dimensions %dx%d invalid (input %dx%d, window %d)",
			hOut, wOut, h, w, size))
	}

	output := tensor.New(tensor.Shape{n, hOut, wOut, c})
	argmax := make([]int, output.NumElements())

	in := input.Data()
	out := output.Data()

	for bi := 0; bi < n; bi++ {
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				outBase := ((bi*hOut+oh)*wOut + ow) * c
				for ci := 0; ci < c; ci++ {
					best := float32(0)
					bestIdx := -1
					for fh := 0; fh < size; fh++ {
						ih := oh*stride + fh
						for fw := 0; fw < size; fw++ {
							iw := ow*stride + fw
							idx := ((bi*h+ih)*w+iw)*c + ci
							if bestIdx < 0 || in[idx] > best {
								best = in[idx]
								bestIdx = idx
							}
						}
					}
					out[outBase+ci] = best
					argmax[outBase+ci] = bestIdx
				}
			}
		}
	}
	return output, argmax
}

// MaxPool2DBackward scatters output gradients back to the positions the
// forward pass selected.
//
// grad is the gradient with respect to the pooled output, argmax the index
// record from MaxPool2D, and inputShape the shape of the forward input.
func MaxPool2DBackward(grad *tensor.Tensor, argmax []int, inputShape tensor.Shape) *tensor.Tensor {
	if grad.NumElements() != len(argmax) {
		panic(fmt.Sprintf("cpu: maxpool2d backward gradient has %d elements, argmax has %d",
			grad.NumElements(), len(argmax)))
	}

	gradInput := tensor.New(inputShape)
	gi := gradInput.Data()
	g := grad.Data()

	for i, idx := range argmax {
		gi[idx] += g[i]
	}
	return gradInput
}
