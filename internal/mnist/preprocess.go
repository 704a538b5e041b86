package mnist

import (
	"fmt"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// Normalize converts raw 8-bit images into a float32 tensor of shape
// (N, 28, 28, 1), dividing every intensity by 255 so values lie in [0, 1].
//
// The conversion is pure and deterministic but NOT idempotent: applied to
// already-normalized data it divides again. The pipeline must call it
// exactly once per dataset split.
func Normalize(images [][]byte) (*tensor.Tensor, error) {
	n := len(images)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty image collection", ErrDataUnavailable)
	}

	out := tensor.New(tensor.Shape{n, ImageRows, ImageCols, 1})
	data := out.Data()
	for i, img := range images {
		if len(img) != ImageSize {
			return nil, fmt.Errorf("%w: image %d has %d pixels, want %d",
				ErrDataUnavailable, i, len(img), ImageSize)
		}
		base := i * ImageSize
		for j, v := range img {
			data[base+j] = float32(v) / 255
		}
	}
	return out, nil
}

// OneHot converts integer class labels into indicator vectors of length
// numClasses: exactly one entry is 1, at the index equal to the label.
//
// A label outside [0, numClasses) fails with ErrInvalidLabel.
func OneHot(labels []byte, numClasses int) (*tensor.Tensor, error) {
	n := len(labels)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty label collection", ErrDataUnavailable)
	}

	out := tensor.New(tensor.Shape{n, numClasses})
	data := out.Data()
	for i, label := range labels {
		if int(label) >= numClasses {
			return nil, fmt.Errorf("%w: label %d at sample %d outside [0, %d)",
				ErrInvalidLabel, label, i, numClasses)
		}
		data[i*numClasses+int(label)] = 1
	}
	return out, nil
}
