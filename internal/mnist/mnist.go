// Package mnist loads the MNIST handwritten digit dataset and prepares it
// for training.
//
// The loader reads the official IDX files (plain or gzipped) from a cache
// directory; Normalize and OneHot convert raw 8-bit samples into the
// float32 tensors the network consumes.
package mnist

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Dataset dimensions, fixed by the MNIST distribution.
const (
	ImageRows  = 28
	ImageCols  = 28
	ImageSize  = ImageRows * ImageCols
	NumClasses = 10

	TrainSamples = 60000
	TestSamples  = 10000
)

// ErrDataUnavailable reports that the dataset could not be read: files
// missing, truncated, or carrying unexpected magic numbers or dimensions.
var ErrDataUnavailable = errors.New("mnist data unavailable")

// ErrInvalidLabel reports a class label outside [0, NumClasses).
var ErrInvalidLabel = errors.New("invalid label")

// Dataset holds raw 8-bit images paired 1:1 with class labels.
//
// Each image is a flattened 28x28 grid of intensities; each label is a
// digit in [0, 9]. The collections are read-only after loading.
type Dataset struct {
	Images [][]byte
	Labels []byte
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Images)
}

// Load reads the training and test splits from dir.
//
// Expected files (each either plain or with a .gz suffix):
//
//	train-images-idx3-ubyte   train-labels-idx1-ubyte
//	t10k-images-idx3-ubyte    t10k-labels-idx1-ubyte
//
// The training split carries 60,000 samples, the test split 10,000; any
// read, parse or shape failure wraps ErrDataUnavailable. Loading has no
// side effects beyond reading the cache directory.
func Load(dir string) (train, test *Dataset, err error) {
	train, err = loadSplit(dir, "train-images-idx3-ubyte", "train-labels-idx1-ubyte")
	if err != nil {
		return nil, nil, fmt.Errorf("training split: %w", err)
	}
	test, err = loadSplit(dir, "t10k-images-idx3-ubyte", "t10k-labels-idx1-ubyte")
	if err != nil {
		return nil, nil, fmt.Errorf("test split: %w", err)
	}
	return train, test, nil
}

func loadSplit(dir, imageFile, labelFile string) (*Dataset, error) {
	images, err := readIDXImages(filepath.Join(dir, imageFile))
	if err != nil {
		return nil, err
	}
	labels, err := readIDXLabels(filepath.Join(dir, labelFile))
	if err != nil {
		return nil, err
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("%w: image count %d != label count %d",
			ErrDataUnavailable, len(images), len(labels))
	}
	for i, label := range labels {
		if int(label) >= NumClasses {
			return nil, fmt.Errorf("%w: sample %d has label %d", ErrDataUnavailable, i, label)
		}
	}
	return &Dataset{Images: images, Labels: labels}, nil
}
