package mnist

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// IDX magic numbers for the two record types.
const (
	imageMagic = 2051 // 0x00000803
	labelMagic = 2049 // 0x00000801
)

// readIDXImages reads an MNIST image file in IDX format.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
func readIDXImages(filename string) ([][]byte, error) {
	r, closeFn, err := openMaybeGzip(filename)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: reading magic of %s: %v", ErrDataUnavailable, filename, err)
	}
	if magic != imageMagic {
		return nil, fmt.Errorf("%w: %s has magic %d, want %d", ErrDataUnavailable, filename, magic, imageMagic)
	}

	var numImages, numRows, numCols uint32
	if err := binary.Read(r, binary.BigEndian, &numImages); err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", ErrDataUnavailable, filename, err)
	}
	if err := binary.Read(r, binary.BigEndian, &numRows); err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", ErrDataUnavailable, filename, err)
	}
	if err := binary.Read(r, binary.BigEndian, &numCols); err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", ErrDataUnavailable, filename, err)
	}
	if numRows != ImageRows || numCols != ImageCols {
		return nil, fmt.Errorf("%w: %s has %dx%d images, want %dx%d",
			ErrDataUnavailable, filename, numRows, numCols, ImageRows, ImageCols)
	}

	images := make([][]byte, numImages)
	for i := range images {
		images[i] = make([]byte, ImageSize)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, fmt.Errorf("%w: reading image %d of %s: %v", ErrDataUnavailable, i, filename, err)
		}
	}
	return images, nil
}

// readIDXLabels reads an MNIST label file in IDX format.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func readIDXLabels(filename string) ([]byte, error) {
	r, closeFn, err := openMaybeGzip(filename)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: reading magic of %s: %v", ErrDataUnavailable, filename, err)
	}
	if magic != labelMagic {
		return nil, fmt.Errorf("%w: %s has magic %d, want %d", ErrDataUnavailable, filename, magic, labelMagic)
	}

	var numLabels uint32
	if err := binary.Read(r, binary.BigEndian, &numLabels); err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", ErrDataUnavailable, filename, err)
	}

	labels := make([]byte, numLabels)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("%w: reading labels of %s: %v", ErrDataUnavailable, filename, err)
	}
	return labels, nil
}

// openMaybeGzip opens filename, falling back to filename.gz with transparent
// decompression.
func openMaybeGzip(filename string) (io.Reader, func() error, error) {
	if f, err := os.Open(filename); err == nil {
		return f, f.Close, nil
	}

	f, err := os.Open(filename + ".gz")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s (nor .gz) could not be opened: %v", ErrDataUnavailable, filename, err)
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s.gz: %v", ErrDataUnavailable, filename, err)
	}
	closeFn := func() error {
		zr.Close()
		return f.Close()
	}
	return zr, closeFn, nil
}
