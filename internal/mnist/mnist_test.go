package mnist

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// writeIDX writes a minimal IDX file for testing.
func writeIDX(t *testing.T, path string, magic uint32, dims []uint32, payload []byte, gzipped bool) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, magic))
	for _, d := range dims {
		require.NoError(t, binary.Write(&buf, binary.BigEndian, d))
	}
	buf.Write(payload)

	if gzipped {
		var zbuf bytes.Buffer
		zw := gzip.NewWriter(&zbuf)
		_, err := zw.Write(buf.Bytes())
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		require.NoError(t, os.WriteFile(path+".gz", zbuf.Bytes(), 0o644))
		return
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeSplit(t *testing.T, dir, imageFile, labelFile string, n int, gzipped bool) {
	t.Helper()

	images := make([]byte, n*ImageSize)
	for i := range images {
		images[i] = byte(i % 251)
	}
	writeIDX(t, filepath.Join(dir, imageFile), 2051,
		[]uint32{uint32(n), ImageRows, ImageCols}, images, gzipped)

	labels := make([]byte, n)
	for i := range labels {
		labels[i] = byte(i % NumClasses)
	}
	writeIDX(t, filepath.Join(dir, labelFile), 2049,
		[]uint32{uint32(n)}, labels, gzipped)
}

// TestLoad_RoundTrip tests loading plain IDX files written to a temp dir.
func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeSplit(t, dir, "train-images-idx3-ubyte", "train-labels-idx1-ubyte", 12, false)
	writeSplit(t, dir, "t10k-images-idx3-ubyte", "t10k-labels-idx1-ubyte", 5, false)

	train, test, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 12, train.Len())
	assert.Equal(t, 5, test.Len())
	assert.Len(t, train.Images[0], ImageSize)
	assert.Equal(t, byte(3), train.Labels[3])
}

// TestLoad_GzipFallback tests transparent .gz decompression.
func TestLoad_GzipFallback(t *testing.T) {
	dir := t.TempDir()
	writeSplit(t, dir, "train-images-idx3-ubyte", "train-labels-idx1-ubyte", 4, true)
	writeSplit(t, dir, "t10k-images-idx3-ubyte", "t10k-labels-idx1-ubyte", 2, true)

	train, test, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, train.Len())
	assert.Equal(t, 2, test.Len())
}

// TestLoad_MissingFiles tests the error for an empty cache directory.
func TestLoad_MissingFiles(t *testing.T) {
	_, _, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

// TestLoad_BadMagic tests rejection of a corrupt image file.
func TestLoad_BadMagic(t *testing.T) {
	dir := t.TempDir()
	writeIDX(t, filepath.Join(dir, "train-images-idx3-ubyte"), 1234,
		[]uint32{1, ImageRows, ImageCols}, make([]byte, ImageSize), false)
	writeIDX(t, filepath.Join(dir, "train-labels-idx1-ubyte"), 2049,
		[]uint32{1}, []byte{0}, false)

	_, _, err := Load(dir)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

// TestLoad_WrongDimensions tests rejection of non-28x28 images.
func TestLoad_WrongDimensions(t *testing.T) {
	dir := t.TempDir()
	writeIDX(t, filepath.Join(dir, "train-images-idx3-ubyte"), 2051,
		[]uint32{1, 14, 14}, make([]byte, 14*14), false)
	writeIDX(t, filepath.Join(dir, "train-labels-idx1-ubyte"), 2049,
		[]uint32{1}, []byte{0}, false)

	_, _, err := Load(dir)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

// TestLoad_CountMismatch tests rejection when images and labels disagree.
func TestLoad_CountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeIDX(t, filepath.Join(dir, "train-images-idx3-ubyte"), 2051,
		[]uint32{2, ImageRows, ImageCols}, make([]byte, 2*ImageSize), false)
	writeIDX(t, filepath.Join(dir, "train-labels-idx1-ubyte"), 2049,
		[]uint32{3}, []byte{0, 1, 2}, false)

	_, _, err := Load(dir)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

// TestNormalize_RangeAndShape tests the [0,1] scaling and NHWC shape.
func TestNormalize_RangeAndShape(t *testing.T) {
	images := [][]byte{make([]byte, ImageSize), make([]byte, ImageSize)}
	images[0][0] = 255
	images[1][ImageSize-1] = 51

	out, err := Normalize(images)
	require.NoError(t, err)

	assert.True(t, out.Shape().Equal(tensor.Shape{2, ImageRows, ImageCols, 1}))
	assert.InDelta(t, 1, out.Data()[0], 1e-6)
	assert.InDelta(t, 0.2, out.Data()[2*ImageSize-1], 1e-6)
	for _, v := range out.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

// TestNormalize_AlwaysDivides tests that the scaling is unconditional:
// there is no input-range detection, so low-intensity data is divided the
// same way and a second application would shrink values again. The
// pipeline therefore calls Normalize exactly once per split.
func TestNormalize_AlwaysDivides(t *testing.T) {
	img := make([]byte, ImageSize)
	img[0] = 1 // already in [0, 1] as a raw byte

	out, err := Normalize([][]byte{img})
	require.NoError(t, err)

	assert.InDelta(t, 1.0/255, out.Data()[0], 1e-9)
	assert.NotEqual(t, float32(1), out.Data()[0])
}

// TestNormalize_RejectsWrongSize tests the pixel-count guard.
func TestNormalize_RejectsWrongSize(t *testing.T) {
	_, err := Normalize([][]byte{make([]byte, 100)})
	assert.ErrorIs(t, err, ErrDataUnavailable)

	_, err = Normalize(nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

// TestOneHot tests indicator encoding and label validation.
func TestOneHot(t *testing.T) {
	out, err := OneHot([]byte{0, 3, 9}, NumClasses)
	require.NoError(t, err)

	assert.True(t, out.Shape().Equal(tensor.Shape{3, NumClasses}))
	for r, label := range []int{0, 3, 9} {
		for c := 0; c < NumClasses; c++ {
			want := float32(0)
			if c == label {
				want = 1
			}
			assert.Equal(t, want, out.At(r, c), "row %d col %d", r, c)
		}
	}

	_, err = OneHot([]byte{0, 10}, NumClasses)
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

// TestSynthetic tests determinism and label structure of generated data.
func TestSynthetic(t *testing.T) {
	a := Synthetic(30, rand.New(rand.NewSource(1)))
	b := Synthetic(30, rand.New(rand.NewSource(1)))

	require.Equal(t, 30, a.Len())
	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Images, b.Images)
	assert.Equal(t, byte(7), a.Labels[7])
	assert.Equal(t, byte(7%NumClasses), a.Labels[17])
	assert.Len(t, a.Images[0], ImageSize)
}
