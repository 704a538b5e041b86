package report

import (
	"bytes"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ml/inkwell/internal/mnist"
	"github.com/inkwell-ml/inkwell/internal/train"
)

func sampleHistory() *train.History {
	return &train.History{
		Loss:        []float64{1.2, 0.6, 0.4},
		Accuracy:    []float64{0.5, 0.8, 0.9},
		ValLoss:     []float64{1.1, 0.7, 0.5},
		ValAccuracy: []float64{0.55, 0.78, 0.88},
	}
}

// TestLossCurves_WritesPNG tests that a decodable PNG file is produced.
func TestLossCurves_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.png")

	require.NoError(t, LossCurves(sampleHistory(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

// TestAccuracyCurves_WritesPNG tests the accuracy figure.
func TestAccuracyCurves_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accuracy.png")

	require.NoError(t, AccuracyCurves(sampleHistory(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

// TestCurves_EmptyHistoryFails tests rejection of an empty history.
func TestCurves_EmptyHistoryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.png")
	assert.Error(t, LossCurves(&train.History{}, path))
}

// TestSampleGrid tests grid rendering from synthetic samples.
func TestSampleGrid(t *testing.T) {
	ds := mnist.Synthetic(25, rand.New(rand.NewSource(1)))
	path := filepath.Join(t.TempDir(), "samples.png")

	require.NoError(t, SampleGrid(ds, 2, 10, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	// 10 tiles across at 2x scale plus padding.
	assert.Greater(t, img.Bounds().Dx(), 10*mnist.ImageCols*2)
}

// TestSampleGrid_TooFewSamples tests the sample-count guard.
func TestSampleGrid_TooFewSamples(t *testing.T) {
	ds := mnist.Synthetic(5, rand.New(rand.NewSource(1)))
	err := SampleGrid(ds, 2, 10, filepath.Join(t.TempDir(), "samples.png"))
	assert.Error(t, err)
}

// TestTestMetrics_Format tests the fixed-point metric lines.
func TestTestMetrics_Format(t *testing.T) {
	var buf bytes.Buffer
	TestMetrics(&buf, 0.031415, 0.9912)

	out := buf.String()
	assert.Contains(t, out, "Performance of network on testing set:")
	assert.Contains(t, out, "Accuracy on testing data:  99.12%")
	assert.Contains(t, out, "Test error (loss):          0.0314")
}

// TestFinalSummary_Format tests the closing comparison block.
func TestFinalSummary_Format(t *testing.T) {
	var buf bytes.Buffer
	FinalSummary(&buf, sampleHistory(), 0.875)

	out := buf.String()
	assert.Contains(t, out, "Performance of network:")
	assert.Contains(t, out, "Accuracy on training data:    90.00%")
	assert.Contains(t, out, "Accuracy on validation data:  88.00%")
	assert.Contains(t, out, "Accuracy on testing data:     87.50%")
}

// TestEpochLine tests the per-epoch progress format.
func TestEpochLine(t *testing.T) {
	line := EpochLine(train.EpochMetrics{
		Epoch: 3, Loss: 0.1234, Accuracy: 0.95, ValLoss: 0.2, ValAccuracy: 0.9,
	}, 20)

	assert.Equal(t, "Epoch 3/20 - loss: 0.1234 - accuracy: 0.9500 - val_loss: 0.2000 - val_accuracy: 0.9000", line)
}
