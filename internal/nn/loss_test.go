package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// TestCrossEntropy_KnownValue tests the mean negative log likelihood.
func TestCrossEntropy_KnownValue(t *testing.T) {
	loss := NewCategoricalCrossEntropy()

	probs := tensor.FromSlice(tensor.Shape{2, 3}, []float32{
		0.7, 0.2, 0.1,
		0.1, 0.8, 0.1,
	})
	targets := tensor.FromSlice(tensor.Shape{2, 3}, []float32{
		1, 0, 0,
		0, 1, 0,
	})

	got := loss.Forward(probs, targets)
	want := -(math.Log(0.7) + math.Log(0.8)) / 2
	assert.InDelta(t, want, float64(got), 1e-5)
}

// TestCrossEntropy_PerfectPrediction tests near-zero loss on the clamped
// one-hot prediction.
func TestCrossEntropy_PerfectPrediction(t *testing.T) {
	loss := NewCategoricalCrossEntropy()

	probs := tensor.FromSlice(tensor.Shape{1, 2}, []float32{1, 0})
	targets := tensor.FromSlice(tensor.Shape{1, 2}, []float32{1, 0})

	assert.InDelta(t, 0, float64(loss.Forward(probs, targets)), 1e-6)
}

// TestCrossEntropy_ClampsZeroProbability tests that a zero probability on
// the true class yields a finite loss.
func TestCrossEntropy_ClampsZeroProbability(t *testing.T) {
	loss := NewCategoricalCrossEntropy()

	probs := tensor.FromSlice(tensor.Shape{1, 2}, []float32{0, 1})
	targets := tensor.FromSlice(tensor.Shape{1, 2}, []float32{1, 0})

	got := float64(loss.Forward(probs, targets))
	require.False(t, math.IsInf(got, 0))
	assert.InDelta(t, -math.Log(1e-7), got, 1e-2)
}

// TestCrossEntropy_SoftmaxComposition tests that loss backward composed with
// softmax backward yields (p - y)/N at the logits.
func TestCrossEntropy_SoftmaxComposition(t *testing.T) {
	sm := NewSoftmax()
	loss := NewCategoricalCrossEntropy()

	logits := tensor.FromSlice(tensor.Shape{2, 3}, []float32{
		0.5, -1, 2,
		1, 1, 1,
	})
	targets := tensor.FromSlice(tensor.Shape{2, 3}, []float32{
		0, 0, 1,
		1, 0, 0,
	})

	probs := sm.Forward(logits, true)
	loss.Forward(probs, targets)
	dLogits := sm.Backward(loss.Backward())

	n := float32(2)
	for i := range dLogits.Data() {
		want := (probs.Data()[i] - targets.Data()[i]) / n
		assert.InDelta(t, want, dLogits.Data()[i], 1e-5, "logit grad at %d", i)
	}
}

// TestAccuracy tests argmax agreement counting.
func TestAccuracy(t *testing.T) {
	probs := tensor.FromSlice(tensor.Shape{4, 2}, []float32{
		0.9, 0.1, // -> 0
		0.2, 0.8, // -> 1
		0.6, 0.4, // -> 0
		0.3, 0.7, // -> 1
	})
	targets := tensor.FromSlice(tensor.Shape{4, 2}, []float32{
		1, 0,
		0, 1,
		0, 1, // miss
		0, 1,
	})

	assert.InDelta(t, 0.75, Accuracy(probs, targets), 1e-9)
}
