package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// TestReLU_Forward tests that negatives are clamped and positives pass.
func TestReLU_Forward(t *testing.T) {
	relu := NewReLU()
	x := tensor.FromSlice(tensor.Shape{5}, []float32{-2, -0.5, 0, 0.5, 2})

	out := relu.Forward(x, true)

	assert.Equal(t, []float32{0, 0, 0, 0.5, 2}, out.Data())
}

// TestReLU_Backward tests gradient gating by the forward mask.
func TestReLU_Backward(t *testing.T) {
	relu := NewReLU()
	x := tensor.FromSlice(tensor.Shape{4}, []float32{-1, 2, -3, 4})
	relu.Forward(x, true)

	grad := tensor.FromSlice(tensor.Shape{4}, []float32{10, 10, 10, 10})
	dx := relu.Backward(grad)

	assert.Equal(t, []float32{0, 10, 0, 10}, dx.Data())
}

// TestSoftmax_Distribution tests that each row is a probability
// distribution.
func TestSoftmax_Distribution(t *testing.T) {
	sm := NewSoftmax()
	x := tensor.FromSlice(tensor.Shape{2, 3}, []float32{1, 2, 3, -1, 0, 1})

	out := sm.Forward(x, true)

	for r := 0; r < 2; r++ {
		sum := float32(0)
		for i := 0; i < 3; i++ {
			v := out.At(r, i)
			assert.Greater(t, v, float32(0))
			sum += v
		}
		assert.InDelta(t, 1, sum, 1e-5, "row %d does not sum to 1", r)
	}
	// Larger logits get larger probabilities.
	assert.Greater(t, out.At(0, 2), out.At(0, 1))
	assert.Greater(t, out.At(0, 1), out.At(0, 0))
}

// TestSoftmax_LargeLogitsStable tests the max-subtraction stabilization.
func TestSoftmax_LargeLogitsStable(t *testing.T) {
	sm := NewSoftmax()
	x := tensor.FromSlice(tensor.Shape{1, 3}, []float32{1000, 1001, 1002})

	out := sm.Forward(x, true)

	sum := float32(0)
	for _, v := range out.Data() {
		require.False(t, v != v, "NaN in softmax output")
		sum += v
	}
	assert.InDelta(t, 1, sum, 1e-5)
}

// TestSoftmax_BackwardZeroSum tests that the Jacobian-vector product sums to
// zero per row (probabilities are constrained to the simplex).
func TestSoftmax_BackwardZeroSum(t *testing.T) {
	sm := NewSoftmax()
	x := tensor.FromSlice(tensor.Shape{1, 4}, []float32{0.1, -0.2, 0.3, 0.4})
	sm.Forward(x, true)

	grad := tensor.FromSlice(tensor.Shape{1, 4}, []float32{1, -2, 0.5, 3})
	dx := sm.Backward(grad)

	sum := float32(0)
	for _, v := range dx.Data() {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-5)
}
