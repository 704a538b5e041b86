package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// TestDropout_InferenceIdentity tests that eval mode passes the input
// through untouched.
func TestDropout_InferenceIdentity(t *testing.T) {
	drop := NewDropout(0.4, rand.New(rand.NewSource(1)))
	x := tensor.FromSlice(tensor.Shape{4}, []float32{1, 2, 3, 4})

	out := drop.Forward(x, false)

	assert.Same(t, x, out)

	grad := tensor.FromSlice(tensor.Shape{4}, []float32{5, 6, 7, 8})
	assert.Same(t, grad, drop.Backward(grad))
}

// TestDropout_TrainingScales tests inverted dropout: survivors are scaled
// by 1/(1-rate), the rest are zero.
func TestDropout_TrainingScales(t *testing.T) {
	rate := 0.5
	drop := NewDropout(rate, rand.New(rand.NewSource(1)))
	x := tensor.Ones(tensor.Shape{1000})

	out := drop.Forward(x, true)

	scale := float32(1 / (1 - rate))
	kept := 0
	for _, v := range out.Data() {
		if v != 0 {
			assert.InDelta(t, scale, v, 1e-6)
			kept++
		}
	}
	// Roughly half survive.
	assert.Greater(t, kept, 400)
	assert.Less(t, kept, 600)
}

// TestDropout_BackwardUsesSameMask tests that the gradient is gated and
// scaled exactly like the forward pass.
func TestDropout_BackwardUsesSameMask(t *testing.T) {
	drop := NewDropout(0.5, rand.New(rand.NewSource(7)))
	x := tensor.Ones(tensor.Shape{100})

	out := drop.Forward(x, true)
	grad := tensor.Ones(tensor.Shape{100})
	dx := drop.Backward(grad)

	for i := range out.Data() {
		assert.Equal(t, out.Data()[i], dx.Data()[i], "mask mismatch at %d", i)
	}
}

// TestDropout_InvalidRatePanics tests rate validation.
func TestDropout_InvalidRatePanics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Panics(t, func() { NewDropout(1.0, rng) })
	assert.Panics(t, func() { NewDropout(-0.1, rng) })
}
