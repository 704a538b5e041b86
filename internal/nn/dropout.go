package nn

import (
	"fmt"
	"math/rand"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// Dropout randomly zeroes a fraction of activations during training.
//
// Surviving activations are scaled by 1/(1-rate) (inverted dropout), so
// inference is a plain identity and no rescaling is needed at eval time.
// The random source is passed explicitly for reproducibility.
type Dropout struct {
	rate float32
	rng  *rand.Rand

	mask []float32 // nil when the last forward ran in inference mode
}

// NewDropout creates a dropout layer zeroing activations with the given
// probability. Rate must be in [0, 1).
func NewDropout(rate float64, rng *rand.Rand) *Dropout {
	if rate < 0 || rate >= 1 {
		panic(fmt.Sprintf("dropout: invalid rate %v (must be in [0, 1))", rate))
	}
	return &Dropout{rate: float32(rate), rng: rng}
}

// Forward applies the dropout mask in training mode and is the identity in
// inference mode.
func (d *Dropout) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	if !training || d.rate == 0 {
		d.mask = nil
		return x
	}

	out := tensor.New(x.Shape())
	in := x.Data()
	od := out.Data()
	scale := 1 / (1 - d.rate)

	d.mask = make([]float32, len(in))
	for i, v := range in {
		if d.rng.Float32() >= d.rate {
			d.mask[i] = scale
			od[i] = v * scale
		}
	}
	return out
}

// Backward applies the same mask to the gradient.
func (d *Dropout) Backward(grad *tensor.Tensor) *tensor.Tensor {
	if d.mask == nil {
		return grad
	}
	out := tensor.New(grad.Shape())
	g := grad.Data()
	od := out.Data()
	for i, m := range d.mask {
		od[i] = g[i] * m
	}
	return out
}

// OutputShape is the identity for Dropout.
func (d *Dropout) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return input.Clone(), nil
}

// Parameters returns nil (Dropout has no trainable parameters).
func (d *Dropout) Parameters() []*Parameter {
	return nil
}

func (d *Dropout) String() string {
	return fmt.Sprintf("Dropout(rate=%.2f)", d.rate)
}
