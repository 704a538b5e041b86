package nn

import (
	"fmt"
	"math"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// probEpsilon clamps probabilities away from zero before taking logs.
const probEpsilon = 1e-7

// CategoricalCrossEntropy computes cross-entropy between predicted
// probability distributions and one-hot targets.
//
// The model's final Softmax layer produces the probabilities, so this loss
// consumes distributions, not logits:
//
//	Loss = -1/N * sum_n sum_c target[n,c] * log(prob[n,c])
//
// Backward returns dL/dprob; composed with the Softmax backward this yields
// the familiar (prob - target)/N gradient at the logits.
type CategoricalCrossEntropy struct {
	probs   *tensor.Tensor
	targets *tensor.Tensor
}

// NewCategoricalCrossEntropy creates a new loss instance.
func NewCategoricalCrossEntropy() *CategoricalCrossEntropy {
	return &CategoricalCrossEntropy{}
}

// Forward computes the mean cross-entropy over the batch.
//
// probs and targets must both have shape [batch, classes]; targets are
// one-hot rows.
func (c *CategoricalCrossEntropy) Forward(probs, targets *tensor.Tensor) float32 {
	if !probs.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("cross entropy: probs shape %v != targets shape %v",
			probs.Shape(), targets.Shape()))
	}

	c.probs = probs
	c.targets = targets

	n := probs.Shape()[0]
	p := probs.Data()
	y := targets.Data()

	total := float64(0)
	for i, t := range y {
		if t == 0 {
			continue
		}
		v := p[i]
		if v < probEpsilon {
			v = probEpsilon
		}
		total -= float64(t) * math.Log(float64(v))
	}
	return float32(total / float64(n))
}

// Backward returns the gradient of the mean loss with respect to the
// predicted probabilities: -target/prob / N.
func (c *CategoricalCrossEntropy) Backward() *tensor.Tensor {
	n := c.probs.Shape()[0]
	grad := tensor.New(c.probs.Shape())

	p := c.probs.Data()
	y := c.targets.Data()
	g := grad.Data()

	for i, t := range y {
		if t == 0 {
			continue
		}
		v := p[i]
		if v < probEpsilon {
			v = probEpsilon
		}
		g[i] = -t / v / float32(n)
	}
	return grad
}

// Accuracy computes the fraction of samples whose argmax prediction matches
// the argmax of the one-hot target.
func Accuracy(probs, targets *tensor.Tensor) float64 {
	shape := probs.Shape()
	n, classes := shape[0], shape[1]

	p := probs.Data()
	y := targets.Data()

	correct := 0
	for r := 0; r < n; r++ {
		base := r * classes
		if argmax(p[base:base+classes]) == argmax(y[base:base+classes]) {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

// argmax returns the index of the maximum value in the slice.
func argmax(v []float32) int {
	maxIdx := 0
	maxVal := v[0]
	for i := 1; i < len(v); i++ {
		if v[i] > maxVal {
			maxVal = v[i]
			maxIdx = i
		}
	}
	return maxIdx
}
