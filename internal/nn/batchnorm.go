package nn

import (
	"fmt"
	"math"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// BatchNorm normalizes activations using per-batch statistics.
//
// Normalization runs over the last (channel/feature) dimension: for a 4D
// input [N,H,W,C] every channel is normalized across batch and space, for a
// 2D input [N,F] every feature is normalized across the batch.
//
// Formula: y = gamma * (x - mean) / sqrt(var + eps) + beta
//
// During training the batch mean and (biased) variance are used and folded
// into running estimates; during inference the running estimates are used.
// Defaults follow the Keras layer: momentum 0.99, epsilon 1e-3.
type BatchNorm struct {
	features int
	momentum float32
	epsilon  float32

	gamma *Parameter // learnable scale [features]
	beta  *Parameter // learnable shift [features]

	runningMean []float32
	runningVar  []float32

	// forward caches for the backward pass
	xhat   []float32
	invStd []float32
	shape  tensor.Shape
}

// NewBatchNorm creates a batch normalization layer over the given channel or
// feature count. Gamma starts at ones, beta at zeros, the running variance
// at ones.
func NewBatchNorm(features int) *BatchNorm {
	if features <= 0 {
		panic(fmt.Sprintf("batchnorm: invalid feature count %d", features))
	}

	runningVar := make([]float32, features)
	for i := range runningVar {
		runningVar[i] = 1
	}

	return &BatchNorm{
		features:    features,
		momentum:    0.99,
		epsilon:     1e-3,
		gamma:       NewParameter("batchnorm.gamma", tensor.Ones(tensor.Shape{features})),
		beta:        NewParameter("batchnorm.beta", tensor.Zeros(tensor.Shape{features})),
		runningMean: make([]float32, features),
		runningVar:  runningVar,
	}
}

// Forward normalizes the input.
//
// In training mode batch statistics are computed and the running estimates
// updated; in inference mode the running estimates are applied.
func (b *BatchNorm) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	shape := x.Shape()
	c := shape[len(shape)-1]
	if c != b.features {
		panic(fmt.Sprintf("batchnorm: last dimension %d != feature count %d", c, b.features))
	}
	m := x.NumElements() / c

	out := tensor.New(shape)
	in := x.Data()
	od := out.Data()
	gamma := b.gamma.Data().Data()
	beta := b.beta.Data().Data()

	mean := make([]float32, c)
	variance := make([]float32, c)

	if training {
		for i, v := range in {
			mean[i%c] += v
		}
		for i := range mean {
			mean[i] /= float32(m)
		}
		for i, v := range in {
			d := v - mean[i%c]
			variance[i%c] += d * d
		}
		for i := range variance {
			variance[i] /= float32(m)
		}
		for i := range mean {
			b.runningMean[i] = b.momentum*b.runningMean[i] + (1-b.momentum)*mean[i]
			b.runningVar[i] = b.momentum*b.runningVar[i] + (1-b.momentum)*variance[i]
		}
	} else {
		copy(mean, b.runningMean)
		copy(variance, b.runningVar)
	}

	invStd := make([]float32, c)
	for i := range invStd {
		invStd[i] = 1 / float32(math.Sqrt(float64(variance[i]+b.epsilon)))
	}

	xhat := make([]float32, len(in))
	for i, v := range in {
		ci := i % c
		xhat[i] = (v - mean[ci]) * invStd[ci]
		od[i] = gamma[ci]*xhat[i] + beta[ci]
	}

	if training {
		b.xhat = xhat
		b.invStd = invStd
		b.shape = shape
	}
	return out
}

// Backward computes gradients through the batch normalization.
//
// Uses the standard closed form over the reduction group of each feature:
//
//	dx = invStd/M * (M*dxhat - sum(dxhat) - xhat * sum(dxhat * xhat))
func (b *BatchNorm) Backward(grad *tensor.Tensor) *tensor.Tensor {
	c := b.features
	m := grad.NumElements() / c

	g := grad.Data()
	gamma := b.gamma.Data().Data()
	dGamma := b.gamma.Grad().Data()
	dBeta := b.beta.Grad().Data()

	sumDxhat := make([]float32, c)
	sumDxhatXhat := make([]float32, c)
	for i, gv := range g {
		ci := i % c
		dGamma[ci] += gv * b.xhat[i]
		dBeta[ci] += gv
		dxhat := gv * gamma[ci]
		sumDxhat[ci] += dxhat
		sumDxhatXhat[ci] += dxhat * b.xhat[i]
	}

	out := tensor.New(b.shape)
	od := out.Data()
	for i, gv := range g {
		ci := i % c
		dxhat := gv * gamma[ci]
		od[i] = b.invStd[ci] / float32(m) *
			(float32(m)*dxhat - sumDxhat[ci] - b.xhat[i]*sumDxhatXhat[ci])
	}
	return out
}

// OutputShape is the identity; the last dimension must match the feature
// count the layer was constructed with.
func (b *BatchNorm) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) == 0 || input[len(input)-1] != b.features {
		return nil, fmt.Errorf("%w: batchnorm expects last dimension %d, got input %v",
			ErrShapeMismatch, b.features, input)
	}
	return input.Clone(), nil
}

// Parameters returns the gamma and beta parameters.
func (b *BatchNorm) Parameters() []*Parameter {
	return []*Parameter{b.gamma, b.beta}
}

func (b *BatchNorm) String() string {
	return fmt.Sprintf("BatchNorm(features=%d)", b.features)
}
