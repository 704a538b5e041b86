// Package train drives the mini-batch optimization loop: validation
// splitting, epoch shuffling, gradient updates, metric bookkeeping, and
// after-epoch hooks such as early stopping.
package train

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/inkwell-ml/inkwell/internal/nn"
	"github.com/inkwell-ml/inkwell/internal/optim"
	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// ErrNumericDivergence reports that a loss value became NaN or infinite
// during training. The model state at that point is unusable.
var ErrNumericDivergence = errors.New("train: loss diverged")

// Config controls a call to Fit.
type Config struct {
	// Epochs is the maximum number of passes over the training split.
	Epochs int
	// BatchSize is the number of samples per gradient update. The last
	// batch of an epoch may be smaller.
	BatchSize int
	// ValidationSplit is the fraction of samples, taken from the end of
	// the provided data, held out for per-epoch evaluation. Must lie in
	// [0, 1).
	ValidationSplit float64
	// Shuffle reorders the training split before every epoch.
	Shuffle bool
	// Optimizer applies the parameter updates.
	Optimizer optim.Optimizer
	// Rand drives epoch shuffling. Required when Shuffle is set.
	Rand *rand.Rand
	// Hooks run after each epoch, in order. The first hook that returns
	// true ends training.
	Hooks []Hook
}

// Fit trains model on inputs/targets and returns the metric history.
//
// inputs holds one sample per leading index, targets the matching one-hot
// rows. The tail ValidationSplit fraction is held out before any shuffling,
// so the split is identical across runs with the same data ordering.
//
// Each epoch runs: shuffle (optional), forward in training mode, loss and
// gradient, optimizer step, then a validation pass in inference mode and
// the hooks. Epoch losses are averaged over batches weighted by batch size.
func Fit(model *nn.Sequential, inputs, targets *tensor.Tensor, cfg Config) (*History, error) {
	if cfg.Epochs <= 0 {
		return nil, fmt.Errorf("train: epochs must be positive, got %d", cfg.Epochs)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("train: batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.ValidationSplit < 0 || cfg.ValidationSplit >= 1 {
		return nil, fmt.Errorf("train: validation split %g outside [0, 1)", cfg.ValidationSplit)
	}
	if cfg.Optimizer == nil {
		return nil, fmt.Errorf("train: optimizer is required")
	}
	if cfg.Shuffle && cfg.Rand == nil {
		return nil, fmt.Errorf("train: shuffling requires a random source")
	}

	n := inputs.Shape()[0]
	if targets.Shape()[0] != n {
		return nil, fmt.Errorf("train: %d inputs but %d targets", n, targets.Shape()[0])
	}
	if sample := inputs.Shape()[1:]; !sample.Equal(model.InputShape()) {
		return nil, fmt.Errorf("%w: inputs carry samples of shape %v, model expects %v",
			nn.ErrShapeMismatch, sample, model.InputShape())
	}

	valN := int(float64(n) * cfg.ValidationSplit)
	trainN := n - valN
	if trainN == 0 {
		return nil, fmt.Errorf("train: validation split %g leaves no training samples", cfg.ValidationSplit)
	}

	history := &History{}
	order := make([]int, trainN)
	for i := range order {
		order[i] = i
	}

	params := model.Parameters()
	loss := nn.NewCategoricalCrossEntropy()

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if cfg.Shuffle {
			cfg.Rand.Shuffle(trainN, func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		var losses, accs, weights []float64
		for start := 0; start < trainN; start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > trainN {
				end = trainN
			}
			bx, by := gather(inputs, targets, order[start:end])

			for _, p := range params {
				p.ZeroGrad()
			}

			probs := model.Forward(bx, true)
			batchLoss := loss.Forward(probs, by)
			if math.IsNaN(float64(batchLoss)) || math.IsInf(float64(batchLoss), 0) {
				return history, fmt.Errorf("%w: epoch %d, batch starting at %d: loss=%v",
					ErrNumericDivergence, epoch, start, batchLoss)
			}

			model.Backward(loss.Backward())
			cfg.Optimizer.Step(params)

			losses = append(losses, float64(batchLoss))
			accs = append(accs, nn.Accuracy(probs, by))
			weights = append(weights, float64(end-start))
		}

		m := EpochMetrics{
			Epoch:    epoch,
			Loss:     stat.Mean(losses, weights),
			Accuracy: stat.Mean(accs, weights),
		}

		if valN > 0 {
			valLoss, valAcc, err := evaluateRange(model, inputs, targets, trainN, n, cfg.BatchSize)
			if err != nil {
				return history, err
			}
			m.ValLoss = valLoss
			m.ValAccuracy = valAcc
		}

		history.append(m)

		stop := false
		for _, hook := range cfg.Hooks {
			if hook(model, m) {
				stop = true
				break
			}
		}
		if stop {
			break
		}
	}
	return history, nil
}

// Evaluate runs model over inputs/targets in inference mode and returns the
// mean loss and accuracy, averaged over batches weighted by batch size.
func Evaluate(model *nn.Sequential, inputs, targets *tensor.Tensor, batchSize int) (float64, float64, error) {
	if batchSize <= 0 {
		return 0, 0, fmt.Errorf("train: batch size must be positive, got %d", batchSize)
	}
	n := inputs.Shape()[0]
	if targets.Shape()[0] != n {
		return 0, 0, fmt.Errorf("train: %d inputs but %d targets", n, targets.Shape()[0])
	}
	return evaluateRange(model, inputs, targets, 0, n, batchSize)
}

func evaluateRange(model *nn.Sequential, inputs, targets *tensor.Tensor, from, to, batchSize int) (float64, float64, error) {
	loss := nn.NewCategoricalCrossEntropy()
	indices := make([]int, batchSize)

	var losses, accs, weights []float64
	for start := from; start < to; start += batchSize {
		end := start + batchSize
		if end > to {
			end = to
		}
		indices = indices[:0]
		for i := start; i < end; i++ {
			indices = append(indices, i)
		}
		bx, by := gather(inputs, targets, indices)

		probs := model.Forward(bx, false)
		batchLoss := loss.Forward(probs, by)
		if math.IsNaN(float64(batchLoss)) || math.IsInf(float64(batchLoss), 0) {
			return 0, 0, fmt.Errorf("%w: evaluation batch starting at %d: loss=%v",
				ErrNumericDivergence, start, batchLoss)
		}

		losses = append(losses, float64(batchLoss))
		accs = append(accs, nn.Accuracy(probs, by))
		weights = append(weights, float64(end-start))
	}
	return stat.Mean(losses, weights), stat.Mean(accs, weights), nil
}

// gather copies the selected samples into fresh batch tensors.
func gather(inputs, targets *tensor.Tensor, indices []int) (*tensor.Tensor, *tensor.Tensor) {
	inShape := inputs.Shape()
	tgShape := targets.Shape()
	inSize := inputs.NumElements() / inShape[0]
	tgSize := targets.NumElements() / tgShape[0]

	bxShape := inShape.Clone()
	bxShape[0] = len(indices)
	byShape := tgShape.Clone()
	byShape[0] = len(indices)

	bx := tensor.New(bxShape)
	by := tensor.New(byShape)
	for i, idx := range indices {
		copy(bx.Data()[i*inSize:(i+1)*inSize], inputs.Data()[idx*inSize:(idx+1)*inSize])
		copy(by.Data()[i*tgSize:(i+1)*tgSize], targets.Data()[idx*tgSize:(idx+1)*tgSize])
	}
	return bx, by
}
