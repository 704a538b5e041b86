package train

import (
	"math"

	"github.com/inkwell-ml/inkwell/internal/nn"
)

// EpochMetrics carries the metrics of one completed epoch. Epochs are
// numbered from 1.
type EpochMetrics struct {
	Epoch       int
	Loss        float64
	Accuracy    float64
	ValLoss     float64
	ValAccuracy float64
}

// Hook runs after each epoch with the fresh metrics. Returning true stops
// training before the next epoch.
type Hook func(model *nn.Sequential, m EpochMetrics) bool

// EarlyStopping halts training once validation loss stops improving.
//
// On every new validation-loss minimum it snapshots the model parameters.
// After Patience consecutive epochs without a new minimum (improvement must
// exceed MinDelta) it restores the best snapshot into the model and stops
// training.
type EarlyStopping struct {
	Patience int
	MinDelta float64

	best      float64
	bestEpoch int
	wait      int
	snapshot  [][]float32
	stopped   bool
}

// NewEarlyStopping creates an early-stopping hook with the given patience
// and a zero improvement threshold.
func NewEarlyStopping(patience int) *EarlyStopping {
	return &EarlyStopping{
		Patience: patience,
		best:     math.Inf(1),
	}
}

// AfterEpoch implements Hook.
func (e *EarlyStopping) AfterEpoch(model *nn.Sequential, m EpochMetrics) bool {
	if m.ValLoss < e.best-e.MinDelta {
		e.best = m.ValLoss
		e.bestEpoch = m.Epoch
		e.wait = 0

		params := model.Parameters()
		e.snapshot = make([][]float32, len(params))
		for i, p := range params {
			e.snapshot[i] = p.Snapshot()
		}
		return false
	}

	e.wait++
	if e.wait >= e.Patience {
		e.restore(model)
		e.stopped = true
		return true
	}
	return false
}

func (e *EarlyStopping) restore(model *nn.Sequential) {
	if e.snapshot == nil {
		return
	}
	for i, p := range model.Parameters() {
		p.Restore(e.snapshot[i])
	}
}

// Stopped reports whether the hook halted training.
func (e *EarlyStopping) Stopped() bool {
	return e.stopped
}

// BestEpoch returns the 1-based epoch that achieved the lowest validation
// loss, or 0 if no epoch completed.
func (e *EarlyStopping) BestEpoch() int {
	return e.bestEpoch
}

// BestLoss returns the lowest validation loss observed.
func (e *EarlyStopping) BestLoss() float64 {
	return e.best
}
