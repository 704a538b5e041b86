package train

// History records per-epoch training metrics.
//
// All four series grow together, one entry per completed epoch, and are
// read-only once training ends. With early stopping the series are shorter
// than the configured epoch count.
type History struct {
	Loss        []float64 // training loss per epoch
	Accuracy    []float64 // training accuracy per epoch
	ValLoss     []float64 // validation loss per epoch
	ValAccuracy []float64 // validation accuracy per epoch
}

// Len returns the number of completed epochs.
func (h *History) Len() int {
	return len(h.Loss)
}

func (h *History) append(m EpochMetrics) {
	h.Loss = append(h.Loss, m.Loss)
	h.Accuracy = append(h.Accuracy, m.Accuracy)
	h.ValLoss = append(h.ValLoss, m.ValLoss)
	h.ValAccuracy = append(h.ValAccuracy, m.ValAccuracy)
}
