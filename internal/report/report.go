package report

import (
	"fmt"
	"io"

	"github.com/inkwell-ml/inkwell/internal/train"
)

// TestMetrics writes the test-set section of the final report.
func TestMetrics(w io.Writer, testLoss, testAcc float64) {
	fmt.Fprintln(w, "Performance of network on testing set:")
	fmt.Fprintf(w, "Accuracy on testing data: %6.2f%%\n", testAcc*100)
	fmt.Fprintf(w, "Test error (loss):        %8.4f\n", testLoss)
	fmt.Fprintln(w)
}

// FinalSummary writes the closing comparison of training, validation and
// test accuracy. Training and validation values come from the last
// completed epoch.
func FinalSummary(w io.Writer, h *train.History, testAcc float64) {
	fmt.Fprintln(w, "Performance of network:")
	if n := h.Len(); n > 0 {
		fmt.Fprintf(w, "Accuracy on training data:   %6.2f%%\n", h.Accuracy[n-1]*100)
		fmt.Fprintf(w, "Accuracy on validation data: %6.2f%%\n", h.ValAccuracy[n-1]*100)
	}
	fmt.Fprintf(w, "Accuracy on testing data:    %6.2f%%\n", testAcc*100)
}

// EpochLine formats the per-epoch progress line printed during training.
func EpochLine(m train.EpochMetrics, maxEpochs int) string {
	return fmt.Sprintf("Epoch %d/%d - loss: %.4f - accuracy: %.4f - val_loss: %.4f - val_accuracy: %.4f",
		m.Epoch, maxEpochs, m.Loss, m.Accuracy, m.ValLoss, m.ValAccuracy)
}
