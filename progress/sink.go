// Package progress carries training and evaluation reports from the driver
// to a front end, either as text or as a gob message stream.
package progress

// Sink receives progress in the order training and evaluation produce it.
type Sink interface {
	// Pass starts the report of pass n, counting from 1.
	Pass(n int) error
	// Values reports a labeled vector such as the inputs of a pass.
	Values(label string, v []float64) error
	// Loss reports the smoothed training loss after a pass.
	Loss(avg float64) error
	// TrainingDone marks the end of the training phase.
	TrainingDone() error
	// Accuracy reports the result of an evaluation.
	Accuracy(a Accuracy) error
}

// Accuracy counts correct classifications over evaluated samples.
type Accuracy struct {
	Correct int
	Total   int
}

// Percent returns the share of correct samples in percent. ok is false when
// nothing was evaluated.
func (a Accuracy) Percent() (pct float64, ok bool) {
	if a.Total == 0 {
		return 0, false
	}
	return float64(a.Correct) / float64(a.Total) * 100, true
}
