package train

import (
	"time"

	"github.com/pkg/errors"

	"neuralnet/progress"
)

// threshold separates the two classes of the first output unit.
const threshold = 0.5

// Classify maps a raw output to 1 when it is strictly above 0.5, else to 0.
func Classify(v float64) float64 {
	if v > threshold {
		return 1
	}
	return 0
}

// Evaluate runs the trained network over src without learning. The first
// output unit is classified and compared with the first target value. The
// accuracy is reported to the sink and returned.
func (t *Trainer) Evaluate(src Source) (progress.Accuracy, error) {
	var acc progress.Accuracy
	inputs := t.Net.Topology().Inputs()
	start := time.Now()

	for {
		in, ok := src.NextInputs()
		if !ok || len(in) != inputs {
			break
		}
		if err := t.Net.FeedForward(in); err != nil {
			return acc, errors.Wrapf(err, "evaluation pass %d", acc.Total+1)
		}
		results := t.Net.Results()

		targets, ok := src.TargetOutputs()
		if !ok || len(targets) == 0 {
			break
		}

		results[0] = Classify(results[0])
		if err := t.reportEvaluation(acc.Total+1, targets, results); err != nil {
			return acc, errors.Wrapf(err, "evaluation pass %d", acc.Total+1)
		}

		acc.Total++
		if results[0] == targets[0] {
			acc.Correct++
		}
	}

	if t.Stats != nil {
		t.Stats.EvaluationTime += time.Since(start)
		t.Stats.EvaluationPasses += acc.Total
	}
	if err := t.Sink.Accuracy(acc); err != nil {
		return acc, errors.Wrap(err, "reporting accuracy")
	}
	return acc, nil
}

func (t *Trainer) reportEvaluation(n int, targets, results []float64) error {
	if err := t.Sink.Pass(n); err != nil {
		return err
	}
	if err := t.Sink.Values(LabelTargets, targets); err != nil {
		return err
	}
	return t.Sink.Values(LabelResults, results)
}
