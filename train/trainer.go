// Package train drives a network through training and evaluation passes
// over a sample source and reports each pass to a progress sink.
package train

import (
	"time"

	"github.com/pkg/errors"

	"neuralnet/nn"
	"neuralnet/progress"
	"neuralnet/utils"
)

// Source yields samples. ok is false once no more valid records follow.
type Source interface {
	NextInputs() (values []float64, ok bool)
	TargetOutputs() (values []float64, ok bool)
}

// Labels used for the vectors reported to the sink.
const (
	LabelInputs  = "Inputs:"
	LabelOutputs = "Outputs:"
	LabelTargets = "Targets:"
	LabelResults = "Results:"
)

// Trainer owns a network for the duration of a run.
type Trainer struct {
	Net   *nn.Network
	Sink  progress.Sink
	Stats *utils.TimingStats // optional

	passes int
}

// New returns a Trainer for net reporting to sink.
func New(net *nn.Network, sink progress.Sink) *Trainer {
	return &Trainer{Net: net, Sink: sink}
}

// Passes returns the number of training passes completed so far.
func (t *Trainer) Passes() int { return t.passes }

// Train runs one epoch over src: one pass per sample until src runs out or
// yields an input record of the wrong size. Pass numbers continue from earlier
// calls. It returns the number of passes run by this call.
func (t *Trainer) Train(src Source) (int, error) {
	inputs := t.Net.Topology().Inputs()
	n := 0
	for {
		in, ok := src.NextInputs()
		if !ok || len(in) != inputs {
			break
		}
		if err := t.trainPass(src, in); err != nil {
			return n, errors.Wrapf(err, "training pass %d", t.passes+1)
		}
		t.passes++
		n++
	}

	if t.Stats != nil {
		t.Stats.TrainingPasses += n
	}
	return n, nil
}

// Finish reports the end of training, after the last epoch.
func (t *Trainer) Finish() error {
	return errors.Wrap(t.Sink.TrainingDone(), "reporting end of training")
}

func (t *Trainer) trainPass(src Source, in []float64) error {
	if err := t.Sink.Pass(t.passes + 1); err != nil {
		return err
	}
	if err := t.Sink.Values(LabelInputs, in); err != nil {
		return err
	}

	start := time.Now()
	if err := t.Net.FeedForward(in); err != nil {
		return err
	}
	if t.Stats != nil {
		t.Stats.ForwardPassTime += time.Since(start)
	}

	if err := t.Sink.Values(LabelOutputs, t.Net.Results()); err != nil {
		return err
	}

	targets, ok := src.TargetOutputs()
	if !ok {
		return errors.Wrap(nn.ErrShape, "missing target record")
	}
	if err := t.Sink.Values(LabelTargets, targets); err != nil {
		return err
	}

	start = time.Now()
	if err := t.Net.BackProp(targets); err != nil {
		return err
	}
	if t.Stats != nil {
		t.Stats.BackwardPassTime += time.Since(start)
	}

	return t.Sink.Loss(t.Net.RecentAverageLoss())
}
