// train: trains a network on a sample file and evaluates it on a second one
//
// Usage:
//
//	train -train=data/trainingData.txt -epochs=2000
//	train -train=data/trainingData.txt -format=gob | report
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"neuralnet/nn"
	"neuralnet/progress"
	"neuralnet/sample"
	"neuralnet/train"
	"neuralnet/utils"
)

var (
	trainFile = flag.String("train", "", "Training data file")
	testFile  = flag.String("test", "", "Test data file (default: testData.txt next to the training file)")
	epochs    = flag.Int("epochs", 1, "Number of passes over the training file")
	eta       = flag.Float64("eta", 0.15, "Learning rate")
	alpha     = flag.Float64("alpha", 0.5, "Momentum coefficient")
	smoothing = flag.Float64("smoothing", 100, "Smoothing factor of the running average loss")
	seed      = flag.Uint64("seed", 1, "Weight initialization seed")
	format    = flag.String("format", utils.FormatText, "Progress format: text, gob")
	dump      = flag.Bool("dump", false, "Print the trained weight matrices")
	verbose   = flag.Bool("verbose", false, "Print timing statistics")
)

func main() {
	flag.Parse()

	config := utils.Config{
		TrainFile:       *trainFile,
		TestFile:        *testFile,
		Epochs:          *epochs,
		Eta:             *eta,
		Alpha:           *alpha,
		SmoothingFactor: *smoothing,
		Seed:            *seed,
		Format:          *format,
		DumpWeights:     *dump,
	}
	if config.TestFile == "" && config.TrainFile != "" {
		config.TestFile = filepath.Join(filepath.Dir(config.TrainFile), "testData.txt")
	}
	if err := utils.ValidateConfig(&config); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	utils.Verbose = *verbose
	// stdout carries the progress only; banner and summary go to stderr
	utils.Output = os.Stderr

	if err := run(config, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(config utils.Config, stdout io.Writer) (err error) {
	out := utils.Output
	var sink progress.Sink
	switch config.Format {
	case utils.FormatGob:
		enc := progress.NewEncoder(stdout)
		defer func() {
			if err != nil {
				if serr := enc.SendError(err); serr != nil {
					err = errors.Wrapf(err, "sending error to stream failed (%v)", serr)
				}
				return
			}
			err = enc.Close()
		}()
		sink = enc
	default:
		sink = progress.NewTextSink(stdout)
	}

	fmt.Fprintf(out, "Training file: %s\n", config.TrainFile)
	fmt.Fprintf(out, "  Epochs:    %d\n", config.Epochs)
	fmt.Fprintf(out, "  Eta:       %.4f\n", config.Eta)
	fmt.Fprintf(out, "  Alpha:     %.4f\n", config.Alpha)
	fmt.Fprintf(out, "  Smoothing: %g\n", config.SmoothingFactor)
	fmt.Fprintf(out, "  Seed:      %d\n", config.Seed)

	stats := &utils.TimingStats{}
	totalStart := time.Now()

	// The header is read once to size the network; every epoch reopens the file.
	start := time.Now()
	topology, err := readTopology(config.TrainFile)
	if err != nil {
		return err
	}
	stats.DataLoadingTime += time.Since(start)
	fmt.Fprintf(out, "  Topology:  %v\n\n", []int(topology))

	start = time.Now()
	net, err := nn.New(topology, nn.Config{
		Eta:             config.Eta,
		Alpha:           config.Alpha,
		SmoothingFactor: config.SmoothingFactor,
		Seed:            config.Seed,
	})
	if err != nil {
		return err
	}
	stats.ModelInitTime = time.Since(start)

	trainer := train.New(net, sink)
	trainer.Stats = stats

	for epoch := 0; epoch < config.Epochs; epoch++ {
		if err := trainEpoch(trainer, config.TrainFile, topology); err != nil {
			return errors.Wrapf(err, "epoch %d", epoch+1)
		}
	}
	if err := trainer.Finish(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTest file: %s\n", config.TestFile)
	acc, err := evaluate(trainer, config.TestFile, topology)
	if err != nil {
		return err
	}
	if pct, ok := acc.Percent(); ok {
		fmt.Fprintf(out, "Test accuracy: %.2f%%\n", pct)
	} else {
		fmt.Fprintln(out, "Test accuracy: no data")
	}

	if config.DumpWeights {
		dumpWeights(out, net)
	}

	stats.TotalTime = time.Since(totalStart)
	utils.PrintTimingStats(stats)
	return nil
}

func readTopology(path string) (nn.Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sample.NewReader(f).Topology()
}

func trainEpoch(trainer *train.Trainer, path string, topology nn.Topology) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := sample.NewReader(f)
	got, err := r.Topology()
	if err != nil {
		return err
	}
	if !slices.Equal(got, topology) {
		return errors.Errorf("topology changed to %v", got)
	}
	if _, err := trainer.Train(r); err != nil {
		return err
	}
	return errors.Wrap(r.Err(), "reading training data")
}

func evaluate(trainer *train.Trainer, path string, topology nn.Topology) (progress.Accuracy, error) {
	f, err := os.Open(path)
	if err != nil {
		return progress.Accuracy{}, err
	}
	defer f.Close()

	r := sample.NewReader(f)
	got, ok, err := r.OptionalTopology()
	if err != nil {
		return progress.Accuracy{}, err
	}
	if ok && !slices.Equal(got, topology) {
		return progress.Accuracy{}, errors.Errorf("test topology %v does not match %v", got, topology)
	}
	acc, err := trainer.Evaluate(r)
	if err != nil {
		return acc, err
	}
	return acc, errors.Wrap(r.Err(), "reading test data")
}

func dumpWeights(w io.Writer, net *nn.Network) {
	for l := 0; l < net.NumLayers()-1; l++ {
		fmt.Fprintf(w, "\nWeights %d -> %d (last row: bias)\n", l, l+1)
		fmt.Fprintf(w, "%v\n", mat.Formatted(net.Weights(l), mat.Prefix(""), mat.Squeeze()))
	}
}
