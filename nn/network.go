// Package nn implements a fully-connected feedforward network of sigmoid
// neurons trained one sample at a time by backpropagation with momentum.
//
// Every layer except the output layer carries a bias neuron with a constant
// output of 1.0. Weights live on the source neuron: the connection from
// neuron i of layer L to neuron j of layer L+1 is Layer(L).Neuron(i).Connections()[j].
package nn

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Topology lists the number of neurons of each layer, input layer first.
type Topology []int

// Validate checks that there are at least two layers, all non-empty.
func (t Topology) Validate() error {
	if len(t) < 2 {
		return errors.Wrapf(ErrTopology, "need at least 2 layers, got %d", len(t))
	}
	for i, n := range t {
		if n <= 0 {
			return errors.Wrapf(ErrTopology, "layer %d has size %d", i, n)
		}
	}
	return nil
}

// Inputs returns the size of the input layer.
func (t Topology) Inputs() int { return t[0] }

// Outputs returns the size of the output layer.
func (t Topology) Outputs() int { return t[len(t)-1] }

// Config holds the learning parameters of a Network.
type Config struct {
	Eta             float64 // learning rate
	Alpha           float64 // momentum coefficient
	SmoothingFactor float64 // weight of the history in the running average loss
	Seed            uint64  // weight initialization seed
}

// DefaultConfig returns eta 0.15, alpha 0.5 and a smoothing factor of 100.
func DefaultConfig() Config {
	return Config{
		Eta:             0.15,
		Alpha:           0.5,
		SmoothingFactor: 100,
		Seed:            1,
	}
}

func (c Config) validate() error {
	switch {
	case c.Eta < 0:
		return errors.Wrapf(ErrConfig, "eta %v is negative", c.Eta)
	case c.Alpha < 0:
		return errors.Wrapf(ErrConfig, "alpha %v is negative", c.Alpha)
	case c.SmoothingFactor < 0:
		return errors.Wrapf(ErrConfig, "smoothing factor %v is negative", c.SmoothingFactor)
	}
	return nil
}

// Network is an ordered sequence of layers. It is not safe for concurrent use.
type Network struct {
	topology          Topology
	layers            []*Layer
	config            Config
	loss              float64
	recentAverageLoss float64
}

// New builds a network for topology with weights drawn uniformly from [0,1).
func New(topology Topology, cfg Config) (*Network, error) {
	dist := distuv.Uniform{
		Min: 0,
		Max: 1,
		Src: rand.NewSource(cfg.Seed),
	}
	return newNetwork(topology, cfg, dist.Rand)
}

func newNetwork(topology Topology, cfg Config, init func() float64) (*Network, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	net := &Network{
		topology: append(Topology(nil), topology...),
		layers:   make([]*Layer, len(topology)),
		config:   cfg,
	}
	last := len(topology) - 1
	for i, units := range topology {
		numOutputs := 0
		if i < last {
			numOutputs = topology[i+1]
		}
		net.layers[i] = newLayer(units, numOutputs, i < last, init)
	}
	return net, nil
}

// FeedForward propagates inputs through the network.
func (net *Network) FeedForward(inputs []float64) error {
	input := net.layers[0]
	if len(inputs) != input.Units() {
		return errors.Wrapf(ErrShape, "got %d inputs, want %d", len(inputs), input.Units())
	}

	for i, v := range inputs {
		input.neurons[i].output = v
	}
	for l := 1; l < len(net.layers); l++ {
		prev, layer := net.layers[l-1], net.layers[l]
		for i := 0; i < layer.Units(); i++ {
			layer.neurons[i].FeedForward(prev)
		}
	}
	return nil
}

// BackProp computes the loss against targets, then the gradients of every
// layer, then updates every weight. Gradients are all computed before the
// first weight changes.
func (net *Network) BackProp(targets []float64) error {
	output := net.outputLayer()
	if len(targets) != output.Units() {
		return errors.Wrapf(ErrShape, "got %d targets, want %d", len(targets), output.Units())
	}

	// RMS loss
	net.loss = floats.Distance(targets, output.outputs(), 2) / math.Sqrt(float64(len(targets)))
	s := net.config.SmoothingFactor
	net.recentAverageLoss = (net.recentAverageLoss*s + net.loss) / (s + 1.0)

	for i, t := range targets {
		output.neurons[i].CalcOutputGradient(t)
	}

	for l := len(net.layers) - 2; l > 0; l-- {
		hidden, next := net.layers[l], net.layers[l+1]
		for i := range hidden.neurons {
			hidden.neurons[i].CalcHiddenGradient(next)
		}
	}

	eta, alpha := net.config.Eta, net.config.Alpha
	for l := len(net.layers) - 1; l > 0; l-- {
		layer, prev := net.layers[l], net.layers[l-1]
		for i := 0; i < layer.Units(); i++ {
			layer.neurons[i].UpdateInputWeights(prev, eta, alpha)
		}
	}
	return nil
}

// Results returns the output layer's activations.
func (net *Network) Results() []float64 {
	return net.outputLayer().outputs()
}

// Loss returns the RMS loss of the last BackProp call.
func (net *Network) Loss() float64 { return net.loss }

// RecentAverageLoss returns the exponentially smoothed loss.
func (net *Network) RecentAverageLoss() float64 { return net.recentAverageLoss }

// Topology returns a copy of the topology the network was built from.
func (net *Network) Topology() Topology {
	return append(Topology(nil), net.topology...)
}

// Config returns the learning parameters.
func (net *Network) Config() Config { return net.config }

// NumLayers returns the number of layers, input and output included.
func (net *Network) NumLayers() int { return len(net.layers) }

// Layer returns the l-th layer.
func (net *Network) Layer(l int) *Layer { return net.layers[l] }

func (net *Network) outputLayer() *Layer {
	return net.layers[len(net.layers)-1]
}

// Weights returns a copy of the weights leaving layer l. Row i holds the
// connections of neuron i (the last row belongs to the bias neuron), column j
// the connection into neuron j of layer l+1. It panics if l is the output layer.
func (net *Network) Weights(l int) *mat.Dense {
	if l < 0 || l >= len(net.layers)-1 {
		panic(fmt.Sprintf("Weights: layer %d has no outgoing connections", l))
	}
	layer, next := net.layers[l], net.layers[l+1]
	w := mat.NewDense(layer.Len(), next.Units(), nil)
	for i := range layer.neurons {
		for j, c := range layer.neurons[i].conns {
			w.Set(i, j, c.Weight)
		}
	}
	return w
}
