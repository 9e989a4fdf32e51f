package nn

// biasOutput is the constant activation of every bias neuron.
const biasOutput = 1.0

// Layer is an ordered set of neurons. A layer that feeds another layer ends
// with a bias neuron whose output is biasOutput for the lifetime of the
// network; forward propagation only writes the neurons before it.
type Layer struct {
	neurons []Neuron
	bias    bool
}

// newLayer builds units neurons, plus a bias neuron when bias is set, each
// with numOutputs outgoing connections.
func newLayer(units, numOutputs int, bias bool, init func() float64) *Layer {
	size := units
	if bias {
		size++
	}
	l := &Layer{
		neurons: make([]Neuron, 0, size),
		bias:    bias,
	}
	for i := 0; i < size; i++ {
		l.neurons = append(l.neurons, newNeuron(numOutputs, i, init))
	}
	if bias {
		l.neurons[units].output = biasOutput
	}
	return l
}

// Len returns the number of neurons including the bias neuron.
func (l *Layer) Len() int { return len(l.neurons) }

// Units returns the number of neurons excluding the bias neuron.
func (l *Layer) Units() int {
	if l.bias {
		return len(l.neurons) - 1
	}
	return len(l.neurons)
}

// HasBias reports whether the layer ends with a bias neuron.
func (l *Layer) HasBias() bool { return l.bias }

// Bias returns the bias neuron, or nil for the output layer.
func (l *Layer) Bias() *Neuron {
	if !l.bias {
		return nil
	}
	return &l.neurons[len(l.neurons)-1]
}

// Neuron returns the i-th neuron. The bias neuron, if any, is at Len()-1.
func (l *Layer) Neuron(i int) *Neuron { return &l.neurons[i] }

// outputs returns the non-bias activations.
func (l *Layer) outputs() []float64 {
	out := make([]float64, l.Units())
	for i := range out {
		out[i] = l.neurons[i].output
	}
	return out
}
