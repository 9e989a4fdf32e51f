package nn

// Connection is the weighted edge from a neuron to one neuron of the next
// layer. DeltaWeight is the last update applied, kept for momentum.
type Connection struct {
	Weight      float64
	DeltaWeight float64
}

// Neuron holds an activation value and the connections leaving it.
type Neuron struct {
	output   float64
	gradient float64
	conns    []Connection
	index    int
}

func newNeuron(numOutputs, index int, init func() float64) Neuron {
	n := Neuron{
		conns: make([]Connection, numOutputs),
		index: index,
	}
	for c := range n.conns {
		n.conns[c].Weight = init()
	}
	return n
}

// Output returns the neuron's current activation.
func (n *Neuron) Output() float64 { return n.output }

// Gradient returns the error signal computed by the last backward pass.
func (n *Neuron) Gradient() float64 { return n.gradient }

// Index is the neuron's position in its layer, which is also its weight slot
// in every neuron of the previous layer.
func (n *Neuron) Index() int { return n.index }

// Connections returns a copy of the outgoing connections.
func (n *Neuron) Connections() []Connection {
	return append([]Connection(nil), n.conns...)
}

// FeedForward sets the output to the sigmoid of the weighted sum of every
// output in prev, bias included.
func (n *Neuron) FeedForward(prev *Layer) {
	sum := 0.0
	for i := range prev.neurons {
		p := &prev.neurons[i]
		sum += p.output * p.conns[n.index].Weight
	}
	n.output = sigmoid(sum)
}

// CalcOutputGradient computes the gradient of an output-layer neuron.
func (n *Neuron) CalcOutputGradient(target float64) {
	delta := target - n.output
	n.gradient = delta * sigmoidDerivative(n.output)
}

// CalcHiddenGradient computes the gradient of a hidden neuron from the
// gradients already set on next.
func (n *Neuron) CalcHiddenGradient(next *Layer) {
	dow := n.sumDOW(next)
	n.gradient = dow * sigmoidDerivative(n.output)
}

// sumDOW is the sum of this neuron's contributions to the errors of the
// non-bias neurons of next.
func (n *Neuron) sumDOW(next *Layer) float64 {
	sum := 0.0
	for j := 0; j < next.Units(); j++ {
		sum += n.conns[j].Weight * next.neurons[j].gradient
	}
	return sum
}

// UpdateInputWeights adjusts the weights of every connection from prev into
// this neuron. eta is the learning rate, alpha the momentum coefficient.
func (n *Neuron) UpdateInputWeights(prev *Layer, eta, alpha float64) {
	for i := range prev.neurons {
		p := &prev.neurons[i]
		c := &p.conns[n.index]
		delta := eta*p.output*n.gradient + alpha*c.DeltaWeight
		c.DeltaWeight = delta
		c.Weight += delta
	}
}
