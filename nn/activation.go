package nn

import "math"

// sigmoid is the logistic transfer function used by every neuron.
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// sigmoidDerivative takes the neuron's output y = sigmoid(x), not x.
// y*(1-y) equals sigmoid'(x) only for the logistic function.
func sigmoidDerivative(y float64) float64 {
	return y * (1.0 - y)
}
