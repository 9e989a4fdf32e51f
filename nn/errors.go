package nn

import "github.com/pkg/errors"

var (
	// ErrShape is returned when an input or target vector does not match the
	// size of the layer it is applied to.
	ErrShape = errors.New("nn: shape mismatch")

	// ErrTopology is returned when a network cannot be built from a topology.
	ErrTopology = errors.New("nn: invalid topology")

	// ErrConfig is returned for negative learning parameters.
	ErrConfig = errors.New("nn: invalid config")
)
