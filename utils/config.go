package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Config holds training configuration
type Config struct {
	TrainFile       string
	TestFile        string
	Epochs          int
	Eta             float64
	Alpha           float64
	SmoothingFactor float64
	Seed            uint64
	Format          string
	DumpWeights     bool
}

// Output formats understood by the trainer front end.
const (
	FormatText = "text"
	FormatGob  = "gob"
)

// ParseTopology parses whitespace-separated layer sizes into a slice of integers
func ParseTopology(s string) ([]int, error) {
	parts := strings.Fields(s)
	sizes := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		sizes[i] = n
	}
	return sizes, nil
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if config.TrainFile == "" {
		return errors.New("training file is required")
	}

	if config.Epochs <= 0 {
		return errors.New("epochs must be positive")
	}

	if config.Eta < 0 || config.Alpha < 0 {
		return errors.New("eta and alpha must not be negative")
	}

	if config.SmoothingFactor < 0 {
		return errors.New("smoothing factor must not be negative")
	}

	if config.Format != FormatText && config.Format != FormatGob {
		return errors.Errorf("format must be %q or %q", FormatText, FormatGob)
	}

	return nil
}
