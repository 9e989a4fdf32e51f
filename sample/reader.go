// Package sample reads the line-oriented training format:
//
//	topology: 2 4 1
//	in: 0 1
//	out: 1
//	in: 1 1
//	out: 0
//
// The topology record comes first and appears once. Each sample is an in:
// record followed by an out: record.
package sample

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"neuralnet/nn"
	"neuralnet/utils"
)

const (
	labelTopology = "topology:"
	labelInputs   = "in:"
	labelTargets  = "out:"

	maxLineSize = 1 << 20
)

// ErrHeader is returned when the first record is not a valid topology.
var ErrHeader = errors.New("sample: malformed topology header")

// HeaderError describes a bad topology record.
type HeaderError struct {
	Line   int
	Label  string
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%s at line %d (label %q): %s", ErrHeader, e.Line, e.Label, e.Reason)
}

func (e *HeaderError) Unwrap() error { return ErrHeader }

// Reader yields the topology and then samples from a stream.
type Reader struct {
	scanner   *bufio.Scanner
	line      int
	exhausted bool

	pending    string
	hasPending bool
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Topology reads the header record. It must be the first call on the Reader.
func (r *Reader) Topology() (nn.Topology, error) {
	text, ok := r.next()
	if !ok {
		if err := r.Err(); err != nil {
			return nil, errors.Wrap(err, "reading topology")
		}
		return nil, &HeaderError{Line: r.line, Reason: "empty stream"}
	}

	label, rest := splitLabel(text)
	if label != labelTopology {
		return nil, &HeaderError{Line: r.line, Label: label, Reason: "expected " + labelTopology}
	}
	sizes, err := utils.ParseTopology(rest)
	if err != nil {
		return nil, &HeaderError{Line: r.line, Label: label, Reason: err.Error()}
	}
	topology := nn.Topology(sizes)
	if err := topology.Validate(); err != nil {
		return nil, &HeaderError{Line: r.line, Label: label, Reason: err.Error()}
	}
	return topology, nil
}

// OptionalTopology reads the header if the stream starts with one. When the
// first record carries another label it is left for the next read and ok is
// false. Evaluation files may omit the header.
func (r *Reader) OptionalTopology() (topology nn.Topology, ok bool, err error) {
	text, more := r.next()
	if !more {
		return nil, false, errors.Wrap(r.Err(), "reading topology")
	}
	r.pending, r.hasPending = text, true
	if label, _ := splitLabel(text); label != labelTopology {
		return nil, false, nil
	}
	topology, err = r.Topology()
	return topology, err == nil, err
}

// NextInputs reads an in: record. ok is false when the stream is exhausted or
// the line carries another label.
func (r *Reader) NextInputs() (values []float64, ok bool) {
	return r.record(labelInputs)
}

// TargetOutputs reads an out: record. ok is false when the stream is
// exhausted or the line carries another label.
func (r *Reader) TargetOutputs() (values []float64, ok bool) {
	return r.record(labelTargets)
}

// Exhausted reports whether the end of the stream has been reached.
func (r *Reader) Exhausted() bool { return r.exhausted }

// Line returns the number of the last line read, starting at 1.
func (r *Reader) Line() int { return r.line }

// Err returns the first read error other than io.EOF.
func (r *Reader) Err() error { return r.scanner.Err() }

func (r *Reader) record(want string) ([]float64, bool) {
	text, ok := r.next()
	if !ok {
		return nil, false
	}
	label, rest := splitLabel(text)
	if label != want {
		return nil, false
	}
	return parseValues(rest), true
}

func (r *Reader) next() (string, bool) {
	if r.hasPending {
		r.hasPending = false
		return r.pending, true
	}
	if r.exhausted {
		return "", false
	}
	if !r.scanner.Scan() {
		r.exhausted = true
		return "", false
	}
	r.line++
	return r.scanner.Text(), true
}

func splitLabel(line string) (label, rest string) {
	line = strings.TrimLeft(line, " \t\r")
	i := strings.IndexAny(line, " \t\r")
	if i < 0 {
		return line, ""
	}
	return line[:i], line[i:]
}

// parseValues reads decimal numbers left to right and stops at the first
// token that is not one. nan, inf and hex floats count as not a number.
func parseValues(s string) []float64 {
	fields := strings.Fields(s)
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		if !isDecimal(f) {
			break
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			break
		}
		values = append(values, v)
	}
	return values
}

func isDecimal(tok string) bool {
	for _, c := range tok {
		switch {
		case c >= '0' && c <= '9':
		case c == '+', c == '-', c == '.', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}
