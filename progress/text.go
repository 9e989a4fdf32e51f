package progress

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TextSink writes progress as plain lines.
type TextSink struct {
	w io.Writer
}

// NewTextSink returns a Sink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (s *TextSink) Pass(n int) error {
	_, err := fmt.Fprintf(s.w, "Pass %d\n", n)
	return err
}

func (s *TextSink) Values(label string, v []float64) error {
	_, err := fmt.Fprintf(s.w, "%s %s\n", label, FormatValues(v))
	return err
}

func (s *TextSink) Loss(avg float64) error {
	_, err := fmt.Fprintf(s.w, "Net recent average loss: %s\n", formatFloat(avg))
	return err
}

func (s *TextSink) TrainingDone() error {
	_, err := io.WriteString(s.w, "Done\n")
	return err
}

func (s *TextSink) Accuracy(a Accuracy) error {
	pct, ok := a.Percent()
	if !ok {
		_, err := io.WriteString(s.w, "Accuracy: no data\n")
		return err
	}
	_, err := fmt.Fprintf(s.w, "Accuracy: %s%% (%d/%d)\n", formatFloat(pct), a.Correct, a.Total)
	return err
}

// FormatValues joins v with single spaces, six significant digits each.
func FormatValues(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = formatFloat(x)
	}
	return strings.Join(parts, " ")
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}
