// report: renders a gob progress stream as text
//
// Usage:
//
//	train -train=data/trainingData.txt -format=gob | report
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"neuralnet/progress"
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	err := progress.Replay(in, progress.NewTextSink(w))
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}
