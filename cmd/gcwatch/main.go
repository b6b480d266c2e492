// Command gcwatch watches a trace script file (see internal/trace) and
// replays it against a live heap every time the file changes, printing
// a line per collect. Useful for iterating on a script without
// restarting the process.
package main

import (
	"fmt"
	"os"

	"github.com/orizon-lang/orizon-gc/internal/gcruntime"
	"github.com/orizon-lang/orizon-gc/internal/trace"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "USAGE: %s <script>\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	w, err := trace.NewWatcher(path)
	if err != nil {
		return err
	}
	defer w.Close()

	m := gcruntime.New(0)
	report := func(line, survived, freed int) {
		fmt.Printf("line %d: collect survived=%d freed=%d\n", line, survived, freed)
	}

	if err := w.RunOnce(m, report); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	fmt.Println("watching for changes, Ctrl-C to stop")
	w.Loop(m, report, func(err error) {
		fmt.Fprintln(os.Stderr, err)
	})

	return nil
}
