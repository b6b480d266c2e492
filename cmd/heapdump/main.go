// Command heapdump runs a trace script (see internal/trace) against a
// fresh heap and writes a JSON snapshot of the resulting state to
// stdout or a file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/orizon-lang/orizon-gc/internal/gcruntime"
	"github.com/orizon-lang/orizon-gc/internal/snapshot"
	"github.com/orizon-lang/orizon-gc/internal/trace"
)

func main() {
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "USAGE: %s [-o file] <script>\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(scriptPath, outPath string) error {
	f, err := os.Open(scriptPath)
	if err != nil {
		return fmt.Errorf("heapdump: %w", err)
	}
	defer f.Close()

	cmds, err := trace.Parse(f)
	if err != nil {
		return err
	}

	m := gcruntime.New(0)
	trace.Run(m, cmds, func(line, survived, freed int) {
		fmt.Fprintf(os.Stderr, "line %d: collect survived=%d freed=%d\n", line, survived, freed)
	})

	snap := snapshot.Capture(m)

	w := os.Stdout

	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("heapdump: %w", err)
		}
		defer file.Close()

		return snap.WriteJSON(file)
	}

	return snap.WriteJSON(w)
}
