// liquidmap is an optional CLI front end around the incremental code-graph
// engine (internal/engine). It is a thin shell: one process per invocation,
// loading whatever snapshot internal/persist already has on disk, running
// one command, and, for the commands that change the graph (scan, process,
// shutdown), flushing a snapshot back out before exiting.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// run executes the cobra command tree against args, writing to stdout/stderr
// instead of the process's own streams. Split out from main so tests can
// drive the CLI in-process without spawning a subprocess per case.
func run(args []string, stdout, stderr io.Writer) error {
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// errInvalidArgs and errNoGraph back the exit code contract:
// 0 success, 1 invalid args, 2 no graph.
var (
	errInvalidArgs = errors.New("invalid arguments")
	errNoGraph     = errors.New("no graph: run 'liquidmap scan' first")
)

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, errNoGraph):
		return 2
	case errors.Is(err, errInvalidArgs):
		return 1
	default:
		return 1
	}
}
