package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codegraph/liquidmap/internal/engine"
)

var flagRoot string

var rootCmd = &cobra.Command{
	Use:           "liquidmap",
	Short:         "Incremental code-graph engine for an editor/assistant plugin",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "project root (default: current directory)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(shutdownCmd)

	rootCmd.AddCommand(callersCmd)
	rootCmd.AddCommand(calleesCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(rdepsCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(entityCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(deadCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(cyclesCmd)
	rootCmd.AddCommand(exportsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(visualizeCmd)
	rootCmd.AddCommand(summaryCmd)
}

// projectRoot resolves --root to the current directory when unset.
func projectRoot() (string, error) {
	if flagRoot != "" {
		return flagRoot, nil
	}
	return os.Getwd()
}

// openEngine builds an Engine rooted at --root (or the cwd), hydrated from
// whatever snapshot internal/persist already has.
func openEngine() (*engine.Engine, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	return engine.New(root)
}

// runQuery opens an engine, requires a non-empty graph, dispatches command
// with args, and prints the result to cmd's own output stream. Every
// query-type cobra command shares this body; only the command name and
// positional-arg-to-args mapping differ.
func runQuery(cmd *cobra.Command, command string, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	if e.NodeCount() == 0 {
		return errNoGraph
	}

	result, err := e.Query(command, args)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", result)
	return nil
}
