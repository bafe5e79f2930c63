package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Flush a final snapshot and release the graph",
	Args:  cobra.NoArgs,
	RunE:  runShutdown,
}

func runShutdown(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	if err := e.Shutdown(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "shut down")
	return nil
}
