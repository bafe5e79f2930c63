package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagLanguages []string

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Cold-start populate the graph from a project directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringSliceVar(&flagLanguages, "lang", nil, "limit to comma-separated languages (e.g. python,typescript)")
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		flagRoot = args[0]
	}

	e, err := openEngine()
	if err != nil {
		return err
	}

	report, err := e.Scan(context.Background(), flagLanguages)
	if err != nil {
		return err
	}
	if err := e.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", report)
	return nil
}
