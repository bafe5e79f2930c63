package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/codegraph/liquidmap/internal/bridge"
)

var flagTextFile string

var processCmd = &cobra.Command{
	Use:   "process <file> <edit|create|delete>",
	Short: "Feed one file change through the graph",
	Args:  cobra.ExactArgs(2),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringVar(&flagTextFile, "text-file", "", "path to the file's new contents, or - for stdin (ignored for delete)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	filePath, kindArg := args[0], args[1]

	var kind bridge.ChangeKind
	switch kindArg {
	case "edit":
		kind = bridge.Edit
	case "create":
		kind = bridge.Create
	case "delete":
		kind = bridge.Delete
	default:
		return fmt.Errorf("%w: kind must be one of edit, create, delete", errInvalidArgs)
	}

	var content string
	if kind != bridge.Delete {
		text, err := readTextFile(flagTextFile)
		if err != nil {
			return err
		}
		content = text
	}

	e, err := openEngine()
	if err != nil {
		return err
	}

	result, err := e.ProcessChange(filePath, kind, content)
	if err != nil {
		return err
	}
	if err := e.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", result)
	return nil
}

func readTextFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: --text-file is required for edit/create", errInvalidArgs)
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
