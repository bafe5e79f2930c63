package main

import (
	"github.com/spf13/cobra"
)

var callersCmd = &cobra.Command{
	Use:   "callers <name>",
	Short: "List callers of an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "callers", args) },
}

var calleesCmd = &cobra.Command{
	Use:   "callees <name>",
	Short: "List callees of an entity",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "callees", args) },
}

var depsCmd = &cobra.Command{
	Use:   "deps <file>",
	Short: "List files a file depends on",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "deps", args) },
}

var rdepsCmd = &cobra.Command{
	Use:   "rdeps <file>",
	Short: "List files that depend on a file",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "rdeps", args) },
}

var fileCmd = &cobra.Command{
	Use:   "file <file>",
	Short: "List entities defined in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "file", args) },
}

var entityCmd = &cobra.Command{
	Use:   "entity <id>",
	Short: "Show one entity by its file::name id",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "entity", args) },
}

var impactCmd = &cobra.Command{
	Use:   "impact <file> [name]",
	Short: "Estimate the blast radius of changing a file or one of its entities",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "impact", args) },
}

var deadCmd = &cobra.Command{
	Use:   "dead",
	Short: "List entities unreachable from any entry point",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "dead", args) },
}

var pathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Find a call/dependency path between two entities",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "path", args) },
}

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search entity names by substring or pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "search", args) },
}

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "List dependency cycles in the graph",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "cycles", args) },
}

var exportsCmd = &cobra.Command{
	Use:   "exports <file>",
	Short: "List entities a file exposes to other files",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "exports", args) },
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node/edge counts and top-level graph shape",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "stats", args) },
}

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Render the graph (out of scope: no report-formatting component)",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "visualize", args) },
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the graph's largest hubs and overall shape",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runQuery(cmd, "summary", args) },
}
