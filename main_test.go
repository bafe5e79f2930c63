package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeMainTestFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// resetFlags clears package-level flag state left over from a previous run
// call. Every cobra command in this package is a package-level var wired
// once in init, so repeated in-process run() calls in table/sequence tests
// must not let one case's flags leak into the next.
func resetFlags(t *testing.T) {
	t.Helper()
	flagRoot = ""
	flagLanguages = nil
	flagTextFile = ""
}

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"no graph", errNoGraph, 2},
		{"wrapped no graph", fmt.Errorf("opening engine: %w", errNoGraph), 2},
		{"invalid args", errInvalidArgs, 1},
		{"wrapped invalid args", fmt.Errorf("%w: bad stuff", errInvalidArgs), 1},
		{"other error", errors.New("boom"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCodeFor(tc.err); got != tc.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestRunScanThenCallers(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("LIQUIDMAP_CONFIG_ROOT", t.TempDir())
	writeMainTestFile(t, dir, "lib.py", "def shared():\n    pass\n")
	writeMainTestFile(t, dir, "main.py", "def run():\n    shared()\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"scan", "--root", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("scan: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "FilesProcessed:2") {
		t.Errorf("expected 2 files processed, got:\n%s", stdout.String())
	}

	stdout.Reset()
	stderr.Reset()
	resetFlags(t)
	if err := run([]string{"callers", "shared", "--root", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("callers: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "NodeID:main.py::run") {
		t.Errorf("expected a caller in main.py, got:\n%s", stdout.String())
	}
}

func TestRunQueryWithoutScanReturnsNoGraph(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("LIQUIDMAP_CONFIG_ROOT", t.TempDir())

	var stdout, stderr bytes.Buffer
	err := run([]string{"callers", "anything", "--root", dir}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected an error when no graph has been scanned yet")
	}
	if !errors.Is(err, errNoGraph) {
		t.Fatalf("expected errNoGraph, got %v", err)
	}
	if exitCodeFor(err) != 2 {
		t.Errorf("expected exit code 2, got %d", exitCodeFor(err))
	}
}

func TestRunProcessCreateThenShutdown(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("LIQUIDMAP_CONFIG_ROOT", t.TempDir())
	textPath := writeMainTestFile(t, dir, "a.py", "def f():\n    pass\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"process", "a.py", "create", "--text-file", textPath, "--root", dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("process: %v\nstderr: %s", err, stderr.String())
	}

	stdout.Reset()
	stderr.Reset()
	resetFlags(t)
	if err := run([]string{"shutdown", "--root", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("shutdown: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "shut down") {
		t.Errorf("expected shutdown confirmation, got:\n%s", stdout.String())
	}
}

func TestRunProcessRejectsUnknownKind(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("LIQUIDMAP_CONFIG_ROOT", t.TempDir())

	var stdout, stderr bytes.Buffer
	err := run([]string{"process", "a.py", "bogus", "--root", dir}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected an error for an unrecognized change kind")
	}
	if !errors.Is(err, errInvalidArgs) {
		t.Fatalf("expected errInvalidArgs, got %v", err)
	}
}

func TestRunVisualizeReportsOutOfScope(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("LIQUIDMAP_CONFIG_ROOT", t.TempDir())
	writeMainTestFile(t, dir, "a.py", "def f():\n    pass\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"scan", "--root", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("scan: %v", err)
	}

	stdout.Reset()
	stderr.Reset()
	resetFlags(t)
	err := run([]string{"visualize", "--root", dir}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected visualize to report an out-of-scope error")
	}
	if !strings.Contains(err.Error(), "out of scope") {
		t.Errorf("expected an out-of-scope message, got %v", err)
	}
}
