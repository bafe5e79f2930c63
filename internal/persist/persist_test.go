package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codegraph/liquidmap/internal/bridge"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := New(filepath.Join(dir, "graph.json"))

	b := bridge.New()
	b.ProcessChange("lib.py", bridge.Create, "def helper():\n    pass\n")
	b.ProcessChange("main.py", bridge.Create, "def run():\n    helper()\n")

	if err := store.Save(b, 1700000000); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := bridge.New()
	ok, err := store.Load(restored)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected Load to report ok=true for a freshly saved snapshot")
	}

	if restored.Graph().NodeCount() != b.Graph().NodeCount() {
		t.Fatalf("expected %d nodes restored, got %d", b.Graph().NodeCount(), restored.Graph().NodeCount())
	}
	if restored.Graph().EdgeCount() != b.Graph().EdgeCount() {
		t.Fatalf("expected %d edges restored, got %d", b.Graph().EdgeCount(), restored.Graph().EdgeCount())
	}

	entities := restored.FileEntities()
	if len(entities["lib.py"]) != 1 || entities["lib.py"][0].Name != "helper" {
		t.Fatalf("expected lib.py's entity snapshot restored, got %+v", entities["lib.py"])
	}
}

func TestLoadMissingFileIsCleanStart(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := New(filepath.Join(dir, "does-not-exist.json"))

	b := bridge.New()
	ok, err := store.Load(b)
	if err != nil {
		t.Fatalf("expected no error for a missing snapshot, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing snapshot")
	}
	if b.Graph().NodeCount() != 0 {
		t.Fatal("expected an empty graph after a missing-snapshot load")
	}
}

func TestLoadCorruptFileIsCleanStart(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	store := New(path)

	b := bridge.New()
	ok, err := store.Load(b)
	if err != nil {
		t.Fatalf("expected no error for a corrupt snapshot, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a corrupt snapshot")
	}
}

func TestLoadSchemaVersionMismatchIsCleanStart(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(path, []byte(`{"schema_version": 999}`), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	store := New(path)

	b := bridge.New()
	ok, err := store.Load(b)
	if err != nil {
		t.Fatalf("expected no error for a version-mismatched snapshot, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a schema-version mismatch")
	}
}

func TestSaveWritesAtomically(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	store := New(path)

	b := bridge.New()
	b.ProcessChange("a.py", bridge.Create, "def foo():\n    pass\n")

	if err := store.Save(b, 1700000000); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("expected no leftover .tmp file after a successful save")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected final snapshot file to exist: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()
	got := DefaultPath("/home/user/.config")
	want := filepath.Join("/home/user/.config", "liquidmap", "graph.json")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
