package graphstore

import (
	"testing"

	"github.com/codegraph/liquidmap/internal/entity"
)

func node(id, filePath, name string, typ entity.Type) entity.Node {
	return entity.Node{
		Entity: entity.Entity{
			EntityType: typ,
			Name:       name,
			FilePath:   filePath,
		},
		ID: id,
	}
}

func TestAddAndRemoveNode(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode(node("a.py::foo", "a.py", "foo", entity.Function))

	if g.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", g.NodeCount())
	}
	if _, ok := g.Node("a.py::foo"); !ok {
		t.Fatal("expected node to be found by id")
	}
	if len(g.NodesByFile("a.py")) != 1 {
		t.Fatal("expected node indexed by file")
	}
	if len(g.NodesByName("foo")) != 1 {
		t.Fatal("expected node indexed by name")
	}

	removed := g.RemoveNode("a.py::foo")
	if removed == nil {
		t.Fatal("expected removed node")
	}
	if g.NodeCount() != 0 {
		t.Fatalf("expected 0 nodes after removal, got %d", g.NodeCount())
	}
	if len(g.NodesByFile("a.py")) != 0 {
		t.Fatal("expected file index emptied")
	}
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode(node("a.py::foo", "a.py", "foo", entity.Function))
	g.AddNode(node("a.py::bar", "a.py", "bar", entity.Function))
	g.AddEdge(entity.Edge{SourceID: "a.py::foo", TargetID: "a.py::bar", Kind: entity.Calls})

	g.RemoveNode("a.py::foo")

	if len(g.IncomingEdges("a.py::bar")) != 0 {
		t.Fatal("expected incoming edge removed when source node is removed")
	}
}

func TestTraverseOutgoing(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode(node("a.py::foo", "a.py", "foo", entity.Function))
	g.AddNode(node("a.py::bar", "a.py", "bar", entity.Function))
	g.AddNode(node("a.py::baz", "a.py", "baz", entity.Function))
	g.AddEdge(entity.Edge{SourceID: "a.py::foo", TargetID: "a.py::bar", Kind: entity.Calls})
	g.AddEdge(entity.Edge{SourceID: "a.py::bar", TargetID: "a.py::baz", Kind: entity.Calls})

	hops := g.Traverse("a.py::foo", nil, Outgoing, 2)
	if len(hops) != 2 {
		t.Fatalf("expected 2 hops, got %d", len(hops))
	}
	if hops[0].Node.ID != "a.py::bar" || hops[0].Depth != 1 {
		t.Fatalf("unexpected first hop: %+v", hops[0])
	}
	if hops[1].Node.ID != "a.py::baz" || hops[1].Depth != 2 {
		t.Fatalf("unexpected second hop: %+v", hops[1])
	}
}

func TestFindPath(t *testing.T) {
	t.Parallel()
	g := New()
	for _, id := range []string{"x", "y", "z"} {
		g.AddNode(node(id, "f.py", id, entity.Function))
	}
	g.AddEdge(entity.Edge{SourceID: "x", TargetID: "y", Kind: entity.Calls})
	g.AddEdge(entity.Edge{SourceID: "y", TargetID: "z", Kind: entity.Calls})

	path := g.FindPath("x", "z", nil, 10)
	want := []string{"x", "y", "z"}
	if len(path) != len(want) {
		t.Fatalf("expected path %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("expected path %v, got %v", want, path)
		}
	}

	if g.FindPath("z", "x", nil, 10) != nil {
		t.Fatal("expected no reverse path without a reverse edge")
	}
}

func TestFindDeadCode(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode(node("a.py::used", "a.py", "used", entity.Function))
	g.AddNode(node("a.py::caller", "a.py", "caller", entity.Function))
	g.AddNode(node("a.py::orphan", "a.py", "orphan", entity.Function))
	g.AddEdge(entity.Edge{SourceID: "a.py::caller", TargetID: "a.py::used", Kind: entity.Calls})

	dead := g.FindDeadCode(DefaultDeadCodeOptions())
	if len(dead) != 2 {
		t.Fatalf("expected 2 dead nodes (caller has no incoming, orphan none), got %d", len(dead))
	}
	var names []string
	for _, n := range dead {
		names = append(names, n.Name)
	}
	foundOrphan := false
	for _, n := range names {
		if n == "orphan" {
			foundOrphan = true
		}
	}
	if !foundOrphan {
		t.Fatalf("expected orphan among dead nodes, got %v", names)
	}
}

func TestFindDeadCodeExcludesDunderAndProperty(t *testing.T) {
	t.Parallel()
	g := New()
	init := node("a.py::Foo.__init__", "a.py", "Foo.__init__", entity.Function)
	g.AddNode(init)

	prop := node("a.py::Foo.value", "a.py", "Foo.value", entity.Function)
	prop.Decorators = []string{"property"}
	g.AddNode(prop)

	dead := g.FindDeadCode(DefaultDeadCodeOptions())
	if len(dead) != 0 {
		t.Fatalf("expected dunder and @property methods excluded, got %d dead nodes", len(dead))
	}
}

func TestFindCyclesDetectsMutualImport(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode(node("a.py::A", "a.py", "A", entity.Class))
	g.AddNode(node("b.py::B", "b.py", "B", entity.Class))
	g.AddEdge(entity.Edge{SourceID: "a.py::A", TargetID: "b.py::B", Kind: entity.Imports})
	g.AddEdge(entity.Edge{SourceID: "b.py::B", TargetID: "a.py::A", Kind: entity.Imports})

	cycles := g.FindCycles(true)
	if len(cycles) != 1 {
		t.Fatalf("expected exactly 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if len(cycles[0]) != 3 {
		t.Fatalf("expected closed 2-file cycle (3 entries), got %v", cycles[0])
	}
}

func TestFindCyclesNoFalsePositiveWithoutCycle(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode(node("a.py::A", "a.py", "A", entity.Class))
	g.AddNode(node("b.py::B", "b.py", "B", entity.Class))
	g.AddEdge(entity.Edge{SourceID: "a.py::A", TargetID: "b.py::B", Kind: entity.Imports})

	if cycles := g.FindCycles(true); len(cycles) != 0 {
		t.Fatalf("expected no cycles, got %v", cycles)
	}
}

func TestQueryFilters(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode(node("a.py::foo", "a.py", "foo", entity.Function))
	g.AddNode(node("b.py::foo", "b.py", "foo", entity.Function))
	g.AddNode(node("a.py::Bar", "a.py", "Bar", entity.Class))

	byFile := g.Query(Filter{FilePath: "a.py"})
	if len(byFile) != 2 {
		t.Fatalf("expected 2 nodes in a.py, got %d", len(byFile))
	}

	byNameAndFile := g.Query(Filter{FilePath: "a.py", Name: "foo"})
	if len(byNameAndFile) != 1 {
		t.Fatalf("expected 1 match, got %d", len(byNameAndFile))
	}
}

func TestLookupProgressiveTiers(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode(node("greet.py::Greeter.bar", "greet.py", "Greeter.bar", entity.Function))
	g.AddNode(node("greet.py::standalone", "greet.py", "standalone", entity.Function))

	byID := g.Lookup("greet.py::standalone")
	if len(byID) != 1 || byID[0].ID != "greet.py::standalone" {
		t.Fatalf("expected exact-id hit, got %+v", byID)
	}

	byName := g.Lookup("standalone")
	if len(byName) != 1 || byName[0].Name != "standalone" {
		t.Fatalf("expected bare-name hit, got %+v", byName)
	}

	bySuffix := g.Lookup("bar")
	if len(bySuffix) != 1 || bySuffix[0].Name != "Greeter.bar" {
		t.Fatalf("expected suffix match against qualified method name, got %+v", bySuffix)
	}

	byRegex := g.Lookup("^stand.*")
	if len(byRegex) != 1 || byRegex[0].Name != "standalone" {
		t.Fatalf("expected regex fallback to match, got %+v", byRegex)
	}

	if none := g.Lookup("nope-nowhere"); none != nil {
		t.Fatalf("expected no match for unresolvable ref, got %+v", none)
	}
}

func TestIsTestFile(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"pkg/test_foo.py":        true,
		"pkg/foo_test.rs":        true,
		"src/FooTest.java":       true,
		"web/button.test.tsx":    true,
		"src/tests/helper.py":    true,
		"src/foo.py":             false,
		"src/testing_ground.py":  false,
	}
	for path, want := range cases {
		if got := IsTestFile(path); got != want {
			t.Errorf("IsTestFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestComputeHashStableAcrossInsertionOrder(t *testing.T) {
	t.Parallel()
	g1 := New()
	g1.AddNode(node("a.py::foo", "a.py", "foo", entity.Function))
	g1.AddNode(node("a.py::bar", "a.py", "bar", entity.Function))
	g1.AddEdge(entity.Edge{SourceID: "a.py::foo", TargetID: "a.py::bar", Kind: entity.Calls})

	g2 := New()
	g2.AddNode(node("a.py::bar", "a.py", "bar", entity.Function))
	g2.AddNode(node("a.py::foo", "a.py", "foo", entity.Function))
	g2.AddEdge(entity.Edge{SourceID: "a.py::foo", TargetID: "a.py::bar", Kind: entity.Calls})

	if g1.ComputeHash() != g2.ComputeHash() {
		t.Fatal("expected hash to be independent of insertion order")
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode(node("a.py::foo", "a.py", "foo", entity.Function))

	snap := g.Snapshot()
	snap.RemoveNode("a.py::foo")

	if g.NodeCount() != 1 {
		t.Fatal("expected original graph unaffected by mutation on snapshot")
	}
	if snap.NodeCount() != 0 {
		t.Fatal("expected snapshot mutation to take effect")
	}
}
