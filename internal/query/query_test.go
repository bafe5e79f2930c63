package query

import (
	"sort"
	"testing"

	"github.com/codegraph/liquidmap/internal/bridge"
	"github.com/codegraph/liquidmap/internal/entity"
)

func buildSample(t *testing.T) *bridge.Bridge {
	t.Helper()
	b := bridge.New()
	b.ProcessChange("lib.py", bridge.Create, "def helper():\n    pass\n")
	b.ProcessChange("main.py", bridge.Create, "def run():\n    helper()\n")
	b.ProcessChange("unused.py", bridge.Create, "def orphan():\n    pass\n")
	return b
}

func TestCallersAndCallees(t *testing.T) {
	t.Parallel()
	b := buildSample(t)
	e := New(b)

	callers := e.Callers("helper")
	if len(callers) != 1 {
		t.Fatalf("expected one caller of helper, got %+v", callers)
	}

	callees := e.Callees("run")
	if len(callees) != 1 {
		t.Fatalf("expected one callee of run, got %+v", callees)
	}
}

func TestCallersResolvesBareNameAgainstQualifiedMethod(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("greeter.py", bridge.Create,
		"class Greeter:\n    def bar(self):\n        pass\n")
	b.ProcessChange("main.py", bridge.Create,
		"from greeter import Greeter\n\ndef run():\n    Greeter().bar()\n")
	e := New(b)

	callers := e.Callers("bar")
	if len(callers) == 0 {
		t.Fatalf("expected Callers(\"bar\") to find callers of Greeter.bar via suffix match, got %+v", callers)
	}
}

func TestDepsAndRDeps(t *testing.T) {
	t.Parallel()
	b := buildSample(t)
	e := New(b)

	deps := e.Deps("main.py")
	if len(deps) != 1 || deps[0] != "lib.py" {
		t.Fatalf("expected main.py to depend on lib.py, got %v", deps)
	}

	rdeps := e.RDeps("lib.py")
	if len(rdeps) != 1 || rdeps[0] != "main.py" {
		t.Fatalf("expected lib.py to be depended on by main.py, got %v", rdeps)
	}

	if deps := e.Deps("unused.py"); len(deps) != 0 {
		t.Fatalf("expected unused.py to have no deps, got %v", deps)
	}
}

func TestImpactReachesTransitiveDependents(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("a.py", bridge.Create, "def shared():\n    pass\n")
	b.ProcessChange("b.py", bridge.Create, "def mid():\n    shared()\n")
	b.ProcessChange("c.py", bridge.Create, "def top():\n    mid()\n")
	e := New(b)

	impact := e.Impact("a.py", "")
	sort.Strings(impact)
	if len(impact) != 2 || impact[0] != "b.py" || impact[1] != "c.py" {
		t.Fatalf("expected a.py's impact to reach b.py and c.py, got %v", impact)
	}
}

func TestImpactFiltersByName(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("a.py", bridge.Create, "def shared():\n    pass\ndef other():\n    pass\n")
	b.ProcessChange("b.py", bridge.Create, "def mid():\n    shared()\n")
	e := New(b)

	impact := e.Impact("a.py", "other")
	if len(impact) != 0 {
		t.Fatalf("expected no impact for an uncalled name, got %v", impact)
	}
}

func TestPathFindsShortestRoute(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("a.py", bridge.Create, "def start():\n    mid()\n")
	b.ProcessChange("b.py", bridge.Create, "def mid():\n    end()\n")
	b.ProcessChange("c.py", bridge.Create, "def end():\n    pass\n")
	e := New(b)

	start := b.Graph().NodesByName("start")
	end := b.Graph().NodesByName("end")
	if len(start) != 1 || len(end) != 1 {
		t.Fatalf("expected unique start/end nodes, got %v %v", start, end)
	}

	path := e.Path(start[0].ID, end[0].ID)
	if len(path) != 3 {
		t.Fatalf("expected a 3-node path, got %v", path)
	}
}

func TestDeadExcludesEntryPoints(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("lib.py", bridge.Create, "def orphan():\n    pass\n\ndef main():\n    pass\n")
	e := New(b)

	dead := e.Dead()
	for _, n := range dead {
		if n.Name == "main" {
			t.Fatal("expected main to be excluded as an entry point")
		}
	}

	var sawOrphan bool
	for _, n := range dead {
		if n.Name == "orphan" {
			sawOrphan = true
		}
	}
	if !sawOrphan {
		t.Fatalf("expected orphan to be reported dead, got %+v", dead)
	}
}

func TestCyclesDetectsMutualImport(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("a.py", bridge.Create, "def a_fn():\n    pass\n")
	b.ProcessChange("b.py", bridge.Create, "def b_fn():\n    pass\n")
	g := b.Graph()
	g.AddEdge(entity.Edge{SourceID: "a.py::a_fn", TargetID: "b.py::b_fn", Kind: entity.Imports})
	g.AddEdge(entity.Edge{SourceID: "b.py::b_fn", TargetID: "a.py::a_fn", Kind: entity.Imports})
	e := New(b)

	cycles := e.Cycles()
	if len(cycles) == 0 {
		t.Fatal("expected at least one cycle between a.py and b.py")
	}
}

func TestSearchAnchorsBareWordBoundaries(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("lib.py", bridge.Create, "def helper():\n    pass\n\ndef helperfactory():\n    pass\n")
	e := New(b)

	matches, err := e.Search("helper")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "helper" {
		t.Fatalf("expected only the exact 'helper' match, got %+v", matches)
	}
}

func TestSearchReusesCompiledPatternOnRepeatCall(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("lib.py", bridge.Create, "def helper():\n    pass\n")
	e := New(b)

	for i := 0; i < 2; i++ {
		matches, err := e.Search("helper")
		if err != nil {
			t.Fatalf("Search call %d: %v", i, err)
		}
		if len(matches) != 1 || matches[0].Name != "helper" {
			t.Fatalf("Search call %d: expected one match, got %+v", i, matches)
		}
	}
	if e.regexCache.Len() != 1 {
		t.Fatalf("expected exactly one compiled pattern cached, got %d", e.regexCache.Len())
	}
}

func TestSearchHonorsExplicitAnchors(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("lib.py", bridge.Create, "def helper():\n    pass\n\ndef helperfactory():\n    pass\n")
	e := New(b)

	matches, err := e.Search("^helper")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected an explicit prefix anchor to match both helpers, got %+v", matches)
	}
}

func TestExportsDelegatesToBridge(t *testing.T) {
	t.Parallel()
	b := bridge.New()
	b.ProcessChange("lib.py", bridge.Create, "def helper():\n    pass\n")
	e := New(b)

	exports := e.Exports("lib.py")
	if len(exports) != 1 || exports[0] != "helper" {
		t.Fatalf("expected lib.py to export helper, got %v", exports)
	}
}

func TestSummaryCountsAndTopDegree(t *testing.T) {
	t.Parallel()
	b := buildSample(t)
	e := New(b)

	summary := e.Summary(5)
	if summary.NodeCount != b.Graph().NodeCount() {
		t.Fatalf("expected NodeCount %d, got %d", b.Graph().NodeCount(), summary.NodeCount)
	}
	if summary.EdgeCount != b.Graph().EdgeCount() {
		t.Fatalf("expected EdgeCount %d, got %d", b.Graph().EdgeCount(), summary.EdgeCount)
	}

	if len(summary.EntryPoints) == 0 {
		t.Fatalf("expected at least one entry point candidate (run), got %v", summary.EntryPoints)
	}
}
