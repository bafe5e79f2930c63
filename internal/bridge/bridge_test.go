package bridge

import (
	"testing"

	"github.com/codegraph/liquidmap/internal/entity"
	"github.com/codegraph/liquidmap/internal/propagate"
)

func TestProcessChangeAddsNodesAndResolvesCall(t *testing.T) {
	t.Parallel()
	b := New()

	source := "def helper():\n    pass\n\ndef main():\n    helper()\n"
	res := b.ProcessChange("a.py", Create, source)

	if len(res.Operations) != 2 {
		t.Fatalf("expected 2 add operations, got %d: %+v", len(res.Operations), res.Operations)
	}
	if b.Graph().NodeCount() != 2 {
		t.Fatalf("expected 2 nodes in graph, got %d", b.Graph().NodeCount())
	}

	mainID := entity.NodeID("a.py", "main")
	outgoing := b.Graph().OutgoingEdges(mainID)
	found := false
	for _, e := range outgoing {
		if e.Kind == entity.Calls && e.TargetID == entity.NodeID("a.py", "helper") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected main to resolve a calls edge to helper, got %+v", outgoing)
	}
}

func TestProcessChangeNonSemanticEditProducesNoOperations(t *testing.T) {
	t.Parallel()
	b := New()
	b.ProcessChange("a.py", Create, "def foo():\n    pass\n")

	res := b.ProcessChange("a.py", Edit, "def foo():\n    pass\n\n\n")
	if len(res.Operations) != 0 {
		t.Fatalf("expected whitespace-only edit to produce no operations, got %+v", res.Operations)
	}
}

func TestProcessChangeRemovalCapturesCallers(t *testing.T) {
	t.Parallel()
	b := New()
	b.ProcessChange("lib.py", Create, "def shared():\n    pass\n")
	b.ProcessChange("main.py", Create, "def run():\n    shared()\n")

	res := b.ProcessChange("lib.py", Edit, "")
	var removeOp *Operation
	for i := range res.Operations {
		if res.Operations[i].Type == OpRemoveNode && res.Operations[i].Name == "shared" {
			removeOp = &res.Operations[i]
		}
	}
	if removeOp == nil {
		t.Fatalf("expected shared's removal to be recorded, got %+v", res.Operations)
	}
	if len(removeOp.HadCallers) != 1 || removeOp.HadCallers[0] != "run" {
		t.Fatalf("expected run recorded as prior caller, got %+v", removeOp.HadCallers)
	}
}

func TestProcessChangeDeleteRemovesAllFileNodes(t *testing.T) {
	t.Parallel()
	b := New()
	b.ProcessChange("a.py", Create, "def foo():\n    pass\n\ndef bar():\n    pass\n")

	res := b.ProcessChange("a.py", Delete, "")
	if len(res.Operations) != 2 {
		t.Fatalf("expected 2 remove operations, got %d", len(res.Operations))
	}
	if b.Graph().NodeCount() != 0 {
		t.Fatalf("expected graph empty after delete, got %d nodes", b.Graph().NodeCount())
	}
}

func TestProcessChangeRenameFoldedIntoModified(t *testing.T) {
	t.Parallel()
	b := New()
	b.ProcessChange("a.py", Create, "def old_name():\n    return 1\n")

	res := b.ProcessChange("a.py", Edit, "def new_name():\n    return 1\n")

	var renameOp *Operation
	for i := range res.Operations {
		if res.Operations[i].RenamedFrom == "old_name" {
			renameOp = &res.Operations[i]
		}
	}
	if renameOp == nil {
		t.Fatalf("expected a rename operation from old_name, got %+v", res.Operations)
	}
	if _, ok := b.Graph().Node(entity.NodeID("a.py", "old_name")); ok {
		t.Fatal("expected old node id removed after rename")
	}
	if _, ok := b.Graph().Node(entity.NodeID("a.py", "new_name")); !ok {
		t.Fatal("expected new node id present after rename")
	}
}

func TestModuleExportsFallsBackToTopLevelNames(t *testing.T) {
	t.Parallel()
	b := New()
	b.ProcessChange("lib.py", Create, "def helper():\n    pass\n\nclass Widget:\n    def render(self):\n        pass\n")

	exports := b.ModuleExports("lib.py")
	wantHelper, wantWidget := false, false
	for _, name := range exports {
		if name == "helper" {
			wantHelper = true
		}
		if name == "Widget" {
			wantWidget = true
		}
		if name == "Widget.render" {
			t.Fatalf("expected nested method excluded from top-level exports, got %v", exports)
		}
	}
	if !wantHelper || !wantWidget {
		t.Fatalf("expected helper and Widget in exports, got %v", exports)
	}
}

func TestProcessChangePropagatesToDependents(t *testing.T) {
	t.Parallel()
	b := New()
	b.ProcessChange("lib.py", Create, "def shared():\n    pass\n")
	b.ProcessChange("main.py", Create, "def run():\n    shared()\n")

	prop := propagate.New(b.Graph(), propagate.DefaultConfig())
	var reprocessed []string
	b.SetPropagator(prop, func(fp string) { reprocessed = append(reprocessed, fp) })

	res := b.ProcessChange("lib.py", Edit, "def shared():\n    return 1\n")

	var sawPropagationOp bool
	for _, op := range res.Operations {
		if string(op.NodeType) == "propagation" && op.Name == "main.py" {
			sawPropagationOp = true
		}
	}
	if !sawPropagationOp {
		t.Fatalf("expected main.py propagated as a dependent of lib.py, got %+v", res.Operations)
	}
	if len(reprocessed) != 1 || reprocessed[0] != "main.py" {
		t.Fatalf("expected updateFn invoked once for main.py, got %v", reprocessed)
	}
}

func TestRemoveFilePromotesIncomingEdgesToUnresolved(t *testing.T) {
	t.Parallel()
	b := New()
	b.ProcessChange("lib.py", Create, "def shared():\n    pass\n")
	b.ProcessChange("main.py", Create, "def run():\n    shared()\n")

	b.ProcessChange("lib.py", Delete, "")

	runID := entity.NodeID("main.py", "run")
	var sawUnresolved bool
	for _, e := range b.Graph().OutgoingEdges(runID) {
		if entity.IsUnresolved(e.TargetID) {
			sawUnresolved = true
		}
	}
	if !sawUnresolved {
		t.Fatalf("expected run's call edge promoted to unresolved placeholder after lib.py deletion, got %+v", b.Graph().OutgoingEdges(runID))
	}
}
