package propagate

import (
	"testing"

	"github.com/codegraph/liquidmap/internal/entity"
	"github.com/codegraph/liquidmap/internal/graphstore"
)

func node(id, filePath, name string) entity.Node {
	return entity.Node{
		Entity: entity.Entity{EntityType: entity.Function, Name: name, FilePath: filePath},
		ID:     id,
	}
}

// chainGraph builds a.py -> b.py -> c.py -> d.py (a calls b, b calls c, ...).
func chainGraph() *graphstore.Graph {
	g := graphstore.New()
	files := []string{"a.py", "b.py", "c.py", "d.py"}
	for _, fp := range files {
		g.AddNode(node(fp+"::n", fp, "func_"+fp[:1]))
	}
	for i := 0; i < len(files)-1; i++ {
		g.AddEdge(entity.Edge{
			SourceID: files[i+1] + "::n",
			TargetID: files[i] + "::n",
			Kind:     entity.Calls,
		})
	}
	return g
}

func TestDefaultConfigRespectsFanOutAndDepthBounds(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	if cfg.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", cfg.MaxDepth)
	}
	if total := cfg.MaxSyncUpdates + cfg.MaxAsyncUpdates; total != 16 {
		t.Errorf("MaxSyncUpdates+MaxAsyncUpdates = %d, want 16", total)
	}
}

func TestFindAffectedFiles(t *testing.T) {
	t.Parallel()
	g := chainGraph()
	p := New(g, DefaultConfig())

	affected := p.FindAffectedFiles("a.py")
	var sawB bool
	for _, a := range affected {
		if a.FilePath == "b.py" {
			sawB = true
		}
	}
	if !sawB {
		t.Fatalf("expected b.py reachable from a.py, got %+v", affected)
	}
}

func TestFindAffectedFilesDepthLimited(t *testing.T) {
	t.Parallel()
	g := chainGraph()
	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	p := New(g, cfg)

	affected := p.FindAffectedFiles("a.py")
	for _, a := range affected {
		if a.Depth > 1 {
			t.Fatalf("expected depth <= 1, got %+v", a)
		}
	}
}

func TestComputePriorityOpenFileBoost(t *testing.T) {
	t.Parallel()
	p := New(graphstore.New(), DefaultConfig())
	p.SetOpenFiles([]string{"open.py"})

	pOpen := p.ComputePriority("open.py", 0)
	pClosed := p.ComputePriority("closed.py", 0)
	if !(pOpen < pClosed) {
		t.Fatalf("expected open file to have lower (higher-priority) score, got open=%v closed=%v", pOpen, pClosed)
	}
}

func TestComputePriorityTestFilePenalty(t *testing.T) {
	t.Parallel()
	p := New(graphstore.New(), DefaultConfig())

	pNormal := p.ComputePriority("app.py", 0)
	pTest := p.ComputePriority("test_app.py", 0)
	if !(pTest > pNormal) {
		t.Fatalf("expected test file to have higher (lower-priority) score, got test=%v normal=%v", pTest, pNormal)
	}
}

func TestComputePriorityDepthPenalty(t *testing.T) {
	t.Parallel()
	p := New(graphstore.New(), DefaultConfig())

	p0 := p.ComputePriority("a.py", 0)
	p1 := p.ComputePriority("a.py", 1)
	p2 := p.ComputePriority("a.py", 2)
	if !(p0 < p1 && p1 < p2) {
		t.Fatalf("expected strictly increasing priority with depth, got %v %v %v", p0, p1, p2)
	}
}

func TestComputePriorityRecentEditBoost(t *testing.T) {
	t.Parallel()
	p := New(graphstore.New(), DefaultConfig())
	p.RecordEdit("hot.py")

	pHot := p.ComputePriority("hot.py", 0)
	pCold := p.ComputePriority("cold.py", 0)
	if !(pHot < pCold) {
		t.Fatalf("expected recently-edited file to have lower score, got hot=%v cold=%v", pHot, pCold)
	}
}

func TestPropagateSyncPhaseBounded(t *testing.T) {
	t.Parallel()
	g := chainGraph()
	cfg := DefaultConfig()
	cfg.MaxSyncUpdates = 2
	p := New(g, cfg)

	var processed []string
	result := p.Propagate("a.py", func(fp string) { processed = append(processed, fp) })
	if len(result.SyncProcessed) > 2 {
		t.Fatalf("expected at most 2 sync-processed files, got %v", result.SyncProcessed)
	}
	if len(processed) != len(result.SyncProcessed) {
		t.Fatalf("expected update_fn called once per sync-processed file")
	}
}

func TestPropagateQueuesRemainderAsync(t *testing.T) {
	t.Parallel()
	g := chainGraph()
	cfg := DefaultConfig()
	cfg.MaxSyncUpdates = 1
	cfg.MaxAsyncUpdates = 2
	p := New(g, cfg)

	result := p.Propagate("a.py", nil)
	if p.AsyncQueueSize() < 0 {
		t.Fatal("async queue size should never be negative")
	}
	if len(result.SyncProcessed)+len(result.AsyncQueued)+len(result.Deferred) != result.TotalAffected {
		t.Fatalf("expected sync+async+deferred to account for every affected file, got sync=%d async=%d deferred=%d total=%d",
			len(result.SyncProcessed), len(result.AsyncQueued), len(result.Deferred), result.TotalAffected)
	}
}

func TestPropagateNoAffectedFilesIsNoOp(t *testing.T) {
	t.Parallel()
	g := graphstore.New()
	g.AddNode(node("solo.py::n", "solo.py", "lonely"))
	p := New(g, DefaultConfig())

	result := p.Propagate("solo.py", nil)
	if result.TotalAffected != 0 || len(result.SyncProcessed) != 0 {
		t.Fatalf("expected no-op propagation for isolated file, got %+v", result)
	}
}

func TestProcessAsyncQueueDrainsInPriorityOrder(t *testing.T) {
	t.Parallel()
	g := chainGraph()
	cfg := DefaultConfig()
	cfg.MaxSyncUpdates = 0
	cfg.MaxAsyncUpdates = 10
	p := New(g, cfg)

	p.Propagate("a.py", nil)
	sizeBefore := p.AsyncQueueSize()
	if sizeBefore == 0 {
		t.Fatal("expected items queued for async processing")
	}

	processed := p.ProcessAsyncQueue(1, nil)
	if len(processed) != 1 {
		t.Fatalf("expected exactly 1 item drained, got %d", len(processed))
	}
	// b.py sits at depth 1 (score 20), c.py at depth 2 (score 40).
	if processed[0] != "b.py" {
		t.Fatalf("expected the highest-priority file b.py drained first, got %s", processed[0])
	}
	if p.AsyncQueueSize() != sizeBefore-1 {
		t.Fatalf("expected queue size to shrink by 1, got %d (was %d)", p.AsyncQueueSize(), sizeBefore)
	}
}

func TestClearAsyncQueue(t *testing.T) {
	t.Parallel()
	g := chainGraph()
	cfg := DefaultConfig()
	cfg.MaxSyncUpdates = 0
	p := New(g, cfg)

	p.Propagate("a.py", nil)
	p.ClearAsyncQueue()
	if p.AsyncQueueSize() != 0 {
		t.Fatalf("expected empty queue after clear, got %d", p.AsyncQueueSize())
	}
}
