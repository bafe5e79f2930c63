// Package engine exposes the top-level three-method API a host embeds:
// ProcessChange, Query, and Shutdown. It owns the cold-start project scan,
// config loading, persistence, and the single mutex that serializes every
// call so queries and edits never interleave mid-mutation. The cold-start
// scan uses a bounded worker pool to read files concurrently, collecting
// every result before extracting and applying them one at a time.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codegraph/liquidmap/internal/bridge"
	"github.com/codegraph/liquidmap/internal/config"
	"github.com/codegraph/liquidmap/internal/discover"
	"github.com/codegraph/liquidmap/internal/extract"
	"github.com/codegraph/liquidmap/internal/persist"
	"github.com/codegraph/liquidmap/internal/propagate"
	"github.com/codegraph/liquidmap/internal/query"
)

// maxReadSize skips files larger than this during the cold-start scan, a
// guard against accidentally parsing generated or binary-ish files.
const maxReadSize = 2 << 20 // 2 MiB

// ScanReport summarizes one cold-start or on-demand directory scan.
type ScanReport struct {
	FilesConsidered int
	FilesProcessed  int
	FilesSkipped    int
	Truncated       bool
	Duration        time.Duration
}

// Engine is the host-facing entry point. It is safe for concurrent use;
// every method serializes on mu.
type Engine struct {
	mu sync.Mutex

	root       string
	configRoot string
	cfg        config.Config

	bridge     *bridge.Bridge
	query      *query.Engine
	store      *persist.Store
	propagator *propagate.Propagator
	registry   *extract.Registry

	closed bool
}

// New builds an Engine rooted at projectRoot. It loads config from the
// resolved config root (environment override or the platform per-user
// directory), hydrates from any existing snapshot, and wires bounded
// propagation. It does not scan the project; call Scan explicitly.
func New(projectRoot string) (*Engine, error) {
	configRoot, err := config.Root()
	if err != nil {
		return nil, fmt.Errorf("resolve config root: %w", err)
	}
	cfg, err := config.Load(configRoot)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	b := bridge.New()
	store := persist.New(persist.DefaultPath(configRoot))
	if _, err := store.Load(b); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	prop := propagate.New(b.Graph(), cfg.Propagate)
	e := &Engine{
		root:       projectRoot,
		configRoot: configRoot,
		cfg:        cfg,
		bridge:     b,
		store:      store,
		propagator: prop,
		registry:   extract.NewRegistry(),
	}
	b.SetPropagator(prop, e.reprocess)
	e.query = query.New(b)
	return e, nil
}

// reprocess re-reads filePath from disk and feeds it back through
// ProcessChange; it's the updateFn bounded propagation calls for files it
// decides to synchronously re-touch.
func (e *Engine) reprocess(filePath string) {
	content, err := os.ReadFile(filepath.Join(e.root, filePath))
	if err != nil {
		return
	}
	e.bridge.ProcessChange(filePath, bridge.Edit, string(content))
}

// Scan performs the cold-start project scan: discover candidate files,
// read them concurrently (bounded by GOMAXPROCS), then extract and apply each
// as a Create change one at a time under the engine's lock, in deterministic path
// order, since ProcessChange itself is not safe for concurrent mutation.
// Bounded by the config's file-count ceiling and wall-clock ceiling; ctx
// cancellation (including the deadline this imposes) stops the scan
// early without losing files already applied.
func (e *Engine) Scan(ctx context.Context, languages []string) (ScanReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ScanReport{}, errShutdown
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ColdStart.MaxTime)
	defer cancel()

	entries, err := discover.Files(e.root, e.registry, languages)
	if err != nil {
		return ScanReport{}, fmt.Errorf("discover files: %w", err)
	}

	report := ScanReport{FilesConsidered: len(entries)}
	if len(entries) > e.cfg.ColdStart.MaxFiles {
		entries = entries[:e.cfg.ColdStart.MaxFiles]
		report.Truncated = true
	}

	type read struct {
		path    string
		content string
		ok      bool
	}
	reads := make([]read, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ent := range entries {
		i, ent := i, ent
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			abs := filepath.Join(e.root, ent.Path)
			info, err := os.Stat(abs)
			if err != nil || info.Size() > maxReadSize {
				return nil
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				return nil
			}
			reads[i] = read{path: ent.Path, content: string(data), ok: true}
			return nil
		})
	}
	// errgroup.Group never returns an error here since every worker
	// swallows its own failure as a skip; Wait only surfaces ctx
	// cancellation bookkeeping.
	_ = g.Wait()

	for _, r := range reads {
		if ctx.Err() != nil {
			break
		}
		if !r.ok {
			report.FilesSkipped++
			continue
		}
		e.bridge.ProcessChange(r.path, bridge.Create, r.content)
		report.FilesProcessed++
	}

	report.Duration = time.Since(start)
	return report, nil
}

// ProcessChange feeds one file change through the bridge. newContent is
// ignored for a delete.
func (e *Engine) ProcessChange(filePath string, kind bridge.ChangeKind, newContent string) (bridge.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return bridge.Result{}, errShutdown
	}
	return e.bridge.ProcessChange(filePath, kind, newContent), nil
}

// NodeCount reports the current graph's node count, for a host deciding
// whether a project has been scanned yet.
func (e *Engine) NodeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bridge.Graph().NodeCount()
}

// Query dispatches one query command to the query engine, the file/entity
// lookups the query engine has no direct method for, or the summary-derived
// stats view.
func (e *Engine) Query(command string, args []string) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, errShutdown
	}

	switch command {
	case "callers":
		return e.argQuery(args, 1, func(a []string) interface{} { return e.query.Callers(a[0]) })
	case "callees":
		return e.argQuery(args, 1, func(a []string) interface{} { return e.query.Callees(a[0]) })
	case "deps":
		return e.argQuery(args, 1, func(a []string) interface{} { return e.query.Deps(a[0]) })
	case "rdeps":
		return e.argQuery(args, 1, func(a []string) interface{} { return e.query.RDeps(a[0]) })
	case "exports":
		return e.argQuery(args, 1, func(a []string) interface{} { return e.query.Exports(a[0]) })
	case "impact":
		if len(args) < 1 {
			return nil, fmt.Errorf("impact requires a file argument")
		}
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		return e.query.Impact(args[0], name), nil
	case "path":
		return e.argQuery(args, 2, func(a []string) interface{} { return e.query.Path(a[0], a[1]) })
	case "search":
		if len(args) != 1 {
			return nil, fmt.Errorf("search requires a pattern argument")
		}
		return e.query.Search(args[0])
	case "dead":
		return e.query.Dead(), nil
	case "cycles":
		return e.query.Cycles(), nil
	case "summary":
		return e.query.Summary(10), nil
	case "stats":
		s := e.query.Summary(0)
		return struct {
			NodeCount   int
			EdgeCount   int
			EntryPoints []string
			Cycles      [][]string
		}{s.NodeCount, s.EdgeCount, s.EntryPoints, s.Cycles}, nil
	case "file":
		return e.argQuery(args, 1, func(a []string) interface{} { return e.bridge.Graph().NodesByFile(a[0]) })
	case "entity":
		if len(args) != 1 {
			return nil, fmt.Errorf("entity requires a file::name id argument")
		}
		n, ok := e.bridge.Graph().Node(args[0])
		if !ok {
			return nil, fmt.Errorf("no such entity: %s", args[0])
		}
		return n, nil
	case "visualize":
		return nil, fmt.Errorf("visualize: out of scope, no report-formatting component")
	default:
		return nil, fmt.Errorf("unknown query command: %s", command)
	}
}

func (e *Engine) argQuery(args []string, want int, f func([]string) interface{}) (interface{}, error) {
	if len(args) != want {
		return nil, fmt.Errorf("expected %d argument(s), got %d", want, len(args))
	}
	return f(args), nil
}

// Flush writes a snapshot of the current graph without closing the
// engine. A CLI front end invokes this after a one-shot scan or process
// call, since each invocation is a fresh process with no later Shutdown
// call to rely on for durability.
func (e *Engine) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return errShutdown
	}
	return e.store.Save(e.bridge, time.Now().Unix())
}

// Shutdown flushes a final snapshot and refuses every subsequent call. An
// in-flight call already past the mutex completes normally before this
// runs.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.store.Save(e.bridge, time.Now().Unix())
}

var errShutdown = fmt.Errorf("engine: shut down, refusing further calls")
