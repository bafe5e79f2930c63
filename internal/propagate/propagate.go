// Package propagate implements priority-ordered, bounded change
// propagation: once a file changes, a depth-limited BFS over cross-file
// edges finds files likely affected, a priority score orders them, and a
// sync/async/deferred split keeps any one change from blocking on an
// unbounded ripple across the project.
package propagate

import (
	"container/heap"
	"sort"
	"strings"
	"time"

	"github.com/codegraph/liquidmap/internal/graphstore"
)

// Config tunes propagation bounds and the priority formula's weights.
// MaxSyncUpdates and MaxAsyncUpdates together bound the total fan-out
// admitted per original edit (sync-processed plus async-queued); anything
// beyond that combined total is deferred rather than queued.
type Config struct {
	MaxSyncUpdates  int
	MaxAsyncUpdates int
	MaxDepth        int
	SyncTimeout     time.Duration
	OpenFileBoost   float64
	RecentEditBoost float64
	TestFilePenalty float64
	DepthPenalty    float64
}

// DefaultConfig caps total fan-out per original edit at 16 files (4
// synchronous, 12 queued async) two hops out from the change: a ripple that
// reaches further than a file's direct callers' callers, or touches more
// than a handful of files before yielding control, stops being "this edit's
// blast radius" and starts being a full rescan.
func DefaultConfig() Config {
	return Config{
		MaxSyncUpdates:  4,
		MaxAsyncUpdates: 12,
		MaxDepth:        2,
		SyncTimeout:     50 * time.Millisecond,
		OpenFileBoost:   100,
		RecentEditBoost: 50,
		TestFilePenalty: 30,
		DepthPenalty:    20,
	}
}

// recentEditWindow is how long a file counts as "recently edited" for the
// priority boost.
const recentEditWindow = 5 * time.Minute

// Affected pairs a file with its BFS depth from the changed file.
type Affected struct {
	FilePath string
	Depth    int
}

// Result is what one Propagate call produces.
type Result struct {
	SyncProcessed []string
	AsyncQueued   []string
	Deferred      []string
	TotalAffected int
	SyncTime      time.Duration
}

type pendingItem struct {
	priority   float64
	filePath   string
	depth      int
	sourceFile string
}

type pendingQueue []pendingItem

func (q pendingQueue) Len() int            { return len(q) }
func (q pendingQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q pendingQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pendingQueue) Push(x interface{}) { *q = append(*q, x.(pendingItem)) }
func (q *pendingQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Propagator holds the mutable state (open files, recent edits, and the
// pending async queue) that shapes propagation priority across calls.
type Propagator struct {
	graph       *graphstore.Graph
	config      Config
	asyncQueue  pendingQueue
	openFiles   map[string]struct{}
	recentEdits map[string]time.Time
}

// New builds a Propagator over graph using config.
func New(graph *graphstore.Graph, config Config) *Propagator {
	return &Propagator{
		graph:       graph,
		config:      config,
		openFiles:   make(map[string]struct{}),
		recentEdits: make(map[string]time.Time),
	}
}

// SetOpenFiles replaces the set of files currently open in the host editor.
func (p *Propagator) SetOpenFiles(files []string) {
	p.openFiles = make(map[string]struct{}, len(files))
	for _, f := range files {
		p.openFiles[f] = struct{}{}
	}
}

// RecordEdit marks filePath as edited now, for the recent-edit priority boost.
func (p *Propagator) RecordEdit(filePath string) {
	p.recentEdits[filePath] = time.Now()
}

// ComputePriority scores filePath at the given BFS depth; lower is higher
// priority.
func (p *Propagator) ComputePriority(filePath string, depth int) float64 {
	priority := float64(depth) * p.config.DepthPenalty

	if _, open := p.openFiles[filePath]; open {
		priority -= p.config.OpenFileBoost
	}

	if editTime, ok := p.recentEdits[filePath]; ok && time.Since(editTime) < recentEditWindow {
		priority -= p.config.RecentEditBoost
	}

	lower := strings.ToLower(filePath)
	if strings.Contains(lower, "test") {
		priority += p.config.TestFilePenalty
	}
	if strings.Contains(lower, "generated") || strings.Contains(lower, "build") {
		priority += 50
	}

	return priority
}

// FindAffectedFiles runs a depth-limited BFS over incoming calls/imports/
// inherits/uses_type/decorated_by edges starting from changedFile's nodes,
// returning each reached file with its BFS depth.
func (p *Propagator) FindAffectedFiles(changedFile string) []Affected {
	var affected []Affected
	visited := map[string]struct{}{changedFile: {}}
	type item struct {
		file  string
		depth int
	}
	queue := []item{{changedFile, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= p.config.MaxDepth {
			continue
		}
		for _, n := range p.graph.NodesByFile(cur.file) {
			for _, edge := range p.graph.IncomingEdges(n.ID) {
				source, ok := p.graph.Node(edge.SourceID)
				if !ok {
					continue
				}
				if _, seen := visited[source.FilePath]; seen {
					continue
				}
				visited[source.FilePath] = struct{}{}
				affected = append(affected, Affected{FilePath: source.FilePath, Depth: cur.depth + 1})
				queue = append(queue, item{source.FilePath, cur.depth + 1})
			}
		}
	}

	return affected
}

// Propagate finds files affected by a change to changedFile, orders them by
// priority, synchronously runs updateFn over the highest-priority batch
// (bounded by MaxSyncUpdates and SyncTimeout), queues the next batch for
// async processing, and reports the remainder as deferred.
func (p *Propagator) Propagate(changedFile string, updateFn func(string)) Result {
	var result Result

	affected := p.FindAffectedFiles(changedFile)
	result.TotalAffected = len(affected)
	if len(affected) == 0 {
		return result
	}

	prioritized := make([]pendingItem, len(affected))
	for i, a := range affected {
		prioritized[i] = pendingItem{
			priority:   p.ComputePriority(a.FilePath, a.Depth),
			filePath:   a.FilePath,
			depth:      a.Depth,
			sourceFile: changedFile,
		}
	}
	sort.SliceStable(prioritized, func(i, j int) bool { return prioritized[i].priority < prioritized[j].priority })

	syncStart := time.Now()
	syncCount := 0
	for _, item := range prioritized {
		if syncCount >= p.config.MaxSyncUpdates {
			break
		}
		if time.Since(syncStart) >= p.config.SyncTimeout {
			break
		}
		if updateFn != nil {
			updateFn(item.filePath)
		}
		result.SyncProcessed = append(result.SyncProcessed, item.filePath)
		syncCount++
	}
	result.SyncTime = time.Since(syncStart)

	remaining := prioritized[syncCount:]
	asyncCount := p.config.MaxAsyncUpdates
	if asyncCount > len(remaining) {
		asyncCount = len(remaining)
	}
	for _, item := range remaining[:asyncCount] {
		heap.Push(&p.asyncQueue, item)
		result.AsyncQueued = append(result.AsyncQueued, item.filePath)
	}

	for _, item := range remaining[asyncCount:] {
		result.Deferred = append(result.Deferred, item.filePath)
	}

	return result
}

// ProcessAsyncQueue pops up to maxItems files from the async queue in
// priority order, running updateFn on each.
func (p *Propagator) ProcessAsyncQueue(maxItems int, updateFn func(string)) []string {
	var processed []string
	for i := 0; i < maxItems && p.asyncQueue.Len() > 0; i++ {
		item := heap.Pop(&p.asyncQueue).(pendingItem)
		if updateFn != nil {
			updateFn(item.filePath)
		}
		processed = append(processed, item.filePath)
	}
	return processed
}

// AsyncQueueSize reports how many files are still queued for async
// processing.
func (p *Propagator) AsyncQueueSize() int { return p.asyncQueue.Len() }

// ClearAsyncQueue discards every queued async item.
func (p *Propagator) ClearAsyncQueue() { p.asyncQueue = nil }
