// Package query answers read-only questions about a code graph: callers,
// callees, file-level dependencies and their reverse, blast-radius impact,
// shortest path, dead code, import cycles, name search, a file's exports,
// and a whole-graph summary. Every method is a pure read; none mutates the
// graph.
package query

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/golang-lru/v2"

	"github.com/codegraph/liquidmap/internal/bridge"
	"github.com/codegraph/liquidmap/internal/entity"
	"github.com/codegraph/liquidmap/internal/graphstore"
)

// regexCacheSize bounds Engine's compiled-pattern cache; Search is typically
// driven by a small, repeated set of host-supplied patterns.
const regexCacheSize = 256

// allEdgeKinds is every edge kind callers/callees/path traverse.
var allEdgeKinds = []entity.EdgeKind{
	entity.Calls, entity.Imports, entity.Inherits, entity.UsesType, entity.DecoratedBy,
}

// entryPointPattern matches conventional entry-point function names.
var entryPointPattern = regexp.MustCompile(`^(main|run|start|handler|init)$`)

// EdgeRef is one resolved caller/callee: the node on the other end of the
// edge plus the edge's kind and confidence.
type EdgeRef struct {
	NodeID     string
	Kind       entity.EdgeKind
	Confidence entity.Confidence
}

// Engine answers queries against a Bridge's graph.
type Engine struct {
	bridge     *bridge.Bridge
	regexCache *lru.Cache[string, *regexp.Regexp]
}

// New builds an Engine over b.
func New(b *bridge.Bridge) *Engine {
	cache, err := lru.New[string, *regexp.Regexp](regexCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which never happens here.
		panic(err)
	}
	return &Engine{bridge: b, regexCache: cache}
}

func (e *Engine) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := e.regexCache.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	e.regexCache.Add(pattern, re)
	return re, nil
}

func (e *Engine) graph() *graphstore.Graph { return e.bridge.Graph() }

// Callers resolves name against the graph's progressive lookup ladder
// (exact id, bare/qualified name, dotted-suffix, regex fallback) and
// returns, for each matched node, every incoming calls/imports/inherits/
// uses_type/decorated_by edge. The suffix tier is what makes "bar" find a
// method recorded as "Foo.bar" without the caller spelling out the class.
func (e *Engine) Callers(name string) []EdgeRef {
	var out []EdgeRef
	for _, n := range e.graph().Lookup(name) {
		for _, edge := range e.graph().IncomingEdges(n.ID) {
			out = append(out, EdgeRef{NodeID: edge.SourceID, Kind: edge.Kind, Confidence: edge.Confidence})
		}
	}
	sortEdgeRefs(out)
	return out
}

// Callees is Callers' symmetric counterpart over outgoing edges.
func (e *Engine) Callees(name string) []EdgeRef {
	var out []EdgeRef
	for _, n := range e.graph().Lookup(name) {
		for _, edge := range e.graph().OutgoingEdges(n.ID) {
			out = append(out, EdgeRef{NodeID: edge.TargetID, Kind: edge.Kind, Confidence: edge.Confidence})
		}
	}
	sortEdgeRefs(out)
	return out
}

func sortEdgeRefs(refs []EdgeRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].NodeID != refs[j].NodeID {
			return refs[i].NodeID < refs[j].NodeID
		}
		return refs[i].Kind < refs[j].Kind
	})
}

// Deps returns the distinct files targeted by outgoing edges from nodes
// declared in file.
func (e *Engine) Deps(file string) []string {
	seen := make(map[string]struct{})
	for _, n := range e.graph().NodesByFile(file) {
		for _, edge := range e.graph().OutgoingEdges(n.ID) {
			if entity.IsUnresolved(edge.TargetID) {
				continue
			}
			target, ok := e.graph().Node(edge.TargetID)
			if !ok || target.FilePath == file {
				continue
			}
			seen[target.FilePath] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// RDeps is Deps' symmetric counterpart: files whose nodes hold an incoming
// edge into file.
func (e *Engine) RDeps(file string) []string {
	seen := make(map[string]struct{})
	for _, n := range e.graph().NodesByFile(file) {
		for _, edge := range e.graph().IncomingEdges(n.ID) {
			source, ok := e.graph().Node(edge.SourceID)
			if !ok || source.FilePath == file {
				continue
			}
			seen[source.FilePath] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Impact runs a depth-5 BFS over file-level reverse dependencies starting
// at file, returning every file reached. If name is non-empty, a reached
// file is kept only if it holds an incoming edge whose target node has that
// bare name.
func (e *Engine) Impact(file, name string) []string {
	const maxDepth = 5
	visited := map[string]struct{}{file: {}}
	queue := []string{file}
	var reached []string

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var next []string
		for _, f := range queue {
			for _, dep := range e.RDeps(f) {
				if _, seen := visited[dep]; seen {
					continue
				}
				visited[dep] = struct{}{}
				if name == "" || e.fileHasIncomingTargetNamed(dep, name) {
					reached = append(reached, dep)
				}
				next = append(next, dep)
			}
		}
		queue = next
	}

	sort.Strings(reached)
	return reached
}

func (e *Engine) fileHasIncomingTargetNamed(file, name string) bool {
	for _, n := range e.graph().NodesByFile(file) {
		if n.Name != name {
			continue
		}
		if len(e.graph().IncomingEdges(n.ID)) > 0 {
			return true
		}
	}
	return false
}

// Path returns the shortest node-id path from src to dst over every edge
// kind, or nil if none exists.
func (e *Engine) Path(src, dst string) []string {
	// No shortest path is longer than the graph's node count.
	return e.graph().FindPath(src, dst, allEdgeKinds, e.graph().NodeCount())
}

// Dead returns function/class nodes with no incoming edges, excluding
// entry points, dunders, framework hooks, test files, and polymorphic
// overrides. A file's recorded exports already fall back to its full
// top-level name list absent an explicit __all__, so that set cannot also
// serve as a dead-code exclusion without suppressing every top-level
// definition; FindDeadCode's own heuristics carry that exclusion instead.
func (e *Engine) Dead() []*entity.Node {
	var out []*entity.Node
	for _, n := range e.graph().FindDeadCode(graphstore.DefaultDeadCodeOptions()) {
		if entryPointPattern.MatchString(n.Name) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Cycles returns file-level strongly connected components with more than
// one file, or any self-loop, excluding test files.
func (e *Engine) Cycles() [][]string {
	return e.graph().FindCycles(true)
}

// Search scans nodes_by_name for pattern, anchoring the match at word
// boundaries when the pattern itself carries no explicit anchor (^, $, or a
// word-boundary \b).
func (e *Engine) Search(pattern string) ([]*entity.Node, error) {
	effective := pattern
	if !hasExplicitAnchor(pattern) {
		effective = `\b(?:` + pattern + `)\b`
	}
	re, err := e.compile(effective)
	if err != nil {
		return nil, err
	}
	var out []*entity.Node
	for _, n := range e.graph().Query(graphstore.Filter{}) {
		if re.MatchString(n.Name) {
			out = append(out, n)
		}
	}
	return out, nil
}

func hasExplicitAnchor(pattern string) bool {
	return strings.Contains(pattern, "^") || strings.Contains(pattern, "$") || strings.Contains(pattern, `\b`)
}

// Exports returns the exported-symbol set recorded for file.
func (e *Engine) Exports(file string) []string {
	return e.bridge.ModuleExports(file)
}

// Degree pairs a file with an in- or out-degree count, for Summary's top-K
// lists.
type Degree struct {
	FilePath string
	Count    int
}

// Summary is the aggregate report produced by the summary query.
type Summary struct {
	NodeCount    int
	EdgeCount    int
	TopInDegree  []Degree
	TopOutDegree []Degree
	EntryPoints  []string
	Cycles       [][]string
}

// Summary reports whole-graph counts, the topK files by in-degree and
// out-degree (file-level, summed across their nodes' edges), entry-point
// candidates, and detected cycles.
func (e *Engine) Summary(topK int) Summary {
	inDegree := make(map[string]int)
	outDegree := make(map[string]int)
	var entryPoints []string

	for _, n := range e.graph().AllNodes() {
		inDegree[n.FilePath] += len(e.graph().IncomingEdges(n.ID))
		outDegree[n.FilePath] += len(e.graph().OutgoingEdges(n.ID))
		if entryPointPattern.MatchString(n.Name) || isMainModuleFile(n.FilePath) {
			entryPoints = append(entryPoints, n.ID)
		}
	}
	sort.Strings(entryPoints)

	return Summary{
		NodeCount:    e.graph().NodeCount(),
		EdgeCount:    e.graph().EdgeCount(),
		TopInDegree:  topDegrees(inDegree, topK),
		TopOutDegree: topDegrees(outDegree, topK),
		EntryPoints:  entryPoints,
		Cycles:       e.Cycles(),
	}
}

func isMainModuleFile(filePath string) bool {
	base := filePath
	if idx := strings.LastIndexAny(filePath, "/\\"); idx >= 0 {
		base = filePath[idx+1:]
	}
	switch base {
	case "__main__.py", "main.go", "main.rs", "Main.java", "index.ts", "index.js":
		return true
	}
	return false
}

func topDegrees(m map[string]int, topK int) []Degree {
	out := make([]Degree, 0, len(m))
	for f, c := range m {
		out = append(out, Degree{FilePath: f, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].FilePath < out[j].FilePath
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
