// Package graphstore holds the in-memory code graph: nodes, directed edges,
// and the secondary indexes needed to query and patch both in sub-linear
// time.
package graphstore

import (
	"container/list"
	"sort"
	"strings"

	"github.com/codegraph/liquidmap/internal/entity"
)

// frameworkDeadCodePatterns are bare-name prefixes that frameworks call
// implicitly (test runners, visitor dispatch, unittest lifecycle hooks),
// excluded from dead-code reporting even with zero incoming edges.
var frameworkDeadCodePatterns = []string{"test_", "visit_", "setUp", "tearDown"}

// testPathMarkers are directory components that mark a file as test-only.
var testPathMarkers = map[string]struct{}{
	"tests": {}, "test": {}, "testing": {}, "__tests__": {}, "spec": {},
}

var testFileSuffixes = []string{
	"_test.py", ".test.ts", ".spec.ts", ".test.tsx", ".spec.tsx",
	".test.js", ".spec.js", ".test.jsx", ".spec.jsx", ".test.mjs", ".spec.mjs",
	"_test.rs", "Test.java", "Tests.java",
	"_test.cpp", "_test.cc", "_test.cxx", "_test.c", "_test.hpp", "_test.h",
}

// IsTestFile reports whether path looks like a test file under any of the
// supported languages' conventions, or sits under a conventional test
// directory.
func IsTestFile(path string) bool {
	base := path
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		base = path[idx+1:]
	}
	if strings.HasPrefix(base, "test_") {
		return true
	}
	for _, suf := range testFileSuffixes {
		if strings.HasSuffix(base, suf) {
			return true
		}
	}
	norm := strings.ReplaceAll(path, "\\", "/")
	for _, part := range strings.Split(norm, "/") {
		if _, ok := testPathMarkers[part]; ok {
			return true
		}
	}
	return false
}

// Graph is an in-memory node/edge store with five indexes maintained on
// every add/remove: by id, by file, by type, by (scoped) name, plus outgoing and
// incoming adjacency lists.
type Graph struct {
	nodes         map[string]*entity.Node
	nodesByFile   map[string]map[string]struct{}
	nodesByType   map[entity.Type]map[string]struct{}
	nodesByName   map[string]map[string]struct{}
	outgoingEdges map[string][]entity.Edge
	incomingEdges map[string][]entity.Edge
}

// New builds an empty graph.
func New() *Graph {
	return &Graph{
		nodes:         make(map[string]*entity.Node),
		nodesByFile:   make(map[string]map[string]struct{}),
		nodesByType:   make(map[entity.Type]map[string]struct{}),
		nodesByName:   make(map[string]map[string]struct{}),
		outgoingEdges: make(map[string][]entity.Edge),
		incomingEdges: make(map[string][]entity.Edge),
	}
}

// AddNode inserts or replaces a node and updates every index.
func (g *Graph) AddNode(n entity.Node) {
	if existing, ok := g.nodes[n.ID]; ok {
		g.unindexNode(existing)
	}
	stored := n
	g.nodes[n.ID] = &stored
	indexSet(g.nodesByFile, n.FilePath, n.ID)
	indexSet(g.nodesByType, n.EntityType, n.ID)
	indexSet(g.nodesByName, n.Name, n.ID)
}

func indexSet[K comparable](idx map[K]map[string]struct{}, key K, id string) {
	set := idx[key]
	if set == nil {
		set = make(map[string]struct{})
		idx[key] = set
	}
	set[id] = struct{}{}
}

func (g *Graph) unindexNode(n *entity.Node) {
	deleteFromSet(g.nodesByFile, n.FilePath, n.ID)
	deleteFromSet(g.nodesByType, n.EntityType, n.ID)
	deleteFromSet(g.nodesByName, n.Name, n.ID)
}

func deleteFromSet[K comparable](idx map[K]map[string]struct{}, key K, id string) {
	set := idx[key]
	if set == nil {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(idx, key)
	}
}

// RemoveNode deletes a node and cascade-removes every edge touching it,
// returning the removed node (nil if it did not exist).
func (g *Graph) RemoveNode(id string) *entity.Node {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	delete(g.nodes, id)
	g.unindexNode(n)

	for _, e := range g.outgoingEdges[id] {
		g.incomingEdges[e.TargetID] = removeEdgeBySource(g.incomingEdges[e.TargetID], id)
		if len(g.incomingEdges[e.TargetID]) == 0 {
			delete(g.incomingEdges, e.TargetID)
		}
	}
	delete(g.outgoingEdges, id)

	for _, e := range g.incomingEdges[id] {
		g.outgoingEdges[e.SourceID] = removeEdgeByTarget(g.outgoingEdges[e.SourceID], id)
		if len(g.outgoingEdges[e.SourceID]) == 0 {
			delete(g.outgoingEdges, e.SourceID)
		}
	}
	delete(g.incomingEdges, id)

	return n
}

func removeEdgeBySource(edges []entity.Edge, sourceID string) []entity.Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.SourceID != sourceID {
			out = append(out, e)
		}
	}
	return out
}

func removeEdgeByTarget(edges []entity.Edge, targetID string) []entity.Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.TargetID != targetID {
			out = append(out, e)
		}
	}
	return out
}

// AddEdge appends a directed edge to both adjacency lists.
func (g *Graph) AddEdge(e entity.Edge) {
	g.outgoingEdges[e.SourceID] = append(g.outgoingEdges[e.SourceID], e)
	g.incomingEdges[e.TargetID] = append(g.incomingEdges[e.TargetID], e)
}

// RemoveEdge deletes the first edge matching (source, target, kind),
// returning it (nil if none matched).
func (g *Graph) RemoveEdge(sourceID, targetID string, kind entity.EdgeKind) *entity.Edge {
	var removed *entity.Edge
	outgoing := g.outgoingEdges[sourceID]
	for i, e := range outgoing {
		if e.TargetID == targetID && e.Kind == kind {
			removed = &e
			g.outgoingEdges[sourceID] = append(outgoing[:i], outgoing[i+1:]...)
			break
		}
	}
	if len(g.outgoingEdges[sourceID]) == 0 {
		delete(g.outgoingEdges, sourceID)
	}

	incoming := g.incomingEdges[targetID]
	for i, e := range incoming {
		if e.SourceID == sourceID && e.Kind == kind {
			g.incomingEdges[targetID] = append(incoming[:i], incoming[i+1:]...)
			break
		}
	}
	if len(g.incomingEdges[targetID]) == 0 {
		delete(g.incomingEdges, targetID)
	}

	return removed
}

// Node looks up a node by its exact id.
func (g *Graph) Node(id string) (*entity.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodesByFile returns all nodes declared in the given file, sorted by id for
// deterministic output.
func (g *Graph) NodesByFile(filePath string) []*entity.Node {
	return g.collectSorted(g.nodesByFile[filePath])
}

// NodesByName returns every node with the given bare or qualified name.
func (g *Graph) NodesByName(name string) []*entity.Node {
	return g.collectSorted(g.nodesByName[name])
}

func (g *Graph) collectSorted(ids map[string]struct{}) []*entity.Node {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*entity.Node, 0, len(ids))
	for id := range ids {
		if n, ok := g.nodes[id]; ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllNodes returns every node, sorted by id.
func (g *Graph) AllNodes() []*entity.Node {
	out := make([]*entity.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OutgoingEdges returns a copy of id's outgoing edge list.
func (g *Graph) OutgoingEdges(id string) []entity.Edge {
	edges := g.outgoingEdges[id]
	out := make([]entity.Edge, len(edges))
	copy(out, edges)
	return out
}

// IncomingEdges returns a copy of id's incoming edge list.
func (g *Graph) IncomingEdges(id string) []entity.Edge {
	edges := g.incomingEdges[id]
	out := make([]entity.Edge, len(edges))
	copy(out, edges)
	return out
}

// AllEdges returns every edge in the graph, sorted by (source, kind, target)
// for deterministic snapshot output.
func (g *Graph) AllEdges() []entity.Edge {
	out := make([]entity.Edge, 0, g.EdgeCount())
	for _, edges := range g.outgoingEdges {
		out = append(out, edges...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].TargetID < out[j].TargetID
	})
	return out
}

// NodeCount reports the current node count.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount reports the current edge count.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.outgoingEdges {
		n += len(edges)
	}
	return n
}

// Direction controls which adjacency list Traverse walks.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Both
)

// Hop is one (node, depth) pair produced by a traversal, excluding the start
// node.
type Hop struct {
	Node  *entity.Node
	Depth int
}

// Traverse runs a breadth-first walk from startID along the requested
// direction, optionally restricted to a set of edge kinds, down to maxDepth.
func (g *Graph) Traverse(startID string, kinds []entity.EdgeKind, dir Direction, maxDepth int) []Hop {
	visited := map[string]struct{}{startID: {}}
	var result []Hop

	type item struct {
		id    string
		depth int
	}
	queue := list.New()
	queue.PushBack(item{startID, 0})

	allowed := kindSet(kinds)

	for queue.Len() > 0 {
		front := queue.Remove(queue.Front()).(item)
		if front.depth >= maxDepth {
			continue
		}

		var edges []entity.Edge
		if dir == Outgoing || dir == Both {
			edges = append(edges, g.outgoingEdges[front.id]...)
		}
		if dir == Incoming || dir == Both {
			edges = append(edges, g.incomingEdges[front.id]...)
		}

		for _, e := range edges {
			if allowed != nil {
				if _, ok := allowed[e.Kind]; !ok {
					continue
				}
			}
			next := e.SourceID
			if e.SourceID == front.id {
				next = e.TargetID
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			if n, ok := g.nodes[next]; ok {
				result = append(result, Hop{Node: n, Depth: front.depth + 1})
				queue.PushBack(item{next, front.depth + 1})
			}
		}
	}

	return result
}

func kindSet(kinds []entity.EdgeKind) map[entity.EdgeKind]struct{} {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[entity.EdgeKind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}

// IsReachable reports whether targetID is reachable from sourceID via
// outgoing edges of the given kinds (all kinds if nil), within maxDepth.
func (g *Graph) IsReachable(sourceID, targetID string, kinds []entity.EdgeKind, maxDepth int) bool {
	if sourceID == targetID {
		return true
	}
	allowed := kindSet(kinds)
	visited := map[string]struct{}{sourceID: {}}

	type item struct {
		id    string
		depth int
	}
	queue := list.New()
	queue.PushBack(item{sourceID, 0})

	for queue.Len() > 0 {
		front := queue.Remove(queue.Front()).(item)
		if front.depth >= maxDepth {
			continue
		}
		for _, e := range g.outgoingEdges[front.id] {
			if allowed != nil {
				if _, ok := allowed[e.Kind]; !ok {
					continue
				}
			}
			if e.TargetID == targetID {
				return true
			}
			if _, seen := visited[e.TargetID]; !seen {
				visited[e.TargetID] = struct{}{}
				queue.PushBack(item{e.TargetID, front.depth + 1})
			}
		}
	}
	return false
}

// FindPath returns the shortest path of node ids from sourceID to targetID
// via outgoing edges, or nil if none exists within maxDepth.
func (g *Graph) FindPath(sourceID, targetID string, kinds []entity.EdgeKind, maxDepth int) []string {
	if sourceID == targetID {
		return []string{sourceID}
	}
	allowed := kindSet(kinds)
	visited := map[string]struct{}{sourceID: {}}
	parent := map[string]string{}

	type item struct {
		id    string
		depth int
	}
	queue := list.New()
	queue.PushBack(item{sourceID, 0})

	for queue.Len() > 0 {
		front := queue.Remove(queue.Front()).(item)
		if front.depth >= maxDepth {
			continue
		}
		for _, e := range g.outgoingEdges[front.id] {
			if allowed != nil {
				if _, ok := allowed[e.Kind]; !ok {
					continue
				}
			}
			if _, seen := visited[e.TargetID]; seen {
				continue
			}
			visited[e.TargetID] = struct{}{}
			parent[e.TargetID] = front.id
			if e.TargetID == targetID {
				path := []string{targetID}
				cur := targetID
				for {
					p, ok := parent[cur]
					if !ok {
						break
					}
					path = append(path, p)
					cur = p
				}
				reverse(path)
				return path
			}
			queue.PushBack(item{e.TargetID, front.depth + 1})
		}
	}
	return nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
