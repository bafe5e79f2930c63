package graphstore

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"

	"github.com/codegraph/liquidmap/internal/entity"
)

// Filter intersects the file/type/name indexes with AND logic; a zero-value
// field is not applied. An empty Filter returns every node.
type Filter struct {
	FilePath   string
	EntityType entity.Type
	Name       string
}

// Query returns nodes matching every non-empty field of f.
func (g *Graph) Query(f Filter) []*entity.Node {
	var result map[string]struct{}
	intersect := func(ids map[string]struct{}) {
		if result == nil {
			result = make(map[string]struct{}, len(ids))
			for id := range ids {
				result[id] = struct{}{}
			}
			return
		}
		for id := range result {
			if _, ok := ids[id]; !ok {
				delete(result, id)
			}
		}
	}

	applied := false
	if f.FilePath != "" {
		intersect(g.nodesByFile[f.FilePath])
		applied = true
	}
	if f.EntityType != "" {
		intersect(g.nodesByType[f.EntityType])
		applied = true
	}
	if f.Name != "" {
		intersect(g.nodesByName[f.Name])
		applied = true
	}

	if !applied {
		return g.AllNodes()
	}
	return g.collectSorted(result)
}

// Lookup resolves ref against the graph by trying progressively looser
// tiers, stopping at the first that matches: an exact node id, then an
// exact bare or qualified name (via NodesByName), then a dotted-suffix
// match (so a bare method name like "bar" reaches a qualified "Foo.bar"),
// then finally ref treated as a regex against every node name. Mirrors the
// suffix-then-regex ladder internal/resolve uses for edge-target
// resolution, exposed here for by-name query lookups.
func (g *Graph) Lookup(ref string) []*entity.Node {
	if n, ok := g.Node(ref); ok {
		return []*entity.Node{n}
	}
	if byName := g.NodesByName(ref); len(byName) > 0 {
		return byName
	}

	suffix := "." + ref
	var suffixMatches []*entity.Node
	for _, n := range g.AllNodes() {
		if strings.HasSuffix(n.Name, suffix) {
			suffixMatches = append(suffixMatches, n)
		}
	}
	if len(suffixMatches) > 0 {
		return suffixMatches
	}

	re, err := regexp.Compile(ref)
	if err != nil {
		return nil
	}
	var regexMatches []*entity.Node
	for _, n := range g.AllNodes() {
		if re.MatchString(n.Name) {
			regexMatches = append(regexMatches, n)
		}
	}
	return regexMatches
}

// QueryRegex applies Query's filters then keeps only nodes whose name
// matches pattern.
func (g *Graph) QueryRegex(pattern string, f Filter) ([]*entity.Node, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	candidates := g.Query(f)
	out := candidates[:0]
	for _, n := range candidates {
		if re.MatchString(n.Name) {
			out = append(out, n)
		}
	}
	return out, nil
}

// ComputeHash returns a deterministic SHA256 digest (first 16 hex chars) of
// every node and edge, for change detection across snapshots.
func (g *Graph) ComputeHash() string {
	nodeStrs := make([]string, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodeStrs = append(nodeStrs, n.ID+":"+string(n.EntityType)+":"+n.Name)
	}
	sort.Strings(nodeStrs)

	var edgeStrs []string
	for _, edges := range g.outgoingEdges {
		for _, e := range edges {
			edgeStrs = append(edgeStrs, e.SourceID+"->"+e.TargetID+":"+string(e.Kind))
		}
	}
	sort.Strings(edgeStrs)

	combined := strings.Join(append(nodeStrs, edgeStrs...), "|")
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])[:16]
}

// Snapshot deep-copies the graph into a fresh instance.
func (g *Graph) Snapshot() *Graph {
	out := New()
	for id, n := range g.nodes {
		cp := *n
		out.nodes[id] = &cp
	}
	for k, set := range g.nodesByFile {
		out.nodesByFile[k] = copySet(set)
	}
	for k, set := range g.nodesByType {
		out.nodesByType[k] = copySet(set)
	}
	for k, set := range g.nodesByName {
		out.nodesByName[k] = copySet(set)
	}
	for k, edges := range g.outgoingEdges {
		out.outgoingEdges[k] = append([]entity.Edge{}, edges...)
	}
	for k, edges := range g.incomingEdges {
		out.incomingEdges[k] = append([]entity.Edge{}, edges...)
	}
	return out
}

func copySet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}
