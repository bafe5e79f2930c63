package graphstore

import (
	"strings"

	"github.com/codegraph/liquidmap/internal/entity"
)

// DeadCodeOptions configures FindDeadCode. The zero value skips no entry
// points and excludes neither tests nor framework patterns;
// DefaultDeadCodeOptions below returns the standard set.
type DeadCodeOptions struct {
	EntryNames     map[string]struct{}
	EntryTypes     map[string]struct{}
	ExcludeTests   bool
	ExcludeFramework bool
}

// DefaultDeadCodeOptions is the standard exclusion set used when a caller
// doesn't need to tune it.
func DefaultDeadCodeOptions() DeadCodeOptions {
	return DeadCodeOptions{
		EntryNames:       map[string]struct{}{"main": {}, "__main__": {}, "__module__": {}},
		EntryTypes:       map[string]struct{}{"import": {}, "module_code": {}, "variable": {}},
		ExcludeTests:     true,
		ExcludeFramework: true,
	}
}

// FindDeadCode returns nodes with zero incoming edges that are not entry
// points, dunder methods, @property accessors, polymorphic overrides, or
// nested inside a still-live method.
func (g *Graph) FindDeadCode(opts DeadCodeOptions) []*entity.Node {
	var dead []*entity.Node
	for _, n := range g.AllNodes() {
		if _, ok := opts.EntryNames[n.Name]; ok {
			continue
		}
		if _, ok := opts.EntryTypes[string(n.EntityType)]; ok {
			continue
		}

		bare := n.Name
		if idx := strings.LastIndex(bare, "."); idx >= 0 {
			bare = bare[idx+1:]
		}
		if strings.HasPrefix(bare, "__") && strings.HasSuffix(bare, "__") {
			continue
		}
		if opts.ExcludeTests && IsTestFile(n.FilePath) {
			continue
		}
		if opts.ExcludeFramework && hasFrameworkPrefix(bare) {
			continue
		}
		if hasDecorator(n.Decorators, "property") {
			continue
		}

		if len(g.IncomingEdges(n.ID)) > 0 {
			continue
		}
		if strings.Contains(n.Name, ".") && g.isPolymorphicOverride(n) {
			continue
		}
		if g.isNestedInOverride(n) {
			continue
		}
		dead = append(dead, n)
	}
	return dead
}

func hasFrameworkPrefix(name string) bool {
	for _, p := range frameworkDeadCodePatterns {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func hasDecorator(decorators []string, name string) bool {
	for _, d := range decorators {
		if d == name {
			return true
		}
	}
	return false
}

// isPolymorphicOverride reports whether n (a "Class.method" node) overrides
// a parent class method that is itself called polymorphically, or declared
// abstract. Walks up to 5 levels of "inherits" edges.
func (g *Graph) isPolymorphicOverride(n *entity.Node) bool {
	parts := strings.SplitN(n.Name, ".", 2)
	if len(parts) != 2 {
		return false
	}
	className, methodName := parts[0], parts[1]
	// Handle nested class qualifiers: the method name is the last segment.
	if idx := strings.LastIndex(n.Name, "."); idx >= 0 {
		className, methodName = n.Name[:idx], n.Name[idx+1:]
	}

	var classNode *entity.Node
	for _, candidate := range g.NodesByName(className) {
		if candidate.EntityType != "class" {
			continue
		}
		if candidate.FilePath == n.FilePath {
			classNode = candidate
			break
		}
		if classNode == nil {
			classNode = candidate
		}
	}
	if classNode == nil {
		return false
	}

	visited := map[string]struct{}{classNode.ID: {}}
	type item struct {
		id    string
		depth int
	}
	queue := []item{{classNode.ID, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= 5 {
			continue
		}
		for _, e := range g.OutgoingEdges(cur.id) {
			if string(e.Kind) != "inherits" {
				continue
			}
			parentID := e.TargetID
			if _, seen := visited[parentID]; seen {
				continue
			}
			visited[parentID] = struct{}{}

			parentNode, ok := g.Node(parentID)
			if !ok {
				continue
			}

			parentMethodName := parentNode.Name + "." + methodName
			for _, pm := range g.NodesByName(parentMethodName) {
				if hasDecorator(pm.Decorators, "abstractmethod") {
					return true
				}
				if len(g.IncomingEdges(pm.ID)) > 0 {
					return true
				}
			}

			queue = append(queue, item{parentID, cur.depth + 1})
		}
	}
	return false
}

// isNestedInOverride reports whether n is a nested function inside a method
// (2+ dots in its qualified name) whose parent method is itself alive.
func (g *Graph) isNestedInOverride(n *entity.Node) bool {
	if strings.Count(n.Name, ".") < 2 {
		return false
	}
	idx := strings.LastIndex(n.Name, ".")
	parentName := n.Name[:idx]

	for _, parent := range g.NodesByName(parentName) {
		if len(g.IncomingEdges(parent.ID)) > 0 {
			return true
		}
		if strings.Contains(parent.Name, ".") && g.isPolymorphicOverride(parent) {
			return true
		}
	}
	return false
}
