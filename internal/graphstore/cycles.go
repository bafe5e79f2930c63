package graphstore

import "sort"

const (
	white = 0
	gray  = 1
	black = 2
)

// FindCycles detects circular file-level dependencies by condensing the
// node graph to a file adjacency graph and running iterative DFS with
// WHITE/GRAY/BLACK coloring (recursion would blow the stack on large
// projects). Each returned cycle is a closed path of file paths
// (first == last).
func (g *Graph) FindCycles(excludeTests bool) [][]string {
	fileAdj := make(map[string]map[string]struct{})
	for _, edges := range g.outgoingEdges {
		for _, e := range edges {
			src, ok1 := g.nodes[e.SourceID]
			tgt, ok2 := g.nodes[e.TargetID]
			if !ok1 || !ok2 || src.FilePath == tgt.FilePath {
				continue
			}
			if excludeTests && (IsTestFile(src.FilePath) || IsTestFile(tgt.FilePath)) {
				continue
			}
			if fileAdj[src.FilePath] == nil {
				fileAdj[src.FilePath] = make(map[string]struct{})
			}
			fileAdj[src.FilePath][tgt.FilePath] = struct{}{}
		}
	}

	allFiles := make(map[string]struct{})
	for _, n := range g.nodes {
		if excludeTests && IsTestFile(n.FilePath) {
			continue
		}
		allFiles[n.FilePath] = struct{}{}
	}

	color := make(map[string]int)
	var path []string
	var cycles [][]string

	sortedFiles := make([]string, 0, len(allFiles))
	for f := range allFiles {
		sortedFiles = append(sortedFiles, f)
	}
	sort.Strings(sortedFiles)

	for _, start := range sortedFiles {
		if color[start] != white {
			continue
		}
		type frame struct {
			node      string
			neighbors []string
			idx       int
		}
		neighborsOf := func(f string) []string {
			m := fileAdj[f]
			out := make([]string, 0, len(m))
			for n := range m {
				out = append(out, n)
			}
			sort.Strings(out)
			return out
		}

		stack := []*frame{{node: start, neighbors: neighborsOf(start)}}
		color[start] = gray
		path = append(path, start)

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			advanced := false
			for top.idx < len(top.neighbors) {
				neighbor := top.neighbors[top.idx]
				top.idx++
				switch color[neighbor] {
				case gray:
					cycleStart := indexOfString(path, neighbor)
					cycle := append(append([]string{}, path[cycleStart:]...), neighbor)
					cycles = append(cycles, cycle)
				case white:
					color[neighbor] = gray
					path = append(path, neighbor)
					stack = append(stack, &frame{node: neighbor, neighbors: neighborsOf(neighbor)})
					advanced = true
				}
				if advanced {
					break
				}
			}
			if !advanced {
				path = path[:len(path)-1]
				color[top.node] = black
				stack = stack[:len(stack)-1]
			}
		}
	}

	return normalizeCycles(cycles)
}

func indexOfString(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// normalizeCycles dedupes cycles up to rotation and drops any cycle whose
// node set is a strict superset of another's.
func normalizeCycles(cycles [][]string) [][]string {
	type canon struct {
		key   string
		nodes []string
	}
	seen := make(map[string]struct{})
	var unique []canon

	for _, cycle := range cycles {
		core := cycle[:len(cycle)-1]
		if len(core) == 0 {
			continue
		}
		minIdx := 0
		for i, v := range core {
			if v < core[minIdx] {
				minIdx = i
			}
		}
		rotated := append(append([]string{}, core[minIdx:]...), core[:minIdx]...)
		key := joinKey(rotated)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, canon{key: key, nodes: rotated})
	}

	sets := make([]map[string]struct{}, len(unique))
	for i, c := range unique {
		set := make(map[string]struct{}, len(c.nodes))
		for _, n := range c.nodes {
			set[n] = struct{}{}
		}
		sets[i] = set
	}

	var minimal [][]string
	for i, c := range unique {
		superset := false
		for j, other := range sets {
			if i == j {
				continue
			}
			if isStrictSuperset(sets[i], other) {
				superset = true
				break
			}
		}
		if !superset {
			minimal = append(minimal, append(append([]string{}, c.nodes...), c.nodes[0]))
		}
	}
	return minimal
}

func isStrictSuperset(a, b map[string]struct{}) bool {
	if len(a) <= len(b) {
		return false
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			return false
		}
	}
	return true
}

func joinKey(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\x00"
		}
		out += p
	}
	return out
}
