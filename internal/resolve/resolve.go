// Package resolve turns a bare or qualified name referenced from one file
// into the graph node it most likely points at, using import context, path
// similarity, and a confidence ladder.
package resolve

import (
	"fmt"
	"strings"

	"github.com/hashicorp/golang-lru/v2"

	"github.com/codegraph/liquidmap/internal/entity"
	"github.com/codegraph/liquidmap/internal/graphstore"
)

// findTargetCacheSize bounds the cross-file bare-name lookup cache.
// FindTarget's tail scans are O(total nodes); this trades a bounded amount
// of memory for skipping that scan on repeat lookups of the same name from
// the same file within one generation.
const findTargetCacheSize = 2048

// builtins are names that never need resolving: language keywords, built-in
// functions, and standard exception types.
var builtins = map[string]struct{}{
	"self": {}, "cls": {}, "None": {}, "True": {}, "False": {},
	"print": {}, "len": {}, "range": {}, "str": {}, "int": {}, "float": {}, "bool": {}, "list": {}, "dict": {},
	"set": {}, "tuple": {}, "type": {}, "isinstance": {}, "issubclass": {}, "super": {}, "property": {},
	"staticmethod": {}, "classmethod": {}, "enumerate": {}, "zip": {}, "map": {}, "filter": {},
	"sorted": {}, "reversed": {}, "any": {}, "all": {}, "min": {}, "max": {}, "sum": {}, "abs": {},
	"open": {}, "input": {}, "repr": {}, "hash": {}, "id": {}, "dir": {}, "vars": {}, "getattr": {},
	"setattr": {}, "hasattr": {}, "delattr": {}, "callable": {}, "iter": {}, "next": {}, "hex": {},
	"oct": {}, "bin": {}, "ord": {}, "chr": {}, "format": {}, "round": {}, "pow": {}, "divmod": {},
	"object": {}, "Exception": {}, "ValueError": {}, "TypeError": {}, "KeyError": {},
	"IndexError": {}, "AttributeError": {}, "RuntimeError": {}, "StopIteration": {},
	"NotImplementedError": {}, "OSError": {}, "IOError": {}, "FileNotFoundError": {},
	"ImportError": {}, "NameError": {}, "ZeroDivisionError": {}, "AssertionError": {},
	"breakpoint": {}, "compile": {}, "eval": {}, "exec": {}, "globals": {}, "locals": {},
}

// commonAttrMethods are method names so generic (dict/list/string/io verbs)
// that matching them cross-file would be noise; callers filter these out
// before asking for resolution.
var commonAttrMethods = map[string]struct{}{
	"get": {}, "set": {}, "add": {}, "pop": {}, "push": {}, "put": {},
	"append": {}, "extend": {}, "insert": {}, "remove": {}, "clear": {}, "copy": {}, "update": {},
	"keys": {}, "values": {}, "items": {}, "setdefault": {},
	"format": {}, "strip": {}, "rstrip": {}, "lstrip": {}, "split": {}, "join": {},
	"replace": {}, "find": {}, "index": {}, "count": {}, "startswith": {}, "endswith": {},
	"encode": {}, "decode": {}, "lower": {}, "upper": {}, "title": {}, "capitalize": {},
	"read": {}, "write": {}, "close": {}, "flush": {}, "seek": {},
	"sort": {}, "reverse": {}, "send": {}, "throw": {},
}

// IsBuiltin reports whether name is a language builtin that should never be
// sent through resolution.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// IsCommonAttrMethod reports whether name is a generic attribute method
// (dict/list/string/io verbs) too common to usefully cross-file resolve.
func IsCommonAttrMethod(name string) bool {
	_, ok := commonAttrMethods[name]
	return ok
}

// pathSimilarity scores how similar two file paths are by shared leading
// directory components.
func pathSimilarity(a, b string) int {
	partsA := strings.Split(a, "/")
	partsB := strings.Split(b, "/")
	shared := 0
	for i := 0; i < len(partsA) && i < len(partsB); i++ {
		if partsA[i] != partsB[i] {
			break
		}
		shared++
	}
	return shared
}

// Resolver resolves unresolved edge targets against a graph plus the
// module/dependency indices built up as files are processed.
type Resolver struct {
	graph *graphstore.Graph

	// moduleFileIndex maps a dotted module-path suffix ("api.auth.service",
	// "auth.service", "service") to the file path that first registered it.
	// First file wins on ambiguous suffixes.
	moduleFileIndex map[string]string
	moduleCollisions map[string]struct{}

	// dependencyIndex maps a called name to the set of files whose entities
	// reference it, skipping builtins/common attr methods.
	dependencyIndex map[string]map[string]struct{}

	// findTargetCache memoizes FindTarget results, keyed with generation so
	// a cache built before the graph last changed is never served.
	findTargetCache *lru.Cache[string, Result]
	generation      int
}

// New builds a Resolver over g with empty module/dependency indices.
func New(g *graphstore.Graph) *Resolver {
	cache, err := lru.New[string, Result](findTargetCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which never happens here.
		panic(err)
	}
	return &Resolver{
		graph:            g,
		moduleFileIndex:  make(map[string]string),
		moduleCollisions: make(map[string]struct{}),
		dependencyIndex:  make(map[string]map[string]struct{}),
		findTargetCache:  cache,
	}
}

// Invalidate bumps the resolver's generation, discarding every cached
// FindTarget result. Callers invoke this once before mutating the graph a
// lookup could observe (a processed change, a hydrate, a removal) rather
// than tracking which specific entries went stale.
func (r *Resolver) Invalidate() {
	r.generation++
}

// supportedExtensions strips a recognized source extension before deriving a
// module path from a file path.
var supportedExtensions = []string{
	".py", ".pyi", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".rs", ".c", ".h",
	".cpp", ".cc", ".cxx", ".hpp", ".java",
}

// RegisterModulePath registers filePath under every dotted suffix of its
// module path ("api/auth/service.py" → "service", "auth.service",
// "api.auth.service"), first-file-wins on collision.
func (r *Resolver) RegisterModulePath(filePath string) {
	modulePath := strings.ReplaceAll(strings.ReplaceAll(filePath, "\\", "."), "/", ".")
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(modulePath, ext) {
			modulePath = modulePath[:len(modulePath)-len(ext)]
			break
		}
	}
	modulePath = strings.TrimLeft(modulePath, ".")
	if modulePath == "" {
		return
	}
	parts := strings.Split(modulePath, ".")
	for i := range parts {
		suffix := strings.Join(parts[i:], ".")
		if existing, ok := r.moduleFileIndex[suffix]; !ok {
			r.moduleFileIndex[suffix] = filePath
		} else if existing != filePath {
			r.moduleCollisions[suffix] = struct{}{}
		}
	}
}

// ModuleFile returns the file path registered for a dotted module path, or
// "" if none is registered.
func (r *Resolver) ModuleFile(module string) string {
	return r.moduleFileIndex[module]
}

// UnregisterModulePath removes every suffix entry pointing at filePath, used
// when a file is deleted.
func (r *Resolver) UnregisterModulePath(filePath string) {
	for suffix, f := range r.moduleFileIndex {
		if f == filePath {
			delete(r.moduleFileIndex, suffix)
			delete(r.moduleCollisions, suffix)
		}
	}
}

// RegisterDependencies records, for each name a node in filePath calls, that
// filePath depends on that name (skipping builtins/common attr methods).
func (r *Resolver) RegisterDependencies(filePath string, calls []string) {
	for _, name := range calls {
		if IsBuiltin(name) || IsCommonAttrMethod(name) {
			continue
		}
		set := r.dependencyIndex[name]
		if set == nil {
			set = make(map[string]struct{})
			r.dependencyIndex[name] = set
		}
		set[filePath] = struct{}{}
	}
}

// UnregisterFileDependencies drops filePath from every dependency index
// entry, used when a file is removed.
func (r *Resolver) UnregisterFileDependencies(filePath string) {
	for name, set := range r.dependencyIndex {
		delete(set, filePath)
		if len(set) == 0 {
			delete(r.dependencyIndex, name)
		}
	}
}

// DependentFiles returns the files known to depend on changedName, excluding
// the file the change originated in.
func (r *Resolver) DependentFiles(changedName, changedFile string) []string {
	var out []string
	for f := range r.dependencyIndex[changedName] {
		if f != changedFile {
			out = append(out, f)
		}
	}
	return out
}

// Result is what a resolution attempt produces: the target node (nil if
// unresolved) and the confidence that target was found with, returned
// explicitly rather than threaded through mutable resolver state.
type Result struct {
	Node       *entity.Node
	Confidence entity.Confidence
}

// followImportChain follows a chain of import nodes re-exporting a name
// until it finds an actual function/class/variable definition, capped at
// maxHops.
func (r *Resolver) followImportChain(importNode *entity.Node, maxHops int) *entity.Node {
	visited := map[string]struct{}{importNode.ID: {}}
	current := importNode
	for i := 0; i < maxHops; i++ {
		foundNext := false
		for _, e := range r.graph.OutgoingEdges(current.ID) {
			if e.Kind != entity.Imports {
				continue
			}
			target, ok := r.graph.Node(e.TargetID)
			if !ok {
				continue
			}
			switch target.EntityType {
			case entity.Function, entity.Class, entity.Variable:
				return target
			case entity.ImportType:
				if _, seen := visited[target.ID]; !seen {
					visited[target.ID] = struct{}{}
					current = target
					foundNext = true
				}
			}
			if foundNext {
				break
			}
		}
		if !foundNext {
			break
		}
	}
	return nil
}

// FindImportTarget finds the definition node an import of name (optionally
// scoped to a dotted module path) refers to: exact module-path match first,
// then cross-file-preferred name matching, then re-export chain following.
func (r *Resolver) FindImportTarget(name, currentFile, module string) *entity.Node {
	if module != "" {
		if targetFile, ok := r.moduleFileIndex[module]; ok {
			for _, n := range r.graph.NodesByName(name) {
				if n.FilePath == targetFile && isDefinitionType(n.EntityType) {
					return n
				}
			}
			for _, n := range r.graph.NodesByName(name) {
				if n.FilePath == targetFile && n.EntityType == entity.ImportType {
					if def := r.followImportChain(n, 5); def != nil {
						return def
					}
				}
			}
		}
	}

	var crossFile, sameFile *entity.Node
	for _, n := range r.graph.NodesByName(name) {
		if !isDefinitionType(n.EntityType) {
			continue
		}
		if n.FilePath != currentFile {
			if crossFile == nil {
				crossFile = n
			}
		} else {
			sameFile = n
		}
	}
	if crossFile != nil {
		return crossFile
	}
	if sameFile != nil {
		return sameFile
	}

	for _, n := range r.graph.NodesByName(name) {
		if n.EntityType == entity.ImportType && n.FilePath != currentFile {
			if def := r.followImportChain(n, 5); def != nil {
				return def
			}
		}
	}
	return nil
}

func isDefinitionType(t entity.Type) bool {
	return t == entity.Function || t == entity.Class || t == entity.Variable
}

// ImportedFilePaths returns the set of files filePath imports from, walking
// each import node's outgoing imports edge.
func (r *Resolver) ImportedFilePaths(filePath string) map[string]struct{} {
	result := make(map[string]struct{})
	for _, n := range r.graph.NodesByFile(filePath) {
		if n.EntityType != entity.ImportType {
			continue
		}
		for _, e := range r.graph.OutgoingEdges(n.ID) {
			if e.Kind != entity.Imports {
				continue
			}
			if target, ok := r.graph.Node(e.TargetID); ok {
				result[target.FilePath] = struct{}{}
			}
		}
	}
	return result
}

// ResolveReceiverToFile resolves an import receiver name ("auth_service" in
// `import auth_service`) to the file it was imported from, first via an
// existing import edge in currentFile, then via the module index directly.
func (r *Resolver) ResolveReceiverToFile(receiver, currentFile string) string {
	for _, n := range r.graph.NodesByFile(currentFile) {
		if n.EntityType != entity.ImportType || n.Name != receiver {
			continue
		}
		for _, e := range r.graph.OutgoingEdges(n.ID) {
			if e.Kind == entity.Imports {
				if target, ok := r.graph.Node(e.TargetID); ok {
					return target.FilePath
				}
			}
		}
		for _, imp := range n.Imports {
			if imp.Module != "" {
				if f, ok := r.moduleFileIndex[imp.Module]; ok {
					return f
				}
			}
		}
	}
	return r.moduleFileIndex[receiver]
}

// FindTarget resolves name, referenced from currentFile and expected to be
// expectedType, to a graph node. It tries, in order: qualified-name receiver
// resolution, exact/suffix matching scored by same-file/imported/
// path-similarity with a test-file penalty, inheritance-chain fallback,
// bare-name suffix-index fallback, and a final name-based fallback
// preferring non-test nodes.
func (r *Resolver) FindTarget(name, currentFile string, expectedType entity.Type) Result {
	if IsBuiltin(name) {
		return Result{}
	}

	cacheKey := fmt.Sprintf("%d|%s|%s|%s", r.generation, name, currentFile, expectedType)
	if cached, ok := r.findTargetCache.Get(cacheKey); ok {
		return cached
	}
	result := r.findTarget(name, currentFile, expectedType)
	r.findTargetCache.Add(cacheKey, result)
	return result
}

func (r *Resolver) findTarget(name, currentFile string, expectedType entity.Type) Result {
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		receiver, method := name[:idx], name[idx+1:]
		suffix := "." + method

		if receiver != "" && isUpper(receiver[0]) && !IsBuiltin(receiver) {
			for _, cnode := range r.graph.NodesByName(receiver) {
				if cnode.EntityType != entity.Class {
					continue
				}
				for _, n := range r.graph.NodesByFile(cnode.FilePath) {
					if n.EntityType == expectedType && (n.Name == name || n.Name == method || strings.HasSuffix(n.Name, suffix)) {
						return Result{Node: n, Confidence: entity.High}
					}
				}
			}
		}

		if !IsBuiltin(receiver) {
			if receiverFile := r.ResolveReceiverToFile(receiver, currentFile); receiverFile != "" {
				for _, n := range r.graph.NodesByFile(receiverFile) {
					if n.EntityType == expectedType && (n.Name == method || n.Name == name || strings.HasSuffix(n.Name, suffix)) {
						return Result{Node: n, Confidence: entity.High}
					}
				}
			}
		}
	}

	importedFiles := r.ImportedFilePaths(currentFile)
	callerIsTest := graphstore.IsTestFile(currentFile)

	var crossFileImported, crossFileAny, sameFile *entity.Node
	var suffixCrossImported, suffixCrossAny, suffixSameFile *entity.Node
	crossFileAnyScore, suffixCrossAnyScore := -1, -1

	suffix := "." + name

	for _, n := range r.graph.AllNodes() {
		if n.EntityType != expectedType {
			continue
		}
		testPenalty := !callerIsTest && graphstore.IsTestFile(n.FilePath)

		switch {
		case n.Name == name:
			if n.FilePath == currentFile {
				sameFile = n
			} else if _, ok := importedFiles[n.FilePath]; ok {
				crossFileImported = n
			} else {
				score := pathSimilarity(currentFile, n.FilePath)
				if testPenalty {
					score -= 1000
				}
				if score > crossFileAnyScore {
					crossFileAny = n
					crossFileAnyScore = score
				}
			}
		case strings.HasSuffix(n.Name, suffix):
			if n.FilePath == currentFile {
				suffixSameFile = n
			} else if _, ok := importedFiles[n.FilePath]; ok {
				suffixCrossImported = n
			} else {
				score := pathSimilarity(currentFile, n.FilePath)
				if testPenalty {
					score -= 1000
				}
				if score > suffixCrossAnyScore {
					suffixCrossAny = n
					suffixCrossAnyScore = score
				}
			}
		}
	}

	switch {
	case sameFile != nil:
		return Result{Node: sameFile, Confidence: entity.Medium}
	case crossFileImported != nil:
		return Result{Node: crossFileImported, Confidence: entity.High}
	case crossFileAny != nil:
		return Result{Node: crossFileAny, Confidence: entity.Medium}
	case suffixCrossImported != nil:
		return Result{Node: suffixCrossImported, Confidence: entity.Medium}
	case suffixCrossAny != nil:
		return Result{Node: suffixCrossAny, Confidence: entity.Low}
	case suffixSameFile != nil:
		return Result{Node: suffixSameFile, Confidence: entity.Low}
	}

	if strings.Contains(name, ".") && expectedType == entity.Function {
		if inherited := r.findInParentClasses(name); inherited != nil {
			return Result{Node: inherited, Confidence: entity.Low}
		}
	}

	if !strings.Contains(name, ".") && expectedType == entity.Function {
		suffixTarget := "." + name
		var candidates []*entity.Node
		for _, n := range r.graph.AllNodes() {
			if n.EntityType != entity.Function || !strings.HasSuffix(n.Name, suffixTarget) {
				continue
			}
			if !callerIsTest && graphstore.IsTestFile(n.FilePath) {
				continue
			}
			candidates = append(candidates, n)
		}
		if len(candidates) == 1 {
			return Result{Node: candidates[0], Confidence: entity.Low}
		}
		if len(candidates) > 1 {
			for _, c := range candidates {
				if _, ok := importedFiles[c.FilePath]; ok {
					return Result{Node: c, Confidence: entity.Low}
				}
			}
			best := candidates[0]
			bestScore := pathSimilarity(currentFile, best.FilePath)
			for _, c := range candidates[1:] {
				if score := pathSimilarity(currentFile, c.FilePath); score > bestScore {
					best, bestScore = c, score
				}
			}
			return Result{Node: best, Confidence: entity.Low}
		}
	}

	var lastResort *entity.Node
	for _, n := range r.graph.NodesByName(name) {
		if !callerIsTest && graphstore.IsTestFile(n.FilePath) {
			if lastResort == nil {
				lastResort = n
			}
			continue
		}
		return Result{Node: n, Confidence: entity.Low}
	}
	if lastResort != nil {
		return Result{Node: lastResort, Confidence: entity.Low}
	}
	return Result{}
}

// findInParentClasses walks "ClassName.method"'s inheritance chain (up to 5
// levels via inherits edges) looking for "ParentClass.method".
func (r *Resolver) findInParentClasses(qualifiedName string) *entity.Node {
	idx := strings.LastIndexByte(qualifiedName, '.')
	if idx < 0 {
		return nil
	}
	className, method := qualifiedName[:idx], qualifiedName[idx+1:]

	for _, classNode := range r.graph.NodesByName(className) {
		if classNode.EntityType != entity.Class {
			continue
		}
		visited := map[string]struct{}{classNode.ID: {}}
		queue := []string{classNode.ID}
		for level := 0; level < 5 && len(queue) > 0; level++ {
			var next []string
			for _, nid := range queue {
				for _, e := range r.graph.OutgoingEdges(nid) {
					if e.Kind != entity.Inherits {
						continue
					}
					if _, seen := visited[e.TargetID]; seen {
						continue
					}
					visited[e.TargetID] = struct{}{}
					parent, ok := r.graph.Node(e.TargetID)
					if !ok {
						continue
					}
					next = append(next, e.TargetID)
					targetName := parent.Name + "." + method
					for _, fn := range r.graph.NodesByName(targetName) {
						if fn.EntityType == entity.Function {
							return fn
						}
					}
				}
			}
			queue = next
		}
	}
	return nil
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
