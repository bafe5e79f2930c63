// Package bridge orchestrates incremental graph updates from source-file
// changes: semantic gating, delta computation, surgical node patching,
// two-pass edge resolution, and the warnings a host needs to react to a
// change (new cycles, newly dead code, breaking signature changes).
package bridge

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/codegraph/liquidmap/internal/delta"
	"github.com/codegraph/liquidmap/internal/entity"
	"github.com/codegraph/liquidmap/internal/extract"
	"github.com/codegraph/liquidmap/internal/graphstore"
	"github.com/codegraph/liquidmap/internal/propagate"
	"github.com/codegraph/liquidmap/internal/resolve"
)

// maxFileContents bounds the full-text cache kept for semantic gating and
// delta computation; the oldest entries are evicted FIFO once exceeded.
const maxFileContents = 500

// ChangeKind is the nature of an edit fed to ProcessChange.
type ChangeKind string

const (
	Edit   ChangeKind = "edit"
	Create ChangeKind = "create"
	Delete ChangeKind = "delete"
)

// OpType is the kind of graph mutation an Operation records.
type OpType string

const (
	OpAddNode    OpType = "add_node"
	OpRemoveNode OpType = "remove_node"
	OpUpdateNode OpType = "update_node"
)

// Operation is one graph mutation produced by a ProcessChange call, returned
// so a host can log or display what happened.
type Operation struct {
	Type        OpType
	NodeID      string
	NodeType    entity.Type
	Name        string
	RenamedFrom string
	// HadCallers lists the names of cross-file callers a removed node had,
	// for proactive breaking-change surfacing.
	HadCallers []string
}

// Warnings surfaces side effects of a change that a host likely wants to
// react to, beyond the raw operation list.
type Warnings struct {
	// NewCycles are file-level import cycles that now include the changed
	// file and did not exist (involving it) before this change.
	NewCycles [][]string
	// NewlyDead are node ids that had incoming edges before this change and
	// have none now.
	NewlyDead []string
	// Breaking describes modified public entities that had incoming edges
	// and whose parameter list lost arguments or reordered them.
	Breaking []string
}

// Result is what one ProcessChange call produces.
type Result struct {
	EventID    string
	Operations []Operation
	Warnings   Warnings
}

// Bridge owns the graph, the cross-file resolver, and the per-file state
// (cached text and last-seen entities) needed to diff and patch it
// incrementally.
type Bridge struct {
	graph    *graphstore.Graph
	resolver *resolve.Resolver
	registry *extract.Registry
	recovery *extract.PartialRecovery

	fileContents   map[string]string
	fileOrder      []string // insertion order, for FIFO eviction
	entitiesByFile map[string][]entity.Entity
	exportsByFile  map[string][]string

	propagator      *propagate.Propagator
	propagateUpdate func(string)
	propagating     bool // recursion guard: a sync update_fn re-enters ProcessChange
}

// New builds a Bridge around a fresh graph and the default extractor
// registry.
func New() *Bridge {
	g := graphstore.New()
	return &Bridge{
		graph:          g,
		resolver:       resolve.New(g),
		registry:       extract.NewRegistry(),
		recovery:       extract.NewPartialRecovery(),
		fileContents:   make(map[string]string),
		entitiesByFile: make(map[string][]entity.Entity),
		exportsByFile:  make(map[string][]string),
	}
}

// Graph exposes the underlying store for the query engine and persistence
// layer.
func (b *Bridge) Graph() *graphstore.Graph { return b.graph }

// SetPropagator enables bounded cross-file propagation after each processed
// change: record this file as edited, propagate to files the bounded BFS
// reaches, and synchronously re-process the highest-priority batch via
// updateFn (expected to re-read the file's current content and call
// ProcessChange again). Unset by default, so a standalone Bridge never
// propagates; installing it also installs a recursion guard against a
// propagated re-process triggering propagation of its own.
func (b *Bridge) SetPropagator(p *propagate.Propagator, updateFn func(string)) {
	b.propagator = p
	b.propagateUpdate = updateFn
}

// extractEntities runs the registered extractor for filePath, falling back
// to binary-search partial recovery for Python files whose non-empty source
// yields no entities.
func (b *Bridge) extractEntities(source []byte, filePath string) []entity.Entity {
	ents := b.registry.Extract(source, filePath)
	if len(ents) == 0 && len(trimSpace(source)) > 0 && isPythonFile(filePath) {
		return b.recovery.Recover(source, filePath)
	}
	return ents
}

func trimSpace(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isSpaceByte(b[i]) {
		i++
	}
	for j > i && isSpaceByte(b[j-1]) {
		j--
	}
	return b[i:j]
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isPythonFile(filePath string) bool {
	return hasSuffix(filePath, ".py") || hasSuffix(filePath, ".pyi")
}

func hasSuffix(s, suf string) bool {
	return len(s) >= len(suf) && s[len(s)-len(suf):] == suf
}

// IsSemanticChange reports whether oldContent and newContent differ in a way
// that would change the extracted entity set, ignoring whitespace/comments
// and treating a new parse failure as non-semantic.
func (b *Bridge) IsSemanticChange(filePath, oldContent, newContent string) bool {
	oldEntities := b.extractEntities([]byte(oldContent), filePath)
	newEntities := b.registry.Extract([]byte(newContent), filePath)
	return delta.IsSemanticChange(oldEntities, newEntities, len(trimSpace([]byte(newContent))) > 0)
}

// ProcessChange extracts filePath's new entities, diffs them against the
// last-seen set, patches the graph surgically, re-resolves edges, and
// reports the operations and warnings that resulted.
func (b *Bridge) ProcessChange(filePath string, kind ChangeKind, newContent string) Result {
	eventID := uuid.NewString()
	b.resolver.Invalidate()

	if kind == Delete {
		return Result{EventID: eventID, Operations: b.removeFile(filePath)}
	}

	oldContent := b.fileContents[filePath]
	oldEntities := b.entitiesByFile[filePath]

	if !b.IsSemanticChange(filePath, oldContent, newContent) {
		b.cacheContent(filePath, newContent)
		return Result{EventID: eventID}
	}

	cyclesBefore := make(map[string]struct{})
	for _, c := range b.cyclesInvolving(filePath) {
		cyclesBefore[strings.Join(c, "\x00")] = struct{}{}
	}

	newEntities := b.extractEntities([]byte(newContent), filePath)
	d, renames := delta.Compute(oldEntities, newEntities)
	renamedOld := make(map[string]entity.Entity, len(renames))
	for _, r := range renames {
		renamedOld[r.New.Name] = r.Old
	}

	var ops []Operation
	var affectedByEdgeLoss []string
	var breaking []string

	// 3. Process removals first, capturing prior cross-file callers.
	for _, e := range d.Removed {
		nodeID := entity.NodeID(filePath, e.Name)
		var hadCallers []string
		for _, edge := range b.graph.IncomingEdges(nodeID) {
			if src, ok := b.graph.Node(edge.SourceID); ok && src.FilePath != filePath {
				hadCallers = append(hadCallers, src.Name)
			}
		}
		b.graph.RemoveNode(nodeID)
		sort.Strings(hadCallers)
		ops = append(ops, Operation{Type: OpRemoveNode, NodeID: nodeID, NodeType: e.EntityType, Name: e.Name, HadCallers: hadCallers})
	}

	// 4. Process additions, imports first so names exist for call resolution.
	sort.SliceStable(d.Added, func(i, j int) bool {
		iImport := d.Added[i].EntityType == entity.ImportType
		jImport := d.Added[j].EntityType == entity.ImportType
		if iImport != jImport {
			return iImport
		}
		return d.Added[i].Name < d.Added[j].Name
	})
	for _, e := range d.Added {
		nodeID := entity.NodeID(filePath, e.Name)
		b.graph.AddNode(entity.Node{Entity: e, ID: nodeID, Confidence: entity.High})
		b.firstPassEdges(e, nodeID, filePath)
		b.reverseImportSweep(e, nodeID, filePath)
		ops = append(ops, Operation{Type: OpAddNode, NodeID: nodeID, NodeType: e.EntityType, Name: e.Name})
	}

	// 5. Process modifications (renames and body changes).
	for _, e := range d.Modified {
		if oldE, renamed := renamedOld[e.Name]; renamed {
			oldNodeID := entity.NodeID(filePath, oldE.Name)
			b.graph.RemoveNode(oldNodeID)
			newNodeID := entity.NodeID(filePath, e.Name)
			b.graph.AddNode(entity.Node{Entity: e, ID: newNodeID, Confidence: entity.High})
			ops = append(ops, Operation{Type: OpUpdateNode, NodeID: newNodeID, NodeType: e.EntityType, Name: e.Name, RenamedFrom: oldE.Name})
			continue
		}

		nodeID := entity.NodeID(filePath, e.Name)
		if existing, ok := b.graph.Node(nodeID); ok {
			oldParams := append([]string(nil), existing.Params...)
			hadCallers := len(b.graph.IncomingEdges(nodeID)) > 0
			updated := *existing
			updated.Entity = e
			b.graph.AddNode(updated)
			for _, edge := range b.graph.OutgoingEdges(nodeID) {
				switch edge.Kind {
				case entity.Calls, entity.Inherits, entity.UsesType, entity.DecoratedBy:
					b.graph.RemoveEdge(edge.SourceID, edge.TargetID, edge.Kind)
					affectedByEdgeLoss = append(affectedByEdgeLoss, edge.TargetID)
				}
			}
			if hadCallers && isBreakingParamChange(entity.Entity{Params: oldParams}, e) {
				breaking = append(breaking, e.Name)
			}
			ops = append(ops, Operation{Type: OpUpdateNode, NodeID: nodeID, NodeType: e.EntityType, Name: e.Name})
		} else {
			b.graph.AddNode(entity.Node{Entity: e, ID: nodeID, Confidence: entity.High})
			ops = append(ops, Operation{Type: OpAddNode, NodeID: nodeID, NodeType: e.EntityType, Name: e.Name})
		}
	}

	// 6. Two-pass edge resolution: re-resolve every entity changed by this
	// edit, now that the full file's new node set exists.
	allChanged := append(append([]entity.Entity{}, d.Added...), d.Modified...)
	for _, e := range allChanged {
		sourceID := entity.NodeID(filePath, e.Name)
		b.resolvePendingEdges(e, sourceID, filePath)
	}

	// 7. Update caches and indices.
	b.cacheContent(filePath, newContent)
	b.entitiesByFile[filePath] = newEntities
	b.resolver.RegisterModulePath(filePath)
	for _, n := range b.graph.NodesByFile(filePath) {
		b.resolver.RegisterDependencies(filePath, n.Calls)
	}

	sort.Strings(breaking)
	newlyDead := b.newlyDeadWarnings(affectedByEdgeLoss)
	var newCycles [][]string
	for _, c := range b.cyclesInvolving(filePath) {
		if _, existed := cyclesBefore[strings.Join(c, "\x00")]; !existed {
			newCycles = append(newCycles, c)
		}
	}

	// 9. Bounded propagation, if enabled. Guarded against re-entrant
	// propagation when updateFn itself calls back into ProcessChange.
	if b.propagator != nil && !b.propagating {
		b.propagating = true
		b.propagator.RecordEdit(filePath)
		propResult := b.propagator.Propagate(filePath, b.propagateUpdate)
		for _, fp := range propResult.SyncProcessed {
			ops = append(ops, Operation{Type: OpUpdateNode, NodeID: "", NodeType: entity.Type("propagation"), Name: fp})
		}
		b.propagating = false
	}

	return Result{
		EventID:    eventID,
		Operations: ops,
		Warnings: Warnings{
			NewCycles: newCycles,
			NewlyDead: newlyDead,
			Breaking:  breaking,
		},
	}
}

func (b *Bridge) cacheContent(filePath, content string) {
	if _, exists := b.fileContents[filePath]; !exists {
		b.fileOrder = append(b.fileOrder, filePath)
	}
	b.fileContents[filePath] = content
	if len(b.fileContents) > maxFileContents {
		excess := len(b.fileContents) - maxFileContents
		for i := 0; i < excess && len(b.fileOrder) > 0; i++ {
			oldest := b.fileOrder[0]
			b.fileOrder = b.fileOrder[1:]
			delete(b.fileContents, oldest)
		}
	}
}

// isBreakingParamChange flags a modified public entity whose parameter list
// shrank or reordered.
func isBreakingParamChange(oldE, newE entity.Entity) bool {
	if len(newE.Name) > 0 && newE.Name[0] == '_' {
		return false
	}
	if len(newE.Params) < len(oldE.Params) {
		return true
	}
	for i := 0; i < len(oldE.Params) && i < len(newE.Params); i++ {
		if oldE.Params[i] != newE.Params[i] {
			return true
		}
	}
	return false
}

func (b *Bridge) newlyDeadWarnings(affected []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, id := range affected {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		n, ok := b.graph.Node(id)
		if !ok {
			continue
		}
		if (n.EntityType == entity.Function || n.EntityType == entity.Class) && len(b.graph.IncomingEdges(id)) == 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (b *Bridge) cyclesInvolving(filePath string) [][]string {
	cycles := b.graph.FindCycles(true)
	var out [][]string
	for _, c := range cycles {
		for _, f := range c {
			if f == filePath {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// removeFile drops every node declared in filePath, promoting each
// surviving incoming edge to an unresolved placeholder, and cleans the
// bridge's per-file caches and resolver indices.
func (b *Bridge) removeFile(filePath string) []Operation {
	var ops []Operation
	for _, n := range b.graph.NodesByFile(filePath) {
		for _, edge := range b.graph.IncomingEdges(n.ID) {
			if edge.SourceID == n.ID {
				continue
			}
			b.graph.RemoveEdge(edge.SourceID, edge.TargetID, edge.Kind)
			b.graph.AddEdge(entity.Edge{
				SourceID:   edge.SourceID,
				TargetID:   entity.UnresolvedTarget(n.Name),
				Kind:       edge.Kind,
				Confidence: entity.Low,
				SourceFile: edge.SourceFile,
			})
		}
		b.graph.RemoveNode(n.ID)
		ops = append(ops, Operation{Type: OpRemoveNode, NodeID: n.ID, NodeType: n.EntityType, Name: n.Name})
	}
	delete(b.fileContents, filePath)
	delete(b.entitiesByFile, filePath)
	delete(b.exportsByFile, filePath)
	b.resolver.UnregisterModulePath(filePath)
	b.resolver.UnregisterFileDependencies(filePath)
	return ops
}

// firstPassEdges creates edges for a freshly added entity using whatever of
// the file's new node set already exists in the graph at this point in the
// additions loop.
func (b *Bridge) firstPassEdges(e entity.Entity, sourceID, filePath string) {
	b.resolveCalls(e, sourceID, filePath)
	b.resolveInherits(e, sourceID, filePath)
	b.resolveImports(e, sourceID, filePath)
	b.resolveTypeRefs(e, sourceID, filePath)
	b.resolveDecorators(e, sourceID, filePath)
}

// resolvePendingEdges re-runs the same resolution after every entity changed
// by this edit is in the graph, so within-file forward references resolve on
// the second pass.
func (b *Bridge) resolvePendingEdges(e entity.Entity, sourceID, filePath string) {
	b.resolveInherits(e, sourceID, filePath)
	b.resolveCalls(e, sourceID, filePath)
	b.resolveImports(e, sourceID, filePath)
	b.reverseImportSweep(e, sourceID, filePath)
	b.resolveTypeRefs(e, sourceID, filePath)
	b.resolveDecorators(e, sourceID, filePath)
}

func (b *Bridge) resolveCalls(e entity.Entity, sourceID, filePath string) {
	for _, name := range e.Calls {
		result := b.resolver.FindTarget(name, filePath, entity.Function)
		if result.Node == nil {
			result = b.resolver.FindTarget(name, filePath, entity.Class)
		}
		b.addResolvedEdge(sourceID, result, entity.Calls, filePath)
	}
}

func (b *Bridge) resolveInherits(e entity.Entity, sourceID, filePath string) {
	for _, name := range e.Inherits {
		result := b.resolver.FindTarget(name, filePath, entity.Class)
		b.addResolvedEdge(sourceID, result, entity.Inherits, filePath)
	}
}

func (b *Bridge) resolveTypeRefs(e entity.Entity, sourceID, filePath string) {
	for _, name := range e.TypeRefs {
		result := b.resolver.FindTarget(name, filePath, entity.Class)
		b.addResolvedEdge(sourceID, result, entity.UsesType, filePath)
	}
}

func (b *Bridge) resolveDecorators(e entity.Entity, sourceID, filePath string) {
	for _, name := range e.Decorators {
		result := b.resolver.FindTarget(name, filePath, entity.Function)
		if result.Node == nil {
			result = b.resolver.FindTarget(name, filePath, entity.Class)
		}
		b.addResolvedEdge(sourceID, result, entity.DecoratedBy, filePath)
	}
}

func (b *Bridge) resolveImports(e entity.Entity, sourceID, filePath string) {
	if e.EntityType != entity.ImportType {
		return
	}
	for _, imp := range e.Imports {
		if imp.Symbol == "*" {
			b.expandStarImport(sourceID, filePath, imp.Module)
			continue
		}
		target := b.resolver.FindImportTarget(imp.Symbol, filePath, imp.Module)
		if target == nil || target.ID == sourceID {
			continue
		}
		if b.edgeExists(sourceID, target.ID, entity.Imports) {
			continue
		}
		b.graph.AddEdge(entity.Edge{SourceID: sourceID, TargetID: target.ID, Kind: entity.Imports, Confidence: entity.High, SourceFile: filePath})
	}
}

func (b *Bridge) addResolvedEdge(sourceID string, result resolve.Result, kind entity.EdgeKind, filePath string) {
	if result.Node == nil || result.Node.ID == sourceID {
		return
	}
	if b.edgeExists(sourceID, result.Node.ID, kind) {
		return
	}
	b.graph.AddEdge(entity.Edge{SourceID: sourceID, TargetID: result.Node.ID, Kind: kind, Confidence: result.Confidence, SourceFile: filePath})
}

func (b *Bridge) edgeExists(sourceID, targetID string, kind entity.EdgeKind) bool {
	for _, e := range b.graph.OutgoingEdges(sourceID) {
		if e.TargetID == targetID && e.Kind == kind {
			return true
		}
	}
	return false
}

// reverseImportSweep links any existing cross-file import node sharing this
// definition's name to the newly (re)added definition. Run both at
// addition time and again during pass-two resolution.
func (b *Bridge) reverseImportSweep(e entity.Entity, sourceID, filePath string) {
	if e.EntityType != entity.Function && e.EntityType != entity.Class && e.EntityType != entity.Variable {
		return
	}
	for _, n := range b.graph.NodesByName(e.Name) {
		if n.EntityType != entity.ImportType || n.FilePath == filePath {
			continue
		}
		if b.edgeExists(n.ID, sourceID, entity.Imports) {
			continue
		}
		b.graph.AddEdge(entity.Edge{SourceID: n.ID, TargetID: sourceID, Kind: entity.Imports, Confidence: entity.High, SourceFile: n.FilePath})
	}
}

// expandStarImport expands `from module import *` into one imports edge per
// exported name in the target module, once that module's file is known.
func (b *Bridge) expandStarImport(sourceID, filePath, module string) {
	targetFile := b.resolver.ModuleFile(module)
	if targetFile == "" {
		return
	}
	for _, name := range b.ModuleExports(targetFile) {
		for _, n := range b.graph.NodesByName(name) {
			if n.FilePath != targetFile {
				continue
			}
			if n.EntityType != entity.Function && n.EntityType != entity.Class && n.EntityType != entity.Variable {
				continue
			}
			if b.edgeExists(sourceID, n.ID, entity.Imports) {
				continue
			}
			b.graph.AddEdge(entity.Edge{SourceID: sourceID, TargetID: n.ID, Kind: entity.Imports, Confidence: entity.Medium, SourceFile: filePath})
		}
	}
}

// ModuleExports returns filePath's exported symbol names: every top-level
// (undotted) function/class/variable name declared there. The extractor
// does not currently surface an explicit __all__ list as a distinct
// structure, so top-level declarations are the only signal available.
func (b *Bridge) ModuleExports(filePath string) []string {
	var out []string
	for _, n := range b.graph.NodesByFile(filePath) {
		if n.EntityType != entity.Function && n.EntityType != entity.Class && n.EntityType != entity.Variable {
			continue
		}
		if n.Name == "__all__" || containsDot(n.Name) {
			continue
		}
		out = append(out, n.Name)
	}
	sort.Strings(out)
	b.exportsByFile[filePath] = out
	return out
}

// FileEntities returns the last-extracted entity list for every file the
// bridge has processed, for the persistence layer's per-file snapshots.
func (b *Bridge) FileEntities() map[string][]entity.Entity {
	out := make(map[string][]entity.Entity, len(b.entitiesByFile))
	for f, es := range b.entitiesByFile {
		out[f] = append([]entity.Entity(nil), es...)
	}
	return out
}

// Exports returns the exported-symbol set recorded for every file, for the
// persistence layer's snapshot.
func (b *Bridge) Exports() map[string][]string {
	out := make(map[string][]string, len(b.exportsByFile))
	for f, names := range b.exportsByFile {
		out[f] = append([]string(nil), names...)
	}
	return out
}

// Hydrate rebuilds a Bridge's graph and per-file state from a persisted
// snapshot: nodes and edges are loaded directly into the graph store, the
// resolver's module-path and dependency indices are rebuilt from the
// restored nodes, and the differ's per-file entity snapshots and recorded
// exports are restored so the next ProcessChange for any of these files
// diffs against its true last-known state rather than treating it as new.
func (b *Bridge) Hydrate(nodes []entity.Node, edges []entity.Edge, fileEntities map[string][]entity.Entity, exports map[string][]string) {
	b.resolver.Invalidate()
	for _, n := range nodes {
		b.graph.AddNode(n)
	}
	for _, e := range edges {
		b.graph.AddEdge(e)
	}
	for f, es := range fileEntities {
		b.entitiesByFile[f] = append([]entity.Entity(nil), es...)
	}
	for f, names := range exports {
		b.exportsByFile[f] = append([]string(nil), names...)
	}
	for f := range fileEntities {
		b.resolver.RegisterModulePath(f)
	}
	for _, n := range b.graph.AllNodes() {
		b.resolver.RegisterDependencies(n.FilePath, n.Calls)
	}
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

// AffectedFiles finds files likely affected by a change to changedEntityName
// in changedFile: direct dependency-index hits, files with cross-file edges
// into changedFile, then a bounded BFS over incoming calls/imports/inherits
// edges.
func (b *Bridge) AffectedFiles(changedFile, changedEntityName string, maxDepth int) []string {
	affected := make(map[string]struct{})
	type item struct {
		file  string
		depth int
	}
	var queue []item

	for _, f := range b.resolver.DependentFiles(changedEntityName, changedFile) {
		if _, ok := affected[f]; !ok {
			affected[f] = struct{}{}
			queue = append(queue, item{f, 1})
		}
	}

	for _, n := range b.graph.NodesByFile(changedFile) {
		for _, edge := range b.graph.IncomingEdges(n.ID) {
			src, ok := b.graph.Node(edge.SourceID)
			if !ok || src.FilePath == changedFile {
				continue
			}
			if _, seen := affected[src.FilePath]; !seen {
				affected[src.FilePath] = struct{}{}
				queue = append(queue, item{src.FilePath, 1})
			}
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, n := range b.graph.NodesByFile(cur.file) {
			for _, edge := range b.graph.IncomingEdges(n.ID) {
				if edge.Kind != entity.Calls && edge.Kind != entity.Imports && edge.Kind != entity.Inherits {
					continue
				}
				src, ok := b.graph.Node(edge.SourceID)
				if !ok || src.FilePath == changedFile {
					continue
				}
				if _, seen := affected[src.FilePath]; !seen {
					affected[src.FilePath] = struct{}{}
					queue = append(queue, item{src.FilePath, cur.depth + 1})
				}
			}
		}
	}

	out := make([]string, 0, len(affected))
	for f := range affected {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// CheckNewCycles reports file-level cycles (excluding test files) that
// include filePath.
func (b *Bridge) CheckNewCycles(filePath string) [][]string {
	return b.cyclesInvolving(filePath)
}

// CheckNewDeadCode reports currently-dead nodes declared in filePath.
func (b *Bridge) CheckNewDeadCode(filePath string) []*entity.Node {
	var out []*entity.Node
	for _, n := range b.graph.FindDeadCode(graphstore.DefaultDeadCodeOptions()) {
		if n.FilePath == filePath {
			out = append(out, n)
		}
	}
	return out
}
