// Package persist serializes the graph store to a single JSON snapshot file
// and restores it at startup. Save is atomic (temp file + rename); load is
// defensive (a schema-version mismatch or corrupt file triggers a clean
// start rather than an error), since the graph is one process-wide store
// rather than many independently addressable records.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codegraph/liquidmap/internal/bridge"
	"github.com/codegraph/liquidmap/internal/entity"
)

// SchemaVersion is bumped whenever the snapshot document's shape changes in
// a way that makes older snapshots unreadable.
const SchemaVersion = 1

type nodeDoc struct {
	EntityType    entity.Type       `json:"entity_type"`
	Name          string            `json:"name"`
	FilePath      string            `json:"file_path"`
	LineStart     int               `json:"line_start"`
	LineEnd       int               `json:"line_end"`
	SignatureHash string            `json:"signature_hash"`
	StructureHash string            `json:"structure_hash"`
	Calls         []string          `json:"calls"`
	Inherits      []string          `json:"inherits"`
	TypeRefs      []string          `json:"type_refs"`
	Decorators    []string          `json:"decorators"`
	Imports       []importDoc       `json:"imports"`
	Params        []string          `json:"params"`
	ID            string            `json:"id"`
	LastSeen      int64             `json:"last_seen"`
	Confidence    entity.Confidence `json:"confidence"`
}

type importDoc struct {
	Module string `json:"module"`
	Symbol string `json:"symbol"`
}

type edgeDoc struct {
	SourceID   string            `json:"source_id"`
	TargetID   string            `json:"target_id_or_placeholder"`
	Kind       entity.EdgeKind   `json:"kind"`
	Confidence entity.Confidence `json:"confidence"`
	SourceFile string            `json:"source_file"`
}

type entityDoc struct {
	EntityType    entity.Type `json:"entity_type"`
	Name          string      `json:"name"`
	FilePath      string      `json:"file_path"`
	LineStart     int         `json:"line_start"`
	LineEnd       int         `json:"line_end"`
	SignatureHash string      `json:"signature_hash"`
	StructureHash string      `json:"structure_hash"`
	Calls         []string    `json:"calls"`
	Inherits      []string    `json:"inherits"`
	TypeRefs      []string    `json:"type_refs"`
	Decorators    []string    `json:"decorators"`
	Imports       []importDoc `json:"imports"`
	Params        []string    `json:"params"`
}

type document struct {
	SchemaVersion int                    `json:"schema_version"`
	SavedAt       int64                  `json:"saved_at"`
	Nodes         []nodeDoc              `json:"nodes"`
	Edges         []edgeDoc              `json:"edges"`
	FileSnapshots map[string][]entityDoc `json:"file_snapshots"`
	Exports       map[string][]string    `json:"exports"`
}

func toImportDocs(imports []entity.Import) []importDoc {
	out := make([]importDoc, len(imports))
	for i, imp := range imports {
		out[i] = importDoc{Module: imp.Module, Symbol: imp.Symbol}
	}
	return out
}

func toEntityDoc(e entity.Entity) entityDoc {
	imports := toImportDocs(e.Imports)
	return entityDoc{
		EntityType:    e.EntityType,
		Name:          e.Name,
		FilePath:      e.FilePath,
		LineStart:     e.LineStart,
		LineEnd:       e.LineEnd,
		SignatureHash: e.SignatureHash,
		StructureHash: e.StructureHash,
		Calls:         orEmpty(e.Calls),
		Inherits:      orEmpty(e.Inherits),
		TypeRefs:      orEmpty(e.TypeRefs),
		Decorators:    orEmpty(e.Decorators),
		Imports:       imports,
		Params:        orEmpty(e.Params),
	}
}

func fromEntityDoc(d entityDoc) entity.Entity {
	imports := make([]entity.Import, len(d.Imports))
	for i, imp := range d.Imports {
		imports[i] = entity.Import{Module: imp.Module, Symbol: imp.Symbol}
	}
	return entity.Entity{
		EntityType:    d.EntityType,
		Name:          d.Name,
		FilePath:      d.FilePath,
		LineStart:     d.LineStart,
		LineEnd:       d.LineEnd,
		SignatureHash: d.SignatureHash,
		StructureHash: d.StructureHash,
		Calls:         d.Calls,
		Inherits:      d.Inherits,
		TypeRefs:      d.TypeRefs,
		Decorators:    d.Decorators,
		Imports:       imports,
		Params:        d.Params,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Store owns the snapshot file's location on disk.
type Store struct {
	path string
}

// New builds a Store writing to path.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath builds the conventional snapshot path under configRoot: a
// fixed "liquidmap" subdirectory holding "graph.json".
func DefaultPath(configRoot string) string {
	return filepath.Join(configRoot, "liquidmap", "graph.json")
}

// Save serializes b's graph, per-file entity snapshots, and recorded
// exports to the store's path, writing to a temp file and renaming over the
// final path so a reader never observes a partially written document.
func (s *Store) Save(b *bridge.Bridge, savedAtUnix int64) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	doc := document{
		SchemaVersion: SchemaVersion,
		SavedAt:       savedAtUnix,
		FileSnapshots: make(map[string][]entityDoc),
		Exports:       b.Exports(),
	}

	for _, n := range b.Graph().AllNodes() {
		doc.Nodes = append(doc.Nodes, nodeDoc{
			EntityType:    n.EntityType,
			Name:          n.Name,
			FilePath:      n.FilePath,
			LineStart:     n.LineStart,
			LineEnd:       n.LineEnd,
			SignatureHash: n.SignatureHash,
			StructureHash: n.StructureHash,
			Calls:         orEmpty(n.Calls),
			Inherits:      orEmpty(n.Inherits),
			TypeRefs:      orEmpty(n.TypeRefs),
			Decorators:    orEmpty(n.Decorators),
			Imports:       toImportDocs(n.Imports),
			Params:        orEmpty(n.Params),
			ID:            n.ID,
			LastSeen:      n.LastSeen,
			Confidence:    n.Confidence,
		})
	}
	for _, e := range b.Graph().AllEdges() {
		doc.Edges = append(doc.Edges, edgeDoc{
			SourceID:   e.SourceID,
			TargetID:   e.TargetID,
			Kind:       e.Kind,
			Confidence: e.Confidence,
			SourceFile: e.SourceFile,
		})
	}
	for f, ents := range b.FileEntities() {
		snaps := make([]entityDoc, len(ents))
		for i, e := range ents {
			snaps[i] = toEntityDoc(e)
		}
		doc.FileSnapshots[f] = snaps
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

// Load reads the snapshot at the store's path and hydrates b with it. A
// missing file, a corrupt document, or a schema-version mismatch is
// reported via ok=false with a nil error: the caller proceeds with an empty
// graph rather than failing startup.
func (s *Store) Load(b *bridge.Bridge) (ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read snapshot file: %w", err)
	}

	var doc document
	if jsonErr := json.Unmarshal(data, &doc); jsonErr != nil {
		return false, nil
	}
	if doc.SchemaVersion != SchemaVersion {
		return false, nil
	}

	nodes := make([]entity.Node, len(doc.Nodes))
	for i, nd := range doc.Nodes {
		nodes[i] = entity.Node{
			Entity: fromEntityDoc(entityDoc{
				EntityType:    nd.EntityType,
				Name:          nd.Name,
				FilePath:      nd.FilePath,
				LineStart:     nd.LineStart,
				LineEnd:       nd.LineEnd,
				SignatureHash: nd.SignatureHash,
				StructureHash: nd.StructureHash,
				Calls:         nd.Calls,
				Inherits:      nd.Inherits,
				TypeRefs:      nd.TypeRefs,
				Decorators:    nd.Decorators,
				Imports:       nd.Imports,
				Params:        nd.Params,
			}),
			ID:         nd.ID,
			LastSeen:   nd.LastSeen,
			Confidence: nd.Confidence,
		}
	}
	edges := make([]entity.Edge, len(doc.Edges))
	for i, ed := range doc.Edges {
		edges[i] = entity.Edge{
			SourceID:   ed.SourceID,
			TargetID:   ed.TargetID,
			Kind:       ed.Kind,
			Confidence: ed.Confidence,
			SourceFile: ed.SourceFile,
		}
	}
	fileEntities := make(map[string][]entity.Entity, len(doc.FileSnapshots))
	for f, snaps := range doc.FileSnapshots {
		ents := make([]entity.Entity, len(snaps))
		for i, sd := range snaps {
			ents[i] = fromEntityDoc(sd)
		}
		fileEntities[f] = ents
	}

	b.Hydrate(nodes, edges, fileEntities, doc.Exports)
	return true, nil
}
