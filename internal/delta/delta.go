// Package delta computes the minimal (added, removed, modified) entity sets
// between two versions of a file's source, including rename detection.
package delta

import (
	"sort"

	"github.com/codegraph/liquidmap/internal/entity"
)

// Delta is the result of comparing a file's old and new entity sets.
type Delta struct {
	Added    []entity.Entity
	Removed  []entity.Entity
	Modified []entity.Entity
}

// Renamed pairs an old entity with the new entity it was renamed to, so
// callers can preserve identity (e.g. keep incoming edges) across the
// rename rather than treating it as a remove+add.
type Renamed struct {
	Old entity.Entity
	New entity.Entity
}

// entityKey identifies an entity for matching across versions. Two entities
// of different EntityType may legally share a bare Name (a class and a
// module-level function both called "Config", say), so Name alone is not a
// stable key: keying on the pair keeps them independent adds/removes instead
// of colliding in a map.
type entityKey struct {
	Type entity.Type
	Name string
}

func (k entityKey) less(o entityKey) bool {
	if k.Name != o.Name {
		return k.Name < o.Name
	}
	return k.Type < o.Type
}

// Compute diffs oldEntities against newEntities, matching by (type, name)
// first, then detecting renames among the leftovers, then diffing the
// remaining common keys by signature hash.
func Compute(oldEntities, newEntities []entity.Entity) (d Delta, renames []Renamed) {
	oldByKey := make(map[entityKey]entity.Entity, len(oldEntities))
	for _, e := range oldEntities {
		oldByKey[entityKey{e.EntityType, e.Name}] = e
	}
	newByKey := make(map[entityKey]entity.Entity, len(newEntities))
	for _, e := range newEntities {
		newByKey[entityKey{e.EntityType, e.Name}] = e
	}

	potentiallyRemoved := make(map[entityKey]struct{})
	for key := range oldByKey {
		if _, ok := newByKey[key]; !ok {
			potentiallyRemoved[key] = struct{}{}
		}
	}
	potentiallyAdded := make(map[entityKey]struct{})
	for key := range newByKey {
		if _, ok := oldByKey[key]; !ok {
			potentiallyAdded[key] = struct{}{}
		}
	}

	removedOrder := sortedKeys(potentiallyRemoved)
	addedOrder := sortedKeys(potentiallyAdded)

	matchedAdded := make(map[entityKey]struct{})
	for _, oldKey := range removedOrder {
		oldEntity := oldByKey[oldKey]
		for _, newKey := range addedOrder {
			if _, taken := matchedAdded[newKey]; taken {
				continue
			}
			newEntity := newByKey[newKey]
			if isRename(oldEntity, newEntity) {
				renames = append(renames, Renamed{Old: oldEntity, New: newEntity})
				matchedAdded[newKey] = struct{}{}
				delete(potentiallyRemoved, oldKey)
				break
			}
		}
	}
	for key := range matchedAdded {
		delete(potentiallyAdded, key)
	}

	for _, key := range sortedKeys(potentiallyAdded) {
		d.Added = append(d.Added, newByKey[key])
	}
	for _, key := range sortedKeys(potentiallyRemoved) {
		d.Removed = append(d.Removed, oldByKey[key])
	}

	for _, key := range sortedEntityKeys(oldByKey) {
		oldEntity := oldByKey[key]
		newEntity, ok := newByKey[key]
		if !ok {
			continue
		}
		if oldEntity.SignatureHash != newEntity.SignatureHash {
			d.Modified = append(d.Modified, newEntity)
		}
	}
	sort.Slice(renames, func(i, j int) bool { return renames[i].New.Name < renames[j].New.Name })
	for _, r := range renames {
		d.Modified = append(d.Modified, r.New)
	}

	return d, renames
}

func sortedKeys(m map[entityKey]struct{}) []entityKey {
	out := make([]entityKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

func sortedEntityKeys(m map[entityKey]entity.Entity) []entityKey {
	out := make([]entityKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// isRename reports whether b looks like a renamed a: same entity type,
// overlapping line ranges, identical structure hash despite the differing
// name.
func isRename(a, b entity.Entity) bool {
	return a.EntityType == b.EntityType && positionsOverlap(a, b) && a.StructureHash == b.StructureHash
}

func positionsOverlap(a, b entity.Entity) bool {
	if a.LineStart == b.LineStart {
		return true
	}
	return a.LineStart <= b.LineEnd && b.LineStart <= a.LineEnd
}

// IsSemanticChange reports whether old and new entity sets differ in any
// way other than whitespace/comments: a change in the (name, signature_hash)
// set. A new version that fails to parse (empty new entities despite
// non-empty old entities) is treated as non-semantic, since a transient
// parse failure should not spawn ghost graph operations.
func IsSemanticChange(oldEntities, newEntities []entity.Entity, newContentNonEmpty bool) bool {
	if newContentNonEmpty && len(newEntities) == 0 && len(oldEntities) > 0 {
		return false
	}

	type sig struct{ name, hash string }
	oldSigs := make(map[sig]struct{}, len(oldEntities))
	for _, e := range oldEntities {
		oldSigs[sig{e.Name, e.SignatureHash}] = struct{}{}
	}
	newSigs := make(map[sig]struct{}, len(newEntities))
	for _, e := range newEntities {
		newSigs[sig{e.Name, e.SignatureHash}] = struct{}{}
	}
	if len(oldSigs) != len(newSigs) {
		return true
	}
	for s := range oldSigs {
		if _, ok := newSigs[s]; !ok {
			return true
		}
	}
	return false
}
