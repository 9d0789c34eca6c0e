// Package mapping implements the mapping graph and composer, the
// BaseMapper/CompositeMapper lookup semantics, the download cache, the
// Mojang/Fabric mapping sources, and the raw-to-BaseMapper normalizer.
package mapping

import (
	"fmt"
	"strings"

	"github.com/octylFractal/stacked-portrayals/names"
	"github.com/octylFractal/stacked-portrayals/types"
)

// MethodEntry is one entry in a ClassMapping's method table: the method id
// in the "from" naming, mapped to the method id in the "to" naming.
type MethodEntry struct {
	From types.MethodId
	To   types.MethodId
}

// ClassMapping is the per-class result of one BaseMapper: the class's
// mapped name, plus its method table. Both the method name and descriptor
// inside MethodEntry.To are already expressed in the target naming.
type ClassMapping struct {
	ToName string
	// Methods is indexed by MethodEntry.From.Key(), per the map-key
	// limitation noted on types.MethodId.
	Methods map[string]MethodEntry
}

// Mappings is the full class table for one BaseMapper, indexed by the
// source class name. Each source class appears at most once (enforced by
// the normalizer).
type Mappings struct {
	Classes map[string]ClassMapping
}

// BaseMapper is a single-edge mapper: a (from, to) naming pair plus the
// Mappings loaded for a specific Minecraft version. Immutable once
// constructed.
type BaseMapper struct {
	From    names.NamesType
	To      names.NamesType
	Version string
	Data    Mappings
}

// String renders a short diagnostic form, e.g. "obf -> mojang for 1.20.1".
func (m *BaseMapper) String() string {
	return fmt.Sprintf("%s -> %s for %s", m.From, m.To, m.Version)
}

// MapClass looks up a class name directly in the mappings table.
func (m *BaseMapper) MapClass(name string) (string, bool) {
	c, ok := m.Data.Classes[name]
	if !ok {
		return "", false
	}
	return c.ToName, true
}

// MapMethod implements the lookup semantics of spec.md §4.2:
//  1. scoped lookup in fromClassName's method table (exact descriptor match
//     if descriptor is non-nil, or every entry with a matching name
//     otherwise);
//  2. if that's non-empty, return it;
//  3. otherwise fall back to an unscoped search across every class;
//  4. return the unscoped result only if it has at most one entry —
//     ambiguous unscoped results are suppressed so the rewriter leaves the
//     original name untouched.
func (m *BaseMapper) MapMethod(fromClassName, name string, descriptor *types.Descriptor) []types.MethodCandidate {
	if c, ok := m.Data.Classes[fromClassName]; ok {
		if scoped := extractMethod(name, descriptor, c); len(scoped) > 0 {
			return scoped
		}
	}

	var unscoped []types.MethodCandidate
	for _, c := range m.Data.Classes {
		unscoped = append(unscoped, extractMethod(name, descriptor, c)...)
		if len(unscoped) > 1 {
			// No need to keep scanning once ambiguity is certain.
			return nil
		}
	}
	if len(unscoped) <= 1 {
		return unscoped
	}
	return nil
}

func extractMethod(name string, descriptor *types.Descriptor, c ClassMapping) []types.MethodCandidate {
	if descriptor != nil {
		key := types.MethodId{Name: name, Descriptor: *descriptor}.Key()
		entry, ok := c.Methods[key]
		if !ok {
			return nil
		}
		return []types.MethodCandidate{{Class: c.ToName, ID: entry.To}}
	}
	var out []types.MethodCandidate
	for _, entry := range c.Methods {
		if entry.From.Name == name {
			out = append(out, types.MethodCandidate{Class: c.ToName, ID: entry.To})
		}
	}
	return out
}

// CompositeMapper is an ordered, non-empty sequence of BaseMappers whose
// adjacency invariant holds: mappers[i].To == mappers[i+1].From for all i.
type CompositeMapper struct {
	Mappers []*BaseMapper
}

// String renders each base mapper's diagnostic form, comma-joined.
func (m *CompositeMapper) String() string {
	parts := make([]string, len(m.Mappers))
	for i, b := range m.Mappers {
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

// MapClass threads the name through each base mapper in order; if any step
// returns no mapping, the overall result is none.
func (m *CompositeMapper) MapClass(name string) (string, bool) {
	cur := name
	found := false
	for _, b := range m.Mappers {
		mapped, ok := b.MapClass(cur)
		if !ok {
			return "", false
		}
		cur = mapped
		found = true
	}
	return cur, found
}

// MapMethod threads a candidate set of (class, MethodId) pairs through
// each base mapper in order, per spec.md §4.1: at each step, the current
// step's MapMethod is applied to every candidate from the previous step
// (seeded with the single input triple), producing a new candidate set fed
// into the next step. The relative order of candidates is preserved.
func (m *CompositeMapper) MapMethod(fromClassName, name string, descriptor *types.Descriptor) []types.MethodCandidate {
	type triple struct {
		class string
		name  string
		desc  *types.Descriptor
	}
	pending := []triple{{fromClassName, name, descriptor}}
	var results []types.MethodCandidate

	for _, b := range m.Mappers {
		results = results[:0]
		for _, p := range pending {
			results = append(results, b.MapMethod(p.class, p.name, p.desc)...)
		}
		pending = pending[:0]
		for _, r := range results {
			id := r.ID
			pending = append(pending, triple{class: r.Class, name: id.Name, desc: &id.Descriptor})
		}
	}
	return results
}
