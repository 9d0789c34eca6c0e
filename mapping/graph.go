package mapping

import (
	"context"
	"fmt"

	"github.com/quay/zlog"

	"github.com/octylFractal/stacked-portrayals/names"
	"github.com/octylFractal/stacked-portrayals/types"
)

// EdgeKind identifies which loader to invoke for a directed edge in the
// mapping graph.
type EdgeKind int

const (
	ObfToMojang EdgeKind = iota
	MojangToObf
	ObfToFabricIntermediary
	FabricIntermediaryToObf
)

// loaderFunc loads the BaseMapper for one graph edge. Edge loaders are
// injected rather than hardwired to network calls so the graph can be
// exercised with fakes in tests; production code wires them in NewGraph.
type loaderFunc func(ctx context.Context, version string) (*BaseMapper, error)

// Graph is a directed graph whose nodes are names.NamesType and whose
// edges are labelled with an EdgeKind. The initial edge set is
// {Obf<->Mojang, Obf<->FabricIntermediary}, matching spec.md §3. A Graph
// does no I/O itself and is immutable once constructed; the process
// constructs one and reuses it for the CLI's lifetime.
type Graph struct {
	// adjacency[from][to] = edge kind. A dense map of maps is sufficient
	// for a 3-node graph; see spec.md §9.
	adjacency map[names.NamesType]map[names.NamesType]EdgeKind
	loaders   map[EdgeKind]loaderFunc
}

// NewGraph constructs the production mapping graph, wired to the real
// Mojang and Fabric sources backed by cache. loadMojang's and
// loadFabricIntermediary's natural (unflipped) direction follows their
// source format: Mojang's proguard mappings read readable-name ->
// obfuscated-name (Mojang -> Obfuscated); Fabric's tiny-v2 mappings read
// namespace_a=official -> namespace_b=intermediary (Obfuscated ->
// FabricIntermediary).
func NewGraph(cache *Cache) *Graph {
	return newGraphWithLoaders(map[EdgeKind]loaderFunc{
		ObfToMojang: func(ctx context.Context, v string) (*BaseMapper, error) {
			return loadMojang(ctx, cache, v, true)
		},
		MojangToObf: func(ctx context.Context, v string) (*BaseMapper, error) {
			return loadMojang(ctx, cache, v, false)
		},
		ObfToFabricIntermediary: func(ctx context.Context, v string) (*BaseMapper, error) {
			return loadFabricIntermediary(ctx, cache, v, false)
		},
		FabricIntermediaryToObf: func(ctx context.Context, v string) (*BaseMapper, error) {
			return loadFabricIntermediary(ctx, cache, v, true)
		},
	})
}

func newGraphWithLoaders(loaders map[EdgeKind]loaderFunc) *Graph {
	g := &Graph{
		adjacency: make(map[names.NamesType]map[names.NamesType]EdgeKind),
		loaders:   loaders,
	}
	g.addEdge(names.Obfuscated, names.Mojang, ObfToMojang)
	g.addEdge(names.Mojang, names.Obfuscated, MojangToObf)
	g.addEdge(names.Obfuscated, names.FabricIntermediary, ObfToFabricIntermediary)
	g.addEdge(names.FabricIntermediary, names.Obfuscated, FabricIntermediaryToObf)
	return g
}

func (g *Graph) addEdge(from, to names.NamesType, kind EdgeKind) {
	if g.adjacency[from] == nil {
		g.adjacency[from] = make(map[names.NamesType]EdgeKind)
	}
	g.adjacency[from][to] = kind
}

// shortestPath runs breadth-first search (equivalent to A* with a zero
// heuristic and uniform edge cost, per spec.md §4.1) from "from" to "to".
// Ties are broken deterministically by visiting each node's outgoing edges
// in names.All() order, the graph's canonical node order.
func (g *Graph) shortestPath(from, to names.NamesType) []names.NamesType {
	if from == to {
		return []names.NamesType{from}
	}
	prev := map[names.NamesType]names.NamesType{from: from}
	visited := map[names.NamesType]bool{from: true}
	queue := []names.NamesType{from}
	order := names.All()

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range order {
			if _, ok := g.adjacency[cur][next]; !ok || visited[next] {
				continue
			}
			visited[next] = true
			prev[next] = cur
			if next == to {
				return reconstructPath(prev, from, to)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func reconstructPath(prev map[names.NamesType]names.NamesType, from, to names.NamesType) []names.NamesType {
	var path []names.NamesType
	for n := to; ; n = prev[n] {
		path = append([]names.NamesType{n}, path...)
		if n == from {
			break
		}
	}
	return path
}

// IdentityMapper is returned by GenerateMapper when from == to; see the
// "self-mapping" Open Question, resolved in SPEC_FULL.md §3.6: a trivial
// (from, from) request is treated as a valid, if useless, conversion
// rather than an error.
type IdentityMapper struct {
	Naming names.NamesType
}

// String implements fmt.Stringer for diagnostics.
func (m IdentityMapper) String() string {
	return m.Naming.String() + " -> " + m.Naming.String() + " (identity)"
}

// MapClass always returns name unchanged.
func (IdentityMapper) MapClass(name string) (string, bool) { return name, true }

// MapMethod always returns a single candidate equal to the input.
func (IdentityMapper) MapMethod(fromClassName, name string, descriptor *types.Descriptor) []types.MethodCandidate {
	d := types.Descriptor{}
	if descriptor != nil {
		d = *descriptor
	}
	return []types.MethodCandidate{{Class: fromClassName, ID: types.MethodId{Name: name, Descriptor: d}}}
}

// GenerateMapper finds a shortest path from "from" to "to" in g, loads
// every edge along it in order, and composes the results into a single
// types.MethodMapper. A path of k nodes yields k-1 edges; if k-1 == 1 the
// result is the loaded BaseMapper directly, otherwise a CompositeMapper.
func GenerateMapper(ctx context.Context, g *Graph, version string, from, to names.NamesType) (types.MethodMapper, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "mapping/GenerateMapper",
		"version", version, "from", from.String(), "to", to.String())

	if from == to {
		zlog.Info(ctx).Msg("from and to are identical; returning identity mapper")
		return IdentityMapper{Naming: from}, nil
	}

	path := g.shortestPath(from, to)
	if path == nil {
		return nil, newErr(KindUnsupportedConversion, nil, "no path from %s to %s", from, to)
	}
	zlog.Debug(ctx).Int("path_len", len(path)).Msg("found mapping path")

	mappers := make([]*BaseMapper, 0, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		src, dst := path[i], path[i+1]
		kind, ok := g.adjacency[src][dst]
		if !ok {
			return nil, newErr(KindInternalInvariant, nil, "shortest path produced an edge %s -> %s with no loader", src, dst)
		}
		loader, ok := g.loaders[kind]
		if !ok {
			return nil, newErr(KindInternalInvariant, nil, "no loader registered for edge kind %d", kind)
		}
		loaded, err := loader(ctx, version)
		if err != nil {
			return nil, fmt.Errorf("mapping load failure for edge %s -> %s: %w", src, dst, err)
		}
		if loaded.From != src || loaded.To != dst {
			return nil, newErr(KindInternalInvariant, nil,
				"loaded mapper endpoints (%s -> %s) disagree with requested edge (%s -> %s)",
				loaded.From, loaded.To, src, dst)
		}
		mappers = append(mappers, loaded)
	}

	if len(mappers) == 1 {
		return mappers[0], nil
	}
	return &CompositeMapper{Mappers: mappers}, nil
}

