package metrics

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/corvidae/augur/pkg/model"
)

// Graph is the directed coupling graph over a registry's classes. Nodes are
// registry positions, adjacency is held as bitmaps so transitive closures
// stay cheap even on wide registries.
type Graph struct {
	names []string
	index map[string]int
	adj   []*roaring.Bitmap
}

// NewGraph builds the coupling graph from the resolved registry.
func NewGraph(r *model.Registry) *Graph {
	names := r.Names()
	g := &Graph{
		names: names,
		index: make(map[string]int, len(names)),
		adj:   make([]*roaring.Bitmap, len(names)),
	}
	for i, n := range names {
		g.index[n] = i
	}
	for i, n := range names {
		bm := roaring.New()
		c, _ := r.Class(n)
		for _, target := range c.Coupled() {
			if j, ok := g.index[target]; ok && j != i {
				bm.Add(uint32(j))
			}
		}
		g.adj[i] = bm
	}
	return g
}

// Size returns the number of classes in the graph.
func (g *Graph) Size() int { return len(g.names) }

// EdgeCount returns the number of coupling edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, bm := range g.adj {
		total += int(bm.GetCardinality())
	}
	return total
}

// Reach returns the transitive efferent reach of a class: how many other
// classes are reachable by following coupling edges, however indirectly.
func (g *Graph) Reach(name string) int {
	i, ok := g.index[name]
	if !ok {
		return 0
	}

	seen := roaring.New()
	frontier := g.adj[i].Clone()
	for !frontier.IsEmpty() {
		seen.Or(frontier)
		next := roaring.New()
		it := frontier.Iterator()
		for it.HasNext() {
			next.Or(g.adj[int(it.Next())])
		}
		next.AndNot(seen)
		frontier = next
	}

	seen.Remove(uint32(i))
	return int(seen.GetCardinality())
}

// Cycles returns the strongly connected components with more than one
// member: the sets of classes coupled in a circle. Each component's names
// are sorted and components are ordered by their first name, so output is
// stable across runs.
func (g *Graph) Cycles() [][]string {
	dg := simple.NewDirectedGraph()
	for i := range g.names {
		dg.AddNode(simple.Node(i))
	}
	for i, bm := range g.adj {
		it := bm.Iterator()
		for it.HasNext() {
			j := int(it.Next())
			dg.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
		}
	}

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) < 2 {
			continue
		}
		names := make([]string, 0, len(scc))
		for _, n := range scc {
			names = append(names, g.names[int(n.ID())])
		}
		sort.Strings(names)
		cycles = append(cycles, names)
	}
	sort.Slice(cycles, func(a, b int) bool { return cycles[a][0] < cycles[b][0] })
	return cycles
}
