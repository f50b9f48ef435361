package graph

import (
	"container/heap"
	"slices"
)

// Graph is a DAG over string IDs. The zero value is not usable; call New.
type Graph struct {
	ids      []string
	index    map[string]int
	parents  [][]int
	children [][]int
	reach    []bitset // reach[i] holds every node reachable from i by one or more edges
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Has reports whether id is a node.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// AddNode inserts id and returns its insertion index.
func (g *Graph) AddNode(id string) (int, error) {
	if _, ok := g.index[id]; ok {
		return 0, &GraphError{Kind: ErrDuplicateNode, Path: []string{id}}
	}
	i := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = i
	g.parents = append(g.parents, nil)
	g.children = append(g.children, nil)
	g.reach = append(g.reach, nil)
	return i, nil
}

// AddEdge records that from must precede to. Adding an existing edge is a
// no-op. An edge that would close a cycle, including a self edge, is
// rejected with ErrCycle and the graph is left unchanged.
func (g *Graph) AddEdge(from, to string) error {
	u, err := g.lookup(from)
	if err != nil {
		return err
	}
	v, err := g.lookup(to)
	if err != nil {
		return err
	}
	if u == v || g.reach[v].has(u) {
		return &GraphError{Kind: ErrCycle, Path: append(g.path(v, u), to)}
	}
	if slices.Contains(g.children[u], v) {
		return nil
	}

	g.children[u] = append(g.children[u], v)
	g.parents[v] = append(g.parents[v], u)

	// Everything that reaches u (and u itself) now reaches v and all of v's
	// descendants.
	for x := range g.reach {
		if x == u || g.reach[x].has(u) {
			g.reach[x].set(v)
			g.reach[x].union(g.reach[v])
		}
	}
	return nil
}

// Reaches reports whether a path from -> ... -> to exists. Every node reaches
// itself. Unknown IDs reach nothing.
func (g *Graph) Reaches(from, to string) bool {
	u, ok := g.index[from]
	if !ok {
		return false
	}
	v, ok := g.index[to]
	if !ok {
		return false
	}
	return u == v || g.reach[u].has(v)
}

// HasEdge reports whether the direct edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	u, ok := g.index[from]
	if !ok {
		return false
	}
	v, ok := g.index[to]
	if !ok {
		return false
	}
	return slices.Contains(g.children[u], v)
}

// Parents returns the direct predecessors of id in edge insertion order.
func (g *Graph) Parents(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.names(g.parents[i])
}

// Descendants returns the number of nodes reachable from id.
func (g *Graph) Descendants(id string) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	return g.reach[i].count()
}

// TopologicalOrder returns every node such that each node follows all of its
// ancestors. Among nodes whose ancestors are already placed, the one inserted
// first comes first.
func (g *Graph) TopologicalOrder() []string {
	indeg := make([]int, len(g.ids))
	for i := range g.parents {
		indeg[i] = len(g.parents[i])
	}

	ready := &intMinHeap{}
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]string, 0, len(g.ids))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		out = append(out, g.ids[n])
		for _, m := range g.children[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return out
}

func (g *Graph) lookup(id string) (int, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, &GraphError{Kind: ErrUnknownNode, Path: []string{id}}
	}
	return i, nil
}

func (g *Graph) names(idx []int) []string {
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = g.ids[n]
	}
	return out
}

// path returns the IDs along a shortest path from -> to, breadth first over
// children in insertion order. It assumes to is reachable from from.
func (g *Graph) path(from, to int) []string {
	if from == to {
		return []string{g.ids[from]}
	}
	prev := make([]int, len(g.ids))
	for i := range prev {
		prev[i] = -1
	}
	prev[from] = from
	queue := []int{from}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == to {
			break
		}
		for _, m := range g.children[n] {
			if prev[m] == -1 {
				prev[m] = n
				queue = append(queue, m)
			}
		}
	}
	if prev[to] == -1 {
		return []string{g.ids[from], g.ids[to]}
	}
	var rev []string
	for n := to; n != from; n = prev[n] {
		rev = append(rev, g.ids[n])
	}
	rev = append(rev, g.ids[from])
	slices.Reverse(rev)
	return rev
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
