// Package graph implements the interaction graph: an undirected multigraph
// (constrained in practice to at most one edge per unordered pair) whose
// nodes are live collision objects and whose edges are Contact or
// Proximity interactions between them.
//
// Node and edge storage is dense and swap-remove based, mirroring
// petgraph's Graph - removing a node or edge moves the last entry into the
// freed slot rather than leaving a hole. RemoveNode reports the object
// whose node moved so the caller (package world) can fix up its own
// back-reference into the graph; RemoveEdge fixes up the moved edge's
// references internally and reports nothing.
package graph

import "github.com/tangentspace/collide/object"

// NodeIndex is a position in the graph's dense node array. It is only
// stable until the next RemoveNode call removes a *different* node whose
// former last-slot occupant gets swapped into a lower index - see
// RemoveNode's displaced return value.
type NodeIndex uint32

// InvalidNodeIndex marks "no node".
const InvalidNodeIndex NodeIndex = ^NodeIndex(0)

// EdgeIndex is a position in the graph's dense edge array, with the same
// swap-remove caveat as NodeIndex.
type EdgeIndex uint32

// InvalidEdgeIndex marks "no edge".
const InvalidEdgeIndex EdgeIndex = ^EdgeIndex(0)

type nodeEntry struct {
	object object.Handle
	edges  []EdgeIndex
}

type edgeEntry struct {
	a, b        NodeIndex
	interaction *Interaction
}

type pairKey struct {
	lo, hi NodeIndex
}

func makePairKey(a, b NodeIndex) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// Graph is the interaction graph.
type Graph struct {
	nodes []nodeEntry
	edges []edgeEntry
	index map[pairKey]EdgeIndex
}

// New creates an empty interaction graph.
func New() *Graph {
	return &Graph{index: make(map[pairKey]EdgeIndex)}
}

// AddNode inserts a node for h and returns its index.
func (g *Graph) AddNode(h object.Handle) NodeIndex {
	g.nodes = append(g.nodes, nodeEntry{object: h})
	return NodeIndex(len(g.nodes) - 1)
}

// NodeObject returns the collision-object handle stored at idx.
func (g *Graph) NodeObject(idx NodeIndex) object.Handle {
	return g.nodes[idx].object
}

// NumNodes reports the number of live nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges reports the number of live edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// RemoveNode deletes the node at idx along with every edge incident to it,
// and reports the node (if any) that was moved into idx to keep the
// backing array dense. Callers must update the displaced object's stored
// graph index to idx when hasDisplaced is true.
func (g *Graph) RemoveNode(idx NodeIndex) (removed object.Handle, displaced object.Handle, hasDisplaced bool) {
	n := g.nodes[idx]
	removed = n.object

	// Remove incident edges first; re-read the live list each time since
	// RemoveEdge unlinks the edge from it and may renumber another edge.
	for len(g.nodes[idx].edges) > 0 {
		g.RemoveEdge(g.nodes[idx].edges[0])
	}

	last := NodeIndex(len(g.nodes) - 1)
	if idx != last {
		g.nodes[idx] = g.nodes[last]
		displaced = g.nodes[idx].object
		hasDisplaced = true
		for _, e := range g.nodes[idx].edges {
			delete(g.index, makePairKey(g.edges[e].a, g.edges[e].b))
			if g.edges[e].a == last {
				g.edges[e].a = idx
			}
			if g.edges[e].b == last {
				g.edges[e].b = idx
			}
			key := makePairKey(g.edges[e].a, g.edges[e].b)
			g.index[key] = e
		}
	}
	g.nodes = g.nodes[:last]
	return removed, displaced, hasDisplaced
}

func removeEdgeRef(list []EdgeIndex, e EdgeIndex) []EdgeIndex {
	for i, x := range list {
		if x == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func replaceEdgeRef(list []EdgeIndex, from, to EdgeIndex) {
	for i, x := range list {
		if x == from {
			list[i] = to
			return
		}
	}
}

// AddEdge creates an interaction between a and b. Callers must ensure no
// edge already exists for this pair (FindEdge) - AddEdge trusts the
// caller rather than silently merging, mirroring the invariant that the
// graph holds at most one edge per unordered pair.
func (g *Graph) AddEdge(a, b NodeIndex, interaction *Interaction) EdgeIndex {
	g.edges = append(g.edges, edgeEntry{a: a, b: b, interaction: interaction})
	e := EdgeIndex(len(g.edges) - 1)
	g.nodes[a].edges = append(g.nodes[a].edges, e)
	g.nodes[b].edges = append(g.nodes[b].edges, e)
	g.index[makePairKey(a, b)] = e
	return e
}

// RemoveEdge deletes edge e.
func (g *Graph) RemoveEdge(e EdgeIndex) {
	edge := g.edges[e]
	delete(g.index, makePairKey(edge.a, edge.b))
	g.nodes[edge.a].edges = removeEdgeRef(g.nodes[edge.a].edges, e)
	g.nodes[edge.b].edges = removeEdgeRef(g.nodes[edge.b].edges, e)

	last := EdgeIndex(len(g.edges) - 1)
	if e != last {
		g.edges[e] = g.edges[last]
		replaceEdgeRef(g.nodes[g.edges[e].a].edges, last, e)
		replaceEdgeRef(g.nodes[g.edges[e].b].edges, last, e)
		g.index[makePairKey(g.edges[e].a, g.edges[e].b)] = e
	}
	g.edges = g.edges[:last]
}

// FindEdge returns the edge between a and b, if any.
func (g *Graph) FindEdge(a, b NodeIndex) (EdgeIndex, bool) {
	e, ok := g.index[makePairKey(a, b)]
	return e, ok
}

// Edge returns the interaction stored on e.
func (g *Graph) Edge(e EdgeIndex) *Interaction {
	return g.edges[e].interaction
}

// EdgeEndpoints returns the two node indices an edge connects.
func (g *Graph) EdgeEndpoints(e EdgeIndex) (NodeIndex, NodeIndex) {
	return g.edges[e].a, g.edges[e].b
}

// Neighbors returns the node indices adjacent to idx.
func (g *Graph) Neighbors(idx NodeIndex) []NodeIndex {
	edges := g.nodes[idx].edges
	out := make([]NodeIndex, 0, len(edges))
	for _, e := range edges {
		a, b := g.edges[e].a, g.edges[e].b
		if a == idx {
			out = append(out, b)
		} else {
			out = append(out, a)
		}
	}
	return out
}

// EdgesOf returns the edge indices incident to idx.
func (g *Graph) EdgesOf(idx NodeIndex) []EdgeIndex {
	return g.nodes[idx].edges
}

// EachEdge calls visit for every live edge in the graph.
func (g *Graph) EachEdge(visit func(EdgeIndex)) {
	for e := range g.edges {
		visit(EdgeIndex(e))
	}
}
