package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangentspace/collide/object"
)

type stubProximityDetector struct{}

func (stubProximityDetector) UpdateProximity(a, b *object.Object, margin float32) ProximityStatus {
	return Disjoint
}

func TestRemoveNodeReportsDisplaced(t *testing.T) {
	g := New()
	na := g.AddNode(object.Handle{})
	nb := g.AddNode(object.Handle{})
	nc := g.AddNode(object.Handle{})

	_, displaced, has := g.RemoveNode(na)
	require.True(t, has, "removing a non-last node must report a displaced node")
	assert.Equal(t, g.NodeObject(na), displaced)
	assert.Equal(t, 2, g.NumNodes())

	_ = nb
	_ = nc
}

func TestRemoveLastNodeReportsNoDisplacement(t *testing.T) {
	g := New()
	g.AddNode(object.Handle{})
	last := g.AddNode(object.Handle{})

	_, _, has := g.RemoveNode(last)
	assert.False(t, has)
	assert.Equal(t, 1, g.NumNodes())
}

func TestAtMostOneEdgePerPair(t *testing.T) {
	g := New()
	a := g.AddNode(object.Handle{})
	b := g.AddNode(object.Handle{})

	_, ok := g.FindEdge(a, b)
	assert.False(t, ok)

	g.AddEdge(a, b, NewProximityInteraction(stubProximityDetector{}))
	e, ok := g.FindEdge(a, b)
	require.True(t, ok)
	assert.Equal(t, 1, g.NumEdges())

	// FindEdge is symmetric regardless of argument order.
	e2, ok := g.FindEdge(b, a)
	require.True(t, ok)
	assert.Equal(t, e, e2)
}

func TestRemoveNodeRemovesIncidentEdges(t *testing.T) {
	g := New()
	a := g.AddNode(object.Handle{})
	b := g.AddNode(object.Handle{})
	c := g.AddNode(object.Handle{})

	g.AddEdge(a, b, NewProximityInteraction(stubProximityDetector{}))
	g.AddEdge(a, c, NewProximityInteraction(stubProximityDetector{}))
	assert.Equal(t, 2, g.NumEdges())

	g.RemoveNode(a)
	assert.Equal(t, 0, g.NumEdges())
}

func TestInteractionPairsEffectiveOnlyFiltersEmptyManifold(t *testing.T) {
	g := New()
	a := g.AddNode(object.Handle{})
	b := g.AddNode(object.Handle{})
	g.AddEdge(a, b, NewContactInteraction(nil))

	assert.Len(t, g.InteractionPairs(false), 1)
	assert.Len(t, g.InteractionPairs(true), 0)

	g.Edge(mustEdge(t, g, a, b)).Manifold.Push(Contact{})
	assert.Len(t, g.InteractionPairs(true), 1)
}

func mustEdge(t *testing.T, g *Graph, a, b NodeIndex) EdgeIndex {
	t.Helper()
	e, ok := g.FindEdge(a, b)
	require.True(t, ok)
	return e
}
