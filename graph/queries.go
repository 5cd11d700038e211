package graph

import "github.com/tangentspace/collide/object"

// Pair names the two objects an interaction connects.
type Pair struct {
	A, B        object.Handle
	Interaction *Interaction
}

func (g *Graph) pair(e EdgeIndex) Pair {
	a, b := g.EdgeEndpoints(e)
	return Pair{A: g.NodeObject(a), B: g.NodeObject(b), Interaction: g.Edge(e)}
}

// InteractionPairs returns every interaction in the graph. When
// effectiveOnly is true, interactions that have not yet produced a real
// touching condition (empty manifold, or Disjoint proximity) are omitted.
func (g *Graph) InteractionPairs(effectiveOnly bool) []Pair {
	var out []Pair
	g.EachEdge(func(e EdgeIndex) {
		p := g.pair(e)
		if effectiveOnly && !p.Interaction.IsEffective() {
			return
		}
		out = append(out, p)
	})
	return out
}

// ContactPairs returns every Contact-kind interaction in the graph.
func (g *Graph) ContactPairs(effectiveOnly bool) []Pair {
	var out []Pair
	g.EachEdge(func(e EdgeIndex) {
		p := g.pair(e)
		if p.Interaction.Kind != InteractionContact {
			return
		}
		if effectiveOnly && !p.Interaction.IsEffective() {
			return
		}
		out = append(out, p)
	})
	return out
}

// ProximityPairs returns every Proximity-kind interaction in the graph.
func (g *Graph) ProximityPairs(effectiveOnly bool) []Pair {
	var out []Pair
	g.EachEdge(func(e EdgeIndex) {
		p := g.pair(e)
		if p.Interaction.Kind != InteractionProximity {
			return
		}
		if effectiveOnly && !p.Interaction.IsEffective() {
			return
		}
		out = append(out, p)
	})
	return out
}

// InteractionsWith returns every interaction touching the object at idx.
func (g *Graph) InteractionsWith(idx NodeIndex, effectiveOnly bool) []Pair {
	var out []Pair
	for _, e := range g.EdgesOf(idx) {
		p := g.pair(e)
		if effectiveOnly && !p.Interaction.IsEffective() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ContactsWith returns every Contact-kind interaction touching idx.
func (g *Graph) ContactsWith(idx NodeIndex, effectiveOnly bool) []Pair {
	var out []Pair
	for _, e := range g.EdgesOf(idx) {
		p := g.pair(e)
		if p.Interaction.Kind != InteractionContact {
			continue
		}
		if effectiveOnly && !p.Interaction.IsEffective() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ProximitiesWith returns every Proximity-kind interaction touching idx.
func (g *Graph) ProximitiesWith(idx NodeIndex, effectiveOnly bool) []Pair {
	var out []Pair
	for _, e := range g.EdgesOf(idx) {
		p := g.pair(e)
		if p.Interaction.Kind != InteractionProximity {
			continue
		}
		if effectiveOnly && !p.Interaction.IsEffective() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CollisionObjectsInteractingWith returns the handles of every object with
// a live (any-kind) interaction with idx.
func (g *Graph) CollisionObjectsInteractingWith(idx NodeIndex) []object.Handle {
	neighbors := g.Neighbors(idx)
	out := make([]object.Handle, len(neighbors))
	for i, n := range neighbors {
		out[i] = g.NodeObject(n)
	}
	return out
}

// CollisionObjectsInContactWith returns the handles of every object
// effectively in contact with idx.
func (g *Graph) CollisionObjectsInContactWith(idx NodeIndex) []object.Handle {
	var out []object.Handle
	for _, e := range g.EdgesOf(idx) {
		inter := g.Edge(e)
		if inter.Kind != InteractionContact || !inter.IsEffective() {
			continue
		}
		a, b := g.EdgeEndpoints(e)
		other := a
		if a == idx {
			other = b
		}
		out = append(out, g.NodeObject(other))
	}
	return out
}

// CollisionObjectsInProximityOf returns the handles of every object
// effectively in proximity with idx.
func (g *Graph) CollisionObjectsInProximityOf(idx NodeIndex) []object.Handle {
	var out []object.Handle
	for _, e := range g.EdgesOf(idx) {
		inter := g.Edge(e)
		if inter.Kind != InteractionProximity || !inter.IsEffective() {
			continue
		}
		a, b := g.EdgeEndpoints(e)
		other := a
		if a == idx {
			other = b
		}
		out = append(out, g.NodeObject(other))
	}
	return out
}
