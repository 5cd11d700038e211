package narrowphase

import (
	"fmt"

	"github.com/tangentspace/collide/graph"
	"github.com/tangentspace/collide/object"
)

// ErrIncompatibleQueryTypes marks an existing Contact edge that Update
// finds with an endpoint whose query is no longer Contacts. New pairs with
// mixed query types never raise it: HandleInteraction makes them Proximity
// edges.
var ErrIncompatibleQueryTypes = fmt.Errorf("collide/narrowphase: incompatible query types")

// ContactEventKind distinguishes a manifold's touching-state transitions.
type ContactEventKind int

const (
	// ContactStarted: the manifold went from empty to non-empty.
	ContactStarted ContactEventKind = iota
	// ContactStopped: the manifold went from non-empty to empty, or the
	// interaction was torn down while still touching.
	ContactStopped
)

// ContactEvent records one manifold touching-state transition.
type ContactEvent struct {
	Kind ContactEventKind
	A, B object.Handle
}

// ProximityEvent records one proximity-status transition.
type ProximityEvent struct {
	A, B              object.Handle
	Previous, Current graph.ProximityStatus
}

// NarrowPhase drives the interaction graph's edges every step: classifying
// newly-started broad-phase pairs into Contact or Proximity interactions,
// running each edge's detector, and recording the events produced.
type NarrowPhase struct {
	contactDispatcher   ContactDispatcher
	proximityDispatcher ProximityDispatcher
	pool                *ContactIDPool

	contactEvents   []ContactEvent
	proximityEvents []ProximityEvent
}

// New builds a narrow phase wired to the given dispatchers and contact ID
// pool.
func New(contactDispatcher ContactDispatcher, proximityDispatcher ProximityDispatcher, pool *ContactIDPool) *NarrowPhase {
	return &NarrowPhase{
		contactDispatcher:   contactDispatcher,
		proximityDispatcher: proximityDispatcher,
		pool:                pool,
	}
}

// ClearEvents empties both event pools. Called once per world step, before
// the broad and narrow phases run.
func (np *NarrowPhase) ClearEvents() {
	np.contactEvents = np.contactEvents[:0]
	np.proximityEvents = np.proximityEvents[:0]
}

// ContactEvents returns the contact events produced by the most recent
// Update (and any HandleInteraction/HandleCollisionObjectRemoved calls
// since the last ClearEvents).
func (np *NarrowPhase) ContactEvents() []ContactEvent { return np.contactEvents }

// ProximityEvents returns the proximity events produced since the last
// ClearEvents.
func (np *NarrowPhase) ProximityEvents() []ProximityEvent { return np.proximityEvents }

// HandleInteraction reacts to a broad-phase pair transition for the pair
// (nodeA, nodeB). started == true creates the interaction graph edge (if
// the dispatcher recognises the shape pair); started == false tears it
// down.
//
// Mirrors narrow_phase.rs's handle_interaction: a dispatcher miss is
// silent (no edge is created, nothing is logged as an error). A pair only
// becomes a Contact edge when both endpoints ask for Contacts; every other
// combination - including one Contacts endpoint paired with one Proximity
// endpoint - becomes a Proximity edge, the same "otherwise proximity" rule
// narrow_phase.rs's (_, Proximity(_)) | (Proximity(_), _) match arm
// encodes.
func (np *NarrowPhase) HandleInteraction(g *graph.Graph, objects *object.Slab, nodeA, nodeB graph.NodeIndex, started bool) {
	if started {
		if _, ok := g.FindEdge(nodeA, nodeB); ok {
			return
		}

		ha, hb := g.NodeObject(nodeA), g.NodeObject(nodeB)
		oa, ob := objects.MustGet(ha), objects.MustGet(hb)
		qa, qb := oa.QueryType(), ob.QueryType()

		if qa.Kind == object.Contacts && qb.Kind == object.Contacts {
			gen, ok := np.contactDispatcher.FindContactGenerator(oa.Shape(), ob.Shape())
			if !ok {
				return
			}
			g.AddEdge(nodeA, nodeB, graph.NewContactInteraction(gen))
			return
		}

		det, ok := np.proximityDispatcher.FindProximityDetector(oa.Shape(), ob.Shape())
		if !ok {
			return
		}
		g.AddEdge(nodeA, nodeB, graph.NewProximityInteraction(det))
		return
	}

	e, ok := g.FindEdge(nodeA, nodeB)
	if !ok {
		return
	}
	np.tearDownEdge(g, objects, e)
}

func (np *NarrowPhase) tearDownEdge(g *graph.Graph, objects *object.Slab, e graph.EdgeIndex) {
	a, b := g.EdgeEndpoints(e)
	ha, hb := g.NodeObject(a), g.NodeObject(b)
	inter := g.Edge(e)

	if inter.Kind == graph.InteractionContact {
		if inter.Manifold.Len() > 0 {
			np.contactEvents = append(np.contactEvents, ContactEvent{Kind: ContactStopped, A: ha, B: hb})
		}
		np.pool.FreeManifold(inter.Manifold)
	} else if inter.ProximityState != graph.Disjoint {
		np.proximityEvents = append(np.proximityEvents, ProximityEvent{A: ha, B: hb, Previous: inter.ProximityState, Current: graph.Disjoint})
	}

	g.RemoveEdge(e)
}

// UpdateContact re-runs a Contact edge's manifold generator. It returns
// false if the shapes are now separated beyond any further prediction and
// the edge should be dropped entirely.
func (np *NarrowPhase) UpdateContact(g *graph.Graph, objects *object.Slab, e graph.EdgeIndex, prediction float32) bool {
	a, b := g.EdgeEndpoints(e)
	ha, hb := g.NodeObject(a), g.NodeObject(b)
	oa, ob := objects.MustGet(ha), objects.MustGet(hb)
	inter := g.Edge(e)

	wasTouching := inter.Manifold.Len() > 0
	stillClose := inter.ContactGenerator.GenerateContacts(oa, ob, prediction, inter.Manifold)
	nowTouching := inter.Manifold.Len() > 0

	if nowTouching && !wasTouching {
		np.contactEvents = append(np.contactEvents, ContactEvent{Kind: ContactStarted, A: ha, B: hb})
	} else if !nowTouching && wasTouching {
		np.contactEvents = append(np.contactEvents, ContactEvent{Kind: ContactStopped, A: ha, B: hb})
	}

	return stillClose
}

// UpdateProximity re-runs a Proximity edge's detector.
func (np *NarrowPhase) UpdateProximity(g *graph.Graph, objects *object.Slab, e graph.EdgeIndex, margin float32) {
	a, b := g.EdgeEndpoints(e)
	ha, hb := g.NodeObject(a), g.NodeObject(b)
	oa, ob := objects.MustGet(ha), objects.MustGet(hb)
	inter := g.Edge(e)

	current := inter.ProximityDetector.UpdateProximity(oa, ob, margin)
	if current != inter.ProximityState {
		np.proximityEvents = append(np.proximityEvents, ProximityEvent{A: ha, B: hb, Previous: inter.ProximityState, Current: current})
		inter.ProximityState = current
	}
}

// Update re-evaluates every edge with at least one endpoint timestamped to
// the current step - i.e. every object whose pose, shape or deformation
// state changed since the previous step - dropping edges whose shapes have
// drifted beyond any further contact prediction, then runs
// garbage_collect_ids over the whole graph.
//
// A Contact edge whose endpoints no longer both carry a Contacts query
// (one of them was reassigned to Proximity via SetQueryType after the edge
// was created) panics with ErrIncompatibleQueryTypes: unlike the "otherwise
// proximity" rule HandleInteraction applies when an edge doesn't exist yet,
// an already-Contact edge becoming unsupportable this way is a caller
// configuration error, not a classification choice.
func (np *NarrowPhase) Update(g *graph.Graph, objects *object.Slab, stepTimestamp uint64, defaultProximityMargin float32) {
	var stale []graph.EdgeIndex

	g.EachEdge(func(e graph.EdgeIndex) {
		a, b := g.EdgeEndpoints(e)
		ha, hb := g.NodeObject(a), g.NodeObject(b)
		oa, ob := objects.MustGet(ha), objects.MustGet(hb)
		if oa.Timestamp != stepTimestamp && ob.Timestamp != stepTimestamp {
			return
		}

		inter := g.Edge(e)
		qa, qb := oa.QueryType(), ob.QueryType()

		if inter.Kind == graph.InteractionContact {
			linear, _, ok := object.CombineForContact(qa, qb)
			if !ok {
				panic(fmt.Errorf("%w: %v / %v", ErrIncompatibleQueryTypes, ha, hb))
			}
			if !np.UpdateContact(g, objects, e, linear) {
				stale = append(stale, e)
			}
			return
		}

		margin := qa.QueryLimit() + qb.QueryLimit()
		if margin <= 0 {
			margin = defaultProximityMargin
		}
		np.UpdateProximity(g, objects, e, margin)
	})

	for _, e := range stale {
		np.tearDownEdge(g, objects, e)
	}

	np.garbageCollectIDs(g)
}

// garbageCollectIDs scans every live Contact manifold in the graph - not
// just the edges touched this step - and frees whatever its feature cache
// left unclaimed back to the pool. A generator claims a cached ID via
// ContactManifold.TakeCachedID when the feature that produced it is still
// in contact; anything left in the cache by the time this runs identifies
// a feature that stopped producing a contact, so its ID is no longer
// reachable from any live contact and is safe to recycle.
func (np *NarrowPhase) garbageCollectIDs(g *graph.Graph) {
	g.EachEdge(func(e graph.EdgeIndex) {
		inter := g.Edge(e)
		if inter.Kind != graph.InteractionContact {
			return
		}
		for _, id := range inter.Manifold.DrainStaleIDs() {
			np.pool.Free(id)
		}
	})
}

// HandleCollisionObjectRemoved tears down every interaction touching idx,
// emitting stopped events for whichever of them were effective, ahead of
// the caller removing idx's graph node.
func (np *NarrowPhase) HandleCollisionObjectRemoved(g *graph.Graph, objects *object.Slab, idx graph.NodeIndex) {
	for edges := g.EdgesOf(idx); len(edges) > 0; edges = g.EdgesOf(idx) {
		np.tearDownEdge(g, objects, edges[0])
	}
}
