// Package world ties the broad phase, narrow phase and interaction graph
// together into the single entry point an application drives: add/remove
// objects, move them, and call Update once per step to bring contact and
// proximity state up to date.
package world

import (
	"github.com/tangentspace/collide/broadphase"
	"github.com/tangentspace/collide/config"
	"github.com/tangentspace/collide/graph"
	"github.com/tangentspace/collide/internal/colog"
	"github.com/tangentspace/collide/math32"
	"github.com/tangentspace/collide/narrowphase"
	"github.com/tangentspace/collide/object"
	"github.com/tangentspace/collide/shape"
)

// World is the collision pipeline orchestrator: collision object slab,
// broad phase, interaction graph and narrow phase, wired together and
// driven one step at a time by Update.
type World struct {
	cfg config.WorldConfig

	objects      *object.Slab
	bp           *broadphase.DBVT
	interactions *graph.Graph
	narrow       *narrowphase.NarrowPhase
	pool         *narrowphase.ContactIDPool

	pairFilters map[string]BroadPhasePairFilter

	timestamp uint64
	log       *colog.Logger
}

// New builds an empty World configured by cfg, using the default (Ball vs
// Ball only) contact/proximity dispatcher. Applications bringing their own
// shape library construct a World with NewWithDispatchers instead.
func New(cfg config.WorldConfig) *World {
	pool := narrowphase.NewContactIDPool()
	dispatcher := narrowphase.NewDefaultDispatcher(pool)
	return NewWithDispatchers(cfg, dispatcher, dispatcher, pool)
}

// NewWithDispatchers builds an empty World using caller-supplied
// dispatchers and the contact ID pool they were built against.
func NewWithDispatchers(cfg config.WorldConfig, contacts narrowphase.ContactDispatcher, proximity narrowphase.ProximityDispatcher, pool *narrowphase.ContactIDPool) *World {
	w := &World{
		cfg:          cfg,
		objects:      object.NewSlab(),
		bp:           broadphase.New(cfg.Margin),
		interactions: graph.New(),
		narrow:       narrowphase.New(contacts, proximity, pool),
		pool:         pool,
		pairFilters:  make(map[string]BroadPhasePairFilter),
		log:          colog.New("world", colog.Default),
	}
	return w
}

// DefaultContactsQuery builds a Contacts query policy using the world's
// configured default prediction distances.
func (w *World) DefaultContactsQuery() object.GeometricQuery {
	return object.NewContactsQuery(w.cfg.DefaultLinearPrediction, w.cfg.DefaultAngularPrediction)
}

// DefaultProximityQuery builds a Proximity query policy using the world's
// configured default margin.
func (w *World) DefaultProximityQuery() object.GeometricQuery {
	return object.NewProximityQuery(w.cfg.DefaultProximityMargin)
}

func (w *World) touch(obj *object.Object) {
	obj.Timestamp = w.timestamp
}

// Add inserts a new collision object and returns its handle.
func (w *World) Add(pose shape.Pose, shp shape.Shape, groups object.CollisionGroups, query object.GeometricQuery, data interface{}) object.Handle {
	obj := object.NewObject(pose, shp, groups, query, data)
	obj.Timestamp = w.timestamp
	h := w.objects.Insert(obj)

	stored := w.objects.MustGet(h)
	stored.SetHandle(h)

	nodeIdx := w.interactions.AddNode(h)
	stored.SetGraphIndex(object.GraphIndex(nodeIdx))

	proxy := w.bp.CreateProxy(stored.LoosenedAABB(), broadphase.ObjectRef(h.Pack()))
	stored.SetProxyHandle(object.ProxyHandle(proxy))

	w.log.Debug("added %v", h)
	return h
}

// Remove deletes the given collision objects, tearing down every
// interaction they were part of. Panics (via package object) if handles
// contains a repeat or a handle unknown to this world.
func (w *World) Remove(handles ...object.Handle) {
	object.CheckNoDuplicates(handles)

	proxies := make([]broadphase.ProxyHandle, 0, len(handles))
	for _, h := range handles {
		obj := w.objects.MustGet(h)
		nodeIdx := graph.NodeIndex(obj.GraphIndex())
		w.narrow.HandleCollisionObjectRemoved(w.interactions, w.objects, nodeIdx)
		proxies = append(proxies, broadphase.ProxyHandle(obj.ProxyHandle()))
	}
	w.bp.Remove(proxies, nil)

	for _, h := range handles {
		obj := w.objects.MustGet(h)
		nodeIdx := graph.NodeIndex(obj.GraphIndex())
		_, displacedHandle, hasDisplaced := w.interactions.RemoveNode(nodeIdx)
		if hasDisplaced {
			w.objects.MustGet(displacedHandle).SetGraphIndex(object.GraphIndex(nodeIdx))
		}
		w.objects.Remove(h)
		w.log.Debug("removed %v", h)
	}
}

// SetPosition moves an object to pose, with no swept prediction volume.
func (w *World) SetPosition(h object.Handle, pose shape.Pose) {
	w.SetPositionWithPrediction(h, pose, pose)
}

// SetPositionWithPrediction moves an object to pose, loosening its tracked
// AABB to also cover predicted (e.g. next-step) pose - giving the broad
// phase a conservative swept volume for fast-moving objects instead of
// just the object's resting footprint at pose.
func (w *World) SetPositionWithPrediction(h object.Handle, pose, predicted shape.Pose) {
	obj := w.objects.MustGet(h)
	obj.SetPose(pose)
	w.touch(obj)

	box := obj.Shape().AABB(&pose)
	predictedBox := obj.Shape().AABB(&predicted)
	box.Union(&predictedBox)
	box.ExpandByScalar(obj.QueryType().QueryLimit())

	w.bp.DeferredSetBoundingVolume(broadphase.ProxyHandle(obj.ProxyHandle()), box)
}

// SetShape installs a new shape reference for an object.
func (w *World) SetShape(h object.Handle, shp shape.Shape) {
	obj := w.objects.MustGet(h)
	obj.SetShape(shp)
	w.touch(obj)
	w.bp.DeferredSetBoundingVolume(broadphase.ProxyHandle(obj.ProxyHandle()), obj.LoosenedAABB())
}

// SetDeformations installs new deformation coordinates for an object.
func (w *World) SetDeformations(h object.Handle, coords []float32) {
	obj := w.objects.MustGet(h)
	obj.SetDeformations(coords)
	w.touch(obj)
	w.bp.DeferredSetBoundingVolume(broadphase.ProxyHandle(obj.ProxyHandle()), obj.LoosenedAABB())
}

// SetQueryType changes an object's query policy: bumps its timestamp,
// recomputes its loosened AABB under the new query limit, files a
// deferred broad-phase bounding-volume update, and forces the broad phase
// to re-evaluate every pair the object is part of. It does not touch any
// existing interaction - an edge already classified as Contact stays
// Contact even if one endpoint no longer asks for Contacts; the narrow
// phase surfaces that inconsistency itself on its next Update, via
// ErrIncompatibleQueryTypes, rather than this call papering over it with a
// silent teardown.
func (w *World) SetQueryType(h object.Handle, q object.GeometricQuery) {
	obj := w.objects.MustGet(h)
	obj.SetQueryType(q)
	w.touch(obj)

	proxy := broadphase.ProxyHandle(obj.ProxyHandle())
	w.bp.DeferredSetBoundingVolume(proxy, obj.LoosenedAABB())
	w.bp.DeferredRecomputeAllProximitiesWith(proxy)
}

// SetCollisionGroups changes an object's group-filtering descriptor and
// forces the broad phase to re-evaluate every pair it is part of.
func (w *World) SetCollisionGroups(h object.Handle, groups object.CollisionGroups) {
	obj := w.objects.MustGet(h)
	obj.SetCollisionGroups(groups)
	w.touch(obj)
	w.bp.DeferredRecomputeAllProximitiesWith(broadphase.ProxyHandle(obj.ProxyHandle()))
}

// RegisterBroadPhasePairFilter installs (or replaces) a named pair filter
// and forces every broad-phase pair to be re-evaluated against it.
func (w *World) RegisterBroadPhasePairFilter(name string, filter BroadPhasePairFilter) {
	w.pairFilters[name] = filter
	w.bp.DeferredRecomputeAllProximities()
}

// UnregisterBroadPhasePairFilter removes a named pair filter, if present,
// and forces every broad-phase pair to be re-evaluated without it.
func (w *World) UnregisterBroadPhasePairFilter(name string) {
	if _, ok := w.pairFilters[name]; !ok {
		return
	}
	delete(w.pairFilters, name)
	w.bp.DeferredRecomputeAllProximities()
}

// CollisionObject returns the object stored at h.
func (w *World) CollisionObject(h object.Handle) (*object.Object, bool) {
	return w.objects.Get(h)
}

// ContactEvents returns the contact start/stop events produced by the most
// recent Update.
func (w *World) ContactEvents() []narrowphase.ContactEvent {
	return w.narrow.ContactEvents()
}

// ProximityEvents returns the proximity transition events produced by the
// most recent Update.
func (w *World) ProximityEvents() []narrowphase.ProximityEvent {
	return w.narrow.ProximityEvents()
}

// Interactions exposes the interaction graph directly, for the pair-query
// family (InteractionPairs, ContactsWith, CollisionObjectsInContactWith,
// ...).
func (w *World) Interactions() *graph.Graph {
	return w.interactions
}

// Update runs one full pipeline step: clears the previous step's events,
// drains the broad phase's deferred AABB mutations (producing pair
// start/stop transitions), then re-runs the narrow phase over every edge
// touched by an object moved this step.
func (w *World) Update() {
	w.narrow.ClearEvents()
	w.bp.Update(w)
	w.narrow.Update(w.interactions, w.objects, w.timestamp, w.cfg.DefaultProximityMargin)

	w.log.Debug("step %d: %d objects, %d interactions", w.timestamp, w.objects.Len(), w.interactions.NumEdges())
	w.timestamp++
}

// IsInterferenceAllowed implements broadphase.InterferenceHandler.
func (w *World) IsInterferenceAllowed(a, b broadphase.ObjectRef) bool {
	oa, oka := w.objects.Get(object.UnpackHandle(uint64(a)))
	ob, okb := w.objects.Get(object.UnpackHandle(uint64(b)))
	if !oka || !okb {
		return false
	}
	if !oa.CollisionGroups().CanInteractWithGroups(ob.CollisionGroups()) {
		return false
	}
	for _, f := range w.pairFilters {
		if !f.IsPairValid(oa, ob) {
			return false
		}
	}
	return true
}

// InterferenceStarted implements broadphase.InterferenceHandler.
func (w *World) InterferenceStarted(a, b broadphase.ObjectRef) {
	oa, _ := w.objects.Get(object.UnpackHandle(uint64(a)))
	ob, _ := w.objects.Get(object.UnpackHandle(uint64(b)))
	w.narrow.HandleInteraction(w.interactions, w.objects, graph.NodeIndex(oa.GraphIndex()), graph.NodeIndex(ob.GraphIndex()), true)
}

// InterferenceStopped implements broadphase.InterferenceHandler.
func (w *World) InterferenceStopped(a, b broadphase.ObjectRef) {
	oa, _ := w.objects.Get(object.UnpackHandle(uint64(a)))
	ob, _ := w.objects.Get(object.UnpackHandle(uint64(b)))
	w.narrow.HandleInteraction(w.interactions, w.objects, graph.NodeIndex(oa.GraphIndex()), graph.NodeIndex(ob.GraphIndex()), false)
}

// InterferencesWithRay calls visit for every object whose shape the ray
// actually hits within maxToi (the broad phase's candidate set is narrowed
// with an exact Shape.ToiAndNormalWithRay test).
func (w *World) InterferencesWithRay(origin, dir math32.Vector3, maxToi float32, visit func(object.Handle, shape.RayHit)) {
	var ray math32.Ray
	ray.Set(&origin, &dir)

	w.bp.QueryRay(origin, dir, maxToi, func(p broadphase.ProxyHandle) {
		h := object.UnpackHandle(uint64(w.bp.Object(p)))
		obj, ok := w.objects.Get(h)
		if !ok {
			return
		}
		pose := obj.Pose()
		if hit, ok := obj.Shape().ToiAndNormalWithRay(&pose, &ray, maxToi); ok {
			visit(h, hit)
		}
	})
}

// InterferencesWithPoint calls visit for every object whose shape contains
// point.
func (w *World) InterferencesWithPoint(point math32.Vector3, visit func(object.Handle)) {
	w.bp.QueryPoint(point, func(p broadphase.ProxyHandle) {
		h := object.UnpackHandle(uint64(w.bp.Object(p)))
		obj, ok := w.objects.Get(h)
		if !ok {
			return
		}
		pose := obj.Pose()
		if obj.Shape().ContainsPoint(&pose, &point) {
			visit(h)
		}
	})
}

// InterferencesWithAABB calls visit for every object whose loosened AABB
// intersects aabb.
func (w *World) InterferencesWithAABB(aabb math32.Box3, visit func(object.Handle)) {
	w.bp.QueryAABB(aabb, func(p broadphase.ProxyHandle) {
		h := object.UnpackHandle(uint64(w.bp.Object(p)))
		if _, ok := w.objects.Get(h); ok {
			visit(h)
		}
	})
}
