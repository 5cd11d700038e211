// Package broadphase implements the approximate, conservative first stage
// of the collision pipeline: a dynamic bounding-volume tree (DBVT) over
// fattened object AABBs, used to produce and maintain the candidate set of
// overlapping object pairs without ever missing a pair the narrow phase
// would need to examine.
//
// broadphase has no notion of shapes, manifolds or the interaction graph -
// it deals only in AABBs and an opaque ObjectRef payload the caller packs
// per proxy, keeping this package reusable independently of package object
// (it imports only math32).
package broadphase

import (
	"github.com/tangentspace/collide/math32"
)

// ProxyHandle is the broad phase's own handle for a tracked AABB. It has
// nothing to do with object.ProxyHandle's numeric value beyond both being
// uint32 - the world layer is the only place that correlates the two.
type ProxyHandle uint32

// ObjectRef is the opaque payload a proxy carries - normally a packed
// object.Handle (see object.Handle.Pack), treated as opaque data here.
type ObjectRef uint64

// InterferenceHandler receives broad-phase pair-overlap transitions.
// IsInterferenceAllowed is consulted the moment a pair's AABBs first begin
// to overlap (or is re-run for every live pair during a forced recompute);
// InterferenceStarted/InterferenceStopped are edge-triggered and strictly
// alternate per pair, independent of how many times the underlying AABBs
// are re-queried.
type InterferenceHandler interface {
	IsInterferenceAllowed(a, b ObjectRef) bool
	InterferenceStarted(a, b ObjectRef)
	InterferenceStopped(a, b ObjectRef)
}

type proxy struct {
	fatAABB  math32.Box3
	looseAABB math32.Box3
	object   ObjectRef
	nodeIdx  int32
	alive    bool
}

type pairKey struct {
	lo, hi ProxyHandle
}

func makePairKey(a, b ProxyHandle) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

type pairState struct {
	allowed bool
}

// DBVT is a dynamic-bounding-volume-tree broad phase. The zero value is not
// usable; construct with New.
type DBVT struct {
	margin float32

	tree    *tree
	proxies []proxy
	free    []ProxyHandle

	// pairs holds bookkeeping for every pair of proxies whose loosened
	// AABBs currently overlap, whether or not the interference handler
	// has allowed it.
	pairs     map[pairKey]pairState
	neighbors map[ProxyHandle]map[ProxyHandle]struct{}

	dirty       map[ProxyHandle]struct{}
	forceRecomp map[ProxyHandle]struct{}
	forceAll    bool
}

// New creates an empty broad phase. margin is the extra distance added on
// top of each object's already-loosened AABB before it is inserted into the
// tree, so that small motions do not require a tree update on every step -
// only once the object's true (loosened) AABB escapes its fattened box.
func New(margin float32) *DBVT {
	return &DBVT{
		margin:      margin,
		tree:        newTree(),
		pairs:       make(map[pairKey]pairState),
		neighbors:   make(map[ProxyHandle]map[ProxyHandle]struct{}),
		dirty:       make(map[ProxyHandle]struct{}),
		forceRecomp: make(map[ProxyHandle]struct{}),
	}
}

func (d *DBVT) fatten(aabb math32.Box3) math32.Box3 {
	fat := aabb
	fat.ExpandByScalar(d.margin)
	return fat
}

// CreateProxy inserts a new tracked AABB for object, returning its proxy
// handle. The handle is marked dirty so its pairs are discovered on the
// next Update.
func (d *DBVT) CreateProxy(aabb math32.Box3, object ObjectRef) ProxyHandle {
	var h ProxyHandle
	if n := len(d.free); n > 0 {
		h = d.free[n-1]
		d.free = d.free[:n-1]
	} else {
		d.proxies = append(d.proxies, proxy{})
		h = ProxyHandle(len(d.proxies) - 1)
	}

	fat := d.fatten(aabb)
	p := &d.proxies[h]
	p.fatAABB = fat
	p.looseAABB = aabb
	p.object = object
	p.alive = true
	p.nodeIdx = d.tree.insertLeaf(fat, h)

	d.neighbors[h] = make(map[ProxyHandle]struct{})
	d.dirty[h] = struct{}{}
	return h
}

// Remove deletes proxies, invoking onRemoved(handle, object) for each (if
// non-nil) as it tears the proxy down. Remove does not itself notify the
// interference handler - the caller is expected to have already resolved
// any live interactions before removing the underlying objects.
func (d *DBVT) Remove(handles []ProxyHandle, onRemoved func(ProxyHandle, ObjectRef)) {
	for _, h := range handles {
		p := &d.proxies[h]
		if !p.alive {
			continue
		}
		for other := range d.neighbors[h] {
			delete(d.neighbors[other], h)
			delete(d.pairs, makePairKey(h, other))
		}
		delete(d.neighbors, h)
		delete(d.dirty, h)
		delete(d.forceRecomp, h)

		d.tree.removeLeaf(p.nodeIdx)
		if onRemoved != nil {
			onRemoved(h, p.object)
		}
		p.alive = false
		d.free = append(d.free, h)
	}
}

// DeferredSetBoundingVolume records a new AABB for an existing proxy and
// marks it dirty. At the next Update its pairs are re-diffed; the proxy is
// re-inserted into the tree only if the new loosened AABB has escaped its
// current fattened box.
func (d *DBVT) DeferredSetBoundingVolume(h ProxyHandle, aabb math32.Box3) {
	p := &d.proxies[h]
	p.looseAABB = aabb
	d.dirty[h] = struct{}{}
}

// DeferredRecomputeAllProximitiesWith invalidates cached overlap state for
// a single proxy, forcing every pair it is part of to be re-evaluated
// against the interference handler on the next Update (used when that
// proxy's registered filters changed).
func (d *DBVT) DeferredRecomputeAllProximitiesWith(h ProxyHandle) {
	d.dirty[h] = struct{}{}
	d.forceRecomp[h] = struct{}{}
}

// DeferredRecomputeAllProximities invalidates cached overlap state for
// every proxy (used when a world-level pair filter was registered or
// unregistered).
func (d *DBVT) DeferredRecomputeAllProximities() {
	d.forceAll = true
	for h := range d.proxies {
		d.dirty[ProxyHandle(h)] = struct{}{}
	}
}

// Update drains the deferred mutation queue: re-inserts any proxy whose
// loosened AABB escaped its fattened box, re-queries the tree for new
// neighbor sets, and reports interference start/stop transitions to
// handler. It is single-threaded and synchronous - no goroutines, no
// blocking.
func (d *DBVT) Update(handler InterferenceHandler) {
	if len(d.dirty) == 0 {
		return
	}

	resolved := make(map[pairKey]struct{})

	for h := range d.dirty {
		p := &d.proxies[h]
		if !p.alive {
			continue
		}

		if !boxContains(p.fatAABB, p.looseAABB) {
			d.tree.removeLeaf(p.nodeIdx)
			p.fatAABB = d.fatten(p.looseAABB)
			p.nodeIdx = d.tree.insertLeaf(p.fatAABB, h)
		}

		_, forced := d.forceRecomp[h]
		forced = forced || d.forceAll

		newNeighbors := make(map[ProxyHandle]struct{})
		d.tree.query(p.looseAABB, func(other ProxyHandle) {
			if other == h {
				return
			}
			if !d.proxies[other].looseAABB.IsIntersectionBox(&p.looseAABB) {
				return
			}
			newNeighbors[other] = struct{}{}
		})

		oldNeighbors := d.neighbors[h]

		for other := range oldNeighbors {
			if _, ok := newNeighbors[other]; ok {
				continue
			}
			key := makePairKey(h, other)
			if _, done := resolved[key]; done {
				continue
			}
			resolved[key] = struct{}{}
			if st, ok := d.pairs[key]; ok && st.allowed {
				handler.InterferenceStopped(p.object, d.proxies[other].object)
			}
			delete(d.pairs, key)
			delete(oldNeighbors, other)
			delete(d.neighbors[other], h)
		}

		for other := range newNeighbors {
			key := makePairKey(h, other)
			if _, done := resolved[key]; done {
				continue
			}
			if _, existed := oldNeighbors[other]; existed {
				continue
			}
			resolved[key] = struct{}{}
			allowed := handler.IsInterferenceAllowed(p.object, d.proxies[other].object)
			if allowed {
				handler.InterferenceStarted(p.object, d.proxies[other].object)
			}
			d.pairs[key] = pairState{allowed: allowed}
			oldNeighbors[other] = struct{}{}
			d.neighbors[other][h] = struct{}{}
		}

		if forced {
			for other := range newNeighbors {
				key := makePairKey(h, other)
				if _, done := resolved[key]; done {
					continue
				}
				resolved[key] = struct{}{}
				st := d.pairs[key]
				allowed := handler.IsInterferenceAllowed(p.object, d.proxies[other].object)
				if allowed == st.allowed {
					continue
				}
				if allowed {
					handler.InterferenceStarted(p.object, d.proxies[other].object)
				} else {
					handler.InterferenceStopped(p.object, d.proxies[other].object)
				}
				d.pairs[key] = pairState{allowed: allowed}
			}
		}
	}

	d.dirty = make(map[ProxyHandle]struct{})
	d.forceRecomp = make(map[ProxyHandle]struct{})
	d.forceAll = false
}

func boxContains(fat, loose math32.Box3) bool {
	return fat.ContainsBox(&loose)
}

// AABB returns a proxy's current (unfattened) loosened AABB.
func (d *DBVT) AABB(h ProxyHandle) math32.Box3 {
	return d.proxies[h].looseAABB
}

// Object returns the payload a proxy was created with.
func (d *DBVT) Object(h ProxyHandle) ObjectRef {
	return d.proxies[h].object
}

// QueryRay calls visit for every live proxy whose fattened tree AABB
// intersects the bounding box of the ray segment from origin to
// origin+dir*maxToi (callers narrow further with an exact ray/shape test).
func (d *DBVT) QueryRay(origin, dir math32.Vector3, maxToi float32, visit func(ProxyHandle)) {
	var box math32.Box3
	box.MakeEmpty()
	end := dir
	end.MultiplyScalar(maxToi)
	end.Add(&origin)
	box.ExpandByPoint(&origin)
	box.ExpandByPoint(&end)
	d.tree.query(box, visit)
}

// QueryPoint calls visit for every live proxy whose loosened AABB contains
// point.
func (d *DBVT) QueryPoint(point math32.Vector3, visit func(ProxyHandle)) {
	var box math32.Box3
	box.Set(&point, &point)
	d.tree.query(box, func(h ProxyHandle) {
		if d.proxies[h].looseAABB.ContainsPoint(&point) {
			visit(h)
		}
	})
}

// QueryAABB calls visit for every live proxy whose loosened AABB
// intersects aabb.
func (d *DBVT) QueryAABB(aabb math32.Box3, visit func(ProxyHandle)) {
	d.tree.query(aabb, func(h ProxyHandle) {
		if d.proxies[h].looseAABB.IsIntersectionBox(&aabb) {
			visit(h)
		}
	})
}
