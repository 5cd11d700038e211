package narrowphase

import "github.com/tangentspace/collide/graph"

// ContactIDPool hands out contact point identities from a free list,
// giving O(1) allocation and O(1) recycling. A generator only calls
// Allocate for a feature that was not already present in the manifold's
// cache (see ContactManifold.TakeCachedID) - a feature that persists
// across steps keeps the same ID without ever touching the pool again.
// IDs are returned to the pool either when their owning manifold is
// discarded outright (FreeManifold) or when garbage_collect_ids sweeps up
// whatever a manifold's cache left unclaimed this step.
type ContactIDPool struct {
	free []graph.ContactID
	next graph.ContactID
}

// NewContactIDPool creates an empty pool.
func NewContactIDPool() *ContactIDPool {
	return &ContactIDPool{}
}

// Allocate returns a fresh or recycled contact ID.
func (p *ContactIDPool) Allocate() graph.ContactID {
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		return id
	}
	id := p.next
	p.next++
	return id
}

// Free returns id to the pool for reuse.
func (p *ContactIDPool) Free(id graph.ContactID) {
	p.free = append(p.free, id)
}

// FreeManifold returns every ID held by m - its live contacts and
// anything left in its feature cache - to the pool and clears it outright.
// Used when an interaction is being torn down entirely, so none of its
// IDs will ever be reclaimed by a future TakeCachedID.
func (p *ContactIDPool) FreeManifold(m *graph.ContactManifold) {
	for _, c := range m.Contacts() {
		p.Free(c.ID)
	}
	for _, id := range m.DrainStaleIDs() {
		p.Free(id)
	}
	m.Clear()
}
