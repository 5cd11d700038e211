package graph

import (
	"github.com/tangentspace/collide/object"
)

// InteractionKind distinguishes the two edge payloads an InteractionGraph
// carries.
type InteractionKind int

const (
	// InteractionContact pairs carry a contact manifold.
	InteractionContact InteractionKind = iota
	// InteractionProximity pairs carry a proximity status only.
	InteractionProximity
)

// ContactID identifies a single persistent contact point within a
// manifold. IDs are allocated from a free list and recycled once their
// contact drops out of the manifold (see narrowphase's contact ID pool);
// package graph only stores the value.
type ContactID int64

// FeatureID identifies the geometric feature (e.g. a face/edge/vertex
// pair) a contact was generated from, stable across steps as long as the
// same pair of features keeps producing a contact. A manifold generator
// assigns its own feature numbering; a generator with only one possible
// contact (such as ball-ball) can use a single constant feature for all
// of its contacts.
type FeatureID int32

// Contact is a single point of a contact manifold: world-space points on
// each body, separating normal (pointing from A to B) and penetration
// depth (positive when overlapping).
type Contact struct {
	WorldA, WorldB Vec3
	Normal         Vec3
	Depth          float32
	Feature        FeatureID
	ID             ContactID
}

// Vec3 avoids an import of math32 purely for a 3-tuple; narrowphase's
// manifold generators convert to/from math32.Vector3 at the boundary.
type Vec3 struct {
	X, Y, Z float32
}

// ContactManifold is the persistent contact state for one Contact
// interaction. Contact identifiers survive across steps as long as the
// feature that produced them keeps producing a contact: SaveCacheAndClear
// moves the outgoing contacts into a side cache keyed by FeatureID before
// clearing the live list, and a generator recomputing the manifold claims
// a cached ID back via TakeCachedID instead of minting a new one whenever
// the same feature is still in contact. Cache entries nobody reclaims this
// step are the narrow phase's garbage_collect_ids responsibility (see
// narrowphase.NarrowPhase.Update), retrieved via DrainStaleIDs.
type ContactManifold struct {
	contacts []Contact
	cache    map[FeatureID]ContactID
}

// Contacts returns the manifold's current contact points.
func (m *ContactManifold) Contacts() []Contact {
	return m.contacts
}

// Len reports the number of contacts currently in the manifold.
func (m *ContactManifold) Len() int {
	return len(m.contacts)
}

// Push appends a contact to the manifold.
func (m *ContactManifold) Push(c Contact) {
	m.contacts = append(m.contacts, c)
}

// SaveCacheAndClear moves every current contact into the feature cache,
// keyed by the feature that produced it, then empties the live contact
// list ahead of the next narrow-phase update for this pair.
func (m *ContactManifold) SaveCacheAndClear() {
	if len(m.contacts) > 0 {
		if m.cache == nil {
			m.cache = make(map[FeatureID]ContactID, len(m.contacts))
		}
		for _, c := range m.contacts {
			m.cache[c.Feature] = c.ID
		}
	}
	m.contacts = m.contacts[:0]
}

// TakeCachedID claims the contact ID last seen for feature, if any - the
// mechanism by which a persisting feature keeps its contact's identity
// across a SaveCacheAndClear/regenerate cycle. Claiming removes the entry
// from the cache so it is not mistaken for an abandoned one by
// DrainStaleIDs.
func (m *ContactManifold) TakeCachedID(feature FeatureID) (ContactID, bool) {
	id, ok := m.cache[feature]
	if ok {
		delete(m.cache, feature)
	}
	return id, ok
}

// DrainStaleIDs returns every cached ID nobody claimed via TakeCachedID
// since the last SaveCacheAndClear - i.e. the IDs of features that
// stopped producing a contact this step - and empties the cache. The
// caller (narrowphase's garbage collection pass) is responsible for
// returning these to the contact ID pool.
func (m *ContactManifold) DrainStaleIDs() []ContactID {
	if len(m.cache) == 0 {
		return nil
	}
	stale := make([]ContactID, 0, len(m.cache))
	for _, id := range m.cache {
		stale = append(stale, id)
	}
	m.cache = nil
	return stale
}

// Clear empties the manifold's live contacts and discards its cache
// outright, with no further ID bookkeeping. Used when an interaction is
// being torn down entirely rather than recomputed, so nothing will ever
// claim the cache again.
func (m *ContactManifold) Clear() {
	m.contacts = m.contacts[:0]
	m.cache = nil
}

// ContactManifoldGenerator computes (or updates) the contact manifold for
// a pair of collision objects. It returns false if the pair's shapes are
// conclusively separated beyond any further prediction margin and the
// interaction should be torn down.
type ContactManifoldGenerator interface {
	GenerateContacts(a, b *object.Object, prediction float32, manifold *ContactManifold) bool
}

// ProximityStatus classifies how close a Proximity pair currently is.
type ProximityStatus int

const (
	// Disjoint: farther apart than the proximity margin.
	Disjoint ProximityStatus = iota
	// WithinMargin: closer than the margin but not overlapping.
	WithinMargin
	// Intersecting: the shapes overlap.
	Intersecting
)

func (s ProximityStatus) String() string {
	switch s {
	case Disjoint:
		return "Disjoint"
	case WithinMargin:
		return "WithinMargin"
	case Intersecting:
		return "Intersecting"
	default:
		return "unknown"
	}
}

// ProximityDetector computes the proximity status of a pair of collision
// objects.
type ProximityDetector interface {
	UpdateProximity(a, b *object.Object, margin float32) ProximityStatus
}

// Interaction is the payload carried by every InteractionGraph edge: a
// Contact interaction (manifold generator + live manifold) or a Proximity
// interaction (detector + current status). Exactly one of the two halves
// is populated, selected by Kind.
type Interaction struct {
	Kind InteractionKind

	ContactGenerator ContactManifoldGenerator
	Manifold         *ContactManifold

	ProximityDetector ProximityDetector
	ProximityState    ProximityStatus
}

// NewContactInteraction builds a Contact-kind interaction with an empty
// manifold.
func NewContactInteraction(gen ContactManifoldGenerator) *Interaction {
	return &Interaction{Kind: InteractionContact, ContactGenerator: gen, Manifold: &ContactManifold{}}
}

// NewProximityInteraction builds a Proximity-kind interaction, initially
// Disjoint.
func NewProximityInteraction(det ProximityDetector) *Interaction {
	return &Interaction{Kind: InteractionProximity, ProximityDetector: det, ProximityState: Disjoint}
}

// IsEffective reports whether this interaction currently represents an
// actual touching condition, as opposed to merely having survived the
// broad phase: a Contact interaction is effective once its manifold holds
// at least one point; a Proximity interaction is effective once its status
// has left Disjoint.
func (i *Interaction) IsEffective() bool {
	if i.Kind == InteractionContact {
		return i.Manifold.Len() > 0
	}
	return i.ProximityState != Disjoint
}
