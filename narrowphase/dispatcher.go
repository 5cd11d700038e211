// Package narrowphase implements the exact, per-pair second stage of the
// collision pipeline: dispatching a shape pair to the detector that knows
// how to examine it, driving that detector every step for every edge of
// the interaction graph touched since the previous step, and recording
// contact/proximity events as manifolds and proximity statuses change.
package narrowphase

import (
	"github.com/tangentspace/collide/graph"
	"github.com/tangentspace/collide/shape"
)

// ContactDispatcher looks up the manifold generator for a pair of shapes.
// Returning false is a dispatcher miss, not an error - narrowphase treats
// an unsupported shape pairing as "produces no contacts", the same as a
// pair that is simply far apart.
type ContactDispatcher interface {
	FindContactGenerator(a, b shape.Shape) (graph.ContactManifoldGenerator, bool)
}

// ProximityDispatcher looks up the proximity detector for a pair of
// shapes.
type ProximityDispatcher interface {
	FindProximityDetector(a, b shape.Shape) (graph.ProximityDetector, bool)
}

// DefaultDispatcher is the built-in dispatcher. It only recognises the
// shape.Ball fixture pairwise with itself - real deployments register
// their own dispatcher wired to whatever shape library they bring in, the
// same way ncollide's DefaultBroadPhaseDispatcher / GeometricQueryType
// dispatch is only ever a starting point.
type DefaultDispatcher struct {
	pool *ContactIDPool
}

// NewDefaultDispatcher builds a dispatcher that allocates contact IDs from
// pool.
func NewDefaultDispatcher(pool *ContactIDPool) *DefaultDispatcher {
	return &DefaultDispatcher{pool: pool}
}

// FindContactGenerator implements ContactDispatcher.
func (d *DefaultDispatcher) FindContactGenerator(a, b shape.Shape) (graph.ContactManifoldGenerator, bool) {
	_, aIsBall := a.(*shape.Ball)
	_, bIsBall := b.(*shape.Ball)
	if aIsBall && bIsBall {
		return &ballBallContactGenerator{pool: d.pool}, true
	}
	return nil, false
}

// FindProximityDetector implements ProximityDispatcher.
func (d *DefaultDispatcher) FindProximityDetector(a, b shape.Shape) (graph.ProximityDetector, bool) {
	_, aIsBall := a.(*shape.Ball)
	_, bIsBall := b.(*shape.Ball)
	if aIsBall && bIsBall {
		return ballBallProximityDetector{}, true
	}
	return nil, false
}
