package narrowphase

import (
	"github.com/tangentspace/collide/graph"
	"github.com/tangentspace/collide/math32"
	"github.com/tangentspace/collide/object"
	"github.com/tangentspace/collide/shape"
)

// ballBallFeature is the single feature a ball-ball pair can ever
// produce a contact from - there is only one possible contact point
// between two balls, so it never needs to be distinguished from another.
const ballBallFeature graph.FeatureID = 0

// ballBallContactGenerator produces a single-point contact manifold for
// two balls whose centers are closer than the sum of their radii plus the
// caller-supplied prediction margin.
type ballBallContactGenerator struct {
	pool *ContactIDPool
}

// GenerateContacts implements graph.ContactManifoldGenerator.
func (g *ballBallContactGenerator) GenerateContacts(a, b *object.Object, prediction float32, manifold *graph.ContactManifold) bool {
	manifold.SaveCacheAndClear()

	ballA, ok := a.Shape().(*shape.Ball)
	if !ok {
		return false
	}
	ballB, ok := b.Shape().(*shape.Ball)
	if !ok {
		return false
	}

	poseA, poseB := a.Pose(), b.Pose()
	delta := poseB.Position
	delta.Sub(&poseA.Position)
	dist := delta.Length()
	radiusSum := ballA.Radius + ballB.Radius

	if dist > radiusSum+prediction {
		return false
	}

	var normal math32.Vector3
	if dist > 1e-8 {
		normal = delta
		normal.MultiplyScalar(1 / dist)
	} else {
		normal.Set(1, 0, 0)
	}

	worldA := normal
	worldA.MultiplyScalar(ballA.Radius)
	worldA.Add(&poseA.Position)

	worldB := normal
	worldB.MultiplyScalar(-ballB.Radius)
	worldB.Add(&poseB.Position)

	id, reused := manifold.TakeCachedID(ballBallFeature)
	if !reused {
		id = g.pool.Allocate()
	}

	manifold.Push(graph.Contact{
		WorldA:  graph.Vec3{X: worldA.X, Y: worldA.Y, Z: worldA.Z},
		WorldB:  graph.Vec3{X: worldB.X, Y: worldB.Y, Z: worldB.Z},
		Normal:  graph.Vec3{X: normal.X, Y: normal.Y, Z: normal.Z},
		Depth:   radiusSum - dist,
		Feature: ballBallFeature,
		ID:      id,
	})
	return true
}

// ballBallProximityDetector classifies two balls' separation against the
// caller-supplied margin.
type ballBallProximityDetector struct{}

// UpdateProximity implements graph.ProximityDetector.
func (ballBallProximityDetector) UpdateProximity(a, b *object.Object, margin float32) graph.ProximityStatus {
	ballA, ok := a.Shape().(*shape.Ball)
	if !ok {
		return graph.Disjoint
	}
	ballB, ok := b.Shape().(*shape.Ball)
	if !ok {
		return graph.Disjoint
	}

	poseA, poseB := a.Pose(), b.Pose()
	dist := poseA.Position.DistanceTo(&poseB.Position)
	radiusSum := ballA.Radius + ballB.Radius

	switch {
	case dist <= radiusSum:
		return graph.Intersecting
	case dist <= radiusSum+margin:
		return graph.WithinMargin
	default:
		return graph.Disjoint
	}
}
