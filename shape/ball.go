package shape

import (
	"github.com/tangentspace/collide/math32"
)

// Ball is a minimal sphere implementation of Shape. It exists to exercise
// the broad/narrow-phase pipeline in tests and examples; it is not a
// general-purpose shape library (concrete shape primitives are out of
// scope for this engine - see package doc).
type Ball struct {
	Radius float32
}

// NewBall creates a ball shape of the given radius.
func NewBall(radius float32) *Ball {
	return &Ball{Radius: radius}
}

// LocalAABB implements Shape.
func (b *Ball) LocalAABB() math32.Box3 {
	r := math32.NewVector3(b.Radius, b.Radius, b.Radius)
	var box math32.Box3
	box.Set(r.Clone().Negate(), r)
	return box
}

// AABB implements Shape.
func (b *Ball) AABB(pose *Pose) math32.Box3 {
	box := b.LocalAABB()
	box.Translate(&pose.Position)
	return box
}

// ContainsPoint implements Shape.
func (b *Ball) ContainsPoint(pose *Pose, point *math32.Vector3) bool {
	return pose.Position.DistanceToSquared(point) <= b.Radius*b.Radius
}

// ToiAndNormalWithRay implements Shape.
func (b *Ball) ToiAndNormalWithRay(pose *Pose, ray *math32.Ray, maxToi float32) (RayHit, bool) {

	sphere := math32.NewSphere(&pose.Position, b.Radius)
	if !ray.IsIntersectionSphere(sphere) {
		return RayHit{}, false
	}

	hit := ray.IntersectSphere(sphere, math32.NewVec3())
	if hit == nil {
		return RayHit{}, false
	}

	origin := ray.Origin()
	toi := hit.DistanceTo(&origin)
	if toi > maxToi {
		return RayHit{}, false
	}

	normal := hit.Clone().Sub(&pose.Position).Normalize()
	return RayHit{TOI: toi, Normal: *normal}, true
}
