// Package shape defines the narrow external contract collision objects use
// to describe their geometry. Concrete shape primitives (hulls, meshes,
// heightfields, ...) and their bounding-volume / ray / point / contact
// generation algorithms are deliberately not part of this package: the
// engine only ever consumes shapes through the Shape interface below.
package shape

import (
	"github.com/tangentspace/collide/math32"
)

// Pose is a rigid placement of a shape in world space: a position plus an
// orientation. It carries no scale - shapes are not stretched by the
// engine.
type Pose struct {
	Position math32.Vector3
	Rotation math32.Quaternion
}

// Identity returns the pose at the world origin with no rotation.
func Identity() Pose {
	var p Pose
	p.Rotation.SetIdentity()
	return p
}

// Matrix composes this pose into a 4x4 transform matrix, suitable for
// Box3.ApplyMatrix4 or transforming shape-local geometry into world space.
func (p *Pose) Matrix() *math32.Matrix4 {

	scale := math32.NewVector3(1, 1, 1)
	m := math32.NewMatrix4()
	m.Compose(&p.Position, &p.Rotation, scale)
	return m
}

// RayHit describes where a ray first touches a shape's boundary.
type RayHit struct {
	// TOI is the ray parameter ("time of impact") at which the hit occurs.
	TOI float32
	// Normal is the outward surface normal at the hit point.
	Normal math32.Vector3
}

// Shape is the geometry contract a collision object's shape reference must
// satisfy. Implementations are shared and treated as immutable for the
// lifetime of the reference held by a collision object; replacing a
// shape means installing a new reference, never mutating one in place.
type Shape interface {
	// LocalAABB returns the shape's bounding box at the identity pose.
	LocalAABB() math32.Box3

	// AABB returns the shape's bounding box transformed by pose.
	AABB(pose *Pose) math32.Box3

	// ContainsPoint reports whether point (in world space) lies inside the
	// shape placed at pose.
	ContainsPoint(pose *Pose, point *math32.Vector3) bool

	// ToiAndNormalWithRay casts ray (in world space) against the shape
	// placed at pose and reports the first hit, if any, with TOI no
	// greater than maxToi.
	ToiAndNormalWithRay(pose *Pose, ray *math32.Ray, maxToi float32) (RayHit, bool)
}
