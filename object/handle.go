// Package object holds the per-object collision state shared by the
// broad phase, narrow phase and interaction graph: the collision object
// record itself, its dense storage slab, its collision-group descriptor
// and its query policy.
package object

import "fmt"

// ErrUnknownHandle marks a Slab lookup miss on Remove or a setter.
var ErrUnknownHandle = fmt.Errorf("collide/object: unknown handle")

// ErrDuplicateHandle marks a batched removal that repeats a handle.
var ErrDuplicateHandle = fmt.Errorf("collide/object: duplicate handle")

// Handle is a stable, opaque reference to a collision object. It stays
// valid until the object is removed; handles are never reused while any
// live object could still be referencing one (the slab uses a free list
// keyed by generation to guard against stale reuse - see Slab).
type Handle struct {
	index      uint32
	generation uint32
}

// IsValid reports whether h was ever returned by Slab.Insert (the zero
// Handle is never valid).
func (h Handle) IsValid() bool {
	return h.generation != 0
}

func (h Handle) String() string {
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.generation)
}

// Pack encodes h as a single uint64, suitable for carrying through layers
// (such as package broadphase) that do not import package object and stay
// unaware of Handle's fields.
func (h Handle) Pack() uint64 {
	return uint64(h.index)<<32 | uint64(h.generation)
}

// UnpackHandle is the inverse of Handle.Pack.
func UnpackHandle(packed uint64) Handle {
	return Handle{index: uint32(packed >> 32), generation: uint32(packed)}
}
