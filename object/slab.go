package object

import "fmt"

type slot struct {
	object     Object
	generation uint32
	occupied   bool
}

// Slab is dense storage for collision objects keyed by a stable Handle.
// Handles remain valid across insertions of other objects; looking up a
// removed handle always misses (generation mismatch), even if its index
// slot has been reused by a newer object.
type Slab struct {
	slots []slot
	free  []uint32
}

// NewSlab creates an empty object slab.
func NewSlab() *Slab {
	return &Slab{}
}

// Insert stores obj and returns the handle it is now reachable under.
func (s *Slab) Insert(obj Object) Handle {
	var index uint32
	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[index].generation++
		s.slots[index].object = obj
		s.slots[index].occupied = true
	} else {
		index = uint32(len(s.slots))
		s.slots = append(s.slots, slot{object: obj, generation: 1, occupied: true})
	}
	return Handle{index: index, generation: s.slots[index].generation}
}

// Get returns the object stored at h, or (_, false) if h is stale or
// unknown.
func (s *Slab) Get(h Handle) (*Object, bool) {
	if int(h.index) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[h.index]
	if !sl.occupied || sl.generation != h.generation {
		return nil, false
	}
	return &sl.object, true
}

// MustGet is Get, panicking with ErrUnknownHandle on a miss. It is the
// accessor used by operations spec.md documents as fatal on an unknown
// handle (Remove, the set_* family, pair lookups).
func (s *Slab) MustGet(h Handle) *Object {
	obj, ok := s.Get(h)
	if !ok {
		panic(fmt.Errorf("%w: %v", ErrUnknownHandle, h))
	}
	return obj
}

// Remove deletes the object stored at h. Panics with ErrUnknownHandle if
// h does not refer to a live object.
func (s *Slab) Remove(h Handle) Object {
	obj := s.MustGet(h)
	removed := *obj
	sl := &s.slots[h.index]
	sl.occupied = false
	sl.object = Object{}
	s.free = append(s.free, h.index)
	return removed
}

// Len returns the number of live objects in the slab.
func (s *Slab) Len() int {
	return len(s.slots) - len(s.free)
}

// Each calls fn for every live object in index order.
func (s *Slab) Each(fn func(Handle, *Object)) {
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.occupied {
			fn(Handle{index: uint32(i), generation: sl.generation}, &sl.object)
		}
	}
}

// CheckNoDuplicates panics with ErrDuplicateHandle if handles contains the
// same handle twice. Used by World.Remove, which spec.md requires to
// panic on a batch containing repeats.
func CheckNoDuplicates(handles []Handle) {
	seen := make(map[Handle]bool, len(handles))
	for _, h := range handles {
		if seen[h] {
			panic(fmt.Errorf("%w: %v", ErrDuplicateHandle, h))
		}
		seen[h] = true
	}
}
