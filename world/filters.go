package world

import "github.com/tangentspace/collide/object"

// BroadPhasePairFilter is a user-supplied veto over which broad-phase
// pairs are allowed to become interactions, applied in addition to the
// built-in collision-group filter. Every registered filter must allow a
// pair for it to be considered.
type BroadPhasePairFilter interface {
	IsPairValid(a, b *object.Object) bool
}

// BroadPhasePairFilterFunc adapts a plain function to BroadPhasePairFilter.
type BroadPhasePairFilterFunc func(a, b *object.Object) bool

// IsPairValid implements BroadPhasePairFilter.
func (f BroadPhasePairFilterFunc) IsPairValid(a, b *object.Object) bool {
	return f(a, b)
}
