package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangentspace/collide/shape"
)

func TestHandlePackRoundTrips(t *testing.T) {
	s := NewSlab()
	h := s.Insert(NewObject(shape.Identity(), shape.NewBall(1), NewCollisionGroups(), NewContactsQuery(0.01, 0.01), nil))

	packed := h.Pack()
	got := UnpackHandle(packed)
	assert.Equal(t, h, got)
}

func TestSlabGenerationGuardsAgainstStaleHandle(t *testing.T) {
	s := NewSlab()
	h1 := s.Insert(NewObject(shape.Identity(), shape.NewBall(1), NewCollisionGroups(), NewContactsQuery(0.01, 0.01), "first"))
	s.Remove(h1)

	h2 := s.Insert(NewObject(shape.Identity(), shape.NewBall(1), NewCollisionGroups(), NewContactsQuery(0.01, 0.01), "second"))
	assert.Equal(t, h1.index, h2.index, "the freed slot should be reused")
	assert.NotEqual(t, h1.generation, h2.generation, "the reused slot must carry a new generation")

	_, ok := s.Get(h1)
	assert.False(t, ok, "the stale handle must not resolve to the new occupant")

	obj, ok := s.Get(h2)
	require.True(t, ok)
	assert.Equal(t, "second", obj.Data)
}

func TestSlabMustGetPanicsOnUnknownHandle(t *testing.T) {
	s := NewSlab()
	assert.Panics(t, func() {
		s.MustGet(Handle{})
	})
}

func TestCheckNoDuplicatesPanicsOnRepeat(t *testing.T) {
	s := NewSlab()
	h := s.Insert(NewObject(shape.Identity(), shape.NewBall(1), NewCollisionGroups(), NewContactsQuery(0.01, 0.01), nil))

	assert.NotPanics(t, func() {
		CheckNoDuplicates([]Handle{h})
	})
	assert.Panics(t, func() {
		CheckNoDuplicates([]Handle{h, h})
	})
}

func TestCollisionGroupsBlacklistBeatsAlwaysInteract(t *testing.T) {
	a := NewCollisionGroups()
	b := NewCollisionGroups()
	a.SetMembership(5, AlwaysInteractGroup)
	b.SetMembership(6, AlwaysInteractGroup)
	a.SetBlacklist(6)

	assert.False(t, a.CanInteractWithGroups(b), "a blacklist entry must win even though both default to AlwaysInteractGroup")
	assert.False(t, b.CanInteractWithGroups(a), "the filter must be symmetric")
}

func TestCollisionGroupsNeverInteractOverridesEverything(t *testing.T) {
	a := NewCollisionGroups()
	a.SetMembership(NeverInteractGroup)
	b := NewCollisionGroups()

	assert.False(t, a.CanInteractWithGroups(b))
}

func TestCollisionGroupsWhitelistRequiresMutualConsent(t *testing.T) {
	var a, b CollisionGroups
	a.SetMembership(1)
	a.SetWhitelist(2)
	b.SetMembership(2)
	b.SetWhitelist(1)

	assert.True(t, a.CanInteractWithGroups(b))

	b.SetWhitelist(3)
	assert.False(t, a.CanInteractWithGroups(b), "b no longer whitelists a's group")
}

func TestCombineForContactRequiresBothEndpointsContacts(t *testing.T) {
	contacts := NewContactsQuery(0.01, 0.02)
	proximity := NewProximityQuery(0.05)

	linear, angular, ok := CombineForContact(contacts, contacts)
	require.True(t, ok)
	assert.InDelta(t, 0.02, linear, 1e-6)
	assert.InDelta(t, 0.04, angular, 1e-6)

	_, _, ok = CombineForContact(contacts, proximity)
	assert.False(t, ok)
}

func TestObjectLoosenedAABBExpandsByQueryLimit(t *testing.T) {
	obj := NewObject(shape.Identity(), shape.NewBall(1), NewCollisionGroups(), NewProximityQuery(0.5), nil)
	box := obj.LoosenedAABB()
	assert.InDelta(t, -1.5, box.Min.X, 1e-6)
	assert.InDelta(t, 1.5, box.Max.X, 1e-6)
}
