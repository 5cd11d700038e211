package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeCachedIDReclaimsPersistingFeature(t *testing.T) {
	var m ContactManifold
	m.Push(Contact{Feature: 1, ID: 42})

	m.SaveCacheAndClear()
	assert.Equal(t, 0, m.Len(), "SaveCacheAndClear must empty the live contact list")

	id, ok := m.TakeCachedID(1)
	require.True(t, ok, "the feature that produced the old contact must still be claimable")
	assert.Equal(t, ContactID(42), id)

	_, ok = m.TakeCachedID(1)
	assert.False(t, ok, "a claimed cache entry cannot be claimed twice")
}

func TestDrainStaleIDsReturnsOnlyUnclaimedFeatures(t *testing.T) {
	var m ContactManifold
	m.Push(Contact{Feature: 1, ID: 10})
	m.Push(Contact{Feature: 2, ID: 20})
	m.SaveCacheAndClear()

	id, ok := m.TakeCachedID(1)
	require.True(t, ok)
	assert.Equal(t, ContactID(10), id)

	stale := m.DrainStaleIDs()
	require.Len(t, stale, 1, "only the unclaimed feature's ID should be reported stale")
	assert.Equal(t, ContactID(20), stale[0])

	assert.Empty(t, m.DrainStaleIDs(), "draining empties the cache")
}

func TestClearDiscardsCacheWithoutStaging(t *testing.T) {
	var m ContactManifold
	m.Push(Contact{Feature: 1, ID: 7})
	m.SaveCacheAndClear()

	m.Clear()
	assert.Empty(t, m.DrainStaleIDs(), "Clear must drop the cache outright, not leave it for DrainStaleIDs")
}
