package broadphase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tangentspace/collide/math32"
)

type event struct {
	kind string
	a, b ObjectRef
}

type recordingHandler struct {
	allow  func(a, b ObjectRef) bool
	events []event
}

func (h *recordingHandler) IsInterferenceAllowed(a, b ObjectRef) bool {
	if h.allow == nil {
		return true
	}
	return h.allow(a, b)
}

func (h *recordingHandler) InterferenceStarted(a, b ObjectRef) {
	h.events = append(h.events, event{"started", a, b})
}

func (h *recordingHandler) InterferenceStopped(a, b ObjectRef) {
	h.events = append(h.events, event{"stopped", a, b})
}

func box(minX, minY, minZ, maxX, maxY, maxZ float32) math32.Box3 {
	var b math32.Box3
	b.Set(math32.NewVector3(minX, minY, minZ), math32.NewVector3(maxX, maxY, maxZ))
	return b
}

func TestDBVTOverlapStartsAndStops(t *testing.T) {
	bp := New(0.1)
	h := &recordingHandler{}

	a := bp.CreateProxy(box(0, 0, 0, 1, 1, 1), 1)
	b := bp.CreateProxy(box(0.5, 0, 0, 1.5, 1, 1), 2)
	bp.Update(h)

	assert.Len(t, h.events, 1)
	assert.Equal(t, "started", h.events[0].kind)

	h.events = nil
	bp.DeferredSetBoundingVolume(b, box(10, 10, 10, 11, 11, 11))
	bp.Update(h)

	assert.Len(t, h.events, 1)
	assert.Equal(t, "stopped", h.events[0].kind)

	_ = a
}

func TestDBVTRespectsInterferenceFilter(t *testing.T) {
	bp := New(0.1)
	h := &recordingHandler{allow: func(a, b ObjectRef) bool { return false }}

	bp.CreateProxy(box(0, 0, 0, 1, 1, 1), 1)
	bp.CreateProxy(box(0.5, 0, 0, 1.5, 1, 1), 2)
	bp.Update(h)

	assert.Empty(t, h.events, "filtered pair must not emit started")
}

func TestDBVTForcedRecomputePicksUpFilterChange(t *testing.T) {
	bp := New(0.1)
	allowed := false
	h := &recordingHandler{allow: func(a, b ObjectRef) bool { return allowed }}

	bp.CreateProxy(box(0, 0, 0, 1, 1, 1), 1)
	bp.CreateProxy(box(0.5, 0, 0, 1.5, 1, 1), 2)
	bp.Update(h)
	assert.Empty(t, h.events)

	allowed = true
	bp.DeferredRecomputeAllProximities()
	bp.Update(h)

	assert.Len(t, h.events, 1)
	assert.Equal(t, "started", h.events[0].kind)
}

func TestDBVTRemoveDoesNotNotifyHandler(t *testing.T) {
	bp := New(0.1)
	h := &recordingHandler{}

	a := bp.CreateProxy(box(0, 0, 0, 1, 1, 1), 1)
	b := bp.CreateProxy(box(0.5, 0, 0, 1.5, 1, 1), 2)
	bp.Update(h)
	h.events = nil

	var torn []ProxyHandle
	bp.Remove([]ProxyHandle{a}, func(p ProxyHandle, ref ObjectRef) {
		torn = append(torn, p)
	})

	assert.Empty(t, h.events)
	assert.Equal(t, []ProxyHandle{a}, torn)
	_ = b
}

func TestDBVTQueryAABB(t *testing.T) {
	bp := New(0.0)
	bp.CreateProxy(box(0, 0, 0, 1, 1, 1), 1)
	bp.CreateProxy(box(5, 5, 5, 6, 6, 6), 2)
	bp.Update(&recordingHandler{})

	var hits []ObjectRef
	bp.QueryAABB(box(-1, -1, -1, 2, 2, 2), func(h ProxyHandle) {
		hits = append(hits, bp.proxies[h].object)
	})

	if len(hits) != 1 || hits[0] != 1 {
		t.Fatalf("expected exactly object 1 to match, got %v", hits)
	}
}
