package object

import (
	"github.com/tangentspace/collide/math32"
	"github.com/tangentspace/collide/shape"
)

// ProxyHandle is the broad phase's handle for this object's bounding
// volume proxy. Its concrete representation is owned by package
// broadphase; object only stores it opaquely to keep the three
// back-references (handle / proxy handle / graph index) together.
type ProxyHandle uint32

// InvalidProxyHandle is the sentinel value stored before an object's proxy has
// been created.
const InvalidProxyHandle ProxyHandle = ^ProxyHandle(0)

// GraphIndex is this object's node index in the interaction graph.
type GraphIndex uint32

// InvalidGraphIndex is the sentinel value stored before an object's graph node
// has been created.
const InvalidGraphIndex GraphIndex = ^GraphIndex(0)

// Object is a single collision object's record: its pose, its shape
// reference, its collision-filtering descriptor, its query policy, the
// timestamp of its last mutation, its opaque user payload, and the three
// back-references that must always form a 1-1-1 cycle with this object's
// own Handle outside of add/remove/set_* critical sections.
type Object struct {
	pose  shape.Pose
	shape shape.Shape

	groups CollisionGroups
	query  GeometricQuery

	// Timestamp is the world step at which pose, shape or deformation
	// state last changed. The narrow phase only re-evaluates an edge
	// whose endpoint timestamp matches the current step.
	Timestamp uint64

	// Data is the opaque payload attached by the owner at Add time.
	Data interface{}

	handle      Handle
	proxyHandle ProxyHandle
	graphIndex  GraphIndex

	deformations []float32
}

// NewObject builds an object record. The three back-references are left
// invalid; the world wires them immediately after insertion.
func NewObject(pose shape.Pose, shp shape.Shape, groups CollisionGroups, query GeometricQuery, data interface{}) Object {
	return Object{
		pose:        pose,
		shape:       shp,
		groups:      groups,
		query:       query,
		Data:        data,
		proxyHandle: InvalidProxyHandle,
		graphIndex:  InvalidGraphIndex,
	}
}

// Handle returns this object's slab handle.
func (o *Object) Handle() Handle { return o.handle }

// SetHandle installs the slab handle. Called once, by World.Add.
func (o *Object) SetHandle(h Handle) { o.handle = h }

// ProxyHandle returns this object's broad-phase proxy handle.
func (o *Object) ProxyHandle() ProxyHandle { return o.proxyHandle }

// SetProxyHandle installs the broad-phase proxy handle.
func (o *Object) SetProxyHandle(h ProxyHandle) { o.proxyHandle = h }

// GraphIndex returns this object's interaction-graph node index.
func (o *Object) GraphIndex() GraphIndex { return o.graphIndex }

// SetGraphIndex installs the interaction-graph node index.
func (o *Object) SetGraphIndex(idx GraphIndex) { o.graphIndex = idx }

// Pose returns this object's current pose.
func (o *Object) Pose() shape.Pose { return o.pose }

// SetPose overwrites this object's pose. Does not touch the timestamp or
// notify the broad phase - callers needing the full set_position
// semantics should go through World.
func (o *Object) SetPose(p shape.Pose) { o.pose = p }

// Shape returns this object's shape reference.
func (o *Object) Shape() shape.Shape { return o.shape }

// SetShape installs a new shape reference.
func (o *Object) SetShape(s shape.Shape) { o.shape = s }

// CollisionGroups returns this object's group-filtering descriptor.
func (o *Object) CollisionGroups() CollisionGroups { return o.groups }

// SetCollisionGroups installs a new group-filtering descriptor.
func (o *Object) SetCollisionGroups(g CollisionGroups) { o.groups = g }

// QueryType returns this object's query policy.
func (o *Object) QueryType() GeometricQuery { return o.query }

// SetQueryType installs a new query policy.
func (o *Object) SetQueryType(q GeometricQuery) { o.query = q }

// Deformations returns the last deformation coordinates applied to this
// object, if any.
func (o *Object) Deformations() []float32 { return o.deformations }

// SetDeformations installs new deformation coordinates.
func (o *Object) SetDeformations(coords []float32) { o.deformations = coords }

// LoosenedAABB computes the AABB of this object's shape at its current
// pose, expanded by its query limit - the conservative overlap zone the
// broad phase tracks for this object.
func (o *Object) LoosenedAABB() math32.Box3 {
	pose := o.pose
	box := o.shape.AABB(&pose)
	box.ExpandByScalar(o.query.QueryLimit())
	return box
}
