package engine

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Handle addresses a node inside a Graph. Handles stay valid for the
// lifetime of the graph that issued them.
type Handle int32

// Nil is the handle of "no node", used as the parent of root nodes.
const Nil Handle = -1

// Valid reports whether h can refer to a node at all.
func (h Handle) Valid() bool {
	return h >= 0
}

// Node is one transform in the scene hierarchy. The local transform is kept
// decomposed (scale, rotation, position) and the matrices are caches.
type Node struct {
	ID   uuid.UUID
	Name string
	Tags []string

	scale    mgl32.Vec3
	rotation mgl32.Quat
	position mgl32.Vec3

	local      mgl32.Mat4
	localStale bool
	world      mgl32.Mat4

	pivot         mgl32.Mat4
	pivotInverse  mgl32.Mat4
	hasPivot      bool
	parentInverse mgl32.Mat4

	parent   Handle
	children []Handle
}

func newNode(name string) Node {
	return Node{
		ID:            uuid.New(),
		Name:          name,
		scale:         mgl32.Vec3{1, 1, 1},
		rotation:      mgl32.QuatIdent(),
		local:         mgl32.Ident4(),
		world:         mgl32.Ident4(),
		pivot:         mgl32.Ident4(),
		pivotInverse:  mgl32.Ident4(),
		parentInverse: mgl32.Ident4(),
		parent:        Nil,
	}
}

func (n *Node) Scale() mgl32.Vec3    { return n.scale }
func (n *Node) Rotation() mgl32.Quat { return n.rotation }
func (n *Node) Position() mgl32.Vec3 { return n.position }

func (n *Node) SetScale(x, y, z float32) {
	n.scale = mgl32.Vec3{x, y, z}
	n.localStale = true
}

// SetRotation stores q normalised. A zero quaternion resets to identity.
func (n *Node) SetRotation(q mgl32.Quat) {
	if q.Len() == 0 {
		q = mgl32.QuatIdent()
	}
	n.rotation = q.Normalize()
	n.localStale = true
}

func (n *Node) SetPosition(x, y, z float32) {
	n.position = mgl32.Vec3{x, y, z}
	n.localStale = true
}

func (n *Node) SetPositionV(p mgl32.Vec3) {
	n.position = p
	n.localStale = true
}

// Translate moves the node by delta in its parent's frame.
func (n *Node) Translate(x, y, z float32) {
	n.position = n.position.Add(mgl32.Vec3{x, y, z})
	n.localStale = true
}

// Rotate applies incremental rotations (radians) about X, then Y, then Z on
// top of the current rotation. Position is left untouched.
func (n *Node) Rotate(x, y, z float32) {
	delta := mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1}).
		Mul(mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})).
		Mul(mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0}))
	n.rotation = delta.Mul(n.rotation).Normalize()
	n.localStale = true
}

// SetPivot makes the node rotate and scale about the point (x, y, z) of its
// own frame instead of its origin.
func (n *Node) SetPivot(x, y, z float32) {
	n.pivot = mgl32.Translate3D(x, y, z)
	n.pivotInverse = mgl32.Translate3D(-x, -y, -z)
	n.hasPivot = x != 0 || y != 0 || z != 0
}

func (n *Node) ClearPivot() {
	n.SetPivot(0, 0, 0)
}

// Pivot returns the pivot offset and whether one is set.
func (n *Node) Pivot() (mgl32.Vec3, bool) {
	return n.pivot.Col(3).Vec3(), n.hasPivot
}

// RefreshLocal rebuilds the local matrix if a component changed. The order
// is fixed: scale first, then rotation, then translation.
func (n *Node) RefreshLocal() mgl32.Mat4 {
	if n.localStale {
		n.local = composeTRS(n.position, n.rotation, n.scale)
		n.localStale = false
	}
	return n.local
}

// Local returns the local matrix, rebuilding it when stale.
func (n *Node) Local() mgl32.Mat4 {
	return n.RefreshLocal()
}

// World returns the world matrix computed by the last graph refresh.
func (n *Node) World() mgl32.Mat4 {
	return n.world
}

// WorldPosition is the translation part of the cached world matrix.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.world.Col(3).Vec3()
}

// Decompose replaces the local components with the ones extracted from m.
func (n *Node) Decompose(m mgl32.Mat4) {
	n.position, n.rotation, n.scale = Decompose(m)
	n.localStale = true
}

func (n *Node) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (n *Node) Parent() Handle { return n.parent }

// Children returns the child handles in insertion order. The slice must not
// be modified.
func (n *Node) Children() []Handle { return n.children }

// compose computes the world matrix from the parent's world matrix.
func (n *Node) compose(parentWorld mgl32.Mat4) mgl32.Mat4 {
	local := n.RefreshLocal()
	if n.hasPivot {
		n.world = parentWorld.Mul4(n.pivot).Mul4(n.parentInverse).Mul4(local).Mul4(n.pivotInverse)
	} else {
		n.world = parentWorld.Mul4(local)
	}
	return n.world
}
