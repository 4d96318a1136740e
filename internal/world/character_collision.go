package world

import (
	"walk3d/internal/engine"
	"walk3d/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

// resolveCharacter tests the character's pending box against the scene,
// hands the merged correction to the controller and moves the character
// subtree to the committed pose.
func (w *World) resolveCharacter(deltaTime float32) {
	c := w.Character

	box := w.characterBounds()
	acc, contacts := w.Physics.Resolve(box, w.inCharacter)
	w.contacts = contacts

	committed := c.Resolve(deltaTime, acc)
	w.stagePose(committed)
	w.Graph.RefreshFrom(c.Node, w.Graph.ParentWorld(c.Node))
	for _, col := range w.Physics.Colliders() {
		if w.characterTree[col.Node] {
			col.World = col.Local.Transformed(w.Graph.World(col.Node))
		}
	}
	w.characterBox = w.characterBounds()
}

// characterBounds is the union of the colliders under the character node,
// or the controller's upright box at the node's world position when it has
// none.
func (w *World) characterBounds() physics.AABB {
	c := w.Character
	if c == nil {
		return physics.EmptyAABB()
	}
	box := w.Physics.SubtreeBounds(w.Graph, c.Node)
	if box.Valid() {
		return box
	}
	if w.hasCharacterColliders() {
		// colliders exist but none could be fit; nothing to collide with
		return box
	}
	return c.Bounds(w.Graph.Node(c.Node).WorldPosition())
}

func (w *World) hasCharacterColliders() bool {
	for _, col := range w.Physics.Colliders() {
		if w.characterTree[col.Node] {
			return true
		}
	}
	return false
}

func (w *World) inCharacter(col *physics.Collider) bool {
	return w.characterTree[col.Node]
}

// IsCharacter reports whether h belongs to the character's subtree.
func (w *World) IsCharacter(h engine.Handle) bool {
	return w.characterTree[h]
}

// LookTarget is the collider the character is looking at.
type LookTarget struct {
	Node     engine.NodeRef
	Name     string
	Point    mgl32.Vec3
	Distance float32
}

// LookAt casts a ray from the character's eye along its look direction,
// ignoring the character's own colliders.
func (w *World) LookAt(maxDistance float32) (LookTarget, bool) {
	c := w.Character
	if c == nil {
		return LookTarget{}, false
	}
	hit, ok := w.Physics.Raycast(c.Eye(), c.Rig.Front(), maxDistance, w.inCharacter)
	if !ok {
		return LookTarget{}, false
	}
	return LookTarget{
		Node:     engine.RefTo(w.Graph, hit.Collider.Node),
		Name:     hit.Collider.Name,
		Point:    hit.Point,
		Distance: hit.Distance,
	}, true
}
