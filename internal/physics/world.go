package physics

import (
	"walk3d/internal/engine"

	"github.com/go-gl/mathgl/mgl32"
)

// Collider attaches a local-space box to a node. World is refit from Local
// after every graph refresh.
type Collider struct {
	Name string
	Node engine.Handle
	// Solid colliders push the character. Non-solid ones only report
	// contacts.
	Solid bool
	Local AABB
	World AABB
}

// Contact is one collider the character overlapped during Resolve.
type Contact struct {
	Collider   *Collider
	Resolution Resolution
}

// World is the registry of every collider in a scene.
type World struct {
	colliders []*Collider

	// contact tracking for enter/exit notifications
	active  map[*Collider]bool
	current map[*Collider]bool

	OnContactEnter engine.EventWithArg[*Collider]
	OnContactExit  engine.EventWithArg[*Collider]
}

func NewWorld() *World {
	return &World{
		active:  make(map[*Collider]bool),
		current: make(map[*Collider]bool),
	}
}

// Add registers c and returns it.
func (w *World) Add(c *Collider) *Collider {
	c.World = EmptyAABB()
	w.colliders = append(w.colliders, c)
	return c
}

// AddBox registers a solid box collider of the given local center and full
// size.
func (w *World) AddBox(node engine.Handle, name string, center, size mgl32.Vec3) *Collider {
	return w.Add(&Collider{
		Name:  name,
		Node:  node,
		Solid: true,
		Local: NewAABB(center, size.Mul(0.5)),
	})
}

// AddMesh registers a solid collider fit to the mesh's local vertices. The
// vertices are kept and re-fit every frame.
func (w *World) AddMesh(node engine.Handle, name string, vertices []mgl32.Vec3) *Collider {
	return w.Add(&Collider{
		Name:  name,
		Node:  node,
		Solid: true,
		Local: NewAABBFromVertices(vertices),
	})
}

// Remove drops every collider attached to node.
func (w *World) Remove(node engine.Handle) {
	kept := w.colliders[:0]
	for _, c := range w.colliders {
		if c.Node == node {
			delete(w.active, c)
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(w.colliders); i++ {
		w.colliders[i] = nil
	}
	w.colliders = kept
}

func (w *World) Colliders() []*Collider {
	return w.colliders
}

func (w *World) Len() int {
	return len(w.colliders)
}

func (w *World) ForNode(node engine.Handle) []*Collider {
	var out []*Collider
	for _, c := range w.colliders {
		if c.Node == node {
			out = append(out, c)
		}
	}
	return out
}

// Refit recomputes every world box from the node world matrices. Call it
// after g.Refresh so the matrices are current.
func (w *World) Refit(g *engine.Graph) {
	for _, c := range w.colliders {
		c.World = c.Local.Transformed(g.World(c.Node))
	}
}

// SubtreeBounds returns the union of the world boxes of all colliders
// attached to root or its descendants. With no colliders the box stays at
// the sentinel extremes.
func (w *World) SubtreeBounds(g *engine.Graph, root engine.Handle) AABB {
	inTree := make(map[engine.Handle]bool)
	for _, h := range g.Subtree(root) {
		inTree[h] = true
	}
	box := EmptyAABB()
	for _, c := range w.colliders {
		if inTree[c.Node] {
			box.Union(c.World)
		}
	}
	return box
}

// Resolve tests character against every collider not rejected by skip and
// merges the corrections of the solid ones. Contact enter/exit events fire
// before it returns.
func (w *World) Resolve(character AABB, skip func(*Collider) bool) (Accumulator, []Contact) {
	var acc Accumulator
	var contacts []Contact

	for k := range w.current {
		delete(w.current, k)
	}
	if character.Valid() {
		for _, c := range w.colliders {
			if skip != nil && skip(c) {
				continue
			}
			if !character.Overlaps(c.World) {
				continue
			}
			r := Resolve(character, c.World)
			if c.Solid {
				acc.Add(r)
			}
			contacts = append(contacts, Contact{Collider: c, Resolution: r})
			w.current[c] = true
		}
	}
	w.dispatchContacts()
	return acc, contacts
}

func (w *World) dispatchContacts() {
	for _, c := range w.colliders {
		if w.current[c] && !w.active[c] {
			w.OnContactEnter.Invoke(c)
		}
	}
	for _, c := range w.colliders {
		if w.active[c] && !w.current[c] {
			w.OnContactExit.Invoke(c)
		}
	}
	w.active, w.current = w.current, w.active
}

// Touching reports whether the character overlapped c in the last Resolve.
func (w *World) Touching(c *Collider) bool {
	return w.active[c]
}
