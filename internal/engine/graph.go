package engine

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrInvalidHandle = errors.New("engine: invalid node handle")
	ErrCycle         = errors.New("engine: attaching would create a cycle")
)

// Graph owns every node of a scene. Nodes reference each other by Handle:
// a parent owns its children's handles and a child only remembers its
// parent's handle.
type Graph struct {
	Name   string
	nodes  []Node
	roots  []Handle
	byName map[string]Handle
	byID   map[uuid.UUID]Handle
}

func NewGraph(name string) *Graph {
	return &Graph{
		Name:   name,
		byName: make(map[string]Handle),
		byID:   make(map[uuid.UUID]Handle),
	}
}

// NewNode creates a root node. The first node registered under a name wins
// name lookups.
func (g *Graph) NewNode(name string) Handle {
	h := Handle(len(g.nodes))
	g.nodes = append(g.nodes, newNode(name))
	g.roots = append(g.roots, h)
	if _, exists := g.byName[name]; exists {
		log.Printf("[engine] duplicate node name %q, lookups keep the first one", name)
	} else {
		g.byName[name] = h
	}
	g.byID[g.nodes[h].ID] = h
	return h
}

// NewChild creates a node directly under parent.
func (g *Graph) NewChild(parent Handle, name string) (Handle, error) {
	if !g.Contains(parent) {
		return Nil, ErrInvalidHandle
	}
	h := g.NewNode(name)
	return h, g.AddChild(parent, h)
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) Contains(h Handle) bool {
	return h.Valid() && int(h) < len(g.nodes)
}

// Node returns the node for h, or nil for an unknown handle. The pointer is
// only valid until the next NewNode call.
func (g *Graph) Node(h Handle) *Node {
	if !g.Contains(h) {
		return nil
	}
	return &g.nodes[h]
}

// Roots returns the handles of parentless nodes in creation order.
func (g *Graph) Roots() []Handle {
	return g.roots
}

// AddChild moves child under parent, appending it to parent's children.
// Used when building a hierarchy from imported data.
func (g *Graph) AddChild(parent, child Handle) error {
	if !g.Contains(parent) || !g.Contains(child) {
		return ErrInvalidHandle
	}
	if parent == child || g.IsAncestor(child, parent) {
		return ErrCycle
	}
	g.detach(child)
	g.nodes[child].parent = parent
	g.nodes[parent].children = append(g.nodes[parent].children, child)
	return nil
}

// Attach parents child under parent at runtime. The parent's current local
// matrix is recorded inverted on the child so a pivoted child keeps its
// placement relative to the moment of attachment.
func (g *Graph) Attach(parent, child Handle) error {
	if err := g.AddChild(parent, child); err != nil {
		return err
	}
	g.nodes[child].parentInverse = g.nodes[parent].RefreshLocal().Inv()
	return nil
}

// Detach turns child back into a root node.
func (g *Graph) Detach(child Handle) error {
	if !g.Contains(child) {
		return ErrInvalidHandle
	}
	if g.nodes[child].parent == Nil {
		return nil
	}
	g.detach(child)
	g.nodes[child].parentInverse = mgl32.Ident4()
	g.roots = append(g.roots, child)
	return nil
}

func (g *Graph) detach(child Handle) {
	n := &g.nodes[child]
	if n.parent == Nil {
		g.roots = removeHandle(g.roots, child)
		return
	}
	p := &g.nodes[n.parent]
	p.children = removeHandle(p.children, child)
	n.parent = Nil
}

func removeHandle(list []Handle, h Handle) []Handle {
	for i, c := range list {
		if c == h {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// IsAncestor reports whether a is a strict ancestor of b.
func (g *Graph) IsAncestor(a, b Handle) bool {
	if !g.Contains(a) || !g.Contains(b) {
		return false
	}
	for p := g.nodes[b].parent; p != Nil; p = g.nodes[p].parent {
		if p == a {
			return true
		}
	}
	return false
}

func (g *Graph) Find(name string) (Handle, bool) {
	h, ok := g.byName[name]
	return h, ok
}

func (g *Graph) FindByID(id uuid.UUID) (Handle, bool) {
	h, ok := g.byID[id]
	return h, ok
}

// SetID replaces the generated id of h, used when restoring saved scenes.
func (g *Graph) SetID(h Handle, id uuid.UUID) error {
	if !g.Contains(h) {
		return ErrInvalidHandle
	}
	delete(g.byID, g.nodes[h].ID)
	g.nodes[h].ID = id
	g.byID[id] = h
	return nil
}

func (g *Graph) FindByTag(tag string) []Handle {
	var result []Handle
	for i := range g.nodes {
		if g.nodes[i].HasTag(tag) {
			result = append(result, Handle(i))
		}
	}
	return result
}

// Walk visits every node depth-first, parents before children, roots and
// children in insertion order. Returning false from fn skips the subtree.
func (g *Graph) Walk(fn func(h Handle, depth int) bool) {
	for _, r := range g.roots {
		g.walk(r, 0, fn)
	}
}

// WalkFrom is Walk restricted to the subtree rooted at h.
func (g *Graph) WalkFrom(h Handle, fn func(h Handle, depth int) bool) {
	if g.Contains(h) {
		g.walk(h, 0, fn)
	}
}

func (g *Graph) walk(h Handle, depth int, fn func(Handle, int) bool) {
	if !fn(h, depth) {
		return
	}
	for _, c := range g.nodes[h].children {
		g.walk(c, depth+1, fn)
	}
}

// Subtree returns h followed by all of its descendants in walk order.
func (g *Graph) Subtree(h Handle) []Handle {
	var out []Handle
	g.WalkFrom(h, func(c Handle, _ int) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Refresh recomputes every world matrix, starting at the roots with the
// identity as parent transform.
func (g *Graph) Refresh() {
	ident := mgl32.Ident4()
	for _, r := range g.roots {
		g.RefreshFrom(r, ident)
	}
}

// RefreshFrom composes h's world matrix against parentWorld and recurses
// into its children with h's own world matrix.
func (g *Graph) RefreshFrom(h Handle, parentWorld mgl32.Mat4) {
	if !g.Contains(h) {
		return
	}
	world := g.nodes[h].compose(parentWorld)
	for _, c := range g.nodes[h].children {
		g.RefreshFrom(c, world)
	}
}

// World returns the cached world matrix of h, or the identity for an
// unknown handle.
func (g *Graph) World(h Handle) mgl32.Mat4 {
	if !g.Contains(h) {
		return mgl32.Ident4()
	}
	return g.nodes[h].world
}

// ParentWorld is the world matrix h's parent currently has, the identity
// for roots.
func (g *Graph) ParentWorld(h Handle) mgl32.Mat4 {
	if !g.Contains(h) || g.nodes[h].parent == Nil {
		return mgl32.Ident4()
	}
	return g.nodes[g.nodes[h].parent].world
}

// Path returns the node names from the root down to h, for diagnostics.
func (g *Graph) Path(h Handle) []string {
	var names []string
	for c := h; g.Contains(c); c = g.nodes[c].parent {
		names = append([]string{g.nodes[c].Name}, names...)
	}
	return names
}
