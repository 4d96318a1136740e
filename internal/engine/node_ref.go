package engine

import "github.com/google/uuid"

// NodeRef is a serializable reference to a node by id. Handles are only
// meaningful inside the graph that issued them; a NodeRef survives a scene
// being saved and loaded again.
type NodeRef struct {
	ID uuid.UUID
}

// RefTo returns a reference to h, or an empty reference for unknown handles.
func RefTo(g *Graph, h Handle) NodeRef {
	if n := g.Node(h); n != nil {
		return NodeRef{ID: n.ID}
	}
	return NodeRef{}
}

// Get resolves the reference. Returns Nil if it is empty or the node is gone.
func (r NodeRef) Get(g *Graph) Handle {
	if r.ID == uuid.Nil || g == nil {
		return Nil
	}
	if h, ok := g.FindByID(r.ID); ok {
		return h
	}
	return Nil
}

// IsValid reports whether the reference points at something. It does not
// check that the node exists.
func (r NodeRef) IsValid() bool {
	return r.ID != uuid.Nil
}

func (r *NodeRef) Clear() {
	r.ID = uuid.Nil
}
