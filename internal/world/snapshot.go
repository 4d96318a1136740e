package world

import (
	"walk3d/internal/engine"
	"walk3d/internal/physics"
)

// Box is a JSON friendly AABB. Invalid boxes carry zero extents because the
// sentinel infinities do not encode.
type Box struct {
	Valid bool       `json:"valid"`
	Min   [3]float32 `json:"min"`
	Max   [3]float32 `json:"max"`
}

func boxOf(b physics.AABB) Box {
	if !b.Valid() {
		return Box{}
	}
	return Box{Valid: true, Min: b.Min, Max: b.Max}
}

type NodeSnapshot struct {
	Handle        engine.Handle `json:"handle"`
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Parent        engine.Handle `json:"parent"`
	Depth         int           `json:"depth"`
	Tags          []string      `json:"tags,omitempty"`
	WorldPosition [3]float32    `json:"worldPosition"`
	World         [16]float32   `json:"world"`
}

type ColliderSnapshot struct {
	Name     string        `json:"name"`
	Node     engine.Handle `json:"node"`
	Solid    bool          `json:"solid"`
	Touching bool          `json:"touching"`
	Box      Box           `json:"box"`
}

type CharacterSnapshot struct {
	Node             engine.Handle `json:"node"`
	Name             string        `json:"name"`
	State            string        `json:"state"`
	Position         [3]float32    `json:"position"`
	Correction       [3]float32    `json:"correction"`
	VerticalVelocity float32       `json:"verticalVelocity"`
	Moving           bool          `json:"moving"`
	ThirdPerson      bool          `json:"thirdPerson"`
	Eye              [3]float32    `json:"eye"`
	Front            [3]float32    `json:"front"`
	Box              Box           `json:"box"`
}

// Snapshot is a copy of one frame's state. It shares nothing with the
// world, so it can be handed to other goroutines.
type Snapshot struct {
	Scene     string             `json:"scene"`
	Frame     int                `json:"frame"`
	Time      float32            `json:"time"`
	Colliding bool               `json:"colliding"`
	Grounded  bool               `json:"grounded"`
	Nodes     []NodeSnapshot     `json:"nodes"`
	Colliders []ColliderSnapshot `json:"colliders"`
	Character *CharacterSnapshot `json:"character,omitempty"`
}

func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Scene:     w.Name,
		Frame:     w.Frame,
		Time:      w.Time,
		Colliding: w.Colliding(),
		Grounded:  w.Grounded(),
	}

	w.Graph.Walk(func(h engine.Handle, depth int) bool {
		n := w.Graph.Node(h)
		s.Nodes = append(s.Nodes, NodeSnapshot{
			Handle:        h,
			ID:            n.ID.String(),
			Name:          n.Name,
			Parent:        n.Parent(),
			Depth:         depth,
			Tags:          append([]string(nil), n.Tags...),
			WorldPosition: n.WorldPosition(),
			World:         n.World(),
		})
		return true
	})

	for _, c := range w.Physics.Colliders() {
		s.Colliders = append(s.Colliders, ColliderSnapshot{
			Name:     c.Name,
			Node:     c.Node,
			Solid:    c.Solid,
			Touching: w.Physics.Touching(c),
			Box:      boxOf(c.World),
		})
	}

	if c := w.Character; c != nil {
		s.Character = &CharacterSnapshot{
			Node:             c.Node,
			Name:             w.Graph.Node(c.Node).Name,
			State:            c.State().String(),
			Position:         c.Position,
			Correction:       c.LastCorrection(),
			VerticalVelocity: c.VerticalVelocity(),
			Moving:           c.Moving(),
			ThirdPerson:      c.Rig.ThirdPerson,
			Eye:              c.Eye(),
			Front:            c.Rig.Front(),
			Box:              boxOf(w.characterBox),
		}
	}
	return s
}

// FindNode looks a node up by id or, failing that, by name.
func (s *Snapshot) FindNode(key string) (NodeSnapshot, bool) {
	for _, n := range s.Nodes {
		if n.ID == key {
			return n, true
		}
	}
	for _, n := range s.Nodes {
		if n.Name == key {
			return n, true
		}
	}
	return NodeSnapshot{}, false
}
