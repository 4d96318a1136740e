package components

import (
	"walk3d/internal/engine"

	"github.com/go-gl/mathgl/mgl32"
)

type LightKind int

const (
	DirectionalLight LightKind = iota + 1
	PointLight
	SpotLight
)

func (k LightKind) String() string {
	switch k {
	case DirectionalLight:
		return "directional"
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	}
	return "unknown"
}

// ParseLightKind maps a scene file name to a kind. Unknown names give 0.
func ParseLightKind(name string) LightKind {
	switch name {
	case "directional", "Directional", "DirectionalLight":
		return DirectionalLight
	case "point", "Point", "PointLight":
		return PointLight
	case "spot", "Spot", "SpotLight":
		return SpotLight
	}
	return 0
}

// Light is a light source anchored to a node. Position and Direction are
// derived from the node's world matrix on Refresh; a light without a node
// keeps whatever was set.
type Light struct {
	Name string
	Kind LightKind
	Node engine.Handle

	// Offset is the light position in the node's frame.
	Offset mgl32.Vec3

	Color     mgl32.Vec3
	Intensity float32
	Radius    float32 // point/spot falloff distance

	InnerCutoff float32 // degrees, spot only
	OuterCutoff float32

	Position  mgl32.Vec3
	Direction mgl32.Vec3
}

func NewLight(name string, kind LightKind, node engine.Handle) *Light {
	return &Light{
		Name:        name,
		Kind:        kind,
		Node:        node,
		Color:       mgl32.Vec3{1, 1, 1},
		Intensity:   1,
		Radius:      10,
		InnerCutoff: 12.5,
		OuterCutoff: 17.5,
		Direction:   mgl32.Vec3{0, -1, 0},
	}
}

// Refresh places the light using the anchor node's world matrix. The
// direction runs from the node's local up point towards the light, so an
// unrotated anchor shines straight down.
func (l *Light) Refresh(g *engine.Graph) {
	if !g.Contains(l.Node) {
		return
	}
	world := g.World(l.Node)
	l.Position = mgl32.TransformCoordinate(l.Offset, world)
	up := mgl32.TransformCoordinate(mgl32.Vec3{0, 1, 0}, world)
	dir := l.Position.Sub(up)
	if dir.Len() > 1e-6 {
		l.Direction = dir.Normalize()
	}
}
