package components

import (
	"testing"

	"walk3d/internal/engine"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLightFollowsAnchor(t *testing.T) {
	g := engine.NewGraph("Test")
	lamp := g.NewNode("Lamp")
	g.Node(lamp).SetPosition(0, 5, 0)
	g.Refresh()

	l := NewLight("sun", DirectionalLight, lamp)
	l.Refresh(g)
	if !l.Position.ApproxEqualThreshold(mgl32.Vec3{0, 5, 0}, 1e-5) {
		t.Errorf("Expected position (0,5,0), got %v", l.Position)
	}
	if !l.Direction.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-5) {
		t.Errorf("Expected straight down, got %v", l.Direction)
	}

	// tilt the anchor 90 degrees about Z: local up becomes world -X
	g.Node(lamp).SetRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}))
	l.Offset = mgl32.Vec3{1, 0, 0}
	g.Refresh()
	l.Refresh(g)
	if !l.Position.ApproxEqualThreshold(mgl32.Vec3{0, 6, 0}, 1e-5) {
		t.Errorf("Expected offset rotated to (0,6,0), got %v", l.Position)
	}
	// from (-1,5,0) to (0,6,0)
	want := mgl32.Vec3{1, 1, 0}.Normalize()
	if !l.Direction.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Expected direction %v, got %v", want, l.Direction)
	}
}

func TestLightWithoutAnchor(t *testing.T) {
	g := engine.NewGraph("Test")
	l := NewLight("fill", PointLight, engine.Nil)
	l.Position = mgl32.Vec3{1, 2, 3}
	l.Refresh(g)
	if l.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Error("Unanchored light should keep its position")
	}
}

func TestParseLightKind(t *testing.T) {
	if ParseLightKind("PointLight") != PointLight || ParseLightKind("spot") != SpotLight {
		t.Error("Known names should parse")
	}
	if ParseLightKind("area") != 0 {
		t.Error("Unknown name should give 0")
	}
}
