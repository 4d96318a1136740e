package engine

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func vecNear(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, eps)
}

func TestNewNodeDefaults(t *testing.T) {
	g := NewGraph("Test")
	h := g.NewNode("Node")
	n := g.Node(h)

	if n.Scale() != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Expected unit scale, got %v", n.Scale())
	}
	if n.Rotation() != mgl32.QuatIdent() {
		t.Errorf("Expected identity rotation, got %v", n.Rotation())
	}
	if n.Local() != mgl32.Ident4() {
		t.Error("Local matrix of a fresh node should be the identity")
	}
	if n.Parent() != Nil {
		t.Errorf("Expected no parent, got %d", n.Parent())
	}
}

func TestRefreshLocalOrderIsScaleRotateTranslate(t *testing.T) {
	g := NewGraph("Test")
	n := g.Node(g.NewNode("Node"))
	n.SetScale(2, 2, 2)
	n.SetRotation(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1}))
	n.SetPosition(10, 0, 0)

	// (1,0,0) scaled to (2,0,0), rotated 90° about Z to (0,2,0), then moved.
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, n.Local())
	want := mgl32.Vec3{10, 2, 0}
	if !vecNear(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSettersMarkLocalStale(t *testing.T) {
	g := NewGraph("Test")
	n := g.Node(g.NewNode("Node"))
	_ = n.Local()

	n.SetPosition(1, 2, 3)
	if got := n.Local().Col(3).Vec3(); got != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Expected translation (1,2,3), got %v", got)
	}
	n.Translate(1, 1, 1)
	if got := n.Local().Col(3).Vec3(); got != (mgl32.Vec3{2, 3, 4}) {
		t.Errorf("Expected translation (2,3,4), got %v", got)
	}
}

func TestNestedNodesComposeParentFirst(t *testing.T) {
	g := NewGraph("Test")
	parent := g.NewNode("Parent")
	child, err := g.NewChild(parent, "Child")
	if err != nil {
		t.Fatal(err)
	}

	p := g.Node(parent)
	p.SetScale(2, 2, 2)
	p.SetRotation(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0}))
	p.SetPosition(1, 2, 3)
	g.Node(child).SetPosition(1, 0, 0)

	g.Refresh()

	// 90° about +Y maps +X onto -Z; scaled offset (2,0,0) becomes (0,0,-2).
	want := mgl32.Vec3{1, 2, 3}.Add(mgl32.Vec3{0, 0, -2})
	got := g.Node(child).WorldPosition()
	if !vecNear(got, want) {
		t.Errorf("Expected child world position %v, got %v", want, got)
	}
	if !vecNear(g.Node(parent).WorldPosition(), mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Parent world position changed: %v", g.Node(parent).WorldPosition())
	}
}

func TestPivotRotationKeepsPivotFixed(t *testing.T) {
	g := NewGraph("Test")
	h := g.NewNode("Door")
	n := g.Node(h)
	n.SetPivot(0, 1, 0)
	n.SetRotation(mgl32.QuatRotate(math.Pi, mgl32.Vec3{1, 0, 0}))

	g.Refresh()
	world := g.World(h)

	pivot := mgl32.TransformCoordinate(mgl32.Vec3{0, 1, 0}, world)
	if !vecNear(pivot, mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Expected pivot to map onto itself, got %v", pivot)
	}
	origin := mgl32.TransformCoordinate(mgl32.Vec3{}, world)
	if !vecNear(origin, mgl32.Vec3{0, 2, 0}) {
		t.Errorf("Expected local origin at (0,2,0), got %v", origin)
	}
}

func TestPivotAppliesBeforeParentTransform(t *testing.T) {
	g := NewGraph("Test")
	parent := g.NewNode("Frame")
	g.Node(parent).SetPosition(5, 0, 0)
	h, _ := g.NewChild(parent, "Door")
	n := g.Node(h)
	n.SetPivot(0, 1, 0)
	n.SetRotation(mgl32.QuatRotate(math.Pi, mgl32.Vec3{1, 0, 0}))

	g.Refresh()

	origin := mgl32.TransformCoordinate(mgl32.Vec3{}, g.World(h))
	if !vecNear(origin, mgl32.Vec3{5, 2, 0}) {
		t.Errorf("Expected (5,2,0), got %v", origin)
	}
}

func TestRotateKeepsPosition(t *testing.T) {
	g := NewGraph("Test")
	n := g.Node(g.NewNode("Node"))
	n.SetPosition(3, 0, 0)
	n.Rotate(0, math.Pi/2, 0)

	if n.Position() != (mgl32.Vec3{3, 0, 0}) {
		t.Errorf("Rotate should not move the node, got %v", n.Position())
	}
	got := n.Rotation().Rotate(mgl32.Vec3{1, 0, 0})
	if !vecNear(got, mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Expected +X rotated to -Z, got %v", got)
	}
}

func TestDecomposeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		position mgl32.Vec3
		rotation mgl32.Quat
		scale    mgl32.Vec3
	}{
		{"identity", mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}},
		{"uniform", mgl32.Vec3{1, -2, 3}, mgl32.QuatRotate(0.7, mgl32.Vec3{1, 2, 3}.Normalize()), mgl32.Vec3{2, 2, 2}},
		{"non-uniform", mgl32.Vec3{-4, 0.5, 9}, mgl32.QuatRotate(2.5, mgl32.Vec3{0, 1, 0}), mgl32.Vec3{2, 0.5, 3}},
		{"mirrored", mgl32.Vec3{0, 1, 0}, mgl32.QuatRotate(1.1, mgl32.Vec3{0, 0, 1}), mgl32.Vec3{-1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compose(tt.position, tt.rotation, tt.scale)
			p, r, s := Decompose(m)
			back := Compose(p, r, s)
			if !back.ApproxEqualThreshold(m, 1e-4) {
				t.Errorf("Round trip mismatch:\n%v\n%v", m, back)
			}
			if !vecNear(p, tt.position) {
				t.Errorf("Expected position %v, got %v", tt.position, p)
			}
		})
	}
}

func TestNodeDecomposeReplacesComponents(t *testing.T) {
	g := NewGraph("Test")
	n := g.Node(g.NewNode("Imported"))
	baked := Compose(mgl32.Vec3{1, 2, 3}, mgl32.QuatRotate(0.3, mgl32.Vec3{0, 1, 0}), mgl32.Vec3{4, 4, 4})
	n.Decompose(baked)

	if !n.Local().ApproxEqualThreshold(baked, 1e-4) {
		t.Errorf("Expected local matrix to equal the baked one:\n%v\n%v", baked, n.Local())
	}
	if !vecNear(n.Scale(), mgl32.Vec3{4, 4, 4}) {
		t.Errorf("Expected scale 4, got %v", n.Scale())
	}
}

func TestSetRotationNormalises(t *testing.T) {
	g := NewGraph("Test")
	n := g.Node(g.NewNode("Node"))
	n.SetRotation(mgl32.Quat{W: 2})
	if n.Rotation() != mgl32.QuatIdent() {
		t.Errorf("Expected normalised identity, got %v", n.Rotation())
	}
	n.SetRotation(mgl32.Quat{})
	if n.Rotation() != mgl32.QuatIdent() {
		t.Errorf("Zero quaternion should reset to identity, got %v", n.Rotation())
	}
}

func TestEulerRoundTrip(t *testing.T) {
	tests := []mgl32.Vec3{
		{0, 0, 0},
		{90, 0, 0},
		{0, 45, 0},
		{10, -30, 120},
		{-170, 60, 5},
	}
	for _, deg := range tests {
		q := EulerToQuat(deg)
		back := QuatToEuler(q)
		if !back.ApproxEqualThreshold(deg, 1e-3) {
			t.Errorf("Euler %v came back as %v", deg, back)
		}
	}
}

func TestEulerMatchesRotate(t *testing.T) {
	n := newNode("n")
	n.Rotate(mgl32.DegToRad(20), mgl32.DegToRad(30), mgl32.DegToRad(40))
	q := EulerToQuat(mgl32.Vec3{20, 30, 40})
	v := mgl32.Vec3{1, 2, 3}
	if !n.Rotation().Rotate(v).ApproxEqualThreshold(q.Rotate(v), 1e-5) {
		t.Errorf("Expected Rotate and EulerToQuat to agree, got %v and %v", n.Rotation().Rotate(v), q.Rotate(v))
	}
}

func TestEulerGimbalLock(t *testing.T) {
	v := mgl32.Vec3{1, 2, 3}
	for _, deg := range []mgl32.Vec3{{0, 90, 0}, {30, 90, 10}, {-20, -90, 45}} {
		q := EulerToQuat(deg)
		back := QuatToEuler(q)
		if back[0] != 0 {
			t.Errorf("Euler %v: expected x pinned to 0, got %v", deg, back)
		}
		if !EulerToQuat(back).Rotate(v).ApproxEqualThreshold(q.Rotate(v), 1e-3) {
			t.Errorf("Euler %v came back as %v, a different rotation", deg, back)
		}
	}
}
