package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return a.ApproxEqualThreshold(b, tol)
}

func TestEmptyAABBIsInvalid(t *testing.T) {
	b := EmptyAABB()
	if b.Valid() {
		t.Error("Fresh box should be invalid")
	}
	if !math.IsInf(float64(b.Min[0]), 1) || !math.IsInf(float64(b.Max[0]), -1) {
		t.Errorf("Expected sentinel extremes, got min %v max %v", b.Min, b.Max)
	}

	b.Fit(nil)
	if b.Valid() {
		t.Error("Fitting no vertices should leave the box invalid")
	}
	if b.Overlaps(b) {
		t.Error("Invalid boxes must not overlap anything")
	}
	if b.Overlaps(NewAABB(mgl32.Vec3{}, mgl32.Vec3{100, 100, 100})) {
		t.Error("Invalid box overlapped a huge box")
	}
}

func TestAABBFit(t *testing.T) {
	verts := []mgl32.Vec3{{1, 2, 3}, {-1, 0, 5}, {0, -4, 4}}
	var b AABB
	b.Fit(verts)

	if b.Min != (mgl32.Vec3{-1, -4, 3}) {
		t.Errorf("Expected min (-1,-4,3), got %v", b.Min)
	}
	if b.Max != (mgl32.Vec3{1, 2, 5}) {
		t.Errorf("Expected max (1,2,5), got %v", b.Max)
	}
	if b.Center != (mgl32.Vec3{0, -1, 4}) {
		t.Errorf("Expected center (0,-1,4), got %v", b.Center)
	}
	if b.HalfSize != (mgl32.Vec3{1, 3, 1}) {
		t.Errorf("Expected half size (1,3,1), got %v", b.HalfSize)
	}

	first := b
	b.Fit(verts)
	if b.Min != first.Min || b.Max != first.Max {
		t.Error("Fitting the same vertices twice should give the same box")
	}

	// Fit must reset, not keep growing.
	b.Fit([]mgl32.Vec3{{0, 0, 0}})
	if b.Min != (mgl32.Vec3{}) || b.Max != (mgl32.Vec3{}) {
		t.Errorf("Expected point box after refit, got %v..%v", b.Min, b.Max)
	}
}

func TestAABBOverlaps(t *testing.T) {
	unit := NewAABB(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})

	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"same", unit, true},
		{"inside", NewAABB(mgl32.Vec3{}, mgl32.Vec3{0.5, 0.5, 0.5}), true},
		{"partial", NewAABB(mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{1, 1, 1}), true},
		{"touching face", NewAABB(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{1, 1, 1}), true},
		{"touching corner", NewAABB(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{1, 1, 1}), true},
		{"separate X", NewAABB(mgl32.Vec3{2.01, 0, 0}, mgl32.Vec3{1, 1, 1}), false},
		{"separate Y", NewAABB(mgl32.Vec3{0, -3, 0}, mgl32.Vec3{1, 1, 1}), false},
		{"separate Z", NewAABB(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{1, 1, 1}), false},
		{"zero size inside", NewAABB(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(unit); got != tt.want {
				t.Errorf("Overlaps is not symmetric: reversed = %v, want %v", got, tt.want)
			}
			if !tt.other.Overlaps(tt.other) {
				t.Error("A valid box should overlap itself")
			}
		})
	}
}

func TestTransformedBoxUsesCorners(t *testing.T) {
	b := NewAABB(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	world := mgl32.Translate3D(0, 5, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45)))

	w := b.Transformed(world)
	r := float32(math.Sqrt2)
	if !vecNear(w.Min, mgl32.Vec3{-r, 4, -r}, eps) || !vecNear(w.Max, mgl32.Vec3{r, 6, r}, eps) {
		t.Errorf("Expected (-%v,4,-%v)..(%v,6,%v), got %v..%v", r, r, r, r, w.Min, w.Max)
	}
	if b.Min != (mgl32.Vec3{-1, -1, -1}) {
		t.Error("Transformed must not modify the local box")
	}
}

func TestRecalculateFromReferenceStaysTight(t *testing.T) {
	// An octahedron: rotating it 45° about Y keeps its X extent below 1,
	// while rotating its local box would give sqrt(2).
	verts := []mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	local := NewAABBFromVertices(verts)
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(45))

	w := local.Transformed(rot)
	c := float32(math.Sqrt2 / 2)
	if !vecNear(w.Max, mgl32.Vec3{c, 1, c}, eps) {
		t.Errorf("Expected max (%v,1,%v), got %v", c, c, w.Max)
	}
	if !vecNear(w.Min, mgl32.Vec3{-c, -1, -c}, eps) {
		t.Errorf("Expected min (-%v,-1,-%v), got %v", c, c, w.Min)
	}
	if len(local.Reference()) != len(verts) {
		t.Error("Reference vertices should be kept")
	}
}

func TestAABBUnionAndContains(t *testing.T) {
	box := EmptyAABB()
	box.Union(EmptyAABB())
	if box.Valid() {
		t.Error("Union with an invalid box should contribute nothing")
	}

	box.Union(NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}))
	box.Union(NewAABB(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{1, 2, 1}))
	if box.Min != (mgl32.Vec3{-1, -2, -1}) || box.Max != (mgl32.Vec3{4, 2, 1}) {
		t.Errorf("Unexpected union %v..%v", box.Min, box.Max)
	}
	if !box.Contains(mgl32.Vec3{4, 2, 1}) {
		t.Error("Contains should include the boundary")
	}
	if box.Contains(mgl32.Vec3{4.1, 0, 0}) {
		t.Error("Point outside reported as contained")
	}
	if box.Size() != (mgl32.Vec3{5, 4, 2}) {
		t.Errorf("Expected size (5,4,2), got %v", box.Size())
	}
}

func TestCorners(t *testing.T) {
	b := NewAABB(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 2, 3})
	corners := b.Corners()
	if corners[0] != b.Min || corners[7] != b.Max {
		t.Errorf("Expected min first and max last, got %v and %v", corners[0], corners[7])
	}
	var refit AABB
	refit.Fit(corners[:])
	if refit.Min != b.Min || refit.Max != b.Max {
		t.Error("Fitting the corners should reproduce the box")
	}
}
