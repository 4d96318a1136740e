package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrontFromYawPitch(t *testing.T) {
	tests := []struct {
		yaw, pitch float32
		want       mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{1, 0, 0}},
		{90, 0, mgl32.Vec3{0, 0, 1}},
		{-90, 0, mgl32.Vec3{0, 0, -1}},
		{180, 0, mgl32.Vec3{-1, 0, 0}},
	}
	for _, tt := range tests {
		r := New(tt.yaw, tt.pitch)
		if got := r.Front(); !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Errorf("yaw %v pitch %v: expected %v, got %v", tt.yaw, tt.pitch, tt.want, got)
		}
	}

	r := New(0, 45)
	f := r.Front()
	if f[1] <= 0 || f[2] != 0 {
		t.Errorf("Expected upward front in the XY plane, got %v", f)
	}
	if d := f.Len() - 1; d > 1e-5 || d < -1e-5 {
		t.Errorf("Front should be unit length, got %v", f.Len())
	}
}

func TestPitchClamp(t *testing.T) {
	r := New(0, 0)
	r.Look(0, -100000)
	if r.Pitch != 89 {
		t.Errorf("Expected pitch clamped to 89, got %v", r.Pitch)
	}
	r.Look(0, 100000)
	if r.Pitch != -89 {
		t.Errorf("Expected pitch clamped to -89, got %v", r.Pitch)
	}
	r.Look(20, 0)
	if r.Yaw != 1 {
		t.Errorf("Expected yaw 1 after 20px at 0.05, got %v", r.Yaw)
	}
}

func TestRightIsPerpendicular(t *testing.T) {
	r := New(30, 20)
	if d := r.Right().Dot(r.Forward()); d > 1e-5 || d < -1e-5 {
		t.Errorf("Right should be perpendicular to forward, dot %v", d)
	}
	if r.Right()[1] != 0 {
		t.Error("Right should stay horizontal")
	}
	if !New(0, 0).Right().ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("Expected right +Z when facing +X, got %v", New(0, 0).Right())
	}
}

func TestThirdPersonSmoothing(t *testing.T) {
	r := New(-90, 0)
	if r.Offset() != r.EyeOffset {
		t.Fatalf("Expected first person offset %v, got %v", r.EyeOffset, r.Offset())
	}

	r.ToggleThirdPerson()
	target := r.TargetOffset()
	// facing -Z, so the camera sits 4 units towards +Z
	if !target.ApproxEqualThreshold(mgl32.Vec3{0, 0.85, 4}, 1e-5) {
		t.Fatalf("Unexpected third person target %v", target)
	}

	start := r.Offset()
	r.Update(0.05)
	half := start.Add(target.Sub(start).Mul(0.5))
	if !r.Offset().ApproxEqualThreshold(half, 1e-5) {
		t.Errorf("Expected halfway offset %v after dt*k=0.5, got %v", half, r.Offset())
	}

	for i := 0; i < 100; i++ {
		r.Update(1.0 / 60)
	}
	if r.Offset() != target {
		t.Errorf("Expected offset to snap to %v, got %v", target, r.Offset())
	}

	// a long frame never overshoots
	r.ToggleThirdPerson()
	r.Update(5)
	if r.Offset() != r.EyeOffset {
		t.Errorf("Expected first person offset after a long frame, got %v", r.Offset())
	}
}

func TestEyeAndView(t *testing.T) {
	r := New(0, 0)
	pos := mgl32.Vec3{1, 2, 3}
	eye := r.Eye(pos)
	if !eye.ApproxEqualThreshold(mgl32.Vec3{1, 2.85, 3}, 1e-5) {
		t.Errorf("Unexpected eye %v", eye)
	}
	// the eye maps to the view-space origin
	v := mgl32.TransformCoordinate(eye, r.View(pos))
	if !v.ApproxEqualThreshold(mgl32.Vec3{}, 1e-4) {
		t.Errorf("Expected eye at view origin, got %v", v)
	}
}

func TestHeading(t *testing.T) {
	r := New(-90, 0)
	// facing -Z needs no turn
	if got := r.Heading().Rotate(mgl32.Vec3{0, 0, -1}); !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("Expected -Z, got %v", got)
	}
	r.Yaw = 0
	if got := r.Heading().Rotate(mgl32.Vec3{0, 0, -1}); !got.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("Expected model to face +X, got %v", got)
	}
}
