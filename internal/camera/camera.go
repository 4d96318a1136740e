package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Rig is the look rig of a character: yaw/pitch mouse look plus an eye
// offset that eases between first and third person.
type Rig struct {
	Yaw       float32 // degrees
	Pitch     float32 // degrees
	LookSpeed float32

	ThirdPerson bool
	Distance    float32    // how far behind the character in third person
	EyeOffset   mgl32.Vec3 // eye relative to the character position
	Smoothing   float32    // offset easing rate per second
	Fovy        float32

	offset mgl32.Vec3
}

// New creates a first person rig looking along yaw/pitch.
func New(yaw, pitch float32) *Rig {
	r := &Rig{
		Yaw:       yaw,
		Pitch:     pitch,
		LookSpeed: 0.05,
		Distance:  4,
		EyeOffset: mgl32.Vec3{0, 0.85, 0},
		Smoothing: 10,
		Fovy:      45,
	}
	r.clampPitch()
	r.SnapOffset()
	return r
}

// Look turns the rig by a mouse delta in pixels.
func (r *Rig) Look(dx, dy float32) {
	r.Yaw += dx * r.LookSpeed
	r.Pitch -= dy * r.LookSpeed
	r.clampPitch()
}

func (r *Rig) clampPitch() {
	if r.Pitch > 89 {
		r.Pitch = 89
	}
	if r.Pitch < -89 {
		r.Pitch = -89
	}
}

// Front is the unit look direction.
func (r *Rig) Front() mgl32.Vec3 {
	yawRad := float64(mgl32.DegToRad(r.Yaw))
	pitchRad := float64(mgl32.DegToRad(r.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}.Normalize()
}

// Forward is the look direction flattened onto the ground plane.
func (r *Rig) Forward() mgl32.Vec3 {
	yawRad := float64(mgl32.DegToRad(r.Yaw))
	return mgl32.Vec3{float32(math.Cos(yawRad)), 0, float32(math.Sin(yawRad))}
}

func (r *Rig) Right() mgl32.Vec3 {
	return r.Forward().Cross(worldUp).Normalize()
}

// Heading is the rotation about Y that turns a model facing -Z towards the
// look direction.
func (r *Rig) Heading() mgl32.Quat {
	f := r.Front()
	angle := float32(math.Atan2(float64(-f[0]), float64(-f[2])))
	return mgl32.QuatRotate(angle, worldUp)
}

// TargetOffset is the eye offset the rig is easing towards.
func (r *Rig) TargetOffset() mgl32.Vec3 {
	if r.ThirdPerson {
		return r.Front().Mul(-r.Distance).Add(r.EyeOffset)
	}
	return r.EyeOffset
}

func (r *Rig) ToggleThirdPerson() {
	r.ThirdPerson = !r.ThirdPerson
}

// Update eases the current offset towards the target offset and snaps once
// it is close enough.
func (r *Rig) Update(deltaTime float32) {
	target := r.TargetOffset()
	t := deltaTime * r.Smoothing
	if t > 1 {
		t = 1
	}
	if t < 0 {
		t = 0
	}
	r.offset = r.offset.Add(target.Sub(r.offset).Mul(t))
	if r.offset.Sub(target).Len() < 0.001 {
		r.offset = target
	}
}

// SnapOffset jumps straight to the target offset.
func (r *Rig) SnapOffset() {
	r.offset = r.TargetOffset()
}

func (r *Rig) Offset() mgl32.Vec3 {
	return r.offset
}

// Eye is the camera position for a character standing at position.
func (r *Rig) Eye(position mgl32.Vec3) mgl32.Vec3 {
	return position.Add(r.offset)
}

func (r *Rig) Target(position mgl32.Vec3) mgl32.Vec3 {
	return r.Eye(position).Add(r.Front())
}

// View returns the view matrix for a character standing at position.
func (r *Rig) View(position mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(r.Eye(position), r.Target(position), worldUp)
}

// Projection returns a perspective projection for the given aspect ratio.
func (r *Rig) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(r.Fovy), aspect, 0.1, 1000)
}
