package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EulerToQuat converts rotations in degrees about X, Y and Z into a
// quaternion. X is applied first, then Y, then Z, matching Rotate.
func EulerToQuat(deg mgl32.Vec3) mgl32.Quat {
	r := deg.Mul(math.Pi / 180)
	return mgl32.AnglesToQuat(r[2], r[1], r[0], mgl32.ZYX).Normalize()
}

// QuatToEuler is the inverse of EulerToQuat, in degrees. Pitch about Y is
// limited to ±90.
func QuatToEuler(q mgl32.Quat) mgl32.Vec3 {
	var e mgl32.Vec3
	x, y, z, w := float64(q.X()), float64(q.Y()), float64(q.Z()), float64(q.W)

	sinp := 2 * (w*y - z*x)
	switch {
	case sinp >= 0.99999:
		// gimbal lock: only z-x is defined, keep x at zero
		e[1] = math.Pi / 2
		e[2] = float32(-2 * math.Atan2(x, w))
	case sinp <= -0.99999:
		e[1] = -math.Pi / 2
		e[2] = float32(2 * math.Atan2(x, w))
	default:
		e[0] = float32(math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)))
		e[1] = float32(math.Asin(sinp))
		e[2] = float32(math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)))
	}
	return e.Mul(180 / math.Pi)
}
