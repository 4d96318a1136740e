package engine

import "github.com/go-gl/mathgl/mgl32"

// composeTRS builds T·R·S, i.e. scale applied first, then rotation, then
// translation.
func composeTRS(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// Compose is the exported form of the fixed scale, rotation, translation order.
func Compose(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return composeTRS(position, rotation, scale)
}

// Decompose splits an affine matrix into translation, rotation and scale.
// Shear cannot be represented and is silently folded into rotation/scale.
// A negative determinant is carried by the X scale.
func Decompose(m mgl32.Mat4) (position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) {
	position = m.Col(3).Vec3()

	bx := m.Col(0).Vec3()
	by := m.Col(1).Vec3()
	bz := m.Col(2).Vec3()
	scale = mgl32.Vec3{bx.Len(), by.Len(), bz.Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}

	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return position, mgl32.QuatIdent(), scale
	}

	bx = bx.Mul(1 / scale[0])
	by = by.Mul(1 / scale[1])
	bz = bz.Mul(1 / scale[2])
	basis := mgl32.Mat4{
		bx[0], bx[1], bx[2], 0,
		by[0], by[1], by[2], 0,
		bz[0], bz[1], bz[2], 0,
		0, 0, 0, 1,
	}
	rotation = mgl32.Mat4ToQuat(basis).Normalize()
	return position, rotation, scale
}
