package world

import (
	"walk3d/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

// Frustum represents the 6 planes of a view frustum for culling
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// Plane represents a plane in 3D space (ax + by + cz + d = 0)
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// DistanceTo is the signed distance of point, positive on the inside.
func (p Plane) DistanceTo(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// ExtractFrustum extracts frustum planes from a view-projection matrix
// (projection * view). Uses the Gribb/Hartmann method.
func ExtractFrustum(viewProj mgl32.Mat4) Frustum {
	row := func(i int) mgl32.Vec4 { return viewProj.Row(i) }
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var f Frustum
	f.planes[0] = planeFrom(r3.Add(r0)) // left
	f.planes[1] = planeFrom(r3.Sub(r0)) // right
	f.planes[2] = planeFrom(r3.Add(r1)) // bottom
	f.planes[3] = planeFrom(r3.Sub(r1)) // top
	f.planes[4] = planeFrom(r3.Add(r2)) // near
	f.planes[5] = planeFrom(r3.Sub(r2)) // far
	return f
}

// planeFrom normalizes a plane equation
func planeFrom(v mgl32.Vec4) Plane {
	p := Plane{Normal: v.Vec3(), Distance: v[3]}
	length := p.Normal.Len()
	if length == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / length), Distance: p.Distance / length}
}

func (f *Frustum) Planes() [6]Plane {
	return f.planes
}

// ContainsSphere tests if a sphere is inside or intersects the frustum
func (f *Frustum) ContainsSphere(center mgl32.Vec3, radius float32) bool {
	for i := 0; i < 6; i++ {
		// If sphere is completely behind any plane, it's outside
		if f.planes[i].DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum
func (f *Frustum) ContainsPoint(point mgl32.Vec3) bool {
	for i := 0; i < 6; i++ {
		if f.planes[i].DistanceTo(point) < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB tests the box corner furthest along each plane normal. It can
// report boxes near frustum corners as visible, never the reverse. Invalid
// boxes are never visible.
func (f *Frustum) ContainsAABB(b physics.AABB) bool {
	if !b.Valid() {
		return false
	}
	for i := 0; i < 6; i++ {
		p := f.planes[i]
		var v mgl32.Vec3
		for a := 0; a < 3; a++ {
			if p.Normal[a] >= 0 {
				v[a] = b.Max[a]
			} else {
				v[a] = b.Min[a]
			}
		}
		if p.DistanceTo(v) < 0 {
			return false
		}
	}
	return true
}
