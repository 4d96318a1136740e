package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

type RaycastHit struct {
	Collider *Collider
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
}

// Raycast checks every collider's world box and returns the closest hit.
// Colliders for which skip returns true are ignored; skip may be nil.
func (w *World) Raycast(origin, direction mgl32.Vec3, maxDistance float32, skip func(*Collider) bool) (RaycastHit, bool) {
	if direction.Len() == 0 {
		return RaycastHit{}, false
	}
	direction = direction.Normalize()
	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, c := range w.colliders {
		if skip != nil && skip(c) {
			continue
		}
		if hitInfo, ok := RaycastAABB(origin, direction, c.World, maxDistance); ok {
			if hitInfo.Distance < closestHit.Distance {
				closestHit = hitInfo
				closestHit.Collider = c
				hit = true
			}
		}
	}

	return closestHit, hit
}

// RaycastAABB is the slab test against one box. direction must be
// normalised. A ray starting inside the box hits at distance 0.
func RaycastAABB(origin, direction mgl32.Vec3, box AABB, maxDistance float32) (RaycastHit, bool) {
	if !box.Valid() {
		return RaycastHit{}, false
	}

	tmin := float32(-1e30)
	tmax := float32(1e30)
	enterAxis := -1
	var enterSign float32

	for i := 0; i < 3; i++ {
		if direction[i] == 0 {
			if origin[i] < box.Min[i] || origin[i] > box.Max[i] {
				return RaycastHit{}, false
			}
			continue
		}
		t1 := (box.Min[i] - origin[i]) / direction[i]
		t2 := (box.Max[i] - origin[i]) / direction[i]
		// entering through the min face means the normal points to -axis
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			enterAxis = i
			enterSign = sign
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}

	if tmax < 0 {
		return RaycastHit{}, false
	}

	var normal mgl32.Vec3
	dist := tmin
	if dist < 0 {
		// origin inside the box
		dist = 0
	} else if enterAxis >= 0 {
		normal[enterAxis] = enterSign
	}
	if dist > maxDistance {
		return RaycastHit{}, false
	}

	return RaycastHit{
		Point:    origin.Add(direction.Mul(dist)),
		Normal:   normal,
		Distance: dist,
	}, true
}
