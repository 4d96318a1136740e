package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// AABB is an axis-aligned box. A fresh box sits at the +Inf/-Inf sentinel
// extremes so every Fit can only tighten it; a box that was never fit, or
// was fit with no vertices, is invalid and overlaps nothing.
type AABB struct {
	Min      mgl32.Vec3
	Max      mgl32.Vec3
	Center   mgl32.Vec3
	HalfSize mgl32.Vec3

	// reference is the geometry the box was fit from, kept so the box can
	// be re-fit after its owner moves.
	reference []mgl32.Vec3
}

// EmptyAABB returns a box at the sentinel extremes.
func EmptyAABB() AABB {
	var b AABB
	b.Reset()
	return b
}

// NewAABB creates a box from a center point and half extents.
func NewAABB(center, halfSize mgl32.Vec3) AABB {
	return AABB{
		Min:      center.Sub(halfSize),
		Max:      center.Add(halfSize),
		Center:   center,
		HalfSize: halfSize,
	}
}

// NewAABBFromVertices fits a box to vertices and keeps them as reference.
func NewAABBFromVertices(vertices []mgl32.Vec3) AABB {
	var b AABB
	b.FitReference(vertices)
	return b
}

// Reset moves the bounds back to the sentinel extremes. The reference
// vertices are kept.
func (b *AABB) Reset() {
	b.Min = mgl32.Vec3{posInf, posInf, posInf}
	b.Max = mgl32.Vec3{negInf, negInf, negInf}
	b.Center = mgl32.Vec3{}
	b.HalfSize = mgl32.Vec3{}
}

// Fit resets the box and folds every vertex into it.
func (b *AABB) Fit(vertices []mgl32.Vec3) {
	b.Reset()
	b.Extend(vertices...)
}

// FitReference fits the box and remembers vertices as its reference
// geometry.
func (b *AABB) FitReference(vertices []mgl32.Vec3) {
	b.reference = vertices
	b.Fit(vertices)
}

// Extend grows the box to include the given points without resetting it.
func (b *AABB) Extend(points ...mgl32.Vec3) {
	for _, p := range points {
		for i := 0; i < 3; i++ {
			if p[i] < b.Min[i] {
				b.Min[i] = p[i]
			}
			if p[i] > b.Max[i] {
				b.Max[i] = p[i]
			}
		}
	}
	b.refreshCenter()
}

// Union grows the box to include other. Invalid boxes contribute nothing.
func (b *AABB) Union(other AABB) {
	if !other.Valid() {
		return
	}
	b.Extend(other.Min, other.Max)
}

// RecalculateFromReference transforms every reference vertex by world and
// fits the box to the result. Rotating the corners of an existing box would
// overestimate the volume; re-fitting the geometry keeps it tight.
func (b *AABB) RecalculateFromReference(world mgl32.Mat4, reference []mgl32.Vec3) {
	b.Reset()
	for _, v := range reference {
		p := mgl32.TransformCoordinate(v, world)
		for i := 0; i < 3; i++ {
			if p[i] < b.Min[i] {
				b.Min[i] = p[i]
			}
			if p[i] > b.Max[i] {
				b.Max[i] = p[i]
			}
		}
	}
	b.refreshCenter()
}

// Transformed returns the world-space box of this box's reference geometry.
// A box built without a reference is its own geometry, so its corners are
// used.
func (b AABB) Transformed(world mgl32.Mat4) AABB {
	var out AABB
	if b.reference != nil {
		out.RecalculateFromReference(world, b.reference)
		return out
	}
	if !b.Valid() {
		out.Reset()
		return out
	}
	corners := b.Corners()
	out.RecalculateFromReference(world, corners[:])
	return out
}

// Reference returns the geometry the box was fit from, if any.
func (b AABB) Reference() []mgl32.Vec3 {
	return b.reference
}

func (b *AABB) refreshCenter() {
	if !b.Valid() {
		b.Center = mgl32.Vec3{}
		b.HalfSize = mgl32.Vec3{}
		return
	}
	b.HalfSize = b.Max.Sub(b.Min).Mul(0.5)
	b.Center = b.Min.Add(b.HalfSize)
}

// Valid reports whether Min <= Max on every axis.
func (b AABB) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Size returns the full extents.
func (b AABB) Size() mgl32.Vec3 {
	if !b.Valid() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Overlaps is a closed interval test on all three axes: touching boxes
// overlap. Invalid boxes never overlap anything.
func (b AABB) Overlaps(o AABB) bool {
	if !b.Valid() || !o.Valid() {
		return false
	}
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1] &&
		b.Min[2] <= o.Max[2] && b.Max[2] >= o.Min[2]
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Corners returns the eight corners, min corner first and max corner last.
func (b AABB) Corners() [8]mgl32.Vec3 {
	mn, mx := b.Min, b.Max
	return [8]mgl32.Vec3{
		{mn[0], mn[1], mn[2]},
		{mx[0], mn[1], mn[2]},
		{mn[0], mx[1], mn[2]},
		{mn[0], mn[1], mx[2]},
		{mx[0], mx[1], mn[2]},
		{mx[0], mn[1], mx[2]},
		{mn[0], mx[1], mx[2]},
		{mx[0], mx[1], mx[2]},
	}
}
