package physics

// Axis is one of the three world axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// Face names one of the six faces of a box.
type Face int

const (
	MinX Face = iota
	MaxX
	MinY
	MaxY
	MinZ
	MaxZ
)

// Axis returns the axis the face is orthogonal to.
func (f Face) Axis() Axis {
	return Axis(f / 2)
}

// rect is the face projected onto the plane orthogonal to its axis.
type rect struct {
	minU, maxU float32
	minV, maxV float32
}

func (r rect) area() float32 {
	return (r.maxU - r.minU) * (r.maxV - r.minV)
}

// planeAxes maps a face axis to the two axes spanning its plane:
// X faces lie in (Y, Z), Y faces in (X, Z), Z faces in (X, Y).
var planeAxes = [3][2]int{
	{1, 2},
	{0, 2},
	{0, 1},
}

func (b AABB) faceRect(f Face) rect {
	uv := planeAxes[f.Axis()]
	u, v := uv[0], uv[1]
	return rect{minU: b.Min[u], maxU: b.Max[u], minV: b.Min[v], maxV: b.Max[v]}
}

// FaceOverlapRatio measures how much of face faceSelf of b is covered by
// face faceOther of other once both are projected onto the plane orthogonal
// to faceSelf's axis. The intersection area is divided by the smaller of the
// two face areas, so a face fully covering the other scores 1. Disjoint
// projections, mismatched axes and zero-area faces score 0.
func (b AABB) FaceOverlapRatio(faceSelf Face, other AABB, faceOther Face) float32 {
	if faceSelf.Axis() != faceOther.Axis() || !b.Valid() || !other.Valid() {
		return 0
	}
	a := b.faceRect(faceSelf)
	o := other.faceRect(faceOther)

	w := minf(a.maxU, o.maxU) - maxf(a.minU, o.minU)
	h := minf(a.maxV, o.maxV) - maxf(a.minV, o.minV)
	if w <= 0 || h <= 0 {
		return 0
	}
	smaller := minf(a.area(), o.area())
	if smaller <= 0 {
		return 0
	}
	ratio := w * h / smaller
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
