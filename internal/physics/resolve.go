package physics

import "github.com/go-gl/mathgl/mgl32"

// Resolution is the outcome of pushing a character box out of one obstacle.
type Resolution struct {
	// Candidate holds the per-axis penetration depth, signed away from the
	// obstacle.
	Candidate mgl32.Vec3
	// Ratios holds the face overlap ratio per axis.
	Ratios mgl32.Vec3
	Axis   Axis
	// Push is the correction along Axis. Zero means nothing to correct.
	Push float32
}

// Correction returns the push as a vector along the chosen axis.
func (r Resolution) Correction() mgl32.Vec3 {
	var v mgl32.Vec3
	v[r.Axis] = r.Push
	return v
}

// Resolve computes how to move character out of obstacle. The correction is
// applied on a single axis: the one whose facing sides overlap the most,
// which is not necessarily the axis of shallowest penetration.
func Resolve(character, obstacle AABB) Resolution {
	if !character.Overlaps(obstacle) {
		return Resolution{Axis: AxisY}
	}

	var r Resolution
	combined := character.HalfSize.Add(obstacle.HalfSize)
	delta := character.Center.Sub(obstacle.Center)
	for i := 0; i < 3; i++ {
		d := absf(delta[i])
		if d >= combined[i] {
			continue
		}
		sign := float32(1)
		if delta[i] < 0 {
			sign = -1
		}
		r.Candidate[i] = (combined[i] - d) * sign
	}

	faces := [3][2]Face{{MinX, MaxX}, {MinY, MaxY}, {MinZ, MaxZ}}
	for i, f := range faces {
		lo := character.FaceOverlapRatio(f[0], obstacle, f[1])
		hi := character.FaceOverlapRatio(f[1], obstacle, f[0])
		r.Ratios[i] = maxf(lo, hi)
	}

	x, y, z := r.Ratios[0], r.Ratios[1], r.Ratios[2]
	switch {
	case x > y && x > z:
		r.Axis = AxisX
	case z > y && z > x:
		r.Axis = AxisZ
	default:
		r.Axis = AxisY
	}
	r.Push = r.Candidate[r.Axis]
	return r
}

// Accumulator merges the corrections of every obstacle touched in a frame.
// Each axis keeps the correction with the largest magnitude; corrections
// are never summed, so two boxes meeting at a corner do not push twice.
type Accumulator struct {
	push mgl32.Vec3
}

func (a *Accumulator) Add(r Resolution) {
	a.AddVec(r.Correction())
}

// AddVec folds an arbitrary correction vector in.
func (a *Accumulator) AddVec(v mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if absf(v[i]) > absf(a.push[i]) {
			a.push[i] = v[i]
		}
	}
}

// Vec returns the accumulated correction.
func (a *Accumulator) Vec() mgl32.Vec3 {
	return a.push
}

// HasVertical reports whether any obstacle pushed along Y this frame.
func (a *Accumulator) HasVertical() bool {
	return a.push[1] != 0
}

func (a *Accumulator) IsZero() bool {
	return a.push == mgl32.Vec3{}
}

func (a *Accumulator) Reset() {
	a.push = mgl32.Vec3{}
}
