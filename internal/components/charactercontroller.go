package components

import (
	"walk3d/internal/camera"
	"walk3d/internal/engine"
	"walk3d/internal/input"
	"walk3d/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

// MoveState is the locomotion state of a character.
type MoveState int

const (
	Grounded MoveState = iota
	Airborne
	Flying
)

func (s MoveState) String() string {
	switch s {
	case Grounded:
		return "grounded"
	case Airborne:
		return "airborne"
	case Flying:
		return "flying"
	}
	return "unknown"
}

// CharacterController moves a character node through the scene. A frame is
// split in two: Integrate proposes a pending position from input and
// gravity, and Resolve applies the collision correction found for that
// position and commits it.
type CharacterController struct {
	Node engine.Handle
	Rig  *camera.Rig

	// Configuration
	Speed         float32 // units per second
	Gravity       float32
	JumpStrength  float32
	VerticalScale float32 // vertical velocity multiplier when integrating
	Height        float32 // used for the fallback box when the character has no colliders
	Radius        float32
	RespawnHeight float32
	RespawnPoint  mgl32.Vec3
	AnimationRate float32 // easing rate of the walk animation weight

	Position mgl32.Vec3 // last committed position

	ShowBounds bool

	StateChanged engine.EventWithArg[MoveState]
	Respawned    engine.Event

	// Runtime state
	pending    mgl32.Vec3
	velocity   float32
	state      MoveState
	moving     bool
	animWeight float32
	correction mgl32.Vec3
}

// NewCharacterController creates a controller with defaults
func NewCharacterController(node engine.Handle, position mgl32.Vec3, rig *camera.Rig) *CharacterController {
	if rig == nil {
		rig = camera.New(-90, 0)
	}
	return &CharacterController{
		Node:          node,
		Rig:           rig,
		Speed:         5.5,
		Gravity:       5,
		JumpStrength:  1,
		VerticalScale: 3,
		Height:        1.8,
		Radius:        0.5,
		RespawnHeight: -20,
		RespawnPoint:  mgl32.Vec3{0, 10, 0},
		AnimationRate: 10,
		Position:      position,
		pending:       position,
		// the first frame decides whether there is ground below
		state: Airborne,
	}
}

func (c *CharacterController) State() MoveState {
	return c.state
}

func (c *CharacterController) IsGrounded() bool {
	return c.state == Grounded
}

func (c *CharacterController) IsFlying() bool {
	return c.state == Flying
}

// Moving reports whether directional input moved the character this frame.
func (c *CharacterController) Moving() bool {
	return c.moving
}

// AnimationWeight eases between 0 (idle) and 1 (walking) and is meant to
// scale the playback rate of a walk cycle.
func (c *CharacterController) AnimationWeight() float32 {
	return c.animWeight
}

func (c *CharacterController) VerticalVelocity() float32 {
	return c.velocity
}

// SetVerticalVelocity overrides the vertical velocity, e.g. for launch pads.
func (c *CharacterController) SetVerticalVelocity(v float32) {
	c.velocity = v
}

// Pending is the position proposed by the last Integrate.
func (c *CharacterController) Pending() mgl32.Vec3 {
	return c.pending
}

// LastCorrection is the collision correction applied by the last Resolve.
func (c *CharacterController) LastCorrection() mgl32.Vec3 {
	return c.correction
}

// Orientation is the rotation the character node should face.
func (c *CharacterController) Orientation() mgl32.Quat {
	return c.Rig.Heading()
}

// Bounds is the upright box of Height and Radius standing at position. It
// is used when the character has no colliders of its own.
func (c *CharacterController) Bounds(position mgl32.Vec3) physics.AABB {
	return physics.NewAABB(position, mgl32.Vec3{c.Radius, c.Height / 2, c.Radius})
}

func (c *CharacterController) setState(s MoveState) {
	if c.state == s {
		return
	}
	c.state = s
	c.StateChanged.Invoke(s)
}

// Integrate applies look, toggles, walking and gravity and returns the
// pending position to test for collisions.
func (c *CharacterController) Integrate(deltaTime float32, in input.State) mgl32.Vec3 {
	c.Rig.Look(in.MouseDX, in.MouseDY)

	if in.ToggleThirdPerson {
		c.Rig.ToggleThirdPerson()
	}
	if in.ToggleBounds {
		c.ShowBounds = !c.ShowBounds
	}
	if in.ToggleFly {
		if c.state == Flying {
			c.setState(Airborne)
		} else {
			c.velocity = 0
			c.setState(Flying)
		}
	}

	// Flying follows the full look direction, walking stays horizontal
	forward := c.Rig.Forward()
	if c.state == Flying {
		forward = c.Rig.Front()
	}
	right := c.Rig.Right()

	var moveDir mgl32.Vec3
	if in.Forward {
		moveDir = moveDir.Add(forward)
	}
	if in.Back {
		moveDir = moveDir.Sub(forward)
	}
	if in.Right {
		moveDir = moveDir.Add(right)
	}
	if in.Left {
		moveDir = moveDir.Sub(right)
	}

	// Normalize diagonal movement so you don't go faster diagonally
	c.moving = false
	if moveDir.Len() > 1e-6 {
		moveDir = moveDir.Normalize()
		c.moving = true
	} else {
		moveDir = mgl32.Vec3{}
	}

	c.pending = c.Position.Add(moveDir.Mul(c.Speed * deltaTime))

	if c.state != Flying {
		if in.Jump && c.state == Grounded {
			c.velocity = c.JumpStrength
		}
		c.velocity -= c.Gravity * deltaTime
		c.pending[1] += c.velocity * c.VerticalScale * deltaTime
	}

	c.updateAnimation(deltaTime)
	return c.pending
}

func (c *CharacterController) updateAnimation(deltaTime float32) {
	target := float32(0)
	if c.moving {
		target = 1
	}
	t := deltaTime * c.AnimationRate
	if t > 1 {
		t = 1
	}
	c.animWeight += (target - c.animWeight) * t
}

// Resolve applies the accumulated collision correction to the pending
// position, updates the locomotion state and commits the result.
func (c *CharacterController) Resolve(deltaTime float32, acc physics.Accumulator) mgl32.Vec3 {
	correction := acc.Vec()

	if c.state == Flying {
		correction[1] = 0
	} else if acc.HasVertical() {
		// landing, or bumping a ceiling while still rising
		falling := c.velocity <= 0
		c.velocity = 0
		if falling {
			c.setState(Grounded)
		} else {
			c.setState(Airborne)
		}
	} else if c.velocity != 0 {
		c.setState(Airborne)
	}

	c.correction = correction
	c.pending = c.pending.Add(correction)

	if c.pending[1] < c.RespawnHeight {
		c.pending = c.RespawnPoint
		c.velocity = 0
		if c.state != Flying {
			c.setState(Airborne)
		}
		c.Respawned.Invoke()
	}

	c.Position = c.pending
	c.Rig.Update(deltaTime)
	return c.Position
}

// Teleport moves the character without collision checks.
func (c *CharacterController) Teleport(position mgl32.Vec3) {
	c.Position = position
	c.pending = position
	c.velocity = 0
	c.Rig.SnapOffset()
}

// Eye is the camera position for the committed pose.
func (c *CharacterController) Eye() mgl32.Vec3 {
	return c.Rig.Eye(c.Position)
}
