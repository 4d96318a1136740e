package world

import (
	"log"

	"walk3d/internal/camera"
	"walk3d/internal/components"
	"walk3d/internal/config"
	"walk3d/internal/engine"
	"walk3d/internal/input"
	"walk3d/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// World is the scene context: everything one frame of simulation reads and
// writes. Nothing lives in package globals, so worlds can run side by side
// in tests.
type World struct {
	Name   string
	Config config.Config

	Graph     *engine.Graph
	Physics   *physics.World
	Character *components.CharacterController
	Lights    []*components.Light

	// Colors holds the display color name of nodes that asked for one.
	Colors map[engine.Handle]string

	Frame int
	Time  float32

	contacts      []physics.Contact
	characterBox  physics.AABB
	characterTree map[engine.Handle]bool
	spawn         mgl32.Vec3

	models   map[engine.Handle]modelDef
	imported map[engine.Handle]bool
	sceneDir string
}

func New(cfg config.Config) *World {
	return &World{
		Name:         "Main",
		Config:       cfg,
		Graph:        engine.NewGraph("Main"),
		Physics:      physics.NewWorld(),
		Colors:       make(map[engine.Handle]string),
		characterBox: physics.EmptyAABB(),
		models:       make(map[engine.Handle]modelDef),
		imported:     make(map[engine.Handle]bool),
	}
}

// Load creates a world and fills it from cfg.Scene.
func Load(cfg config.Config) (*World, error) {
	w := New(cfg)
	if err := w.LoadScene(cfg.Scene); err != nil {
		return nil, err
	}
	return w, nil
}

// NewRig builds a look rig from the camera and controller settings.
func NewRig(cfg config.Config) *camera.Rig {
	rig := camera.New(cfg.Camera.Yaw, cfg.Camera.Pitch)
	rig.LookSpeed = cfg.Controller.Sensitivity
	rig.Distance = cfg.Camera.ThirdPersonDistance
	rig.EyeOffset = mgl32.Vec3(cfg.Camera.EyeOffset)
	rig.Smoothing = cfg.Camera.Smoothing
	rig.Fovy = cfg.Camera.Fovy
	rig.SnapOffset()
	return rig
}

// SpawnCharacter puts a controller on h, starting from the node's current
// position.
func (w *World) SpawnCharacter(h engine.Handle) (*components.CharacterController, error) {
	if !w.Graph.Contains(h) {
		return nil, engine.ErrInvalidHandle
	}
	if w.Character != nil {
		return nil, errors.Errorf("world already has a character on %q", w.Graph.Node(w.Character.Node).Name)
	}

	cc := w.Config.Controller
	c := components.NewCharacterController(h, w.Graph.Node(h).Position(), NewRig(w.Config))
	c.Speed = cc.Speed
	c.Gravity = cc.Gravity
	c.JumpStrength = cc.JumpStrength
	c.VerticalScale = cc.VerticalScale
	c.Height = cc.Height
	c.Radius = cc.Radius
	c.RespawnHeight = cc.RespawnHeight
	c.RespawnPoint = mgl32.Vec3(cc.RespawnPoint)

	c.StateChanged.AddListener(func(s components.MoveState) {
		log.Printf("[world] %s is now %s", w.Graph.Node(h).Name, s)
	})
	c.Respawned.AddListener(func() {
		log.Printf("[world] %s fell below %.1f, respawned", w.Graph.Node(h).Name, c.RespawnHeight)
	})

	w.Character = c
	w.spawn = c.Position
	w.refreshCharacterTree()
	return c, nil
}

func (w *World) refreshCharacterTree() {
	w.characterTree = make(map[engine.Handle]bool)
	if w.Character == nil {
		return
	}
	for _, h := range w.Graph.Subtree(w.Character.Node) {
		w.characterTree[h] = true
	}
}

// AddLight anchors a light to h.
func (w *World) AddLight(l *components.Light) {
	w.Lights = append(w.Lights, l)
	l.Refresh(w.Graph)
}

// Step advances the world by one frame. The order is fixed: integrate the
// controller, stage its pending pose, refresh the graph, refit colliders,
// resolve the character, commit, refresh the character subtree.
func (w *World) Step(deltaTime float32, in input.State) {
	w.Frame++
	w.Time += deltaTime

	if w.Character == nil {
		w.Graph.Refresh()
		w.Physics.Refit(w.Graph)
		w.contacts = nil
		w.refreshLights()
		return
	}

	pending := w.Character.Integrate(deltaTime, in)
	w.stagePose(pending)

	w.Graph.Refresh()
	w.Physics.Refit(w.Graph)

	w.resolveCharacter(deltaTime)
	w.refreshLights()
}

func (w *World) stagePose(position mgl32.Vec3) {
	n := w.Graph.Node(w.Character.Node)
	n.SetPositionV(position)
	n.SetRotation(w.Character.Orientation())
}

func (w *World) refreshLights() {
	for _, l := range w.Lights {
		l.Refresh(w.Graph)
	}
}

// Contacts returns the colliders the character overlapped in the last step.
func (w *World) Contacts() []physics.Contact {
	return w.contacts
}

// Colliding reports whether a solid collider pushed the character in the
// last step.
func (w *World) Colliding() bool {
	for _, c := range w.contacts {
		if c.Collider.Solid {
			return true
		}
	}
	return false
}

func (w *World) Grounded() bool {
	return w.Character != nil && w.Character.IsGrounded()
}

// CharacterBounds is the character box after the last commit.
func (w *World) CharacterBounds() physics.AABB {
	return w.characterBox
}

// Reset puts the character back where it spawned and restarts the clock.
func (w *World) Reset() {
	w.Frame = 0
	w.Time = 0
	w.contacts = nil
	if w.Character == nil {
		return
	}
	w.Character.Teleport(w.spawn)
	w.stagePose(w.spawn)
	w.Graph.Refresh()
	w.Physics.Refit(w.Graph)
	w.characterBox = w.characterBounds()
	w.refreshLights()
}
