package main

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"walk3d/internal/config"
	"walk3d/internal/engine"
	"walk3d/internal/input"
	"walk3d/internal/physics"
	"walk3d/internal/watcher"
	"walk3d/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Viewer drives a world from the keyboard and mouse and draws its collider
// boxes. It has no renderer of its own; everything on screen is debug
// geometry.
type Viewer struct {
	Config config.Config
	World  *world.World

	DebugMode bool
	Paused    bool

	// free camera used when the scene has no character
	freeYaw   float32
	freePitch float32
	freePos   mgl32.Vec3

	mu       sync.Mutex
	reloaded *world.World

	// what the crosshair was on last frame; kept as a ref so it survives a reload
	looking   engine.NodeRef
	lookPoint mgl32.Vec3

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
	culled   int
}

func New(cfg config.Config, w *world.World) *Viewer {
	return &Viewer{
		Config:    cfg,
		World:     w,
		freeYaw:   -135,
		freePitch: -30,
		freePos:   mgl32.Vec3{10, 10, 10},
	}
}

func (v *Viewer) Run() error {
	vc := v.Config.Viewer
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(vc.Width, vc.Height, vc.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(vc.FPS)
	rl.DisableCursor()
	gui.LoadStyleDefault()

	if vc.Watch {
		fw, err := v.watch()
		if err != nil {
			return err
		}
		defer fw.Close()
	}

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()
	}
	return nil
}

// watch reloads the scene file when it changes on disk. The new world is
// swapped in at the start of the next frame.
func (v *Viewer) watch() (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(200 * time.Millisecond)
	if err != nil {
		return nil, err
	}
	err = fw.Watch([]string{v.Config.Scene}, func(path string) {
		w, err := world.Load(v.Config)
		if err != nil {
			log.Printf("[viewer] reload %s: %v", path, err)
			return
		}
		v.mu.Lock()
		v.reloaded = w
		v.mu.Unlock()
		log.Printf("[viewer] reloaded %s", path)
	})
	if err != nil {
		fw.Close()
		return nil, err
	}
	fw.Start()
	return fw, nil
}

// pollInput reads the keyboard and mouse into one frame of input. Toggles
// fire on key release.
func pollInput() input.State {
	delta := rl.GetMouseDelta()
	return input.State{
		Forward:           rl.IsKeyDown(rl.KeyW),
		Back:              rl.IsKeyDown(rl.KeyS),
		Left:              rl.IsKeyDown(rl.KeyA),
		Right:             rl.IsKeyDown(rl.KeyD),
		Jump:              rl.IsKeyDown(rl.KeySpace),
		MouseDX:           delta.X,
		MouseDY:           delta.Y,
		ToggleThirdPerson: rl.IsKeyReleased(rl.KeyV),
		ToggleFly:         rl.IsKeyReleased(rl.KeyF),
		ToggleBounds:      rl.IsKeyReleased(rl.KeyB),
	}
}

func (v *Viewer) Update() {
	updateStart := time.Now()

	v.mu.Lock()
	if v.reloaded != nil {
		v.World, v.reloaded = v.reloaded, nil
	}
	v.mu.Unlock()

	// the debug panel needs a free cursor to click its checkboxes
	if rl.IsKeyPressed(rl.KeyF1) {
		v.DebugMode = !v.DebugMode
		if v.DebugMode {
			rl.EnableCursor()
		} else {
			rl.DisableCursor()
		}
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.Paused = !v.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.World.Reset()
	}

	deltaTime := rl.GetFrameTime()
	// a long hitch (window drag, breakpoint) would tunnel through floors
	if deltaTime > 0.1 {
		deltaTime = 0.1
	}

	in := pollInput()
	if v.DebugMode {
		in.MouseDX, in.MouseDY = 0, 0
	}
	if v.World.Character == nil {
		v.updateFreeCamera(deltaTime, in)
		in = input.State{}
	}
	if !v.Paused {
		v.World.Step(deltaTime, in)
	}

	v.looking.Clear()
	if target, ok := v.World.LookAt(50); ok {
		v.looking = target.Node
		v.lookPoint = target.Point
	}

	v.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (v *Viewer) updateFreeCamera(deltaTime float32, in input.State) {
	v.freeYaw += in.MouseDX * v.Config.Controller.Sensitivity
	v.freePitch = mgl32.Clamp(v.freePitch-in.MouseDY*v.Config.Controller.Sensitivity, -89, 89)
	front := freeFront(v.freeYaw, v.freePitch)
	right := front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	speed := v.Config.Controller.Speed * deltaTime
	if in.Forward {
		v.freePos = v.freePos.Add(front.Mul(speed))
	}
	if in.Back {
		v.freePos = v.freePos.Sub(front.Mul(speed))
	}
	if in.Right {
		v.freePos = v.freePos.Add(right.Mul(speed))
	}
	if in.Left {
		v.freePos = v.freePos.Sub(right.Mul(speed))
	}
}

func freeFront(yaw, pitch float32) mgl32.Vec3 {
	y, p := float64(mgl32.DegToRad(yaw)), float64(mgl32.DegToRad(pitch))
	return mgl32.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(math.Sin(y) * math.Cos(p)),
	}
}

// camera returns the raylib camera and the matching view-projection matrix
// for culling.
func (v *Viewer) camera() (rl.Camera3D, mgl32.Mat4) {
	aspect := float32(rl.GetScreenWidth()) / float32(rl.GetScreenHeight())
	var eye, target mgl32.Vec3
	fovy := v.Config.Camera.Fovy
	if c := v.World.Character; c != nil {
		eye = c.Eye()
		target = c.Rig.Target(c.Position)
		fovy = c.Rig.Fovy
	} else {
		eye = v.freePos
		target = v.freePos.Add(freeFront(v.freeYaw, v.freePitch))
	}
	up := mgl32.Vec3{0, 1, 0}
	cam := rl.Camera3D{
		Position:   vec(eye),
		Target:     vec(target),
		Up:         vec(up),
		Fovy:       fovy,
		Projection: rl.CameraPerspective,
	}
	viewProj := mgl32.Perspective(mgl32.DegToRad(fovy), aspect, 0.01, 1000).Mul4(mgl32.LookAtV(eye, target, up))
	return cam, viewProj
}

func vec(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func (v *Viewer) Draw() {
	camera, viewProj := v.camera()
	frustum := world.ExtractFrustum(viewProj)

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	drawStart := time.Now()
	rl.BeginMode3D(camera)
	rl.DrawGrid(40, 1)
	v.drawColliders(&frustum)
	v.drawCharacter()
	v.drawLookTarget()
	v.drawLights(&frustum)
	rl.EndMode3D()
	v.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	v.DrawUI()
	rl.EndDrawing()
}

func (v *Viewer) drawColliders(frustum *world.Frustum) {
	w := v.World
	v.culled = 0
	touching := make(map[*physics.Collider]bool)
	for _, c := range w.Contacts() {
		touching[c.Collider] = true
	}

	for _, c := range w.Physics.Colliders() {
		if w.IsCharacter(c.Node) || !c.World.Valid() {
			continue
		}
		if !frustum.ContainsAABB(c.World) {
			v.culled++
			continue
		}
		center, size := vec(c.World.Center), vec(c.World.Size())
		color := lookupColor(w.Colors[c.Node], c.Solid)
		if c.Solid {
			rl.DrawCubeV(center, size, color)
		}
		wire := rl.DarkGray
		if touching[c] {
			wire = rl.Red
		} else if !c.Solid {
			wire = color
		}
		rl.DrawCubeWiresV(center, size, wire)
	}
}

func (v *Viewer) drawCharacter() {
	c := v.World.Character
	if c == nil {
		return
	}
	// the body is only visible from behind or with bounds switched on
	if !c.ShowBounds && !c.Rig.ThirdPerson {
		return
	}
	box := v.World.CharacterBounds()
	if !box.Valid() {
		return
	}
	color := rl.SkyBlue
	if v.World.Colliding() {
		color = rl.Orange
	}
	if c.Rig.ThirdPerson {
		rl.DrawCubeV(vec(box.Center), vec(box.Size()), rl.Fade(color, 0.6))
	}
	rl.DrawCubeWiresV(vec(box.Center), vec(box.Size()), color)
	rl.DrawLine3D(vec(c.Position), vec(c.Position.Add(c.Rig.Forward())), rl.Red)
}

func (v *Viewer) drawLookTarget() {
	if !v.looking.IsValid() {
		return
	}
	rl.DrawSphere(vec(v.lookPoint), 0.05, rl.Red)
}

func (v *Viewer) drawLights(frustum *world.Frustum) {
	for _, l := range v.World.Lights {
		if !frustum.ContainsSphere(l.Position, 0.2) {
			continue
		}
		color := rl.NewColor(channel(l.Color[0]), channel(l.Color[1]), channel(l.Color[2]), 255)
		rl.DrawSphere(vec(l.Position), 0.15, color)
		rl.DrawLine3D(vec(l.Position), vec(l.Position.Add(l.Direction)), color)
	}
}

func channel(f float32) uint8 {
	return uint8(mgl32.Clamp(f, 0, 1) * 255)
}

func (v *Viewer) DrawUI() {
	rl.DrawText("WASD to move, Space to jump, Mouse to look", 10, 10, 20, rl.LightGray)
	rl.DrawText("V camera, F fly, B bounds, R reset, P pause, F1 debug", 10, 35, 20, rl.LightGray)
	rl.DrawFPS(10, 60)

	// crosshair
	cx, cy := int32(rl.GetScreenWidth()/2), int32(rl.GetScreenHeight()/2)
	if v.World.Character != nil && !v.World.Character.Rig.ThirdPerson {
		rl.DrawLine(cx-6, cy, cx+6, cy, rl.White)
		rl.DrawLine(cx, cy-6, cx, cy+6, rl.White)
	}

	if !v.DebugMode {
		return
	}

	w := v.World
	screenW := float32(rl.GetScreenWidth())
	panel := rl.Rectangle{X: screenW - 330, Y: 10, Width: 320, Height: 270}
	gui.Panel(panel, w.Name)

	lines := []string{
		fmt.Sprintf("Frame %d  t=%.2fs", w.Frame, w.Time),
		fmt.Sprintf("Colliders: %d (%d culled)", w.Physics.Len(), v.culled),
		fmt.Sprintf("Contacts: %d", len(w.Contacts())),
		fmt.Sprintf("Update: %.2f ms  Draw: %.2f ms", v.updateMs, v.drawMs),
	}
	if c := w.Character; c != nil {
		p, corr := c.Position, c.LastCorrection()
		lines = append(lines,
			fmt.Sprintf("State: %s", c.State()),
			fmt.Sprintf("Pos: (%.2f, %.2f, %.2f)", p[0], p[1], p[2]),
			fmt.Sprintf("Correction: (%.3f, %.3f, %.3f)", corr[0], corr[1], corr[2]),
			fmt.Sprintf("Vertical velocity: %.3f", c.VerticalVelocity()),
		)
		looking := "-"
		if h := v.looking.Get(w.Graph); h.Valid() {
			looking = w.Graph.Node(h).Name
		}
		lines = append(lines, "Looking at: "+looking)
	} else {
		lines = append(lines, "No character, free camera")
	}
	for i, line := range lines {
		gui.Label(rl.Rectangle{X: panel.X + 10, Y: panel.Y + 30 + float32(i)*20, Width: panel.Width - 20, Height: 20}, line)
	}

	v.Paused = gui.CheckBox(rl.Rectangle{X: panel.X + 10, Y: panel.Y + panel.Height - 30, Width: 16, Height: 16}, "Paused", v.Paused)
	if c := w.Character; c != nil {
		c.ShowBounds = gui.CheckBox(rl.Rectangle{X: panel.X + 120, Y: panel.Y + panel.Height - 30, Width: 16, Height: 16}, "Bounds", c.ShowBounds)
	}
}
