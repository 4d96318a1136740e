package world

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"walk3d/internal/components"
	"walk3d/internal/engine"
	"walk3d/internal/gltfscene"
	"walk3d/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// --- JSON types ---

type SceneFile struct {
	Name    string      `json:"name,omitempty"`
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Tags       []string          `json:"tags,omitempty"`
	Position   [3]float32        `json:"position"`
	Rotation   [3]float32        `json:"rotation"` // degrees
	Scale      [3]float32        `json:"scale"`
	Pivot      *[3]float32       `json:"pivot,omitempty"`
	Color      string            `json:"color,omitempty"`
	Components []json.RawMessage `json:"components,omitempty"`
	Children   []ObjectDef       `json:"children,omitempty"`
}

type componentHeader struct {
	Type string `json:"type"`
}

type boxColliderDef struct {
	Type    string     `json:"type"`
	Size    [3]float32 `json:"size"`
	Offset  [3]float32 `json:"offset,omitempty"`
	Trigger bool       `json:"trigger,omitempty"`
}

type meshColliderDef struct {
	Type     string       `json:"type"`
	Vertices [][3]float32 `json:"vertices"`
	Trigger  bool         `json:"trigger,omitempty"`
}

type characterControllerDef struct {
	Type   string   `json:"type"`
	Speed  float32  `json:"speed,omitempty"`
	Height float32  `json:"height,omitempty"`
	Radius float32  `json:"radius,omitempty"`
	Yaw    *float32 `json:"yaw,omitempty"`
	Pitch  *float32 `json:"pitch,omitempty"`
}

type lightDef struct {
	Type        string     `json:"type"`
	Kind        string     `json:"kind"`
	Offset      [3]float32 `json:"offset,omitempty"`
	Color       [3]float32 `json:"color,omitempty"`
	Intensity   float32    `json:"intensity,omitempty"`
	Radius      float32    `json:"radius,omitempty"`
	InnerCutoff float32    `json:"innerCutoff,omitempty"`
	OuterCutoff float32    `json:"outerCutoff,omitempty"`
}

type modelDef struct {
	Type    string   `json:"type"`
	Path    string   `json:"path"`
	Collide []string `json:"collide,omitempty"`
}

// --- Loading ---

// LoadScene reads a scene file into the world. Model paths are relative to
// the scene file.
func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read scene %s", path)
	}
	w.sceneDir = filepath.Dir(path)
	if err := w.ParseScene(data); err != nil {
		return errors.Wrapf(err, "scene %s", path)
	}
	return nil
}

// ParseScene adds the objects of a JSON scene to the world, then refreshes
// the graph and colliders so the world is ready to step.
func (w *World) ParseScene(data []byte) error {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return errors.Wrap(err, "parse scene")
	}
	if sf.Name != "" {
		w.Name = sf.Name
		w.Graph.Name = sf.Name
	}

	for i := range sf.Objects {
		if _, err := w.loadObject(&sf.Objects[i], engine.Nil); err != nil {
			return err
		}
	}

	w.Graph.Refresh()
	w.Physics.Refit(w.Graph)

	if w.Character == nil && w.Config.Character != "" {
		if h, ok := w.Graph.Find(w.Config.Character); ok {
			if _, err := w.SpawnCharacter(h); err != nil {
				return err
			}
		}
	}
	w.refreshCharacterTree()
	w.characterBox = w.characterBounds()
	w.refreshLights()

	log.Printf("[world] scene %q: %d nodes, %d colliders, %d lights",
		w.Name, w.Graph.Len(), w.Physics.Len(), len(w.Lights))
	return nil
}

func (w *World) loadObject(def *ObjectDef, parent engine.Handle) (engine.Handle, error) {
	h := w.Graph.NewNode(def.Name)
	if parent != engine.Nil {
		if err := w.Graph.AddChild(parent, h); err != nil {
			return h, errors.Wrapf(err, "attach %q", def.Name)
		}
	}

	n := w.Graph.Node(h)
	if def.ID != "" {
		id, err := uuid.Parse(def.ID)
		if err != nil {
			return h, errors.Wrapf(err, "object %q id", def.Name)
		}
		if err := w.Graph.SetID(h, id); err != nil {
			return h, err
		}
	}
	n.Tags = def.Tags
	n.SetPosition(def.Position[0], def.Position[1], def.Position[2])
	n.SetRotation(engine.EulerToQuat(mgl32.Vec3(def.Rotation)))

	// Default scale to 1 if zero
	if def.Scale != [3]float32{} {
		n.SetScale(def.Scale[0], def.Scale[1], def.Scale[2])
	}
	if def.Pivot != nil {
		n.SetPivot(def.Pivot[0], def.Pivot[1], def.Pivot[2])
	}
	if def.Color != "" {
		w.Colors[h] = def.Color
	}

	// children first so a Model or CharacterController sees the whole subtree
	for i := range def.Children {
		if _, err := w.loadObject(&def.Children[i], h); err != nil {
			return h, err
		}
	}

	for _, raw := range def.Components {
		var header componentHeader
		if err := json.Unmarshal(raw, &header); err != nil {
			return h, errors.Wrapf(err, "object %q component", def.Name)
		}

		var err error
		switch header.Type {
		case "BoxCollider":
			err = w.loadBoxCollider(h, def.Name, raw)
		case "MeshCollider":
			err = w.loadMeshCollider(h, def.Name, raw)
		case "CharacterController":
			err = w.loadCharacterController(h, raw)
		case "Light":
			err = w.loadLight(h, def.Name, raw)
		case "Model":
			err = w.loadModel(h, raw)
		default:
			log.Printf("[world] %q: unknown component type %q", def.Name, header.Type)
		}
		if err != nil {
			return h, errors.Wrapf(err, "object %q %s", def.Name, header.Type)
		}
	}
	return h, nil
}

func (w *World) loadBoxCollider(h engine.Handle, name string, raw json.RawMessage) error {
	var def boxColliderDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	c := w.Physics.AddBox(h, name, mgl32.Vec3(def.Offset), mgl32.Vec3(def.Size))
	c.Solid = !def.Trigger
	return nil
}

func (w *World) loadMeshCollider(h engine.Handle, name string, raw json.RawMessage) error {
	var def meshColliderDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	verts := make([]mgl32.Vec3, len(def.Vertices))
	for i, v := range def.Vertices {
		verts[i] = mgl32.Vec3(v)
	}
	c := w.Physics.AddMesh(h, name, verts)
	c.Solid = !def.Trigger
	return nil
}

func (w *World) loadCharacterController(h engine.Handle, raw json.RawMessage) error {
	var def characterControllerDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	c, err := w.SpawnCharacter(h)
	if err != nil {
		return err
	}
	if def.Speed > 0 {
		c.Speed = def.Speed
	}
	if def.Height > 0 {
		c.Height = def.Height
	}
	if def.Radius > 0 {
		c.Radius = def.Radius
	}
	if def.Yaw != nil {
		c.Rig.Yaw = *def.Yaw
	}
	if def.Pitch != nil {
		c.Rig.Pitch = mgl32.Clamp(*def.Pitch, -89, 89)
	}
	return nil
}

func (w *World) loadLight(h engine.Handle, name string, raw json.RawMessage) error {
	var def lightDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	kind := components.ParseLightKind(def.Kind)
	if kind == 0 {
		return errors.Errorf("unknown light kind %q", def.Kind)
	}
	l := components.NewLight(name, kind, h)
	l.Offset = mgl32.Vec3(def.Offset)
	if def.Color != [3]float32{} {
		l.Color = mgl32.Vec3(def.Color)
	}
	if def.Intensity > 0 {
		l.Intensity = def.Intensity
	}
	if def.Radius > 0 {
		l.Radius = def.Radius
	}
	if def.InnerCutoff > 0 {
		l.InnerCutoff = def.InnerCutoff
	}
	if def.OuterCutoff > 0 {
		l.OuterCutoff = def.OuterCutoff
	}
	w.AddLight(l)
	return nil
}

func (w *World) loadModel(h engine.Handle, raw json.RawMessage) error {
	var def modelDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	path := def.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.sceneDir, path)
	}
	doc, err := gltfscene.Open(path)
	if err != nil {
		return err
	}
	res, err := gltfscene.Import(doc, w.Graph, h, w.Physics, gltfscene.Options{Collide: def.Collide})
	if err != nil {
		return err
	}
	for _, n := range res.Nodes {
		w.imported[n] = true
	}
	w.models[h] = def
	log.Printf("[world] imported %s: %d nodes, %d colliders, %d vertices",
		def.Path, len(res.Nodes), len(res.Colliders), res.Vertices)
	return nil
}

// --- Saving ---

// SaveScene writes the authored part of the world back to JSON. Nodes that
// came from a model import are written as the Model component that made
// them.
func (w *World) SaveScene(path string) error {
	data, err := w.MarshalScene()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write scene %s", path)
	}
	return nil
}

func (w *World) MarshalScene() ([]byte, error) {
	sf := SceneFile{Name: w.Name}
	for _, r := range w.Graph.Roots() {
		if w.imported[r] {
			continue
		}
		def, err := w.objectDef(r)
		if err != nil {
			return nil, err
		}
		sf.Objects = append(sf.Objects, def)
	}
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal scene")
	}
	return data, nil
}

func (w *World) objectDef(h engine.Handle) (ObjectDef, error) {
	n := w.Graph.Node(h)
	def := ObjectDef{
		ID:       n.ID.String(),
		Name:     n.Name,
		Tags:     n.Tags,
		Position: n.Position(),
		Rotation: engine.QuatToEuler(n.Rotation()),
		Scale:    n.Scale(),
		Color:    w.Colors[h],
	}
	if p, ok := n.Pivot(); ok {
		pivot := [3]float32(p)
		def.Pivot = &pivot
	}

	for _, c := range n.Children() {
		if w.imported[c] {
			continue
		}
		child, err := w.objectDef(c)
		if err != nil {
			return def, err
		}
		def.Children = append(def.Children, child)
	}

	for _, comp := range w.componentDefs(h) {
		raw, err := json.Marshal(comp)
		if err != nil {
			return def, errors.Wrapf(err, "marshal %q component", n.Name)
		}
		def.Components = append(def.Components, raw)
	}
	return def, nil
}

func (w *World) componentDefs(h engine.Handle) []any {
	var defs []any

	if m, ok := w.models[h]; ok {
		defs = append(defs, m)
	}

	if !w.imported[h] {
		for _, c := range w.Physics.ForNode(h) {
			defs = append(defs, colliderDef(c))
		}
	}

	if c := w.Character; c != nil && c.Node == h {
		yaw, pitch := c.Rig.Yaw, c.Rig.Pitch
		defs = append(defs, characterControllerDef{
			Type:   "CharacterController",
			Speed:  c.Speed,
			Height: c.Height,
			Radius: c.Radius,
			Yaw:    &yaw,
			Pitch:  &pitch,
		})
	}

	for _, l := range w.Lights {
		if l.Node != h {
			continue
		}
		defs = append(defs, lightDef{
			Type:        "Light",
			Kind:        l.Kind.String(),
			Offset:      l.Offset,
			Color:       l.Color,
			Intensity:   l.Intensity,
			Radius:      l.Radius,
			InnerCutoff: l.InnerCutoff,
			OuterCutoff: l.OuterCutoff,
		})
	}
	return defs
}

func colliderDef(c *physics.Collider) any {
	if ref := c.Local.Reference(); ref != nil {
		d := meshColliderDef{Type: "MeshCollider", Trigger: !c.Solid}
		for _, v := range ref {
			d.Vertices = append(d.Vertices, v)
		}
		return d
	}
	return boxColliderDef{
		Type:    "BoxCollider",
		Size:    c.Local.HalfSize.Mul(2),
		Offset:  c.Local.Center,
		Trigger: !c.Solid,
	}
}
