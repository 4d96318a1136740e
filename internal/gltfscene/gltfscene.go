package gltfscene

import (
	"fmt"
	"log"

	"walk3d/internal/engine"
	"walk3d/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Options controls which imported meshes become colliders.
type Options struct {
	// Collide lists the node names whose meshes are solid. Empty means
	// every mesh is solid.
	Collide []string
	// NoColliders skips collider creation, e.g. for the character model
	// when its box comes from elsewhere.
	NoColliders bool
}

func (o Options) solid(name string) bool {
	if len(o.Collide) == 0 {
		return true
	}
	for _, n := range o.Collide {
		if n == name {
			return true
		}
	}
	return false
}

// Result describes what an import created.
type Result struct {
	Roots     []engine.Handle
	Nodes     []engine.Handle // every created node, in visit order
	Colliders []*physics.Collider
	Vertices  int
}

// Open reads a .gltf or .glb file.
func Open(path string) (*gltf.Document, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open gltf %s", path)
	}
	return doc, nil
}

// Import recreates the default scene of doc under parent (or as roots when
// parent is engine.Nil). Every mesh gets a collider fit to its POSITION
// vertices.
func Import(doc *gltf.Document, g *engine.Graph, parent engine.Handle, colliders *physics.World, opts Options) (*Result, error) {
	if parent != engine.Nil && !g.Contains(parent) {
		return nil, engine.ErrInvalidHandle
	}

	roots, err := sceneRoots(doc)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	visited := make(map[int]bool)

	var visit func(idx int, parent engine.Handle, root bool) error
	visit = func(idx int, parent engine.Handle, root bool) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return errors.Errorf("node index %d out of range", idx)
		}
		if visited[idx] {
			return errors.Errorf("node %d is referenced twice", idx)
		}
		visited[idx] = true

		src := doc.Nodes[idx]
		name := src.Name
		if name == "" {
			name = fmt.Sprintf("node%d", idx)
		}

		h := g.NewNode(name)
		if parent != engine.Nil {
			if err := g.AddChild(parent, h); err != nil {
				return errors.Wrapf(err, "attach node %q", name)
			}
		}
		if root {
			res.Roots = append(res.Roots, h)
		}
		res.Nodes = append(res.Nodes, h)
		applyTransform(g.Node(h), src)

		if src.Mesh != nil && !opts.NoColliders {
			verts, err := meshVertices(doc, int(*src.Mesh))
			if err != nil {
				return errors.Wrapf(err, "mesh of node %q", name)
			}
			if len(verts) == 0 {
				log.Printf("[gltf] node %q has a mesh without positions", name)
			} else {
				c := colliders.AddMesh(h, name, verts)
				c.Solid = opts.solid(name)
				res.Colliders = append(res.Colliders, c)
				res.Vertices += len(verts)
			}
		}

		for _, child := range src.Children {
			if err := visit(int(child), h, false); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range roots {
		if err := visit(r, parent, true); err != nil {
			return res, err
		}
	}
	return res, nil
}

// sceneRoots returns the root node indices of the default scene. Documents
// without scenes use every node nobody lists as a child.
func sceneRoots(doc *gltf.Document) ([]int, error) {
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = int(*doc.Scene)
		}
		if sceneIdx >= len(doc.Scenes) {
			return nil, errors.Errorf("default scene %d out of range", sceneIdx)
		}
		var roots []int
		for _, n := range doc.Scenes[sceneIdx].Nodes {
			roots = append(roots, int(n))
		}
		return roots, nil
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[int(c)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

var identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// applyTransform copies the node transform. A baked matrix wins over TRS
// and is decomposed, which loses any shear.
func applyTransform(n *engine.Node, src *gltf.Node) {
	if src.Matrix != [16]float32{} && src.Matrix != identity {
		n.Decompose(mgl32.Mat4(src.Matrix))
		return
	}

	t := src.Translation
	n.SetPosition(t[0], t[1], t[2])

	if r := src.Rotation; r != [4]float32{} {
		n.SetRotation(mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}})
	}

	if s := src.Scale; s != [3]float32{} {
		n.SetScale(s[0], s[1], s[2])
	}
}

func meshVertices(doc *gltf.Document, meshIdx int) ([]mgl32.Vec3, error) {
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return nil, errors.Errorf("mesh index %d out of range", meshIdx)
	}
	var verts []mgl32.Vec3
	for _, prim := range doc.Meshes[meshIdx].Primitives {
		accIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}
		if int(accIdx) >= len(doc.Accessors) {
			return nil, errors.Errorf("accessor %d out of range", accIdx)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[accIdx], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read mesh vertices")
		}
		for _, p := range positions {
			verts = append(verts, mgl32.Vec3(p))
		}
	}
	return verts, nil
}
