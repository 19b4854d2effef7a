package meadow

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/sync/errgroup"
)

// ErrNoGeometry is returned when a model file contains no drawable mesh.
var ErrNoGeometry = errors.New("model has no mesh nodes")

// LoadOptions place a model in the scene once it is loaded.
type LoadOptions struct {
	Scale         mgl64.Vec3
	Position      mgl64.Vec3
	Rotation      mgl64.Vec3
	CastShadow    bool
	ReceiveShadow bool
	Brighten      float64 // color multiplier; 0 means 1
}

// DefaultLoadOptions returns unit scale at the origin with shadows on.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Scale:         mgl64.Vec3{1, 1, 1},
		CastShadow:    true,
		ReceiveShadow: true,
		Brighten:      1,
	}
}

// ModelCameraInfo carries the lens and pose of a camera embedded in a model.
// Nil fields were not present in the file.
type ModelCameraInfo struct {
	FOV      *float64 // degrees
	Near     *float64
	Far      *float64
	Aspect   *float64
	Position *mgl64.Vec3
	Rotation *mgl64.Vec3
}

// Empty reports whether no camera data was found.
func (c ModelCameraInfo) Empty() bool {
	return c.FOV == nil && c.Near == nil && c.Far == nil && c.Aspect == nil &&
		c.Position == nil && c.Rotation == nil
}

// ModelCamera is a camera node found while walking a model.
type ModelCamera struct {
	Name        string
	Perspective bool
	YFov        float64 // radians
	Near        float64
	Far         *float64
	Aspect      *float64
	Position    mgl64.Vec3
	Rotation    mgl64.Vec3 // Euler XYZ
}

// ModelMesh is a mesh node found while walking a model. Node is the scene
// node built for it.
type ModelMesh struct {
	Name      string
	Node      *Node
	Triangles int
}

// ModelVisitor receives the typed nodes of a Model in document order.
type ModelVisitor interface {
	VisitCamera(ModelCamera)
	VisitMesh(ModelMesh)
}

// Model is a loaded model file seen through its capabilities.
type Model interface {
	HasCameraNodes() bool
	HasMeshNodes() bool
	Walk(ModelVisitor)
}

// LoadedModel is the result of a successful load.
type LoadedModel struct {
	Path   string
	Root   *Node
	Camera ModelCameraInfo
	Model  Model
}

// ModelLoader loads a model file into scene nodes.
type ModelLoader interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*LoadedModel, error)
}

// cameraExtractor implements ModelVisitor to pick the first perspective lens
// and the first camera pose.
type cameraExtractor struct {
	info     ModelCameraInfo
	lensSeen bool
}

func (e *cameraExtractor) VisitCamera(c ModelCamera) {
	if !e.lensSeen && c.Perspective {
		e.lensSeen = true
		fov := mgl64.RadToDeg(c.YFov)
		near := c.Near
		e.info.FOV = &fov
		e.info.Near = &near
		e.info.Far = c.Far
		e.info.Aspect = c.Aspect
	}
	if e.info.Position == nil {
		pos, rot := c.Position, c.Rotation
		e.info.Position = &pos
		e.info.Rotation = &rot
	}
}

func (e *cameraExtractor) VisitMesh(ModelMesh) {}

// ExtractCameraInfo walks m and returns the embedded camera, if any.
func ExtractCameraInfo(m Model) ModelCameraInfo {
	if !m.HasCameraNodes() {
		return ModelCameraInfo{}
	}
	var e cameraExtractor
	m.Walk(&e)
	return e.info
}

// --- glTF ---

// GLTFLoader loads .gltf and .glb files.
type GLTFLoader struct{}

// gltfModel is the Model view of a loaded glTF document.
type gltfModel struct {
	cameras []ModelCamera
	meshes  []ModelMesh
	order   []modelItem // document order
}

// modelItem is one typed node of a gltfModel; exactly one field is set.
type modelItem struct {
	cam  *ModelCamera
	mesh *ModelMesh
}

func (m *gltfModel) HasCameraNodes() bool { return len(m.cameras) > 0 }
func (m *gltfModel) HasMeshNodes() bool   { return len(m.meshes) > 0 }

func (m *gltfModel) Walk(v ModelVisitor) {
	for _, item := range m.order {
		if item.cam != nil {
			v.VisitCamera(*item.cam)
		}
		if item.mesh != nil {
			v.VisitMesh(*item.mesh)
		}
	}
}

// Load opens path, converts its default scene to nodes and applies opts.
func (GLTFLoader) Load(ctx context.Context, path string, opts LoadOptions) (*LoadedModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := gltfBuilder{doc: doc, model: &gltfModel{}, brighten: opts.Brighten}
	if b.brighten == 0 {
		b.brighten = 1
	}
	root := NewGroup(path)
	for _, idx := range sceneRoots(doc) {
		child, err := b.node(idx, mgl64.Ident4())
		if err != nil {
			return nil, fmt.Errorf("load model %s: %w", path, err)
		}
		root.AddChild(child)
	}
	if !b.model.HasMeshNodes() {
		return nil, fmt.Errorf("load model %s: %w", path, ErrNoGeometry)
	}

	applyLoadOptions(root, opts)
	camera := ExtractCameraInfo(b.model)
	Logger().Info("model loaded", "path", path, "meshes", len(b.model.meshes), "cameras", len(b.model.cameras))
	return &LoadedModel{Path: path, Root: root, Camera: camera, Model: b.model}, nil
}

// sceneRoots returns the root node indices of the document's default scene,
// falling back to the first scene.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	idx := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		idx = *doc.Scene
	}
	return doc.Scenes[idx].Nodes
}

func applyLoadOptions(root *Node, opts LoadOptions) {
	scale := opts.Scale
	if scale == (mgl64.Vec3{}) {
		scale = mgl64.Vec3{1, 1, 1}
	}
	root.Scale = scale
	root.Position = opts.Position
	root.Rotation = opts.Rotation
	root.MarkDirty()
	root.Walk(func(n *Node) bool {
		if n.Type == NodeTypeMesh {
			n.CastShadow = opts.CastShadow
			n.ReceiveShadow = opts.ReceiveShadow
		}
		return true
	})
}

type gltfBuilder struct {
	doc      *gltf.Document
	model    *gltfModel
	brighten float64
	depth    int
}

// maxGLTFDepth guards against cyclic node references in malformed files.
const maxGLTFDepth = 64

func (b *gltfBuilder) node(idx int, parentWorld mgl64.Mat4) (*Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if b.depth > maxGLTFDepth {
		return nil, fmt.Errorf("node hierarchy deeper than %d", maxGLTFDepth)
	}
	b.depth++
	defer func() { b.depth-- }()

	src := b.doc.Nodes[idx]
	n := NewGroup(src.Name)
	n.Position, n.Rotation, n.Scale = gltfTRS(src)
	world := parentWorld.Mul4(computeLocalTransform(n))

	if src.Camera != nil && *src.Camera < len(b.doc.Cameras) {
		cam := b.camera(b.doc.Cameras[*src.Camera], world)
		cam.Name = src.Name
		b.model.cameras = append(b.model.cameras, cam)
		b.model.order = append(b.model.order, modelItem{cam: &cam})
	}

	if src.Mesh != nil && *src.Mesh < len(b.doc.Meshes) {
		if err := b.mesh(n, b.doc.Meshes[*src.Mesh]); err != nil {
			return nil, err
		}
	}

	for _, c := range src.Children {
		child, err := b.node(c, world)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func (b *gltfBuilder) camera(c *gltf.Camera, world mgl64.Mat4) ModelCamera {
	pos, rot, _ := decomposeMatrix(world)
	mc := ModelCamera{Position: pos, Rotation: rot}
	if p := c.Perspective; p != nil {
		mc.Perspective = true
		mc.YFov = p.Yfov
		mc.Near = p.Znear
		mc.Far = p.Zfar
		mc.Aspect = p.AspectRatio
	}
	return mc
}

func (b *gltfBuilder) mesh(parent *Node, m *gltf.Mesh) error {
	for i, p := range m.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := p.Attributes[gltf.POSITION]
		if !ok || posIdx >= len(b.doc.Accessors) {
			continue
		}
		positions, err := modeler.ReadPosition(b.doc, b.doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d positions: %w", m.Name, i, err)
		}

		var indices []uint32
		if p.Indices != nil && *p.Indices < len(b.doc.Accessors) {
			indices, err = modeler.ReadIndices(b.doc, b.doc.Accessors[*p.Indices], nil)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d indices: %w", m.Name, i, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for j := range indices {
				indices[j] = uint32(j)
			}
		}

		verts := make([]mgl64.Vec3, len(positions))
		for j, v := range positions {
			verts[j] = mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
		}
		geo := NewGeometry(verts, indices)

		node := NewMesh(fmt.Sprintf("%s-%d", m.Name, i), geo, b.material(p))
		parent.AddChild(node)
		mm := ModelMesh{Name: node.Name, Node: node, Triangles: geo.NumTriangles()}
		b.model.meshes = append(b.model.meshes, mm)
		b.model.order = append(b.model.order, modelItem{mesh: &mm})
	}
	return nil
}

func (b *gltfBuilder) material(p *gltf.Primitive) Material {
	mat := Material{Color: ColorWhite, Opacity: 1}
	if p.Material == nil || *p.Material >= len(b.doc.Materials) {
		return mat
	}
	src := b.doc.Materials[*p.Material]
	if src.PBRMetallicRoughness != nil {
		f := src.PBRMetallicRoughness.BaseColorFactorOrDefault()
		mat.Color = Color{R: f[0], G: f[1], B: f[2], A: 1}.Scale(b.brighten)
		if src.AlphaMode == gltf.AlphaBlend {
			mat.Opacity = f[3]
		}
	}
	mat.DoubleSided = src.DoubleSided
	return mat
}

// gltfTRS returns a node's local transform as position, Euler rotation and
// scale, decomposing an explicit matrix when one is set.
func gltfTRS(n *gltf.Node) (pos, rot, scale mgl64.Vec3) {
	if n.Matrix != ([16]float64{}) && n.Matrix != identityMatrix {
		return decomposeMatrix(mgl64.Mat4(n.Matrix))
	}
	pos = mgl64.Vec3(n.Translation)
	scale = mgl64.Vec3(n.Scale)
	if scale == (mgl64.Vec3{}) {
		scale = mgl64.Vec3{1, 1, 1}
	}
	q := n.Rotation
	if q == ([4]float64{}) {
		q = [4]float64{0, 0, 0, 1}
	}
	rot = eulerXYZ(mgl64.Quat{W: q[3], V: mgl64.Vec3{q[0], q[1], q[2]}}.Normalize().Mat4())
	return pos, rot, scale
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// decomposeMatrix splits a column-major TRS matrix into translation, Euler
// XYZ rotation and scale. Shear is discarded.
func decomposeMatrix(m mgl64.Mat4) (pos, rot, scale mgl64.Vec3) {
	pos = mgl64.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
	for c := 0; c < 3; c++ {
		scale[c] = mgl64.Vec3{m.At(0, c), m.At(1, c), m.At(2, c)}.Len()
	}
	var r mgl64.Mat4
	for c := 0; c < 3; c++ {
		s := scale[c]
		if s == 0 {
			s = 1
		}
		for row := 0; row < 3; row++ {
			r.Set(row, c, m.At(row, c)/s)
		}
	}
	r.Set(3, 3, 1)
	return pos, eulerXYZ(r), scale
}

// eulerXYZ extracts Euler angles (XYZ order) from a pure rotation matrix.
func eulerXYZ(m mgl64.Mat4) mgl64.Vec3 {
	m13 := math.Max(-1, math.Min(1, m.At(0, 2)))
	y := math.Asin(m13)
	if math.Abs(m13) < 0.9999999 {
		return mgl64.Vec3{
			math.Atan2(-m.At(1, 2), m.At(2, 2)),
			y,
			math.Atan2(-m.At(0, 1), m.At(0, 0)),
		}
	}
	return mgl64.Vec3{math.Atan2(m.At(2, 1), m.At(1, 1)), y, 0}
}

// ModelResult is the outcome of loading one spec in LoadModels.
type ModelResult struct {
	Spec  ModelSpec
	Model *LoadedModel
	Err   error
}

// LoadModels loads every spec concurrently. One failure does not stop the
// others; each result carries its own error.
func LoadModels(ctx context.Context, loader ModelLoader, specs []ModelSpec) []ModelResult {
	results := make([]ModelResult, len(specs))
	var g errgroup.Group
	g.SetLimit(4)
	for i, spec := range specs {
		results[i].Spec = spec
		g.Go(func() error {
			m, err := loader.Load(ctx, spec.Path, spec.LoadOptions())
			results[i].Model = m
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// LoadOptions converts the model entry to loader options.
func (s ModelSpec) LoadOptions() LoadOptions {
	return LoadOptions{
		Scale:         mgl64.Vec3(s.Scale),
		Position:      mgl64.Vec3(s.Position),
		Rotation:      mgl64.Vec3(s.Rotation),
		CastShadow:    s.CastShadow,
		ReceiveShadow: s.ReceiveShadow,
		Brighten:      s.Brighten,
	}
}
