package meadow

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World is everything one running meadow needs: the scene tree, the camera
// and lights that view it, and the animated objects in insertion order.
type World struct {
	Scene    *Scene
	Camera   *Camera
	Lighting Lighting
	Clouds   []*Cloud
	Trees    []*Tree
	Models   []*LoadedModel
	Config   Config

	// cameraFromModel is set once a loaded model has re-aimed the camera.
	cameraFromModel bool
}

// AssembleOptions tune Assemble.
type AssembleOptions struct {
	// CloudRand returns the random source for cloud index. When nil each
	// cloud gets NewRandSource(cfg.Seed, index).
	CloudRand func(index int) RandSource

	// Aspect is the initial camera aspect ratio. When zero the window size
	// from the config is used.
	Aspect float64
}

// Assemble builds the full scene described by cfg: ground, plaza, trees,
// bushes, flowers and clouds, plus the camera and lighting.
func Assemble(cfg Config, opts AssembleOptions) *World {
	w := &World{
		Scene:  NewScene(),
		Config: cfg,
	}
	w.Scene.Background = ColorFromHex(cfg.SkyColor)
	w.Scene.SetDebugMode(cfg.Debug)

	w.Lighting = Lighting{
		Ambient:     cfg.Lights.Ambient,
		Directional: append([]DirectionalLight(nil), cfg.Lights.Directional...),
	}
	w.Lighting.resolveColors()

	aspect := opts.Aspect
	if aspect <= 0 && cfg.Window.Height > 0 {
		aspect = float64(cfg.Window.Width) / float64(cfg.Window.Height)
	}
	w.Camera = NewCamera(cfg.Camera.FOV, aspect, cfg.Camera.Near, cfg.Camera.Far)
	w.Camera.Position = mgl64.Vec3(cfg.Camera.Position)
	w.Camera.LookAt(mgl64.Vec3(cfg.Camera.Target))

	w.addGround(cfg.Ground)
	w.addTrees(cfg.Trees.Positions())
	addStatic(w.Scene, cfg.Bushes.Positions(), 0.5, NewBush)
	addStatic(w.Scene, cfg.Flowers.Positions(), 0.3, NewFlower)

	cloudRand := opts.CloudRand
	if cloudRand == nil {
		seed := cfg.Seed
		cloudRand = func(index int) RandSource {
			return NewRandSource(seed, uint64(index))
		}
	}
	w.addClouds(SkyPlacement(), cloudRand, cfg.Clouds.CastShadow)

	w.Scene.UpdateTransforms()
	Logger().Info("scene assembled",
		"trees", len(w.Trees),
		"clouds", len(w.Clouds),
		"nodes", countNodes(w.Scene.Root()),
	)
	return w
}

// addGround adds the lawn and the plaza disc. Both geometries are authored
// in the XY plane and tipped flat.
func (w *World) addGround(g GroundConfig) {
	segments := g.Segments
	if segments < 1 {
		segments = 1
	}
	lawnMat := NewMaterial(g.Color)
	lawnMat.DoubleSided = true
	lawn := NewMesh("ground", NewPlaneGeometry(g.Size, g.Size, segments, segments), lawnMat)
	lawn.Rotation[0] = -math.Pi / 2
	lawn.RenderLayer = LayerGround
	lawn.ReceiveShadow = true
	w.Scene.Add(lawn)

	if g.PlazaRadius <= 0 {
		return
	}
	plazaMat := NewMaterial(g.PlazaColor)
	plazaMat.DoubleSided = true
	plaza := NewMesh("plaza", NewCircleGeometry(g.PlazaRadius, 32), plazaMat)
	plaza.Rotation[0] = -math.Pi / 2
	plaza.Position[1] = g.PlazaHeight
	plaza.RenderLayer = LayerDecal
	plaza.ReceiveShadow = true
	w.Scene.Add(plaza)
}

func (w *World) addTrees(spots []Placement) {
	for i, p := range spots {
		tree := NewTree(i)
		rotY := math.Mod(float64(i)*0.7, 2*math.Pi)
		scale := 0.8 + float64(i%3)*0.1

		tree.Node.Position = mgl64.Vec3{p.X, p.Y, p.Z}
		tree.Node.Rotation[1] = rotY
		tree.Node.SetScalar(scale)

		tree.Motion.OriginalX = p.X
		tree.Motion.OriginalZ = p.Z
		tree.Motion.OriginalRotationY = rotY
		tree.Motion.OriginalScale = scale

		w.Scene.Add(tree.Node)
		w.Trees = append(w.Trees, tree)
	}
}

// addStatic places one decoration per spot, yawed by index*turn.
func addStatic(s *Scene, spots []Placement, turn float64, build func() *Node) {
	for i, p := range spots {
		n := build()
		n.Position = mgl64.Vec3{p.X, p.Y, p.Z}
		n.Rotation[1] = math.Mod(float64(i)*turn, 2*math.Pi)
		s.Add(n)
	}
}

func (w *World) addClouds(spots []Placement, cloudRand func(int) RandSource, castShadow bool) {
	for i, p := range spots {
		cloud := NewCloud(i, cloudRand(i))
		cloud.Node.Position = mgl64.Vec3{p.X, p.Y, p.Z}
		cloud.Node.SetScalar(p.Scale)
		cloud.Motion.OriginalY = p.Y
		cloud.Motion.Time = float64(i) * 0.1
		cloud.Motion.WindTime = float64(i) * 0.15
		for _, puff := range cloud.Node.Children() {
			puff.CastShadow = castShadow
		}

		w.Scene.Add(cloud.Node)
		w.Clouds = append(w.Clouds, cloud)
	}
}

// LoadModels loads cfg-style model specs into the scene. A model that fails
// to load is logged with its path and skipped; both outcomes are sent to the
// scene's entity store. The first model that carries a camera re-aims the
// scene camera. If none does and FitToScene is set, the camera is moved to
// frame the whole scene. It returns the number of models added.
func (w *World) LoadModels(ctx context.Context, loader ModelLoader, specs []ModelSpec) int {
	if len(specs) == 0 {
		return 0
	}
	added := 0
	for _, res := range LoadModels(ctx, loader, specs) {
		if res.Err != nil {
			Logger().Error("failed to load model", "path", res.Spec.Path, "err", res.Err)
			w.Scene.emit(SceneEvent{Type: EventModelFailed, Path: res.Spec.Path, Err: res.Err})
			continue
		}
		w.addModel(res.Spec, res.Model)
		added++
	}

	if !w.cameraFromModel && w.Config.Camera.FitToScene {
		info := w.Scene.Bounds()
		if !info.Box.IsEmpty() {
			w.Camera.ApplyModelCamera(ModelCameraInfo{}, &info)
		}
	}
	return added
}

func (w *World) addModel(spec ModelSpec, m *LoadedModel) {
	if spec.GroundY != nil {
		m.Root.Position[1] = *spec.GroundY
		m.Root.MarkDirty()
	}
	w.Scene.Add(m.Root)
	w.Models = append(w.Models, m)
	w.Scene.emit(SceneEvent{
		Type:     EventModelLoaded,
		EntityID: m.Root.ID,
		Name:     m.Root.Name,
		Path:     m.Path,
	})

	if w.cameraFromModel || m.Camera.Empty() {
		return
	}
	info := w.Scene.Bounds()
	w.Camera.ApplyModelCamera(m.Camera, &info)
	w.cameraFromModel = true
}

// Resize updates the camera aspect for a new viewport size. The camera
// position is unchanged.
func (w *World) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.Camera.SetAspect(float64(width) / float64(height))
}

func countNodes(root *Node) int {
	n := 0
	root.Walk(func(*Node) bool {
		n++
		return true
	})
	return n
}
