package meadow

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestGLB saves a binary glTF with one red quad and, when withCamera is
// set, a perspective camera node placed after it.
func writeTestGLB(t *testing.T, withCamera bool) string {
	t.Helper()
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{
		{-1, 0, 0}, {1, 0, 0}, {1, 2, 0}, {-1, 2, 0},
	})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.5, 0, 0, 1},
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
			Material:   gltf.Index(0),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:        "quad",
		Mesh:        gltf.Index(0),
		Translation: [3]float64{0, 1, 0},
		Scale:       [3]float64{1, 1, 1},
		Rotation:    [4]float64{0, 0, 0, 1},
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if withCamera {
		far := 150.0
		doc.Cameras = append(doc.Cameras, &gltf.Camera{
			Name: "view",
			Perspective: &gltf.Perspective{
				Yfov:  math.Pi / 4,
				Znear: 0.5,
				Zfar:  &far,
			},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        "camera",
			Camera:      gltf.Index(0),
			Translation: [3]float64{0, 5, 30},
			Scale:       [3]float64{1, 1, 1},
			Rotation:    [4]float64{0, 0, 0, 1},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 1)
	}

	path := filepath.Join(t.TempDir(), "model.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestGLTFLoaderMesh(t *testing.T) {
	path := writeTestGLB(t, false)
	opts := DefaultLoadOptions()
	opts.Scale = mgl64.Vec3{2, 2, 2}
	opts.Brighten = 1.5

	m, err := GLTFLoader{}.Load(context.Background(), path, opts)
	require.NoError(t, err)

	assert.Equal(t, path, m.Path)
	assert.True(t, m.Model.HasMeshNodes())
	assert.False(t, m.Model.HasCameraNodes())
	assert.True(t, m.Camera.Empty())
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, m.Root.Scale)

	var meshes []*Node
	m.Root.Walk(func(n *Node) bool {
		if n.Type == NodeTypeMesh {
			meshes = append(meshes, n)
		}
		return true
	})
	require.Len(t, meshes, 1)
	mesh := meshes[0]
	assert.Equal(t, 2, mesh.Geometry.NumTriangles())
	assert.True(t, mesh.CastShadow)
	assert.True(t, mesh.ReceiveShadow)
	assert.InDelta(t, 0.75, mesh.Material.Color.R, 1e-9, "base color is brightened")
	assert.Equal(t, 1.0, mesh.Material.Opacity)

	// Scaled root plus the node's own translation.
	s := NewScene()
	s.Add(m.Root)
	info := s.Bounds()
	assert.InDelta(t, 2.0, info.Box.Min[1], 1e-9)
	assert.InDelta(t, 6.0, info.Box.Max[1], 1e-9)
}

func TestGLTFLoaderCamera(t *testing.T) {
	path := writeTestGLB(t, true)

	m, err := GLTFLoader{}.Load(context.Background(), path, DefaultLoadOptions())
	require.NoError(t, err)
	require.False(t, m.Camera.Empty())

	require.NotNil(t, m.Camera.FOV)
	assert.InDelta(t, 45.0, *m.Camera.FOV, 1e-9)
	require.NotNil(t, m.Camera.Near)
	assert.Equal(t, 0.5, *m.Camera.Near)
	require.NotNil(t, m.Camera.Far)
	assert.Equal(t, 150.0, *m.Camera.Far)
	assert.Nil(t, m.Camera.Aspect)
	require.NotNil(t, m.Camera.Position)
	assert.InDelta(t, 30.0, (*m.Camera.Position)[2], 1e-9)

	var order []string
	m.Model.Walk(orderVisitor{&order})
	assert.Equal(t, []string{"mesh", "camera"}, order)
}

type orderVisitor struct{ seen *[]string }

func (v orderVisitor) VisitCamera(ModelCamera) { *v.seen = append(*v.seen, "camera") }
func (v orderVisitor) VisitMesh(ModelMesh)     { *v.seen = append(*v.seen, "mesh") }

func TestGLTFLoaderErrors(t *testing.T) {
	_, err := GLTFLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "none.glb"), DefaultLoadOptions())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = GLTFLoader{}.Load(ctx, writeTestGLB(t, false), DefaultLoadOptions())
	assert.ErrorIs(t, err, context.Canceled)

	empty := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	require.NoError(t, gltf.SaveBinary(empty, path))
	_, err = GLTFLoader{}.Load(context.Background(), path, DefaultLoadOptions())
	assert.ErrorIs(t, err, ErrNoGeometry)
}

// fakeModel replays a fixed list of cameras.
type fakeModel struct{ cams []ModelCamera }

func (f fakeModel) HasCameraNodes() bool { return len(f.cams) > 0 }
func (f fakeModel) HasMeshNodes() bool   { return true }
func (f fakeModel) Walk(v ModelVisitor) {
	for _, c := range f.cams {
		v.VisitCamera(c)
	}
}

func TestExtractCameraInfoFirstPerspective(t *testing.T) {
	far := 80.0
	info := ExtractCameraInfo(fakeModel{cams: []ModelCamera{
		{Name: "ortho", Position: mgl64.Vec3{1, 2, 3}},
		{Name: "persp", Perspective: true, YFov: math.Pi / 2, Near: 1, Far: &far, Position: mgl64.Vec3{9, 9, 9}},
		{Name: "second", Perspective: true, YFov: 0.1},
	}})

	require.NotNil(t, info.FOV)
	assert.InDelta(t, 90.0, *info.FOV, 1e-9)
	assert.Equal(t, 80.0, *info.Far)
	require.NotNil(t, info.Position)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, *info.Position, "pose comes from the first camera node")

	assert.True(t, ExtractCameraInfo(fakeModel{}).Empty())
}

func TestDecomposeMatrix(t *testing.T) {
	rot := mgl64.Vec3{0.3, -0.4, 0.5}
	m := mgl64.Translate3D(1, 2, 3).
		Mul4(mgl64.HomogRotate3DX(rot[0])).
		Mul4(mgl64.HomogRotate3DY(rot[1])).
		Mul4(mgl64.HomogRotate3DZ(rot[2])).
		Mul4(mgl64.Scale3D(2, 3, 4))

	pos, gotRot, scale := decomposeMatrix(m)
	assertVec(t, "pos", pos, mgl64.Vec3{1, 2, 3})
	assertVec(t, "rot", gotRot, rot)
	assertVec(t, "scale", scale, mgl64.Vec3{2, 3, 4})
}

type failingLoader struct{ bad string }

func (f failingLoader) Load(_ context.Context, path string, _ LoadOptions) (*LoadedModel, error) {
	if path == f.bad {
		return nil, errors.New("boom")
	}
	return &LoadedModel{Path: path, Root: NewGroup(path)}, nil
}

func TestLoadModelsKeepsOrderAndIsolatesFailures(t *testing.T) {
	specs := []ModelSpec{{Path: "a"}, {Path: "b"}, {Path: "c"}, {Path: "d"}, {Path: "e"}}
	res := LoadModels(context.Background(), failingLoader{bad: "c"}, specs)

	require.Len(t, res, len(specs))
	for i, r := range res {
		assert.Equal(t, specs[i].Path, r.Spec.Path)
		if r.Spec.Path == "c" {
			assert.Error(t, r.Err)
			assert.Nil(t, r.Model)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, r.Spec.Path, r.Model.Path)
	}
}
