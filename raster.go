package meadow

import (
	"cmp"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// maxBatchVertices is the most vertices one DrawTriangles call can index
// with uint16 indices.
const maxBatchVertices = 65535

// shadowPlaneY is the height projected shadows are laid at, just above the
// plaza so the two never z-fight in the painter's sort.
const shadowPlaneY = 0.02

// ScreenVertex is a projected vertex in pixels with a premultiplied color.
type ScreenVertex struct {
	X, Y       float32
	R, G, B, A float32
}

// Batch is a run of triangles that fits one uint16-indexed draw call.
type Batch struct {
	Vertices []ScreenVertex
	Indices  []uint16
}

// Frame is the rasterized output for one tick. Its slices are owned by the
// Rasterizer and are reused by the next call to Rasterize.
type Frame struct {
	Width, Height int
	Clear         Color
	Batches       []Batch
	Stats         FrameStats
}

// screenTri is one shaded, projected triangle waiting to be sorted.
type screenTri struct {
	v     [3]ScreenVertex
	layer uint8
	depth float64
	order int
}

// Rasterizer turns a scene into painter-sorted screen triangles. It keeps
// scratch buffers between frames; it is not safe for concurrent use.
type Rasterizer struct {
	tris    []screenTri
	batches []Batch
	poly    []mgl64.Vec3
	scratch []mgl64.Vec3
}

// NewRasterizer returns a Rasterizer with empty buffers.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// rasterPass holds the per-frame state shared by every node.
type rasterPass struct {
	r      *Rasterizer
	view   mgl64.Mat4
	proj   mgl64.Mat4
	eye    mgl64.Vec3
	near   float64
	far    float64
	width  float64
	height float64
	lights *Lighting
	shadow *DirectionalLight
	stats  *FrameStats
}

// Rasterize projects every visible mesh in s through cam, shades it with
// lights and returns the batches in draw order. Ground shadows are added for
// shadow-casting meshes when lights has a shadow-casting light.
func (r *Rasterizer) Rasterize(s *Scene, cam *Camera, lights *Lighting, width, height int) *Frame {
	start := time.Now()
	s.UpdateTransforms()

	frame := &Frame{Width: width, Height: height, Clear: s.Background}
	r.tris = r.tris[:0]

	p := rasterPass{
		r:      r,
		view:   cam.View(),
		proj:   cam.Projection(),
		near:   cam.Near,
		far:    cam.Far,
		width:  float64(width),
		height: float64(height),
		lights: lights,
		shadow: lights.ShadowLight(),
		stats:  &frame.Stats,
	}
	p.eye = mgl64.TransformCoordinate(mgl64.Vec3{}, p.view.Inv())

	s.root.Walk(func(n *Node) bool {
		if !n.Visible || n.worldOpacity <= 0 {
			return false
		}
		if n.Type == NodeTypeMesh && n.Geometry != nil {
			p.mesh(n)
		}
		return true
	})
	frame.Stats.CollectTime = time.Since(start)

	sortStart := time.Now()
	slices.SortFunc(r.tris, func(a, b screenTri) int {
		if c := cmp.Compare(a.layer, b.layer); c != 0 {
			return c
		}
		if c := cmp.Compare(b.depth, a.depth); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})
	frame.Stats.SortTime = time.Since(sortStart)

	frame.Batches = r.batch()
	frame.Stats.Triangles = len(r.tris)
	frame.Stats.Batches = len(frame.Batches)
	return frame
}

func (p *rasterPass) mesh(n *Node) {
	geo := n.Geometry
	world := n.worldTransform
	mat := n.Material
	alpha := clamp01(mat.Opacity * n.worldOpacity)
	castShadow := p.shadow != nil && n.CastShadow

	for i := 0; i+2 < len(geo.Indices); i += 3 {
		a := mgl64.TransformCoordinate(geo.Positions[geo.Indices[i]], world)
		b := mgl64.TransformCoordinate(geo.Positions[geo.Indices[i+1]], world)
		c := mgl64.TransformCoordinate(geo.Positions[geo.Indices[i+2]], world)

		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.Len() == 0 {
			continue
		}
		normal = normal.Normalize()

		if castShadow {
			p.shadowTri(a, b, c, normal, alpha)
		}

		facing := normal.Dot(p.eye.Sub(a))
		if facing <= 0 {
			if !mat.DoubleSided {
				p.stats.Culled++
				continue
			}
			normal = normal.Mul(-1)
		}

		col := mat.Color
		if !mat.Unlit {
			col = p.lights.Shade(normal, col)
		}
		col.A = alpha
		p.emit(a, b, c, col, n.RenderLayer)
	}
}

// shadowTri projects a light-facing triangle onto the shadow plane along the
// shadow light direction.
func (p *rasterPass) shadowTri(a, b, c, normal mgl64.Vec3, alpha float64) {
	l := p.shadow.Direction()
	if normal.Dot(l) <= 0 {
		return
	}
	if a[1] <= shadowPlaneY && b[1] <= shadowPlaneY && c[1] <= shadowPlaneY {
		return
	}
	flat := func(v mgl64.Vec3) mgl64.Vec3 {
		if v[1] <= shadowPlaneY {
			return mgl64.Vec3{v[0], shadowPlaneY, v[2]}
		}
		return v.Sub(l.Mul((v[1] - shadowPlaneY) / l[1]))
	}
	col := Color{A: p.shadow.Shadow.alpha() * alpha}
	if col.A <= 0 {
		return
	}
	before := len(p.r.tris)
	p.emit(flat(a), flat(b), flat(c), col, LayerShadow)
	p.stats.ShadowTris += len(p.r.tris) - before
}

// emit clips a world-space triangle against the near plane, projects it and
// appends the resulting fan to the triangle list.
func (p *rasterPass) emit(a, b, c mgl64.Vec3, col Color, layer uint8) {
	poly := p.r.poly[:0]
	for _, v := range [3]mgl64.Vec3{a, b, c} {
		poly = append(poly, mgl64.TransformCoordinate(v, p.view))
	}

	// Entirely beyond the far plane.
	if poly[0][2] < -p.far && poly[1][2] < -p.far && poly[2][2] < -p.far {
		p.r.poly = poly
		return
	}

	if poly[0][2] > -p.near || poly[1][2] > -p.near || poly[2][2] > -p.near {
		p.stats.Clipped++
		poly = p.clipNear(poly)
		if len(poly) < 3 {
			p.r.poly = poly
			return
		}
	}
	p.r.poly = poly

	var depth float64
	for _, v := range poly {
		depth -= v[2]
	}
	depth /= float64(len(poly))

	sv := ScreenVertex{
		R: float32(col.R * col.A),
		G: float32(col.G * col.A),
		B: float32(col.B * col.A),
		A: float32(col.A),
	}
	project := func(v mgl64.Vec3) ScreenVertex {
		clip := p.proj.Mul4x1(v.Vec4(1))
		out := sv
		out.X = float32((clip[0]/clip[3] + 1) * 0.5 * p.width)
		out.Y = float32((1 - clip[1]/clip[3]) * 0.5 * p.height)
		return out
	}

	first := project(poly[0])
	prev := project(poly[1])
	for i := 2; i < len(poly); i++ {
		next := project(poly[i])
		if offscreen(first, prev, next, p.width, p.height) {
			prev = next
			continue
		}
		p.r.tris = append(p.r.tris, screenTri{
			v:     [3]ScreenVertex{first, prev, next},
			layer: layer,
			depth: depth,
			order: len(p.r.tris),
		})
		prev = next
	}
}

// clipNear clips a view-space polygon to z <= -near.
func (p *rasterPass) clipNear(in []mgl64.Vec3) []mgl64.Vec3 {
	out := p.r.scratch[:0]
	plane := -p.near
	inside := func(v mgl64.Vec3) bool { return v[2] <= plane }
	for i := range in {
		cur := in[i]
		prev := in[(i+len(in)-1)%len(in)]
		if inside(cur) {
			if !inside(prev) {
				out = append(out, intersectZ(prev, cur, plane))
			}
			out = append(out, cur)
		} else if inside(prev) {
			out = append(out, intersectZ(prev, cur, plane))
		}
	}
	// Swap buffers so the caller's poly slice stays distinct from scratch.
	p.r.scratch = in[:0]
	return out
}

func intersectZ(a, b mgl64.Vec3, z float64) mgl64.Vec3 {
	t := (z - a[2]) / (b[2] - a[2])
	return a.Add(b.Sub(a).Mul(t))
}

// offscreen reports whether all three vertices lie beyond the same edge of
// the viewport.
func offscreen(a, b, c ScreenVertex, w, h float64) bool {
	fw, fh := float32(w), float32(h)
	switch {
	case a.X < 0 && b.X < 0 && c.X < 0:
		return true
	case a.X > fw && b.X > fw && c.X > fw:
		return true
	case a.Y < 0 && b.Y < 0 && c.Y < 0:
		return true
	case a.Y > fh && b.Y > fh && c.Y > fh:
		return true
	}
	return false
}

// batch packs the sorted triangles into uint16-indexed batches.
func (r *Rasterizer) batch() []Batch {
	for i := range r.batches {
		r.batches[i].Vertices = r.batches[i].Vertices[:0]
		r.batches[i].Indices = r.batches[i].Indices[:0]
	}
	n := 0
	if len(r.tris) > 0 {
		n = 1
		if len(r.batches) == 0 {
			r.batches = append(r.batches, Batch{})
		}
	}
	for _, t := range r.tris {
		cur := &r.batches[n-1]
		if len(cur.Vertices)+3 > maxBatchVertices {
			n++
			if len(r.batches) < n {
				r.batches = append(r.batches, Batch{})
			}
			cur = &r.batches[n-1]
		}
		base := uint16(len(cur.Vertices))
		cur.Vertices = append(cur.Vertices, t.v[0], t.v[1], t.v[2])
		cur.Indices = append(cur.Indices, base, base+1, base+2)
	}
	return r.batches[:n]
}
