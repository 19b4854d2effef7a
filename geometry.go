package meadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Geometry is an indexed triangle mesh in local space. Triangles wind
// counter-clockwise when seen from their front side.
type Geometry struct {
	Positions []mgl64.Vec3
	Indices   []uint32

	bounds      Box3
	boundsDirty bool
}

// NewGeometry wraps existing vertex and index data.
func NewGeometry(positions []mgl64.Vec3, indices []uint32) *Geometry {
	return &Geometry{Positions: positions, Indices: indices, boundsDirty: true}
}

// NumTriangles returns the number of indexed triangles.
func (g *Geometry) NumTriangles() int {
	return len(g.Indices) / 3
}

// Bounds returns the local-space AABB, caching it until InvalidateBounds.
func (g *Geometry) Bounds() Box3 {
	if g.boundsDirty {
		g.bounds = EmptyBox3()
		for _, p := range g.Positions {
			g.bounds = g.bounds.ExpandByPoint(p)
		}
		g.boundsDirty = false
	}
	return g.bounds
}

// InvalidateBounds marks the cached AABB for recomputation. Call this after
// modifying Positions.
func (g *Geometry) InvalidateBounds() {
	g.boundsDirty = true
}

func (g *Geometry) addVertex(x, y, z float64) uint32 {
	g.Positions = append(g.Positions, mgl64.Vec3{x, y, z})
	return uint32(len(g.Positions) - 1)
}

func (g *Geometry) addTriangle(a, b, c uint32) {
	g.Indices = append(g.Indices, a, b, c)
}

// addQuad adds a quad whose corners are given counter-clockwise as seen
// from the front.
func (g *Geometry) addQuad(a, b, c, d uint32) {
	g.Indices = append(g.Indices, a, b, c, a, c, d)
}

// NewSphereGeometry builds a UV sphere. widthSegments is clamped to at
// least 3 and heightSegments to at least 2.
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	g := &Geometry{boundsDirty: true}

	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			sinV, cosV := math.Sincos(v * math.Pi)
			sinU, cosU := math.Sincos(u * 2 * math.Pi)
			row[ix] = g.addVertex(-radius*cosU*sinV, radius*cosV, radius*sinU*sinV)
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				g.addTriangle(a, b, d)
			}
			if iy != heightSegments-1 {
				g.addTriangle(b, c, d)
			}
		}
	}
	return g
}

// NewCylinderGeometry builds a capped cylinder centered on the origin with
// its axis along Y. A zero radius omits that cap, which makes a cone.
func NewCylinderGeometry(radiusTop, radiusBottom, height float64, radialSegments int) *Geometry {
	radialSegments = max(radialSegments, 3)
	g := &Geometry{boundsDirty: true}
	half := height / 2

	ring := func(radius, y float64) []uint32 {
		idx := make([]uint32, radialSegments+1)
		for x := 0; x <= radialSegments; x++ {
			theta := float64(x) / float64(radialSegments) * 2 * math.Pi
			sin, cos := math.Sincos(theta)
			idx[x] = g.addVertex(radius*sin, y, radius*cos)
		}
		return idx
	}

	top := ring(radiusTop, half)
	bottom := ring(radiusBottom, -half)
	for x := 0; x < radialSegments; x++ {
		a, b, c, d := top[x], bottom[x], bottom[x+1], top[x+1]
		if radiusTop > 0 {
			g.addTriangle(a, b, d)
		}
		if radiusBottom > 0 {
			g.addTriangle(b, c, d)
		}
	}

	if radiusTop > 0 {
		center := g.addVertex(0, half, 0)
		for x := 0; x < radialSegments; x++ {
			g.addTriangle(top[x], top[x+1], center)
		}
	}
	if radiusBottom > 0 {
		center := g.addVertex(0, -half, 0)
		for x := 0; x < radialSegments; x++ {
			g.addTriangle(bottom[x+1], bottom[x], center)
		}
	}
	return g
}

// NewConeGeometry builds a cone with its apex up.
func NewConeGeometry(radius, height float64, radialSegments int) *Geometry {
	return NewCylinderGeometry(0, radius, height, radialSegments)
}

// NewBoxGeometry builds an axis-aligned box centered on the origin.
func NewBoxGeometry(width, height, depth float64) *Geometry {
	g := &Geometry{boundsDirty: true}
	hx, hy, hz := width/2, height/2, depth/2
	faces := [6][4][3]float64{
		{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}},     // +X
		{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}, // -X
		{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}},     // +Y
		{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}, // -Y
		{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}},     // +Z
		{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}, // -Z
	}
	for _, f := range faces {
		var idx [4]uint32
		for i, p := range f {
			idx[i] = g.addVertex(p[0], p[1], p[2])
		}
		g.addQuad(idx[0], idx[1], idx[2], idx[3])
	}
	return g
}

// NewOctahedronGeometry builds a regular octahedron with vertices on the
// axes at distance radius.
func NewOctahedronGeometry(radius float64) *Geometry {
	g := &Geometry{boundsDirty: true}
	px := g.addVertex(radius, 0, 0)
	nx := g.addVertex(-radius, 0, 0)
	py := g.addVertex(0, radius, 0)
	ny := g.addVertex(0, -radius, 0)
	pz := g.addVertex(0, 0, radius)
	nz := g.addVertex(0, 0, -radius)

	for _, sx := range [2]float64{1, -1} {
		for _, sy := range [2]float64{1, -1} {
			for _, sz := range [2]float64{1, -1} {
				a, b, c := px, py, pz
				if sx < 0 {
					a = nx
				}
				if sy < 0 {
					b = ny
				}
				if sz < 0 {
					c = nz
				}
				if sx*sy*sz > 0 {
					g.addTriangle(a, b, c)
				} else {
					g.addTriangle(a, c, b)
				}
			}
		}
	}
	return g
}

// NewPlaneGeometry builds a subdivided rectangle in the XY plane facing +Z.
func NewPlaneGeometry(width, height float64, widthSegments, heightSegments int) *Geometry {
	widthSegments = max(widthSegments, 1)
	heightSegments = max(heightSegments, 1)
	g := &Geometry{boundsDirty: true}

	cols := widthSegments + 1
	for iy := 0; iy <= heightSegments; iy++ {
		y := -height/2 + height*float64(iy)/float64(heightSegments)
		for ix := 0; ix <= widthSegments; ix++ {
			x := -width/2 + width*float64(ix)/float64(widthSegments)
			g.addVertex(x, y, 0)
		}
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy*cols + ix)
			b := a + 1
			c := a + 1 + uint32(cols)
			d := a + uint32(cols)
			g.addQuad(a, b, c, d)
		}
	}
	return g
}

// NewCircleGeometry builds a filled disc in the XY plane facing +Z.
func NewCircleGeometry(radius float64, segments int) *Geometry {
	segments = max(segments, 3)
	g := &Geometry{boundsDirty: true}
	center := g.addVertex(0, 0, 0)
	first := uint32(len(g.Positions))
	for i := 0; i <= segments; i++ {
		theta := float64(i) / float64(segments) * 2 * math.Pi
		sin, cos := math.Sincos(theta)
		g.addVertex(radius*cos, radius*sin, 0)
	}
	for i := uint32(0); i < uint32(segments); i++ {
		g.addTriangle(center, first+i, first+i+1)
	}
	return g
}
