package meadow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryCounts(t *testing.T) {
	tests := []struct {
		name  string
		geo   *Geometry
		verts int
		tris  int
	}{
		{"sphere", NewSphereGeometry(1, 12, 12), 13 * 13, 12 * 22},
		{"faceted sphere", NewSphereGeometry(0.4, 4, 4), 5 * 5, 4 * 6},
		{"cylinder", NewCylinderGeometry(0.5, 0.5, 1, 4), 2*5 + 2, 16},
		{"cone", NewConeGeometry(1, 0.8, 3), 2*4 + 1, 6},
		{"box", NewBoxGeometry(1, 2, 3), 24, 12},
		{"octahedron", NewOctahedronGeometry(0.8), 6, 8},
		{"plane", NewPlaneGeometry(10, 10, 4, 3), 5 * 4, 24},
		{"circle", NewCircleGeometry(1, 32), 34, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.geo.Positions, tt.verts)
			assert.Equal(t, tt.tris, tt.geo.NumTriangles())
			for _, idx := range tt.geo.Indices {
				require.Less(t, int(idx), len(tt.geo.Positions))
			}
		})
	}
}

// Closed convex shapes centered on the origin must wind every face so its
// normal points away from the center.
func TestGeometryOutwardWinding(t *testing.T) {
	shapes := map[string]*Geometry{
		"sphere":     NewSphereGeometry(1, 8, 6),
		"cylinder":   NewCylinderGeometry(0.8, 0.8, 0.6, 4),
		"cone":       NewConeGeometry(1, 0.8, 3),
		"box":        NewBoxGeometry(0.2, 1.2, 0.2),
		"octahedron": NewOctahedronGeometry(0.8),
	}
	for name, g := range shapes {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < len(g.Indices); i += 3 {
				a := g.Positions[g.Indices[i]]
				b := g.Positions[g.Indices[i+1]]
				c := g.Positions[g.Indices[i+2]]
				n := b.Sub(a).Cross(c.Sub(a))
				if n.Len() < 1e-12 {
					continue
				}
				centroid := a.Add(b).Add(c).Mul(1.0 / 3)
				assert.Greater(t, n.Dot(centroid), 0.0, "triangle %d faces inward", i/3)
			}
		})
	}
}

func TestFlatGeometryFacesPlusZ(t *testing.T) {
	for name, g := range map[string]*Geometry{
		"plane":  NewPlaneGeometry(2, 2, 2, 2),
		"circle": NewCircleGeometry(1, 8),
	} {
		for i := 0; i < len(g.Indices); i += 3 {
			a := g.Positions[g.Indices[i]]
			b := g.Positions[g.Indices[i+1]]
			c := g.Positions[g.Indices[i+2]]
			assert.Greater(t, b.Sub(a).Cross(c.Sub(a))[2], 0.0, "%s triangle %d", name, i/3)
		}
	}
}

func TestGeometryBounds(t *testing.T) {
	g := NewBoxGeometry(2, 4, 6)
	b := g.Bounds()
	assert.Equal(t, mgl64.Vec3{-1, -2, -3}, b.Min)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, b.Max)

	g.Positions = append(g.Positions, mgl64.Vec3{10, 0, 0})
	assert.Equal(t, 1.0, g.Bounds().Max[0], "bounds are cached")
	g.InvalidateBounds()
	assert.Equal(t, 10.0, g.Bounds().Max[0])
}

func TestBox3Transform(t *testing.T) {
	b := Box3{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}
	moved := b.Transform(mgl64.Translate3D(5, 0, 0).Mul4(mgl64.Scale3D(2, 2, 2)))
	assert.InDelta(t, 3.0, moved.Min[0], 1e-9)
	assert.InDelta(t, 7.0, moved.Max[0], 1e-9)
	assert.True(t, EmptyBox3().IsEmpty())
	assert.False(t, moved.IsEmpty())
}
