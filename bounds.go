package meadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box3 is an axis-aligned bounding box. An empty box has Min > Max.
type Box3 struct {
	Min, Max mgl64.Vec3
}

// EmptyBox3 returns a box that contains nothing; expanding it by a point
// yields a zero-size box at that point.
func EmptyBox3() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint returns the smallest box containing b and p.
func (b Box3) ExpandByPoint(p mgl64.Vec3) Box3 {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Center returns the midpoint of the box. Zero for an empty box.
func (b Box3) Center() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents. Zero for an empty box.
func (b Box3) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Transform returns the AABB of b's eight corners transformed by m.
func (b Box3) Transform(m mgl64.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox3()
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out = out.ExpandByPoint(mgl64.TransformCoordinate(corner, m))
	}
	return out
}

// SceneInfo summarizes the world-space extent of a set of meshes.
type SceneInfo struct {
	Box    Box3
	Center mgl64.Vec3
	Size   mgl64.Vec3
	Radius float64
}

// newSceneInfo derives center, size and bounding radius from box.
func newSceneInfo(box Box3) SceneInfo {
	size := box.Size()
	return SceneInfo{
		Box:    box,
		Center: box.Center(),
		Size:   size,
		Radius: size.Len() * 0.5,
	}
}

// subtreeBounds returns the world-space AABB of every visible mesh under n.
// World transforms must be current.
func subtreeBounds(n *Node) Box3 {
	box := EmptyBox3()
	n.Walk(func(c *Node) bool {
		if !c.Visible {
			return false
		}
		if c.Type == NodeTypeMesh && c.Geometry != nil {
			box = box.Union(c.Geometry.Bounds().Transform(c.worldTransform))
		}
		return true
	})
	return box
}
