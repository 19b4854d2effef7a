package meadow

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default material color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorFromHex converts a 0xRRGGBB value to an opaque Color.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// Scale returns c with R, G and B multiplied by f and clamped to [0, 1].
// Alpha is unchanged.
func (c Color) Scale(f float64) Color {
	return Color{clamp01(c.R * f), clamp01(c.G * f), clamp01(c.B * f), c.A}
}

// Lerp blends c toward o by t in [0, 1].
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R)*c.A*255 + 0.5),
		G: uint8(clamp01(c.G)*c.A*255 + 0.5),
		B: uint8(clamp01(c.B)*c.A*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeGroup NodeType = iota // group node with no visual output
	NodeTypeMesh                  // renders its Geometry with its Material
)

// Render layers. Lower layers are painted first; within a layer triangles
// are sorted back to front.
const (
	LayerGround  uint8 = 0 // ground plane
	LayerDecal   uint8 = 1 // coplanar overlays on the ground (plaza)
	LayerShadow  uint8 = 2 // projected shadows
	LayerObjects uint8 = 3 // everything else
)

// Material describes how a mesh is shaded.
type Material struct {
	Color   Color
	Opacity float64

	// DoubleSided disables back-face culling (flat ground decals, thin
	// petals).
	DoubleSided bool

	// Unlit skips lighting; the material color is used as is.
	Unlit bool
}

// NewMaterial returns an opaque lit material of the given 0xRRGGBB color.
func NewMaterial(hex uint32) Material {
	return Material{Color: ColorFromHex(hex), Opacity: 1}
}
