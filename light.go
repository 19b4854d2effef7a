package meadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShadowFilter selects how projected shadow edges are treated.
type ShadowFilter string

const (
	ShadowFilterBasic   ShadowFilter = "basic"   // hard, full-strength shadows
	ShadowFilterPCF     ShadowFilter = "pcf"     // slightly lighter shadows
	ShadowFilterPCFSoft ShadowFilter = "pcfsoft" // light, soft shadows
)

// ShadowConfig is the per-light shadow setup.
type ShadowConfig struct {
	MapSize  int          `yaml:"mapSize"`
	Near     float64      `yaml:"near"`
	Far      float64      `yaml:"far"`
	Filter   ShadowFilter `yaml:"filter"`
	Strength float64      `yaml:"strength"` // shadow alpha before filtering, in [0, 1]
}

// alpha returns the shadow alpha after applying the filter mode.
func (s ShadowConfig) alpha() float64 {
	a := s.Strength
	switch s.Filter {
	case ShadowFilterPCF:
		a *= 0.8
	case ShadowFilterPCFSoft:
		a *= 0.6
	}
	return clamp01(a)
}

// AmbientLight lights every face equally.
type AmbientLight struct {
	Color     Color   `yaml:"-"`
	Hex       uint32  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Color      Color        `yaml:"-"`
	Hex        uint32       `yaml:"color"`
	Intensity  float64      `yaml:"intensity"`
	Position   [3]float64   `yaml:"position"`
	CastShadow bool         `yaml:"castShadow"`
	Shadow     ShadowConfig `yaml:"shadow"`
}

// Direction returns the unit vector pointing from the scene toward the light.
func (d DirectionalLight) Direction() mgl64.Vec3 {
	v := mgl64.Vec3(d.Position)
	if v.Len() == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	return v.Normalize()
}

// Lighting is the full light rig of a scene.
type Lighting struct {
	Ambient     AmbientLight       `yaml:"ambient"`
	Directional []DirectionalLight `yaml:"directional"`
}

// resolveColors fills Color from Hex on every light.
func (l *Lighting) resolveColors() {
	l.Ambient.Color = ColorFromHex(l.Ambient.Hex)
	for i := range l.Directional {
		l.Directional[i].Color = ColorFromHex(l.Directional[i].Hex)
	}
}

// Shade returns base lit by the rig for a surface with unit normal n.
// Alpha is preserved.
func (l *Lighting) Shade(n mgl64.Vec3, base Color) Color {
	r := l.Ambient.Color.R * l.Ambient.Intensity
	g := l.Ambient.Color.G * l.Ambient.Intensity
	b := l.Ambient.Color.B * l.Ambient.Intensity
	for i := range l.Directional {
		d := &l.Directional[i]
		k := math.Max(0, n.Dot(d.Direction())) * d.Intensity
		r += d.Color.R * k
		g += d.Color.G * k
		b += d.Color.B * k
	}
	return Color{
		R: clamp01(base.R * r),
		G: clamp01(base.G * g),
		B: clamp01(base.B * b),
		A: base.A,
	}
}

// ShadowLight returns the first shadow-casting directional light, or nil.
// Lights that sit at or below the horizon cast no ground shadow.
func (l *Lighting) ShadowLight() *DirectionalLight {
	for i := range l.Directional {
		d := &l.Directional[i]
		if d.CastShadow && d.Direction()[1] > 1e-6 {
			return d
		}
	}
	return nil
}
