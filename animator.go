package meadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

// cloudPuffBob is the vertical travel of each puff around its rest offset.
const cloudPuffBob = 0.05

// Animator advances trees and clouds to a given elapsed time. Trees are
// recomputed from their rest pose on every call. Clouds keep accumulating
// yaw and drift, so calling AnimateClouds twice with the same time moves them
// twice.
//
// The zero value animates with the stock sky bounds and no wrap fade; Rand
// must be set before clouds can be re-placed.
type Animator struct {
	Rand RandSource

	// Bounds is the half extent of the square clouds drift in.
	Bounds float64
	// MinAltitude and MaxAltitude bound the rest altitude drawn for a
	// re-placed cloud.
	MinAltitude float64
	MaxAltitude float64

	// FadeSeconds is how long a re-placed cloud takes to fade back in. Zero
	// disables the fade.
	FadeSeconds float64
	// Fade is the easing curve for the wrap fade. Defaults to ease.OutQuad.
	Fade ease.TweenFunc
}

// NewAnimator returns an animator using rng for cloud re-placement and the
// bounds from cfg.
func NewAnimator(rng RandSource, cfg CloudConfig) *Animator {
	return &Animator{
		Rand:        rng,
		Bounds:      cfg.Bounds,
		MinAltitude: cfg.MinAltitude,
		MaxAltitude: cfg.MaxAltitude,
		FadeSeconds: cfg.FadeSeconds,
		Fade:        ease.OutQuad,
	}
}

func (a *Animator) bounds() float64 {
	if a.Bounds > 0 {
		return a.Bounds
	}
	return 200
}

func (a *Animator) altitudes() (lo, hi float64) {
	if a.MinAltitude < a.MaxAltitude {
		return a.MinAltitude, a.MaxAltitude
	}
	return 12, 30
}

// Update animates all trees, then all clouds, in insertion order, and sends
// an EventCloudWrapped to the scene's entity store for every re-placed cloud.
// It returns the number of objects animated.
func (a *Animator) Update(w *World, elapsed float64) int {
	a.AnimateTrees(w.Trees, elapsed)
	for _, c := range a.AnimateClouds(w.Clouds, elapsed) {
		p := c.Node.Position
		w.Scene.emit(SceneEvent{
			Type:     EventCloudWrapped,
			EntityID: c.Node.ID,
			Name:     c.Node.Name,
			X:        p[0],
			Y:        p[1],
			Z:        p[2],
			Elapsed:  elapsed,
		})
	}
	return len(w.Trees) + len(w.Clouds)
}

// AnimateTrees poses every tree for elapsed seconds: wind and sway offsets
// around the rest position, a yaw wobble, a breathing uniform scale and a
// foliage wobble on every child after the trunk.
func (a *Animator) AnimateTrees(trees []*Tree, elapsed float64) {
	for _, tree := range trees {
		animateTree(tree, elapsed)
	}
}

func animateTree(tree *Tree, elapsed float64) {
	m := &tree.Motion
	n := tree.Node
	t := m.Time + elapsed
	wt := m.WindTime + elapsed

	windX := math.Sin(wt*m.WindSpeed) * m.WindStrength
	windZ := math.Cos(wt*m.WindSpeed*0.7) * m.WindStrength * 0.5
	windRot := math.Sin(wt*m.WindSpeed) * m.Flexibility * 0.3

	swayX := math.Sin(t*m.SwaySpeed) * m.SwayAmount * 0.3
	swayZ := math.Cos(t*m.SwaySpeed*0.8) * m.SwayAmount * 0.2

	n.Position[0] = m.OriginalX + windX + swayX
	n.Position[2] = m.OriginalZ + windZ + swayZ
	n.Rotation[1] = m.OriginalRotationY + windRot

	windScale := 1 + math.Sin(wt*m.WindSpeed*2)*0.05*m.Flexibility
	seasonal := 1 + math.Sin(t*0.001)*0.02*m.SeasonalFactor
	s := m.OriginalScale * windScale * seasonal
	n.Scale = mgl64.Vec3{s, s, s}
	n.MarkDirty()

	leafZ := math.Sin(wt*m.WindSpeed*1.5) * m.Flexibility * 0.4
	leafX := math.Sin(wt*m.WindSpeed*0.8) * m.Flexibility * 0.2
	for i := 1; i < n.NumChildren(); i++ {
		leaf := n.ChildAt(i)
		leaf.Rotation[0] = leafX
		leaf.Rotation[2] = leafZ
		leaf.MarkDirty()
	}
}

// AnimateClouds floats, spins and drifts every cloud for elapsed seconds.
// A cloud that drifts past Bounds on either horizontal axis is re-placed at
// a random spot inside the bounds with a new rest altitude. The re-placed
// clouds are returned in order; the slice is nil when none wrapped.
func (a *Animator) AnimateClouds(clouds []*Cloud, elapsed float64) []*Cloud {
	var wrapped []*Cloud
	for _, c := range clouds {
		if a.animateCloud(c, elapsed) {
			wrapped = append(wrapped, c)
		}
	}
	return wrapped
}

func (a *Animator) animateCloud(c *Cloud, elapsed float64) (wrapped bool) {
	m := &c.Motion
	n := c.Node
	t := m.Time + elapsed

	n.Position[1] = m.OriginalY + math.Sin(t*m.FloatSpeed)*m.FloatAmount
	n.Rotation[1] += m.RotationSpeed
	n.Position[0] += math.Sin(t*0.0003) * 0.008
	n.Position[2] += math.Cos(t*0.0002) * 0.006

	b := a.bounds()
	if math.Abs(n.Position[0]) > b || math.Abs(n.Position[2]) > b {
		a.replace(c, elapsed)
		wrapped = true
	}

	if m.Wrapped && a.FadeSeconds > 0 {
		fn := a.Fade
		if fn == nil {
			fn = ease.OutQuad
		}
		n.Opacity = easeProgress(fn, elapsed-m.WrappedAt, a.FadeSeconds)
	}
	n.MarkDirty()

	for k, puff := range n.Children() {
		st := t * (0.8 + float64(k)*0.1)
		puff.Rotation[0] = math.Sin(st*0.3) * 0.03
		puff.Rotation[2] = math.Cos(st*0.2) * 0.03
		if k < len(c.spheres) {
			puff.Position[1] = c.spheres[k][1] + math.Sin(st*0.4)*cloudPuffBob
		}
		puff.MarkDirty()
	}
	return wrapped
}

// replace moves c to a random spot inside the bounds and draws a new rest
// altitude. Draw order is x, z, altitude.
func (a *Animator) replace(c *Cloud, elapsed float64) {
	if a.Rand == nil {
		panic("meadow: Animator.Rand is nil")
	}
	b := a.bounds()
	lo, hi := a.altitudes()
	c.Node.Position[0] = (a.Rand.Float64() - 0.5) * 2 * b
	c.Node.Position[2] = (a.Rand.Float64() - 0.5) * 2 * b
	c.Motion.OriginalY = lo + a.Rand.Float64()*(hi-lo)
	c.Motion.Wrapped = true
	c.Motion.WrappedAt = elapsed
	Logger().Debug("cloud re-placed", "cloud", c.Node.Name,
		"x", c.Node.Position[0], "z", c.Node.Position[2], "restY", c.Motion.OriginalY)
}
