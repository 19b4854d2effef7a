package meadow

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenScale, TweenOpacity,
// TweenColor) and call Update(dt) each frame. The group auto-applies values
// and marks the target node dirty. If the target node is disposed, the group
// stops immediately.
//
// There is no global animation manager. Callers update their groups.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields. If the target node has been disposed, Done is set to true
// and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenPosition animates node.Position to (x, y, z).
func TweenPosition(node *Node, x, y, z float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.add(&node.Position[0], x, duration, fn)
	g.add(&node.Position[1], y, duration, fn)
	g.add(&node.Position[2], z, duration, fn)
	return g
}

// TweenScale animates node.Scale uniformly to s.
func TweenScale(node *Node, s float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.add(&node.Scale[0], s, duration, fn)
	g.add(&node.Scale[1], s, duration, fn)
	g.add(&node.Scale[2], s, duration, fn)
	return g
}

// TweenOpacity animates node.Opacity to the target value.
func TweenOpacity(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.add(&node.Opacity, to, duration, fn)
	return g
}

// TweenColor animates all four components of c toward to. The group has no
// target node; it is used for colors that live outside the tree, such as the
// sky or a screen overlay.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&c.R, to.R, duration, fn)
	g.add(&c.G, to.G, duration, fn)
	g.add(&c.B, to.B, duration, fn)
	g.add(&c.A, to.A, duration, fn)
	return g
}

// easeProgress maps elapsed seconds on a duration-long curve to [0, 1].
// It is a pure function of its inputs so callers can evaluate it from
// absolute time instead of stepping a tween.
func easeProgress(fn ease.TweenFunc, elapsed, duration float64) float64 {
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return clamp01(float64(fn(float32(elapsed), 0, 1, float32(duration))))
}
