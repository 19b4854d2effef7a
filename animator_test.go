package meadow

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bareCloud is a cloud with a single puff and the given motion.
func bareCloud(m CloudMotion) *Cloud {
	n := NewGroup("cloud")
	n.AddChild(NewMesh("puff-0", NewSphereGeometry(0.5, 4, 4), NewMaterial(0xffffff)))
	return &Cloud{Node: n, Motion: m, spheres: []mgl64.Vec3{{}}}
}

func TestCloudFloatFormula(t *testing.T) {
	c := bareCloud(CloudMotion{OriginalY: 10, FloatSpeed: 0.001, FloatAmount: 1})
	var a Animator
	a.AnimateClouds([]*Cloud{c}, 1000)

	assert.InDelta(t, 10.841, c.Node.Position[1], 1e-3)
	assert.InDelta(t, 10+math.Sin(1), c.Node.Position[1], 1e-12)
	assert.Equal(t, 0.0, c.Node.Rotation[1], "zero rotation speed leaves yaw alone")
}

func TestCloudFloatUsesPhase(t *testing.T) {
	c := bareCloud(CloudMotion{OriginalY: 20, FloatSpeed: 0.5, FloatAmount: 0.3, Time: 1.5})
	var a Animator
	a.AnimateClouds([]*Cloud{c}, 2)
	assert.InDelta(t, 20+math.Sin(3.5*0.5)*0.3, c.Node.Position[1], 1e-12)
}

func TestCloudAccumulates(t *testing.T) {
	c := bareCloud(CloudMotion{OriginalY: 15, FloatSpeed: 0.001, FloatAmount: 0.2, RotationSpeed: 0.0004})
	var a Animator

	a.AnimateClouds([]*Cloud{c}, 100)
	first := c.Node.Position
	firstYaw := c.Node.Rotation[1]

	a.AnimateClouds([]*Cloud{c}, 100)
	assert.InDelta(t, 2*firstYaw, c.Node.Rotation[1], 1e-15)
	assert.NotEqual(t, first[0], c.Node.Position[0], "drift accumulates")
	assert.Equal(t, first[1], c.Node.Position[1], "float is recomputed")
}

func TestCloudWrap(t *testing.T) {
	c := bareCloud(CloudMotion{OriginalY: 15})
	c.Node.Position = mgl64.Vec3{250, 15, 0}
	a := Animator{Rand: NewFixedSource(0, 0.999, 0.5)}

	a.AnimateClouds([]*Cloud{c}, 42)

	assert.InDelta(t, -200, c.Node.Position[0], 1e-9)
	assert.InDelta(t, 199.6, c.Node.Position[2], 1e-9)
	assert.InDelta(t, 21, c.Motion.OriginalY, 1e-9)
	assert.True(t, c.Motion.Wrapped)
	assert.Equal(t, 42.0, c.Motion.WrappedAt)
}

func TestCloudWrapStaysInBounds(t *testing.T) {
	a := NewAnimator(NewRandSource(9, 9), DefaultConfig().Clouds)
	for i := 0; i < 500; i++ {
		c := bareCloud(CloudMotion{OriginalY: 15})
		c.Node.Position = mgl64.Vec3{0, 15, -201}
		a.AnimateClouds([]*Cloud{c}, float64(i))

		require.LessOrEqual(t, math.Abs(c.Node.Position[0]), 200.0)
		require.LessOrEqual(t, math.Abs(c.Node.Position[2]), 200.0)
		require.GreaterOrEqual(t, c.Motion.OriginalY, 12.0)
		require.Less(t, c.Motion.OriginalY, 30.0)
	}
}

func TestCloudWrapNilRandPanics(t *testing.T) {
	c := bareCloud(CloudMotion{})
	c.Node.Position[0] = 300
	var a Animator
	assert.Panics(t, func() { a.AnimateClouds([]*Cloud{c}, 0) })
}

func TestCloudWrapFadesIn(t *testing.T) {
	a := NewAnimator(NewFixedSource(0.5), CloudConfig{Bounds: 200, MinAltitude: 12, MaxAltitude: 30, FadeSeconds: 2})
	c := bareCloud(CloudMotion{OriginalY: 15})
	c.Node.Position[0] = 201

	a.AnimateClouds([]*Cloud{c}, 10)
	assert.Equal(t, 0.0, c.Node.Opacity)

	a.AnimateClouds([]*Cloud{c}, 11)
	assert.Greater(t, c.Node.Opacity, 0.0)
	assert.Less(t, c.Node.Opacity, 1.0)

	a.AnimateClouds([]*Cloud{c}, 12.5)
	assert.Equal(t, 1.0, c.Node.Opacity)
}

func TestCloudPuffWobble(t *testing.T) {
	c := NewCloud(1, NewFixedSource(0.5))
	var a Animator
	a.AnimateClouds([]*Cloud{c}, 7)

	t0 := c.Motion.Time + 7
	for k, puff := range c.Node.Children() {
		st := t0 * (0.8 + float64(k)*0.1)
		assert.InDelta(t, math.Sin(st*0.3)*0.03, puff.Rotation[0], 1e-12)
		assert.InDelta(t, math.Cos(st*0.2)*0.03, puff.Rotation[2], 1e-12)
		assert.InDelta(t, c.spheres[k][1], puff.Position[1], cloudPuffBob+1e-12)
	}

	// The bob is recomputed from rest, so replaying a time gives the same pose.
	y := c.Node.ChildAt(2).Position[1]
	a.AnimateClouds([]*Cloud{c}, 7)
	assert.Equal(t, y, c.Node.ChildAt(2).Position[1])
}

func TestTreeIdempotent(t *testing.T) {
	tree := NewTree(5)
	tree.Motion.OriginalX, tree.Motion.OriginalZ = -25, 14
	var a Animator

	a.AnimateTrees([]*Tree{tree}, 1234.5)
	pos, rot, scale := tree.Node.Position, tree.Node.Rotation, tree.Node.Scale
	leaf := tree.Node.ChildAt(1).Rotation

	a.AnimateTrees([]*Tree{tree}, 1234.5)
	assert.Equal(t, pos, tree.Node.Position)
	assert.Equal(t, rot, tree.Node.Rotation)
	assert.Equal(t, scale, tree.Node.Scale)
	assert.Equal(t, leaf, tree.Node.ChildAt(1).Rotation)
}

func TestTreeZeroParametersStayAtRest(t *testing.T) {
	tree := &Tree{Node: newTieredTree(), Motion: TreeMotion{
		OriginalScale:     0.9,
		OriginalX:         5,
		OriginalZ:         -3,
		OriginalRotationY: 0.4,
	}}
	var a Animator
	a.AnimateTrees([]*Tree{tree}, 98765)

	assert.InDelta(t, 5, tree.Node.Position[0], 1e-12)
	assert.InDelta(t, -3, tree.Node.Position[2], 1e-12)
	assert.InDelta(t, 0.4, tree.Node.Rotation[1], 1e-12)
	assert.InDelta(t, 0.9, tree.Node.Scale[0], 1e-12)
	for _, c := range tree.Node.Children()[1:] {
		assert.Equal(t, 0.0, c.Rotation[0])
		assert.Equal(t, 0.0, c.Rotation[2])
	}
}

func TestTreeFormula(t *testing.T) {
	tree := NewTree(1)
	m := &tree.Motion
	m.OriginalX, m.OriginalZ, m.OriginalScale = 10, 20, 0.9
	var a Animator
	const elapsed = 50.0
	a.AnimateTrees([]*Tree{tree}, elapsed)

	wt := m.WindTime + elapsed
	tt := m.Time + elapsed
	wantX := 10 + math.Sin(wt*m.WindSpeed)*m.WindStrength + math.Sin(tt*m.SwaySpeed)*m.SwayAmount*0.3
	wantZ := 20 + math.Cos(wt*m.WindSpeed*0.7)*m.WindStrength*0.5 + math.Cos(tt*m.SwaySpeed*0.8)*m.SwayAmount*0.2
	wantScale := 0.9 * (1 + math.Sin(wt*m.WindSpeed*2)*0.05*m.Flexibility) * (1 + math.Sin(tt*0.001)*0.02*m.SeasonalFactor)

	assert.InDelta(t, wantX, tree.Node.Position[0], 1e-12)
	assert.InDelta(t, wantZ, tree.Node.Position[2], 1e-12)
	assert.InDelta(t, wantScale, tree.Node.Scale[1], 1e-12)
	assert.Equal(t, 0.0, tree.Node.ChildAt(0).Rotation[2], "trunk does not wobble")
	assert.InDelta(t, math.Sin(wt*m.WindSpeed*1.5)*m.Flexibility*0.4, tree.Node.ChildAt(1).Rotation[2], 1e-12)
}

func TestUpdateAnimatesWorld(t *testing.T) {
	w := Assemble(DefaultConfig(), AssembleOptions{})
	a := NewAnimator(NewRandSource(1, 1), w.Config.Clouds)
	n := a.Update(w, 1000)
	assert.Equal(t, len(w.Trees)+len(w.Clouds), n)
	assert.NotEqual(t, w.Clouds[0].Motion.OriginalY, w.Clouds[0].Node.Position[1])
}
