package meadow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCloudShape(t *testing.T) {
	for index := 0; index < 6; index++ {
		c := NewCloud(index, NewFixedSource(0.5))
		wantSpheres := 5 + index%3
		require.Equal(t, 1+wantSpheres, c.Node.NumChildren(), "cloud %d", index)
		require.Len(t, c.spheres, 1+wantSpheres)

		center := c.Node.ChildAt(0)
		assert.Equal(t, 0.95, center.Material.Opacity)
		centerRadius := (0.8 + float64(index%6)*0.2) * 0.5
		assert.InDelta(t, centerRadius, center.Geometry.Bounds().Max[1], 1e-9)

		for i := 0; i < wantSpheres; i++ {
			puff := c.Node.ChildAt(i + 1)
			assert.InDelta(t, 0.85+float64(i%3)*0.03, puff.Material.Opacity, 1e-12)
			radius := centerRadius * (0.7 + float64(i%4)*0.075)
			assert.InDelta(t, radius, puff.Geometry.Bounds().Max[1], 1e-9)
			assert.Equal(t, c.spheres[i+1], puff.Position)
		}
	}
}

func TestNewCloudRadialPuffs(t *testing.T) {
	// Cloud 2 has seven puffs; puffs 5 and 6 use the radial layout.
	c := NewCloud(2, NewFixedSource(0))
	centerRadius := (0.8 + 2*0.2) * 0.5
	for _, i := range []int{5, 6} {
		angle := math.Mod(float64(i)*0.5, 2*math.Pi)
		distance := centerRadius * (0.8 + float64(i%3)*0.1)
		pos := c.Node.ChildAt(i + 1).Position
		assert.InDelta(t, math.Cos(angle)*distance, pos[0], 1e-12)
		assert.InDelta(t, float64(i%3-1)*centerRadius*0.2, pos[1], 1e-12)
		assert.InDelta(t, math.Sin(angle)*distance, pos[2], 1e-12)
	}
}

func TestNewCloudMotionDraws(t *testing.T) {
	// Digits 3, 7, 2, 9 drive floatSpeed, floatAmount, rotationSpeed, time.
	c := NewCloud(0, NewFixedSource(0.3, 0.7, 0.2, 0.9))
	m := c.Motion
	assert.InDelta(t, 0.0008+3*0.0002, m.FloatSpeed, 1e-12)
	assert.InDelta(t, 0.2+3*0.075, m.FloatAmount, 1e-12)
	assert.InDelta(t, 0.0003+2*0.0001, m.RotationSpeed, 1e-12)
	assert.InDelta(t, 9*0.2, m.Time, 1e-12)
	assert.False(t, m.Wrapped)
}

func TestNewCloudDeterministicPerSeed(t *testing.T) {
	a := NewCloud(4, NewRandSource(42, 4))
	b := NewCloud(4, NewRandSource(42, 4))
	assert.Equal(t, a.Motion.FloatSpeed, b.Motion.FloatSpeed)
	assert.Equal(t, a.Motion.Time, b.Motion.Time)
}

func TestNewTreeKinds(t *testing.T) {
	tests := []struct {
		index    int
		kind     TreeKind
		children int
	}{
		{0, TreeTiered, 4},
		{1, TreeTriangle, 5},
		{2, TreeOctahedron, 2},
		{3, TreeTiered, 4},
	}
	for _, tt := range tests {
		tree := NewTree(tt.index)
		assert.Equal(t, tt.kind, tree.Kind, "tree %d", tt.index)
		assert.Equal(t, tt.children, tree.Node.NumChildren(), "tree %d", tt.index)
		assert.Equal(t, "trunk", tree.Node.ChildAt(0).Name, "child 0 is the trunk")
		for _, c := range tree.Node.Children() {
			assert.True(t, c.CastShadow)
			assert.True(t, c.ReceiveShadow)
		}
	}
	assert.Equal(t, "octahedron", TreeOctahedron.String())
}

func TestTreeMotionFromIndex(t *testing.T) {
	m := NewTree(7).Motion
	assert.InDelta(t, 0.02+2*0.003, m.WindSpeed, 1e-12)
	assert.InDelta(t, 0.3+3*0.1, m.WindStrength, 1e-12)
	assert.InDelta(t, 3.5, m.WindDirection, 1e-12)
	assert.InDelta(t, 0.1+1*0.05, m.Flexibility, 1e-12)
	assert.InDelta(t, 1.2+3*0.2, m.Height, 1e-12)
	assert.InDelta(t, 0.015+1*0.003, m.SwaySpeed, 1e-12)
	assert.InDelta(t, 0.15+3*0.05, m.SwayAmount, 1e-12)
	assert.InDelta(t, 0.8+2*0.08, m.SeasonalFactor, 1e-12)
	assert.InDelta(t, 1.4, m.Time, 1e-12)
	assert.InDelta(t, 2.1, m.WindTime, 1e-12)
}

func TestBushAndFlowerRestOnGround(t *testing.T) {
	for _, n := range []*Node{NewBush(), NewFlower()} {
		s := NewScene()
		s.Add(n)
		info := s.Bounds()
		assert.GreaterOrEqual(t, info.Box.Min[1], -1e-9, n.Name)
		assert.Less(t, info.Box.Min[1], 0.1, n.Name)
		assert.Greater(t, info.Box.Max[1], 0.0, n.Name)
	}
}
