package meadow

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// cloudPalette holds the near-white puff colors, cycled by index.
var cloudPalette = [5]uint32{0xffffff, 0xfffffe, 0xfffffd, 0xfffffc, 0xfffffb}

// cloudSphereSegments is the sphere tessellation used for cloud puffs.
const cloudSphereSegments = 12

// NewCloud builds cloud number index: a center puff plus five to seven
// satellite puffs. Size, puff count and colors depend only on index; the
// float, spin and phase parameters are drawn from rng.
func NewCloud(index int, rng RandSource) *Cloud {
	group := NewGroup(fmt.Sprintf("cloud-%d", index))

	size := 0.8 + float64(index%6)*0.2
	sphereCount := 5 + index%3
	centerRadius := size * 0.5

	c := &Cloud{Node: group}

	centerMat := NewMaterial(cloudPalette[index%len(cloudPalette)])
	centerMat.Opacity = 0.95
	center := NewMesh("puff-0", NewSphereGeometry(centerRadius, cloudSphereSegments, cloudSphereSegments), centerMat)
	center.CastShadow = true
	center.ReceiveShadow = true
	group.AddChild(center)
	c.spheres = append(c.spheres, mgl64.Vec3{})

	offsets := [5]mgl64.Vec3{
		{-centerRadius * 0.8, -centerRadius * 0.2, 0}, // lower left
		{centerRadius * 0.8, -centerRadius * 0.2, 0},  // lower right
		{0, centerRadius * 0.6, 0},                    // top
		{centerRadius * 1.2, centerRadius * 0.3, centerRadius * 0.3},
		{centerRadius * 1.4, centerRadius * 0.1, centerRadius * 0.1},
	}

	for i := 0; i < sphereCount; i++ {
		radius := centerRadius * (0.7 + float64(i%4)*0.075)
		mat := NewMaterial(cloudPalette[i%len(cloudPalette)])
		mat.Opacity = 0.85 + float64(i%3)*0.03

		var pos mgl64.Vec3
		if i < len(offsets) {
			pos = offsets[i]
			pos[0] += float64(i%3-1) * centerRadius * 0.1
			pos[1] += (float64(i%2) - 0.5) * centerRadius * 0.1
			pos[2] += (float64(i%4) - 1.5) * centerRadius * 0.1
		} else {
			angle := math.Mod(float64(i)*0.5, 2*math.Pi)
			distance := centerRadius * (0.8 + float64(i%3)*0.1)
			sin, cos := math.Sincos(angle)
			pos = mgl64.Vec3{
				cos * distance,
				float64(i%3-1) * centerRadius * 0.2,
				sin * distance,
			}
		}

		puff := NewMesh(fmt.Sprintf("puff-%d", i+1), NewSphereGeometry(radius, cloudSphereSegments, cloudSphereSegments), mat)
		puff.Position = pos
		puff.CastShadow = true
		puff.ReceiveShadow = true
		group.AddChild(puff)
		c.spheres = append(c.spheres, pos)
	}

	c.Motion = CloudMotion{
		FloatSpeed:    0.0008 + float64(floorDigit(rng)%5)*0.0002,
		FloatAmount:   0.2 + float64(floorDigit(rng)%4)*0.075,
		RotationSpeed: 0.0003 + float64(floorDigit(rng)%3)*0.0001,
		Time:          float64(floorDigit(rng)%10) * 0.2,
	}
	return c
}

// NewTree builds tree number index. The shape cycles through the three tree
// kinds; the motion parameters are derived from index alone.
func NewTree(index int) *Tree {
	kind := TreeKind(index % int(numTreeKinds))
	var group *Node
	switch kind {
	case TreeTiered:
		group = newTieredTree()
	case TreeTriangle:
		group = newTriangleTree()
	default:
		group = newOctahedronTree()
	}
	group.Name = fmt.Sprintf("tree-%d", index)
	return &Tree{Node: group, Kind: kind, Motion: treeMotion(index)}
}

// treeMotion derives the sway parameters for tree index. Rest pose fields
// are filled in by the assembler once the tree is placed.
func treeMotion(index int) TreeMotion {
	i := float64(index)
	return TreeMotion{
		OriginalScale:  1,
		WindSpeed:      0.02 + float64(index%5)*0.003,
		WindStrength:   0.3 + float64(index%4)*0.1,
		WindDirection:  math.Mod(i*0.5, 2*math.Pi),
		Flexibility:    0.1 + float64(index%3)*0.05,
		Height:         1.2 + float64(index%4)*0.2,
		SwaySpeed:      0.015 + float64(index%3)*0.003,
		SwayAmount:     0.15 + float64(index%4)*0.05,
		SeasonalFactor: 0.8 + float64(index%5)*0.08,
		Time:           i * 0.2,
		WindTime:       i * 0.3,
	}
}

// lowPoly marks a mesh as a shadow caster and receiver.
func lowPoly(n *Node) *Node {
	n.CastShadow = true
	n.ReceiveShadow = true
	return n
}

func squareTrunk() *Node {
	trunk := lowPoly(NewMesh("trunk", NewCylinderGeometry(0.15, 0.2, 1.2, 4), NewMaterial(0x8b4513)))
	trunk.Position[1] = 0.6
	return trunk
}

func newTieredTree() *Node {
	tree := NewGroup("tree")
	tree.AddChild(squareTrunk())

	for i := 0; i < 3; i++ {
		radius := 0.8 - float64(i)*0.2
		color := uint32(0x228b22 - i*0x001100)
		foliage := lowPoly(NewMesh(fmt.Sprintf("foliage-%d", i), NewCylinderGeometry(radius, radius, 0.6, 4), NewMaterial(color)))
		foliage.Position[1] = 1.2 + float64(i)*0.5
		tree.AddChild(foliage)
	}
	return tree
}

func newTriangleTree() *Node {
	tree := NewGroup("tree")
	trunk := lowPoly(NewMesh("trunk", NewBoxGeometry(0.2, 1.2, 0.2), NewMaterial(0x654321)))
	trunk.Position[1] = 0.6
	tree.AddChild(trunk)

	for i := 0; i < 4; i++ {
		size := 1.0 - float64(i)*0.2
		color := uint32(0x006400 - i*0x001100)
		foliage := lowPoly(NewMesh(fmt.Sprintf("foliage-%d", i), NewConeGeometry(size, 0.8, 3), NewMaterial(color)))
		foliage.Position[1] = 1.2 + float64(i)*0.6
		tree.AddChild(foliage)
	}
	return tree
}

func newOctahedronTree() *Node {
	tree := NewGroup("tree")
	tree.AddChild(squareTrunk())

	foliage := lowPoly(NewMesh("foliage-0", NewOctahedronGeometry(0.8), NewMaterial(0x228b22)))
	foliage.Position[1] = 1.8
	tree.AddChild(foliage)
	return tree
}

// NewBush builds a faceted dark green bush resting on the ground.
func NewBush() *Node {
	bush := NewGroup("bush")
	ball := lowPoly(NewMesh("leaves", NewSphereGeometry(0.4, 4, 4), NewMaterial(0x006400)))
	ball.Position[1] = 0.4
	bush.AddChild(ball)
	return bush
}

// NewFlower builds a small white flower with a gold center.
func NewFlower() *Node {
	flower := NewGroup("flower")

	petal := lowPoly(NewMesh("petal", NewCylinderGeometry(0.05, 0.05, 0.2, 4), NewMaterial(0xffffff)))
	petal.Rotation[0] = math.Pi / 2
	petal.Position[1] = 0.1

	center := lowPoly(NewMesh("center", NewSphereGeometry(0.05, 4, 4), NewMaterial(0xffd700)))
	center.Position[1] = 0.2

	flower.AddChild(petal)
	flower.AddChild(center)
	return flower
}
