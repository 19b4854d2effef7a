package meadow

import "github.com/go-gl/mathgl/mgl64"

// CloudMotion drives a cloud's float, spin and drift. It is set once when the
// cloud is built; the animator only rewrites OriginalY (and the wrap fields)
// when the cloud is re-placed after leaving the sky bounds.
type CloudMotion struct {
	OriginalY     float64 // rest altitude the cloud bobs around
	FloatSpeed    float64
	FloatAmount   float64
	RotationSpeed float64 // yaw added per frame
	Time          float64 // phase offset in seconds
	WindTime      float64

	// Wrapped is set once the cloud has been re-placed; WrappedAt is the
	// elapsed time of the last re-placement.
	Wrapped   bool
	WrappedAt float64
}

// TreeMotion drives a tree's wind sway, yaw wobble and breathing scale.
type TreeMotion struct {
	OriginalScale     float64
	OriginalX         float64
	OriginalZ         float64
	OriginalRotationY float64

	WindSpeed     float64
	WindStrength  float64
	WindDirection float64

	Flexibility float64
	Height      float64

	SwaySpeed  float64
	SwayAmount float64

	SeasonalFactor float64

	Time     float64 // sway phase offset in seconds
	WindTime float64 // wind phase offset in seconds
}

// Cloud is a cluster of spheres that floats, spins and drifts.
type Cloud struct {
	Node   *Node
	Motion CloudMotion

	// spheres keeps the authored offset of each puff so the bob is recomputed
	// from rest every frame.
	spheres []mgl64.Vec3
}

// Tree is a trunk (child 0) with foliage children that sways in the wind.
type Tree struct {
	Node   *Node
	Kind   TreeKind
	Motion TreeMotion
}

// TreeKind selects one of the low-poly tree shapes.
type TreeKind uint8

const (
	TreeTiered     TreeKind = iota // stacked square cylinders
	TreeTriangle                   // stacked three-sided cones
	TreeOctahedron                 // single octahedron crown
	numTreeKinds
)

// String returns the kind's name.
func (k TreeKind) String() string {
	switch k {
	case TreeTiered:
		return "tiered"
	case TreeTriangle:
		return "triangle"
	case TreeOctahedron:
		return "octahedron"
	default:
		return "unknown"
	}
}
