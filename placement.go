package meadow

import "math"

// Placement is a position and uniform scale for one scene object.
type Placement struct {
	X, Y, Z float64
	Scale   float64
}

// EdgePlacement lines the four sides of a square with objects while keeping
// a clear plaza in the middle.
type EdgePlacement struct {
	EdgeDistance    float64 `yaml:"edgeDistance"`    // half side of the square
	CenterClearance float64 `yaml:"centerClearance"` // points with |v| <= this are skipped
	Step            float64 `yaml:"step"`            // spacing along each edge
	Corners         bool    `yaml:"corners"`         // add one point past each corner
	CornerOffset    float64 `yaml:"cornerOffset"`    // how far past the corner
}

// Default edge placements.
var (
	TreeEdges   = EdgePlacement{EdgeDistance: 25, CenterClearance: 12, Step: 3, Corners: true, CornerOffset: 5}
	BushEdges   = EdgePlacement{EdgeDistance: 22, CenterClearance: 15, Step: 4}
	FlowerEdges = EdgePlacement{EdgeDistance: 20, CenterClearance: 14, Step: 3}
)

// Positions returns the top, bottom, left and right edge points in that
// order, followed by the four corner points when Corners is set. Every
// point has Y = 0 and Scale = 1. A non-positive Step yields no edge points.
//
// Non-finite fields, or a Step so small that one edge would need more than
// maxEdgeSteps points, also yield no edge points.
func (e EdgePlacement) Positions() []Placement {
	var axis []float64
	if e.stepCount() > 0 {
		for v := -e.EdgeDistance; v <= e.EdgeDistance; v += e.Step {
			if math.Abs(v) > e.CenterClearance {
				axis = append(axis, v)
			}
		}
	}

	out := make([]Placement, 0, 4*len(axis)+4)
	for _, x := range axis {
		out = append(out, Placement{X: x, Z: -e.EdgeDistance, Scale: 1})
	}
	for _, x := range axis {
		out = append(out, Placement{X: x, Z: e.EdgeDistance, Scale: 1})
	}
	for _, z := range axis {
		out = append(out, Placement{X: -e.EdgeDistance, Z: z, Scale: 1})
	}
	for _, z := range axis {
		out = append(out, Placement{X: e.EdgeDistance, Z: z, Scale: 1})
	}

	if e.Corners && isFinite(e.EdgeDistance, e.CornerOffset) {
		d := e.EdgeDistance + e.CornerOffset
		out = append(out,
			Placement{X: -d, Z: -d, Scale: 1},
			Placement{X: d, Z: -d, Scale: 1},
			Placement{X: -d, Z: d, Scale: 1},
			Placement{X: d, Z: d, Scale: 1},
		)
	}
	return out
}

// skyTable is the hand-authored cloud layout, grouped by altitude band.
var skyTable = [...]Placement{
	// low band
	{X: -25, Y: 15, Z: -20, Scale: 0.7},
	{X: 20, Y: 18, Z: -15, Scale: 0.8},
	{X: -15, Y: 16, Z: 25, Scale: 0.6},
	{X: 30, Y: 17, Z: 20, Scale: 0.9},
	{X: -35, Y: 14, Z: 10, Scale: 0.5},
	{X: 25, Y: 19, Z: -30, Scale: 0.8},

	// middle band
	{X: -10, Y: 22, Z: -25, Scale: 0.7},
	{X: 15, Y: 24, Z: 15, Scale: 0.8},
	{X: -20, Y: 21, Z: -10, Scale: 0.6},
	{X: 35, Y: 23, Z: -5, Scale: 0.9},
	{X: -30, Y: 25, Z: 30, Scale: 0.7},
	{X: 10, Y: 20, Z: 35, Scale: 0.6},

	// high band
	{X: -5, Y: 28, Z: -35, Scale: 0.8},
	{X: 40, Y: 26, Z: 10, Scale: 0.7},
	{X: -25, Y: 29, Z: -5, Scale: 0.6},
	{X: 20, Y: 27, Z: 40, Scale: 0.9},
	{X: -40, Y: 30, Z: 20, Scale: 0.7},
	{X: 5, Y: 25, Z: -40, Scale: 0.6},

	// outer ring
	{X: -45, Y: 18, Z: -15, Scale: 0.5},
	{X: 45, Y: 22, Z: 25, Scale: 0.8},
	{X: -15, Y: 31, Z: 45, Scale: 0.7},
	{X: 30, Y: 19, Z: -45, Scale: 0.6},
	{X: -50, Y: 24, Z: 5, Scale: 0.8},
	{X: 50, Y: 21, Z: -20, Scale: 0.7},
	{X: -10, Y: 32, Z: -50, Scale: 0.6},
	{X: 15, Y: 28, Z: 50, Scale: 0.9},
	{X: -55, Y: 26, Z: 35, Scale: 0.7},
	{X: 55, Y: 23, Z: 15, Scale: 0.6},
	{X: -20, Y: 33, Z: -55, Scale: 0.8},
	{X: 25, Y: 29, Z: 55, Scale: 0.7},
	{X: -60, Y: 20, Z: -10, Scale: 0.5},
	{X: 60, Y: 25, Z: 30, Scale: 0.8},
	{X: -5, Y: 34, Z: -60, Scale: 0.6},
	{X: 35, Y: 30, Z: 60, Scale: 0.9},
	{X: -65, Y: 27, Z: 25, Scale: 0.7},
	{X: 65, Y: 22, Z: -25, Scale: 0.6},
	{X: -30, Y: 35, Z: -65, Scale: 0.8},
	{X: 40, Y: 31, Z: 65, Scale: 0.7},
	{X: -70, Y: 24, Z: 5, Scale: 0.5},
	{X: 70, Y: 26, Z: 35, Scale: 0.8},
	{X: -15, Y: 36, Z: -70, Scale: 0.6},
	{X: 45, Y: 32, Z: 70, Scale: 0.9},
	{X: -75, Y: 28, Z: 40, Scale: 0.7},
	{X: 75, Y: 23, Z: -30, Scale: 0.6},
}

// SkyPlacement returns a copy of the cloud layout table.
func SkyPlacement() []Placement {
	out := make([]Placement, len(skyTable))
	copy(out, skyTable[:])
	return out
}

// maxEdgeSteps bounds the number of points walked along one edge.
const maxEdgeSteps = 10000

// stepCount returns how many points the walk along one edge visits, or 0
// when the walk is empty, non-finite or longer than maxEdgeSteps.
func (e EdgePlacement) stepCount() int {
	if !isFinite(e.EdgeDistance, e.CenterClearance, e.Step) || e.Step <= 0 || e.EdgeDistance < 0 {
		return 0
	}
	n := math.Floor(2*e.EdgeDistance/e.Step) + 1
	if n > maxEdgeSteps {
		return 0
	}
	return int(n)
}

// isFinite reports whether every value is neither NaN nor infinite.
func isFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
