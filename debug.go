package meadow

import (
	"fmt"
	"time"
)

// FrameStats holds per-frame timing and triangle metrics.
// Only logged when the scene is in debug mode.
type FrameStats struct {
	AnimateTime  time.Duration
	CollectTime  time.Duration
	SortTime     time.Duration
	Triangles    int
	Culled       int
	Clipped      int
	ShadowTris   int
	Batches      int
	SubmitTime   time.Duration
	AnimatedObjs int
}

// debugLog logs timing and triangle stats at debug level.
func (s *Scene) debugLog(stats FrameStats) {
	if !s.debug {
		return
	}
	Logger().Debug("frame",
		"animate", stats.AnimateTime,
		"collect", stats.CollectTime,
		"sort", stats.SortTime,
		"submit", stats.SubmitTime,
		"triangles", stats.Triangles,
		"culled", stats.Culled,
		"clipped", stats.Clipped,
		"shadows", stats.ShadowTris,
		"batches", stats.Batches,
		"objects", stats.AnimatedObjs,
	)
}

// LogFrame logs stats when debug mode is on. Called by the render loop after
// submitting a frame.
func (s *Scene) LogFrame(stats FrameStats) {
	s.debugLog(stats)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("meadow debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold", "depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
