package meadow

import "github.com/go-gl/mathgl/mgl64"

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, scene events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event SceneEvent)
}

// SceneEventType identifies a SceneEvent.
type SceneEventType uint8

const (
	// EventCloudWrapped fires when a cloud drifts out of bounds and is
	// re-placed. X, Y and Z are its new position.
	EventCloudWrapped SceneEventType = iota
	// EventModelLoaded fires when a model is added to the scene.
	EventModelLoaded
	// EventModelFailed fires when a model could not be loaded. Err is set.
	EventModelFailed
)

func (t SceneEventType) String() string {
	switch t {
	case EventCloudWrapped:
		return "cloud-wrapped"
	case EventModelLoaded:
		return "model-loaded"
	case EventModelFailed:
		return "model-failed"
	}
	return "unknown"
}

// SceneEvent carries event data for the ECS bridge.
type SceneEvent struct {
	Type     SceneEventType
	EntityID uint32
	Name     string
	// Position fields (valid for EventCloudWrapped)
	X, Y, Z float64
	// Elapsed is the animation time of the event in seconds.
	Elapsed float64
	// Model fields (valid for EventModelLoaded, EventModelFailed)
	Path string
	Err  error
}

// Scene is the top-level object that owns the node tree and the sky color.
type Scene struct {
	root  *Node
	store EntityStore
	debug bool

	// Background is the sky color the frame is cleared to.
	Background Color
}

// NewScene creates a new scene with a pre-created root group.
func NewScene() *Scene {
	return &Scene{
		root:       NewGroup("root"),
		Background: ColorFromHex(0x87ceeb),
	}
}

// Root returns the scene's root group node.
func (s *Scene) Root() *Node {
	return s.root
}

// Add appends nodes to the root group.
func (s *Scene) Add(nodes ...*Node) {
	for _, n := range nodes {
		s.root.AddChild(n)
	}
}

// UpdateTransforms refreshes the world transforms of every dirty subtree.
func (s *Scene) UpdateTransforms() {
	updateWorldTransform(s.root, mgl64.Ident4(), 1.0, false)
}

// Bounds returns the world-space extent of every visible mesh in the scene.
func (s *Scene) Bounds() SceneInfo {
	s.UpdateTransforms()
	return newSceneInfo(subtreeBounds(s.root))
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

func (s *Scene) emit(e SceneEvent) {
	if s.store != nil {
		s.store.EmitEvent(e)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame raster stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// DebugMode reports whether debug mode is enabled.
func (s *Scene) DebugMode() bool {
	return s.debug
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
