package meadow

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full scene and window configuration, normally read from a
// YAML file and overlaid on DefaultConfig.
type Config struct {
	Window      WindowConfig     `yaml:"window"`
	Seed        uint64           `yaml:"seed"`
	Debug       bool             `yaml:"debug"`
	SkyColor    uint32           `yaml:"skyColor"`
	Camera      CameraConfig     `yaml:"camera"`
	Lights      Lighting         `yaml:"lights"`
	Ground      GroundConfig     `yaml:"ground"`
	Trees       EdgePlacement    `yaml:"trees"`
	Bushes      EdgePlacement    `yaml:"bushes"`
	Flowers     EdgePlacement    `yaml:"flowers"`
	Clouds      CloudConfig      `yaml:"clouds"`
	Models      []ModelSpec      `yaml:"models"`
	Intro       IntroConfig      `yaml:"intro"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
}

// WindowConfig configures the game window.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
	ShowFPS   bool   `yaml:"showFPS"`
}

// CameraConfig places the fixed camera.
type CameraConfig struct {
	FOV      float64    `yaml:"fov"`
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`

	// FitToScene moves the camera to frame the scene bounds when no loaded
	// model carries its own camera.
	FitToScene bool `yaml:"fitToScene"`
}

// GroundConfig sizes the lawn and the central plaza.
type GroundConfig struct {
	Size        float64 `yaml:"size"`
	Segments    int     `yaml:"segments"`
	Color       uint32  `yaml:"color"`
	PlazaRadius float64 `yaml:"plazaRadius"`
	PlazaColor  uint32  `yaml:"plazaColor"`
	PlazaHeight float64 `yaml:"plazaHeight"`
}

// CloudConfig bounds the drifting clouds.
type CloudConfig struct {
	// Bounds is the half extent of the square clouds may drift in before
	// being re-placed.
	Bounds      float64 `yaml:"bounds"`
	MinAltitude float64 `yaml:"minAltitude"`
	MaxAltitude float64 `yaml:"maxAltitude"`
	// FadeSeconds is how long a re-placed cloud takes to fade back in.
	FadeSeconds float64 `yaml:"fadeSeconds"`
	CastShadow  bool    `yaml:"castShadow"`
}

// IntroConfig controls the fade-in when the window opens.
type IntroConfig struct {
	Seconds float64 `yaml:"seconds"`
}

// ScreenshotConfig controls where PNG captures are written.
type ScreenshotConfig struct {
	Dir string `yaml:"dir"`
}

// ModelSpec describes one model file to load into the scene.
type ModelSpec struct {
	Path          string     `yaml:"path"`
	Scale         [3]float64 `yaml:"scale"`
	Position      [3]float64 `yaml:"position"`
	Rotation      [3]float64 `yaml:"rotation"`
	CastShadow    bool       `yaml:"castShadow"`
	ReceiveShadow bool       `yaml:"receiveShadow"`
	// Brighten multiplies material colors (1 leaves them unchanged).
	Brighten float64 `yaml:"brighten"`
	// GroundY, when non-nil, overrides the model's Y after loading.
	GroundY *float64 `yaml:"groundY"`
}

// DefaultConfig returns the stock meadow scene.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:     "Meadow",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Seed:     1,
		SkyColor: 0x87ceeb,
		Camera: CameraConfig{
			FOV:      60,
			Near:     0.1,
			Far:      200,
			Position: [3]float64{0, 8, 20},
		},
		Lights: Lighting{
			Ambient: AmbientLight{Hex: 0xffffff, Intensity: 0.6},
			Directional: []DirectionalLight{
				{
					Hex:        0xffffff,
					Intensity:  0.8,
					Position:   [3]float64{5, 10, 2},
					CastShadow: true,
					Shadow: ShadowConfig{
						MapSize:  2048,
						Near:     0.5,
						Far:      100,
						Filter:   ShadowFilterPCFSoft,
						Strength: 0.45,
					},
				},
				{Hex: 0xffffff, Intensity: 0.4, Position: [3]float64{-5, 8, -5}},
			},
		},
		Ground: GroundConfig{
			Size:        400,
			Segments:    40,
			Color:       0x9acd32,
			PlazaRadius: 12,
			PlazaColor:  0xb8e6b8,
			PlazaHeight: 0.01,
		},
		Trees:   TreeEdges,
		Bushes:  BushEdges,
		Flowers: FlowerEdges,
		Clouds: CloudConfig{
			Bounds:      200,
			MinAltitude: 12,
			MaxAltitude: 30,
			FadeSeconds: 1.5,
		},
		Intro:       IntroConfig{Seconds: 1.2},
		Screenshots: ScreenshotConfig{Dir: "screenshots"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// maxGroundSegments bounds the lawn tessellation per side.
const maxGroundSegments = 1024

// Validate checks that the configuration describes a drawable scene that can
// be built in bounded time.
func (c *Config) Validate() error {
	if err := c.validateFinite(); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: camera fov %.1f not in (0, 180)", ErrInvalidConfig, c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera near %.3f / far %.3f", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	}
	if c.Clouds.Bounds <= 0 {
		return fmt.Errorf("%w: cloud bounds %.1f must be positive", ErrInvalidConfig, c.Clouds.Bounds)
	}
	if c.Clouds.MinAltitude >= c.Clouds.MaxAltitude {
		return fmt.Errorf("%w: cloud altitude range [%.1f, %.1f) is empty",
			ErrInvalidConfig, c.Clouds.MinAltitude, c.Clouds.MaxAltitude)
	}
	if c.Clouds.FadeSeconds < 0 || c.Intro.Seconds < 0 {
		return fmt.Errorf("%w: negative fade duration", ErrInvalidConfig)
	}
	for name, e := range map[string]EdgePlacement{"trees": c.Trees, "bushes": c.Bushes, "flowers": c.Flowers} {
		if e.Step < 0 {
			return fmt.Errorf("%w: %s step %.1f is negative", ErrInvalidConfig, name, e.Step)
		}
		if e.Step > 0 && e.EdgeDistance >= 0 && e.stepCount() == 0 {
			return fmt.Errorf("%w: %s edge distance %g with step %g exceeds %d points per edge",
				ErrInvalidConfig, name, e.EdgeDistance, e.Step, maxEdgeSteps)
		}
	}
	for i, d := range c.Lights.Directional {
		switch d.Shadow.Filter {
		case "", ShadowFilterBasic, ShadowFilterPCF, ShadowFilterPCFSoft:
		default:
			return fmt.Errorf("%w: light %d shadow filter %q", ErrInvalidConfig, i, d.Shadow.Filter)
		}
	}
	if c.Ground.Segments > maxGroundSegments {
		return fmt.Errorf("%w: ground segments %d exceed %d", ErrInvalidConfig, c.Ground.Segments, maxGroundSegments)
	}
	for i, m := range c.Models {
		if m.Path == "" {
			return fmt.Errorf("%w: model %d has no path", ErrInvalidConfig, i)
		}
	}
	return nil
}

// validateFinite rejects NaN and infinite values in every float field.
func (c *Config) validateFinite() error {
	check := func(what string, vals ...float64) error {
		if !isFinite(vals...) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, what)
		}
		return nil
	}
	cam := c.Camera
	fields := []struct {
		what string
		vals []float64
	}{
		{"camera", []float64{cam.FOV, cam.Near, cam.Far}},
		{"camera position", cam.Position[:]},
		{"camera target", cam.Target[:]},
		{"ambient light", []float64{c.Lights.Ambient.Intensity}},
		{"ground", []float64{c.Ground.Size, c.Ground.PlazaRadius, c.Ground.PlazaHeight}},
		{"trees", edgeFloats(c.Trees)},
		{"bushes", edgeFloats(c.Bushes)},
		{"flowers", edgeFloats(c.Flowers)},
		{"clouds", []float64{c.Clouds.Bounds, c.Clouds.MinAltitude, c.Clouds.MaxAltitude, c.Clouds.FadeSeconds}},
		{"intro", []float64{c.Intro.Seconds}},
	}
	for _, f := range fields {
		if err := check(f.what, f.vals...); err != nil {
			return err
		}
	}
	for i, d := range c.Lights.Directional {
		vals := append([]float64{d.Intensity, d.Shadow.Near, d.Shadow.Far, d.Shadow.Strength}, d.Position[:]...)
		if err := check(fmt.Sprintf("light %d", i), vals...); err != nil {
			return err
		}
	}
	for i, m := range c.Models {
		vals := []float64{m.Brighten}
		vals = append(vals, m.Scale[:]...)
		vals = append(vals, m.Position[:]...)
		vals = append(vals, m.Rotation[:]...)
		if m.GroundY != nil {
			vals = append(vals, *m.GroundY)
		}
		if err := check(fmt.Sprintf("model %d", i), vals...); err != nil {
			return err
		}
	}
	return nil
}

func edgeFloats(e EdgePlacement) []float64 {
	return []float64{e.EdgeDistance, e.CenterClearance, e.Step, e.CornerOffset}
}
