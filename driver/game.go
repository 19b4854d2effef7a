// Package driver runs a meadow world in an Ebitengine window: it animates the
// world once per tick, rasterizes it and submits the triangles, and handles
// the intro fade, the FPS overlay, screenshots, capture scripts and config
// hot reload.
package driver

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/meadow"
)

// Options configure a Game beyond what the scene config holds.
type Options struct {
	// Clock returns the current time. Elapsed time fed to the animator is
	// Clock() in Unix seconds. Defaults to time.Now.
	Clock func() time.Time

	// Loader loads the configured models. Defaults to meadow.GLTFLoader.
	Loader meadow.ModelLoader

	// Rand drives cloud re-placement. Defaults to a PCG source derived from
	// the config seed.
	Rand meadow.RandSource

	// Store, when set, receives cloud and model events from every world the
	// game builds.
	Store meadow.EntityStore

	// Script, when set, is stepped once per tick to take scripted
	// screenshots. A "quit" step ends the game.
	Script *Script

	// Override, when set, is applied to the initial config and to every
	// reloaded one, so command-line settings survive a hot reload.
	Override func(*meadow.Config)

	// ConfigPath, when set, is watched and the world is rebuilt whenever the
	// file changes.
	ConfigPath string
}

// Game implements ebiten.Game for a meadow world.
type Game struct {
	ctx    context.Context
	opts   Options
	cfg    meadow.Config
	world  *meadow.World
	anim   *meadow.Animator
	raster *meadow.Rasterizer
	shots  *screenshotter

	width, height int

	overlay meadow.Color
	intro   *meadow.TweenGroup

	reload <-chan meadow.Config

	verts []ebiten.Vertex
	white *ebiten.Image // created on the first Draw

	frameStats meadow.FrameStats
}

// NewGame builds the world described by cfg and loads its models. Model
// failures are logged and skipped.
func NewGame(ctx context.Context, cfg meadow.Config, opts Options) *Game {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Loader == nil {
		opts.Loader = meadow.GLTFLoader{}
	}
	g := &Game{
		ctx:    ctx,
		opts:   opts,
		raster: meadow.NewRasterizer(),
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}
	g.rebuild(cfg)
	return g
}

// rebuild replaces the world with one assembled from cfg and restarts the
// intro fade.
func (g *Game) rebuild(cfg meadow.Config) {
	if g.opts.Override != nil {
		g.opts.Override(&cfg)
	}
	g.cfg = cfg
	g.world = meadow.Assemble(cfg, meadow.AssembleOptions{
		Aspect: float64(g.width) / float64(max(g.height, 1)),
	})
	if g.opts.Store != nil {
		g.world.Scene.SetEntityStore(g.opts.Store)
	}
	g.world.LoadModels(g.ctx, g.opts.Loader, cfg.Models)

	rng := g.opts.Rand
	if rng == nil {
		rng = meadow.NewRandSource(cfg.Seed, 1<<32)
	}
	g.anim = meadow.NewAnimator(rng, cfg.Clouds)
	g.shots = &screenshotter{dir: cfg.Screenshots.Dir}

	g.intro = nil
	g.overlay = meadow.Color{}
	if cfg.Intro.Seconds > 0 {
		g.overlay = meadow.ColorWhite
		g.intro = meadow.TweenColor(&g.overlay, meadow.Color{R: 1, G: 1, B: 1}, float32(cfg.Intro.Seconds), ease.OutCubic)
	}
}

// World returns the world currently being animated.
func (g *Game) World() *meadow.World { return g.world }

// Elapsed returns the animation clock in seconds.
func (g *Game) Elapsed() float64 {
	return float64(g.opts.Clock().UnixMilli()) * 0.001
}

// Screenshot queues a PNG capture of the next drawn frame.
func (g *Game) Screenshot(label string) {
	g.shots.queue(label)
}

// Update advances the world by one tick. It returns ebiten.Termination once
// the game's context is done.
func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		meadow.Logger().Info("context done, stopping render loop")
		return ebiten.Termination
	}

	select {
	case cfg, ok := <-g.reload:
		if ok {
			meadow.Logger().Info("config changed, rebuilding scene")
			g.rebuild(cfg)
		} else {
			g.reload = nil
		}
	default:
	}

	if g.intro != nil {
		g.intro.Update(1 / float32(ebiten.TPS()))
		if g.intro.Done {
			g.intro = nil
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.Screenshot("meadow")
	}
	if sc := g.opts.Script; sc != nil {
		sc.step(g)
		if sc.Quit() {
			meadow.Logger().Info("capture script finished")
			return ebiten.Termination
		}
	}

	start := time.Now()
	g.frameStats.AnimatedObjs = g.anim.Update(g.world, g.Elapsed())
	g.frameStats.AnimateTime = time.Since(start)
	return nil
}

// Draw rasterizes the world and submits it to screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.white == nil {
		g.white = whiteSubImage()
	}
	frame := g.raster.Rasterize(g.world.Scene, g.world.Camera, &g.world.Lighting, g.width, g.height)

	screen.Fill(frame.Clear.RGBA())

	submitStart := time.Now()
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	for _, b := range frame.Batches {
		g.verts = toEbitenVertices(g.verts[:0], b.Vertices)
		screen.DrawTriangles(g.verts, b.Indices, g.white, &op)
	}
	g.drawOverlay(screen)

	stats := frame.Stats
	stats.AnimateTime = g.frameStats.AnimateTime
	stats.AnimatedObjs = g.frameStats.AnimatedObjs
	stats.SubmitTime = time.Since(submitStart)
	g.world.Scene.LogFrame(stats)

	if g.cfg.Window.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nTris: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), stats.Triangles))
	}

	g.shots.flush(screen)
}

// Layout reports the window size as the logical screen size and updates the
// camera aspect to match.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		g.world.Resize(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}

// drawOverlay paints the intro fade over the whole screen.
func (g *Game) drawOverlay(screen *ebiten.Image) {
	c := g.overlay
	if c.A <= 0 {
		return
	}
	w, h := float32(g.width), float32(g.height)
	r, gr, b, a := float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A)
	vs := []ebiten.Vertex{
		{DstX: 0, DstY: 0, SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: b, ColorA: a},
		{DstX: w, DstY: 0, SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: b, ColorA: a},
		{DstX: 0, DstY: h, SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: b, ColorA: a},
		{DstX: w, DstY: h, SrcX: 1, SrcY: 1, ColorR: r, ColorG: gr, ColorB: b, ColorA: a},
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	screen.DrawTriangles(vs, []uint16{0, 1, 2, 1, 3, 2}, g.white, &op)
}

// toEbitenVertices appends src to dst as solid-color ebiten vertices sampling
// the center of the white sub-image.
func toEbitenVertices(dst []ebiten.Vertex, src []meadow.ScreenVertex) []ebiten.Vertex {
	for _, v := range src {
		dst = append(dst, ebiten.Vertex{
			DstX: v.X, DstY: v.Y,
			SrcX: 1, SrcY: 1,
			ColorR: v.R, ColorG: v.G, ColorB: v.B, ColorA: v.A,
		})
	}
	return dst
}

// whiteSubImage returns the 1x1 center of a 3x3 white image, so sampling
// never bleeds past the edge.
func whiteSubImage() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(meadow.ColorWhite.RGBA())
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// Run opens a window for cfg and runs the render loop until the window is
// closed or ctx is done.
func Run(ctx context.Context, cfg meadow.Config, opts Options) error {
	g := NewGame(ctx, cfg, opts)

	if opts.ConfigPath != "" {
		reload, err := WatchConfig(ctx, opts.ConfigPath)
		if err != nil {
			meadow.Logger().Warn("config hot reload disabled", "path", opts.ConfigPath, "err", err)
		} else {
			g.reload = reload
		}
	}

	cfg = g.cfg
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	meadow.Logger().Info("starting render loop",
		"title", cfg.Window.Title, "width", cfg.Window.Width, "height", cfg.Window.Height)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
