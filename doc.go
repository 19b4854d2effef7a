// Package meadow builds and animates a small procedural 3D meadow: a lawn
// with a central plaza, rings of trees, bushes and flowers, and a sky of
// drifting clouds, drawn by a painter's-algorithm rasterizer on [Ebitengine].
//
// The package itself has no Ebitengine dependency. It owns the scene graph,
// the procedural builders, the animator and the rasterizer, and produces
// screen-space triangle batches. The driver subpackage turns those batches
// into an ebiten.Game.
//
// # Quick start
//
// The simplest way to get started is driver.Run, which creates a window and
// game loop for you:
//
//	cfg, err := meadow.LoadConfig("scene.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	driver.Run(ctx, cfg, driver.Options{ConfigPath: "scene.yaml"})
//
// For full control, assemble a [World], step an [Animator] and rasterize
// each frame yourself:
//
//	w := meadow.Assemble(cfg, meadow.AssembleOptions{})
//	anim := meadow.NewAnimator(meadow.NewRandSource(cfg.Seed, 1<<32), cfg.Clouds)
//	r := meadow.NewRasterizer()
//
//	anim.Update(w, elapsed)
//	frame := r.Rasterize(w.Scene, w.Camera, &w.Lighting, width, height)
//
// # Scene graph
//
// Every object is a [Node]. Group nodes only carry a transform; mesh nodes
// also carry a [Geometry] and a [Material]. Children inherit their parent's
// transform and opacity. The local transform is translation, then X, Y and Z
// rotation, then scale.
//
// # Animation
//
// Trees are posed from their rest transform on every call, so animating the
// same time twice gives the same pose. Clouds accumulate yaw and drift from
// frame to frame and are re-placed at random inside the sky bounds when they
// drift out. Use [FixedSource] to make re-placement reproducible in tests.
//
// # Models
//
// glTF and GLB files listed in the config are loaded concurrently through a
// [ModelLoader]. A model that fails to load is logged and skipped. The first
// model with an embedded camera re-aims the scene camera.
//
// [Ebitengine]: https://ebitengine.org
package meadow
