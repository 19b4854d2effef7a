package meadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a fixed perspective camera. It looks at Target unless Rotation
// is set, in which case it is oriented by those Euler angles (XYZ order).
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	Rotation *mgl64.Vec3

	FOV    float64 // vertical field of view in degrees
	Aspect float64
	Near   float64
	Far    float64
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera(fov, aspect, near, far float64) *Camera {
	return &Camera{
		Target: mgl64.Vec3{0, 0, -1},
		Up:     mgl64.Vec3{0, 1, 0},
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// LookAt aims the camera at target and clears any explicit rotation.
func (c *Camera) LookAt(target mgl64.Vec3) {
	c.Target = target
	c.Rotation = nil
}

// SetAspect updates the aspect ratio; the camera position stays fixed.
// Non-positive values are ignored.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	if c.Rotation != nil {
		r := *c.Rotation
		world := mgl64.Translate3D(c.Position[0], c.Position[1], c.Position[2]).
			Mul4(mgl64.HomogRotate3DX(r[0])).
			Mul4(mgl64.HomogRotate3DY(r[1])).
			Mul4(mgl64.HomogRotate3DZ(r[2]))
		return world.Inv()
	}
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Project maps a world-space point to screen pixels for a width×height
// viewport with Y growing downward. ok is false when the point is behind
// the camera.
func (c *Camera) Project(p mgl64.Vec3, width, height float64) (x, y float64, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	return (ndcX + 1) * 0.5 * width, (1 - ndcY) * 0.5 * height, true
}

// OptimalPosition returns a position that frames the whole of info: the
// bounding sphere fits the vertical field of view, pulled back a further
// 20% and raised by 30% of that distance.
func (c *Camera) OptimalPosition(info SceneInfo) mgl64.Vec3 {
	distance := info.Radius / math.Sin(mgl64.DegToRad(c.FOV)*0.5)
	pos := info.Center
	pos[2] += distance * 1.2
	pos[1] += distance * 0.3
	return pos
}

// ApplyModelCamera re-aims the camera from a camera embedded in a model.
// Lens values are copied when present. The position comes from the model
// camera, or, failing that, from OptimalPosition(bounds) when bounds is
// non-nil; otherwise the current position is kept. Without an embedded
// rotation the camera looks at the world origin.
func (c *Camera) ApplyModelCamera(info ModelCameraInfo, bounds *SceneInfo) {
	if info.FOV != nil {
		c.FOV = *info.FOV
	}
	if info.Near != nil {
		c.Near = *info.Near
	}
	if info.Far != nil {
		c.Far = *info.Far
	}
	if info.Aspect != nil {
		c.Aspect = *info.Aspect
	}

	switch {
	case info.Position != nil:
		c.Position = *info.Position
	case bounds != nil:
		c.Position = c.OptimalPosition(*bounds)
	}

	if info.Rotation != nil {
		r := *info.Rotation
		c.Rotation = &r
	} else {
		c.LookAt(mgl64.Vec3{})
	}

	Logger().Info("camera updated from model",
		"position", c.Position, "fov", c.FOV, "near", c.Near, "far", c.Far, "aspect", c.Aspect)
}
