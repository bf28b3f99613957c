package render

import (
	"math"

	"github.com/taigrr/hollow/pkg/math3d"
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	viewProjMatrix math3d.Mat4
	dirty          bool
}

// NewCamera creates a new camera with default settings. STL models are
// usually Z-up, so that is the default up vector.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, -10, 0),
		Up:          math3d.V3(0, 0, 1),
		FOV:         math.Pi / 4, // 45 degrees
		AspectRatio: 4.0 / 3.0,
		Near:        0.1,
		Far:         1000,
		dirty:       true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.dirty = true
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.dirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.dirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.dirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	up := c.Up
	if c.Target.Sub(c.Position).Normalize().Cross(up).LenSq() < 1e-12 {
		// Looking along the up vector; any perpendicular will do.
		up = math3d.V3(0, 1, 0)
	}
	return math3d.LookAt(c.Position, c.Target, up)
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.dirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.dirty = false
	}
	return c.viewProjMatrix
}

// Frustum returns the current view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// Fit points the camera at the center of box from direction dir and backs
// it off until the whole box is inside the view frustum.
func (c *Camera) Fit(box AABB, dir math3d.Vec3) {
	center := box.Center()
	radius := box.Size().Len() / 2
	if radius == 0 {
		radius = 1
	}

	// The bounding sphere fits inside the narrower of the two view angles.
	hfov := 2 * math.Atan(math.Tan(c.FOV/2)*c.AspectRatio)
	dist := radius / math.Sin(math.Min(c.FOV, hfov)/2)

	dir = dir.Normalize()
	if dir.LenSq() == 0 {
		dir = math3d.V3(0, -1, 0)
	}

	c.Target = center
	for range 32 {
		c.Position = center.Add(dir.Scale(dist))
		c.Near = math.Max((dist-radius)/2, dist*1e-4)
		c.Far = dist + 2*radius
		c.dirty = true
		if c.Frustum().ContainsAABB(box) {
			return
		}
		dist *= 1.1
	}
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	// Transform to clip space
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Check if behind camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	// Perspective divide to NDC (-1 to 1)
	ndc := clipPos.PerspectiveDivide()

	// Check if in view frustum
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	// Convert to screen coordinates
	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	depth = ndc.Z

	return x, y, depth, true
}
