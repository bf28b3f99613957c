package render

import (
	"slices"

	"github.com/samber/lo"
	"github.com/taigrr/hollow/pkg/math3d"
	"github.com/taigrr/hollow/pkg/models"
)

// Wireframe renders 3D wireframe objects.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a line in 3D space. Lines with an endpoint outside the
// view are skipped; there is no clipping.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, _, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)
	if !vis1 || !vis2 {
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// SnapshotOptions controls the wireframe preview of a mesh.
type SnapshotOptions struct {
	Width  int
	Height int

	Background  Color
	Edge        Color // edges shared by exactly two faces
	Boundary    Color // edges used by one face
	NonManifold Color // edges used by more than two faces

	// Direction points from the mesh center toward the camera.
	Direction math3d.Vec3
}

// DefaultSnapshotOptions returns an 800x600 preview seen from the front
// right, above the model.
func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{
		Width:       800,
		Height:      600,
		Background:  ColorSlate,
		Edge:        ColorGray,
		Boundary:    ColorRed,
		NonManifold: ColorMagenta,
		Direction:   math3d.V3(1, -1.5, 1),
	}
}

// DrawMesh draws every edge of an indexed mesh once, colored by how many
// faces use it. Problem edges are drawn last so they stay visible where
// lines overlap.
func (w *Wireframe) DrawMesh(m *models.Mesh, opts SnapshotOptions) {
	counts := m.EdgeCounts()
	keys := lo.Keys(counts)
	slices.SortFunc(keys, models.EdgeKey.Compare)

	pass := func(match func(n int) bool, c Color) {
		for _, k := range keys {
			if match(counts[k]) {
				w.DrawLine3D(m.Vertices[k.A], m.Vertices[k.B], c)
			}
		}
	}
	pass(func(n int) bool { return n == 2 }, opts.Edge)
	pass(func(n int) bool { return n == 1 }, opts.Boundary)
	pass(func(n int) bool { return n > 2 }, opts.NonManifold)
}

// Snapshot renders an indexed mesh into a new framebuffer with a camera
// fitted to its bounding box. An empty mesh gives a blank image.
func Snapshot(m *models.Mesh, opts SnapshotOptions) *Framebuffer {
	fb := NewFramebuffer(opts.Width, opts.Height)
	fb.Clear(opts.Background)
	if len(m.Faces) == 0 || opts.Width <= 0 || opts.Height <= 0 {
		return fb
	}

	cam := NewCamera()
	cam.SetAspectRatio(float64(opts.Width) / float64(opts.Height))
	cam.Fit(NewAABB(m.BoundsMin, m.BoundsMax), opts.Direction)

	NewWireframe(cam, fb).DrawMesh(m, opts)
	return fb
}

// SnapshotTriangles indexes tris and renders them like Snapshot.
func SnapshotTriangles(tris []models.Triangle, opts SnapshotOptions) *Framebuffer {
	m := models.FromTriangles("", tris)
	m.Index()
	return Snapshot(m, opts)
}
