// Package kernel defines the solid modeling interface used to generate test
// and demo geometry, and the fixture solids built on top of it.
package kernel

import "github.com/taigrr/hollow/pkg/models"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds solids and tessellates them into triangles.
type Kernel interface {
	// Primitives. Box has its minimum corner at the origin, Sphere and
	// Cylinder are centered on it. Cylinder runs along Z.
	Box(x, y, z float64) Solid
	Sphere(radius float64) Solid
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToTriangles tessellates s with cells cells along its longest side.
	// Triangles are wound with outward normals.
	ToTriangles(s Solid, cells int) ([]models.Triangle, error)
}
