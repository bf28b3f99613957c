// Package models provides triangle mesh loading, indexing, diagnostics and
// serialization for hollow.
package models

import (
	"github.com/taigrr/hollow/pkg/math3d"
)

// Triangle is a free-standing triangle: a declared normal plus three
// independent vertex positions. Parsers produce triangles, the indexer
// consumes them, and the cleaner, cap builder and writers exchange them.
type Triangle struct {
	Normal math3d.Vec3
	V      [3]math3d.Vec3
}

// GeometricNormal returns the unit normal implied by the vertex order
// (right-hand rule), or the zero vector for a degenerate triangle.
func (t Triangle) GeometricNormal() math3d.Vec3 {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0])).Normalize()
}

// Centroid returns the mean of the three vertices.
func (t Triangle) Centroid() math3d.Vec3 {
	return math3d.Centroid(t.V[0], t.V[1], t.V[2])
}

// Face is a triangle of an indexed mesh.
type Face struct {
	V [3]int // Indices into Mesh.Vertices
}

// Mesh is a shared-vertex triangle mesh.
//
// A mesh is filled in two steps: Read parses a file into an unindexed
// triangle list, and Index converts that list into Vertices and Faces.
// Load does both. Every Read starts from an empty mesh, so a failed load
// never leaves stale geometry behind.
//
// A Mesh is not safe for concurrent use.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face

	// DeclaredNormals holds, per face, the normal stored in the source
	// file. It is only meaningful while it stays aligned with Faces.
	DeclaredNormals []math3d.Vec3

	// Bounding box (calculated by CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3

	soup []Triangle
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// FromTriangles creates an unindexed mesh holding a copy of tris.
// Call Index before querying geometry.
func FromTriangles(name string, tris []Triangle) *Mesh {
	m := NewMesh(name)
	m.soup = make([]Triangle, len(tris))
	copy(m.soup, tris)
	return m
}

// Reset discards all geometry, indexed or not.
func (m *Mesh) Reset() {
	m.Name = ""
	m.Vertices = nil
	m.Faces = nil
	m.DeclaredNormals = nil
	m.BoundsMin = math3d.Zero3()
	m.BoundsMax = math3d.Zero3()
	m.soup = nil
}

// Load reads an STL file and indexes it.
func (m *Mesh) Load(path string) error {
	if err := m.Read(path); err != nil {
		return err
	}
	m.Index()
	return nil
}

// Pending returns the number of parsed triangles waiting to be indexed.
func (m *Mesh) Pending() int {
	return len(m.soup)
}

// Index converts the parsed triangle list into the shared-vertex
// representation. Vertices are merged only when their coordinates are
// exactly equal and are numbered in first-seen order; face order follows
// the source. The triangle list is released afterwards, so a second call
// is a no-op.
func (m *Mesh) Index() {
	if m.soup == nil {
		return
	}

	m.DeclaredNormals = make([]math3d.Vec3, len(m.soup))
	for i, t := range m.soup {
		m.DeclaredNormals[i] = t.Normal
	}

	m.Vertices = nil
	m.Faces = make([]Face, 0, len(m.soup))
	ix := newVertexIndex(&m.Vertices)
	for _, t := range m.soup {
		m.Faces = append(m.Faces, Face{V: [3]int{ix.id(t.V[0]), ix.id(t.V[1]), ix.id(t.V[2])}})
	}

	m.soup = nil
	m.CalculateBounds()
}

// vertexIndex assigns dense indices to exact positions in first-seen order.
// Map keys compare all three components with ==, which is the equality of
// math3d.Vec3.Compare.
type vertexIndex struct {
	ids   map[math3d.Vec3]int
	verts *[]math3d.Vec3
}

func newVertexIndex(verts *[]math3d.Vec3) *vertexIndex {
	return &vertexIndex{ids: make(map[math3d.Vec3]int), verts: verts}
}

func (x *vertexIndex) id(v math3d.Vec3) int {
	if i, ok := x.ids[v]; ok {
		return i
	}
	i := len(*x.verts)
	x.ids[v] = i
	*x.verts = append(*x.verts, v)
	return i
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of unique vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle materializes face i with its geometric unit normal (zero for a
// degenerate face). It panics if i is out of range.
func (m *Mesh) Triangle(i int) Triangle {
	f := m.Faces[i]
	t := Triangle{V: [3]math3d.Vec3{m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]}}
	t.Normal = t.GeometricNormal()
	return t
}

// Triangles materializes every face.
func (m *Mesh) Triangles() []Triangle {
	out := make([]Triangle, len(m.Faces))
	for i := range m.Faces {
		out[i] = m.Triangle(i)
	}
	return out
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}
