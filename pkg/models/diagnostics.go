package models

import (
	"cmp"
	"fmt"
	"io"
)

const (
	// degenerateArea bounds the doubled area of a degenerate face; it is
	// compared against the squared cross product length.
	degenerateArea = 1e-10

	// windingTolerance is the dead band around zero for normal agreement.
	windingTolerance = 1e-5
)

// EdgeKey identifies an undirected edge by its two vertex indices, smaller
// index first.
type EdgeKey struct {
	A, B int
}

// MakeEdgeKey returns the canonical key for the edge between a and b.
func MakeEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{a, b}
}

// Compare orders keys by A, then B.
func (k EdgeKey) Compare(o EdgeKey) int {
	if c := cmp.Compare(k.A, o.A); c != 0 {
		return c
	}
	return cmp.Compare(k.B, o.B)
}

// faceKey creates a canonical key for a face by sorting vertex indices.
// Two faces with the same vertices (in any order) will have the same key.
func faceKey(v [3]int) [3]int {
	v0, v1, v2 := v[0], v[1], v[2]
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	if v1 > v2 {
		v1, v2 = v2, v1
	}
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	return [3]int{v0, v1, v2}
}

// countEdges tallies how many faces use each undirected edge.
func countEdges(faces []Face) map[EdgeKey]int {
	counts := make(map[EdgeKey]int, len(faces)*3/2)
	for _, f := range faces {
		counts[MakeEdgeKey(f.V[0], f.V[1])]++
		counts[MakeEdgeKey(f.V[1], f.V[2])]++
		counts[MakeEdgeKey(f.V[2], f.V[0])]++
	}
	return counts
}

// EdgeCounts returns, for every undirected edge of the mesh, the number of
// faces using it. The counts always sum to three times the face count.
func (m *Mesh) EdgeCounts() map[EdgeKey]int {
	return countEdges(m.Faces)
}

// WatertightReport summarizes the closedness check of a mesh.
type WatertightReport struct {
	Triangles           int
	Vertices            int
	UniqueEdges         int
	BoundaryEdges       int // used by exactly one face
	NonManifoldEdges    int // used by more than two faces
	DuplicateTriangles  int // same three vertices as an earlier face, any winding
	DegenerateTriangles int
	Watertight          bool
}

// CheckWatertight reports whether the mesh is closed and 2-manifold: no
// duplicate faces, no boundary or non-manifold edges and no degenerate
// faces. An empty mesh is not watertight.
func (m *Mesh) CheckWatertight() WatertightReport {
	r := WatertightReport{
		Triangles: len(m.Faces),
		Vertices:  len(m.Vertices),
	}
	if len(m.Faces) == 0 {
		return r
	}

	seen := make(map[[3]int]struct{}, len(m.Faces))
	for _, f := range m.Faces {
		key := faceKey(f.V)
		if _, dup := seen[key]; dup {
			r.DuplicateTriangles++
			continue
		}
		seen[key] = struct{}{}
	}

	edges := countEdges(m.Faces)
	r.UniqueEdges = len(edges)
	for _, n := range edges {
		switch {
		case n == 1:
			r.BoundaryEdges++
		case n > 2:
			r.NonManifoldEdges++
		}
	}

	for _, f := range m.Faces {
		a, b, c := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
		if b.Sub(a).Cross(c.Sub(a)).LenSq() <= degenerateArea*degenerateArea {
			r.DegenerateTriangles++
		}
	}

	r.Watertight = r.DuplicateTriangles == 0 && r.BoundaryEdges == 0 &&
		r.NonManifoldEdges == 0 && r.DegenerateTriangles == 0
	return r
}

// Print writes the report in the line format of the validate command.
func (r WatertightReport) Print(w io.Writer) {
	if r.Triangles == 0 {
		fmt.Fprintln(w, "Watertight: no triangles")
		return
	}
	if r.DuplicateTriangles > 0 {
		fmt.Fprintf(w, "Duplicate triangles: %d\n", r.DuplicateTriangles)
	}
	fmt.Fprintf(w, "Edges: %d unique; %d boundary (count=1), %d non-manifold (count>2)\n",
		r.UniqueEdges, r.BoundaryEdges, r.NonManifoldEdges)
	if r.DegenerateTriangles > 0 {
		fmt.Fprintf(w, "Degenerate triangles (zero area): %d\n", r.DegenerateTriangles)
	}
	fmt.Fprintf(w, "Vertices: %d unique (from %d triangles)\n", r.Vertices, r.Triangles)
	if r.Watertight {
		fmt.Fprintln(w, "Watertight: yes")
	} else {
		fmt.Fprintln(w, "Watertight: no")
	}
}

// InvertedFace is a face whose vertex order disagrees with its declared
// normal.
type InvertedFace struct {
	Index int
	Dot   float64
}

// WindingReport summarizes the right-hand-rule check.
type WindingReport struct {
	// Checked is false when the declared normals no longer line up with
	// the faces and nothing was compared.
	Checked    bool
	Consistent int
	Inverted   []InvertedFace
}

// CheckWinding compares each face's geometric normal with the normal
// declared in the source file. Faces within the tolerance band around a
// zero dot product, and degenerate faces, are counted as neither.
func (m *Mesh) CheckWinding() WindingReport {
	var r WindingReport
	if len(m.DeclaredNormals) != len(m.Faces) {
		return r
	}
	r.Checked = true

	for i := range m.Faces {
		n := m.Triangle(i).Normal
		if n.LenSq() == 0 {
			continue
		}
		dot := n.Dot(m.DeclaredNormals[i])
		switch {
		case dot > windingTolerance:
			r.Consistent++
		case dot < -windingTolerance:
			r.Inverted = append(r.Inverted, InvertedFace{Index: i, Dot: dot})
		}
	}
	return r
}

// Print writes one line per inverted face followed by the summary line.
// It writes nothing for an unchecked report.
func (r WindingReport) Print(w io.Writer) {
	if !r.Checked {
		return
	}
	for _, f := range r.Inverted {
		fmt.Fprintf(w, "  triangle %d opposite winding (dot=%g)\n", f.Index, f.Dot)
	}
	fmt.Fprintf(w, "Right-hand rule: %d OK, %d opposite winding\n", r.Consistent, len(r.Inverted))
}
