package models

import (
	"fmt"
	"io"

	"github.com/taigrr/hollow/pkg/math3d"
)

// minNormalLen is the shortest cross product a cleaned face may have.
const minNormalLen = 1e-10

// CleanReport describes what CleanTriangles removed.
type CleanReport struct {
	Before              int
	After               int
	DuplicateTriangles  int
	DegenerateTriangles int
	VertexRefs          int // three per input triangle
	UniqueVertices      int
	NonManifoldEdges    int // reported, not repaired
}

// CleanTriangles merges exactly coincident vertices, drops faces that
// collapse onto fewer than three distinct vertices, drops repeated faces
// (same vertices, any winding, first one wins) and recomputes every normal
// from the vertex order. Faces whose normal cannot be computed are dropped
// as well. The input slice is not modified. Cleaning an already clean list
// returns an identical list.
func CleanTriangles(tris []Triangle) ([]Triangle, CleanReport) {
	r := CleanReport{Before: len(tris), VertexRefs: len(tris) * 3}
	if len(tris) == 0 {
		return nil, r
	}

	var verts []math3d.Vec3
	ix := newVertexIndex(&verts)

	faces := make([]Face, 0, len(tris))
	for _, t := range tris {
		i, j, k := ix.id(t.V[0]), ix.id(t.V[1]), ix.id(t.V[2])
		if i == j || j == k || k == i {
			r.DegenerateTriangles++
			continue
		}
		faces = append(faces, Face{V: [3]int{i, j, k}})
	}
	r.UniqueVertices = len(verts)

	seen := make(map[[3]int]struct{}, len(faces))
	unique := faces[:0]
	for _, f := range faces {
		key := faceKey(f.V)
		if _, dup := seen[key]; dup {
			r.DuplicateTriangles++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, f)
	}

	for _, n := range countEdges(unique) {
		if n > 2 {
			r.NonManifoldEdges++
		}
	}

	out := make([]Triangle, 0, len(unique))
	for _, f := range unique {
		t := Triangle{V: [3]math3d.Vec3{verts[f.V[0]], verts[f.V[1]], verts[f.V[2]]}}
		n := t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0]))
		l := n.Len()
		if l <= minNormalLen {
			continue
		}
		t.Normal = n.Div(l)
		out = append(out, t)
	}
	r.After = len(out)

	return out, r
}

// Print writes the report in the format of the pipeline's clean step.
func (r CleanReport) Print(w io.Writer) {
	if r.Before == 0 {
		fmt.Fprintln(w, "No triangles.")
		return
	}
	fmt.Fprintln(w, "Clean triangles report:")
	fmt.Fprintf(w, "  Duplicate triangles removed: %d\n", r.DuplicateTriangles)
	fmt.Fprintf(w, "  Vertices: %d refs -> %d unique (merged %d duplicate positions)\n",
		r.VertexRefs, r.UniqueVertices, r.VertexRefs-r.UniqueVertices)
	fmt.Fprintf(w, "  Degenerate triangles removed: %d\n", r.DegenerateTriangles)
	if r.NonManifoldEdges > 0 {
		fmt.Fprintf(w, "  Non-manifold edges (shared by >2 triangles): %d\n", r.NonManifoldEdges)
	}
	fmt.Fprintf(w, "  Triangles before: %d  after: %d\n", r.Before, r.After)
}
