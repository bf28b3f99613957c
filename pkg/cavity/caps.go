// Package cavity derives the closed surface of an internal void from the
// indexed surface of the solid around it.
package cavity

import (
	"slices"

	"github.com/samber/lo"
	"github.com/taigrr/hollow/pkg/math3d"
	"github.com/taigrr/hollow/pkg/models"
)

// minCapNormal is the shortest cross product a cap triangle may have.
const minCapNormal = 1e-10

// directedEdge is an edge in the winding direction of the face that owns it.
type directedEdge struct {
	from, to int
	face     int
}

type outEdge struct {
	to, face int
}

// Loop is a closed chain of boundary vertices. Face is the face whose
// normal orients the cap built over the loop.
type Loop struct {
	Vertices []int
	Face     int
}

// boundaryEdges returns the edges of the subset used by exactly one subset
// face, in canonical edge key order. Out-of-range indices are ignored.
func boundaryEdges(m *models.Mesh, subset []int) []directedEdge {
	table := make(map[models.EdgeKey][]directedEdge)
	for _, fi := range subset {
		if fi < 0 || fi >= len(m.Faces) {
			continue
		}
		v := m.Faces[fi].V
		for k := range 3 {
			a, b := v[k], v[(k+1)%3]
			key := models.MakeEdgeKey(a, b)
			table[key] = append(table[key], directedEdge{from: a, to: b, face: fi})
		}
	}

	keys := lo.Keys(table)
	slices.SortFunc(keys, models.EdgeKey.Compare)

	var out []directedEdge
	for _, k := range keys {
		if es := table[k]; len(es) == 1 {
			out = append(out, es[0])
		}
	}
	return out
}

// BoundaryLoops traces the boundary of the subset of faces into closed
// loops. A walk that comes back to a vertex already on its path, other than
// its start, splits off the sub-loop from that vertex and carries on. A walk
// that runs out of unused edges before returning to its start is closed as
// it stands.
func BoundaryLoops(m *models.Mesh, subset []int) []Loop {
	edges := boundaryEdges(m, subset)
	if len(edges) == 0 {
		return nil
	}

	next := make(map[int][]outEdge)
	for _, e := range edges {
		next[e.from] = append(next[e.from], outEdge{to: e.to, face: e.face})
	}

	used := make(map[[2]int]bool, len(edges))
	nextUnused := func(v int) (outEdge, bool) {
		for _, o := range next[v] {
			if !used[[2]int{v, o.to}] {
				return o, true
			}
		}
		return outEdge{}, false
	}

	var loops []Loop
	for _, seed := range edges {
		if used[[2]int{seed.from, seed.to}] {
			continue
		}
		used[[2]int{seed.from, seed.to}] = true

		start := seed.from
		path := []int{seed.from, seed.to}
		faces := []int{seed.face, seed.face}
		to := seed.to
		for to != start {
			o, ok := nextUnused(to)
			if !ok {
				break
			}
			used[[2]int{to, o.to}] = true
			if o.to == start {
				break
			}

			idx := lo.IndexOf(path, o.to)
			if idx < 0 {
				path = append(path, o.to)
				faces = append(faces, o.face)
				to = o.to
				continue
			}

			loops = append(loops, Loop{Vertices: slices.Clone(path[idx:]), Face: faces[idx]})
			path = path[:idx+1]
			faces = faces[:idx+1]
			to = path[idx]
		}
		loops = append(loops, Loop{Vertices: path, Face: faces[0]})
	}
	return loops
}

// AddCaps returns the subset's triangles followed by cap triangles closing
// every boundary loop of the subset. Caps are fans around the loop centroid,
// wound to agree with the normal of the loop's face.
func AddCaps(m *models.Mesh, subset []int) []models.Triangle {
	tris, _ := addCaps(m, subset)
	return tris
}

// addCaps is AddCaps that also reports how many leading triangles came from
// the subset itself.
func addCaps(m *models.Mesh, subset []int) ([]models.Triangle, int) {
	var out []models.Triangle
	for _, fi := range subset {
		if fi >= 0 && fi < len(m.Faces) {
			out = append(out, m.Triangle(fi))
		}
	}
	n := len(out)
	if len(m.Vertices) == 0 {
		return out, n
	}

	for _, l := range BoundaryLoops(m, subset) {
		out = append(out, capLoop(m, l)...)
	}
	return out, n
}

// capLoop fans a loop from its centroid. Loops shorter than three vertices
// and slivers with no usable normal produce nothing.
func capLoop(m *models.Mesh, l Loop) []models.Triangle {
	if len(l.Vertices) < 3 {
		return nil
	}

	pts := lo.Map(l.Vertices, func(v int, _ int) math3d.Vec3 { return m.Vertices[v] })
	c := math3d.Centroid(pts...)
	ref := m.Triangle(l.Face).Normal

	caps := make([]models.Triangle, 0, len(pts))
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		n := a.Sub(c).Cross(b.Sub(c))
		ln := n.Len()
		if ln <= minCapNormal {
			continue
		}
		n = n.Div(ln)

		t := models.Triangle{Normal: n, V: [3]math3d.Vec3{c, a, b}}
		if n.Dot(ref) < 0 {
			t.V[1], t.V[2] = b, a
			t.Normal = n.Negate()
		}
		caps = append(caps, t)
	}
	return caps
}
