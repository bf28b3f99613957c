package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/hollow/pkg/math3d"
)

const simpleSTL = `solid simple
  facet normal 0.577 0.577 0.577
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid simple
`

// writeFile writes data to name inside a fresh temp dir and returns the path.
func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// boxTriangles returns the 12 triangles of an axis-aligned box. Normals
// point away from the box unless inward is set. Every side is split along
// the diagonal from its low corner to its high corner.
func boxTriangles(lower, upper math3d.Vec3, inward bool) []Triangle {
	coord := func(v math3d.Vec3, axis int) float64 {
		return [3]float64{v.X, v.Y, v.Z}[axis]
	}
	point := func(axis int, w, u, v float64) math3d.Vec3 {
		var c [3]float64
		c[axis] = w
		c[(axis+1)%3] = u
		c[(axis+2)%3] = v
		return math3d.V3(c[0], c[1], c[2])
	}

	var tris []Triangle
	for axis := range 3 {
		u0, u1 := coord(lower, (axis+1)%3), coord(upper, (axis+1)%3)
		v0, v1 := coord(lower, (axis+2)%3), coord(upper, (axis+2)%3)
		for _, side := range []float64{-1, 1} {
			w := coord(lower, axis)
			if side > 0 {
				w = coord(upper, axis)
			}
			if inward {
				side = -side
			}
			want := point(axis, side, 0, 0)

			p00 := point(axis, w, u0, v0)
			p10 := point(axis, w, u1, v0)
			p11 := point(axis, w, u1, v1)
			p01 := point(axis, w, u0, v1)
			for _, t := range []Triangle{
				{V: [3]math3d.Vec3{p00, p10, p11}},
				{V: [3]math3d.Vec3{p00, p11, p01}},
			} {
				if t.GeometricNormal().Dot(want) < 0 {
					t.V[1], t.V[2] = t.V[2], t.V[1]
				}
				t.Normal = want
				tris = append(tris, t)
			}
		}
	}
	return tris
}

// hollowCube is a 4x4x4 cube with a 2x2x2 cavity in the middle. The cavity
// walls face into the cavity.
func hollowCube() []Triangle {
	outer := boxTriangles(math3d.V3(0, 0, 0), math3d.V3(4, 4, 4), false)
	inner := boxTriangles(math3d.V3(1, 1, 1), math3d.V3(3, 3, 3), true)
	return append(outer, inner...)
}

func indexed(name string, tris []Triangle) *Mesh {
	m := FromTriangles(name, tris)
	m.Index()
	return m
}
