package models

import (
	"math"

	"github.com/taigrr/hollow/pkg/math3d"
)

// rayEpsilon rejects near-parallel rays and hits at the ray origin.
const rayEpsilon = 1e-6

// RayIntersect intersects the ray origin + t*dir with face i using the
// Möller–Trumbore algorithm. It returns the ray parameter t and true for a
// forward hit with t > 1e-6. dir is used as given, without normalization.
// It panics if i is out of range.
func (m *Mesh) RayIntersect(i int, origin, dir math3d.Vec3) (float64, bool) {
	f := m.Faces[i]
	v0, v1, v2 := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]

	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	h := dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < rayEpsilon {
		return 0, false
	}

	inv := 1 / det
	s := origin.Sub(v0)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := inv * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := inv * e2.Dot(q)
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}
