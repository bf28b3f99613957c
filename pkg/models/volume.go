package models

import "math"

// SignedVolume sums the signed volumes of the tetrahedra formed by each face
// and the origin. It is positive for a closed mesh with outward-facing
// winding and only meaningful for a closed, consistently oriented mesh.
func (m *Mesh) SignedVolume() float64 {
	var sum float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
		sum += a.Dot(b.Cross(c)) / 6.0
	}
	return sum
}

// Volume returns the absolute enclosed volume. It does not check that the
// mesh is closed or consistently oriented; see CheckWatertight and
// CheckWinding.
func (m *Mesh) Volume() float64 {
	return math.Abs(m.SignedVolume())
}

// VolumeFromFile loads and indexes the STL file at path and returns its
// volume.
func VolumeFromFile(path string) (float64, error) {
	m := NewMesh("")
	if err := m.Load(path); err != nil {
		return 0, err
	}
	return m.Volume(), nil
}
