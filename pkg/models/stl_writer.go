package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/taigrr/hollow/pkg/math3d"
)

// Solid names used by the writers.
const (
	DefaultSolidName = "triangles"
	SubsetSolidName  = "even_hits"
	FluidSolidName   = "fluid"
)

// EncodeSTL writes tris to w in ASCII STL format. Normals and vertices are
// written exactly as stored, in shortest round-trip form.
func EncodeSTL(w io.Writer, name string, tris []Triangle) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range tris {
		writeFacet(bw, t)
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

func writeFacet(w *bufio.Writer, t Triangle) {
	w.WriteString("  facet normal ")
	writeTriple(w, t.Normal)
	w.WriteString("    outer loop\n")
	for _, v := range t.V {
		w.WriteString("      vertex ")
		writeTriple(w, v)
	}
	w.WriteString("    endloop\n  endfacet\n")
}

func writeTriple(w *bufio.Writer, v math3d.Vec3) {
	var buf [80]byte
	b := strconv.AppendFloat(buf[:0], v.X, 'g', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, v.Y, 'g', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, v.Z, 'g', -1, 64)
	b = append(b, '\n')
	w.Write(b)
}

// WriteSTL writes tris to path as an ASCII STL solid called "fluid".
// Nothing is rolled back if writing fails part way.
func WriteSTL(path string, tris []Triangle) error {
	return writeSTLFile(path, FluidSolidName, tris)
}

// WriteSTL writes every face of the indexed mesh, with geometric normals,
// under the mesh's name (or "triangles" when it has none).
func (m *Mesh) WriteSTL(path string) error {
	name := m.Name
	if name == "" {
		name = DefaultSolidName
	}
	return writeSTLFile(path, name, m.Triangles())
}

// WriteSubsetSTL writes only the faces listed in indices, under the name
// "even_hits". Out-of-range indices are skipped.
func (m *Mesh) WriteSubsetSTL(path string, indices []int) error {
	tris := make([]Triangle, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(m.Faces) {
			tris = append(tris, m.Triangle(i))
		}
	}
	return writeSTLFile(path, SubsetSolidName, tris)
}

func writeSTLFile(path, name string, tris []Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create stl: %w", err)
	}
	if err := EncodeSTL(f, name, tris); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
