package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/hollow/pkg/math3d"
)

// encodeBinary builds a binary STL. count overrides the declared triangle
// count when non-negative.
func encodeBinary(header string, tris []Triangle, count int) []byte {
	var buf bytes.Buffer
	var h [stlHeaderSize]byte
	copy(h[:], header)
	buf.Write(h[:])

	n := uint32(len(tris))
	if count >= 0 {
		n = uint32(count)
	}
	binary.Write(&buf, binary.LittleEndian, n)

	put := func(v math3d.Vec3) {
		for _, c := range []float64{v.X, v.Y, v.Z} {
			binary.Write(&buf, binary.LittleEndian, math.Float32bits(float32(c)))
		}
	}
	for _, t := range tris {
		put(t.Normal)
		for _, v := range t.V {
			put(v)
		}
		buf.Write([]byte{0, 0})
	}
	return buf.Bytes()
}

func TestLoadSTLCRLFBareHeader(t *testing.T) {
	data := strings.Replace(simpleSTL, "solid simple", "solid", 1)
	data = strings.ReplaceAll(data, "\n", "\r\n")
	path := writeFile(t, "crlf.stl", data)

	m := NewMesh("")
	if err := m.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "" {
		t.Errorf("Name = %q, want empty", m.Name)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("TriangleCount() = %d, want 1", m.TriangleCount())
	}

	out := filepath.Join(t.TempDir(), "out.stl")
	if err := m.WriteSTL(out); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(got), "solid triangles\n") {
		t.Errorf("output starts %q, want solid triangles", strings.SplitN(string(got), "\n", 2)[0])
	}
}

func TestLoadSTLASCII(t *testing.T) {
	path := writeFile(t, "simple.stl", simpleSTL)

	m, err := LoadSTL(path)
	if err != nil {
		t.Fatalf("LoadSTL: %v", err)
	}
	if m.Name != "simple" {
		t.Errorf("Name = %q, want %q", m.Name, "simple")
	}
	if m.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", m.Pending())
	}
	if m.TriangleCount() != 0 {
		t.Errorf("TriangleCount() before Index = %d, want 0", m.TriangleCount())
	}

	m.Index()
	if m.TriangleCount() != 1 || m.VertexCount() != 3 {
		t.Errorf("got %d triangles, %d vertices; want 1, 3", m.TriangleCount(), m.VertexCount())
	}
	if m.Pending() != 0 {
		t.Errorf("Pending() after Index = %d, want 0", m.Pending())
	}
	if want := math3d.V3(0.577, 0.577, 0.577); m.DeclaredNormals[0] != want {
		t.Errorf("declared normal = %v, want %v", m.DeclaredNormals[0], want)
	}
	if want := math3d.V3(1, 0, 0); m.Vertices[0] != want {
		t.Errorf("first vertex = %v, want %v", m.Vertices[0], want)
	}
}

func TestLoadSTLBinaryMatchesASCII(t *testing.T) {
	tris := []Triangle{
		{Normal: math3d.V3(0, 0, 1), V: [3]math3d.Vec3{{X: 0}, {X: 1}, {Y: 1}}},
		{Normal: math3d.V3(0, 0, 1), V: [3]math3d.Vec3{{X: 1}, {X: 1, Y: 1}, {Y: 1}}},
		{Normal: math3d.V3(0, 0, -1), V: [3]math3d.Vec3{{X: 0.5, Z: 0.25}, {Y: 0.5, Z: 0.25}, {X: 0.5, Y: 0.5, Z: 0.25}}},
	}

	var ascii bytes.Buffer
	if err := EncodeSTL(&ascii, "parity", tris); err != nil {
		t.Fatalf("EncodeSTL: %v", err)
	}

	a := NewMesh("")
	if err := a.Load(writeFile(t, "a.stl", ascii.String())); err != nil {
		t.Fatalf("load ascii: %v", err)
	}
	b := NewMesh("")
	if err := b.Load(writeFile(t, "b.stl", string(encodeBinary("binary parity", tris, -1)))); err != nil {
		t.Fatalf("load binary: %v", err)
	}

	if b.Name != "binary parity" {
		t.Errorf("binary Name = %q", b.Name)
	}
	if a.TriangleCount() != b.TriangleCount() || a.VertexCount() != b.VertexCount() {
		t.Fatalf("ascii %d/%d, binary %d/%d triangles/vertices",
			a.TriangleCount(), a.VertexCount(), b.TriangleCount(), b.VertexCount())
	}
	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			t.Errorf("vertex %d: ascii %v, binary %v", i, a.Vertices[i], b.Vertices[i])
		}
	}
	for i := range a.Faces {
		if a.Faces[i] != b.Faces[i] {
			t.Errorf("face %d: ascii %v, binary %v", i, a.Faces[i], b.Faces[i])
		}
	}
	if a.Volume() != b.Volume() {
		t.Errorf("volume: ascii %g, binary %g", a.Volume(), b.Volume())
	}
}

func TestLoadSTLBinaryEmpty(t *testing.T) {
	m := NewMesh("")
	if err := m.Load(writeFile(t, "empty.stl", string(encodeBinary("nothing", nil, -1)))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.TriangleCount() != 0 || m.Volume() != 0 {
		t.Errorf("got %d triangles, volume %g", m.TriangleCount(), m.Volume())
	}
}

func TestLoadSTLErrors(t *testing.T) {
	one := []Triangle{{V: [3]math3d.Vec3{{X: 1}, {Y: 1}, {Z: 1}}}}
	full := encodeBinary("bin", one, -1)

	tests := []struct {
		name string
		data string
		want error
	}{
		{"truncated record", string(full[:len(full)-10]), ErrTruncated},
		{"count beyond records", string(encodeBinary("bin", one, 2)), ErrTruncated},
		{"short header", "binary", ErrTruncated},
		{"oversized count", string(encodeBinary("bin", nil, DefaultMaxTriangles+1)), ErrTooManyTriangles},
		{"ascii without facets", "solid empty\nendsolid empty\n", ErrNoTriangles},
		{"ascii header only", "solid", ErrNoTriangles},
		{"ascii missing vertices", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\n", ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMesh("stale")
			err := m.Read(writeFile(t, "bad.stl", tt.data))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Read error = %v, want %v", err, tt.want)
			}
			if m.Pending() != 0 || m.TriangleCount() != 0 || m.Name != "" {
				t.Errorf("mesh not cleared after failed read")
			}
		})
	}
}

func TestLoadSTLMalformedVertex(t *testing.T) {
	data := strings.Join([]string{
		"solid bad",
		"  facet normal 0 0 1",
		"    outer loop",
		"      vertex 0 0 0",
		"      vertex 1 zero 0",
		"      vertex 0 1 0",
		"    endloop",
		"  endfacet",
		"endsolid bad",
	}, "\n")

	_, err := LoadSTL(writeFile(t, "bad.stl", data))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line != 5 {
		t.Errorf("Line = %d, want 5", perr.Line)
	}
}

func TestLoadSTLSkipsMalformedNormal(t *testing.T) {
	data := strings.Join([]string{
		"solid skip",
		"  facet normal a b c",
		"    outer loop",
		"      vertex 9 9 9",
		"      vertex 8 8 8",
		"      vertex 7 7 7",
		"    endloop",
		"  endfacet",
		"  facet normal 0 0 1",
		"    outer loop",
		"      vertex 0 0 0",
		"      vertex 1 0 0",
		"      vertex 0 1 0",
		"    endloop",
		"  endfacet",
		"endsolid skip",
	}, "\n")

	m := NewMesh("")
	if err := m.Load(writeFile(t, "skip.stl", data)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("TriangleCount() = %d, want 1", m.TriangleCount())
	}
	if m.Vertices[0] != math3d.Zero3() {
		t.Errorf("first vertex = %v, want origin", m.Vertices[0])
	}
}

func TestLoadSTLMissingFile(t *testing.T) {
	m := NewMesh("")
	err := m.Load("nonexistent_does_not_exist.stl")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want os.ErrNotExist", err)
	}
}

func TestReadResetsPreviousMesh(t *testing.T) {
	m := indexed("cube", boxTriangles(math3d.Zero3(), math3d.V3(1, 1, 1), false))
	if err := m.Load(writeFile(t, "simple.stl", simpleSTL)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.TriangleCount() != 1 || m.VertexCount() != 3 || len(m.DeclaredNormals) != 1 {
		t.Errorf("got %d faces, %d vertices, %d normals; want 1, 3, 1",
			m.TriangleCount(), m.VertexCount(), len(m.DeclaredNormals))
	}
}

func TestIndexSharesVertices(t *testing.T) {
	m := indexed("cube", boxTriangles(math3d.Zero3(), math3d.V3(1, 1, 1), false))
	if m.TriangleCount() != 12 || m.VertexCount() != 8 {
		t.Errorf("got %d triangles, %d vertices; want 12, 8", m.TriangleCount(), m.VertexCount())
	}
	if m.BoundsMin != math3d.Zero3() || m.BoundsMax != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}

	before := len(m.Faces)
	m.Index()
	if len(m.Faces) != before {
		t.Errorf("second Index changed face count to %d", len(m.Faces))
	}
}

func TestTrimHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"solid cube", "cube"},
		{"solid", ""},
		{"solidworks export\x00\x00\x00", "solidworks export"},
		{"binary header   \x00\x00", "binary header"},
		{"solid part\r", "part"},
		{"solid\r", ""},
		{"solid \r", ""},
	}
	for _, tt := range tests {
		if got := TrimHeader(tt.in); got != tt.want {
			t.Errorf("TrimHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func BenchmarkLoadBinary(b *testing.B) {
	tris := hollowCube()
	data := encodeBinary("bench", tris, -1)
	l := NewSTLLoader()
	for b.Loop() {
		if _, _, err := l.Load(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}
