package models

import (
	"math"
	"path/filepath"
	"testing"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLBRoundTrip(t *testing.T) {
	tris := hollowCube()
	path := filepath.Join(t.TempDir(), "cube.glb")
	if err := WriteGLB(path, "hollow", tris); err != nil {
		t.Fatalf("WriteGLB: %v", err)
	}

	m, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if m.Pending() != len(tris) {
		t.Fatalf("Pending() = %d, want %d", m.Pending(), len(tris))
	}
	m.Index()

	if m.VertexCount() != 16 {
		t.Errorf("VertexCount() = %d, want 16", m.VertexCount())
	}
	if r := m.CheckWatertight(); !r.Watertight {
		t.Errorf("round-tripped mesh not watertight: %+v", r)
	}
	if v := m.SignedVolume(); math.Abs(v-56) > 1e-6 {
		t.Errorf("SignedVolume() = %g, want 56", v)
	}
	if w := m.CheckWinding(); len(w.Inverted) != 0 || w.Consistent != len(tris) {
		t.Errorf("winding = %+v", w)
	}
}
