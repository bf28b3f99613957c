package kernel

import (
	"math"
	"testing"

	"github.com/taigrr/hollow/pkg/math3d"
	"github.com/taigrr/hollow/pkg/models"
)

func indexed(tris []models.Triangle) *models.Mesh {
	m := models.FromTriangles("", tris)
	m.Index()
	return m
}

func TestBoxSurface(t *testing.T) {
	tests := []struct {
		name   string
		lower  math3d.Vec3
		upper  math3d.Vec3
		inward bool
		signed float64
	}{
		{"unit outward", math3d.Zero3(), math3d.V3(1, 1, 1), false, 1},
		{"unit inward", math3d.Zero3(), math3d.V3(1, 1, 1), true, -1},
		{"slab", math3d.V3(-1, -2, 0), math3d.V3(1, 2, 0.5), false, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris := BoxSurface(tt.lower, tt.upper, tt.inward)
			if len(tris) != 12 {
				t.Fatalf("got %d triangles, want 12", len(tris))
			}
			m := indexed(tris)
			if r := m.CheckWatertight(); !r.Watertight {
				t.Errorf("not watertight: %+v", r)
			}
			if w := m.CheckWinding(); w.Consistent != 12 {
				t.Errorf("winding: %+v", w)
			}
			if v := m.SignedVolume(); math.Abs(v-tt.signed) > 1e-12 {
				t.Errorf("SignedVolume() = %g, want %g", v, tt.signed)
			}
		})
	}
}

func TestHollowCube(t *testing.T) {
	m := indexed(HollowCube(4, 1))
	if m.TriangleCount() != 24 || m.VertexCount() != 16 {
		t.Errorf("got %d triangles, %d vertices; want 24, 16", m.TriangleCount(), m.VertexCount())
	}
	if r := m.CheckWatertight(); !r.Watertight {
		t.Errorf("not watertight: %+v", r)
	}
	if v := m.SignedVolume(); math.Abs(v-56) > 1e-12 {
		t.Errorf("SignedVolume() = %g, want 56", v)
	}
}

func TestChannelBlock(t *testing.T) {
	m := indexed(ChannelBlock(4, 2))
	if m.TriangleCount() != 32 {
		t.Errorf("TriangleCount() = %d, want 32", m.TriangleCount())
	}
	if r := m.CheckWatertight(); !r.Watertight || r.UniqueEdges != 48 {
		t.Errorf("CheckWatertight() = %+v", r)
	}
	if w := m.CheckWinding(); w.Consistent != 32 {
		t.Errorf("winding: %+v", w)
	}
	// 4^3 less the 4x2x2 channel
	if v := m.SignedVolume(); math.Abs(v-48) > 1e-12 {
		t.Errorf("SignedVolume() = %g, want 48", v)
	}
}
