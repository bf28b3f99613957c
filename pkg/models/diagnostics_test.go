package models

import (
	"bytes"
	"strings"
	"testing"

	"github.com/taigrr/hollow/pkg/math3d"
)

func unitCube() []Triangle {
	return boxTriangles(math3d.Zero3(), math3d.V3(1, 1, 1), false)
}

func TestCheckWatertight(t *testing.T) {
	cube := unitCube()
	degenerate := Triangle{V: [3]math3d.Vec3{{X: 5}, {X: 6}, {X: 7}}}

	tests := []struct {
		name string
		tris []Triangle
		want WatertightReport
	}{
		{
			name: "closed cube",
			tris: cube,
			want: WatertightReport{Triangles: 12, Vertices: 8, UniqueEdges: 18, Watertight: true},
		},
		{
			name: "hollow cube",
			tris: hollowCube(),
			want: WatertightReport{Triangles: 24, Vertices: 16, UniqueEdges: 36, Watertight: true},
		},
		{
			name: "open top",
			tris: cube[:10],
			want: WatertightReport{Triangles: 10, Vertices: 8, UniqueEdges: 17, BoundaryEdges: 4},
		},
		{
			name: "duplicate face",
			tris: append(append([]Triangle{}, cube...), cube[0]),
			want: WatertightReport{Triangles: 13, Vertices: 8, UniqueEdges: 18, NonManifoldEdges: 3, DuplicateTriangles: 1},
		},
		{
			name: "reversed duplicate",
			tris: append(append([]Triangle{}, cube...), Triangle{V: [3]math3d.Vec3{cube[0].V[0], cube[0].V[2], cube[0].V[1]}}),
			want: WatertightReport{Triangles: 13, Vertices: 8, UniqueEdges: 18, NonManifoldEdges: 3, DuplicateTriangles: 1},
		},
		{
			name: "degenerate face",
			tris: []Triangle{degenerate},
			want: WatertightReport{Triangles: 1, Vertices: 3, UniqueEdges: 3, BoundaryEdges: 3, DegenerateTriangles: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := indexed(tt.name, tt.tris).CheckWatertight()
			if got != tt.want {
				t.Errorf("CheckWatertight() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCheckWatertightEmpty(t *testing.T) {
	r := NewMesh("").CheckWatertight()
	if r.Watertight {
		t.Error("empty mesh reported watertight")
	}
	var buf bytes.Buffer
	r.Print(&buf)
	if got := buf.String(); got != "Watertight: no triangles\n" {
		t.Errorf("Print() = %q", got)
	}
}

func TestEdgeCountsSum(t *testing.T) {
	for _, tris := range [][]Triangle{unitCube(), hollowCube(), unitCube()[:7]} {
		m := indexed("", tris)
		sum := 0
		for _, n := range m.EdgeCounts() {
			sum += n
		}
		if sum != 3*m.TriangleCount() {
			t.Errorf("edge counts sum to %d, want %d", sum, 3*m.TriangleCount())
		}
	}
}

func TestCheckWinding(t *testing.T) {
	tris := unitCube()
	tris[4].Normal = tris[4].Normal.Negate()
	// Perpendicular to the face: neither consistent nor inverted.
	tris[7].Normal = math3d.V3(0, 0, 0)
	m := indexed("", tris)

	r := m.CheckWinding()
	if !r.Checked {
		t.Fatal("winding not checked")
	}
	if r.Consistent != 10 {
		t.Errorf("Consistent = %d, want 10", r.Consistent)
	}
	if len(r.Inverted) != 1 || r.Inverted[0].Index != 4 || r.Inverted[0].Dot != -1 {
		t.Errorf("Inverted = %+v, want face 4 with dot -1", r.Inverted)
	}

	var buf bytes.Buffer
	r.Print(&buf)
	want := "  triangle 4 opposite winding (dot=-1)\nRight-hand rule: 10 OK, 1 opposite winding\n"
	if buf.String() != want {
		t.Errorf("Print() = %q, want %q", buf.String(), want)
	}
}

func TestCheckWindingMisaligned(t *testing.T) {
	m := indexed("", unitCube())
	m.DeclaredNormals = m.DeclaredNormals[:3]

	r := m.CheckWinding()
	if r.Checked || r.Consistent != 0 || len(r.Inverted) != 0 {
		t.Errorf("CheckWinding() = %+v, want zero report", r)
	}
	var buf bytes.Buffer
	r.Print(&buf)
	if buf.Len() != 0 {
		t.Errorf("Print() wrote %q", buf.String())
	}
}

func TestQualityReportContent(t *testing.T) {
	m := NewMesh("")
	if err := m.Load(writeFile(t, "simple.stl", simpleSTL)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var buf bytes.Buffer
	m.CheckWatertight().Print(&buf)
	m.CheckWinding().Print(&buf)
	out := buf.String()
	for _, want := range []string{"Watertight: no", "Edges: 3 unique; 3 boundary", "Vertices: 3 unique", "Right-hand rule: 1 OK"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
