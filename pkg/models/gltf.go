package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/samber/lo"
	"github.com/taigrr/hollow/pkg/math3d"
)

// WriteGLB writes tris to path as a binary glTF file with one flat-shaded
// mesh: every triangle gets its own three vertices carrying its normal.
func WriteGLB(path, name string, tris []Triangle) error {
	doc := gltf.NewDocument()

	positions := make([][3]float32, 0, len(tris)*3)
	normals := make([][3]float32, 0, len(tris)*3)
	for _, t := range tris {
		n := toFloat32(t.Normal)
		for _, v := range t.V {
			positions = append(positions, toFloat32(v))
			normals = append(normals, n)
		}
	}
	indices := lo.Times(len(positions), func(i int) uint32 { return uint32(i) })

	posAccessor := modeler.WritePosition(doc, positions)
	normAccessor := modeler.WriteNormal(doc, normals)
	idxAccessor := modeler.WriteIndices(doc, indices)

	doc.Meshes = []*gltf.Mesh{{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(idxAccessor),
			Attributes: map[string]int{
				gltf.POSITION: posAccessor,
				gltf.NORMAL:   normAccessor,
			},
			Mode: gltf.PrimitiveTriangles,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	if len(doc.Scenes) == 0 {
		doc.Scenes = []*gltf.Scene{{Name: name}}
		doc.Scene = gltf.Index(0)
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

func toFloat32(v math3d.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// LoadGLB reads the triangle primitives of a GLTF/GLB file into a new,
// unindexed mesh. glTF has no per-facet normal, so each triangle's declared
// normal is its geometric normal.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var tris []Triangle
	for _, m := range doc.Meshes {
		got, err := meshTriangles(doc, m)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		tris = append(tris, got...)
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("load %s: %w", path, ErrNoTriangles)
	}

	return FromTriangles(filepath.Base(path), tris), nil
}

// meshTriangles extracts the triangles of a GLTF mesh.
func meshTriangles(doc *gltf.Document, m *gltf.Mesh) ([]Triangle, error) {
	var tris []Triangle
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = lo.Range(len(positions))
		}

		for i := 0; i+2 < len(indices); i += 3 {
			var t Triangle
			for j := range 3 {
				k := indices[i+j]
				if k < 0 || k >= len(positions) {
					return nil, fmt.Errorf("index %d out of range (%d positions)", k, len(positions))
				}
				t.V[j] = positions[k]
			}
			t.Normal = t.GeometricNormal()
			tris = append(tris, t)
		}
	}
	return tris, nil
}

// readVec3Accessor reads float VEC3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		if offset+12 > len(data) {
			return nil, fmt.Errorf("accessor overruns buffer")
		}
		result[i] = math3d.V3(
			float64(readFloat32(data[offset:])),
			float64(readFloat32(data[offset+4:])),
			float64(readFloat32(data[offset+8:])),
		)
	}
	return result, nil
}

// readIndices reads scalar index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		if offset+size > len(data) {
			return nil, fmt.Errorf("accessor overruns buffer")
		}
		switch size {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		default:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}

// accessorBytes returns the embedded buffer behind an accessor together
// with its start offset and element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.URI != "" && buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("external buffers not supported")
	}
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	return buffer.Data, bufferView.ByteOffset + accessor.ByteOffset, stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
