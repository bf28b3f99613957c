package kernel

import (
	"github.com/taigrr/hollow/pkg/math3d"
	"github.com/taigrr/hollow/pkg/models"
)

// HollowBox returns a cube of the given size with a sealed cubic cavity
// leaving walls of thickness wall. It requires 0 < wall < size/2; sdfx
// constructors panic on the empty box a thicker wall produces.
func HollowBox(k Kernel, size, wall float64) Solid {
	inner := size - 2*wall
	cavity := k.Translate(k.Box(inner, inner, inner), wall, wall, wall)
	return k.Difference(k.Box(size, size, size), cavity)
}

// ChannelPlate returns a plate with a round channel bored straight through
// it along X, centered in Y and Z. Both ends of the channel are open.
func ChannelPlate(k Kernel, length, width, thickness, radius float64) Solid {
	plate := k.Box(length, width, thickness)
	bore := k.Rotate(k.Cylinder(length+2, radius), 0, 90, 0)
	bore = k.Translate(bore, length/2, width/2, thickness/2)
	return k.Difference(plate, bore)
}

// BoxSurface returns the 12 triangles of an axis-aligned box. Normals point
// away from the box, or into it when inward is set. Each side is split along
// the diagonal from its low corner to its high corner.
func BoxSurface(lower, upper math3d.Vec3, inward bool) []models.Triangle {
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

	tris := make([]models.Triangle, 0, 12)
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
			normal := point(axis, side, 0, 0)

			tris = append(tris, quad(
				point(axis, w, u0, v0),
				point(axis, w, u1, v0),
				point(axis, w, u1, v1),
				point(axis, w, u0, v1),
				normal,
			)...)
		}
	}
	return tris
}

// quad splits the planar quad p00 p10 p11 p01 along p00-p11 into two
// triangles wound to agree with normal.
func quad(p00, p10, p11, p01, normal math3d.Vec3) []models.Triangle {
	tris := []models.Triangle{
		{Normal: normal, V: [3]math3d.Vec3{p00, p10, p11}},
		{Normal: normal, V: [3]math3d.Vec3{p00, p11, p01}},
	}
	for i := range tris {
		if tris[i].GeometricNormal().Dot(normal) < 0 {
			tris[i].V[1], tris[i].V[2] = tris[i].V[2], tris[i].V[1]
		}
	}
	return tris
}

// HollowCube returns the exact surface of a cube of the given size, minimum
// corner at the origin, with a centered cubic cavity. The outer shell comes
// first and faces out; the cavity shell faces into the cavity. The result
// is inside out unless 0 < wall < size/2.
func HollowCube(size, wall float64) []models.Triangle {
	outer := BoxSurface(math3d.Zero3(), math3d.V3(size, size, size), false)
	lo, hi := wall, size-wall
	inner := BoxSurface(math3d.V3(lo, lo, lo), math3d.V3(hi, hi, hi), true)
	return append(outer, inner...)
}

// ChannelBlock returns the exact surface of a cube of the given size,
// minimum corner at the origin, with a square channel of side bore running
// through it along X. The channel walls face into the channel and both ends
// are open. It requires 0 < bore < size.
func ChannelBlock(size, bore float64) []models.Triangle {
	lo := (size - bore) / 2
	hi := lo + bore
	p := math3d.V3
	x := math3d.V3(1, 0, 0)
	y := math3d.V3(0, 1, 0)
	z := math3d.V3(0, 0, 1)

	var tris []models.Triangle
	tris = append(tris, quad(p(0, 0, 0), p(size, 0, 0), p(size, 0, size), p(0, 0, size), y.Negate())...)
	tris = append(tris, quad(p(0, size, 0), p(size, size, 0), p(size, size, size), p(0, size, size), y)...)
	tris = append(tris, quad(p(0, 0, 0), p(size, 0, 0), p(size, size, 0), p(0, size, 0), z.Negate())...)
	tris = append(tris, quad(p(0, 0, size), p(size, 0, size), p(size, size, size), p(0, size, size), z)...)

	for _, end := range []struct {
		x      float64
		normal math3d.Vec3
	}{{0, x.Negate()}, {size, x}} {
		outer := [4]math3d.Vec3{p(end.x, 0, 0), p(end.x, size, 0), p(end.x, size, size), p(end.x, 0, size)}
		hole := [4]math3d.Vec3{p(end.x, lo, lo), p(end.x, hi, lo), p(end.x, hi, hi), p(end.x, lo, hi)}
		for i := range 4 {
			j := (i + 1) % 4
			tris = append(tris, quad(outer[i], outer[j], hole[j], hole[i], end.normal)...)
		}
	}

	tris = append(tris, quad(p(0, lo, lo), p(size, lo, lo), p(size, lo, hi), p(0, lo, hi), y)...)
	tris = append(tris, quad(p(0, hi, lo), p(size, hi, lo), p(size, hi, hi), p(0, hi, hi), y.Negate())...)
	tris = append(tris, quad(p(0, lo, lo), p(size, lo, lo), p(size, hi, lo), p(0, hi, lo), z)...)
	tris = append(tris, quad(p(0, lo, hi), p(size, lo, hi), p(size, hi, hi), p(0, hi, hi), z.Negate())...)
	return tris
}
