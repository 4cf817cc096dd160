package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Tetrahedron is the four-faced demo solid: apex at (0, 1, 0) over a
// triangular base in the y = -1 plane.
func Tetrahedron() []mgl64.Vec3 {
	apex := mgl64.Vec3{0, 1, 0}
	p := mgl64.Vec3{-1, -1, 1}
	q := mgl64.Vec3{1, -1, 1}
	r := mgl64.Vec3{0, -1, -1}
	return []mgl64.Vec3{
		apex, p, q,
		apex, q, r,
		apex, r, p,
		p, r, q,
	}
}

// ScaledTetrahedron is Tetrahedron with every vertex multiplied by s.
func ScaledTetrahedron(s float64) []mgl64.Vec3 {
	return Scale(Tetrahedron(), s)
}

// CornerTetrahedron spans the origin and the three axis points at distance s.
func CornerTetrahedron(s float64) []mgl64.Vec3 {
	o := mgl64.Vec3{0, 0, 0}
	a := mgl64.Vec3{s, 0, 0}
	b := mgl64.Vec3{0, s, 0}
	c := mgl64.Vec3{0, 0, s}
	return []mgl64.Vec3{
		o, c, b,
		o, a, c,
		o, b, a,
		a, b, c,
	}
}

// Cube is an axis-aligned cube of edge length size centered on the origin.
func Cube(size float64) []mgl64.Vec3 {
	h := size / 2
	return Box(h, h, h)
}

// Box is an axis-aligned box with the given half extents centered on the origin.
func Box(hx, hy, hz float64) []mgl64.Vec3 {
	corner := func(i, j, k int) mgl64.Vec3 {
		return mgl64.Vec3{float64(2*i-1) * hx, float64(2*j-1) * hy, float64(2*k-1) * hz}
	}
	// Each face is listed counter-clockwise seen from outside.
	faces := [6][4][3]int{
		{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
		{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
		{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
		{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
		{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
		{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	}

	out := make([]mgl64.Vec3, 0, 36)
	for _, f := range faces {
		var q [4]mgl64.Vec3
		for n, c := range f {
			q[n] = corner(c[0], c[1], c[2])
		}
		out = append(out, q[0], q[1], q[2], q[0], q[2], q[3])
	}
	return out
}

// Octahedron has its six vertices on the coordinate axes at distance r.
func Octahedron(r float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, 24)
	for _, sx := range []float64{1, -1} {
		for _, sy := range []float64{1, -1} {
			for _, sz := range []float64{1, -1} {
				x := mgl64.Vec3{sx * r, 0, 0}
				y := mgl64.Vec3{0, sy * r, 0}
				z := mgl64.Vec3{0, 0, sz * r}
				if sx*sy*sz > 0 {
					out = append(out, x, y, z)
				} else {
					out = append(out, x, z, y)
				}
			}
		}
	}
	return out
}

// Scale returns a copy of vertices multiplied by s.
func Scale(vertices []mgl64.Vec3, s float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(vertices))
	for i, v := range vertices {
		out[i] = v.Mul(s)
	}
	return out
}
