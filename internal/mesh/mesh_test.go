package mesh

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
)

// signedVolume is positive for a closed mesh wound counter-clockwise seen
// from outside.
func signedVolume(vertices []mgl64.Vec3) float64 {
	v := 0.0
	for i := 0; i+2 < len(vertices); i += 3 {
		v += vertices[i].Dot(vertices[i+1].Cross(vertices[i+2]))
	}
	return v / 6
}

func TestPrimitivesAreClosedAndOutward(t *testing.T) {
	tests := []struct {
		name   string
		verts  []mgl64.Vec3
		volume float64
		edges  int
	}{
		{"tetrahedron", Tetrahedron(), 4.0 / 3.0, 6},
		{"scaled tetrahedron", ScaledTetrahedron(2), 8 * 4.0 / 3.0, 6},
		{"corner", CornerTetrahedron(3), 27.0 / 6.0, 6},
		{"cube", Cube(1), 1, 18},
		{"box", Box(1, 0.5, 0.25), 1, 18},
		{"octahedron", Octahedron(1), 4.0 / 3.0, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.verts); err != nil {
				t.Fatalf("invalid mesh: %v", err)
			}
			if got := signedVolume(tt.verts); math.Abs(got-tt.volume) > 1e-12 {
				t.Errorf("signed volume = %g, want %g", got, tt.volume)
			}
			if got := len(Edges(tt.verts)); got != tt.edges {
				t.Errorf("edges = %d, want %d", got, tt.edges)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Validate(nil)).To(MatchError(ErrNotTriangles))
	g.Expect(Validate(make([]mgl64.Vec3, 4))).To(MatchError(ErrNotTriangles))
	g.Expect(Validate(make([]mgl64.Vec3, 3))).To(Succeed())
}

func TestFromArraysAndFloat32Buffer(t *testing.T) {
	g := NewWithT(t)

	verts := FromArrays([][3]float64{{1, 2, 3}, {4, 5, 6}})
	g.Expect(verts).To(Equal([]mgl64.Vec3{{1, 2, 3}, {4, 5, 6}}))
	g.Expect(Float32Buffer(verts)).To(Equal([]float32{1, 2, 3, 4, 5, 6}))
}

func TestEdgesAreUniqueAndSorted(t *testing.T) {
	g := NewWithT(t)

	edges := Edges(Tetrahedron())
	seen := map[[2]mgl64.Vec3]bool{}
	verts := Tetrahedron()
	for i, e := range edges {
		g.Expect(e.A).To(BeNumerically("<", e.B))
		if i > 0 {
			prev := edges[i-1]
			g.Expect(prev.A < e.A || (prev.A == e.A && prev.B < e.B)).To(BeTrue())
		}
		key := [2]mgl64.Vec3{verts[e.A], verts[e.B]}
		g.Expect(seen[key]).To(BeFalse())
		seen[key] = true
	}
}

func TestBounds(t *testing.T) {
	g := NewWithT(t)

	lo, hi := Bounds(Box(1, 2, 3))
	g.Expect(lo).To(Equal(mgl64.Vec3{-1, -2, -3}))
	g.Expect(hi).To(Equal(mgl64.Vec3{1, 2, 3}))

	lo, hi = Bounds(nil)
	g.Expect(lo).To(Equal(mgl64.Vec3{}))
	g.Expect(hi).To(Equal(mgl64.Vec3{}))
}

func TestScaleCopies(t *testing.T) {
	g := NewWithT(t)

	base := Tetrahedron()
	scaled := Scale(base, 3)
	g.Expect(scaled[0]).To(Equal(mgl64.Vec3{0, 3, 0}))
	g.Expect(base[0]).To(Equal(mgl64.Vec3{0, 1, 0}))
}

func TestRegistry(t *testing.T) {
	g := NewWithT(t)
	r := NewRegistry()

	g.Expect(r.Names()).To(Equal([]string{"corner", "cube", "octahedron", "plank", "tetrahedron"}))

	plank, err := r.Lookup("plank", 2)
	g.Expect(err).NotTo(HaveOccurred())
	lo, hi := Bounds(plank)
	g.Expect(hi.Sub(lo)).To(Equal(mgl64.Vec3{4, 2, 1}))

	unit, err := r.Lookup("cube", 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(signedVolume(unit)).To(BeNumerically("~", 1, 1e-12))

	_, err = r.Lookup("sphere", 1)
	g.Expect(err).To(MatchError(ContainSubstring("unknown mesh: sphere")))

	r.Register("sphere", Octahedron)
	_, err = r.Lookup("sphere", 1)
	g.Expect(err).NotTo(HaveOccurred())
}
