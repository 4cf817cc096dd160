package rigid_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidsim/internal/mesh"
	"github.com/san-kum/rigidsim/internal/rigid"
)

const tol = 1e-9

func expectMat3(got, want mgl64.Mat3, eps float64) {
	GinkgoHelper()
	for i := range got {
		Expect(got[i]).To(BeNumerically("~", want[i], eps), "element %d of %v", i, got)
	}
}

func expectVec3(got, want mgl64.Vec3, eps float64) {
	GinkgoHelper()
	for i := range got {
		Expect(got[i]).To(BeNumerically("~", want[i], eps), "component %d of %v", i, got)
	}
}

var _ = Describe("ComputeMassProperties", func() {
	Context("unit cube", func() {
		It("matches the analytic mass, center and inertia", func() {
			mp, err := rigid.ComputeMassProperties(2.0, mesh.Cube(1))
			Expect(err).NotTo(HaveOccurred())

			Expect(mp.Volume).To(BeNumerically("~", 1.0, tol))
			Expect(mp.Mass).To(BeNumerically("~", 2.0, tol))
			expectVec3(mp.CenterOfMass, mgl64.Vec3{}, tol)

			// m·s²/6 about every axis
			expectMat3(mp.Inertia, mgl64.Ident3().Mul(2.0/6.0), tol)
		})

		It("does not depend on where the cube sits", func() {
			shifted := make([]mgl64.Vec3, 0, 36)
			for _, v := range mesh.Cube(1) {
				shifted = append(shifted, v.Add(mgl64.Vec3{3, -2, 7}))
			}
			mp, err := rigid.ComputeMassProperties(2.0, shifted)
			Expect(err).NotTo(HaveOccurred())

			expectVec3(mp.CenterOfMass, mgl64.Vec3{3, -2, 7}, tol)
			expectMat3(mp.Inertia, mgl64.Ident3().Mul(2.0/6.0), 1e-8)
		})
	})

	Context("corner tetrahedron", func() {
		It("matches the analytic tensor about its centroid", func() {
			mp, err := rigid.ComputeMassProperties(1.0, mesh.CornerTetrahedron(1))
			Expect(err).NotTo(HaveOccurred())

			Expect(mp.Volume).To(BeNumerically("~", 1.0/6.0, tol))
			expectVec3(mp.CenterOfMass, mgl64.Vec3{0.25, 0.25, 0.25}, tol)

			d, o := 1.0/80.0, 1.0/480.0
			expectMat3(mp.Inertia, mgl64.Mat3{d, o, o, o, d, o, o, o, d}, tol)
		})

		It("agrees with the parallel-axis form", func() {
			verts := mesh.CornerTetrahedron(1.5)
			mp, err := rigid.ComputeMassProperties(3.0, verts)
			Expect(err).NotTo(HaveOccurred())

			atOrigin := rigid.InertiaAboutOrigin(3.0, verts)
			shifted := rigid.ParallelAxisShift(atOrigin, mp.Mass, mp.CenterOfMass)
			expectMat3(shifted, mp.Inertia, 1e-9)
		})
	})

	Context("demo tetrahedron", func() {
		It("has volume 4/3 and its centroid at the vertex mean", func() {
			mp, err := rigid.ComputeMassProperties(1.0, mesh.Tetrahedron())
			Expect(err).NotTo(HaveOccurred())

			Expect(mp.Volume).To(BeNumerically("~", 4.0/3.0, tol))
			Expect(mp.Mass).To(BeNumerically("~", 4.0/3.0, tol))
			expectVec3(mp.CenterOfMass, mgl64.Vec3{0, -0.5, 0.25}, tol)
		})
	})

	It("gives an isotropic tensor for the octahedron", func() {
		mp, err := rigid.ComputeMassProperties(1.0, mesh.Octahedron(2))
		Expect(err).NotTo(HaveOccurred())

		Expect(mp.Volume).To(BeNumerically("~", 4.0/3.0*8, tol))
		Expect(mp.Inertia[0]).To(BeNumerically("~", mp.Inertia[4], tol))
		Expect(mp.Inertia[4]).To(BeNumerically("~", mp.Inertia[8], tol))
		Expect(mp.Inertia[1]).To(BeNumerically("~", 0, tol))
	})

	DescribeTable("accepts meshes at any scale",
		func(size float64) {
			mp, err := rigid.ComputeMassProperties(1000, mesh.Cube(size))
			Expect(err).NotTo(HaveOccurred())
			Expect(mp.Volume).To(BeNumerically("~", size*size*size, 1e-9*size*size*size))
			Expect(mp.Mass).To(BeNumerically("~", 1000*size*size*size, 1e-6*size*size*size))

			identity := mp.Inertia.Mul3(mp.InverseInertia)
			Expect(identity[0]).To(BeNumerically("~", 1, 1e-9))
			Expect(identity[4]).To(BeNumerically("~", 1, 1e-9))
			Expect(identity[8]).To(BeNumerically("~", 1, 1e-9))
			Expect(identity[1]).To(BeNumerically("~", 0, 1e-9))
		},
		Entry("10 µm cube", 1e-5),
		Entry("millimetre cube", 1e-3),
		Entry("kilometre cube", 1e3),
	)

	DescribeTable("rejects degenerate input",
		func(density float64, verts []mgl64.Vec3, want error) {
			_, err := rigid.ComputeMassProperties(density, verts)
			Expect(err).To(MatchError(want))

			var mpErr *rigid.MassPropertiesError
			Expect(err).To(BeAssignableToTypeOf(mpErr))
		},
		Entry("zero density", 0.0, mesh.Cube(1), rigid.ErrInvalidDensity),
		Entry("negative density", -1.0, mesh.Cube(1), rigid.ErrInvalidDensity),
		Entry("no vertices", 1.0, []mgl64.Vec3{}, rigid.ErrVertexCount),
		Entry("partial triangle", 1.0, mesh.Cube(1)[:4], rigid.ErrVertexCount),
		Entry("identical vertices", 1.0, repeat(mgl64.Vec3{1, 2, 3}, 12), rigid.ErrDegenerateVolume),
		Entry("flat sheet", 1.0, flatSheet(), rigid.ErrDegenerateVolume),
		Entry("tiny flat sheet", 1000.0, mesh.Scale(flatSheet(), 1e-5), rigid.ErrDegenerateVolume),
		Entry("inside-out cube", 1.0, reversed(mesh.Cube(1)), rigid.ErrInvertedMesh),
	)
})

func repeat(v mgl64.Vec3, n int) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// flatSheet is a single triangle seen from both sides.
func flatSheet() []mgl64.Vec3 {
	a, b, c := mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}
	return []mgl64.Vec3{a, b, c, a, c, b}
}

func reversed(verts []mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(verts))
	for i := 0; i < len(verts); i += 3 {
		out[i], out[i+1], out[i+2] = verts[i], verts[i+2], verts[i+1]
	}
	return out
}
