package rigid_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidsim/internal/mesh"
	"github.com/san-kum/rigidsim/internal/rigid"
)

var _ = Describe("RigidBody", func() {
	Describe("New", func() {
		It("recenters the mesh on the center of mass", func() {
			b, err := rigid.New(1.0, mesh.Tetrahedron())
			Expect(err).NotTo(HaveOccurred())

			expectVec3(b.Position(), mgl64.Vec3{0, -0.5, 0.25}, tol)

			mp, err := rigid.ComputeMassProperties(1.0, b.Vertices())
			Expect(err).NotTo(HaveOccurred())
			expectVec3(mp.CenterOfMass, mgl64.Vec3{}, tol)
			Expect(mp.Volume).To(BeNumerically("~", b.Volume, tol))
		})

		It("leaves the caller's vertices untouched", func() {
			verts := mesh.Tetrahedron()
			_, err := rigid.New(1.0, verts)
			Expect(err).NotTo(HaveOccurred())
			Expect(verts).To(Equal(mesh.Tetrahedron()))
		})

		It("builds an invertible body-frame tensor", func() {
			b, err := rigid.New(1.3, mesh.Box(1, 0.5, 0.25))
			Expect(err).NotTo(HaveOccurred())

			expectMat3(b.InverseInertiaTensor().Mul3(b.InertiaTensor()), mgl64.Ident3(), 1e-9)
		})

		It("applies initial conditions from options", func() {
			q := mgl64.QuatRotate(0.4, mgl64.Vec3{0, 1, 0})
			b, err := rigid.New(1.0, mesh.Cube(2),
				rigid.WithOrientation(q),
				rigid.WithLinearMomentum(mgl64.Vec3{8, 0, 0}),
				rigid.WithAngularMomentum(mgl64.Vec3{0, 0, 1}),
			)
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Mass()).To(BeNumerically("~", 8.0, tol))
			expectVec3(b.Velocity, mgl64.Vec3{1, 0, 0}, tol)
			Expect(b.Orientation.ApproxEqualThreshold(q, tol)).To(BeTrue())
			Expect(b.AngularVelocity.Len()).To(BeNumerically(">", 0))
		})

		It("returns no body for a degenerate mesh", func() {
			b, err := rigid.New(1.0, repeat(mgl64.Vec3{}, 9))
			Expect(err).To(MatchError(rigid.ErrDegenerateVolume))
			Expect(b).To(BeNil())
		})
	})

	Describe("UpdateAuxiliaryVariables", func() {
		It("rotates the inertia tensor into the world frame", func() {
			b, err := rigid.New(1.0, mesh.Box(1, 0.5, 0.25))
			Expect(err).NotTo(HaveOccurred())

			b.SetOrientation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
			local := b.InertiaTensor()

			// a quarter turn about z swaps the x and y moments
			Expect(b.WorldInertia.At(0, 0)).To(BeNumerically("~", local.At(1, 1), 1e-9))
			Expect(b.WorldInertia.At(1, 1)).To(BeNumerically("~", local.At(0, 0), 1e-9))
			expectMat3(b.WorldInertia.Mul3(b.InverseWorldInertia), mgl64.Ident3(), 1e-9)
		})

		It("derives the spin from angular momentum", func() {
			b, err := rigid.New(1.0, mesh.Cube(1))
			Expect(err).NotTo(HaveOccurred())

			b.SetAngularVelocity(mgl64.Vec3{0, 0, 2})
			// I = 1/6 for a unit cube of unit density
			expectVec3(b.AngularMomentum, mgl64.Vec3{0, 0, 2.0 / 6.0}, tol)
			expectVec3(b.AngularVelocity, mgl64.Vec3{0, 0, 2}, 1e-9)
		})
	})

	Describe("UpdateState", func() {
		var b *rigid.RigidBody

		BeforeEach(func() {
			var err error
			b, err = rigid.New(1.0, mesh.Cube(1), rigid.WithLinearMomentum(mgl64.Vec3{1, 0, 0}))
			Expect(err).NotTo(HaveOccurred())
			b.UpdateAuxiliaryVariables()
		})

		It("moves with the velocity from before the momentum update", func() {
			b.AddForce(mgl64.Vec3{10, 0, 0})
			b.UpdateState(0.1)

			expectVec3(b.Position(), mgl64.Vec3{0.1, 0, 0}, tol)
			expectVec3(b.CenterOfMass.LinearMomentum, mgl64.Vec3{2, 0, 0}, tol)
		})

		It("clears the accumulators", func() {
			b.AddForce(mgl64.Vec3{1, 2, 3})
			b.AddTorque(mgl64.Vec3{3, 2, 1})
			b.UpdateState(0.01)

			Expect(b.CenterOfMass.Force).To(Equal(mgl64.Vec3{}))
			Expect(b.Torque).To(Equal(mgl64.Vec3{}))
			expectVec3(b.AngularMomentum, mgl64.Vec3{0.03, 0.02, 0.01}, tol)
		})

		It("turns the orientation by the spin", func() {
			b.SetAngularVelocity(mgl64.Vec3{0, 0, 1})
			dt := 1e-3
			for i := 0; i < 1000; i++ {
				b.UpdateAuxiliaryVariables()
				b.UpdateState(dt)
			}

			angle := 2 * math.Acos(math.Min(1, math.Abs(b.Orientation.W)))
			Expect(angle).To(BeNumerically("~", 1.0, 1e-3))
			Expect(math.Abs(b.Orientation.V[2])).To(BeNumerically(">", 0.4))
		})

		It("keeps the orientation on the unit sphere", func() {
			tumbler, err := rigid.New(1.0, mesh.Box(1, 0.5, 0.25),
				rigid.WithAngularMomentum(mgl64.Vec3{0.3, 2.5, -0.7}))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 20000; i++ {
				tumbler.UpdateAuxiliaryVariables()
				tumbler.UpdateState(0.01)
				Expect(tumbler.Orientation.Len()).To(BeNumerically("~", 1.0, 1e-9))
			}
		})
	})

	It("reports kinetic energy from both momenta", func() {
		b, err := rigid.New(1.0, mesh.Cube(1), rigid.WithLinearMomentum(mgl64.Vec3{0, 3, 0}))
		Expect(err).NotTo(HaveOccurred())
		b.SetAngularVelocity(mgl64.Vec3{6, 0, 0})

		// ½mv² + ½Iω² = 4.5 + ½·(1/6)·36
		Expect(b.KineticEnergy()).To(BeNumerically("~", 7.5, 1e-9))
	})

	It("exposes a model matrix placing the mesh in the world", func() {
		b, err := rigid.New(1.0, mesh.Cube(1))
		Expect(err).NotTo(HaveOccurred())
		b.Translate(mgl64.Vec3{1, 2, 3})
		b.SetOrientation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))

		m := b.ModelMatrix()
		for _, v := range b.Vertices() {
			// a quarter turn about z maps (x, y, z) to (-y, x, z)
			want := mgl64.Vec3{1 - v[1], 2 + v[0], 3 + v[2]}
			expectVec3(m.Mul4x1(v.Vec4(1)).Vec3(), want, 1e-9)
		}
	})

	It("orders principal moments ascending", func() {
		b, err := rigid.New(1.0, mesh.Box(1, 0.5, 0.25))
		Expect(err).NotTo(HaveOccurred())

		moments, axes, err := b.PrincipalMoments()
		Expect(err).NotTo(HaveOccurred())
		Expect(moments[0]).To(BeNumerically("<", moments[1]))
		Expect(moments[1]).To(BeNumerically("<", moments[2]))

		// the longest extent is x, so the smallest moment is about x
		Expect(math.Abs(axes[0][0])).To(BeNumerically("~", 1, 1e-9))
		Expect(moments[0]).To(BeNumerically("~", b.InertiaTensor().At(0, 0), 1e-9))
	})
})
