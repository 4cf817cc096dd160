package rigid_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidsim/internal/mesh"
	"github.com/san-kum/rigidsim/internal/rigid"
)

func newCube(density float64, at mgl64.Vec3) *rigid.RigidBody {
	GinkgoHelper()
	b, err := rigid.New(density, mesh.Cube(1))
	Expect(err).NotTo(HaveOccurred())
	b.Translate(at)
	b.UpdateAuxiliaryVariables()
	return b
}

func tick(bodies []*rigid.RigidBody, g, dt float64) {
	for _, b := range bodies {
		b.UpdateAuxiliaryVariables()
	}
	rigid.ApplyGravity(bodies, g)
	for _, b := range bodies {
		b.UpdateState(dt)
	}
}

func totalEnergy(bodies []*rigid.RigidBody, g float64) float64 {
	e := rigid.PotentialEnergy(bodies, g)
	for _, b := range bodies {
		b.UpdateAuxiliaryVariables()
		e += b.KineticEnergy()
	}
	return e
}

var _ = Describe("Gravity", func() {
	It("obeys Newton's third law for the point-mass term", func() {
		a := newCube(1.0, mgl64.Vec3{0, 0, 0})
		b := newCube(3.0, mgl64.Vec3{2, -1, 0.5})
		g := 1.7

		r := b.Position().Sub(a.Position())
		fa := rigid.GravityForce(a, r, b.Mass()*g)
		fb := rigid.GravityForce(b, r.Mul(-1), a.Mass()*g)

		expectVec3(fa.Add(fb), mgl64.Vec3{}, 1e-12)
		Expect(fa.Len()).To(BeNumerically("~", g*a.Mass()*b.Mass()/r.LenSqr(), 1e-12))
		Expect(fa.Normalize().Dot(r.Normalize())).To(BeNumerically("~", 1, 1e-12))
	})

	It("floors the squared separation at Epsilon", func() {
		a := newCube(1.0, mgl64.Vec3{})
		r := mgl64.Vec3{0.01, 0, 0}

		f := rigid.GravityForce(a, r, 1)
		Expect(f.Len()).To(BeNumerically("~", a.Mass()/rigid.Epsilon, 1e-9))
		Expect(f.Len()).To(BeNumerically("<", math.Inf(1)))

		Expect(rigid.GravityForce(a, mgl64.Vec3{}, 1)).To(Equal(mgl64.Vec3{}))
	})

	It("exerts no torque on a body with isotropic inertia", func() {
		a := newCube(1.0, mgl64.Vec3{})
		torque := rigid.GravityTorque(a, mgl64.Vec3{3, 1, -2}, 5)
		Expect(torque.Len()).To(BeNumerically("<", 1e-12))
	})

	It("twists an elongated body toward the other mass", func() {
		plank, err := rigid.New(1.0, mesh.Box(1, 0.25, 0.25))
		Expect(err).NotTo(HaveOccurred())
		plank.SetOrientation(mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}))

		r := mgl64.Vec3{5, 0, 0}
		torque := rigid.GravityTorque(plank, r, 1)

		Expect(torque.Len()).To(BeNumerically(">", 0))
		Expect(torque.Dot(r)).To(BeNumerically("~", 0, 1e-12))

		want := r.Cross(plank.WorldInertia.Mul3x1(r)).Mul(3 / math.Pow(5, 5))
		expectVec3(torque, want, 1e-12)
	})

	It("accumulates every ordered pair before any body moves", func() {
		bodies := []*rigid.RigidBody{
			newCube(1.0, mgl64.Vec3{-3, 0, 0}),
			newCube(2.0, mgl64.Vec3{0, 1, 0}),
			newCube(1.5, mgl64.Vec3{4, 0, 2}),
		}
		rigid.ApplyGravity(bodies, 1)

		var net mgl64.Vec3
		for _, b := range bodies {
			net = net.Add(b.CenterOfMass.Force)
			Expect(b.CenterOfMass.Force.Len()).To(BeNumerically(">", 0))
		}
		expectVec3(net, mgl64.Vec3{}, 1e-12)

		reversed := []*rigid.RigidBody{
			newCube(1.5, mgl64.Vec3{4, 0, 2}),
			newCube(2.0, mgl64.Vec3{0, 1, 0}),
			newCube(1.0, mgl64.Vec3{-3, 0, 0}),
		}
		rigid.ApplyGravity(reversed, 1)
		for i := range bodies {
			expectVec3(reversed[len(bodies)-1-i].CenterOfMass.Force, bodies[i].CenterOfMass.Force, 1e-12)
		}
	})

	Context("two-body orbit", func() {
		const (
			g  = 1.0
			dt = 1e-3
			n  = 2000
		)
		var bodies []*rigid.RigidBody

		BeforeEach(func() {
			// unit masses four apart on a circular orbit: v² = G·m·(d/2)/d²
			v := math.Sqrt(g * 1.0 * 2.0 / 16.0)
			a := newCube(1.0, mgl64.Vec3{-2, 0, 0})
			b := newCube(1.0, mgl64.Vec3{2, 0, 0})
			a.SetVelocity(mgl64.Vec3{0, -v, 0})
			b.SetVelocity(mgl64.Vec3{0, v, 0})
			bodies = []*rigid.RigidBody{a, b}
		})

		It("conserves total linear momentum", func() {
			for i := 0; i < n; i++ {
				tick(bodies, g, dt)
			}
			p := bodies[0].CenterOfMass.LinearMomentum.Add(bodies[1].CenterOfMass.LinearMomentum)
			Expect(p.Len()).To(BeNumerically("<", 1e-12))
		})

		It("conserves mechanical energy to integration order", func() {
			e0 := totalEnergy(bodies, g)
			Expect(e0).To(BeNumerically("~", -0.125, 1e-9))

			for i := 0; i < n; i++ {
				tick(bodies, g, dt)
			}
			e1 := totalEnergy(bodies, g)
			Expect(math.Abs(e1-e0) / math.Abs(e0)).To(BeNumerically("<", 1e-3))
		})

		It("keeps the separation near its initial value", func() {
			for i := 0; i < n; i++ {
				tick(bodies, g, dt)
			}
			d := bodies[1].Position().Sub(bodies[0].Position()).Len()
			Expect(d).To(BeNumerically("~", 4, 1e-2))
		})
	})
})
