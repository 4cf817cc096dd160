package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the floor applied to the squared separation of two bodies.
const Epsilon = 0.005

func clampedDist2(r mgl64.Vec3) float64 {
	d2 := r.Dot(r)
	if d2 < Epsilon {
		d2 = Epsilon
	}
	return d2
}

// GravityForce is the inverse-square pull on b toward a body at offset r
// whose gravitational parameter is mu = G·m.
func GravityForce(b *RigidBody, r mgl64.Vec3, mu float64) mgl64.Vec3 {
	d2 := clampedDist2(r)
	n := r.Len()
	if n == 0 {
		return mgl64.Vec3{}
	}
	return r.Mul(b.CenterOfMass.Mass * mu / d2 / n)
}

// GravityTorque is the gravity-gradient torque 3·mu·|r|⁻⁵·(r × I r) using the
// current world inertia of b.
func GravityTorque(b *RigidBody, r mgl64.Vec3, mu float64) mgl64.Vec3 {
	d2 := clampedDist2(r)
	invR := 1 / math.Sqrt(d2)
	invR2 := invR * invR
	return r.Cross(b.WorldInertia.Mul3x1(r)).Mul(3 * mu * invR2 * invR2 * invR)
}

// ApplyGravity accumulates the force and torque of every ordered pair (i, j)
// into body i. Positions, masses and world inertia are only read, so the
// result does not depend on body order. Auxiliary variables must be fresh.
func ApplyGravity(bodies []*RigidBody, g float64) {
	for i, bi := range bodies {
		for j, bj := range bodies {
			if i == j {
				continue
			}
			r := bj.CenterOfMass.Position.Sub(bi.CenterOfMass.Position)
			mu := bj.CenterOfMass.Mass * g
			bi.AddForce(GravityForce(bi, r, mu))
			bi.AddTorque(GravityTorque(bi, r, mu))
		}
	}
}

// PotentialEnergy is the point-mass gravitational energy of the set, using
// the same separation floor as the force law.
func PotentialEnergy(bodies []*RigidBody, g float64) float64 {
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[j].CenterOfMass.Position.Sub(bodies[i].CenterOfMass.Position)
			pe -= g * bodies[i].CenterOfMass.Mass * bodies[j].CenterOfMass.Mass / math.Sqrt(clampedDist2(r))
		}
	}
	return pe
}
