package rigid

import (
	"github.com/go-gl/mathgl/mgl64"
)

// PointMass is the center-of-mass kinematic state of a body.
// Force accumulates until the next UpdateState consumes it.
type PointMass struct {
	Mass           float64
	Position       mgl64.Vec3
	LinearMomentum mgl64.Vec3
	Force          mgl64.Vec3
}

// RigidBody is a uniform-density solid bounded by a closed triangle mesh.
type RigidBody struct {
	// State
	CenterOfMass    PointMass
	Orientation     mgl64.Quat
	AngularMomentum mgl64.Vec3
	Torque          mgl64.Vec3

	// Constants
	Density float64
	Volume  float64

	// Auxiliary, refreshed by UpdateAuxiliaryVariables
	Velocity            mgl64.Vec3
	AngularVelocity     mgl64.Vec3
	RotationMatrix      mgl64.Mat3
	WorldInertia        mgl64.Mat3
	InverseWorldInertia mgl64.Mat3

	inertia        mgl64.Mat3
	inverseInertia mgl64.Mat3
	vertices       []mgl64.Vec3
}

// Option sets an initial condition at construction.
type Option func(*RigidBody)

func WithOrientation(q mgl64.Quat) Option {
	return func(b *RigidBody) { b.Orientation = q.Normalize() }
}

func WithLinearMomentum(p mgl64.Vec3) Option {
	return func(b *RigidBody) { b.CenterOfMass.LinearMomentum = p }
}

func WithAngularMomentum(l mgl64.Vec3) Option {
	return func(b *RigidBody) { b.AngularMomentum = l }
}

// New builds a body from a density and a triangle list. The center of mass
// is placed at its position in the input frame and the stored mesh is
// shifted so that the center of mass is the local origin.
func New(density float64, vertices []mgl64.Vec3, opts ...Option) (*RigidBody, error) {
	mp, err := ComputeMassProperties(density, vertices)
	if err != nil {
		return nil, err
	}

	b := &RigidBody{
		CenterOfMass: PointMass{
			Mass:     mp.Mass,
			Position: mp.CenterOfMass,
		},
		Orientation:    mgl64.QuatIdent(),
		Density:        density,
		Volume:         mp.Volume,
		inertia:        mp.Inertia,
		inverseInertia: mp.InverseInertia,
		vertices:       Centered(vertices, mp.CenterOfMass),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.UpdateAuxiliaryVariables()
	return b, nil
}

// InertiaTensor is the body-frame inertia about the center of mass.
func (b *RigidBody) InertiaTensor() mgl64.Mat3 { return b.inertia }

func (b *RigidBody) InverseInertiaTensor() mgl64.Mat3 { return b.inverseInertia }

// Vertices returns the mesh relative to the center of mass. The slice is
// shared with the body and must not be modified.
func (b *RigidBody) Vertices() []mgl64.Vec3 { return b.vertices }

func (b *RigidBody) Mass() float64 { return b.CenterOfMass.Mass }

func (b *RigidBody) Position() mgl64.Vec3 { return b.CenterOfMass.Position }

// UpdateAuxiliaryVariables recomputes the world-frame quantities read by
// UpdateState and by the force laws.
func (b *RigidBody) UpdateAuxiliaryVariables() {
	b.Velocity = b.CenterOfMass.LinearMomentum.Mul(1 / b.CenterOfMass.Mass)
	b.RotationMatrix = b.Orientation.Mat4().Mat3()
	rt := b.RotationMatrix.Transpose()
	b.InverseWorldInertia = b.RotationMatrix.Mul3(b.inverseInertia).Mul3(rt)
	b.WorldInertia = b.RotationMatrix.Mul3(b.inertia).Mul3(rt)
	b.AngularVelocity = b.InverseWorldInertia.Mul3x1(b.AngularMomentum)
}

// UpdateState advances the body by dt. Momenta take the accumulated force
// and torque first; position and orientation then move with the velocities
// from the last UpdateAuxiliaryVariables call. Both accumulators are cleared.
func (b *RigidBody) UpdateState(dt float64) {
	b.AngularMomentum = b.AngularMomentum.Add(b.Torque.Mul(dt))
	b.CenterOfMass.LinearMomentum = b.CenterOfMass.LinearMomentum.Add(b.CenterOfMass.Force.Mul(dt))

	b.CenterOfMass.Position = b.CenterOfMass.Position.Add(b.Velocity.Mul(dt))

	spin := mgl64.Quat{W: 0, V: b.AngularVelocity}
	b.Orientation = b.Orientation.Add(spin.Mul(b.Orientation).Scale(0.5 * dt)).Normalize()

	b.CenterOfMass.Force = mgl64.Vec3{}
	b.Torque = mgl64.Vec3{}
}

func (b *RigidBody) AddForce(f mgl64.Vec3) {
	b.CenterOfMass.Force = b.CenterOfMass.Force.Add(f)
}

func (b *RigidBody) AddTorque(t mgl64.Vec3) {
	b.Torque = b.Torque.Add(t)
}

// Translate moves the body without touching its momenta.
func (b *RigidBody) Translate(d mgl64.Vec3) {
	b.CenterOfMass.Position = b.CenterOfMass.Position.Add(d)
}

// SetVelocity sets the linear momentum to m·v.
func (b *RigidBody) SetVelocity(v mgl64.Vec3) {
	b.CenterOfMass.LinearMomentum = v.Mul(b.CenterOfMass.Mass)
	b.UpdateAuxiliaryVariables()
}

// SetOrientation replaces the orientation, normalized.
func (b *RigidBody) SetOrientation(q mgl64.Quat) {
	b.Orientation = q.Normalize()
	b.UpdateAuxiliaryVariables()
}

// SetAngularVelocity sets the angular momentum that produces spin w under
// the current orientation.
func (b *RigidBody) SetAngularVelocity(w mgl64.Vec3) {
	b.UpdateAuxiliaryVariables()
	b.AngularMomentum = b.WorldInertia.Mul3x1(w)
	b.AngularVelocity = b.InverseWorldInertia.Mul3x1(b.AngularMomentum)
}

// KineticEnergy is the translational plus rotational energy computed from
// the current auxiliary variables.
func (b *RigidBody) KineticEnergy() float64 {
	linear := 0.5 * b.CenterOfMass.LinearMomentum.Dot(b.Velocity)
	angular := 0.5 * b.AngularMomentum.Dot(b.AngularVelocity)
	return linear + angular
}

// ModelMatrix is the local-to-world transform T(x)·R(q).
func (b *RigidBody) ModelMatrix() mgl64.Mat4 {
	p := b.CenterOfMass.Position
	return mgl64.Translate3D(p[0], p[1], p[2]).Mul4(b.Orientation.Mat4())
}
