// Package scenario turns a configuration into a populated world.
package scenario

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/mesh"
	"github.com/san-kum/rigidsim/internal/rigid"
	"github.com/san-kum/rigidsim/internal/sim"
)

var meshes = mesh.NewRegistry()

// Build validates cfg and creates one body per entry. Start conditions are
// applied as translate, linear momentum, orientation and finally spin, so
// that the spin is taken in the world frame of the final orientation.
func Build(cfg *config.Config) (*sim.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bodies := make([]*rigid.RigidBody, len(cfg.Bodies))
	for i, bc := range cfg.Bodies {
		b, err := BuildBody(bc)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		bodies[i] = b
	}
	return sim.NewWorld(cfg.G, bodies...), nil
}

func BuildBody(bc config.BodyConfig) (*rigid.RigidBody, error) {
	vertices, err := Vertices(bc)
	if err != nil {
		return nil, err
	}

	b, err := rigid.New(bc.Density, vertices)
	if err != nil {
		return nil, err
	}

	b.Translate(vec(bc.Position))
	b.SetVelocity(vec(bc.Velocity))
	b.SetOrientation(Orientation(bc.Orientation))
	b.SetAngularVelocity(vec(bc.AngularVelocity))
	return b, nil
}

// Vertices resolves the body mesh, explicit vertices first.
func Vertices(bc config.BodyConfig) ([]mgl64.Vec3, error) {
	if len(bc.Vertices) > 0 {
		v := mesh.FromArrays(bc.Vertices)
		if err := mesh.Validate(v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return meshes.Lookup(bc.Mesh, bc.Size)
}

func Orientation(o config.OrientationConfig) mgl64.Quat {
	axis := vec(o.Axis)
	if axis.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(o.Angle, axis.Normalize())
}

// MeshNames lists the meshes a body config may name.
func MeshNames() []string {
	return meshes.Names()
}

func Mesh(name string, size float64) ([]mgl64.Vec3, error) {
	return meshes.Lookup(name, size)
}

func vec(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}
