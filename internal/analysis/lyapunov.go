package analysis

import (
	"context"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/sim"
)

// LyapunovExponent estimates the largest Lyapunov exponent of the
// translational motion with the Benettin method. Two copies of the world
// are built and the first body of one is displaced along x by
// perturbation. After every tick the stretch of their separation in
// position and momentum space is logged and the separation is rescaled
// back to perturbation, so
//
//	λ ≈ Σ ln(|δ_k|/δ_0) / (steps · dt)
//
// is a growth rate and does not depend on the step size.
func LyapunovExponent(ctx context.Context, build sim.Builder, dt, duration, perturbation float64) (float64, error) {
	if dt <= 0 || duration <= 0 || perturbation <= 0 {
		return 0, errors.New("lyapunov: dt, duration and perturbation must be positive")
	}

	ref, err := build()
	if err != nil {
		return 0, err
	}
	pert, err := build()
	if err != nil {
		return 0, err
	}
	if len(ref.Bodies) == 0 || len(ref.Bodies) != len(pert.Bodies) {
		return 0, sim.ErrEmptyWorld
	}
	pert.Bodies[0].Translate(mgl64.Vec3{perturbation, 0, 0})

	d0 := perturbation
	sumLog := 0.0
	steps := max(1, int(duration/dt+0.5))

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		ref.Tick(dt)
		pert.Tick(dt)

		sep := separation(ref, pert)
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, sim.ErrInvalidState
		}
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)
		renormalize(ref, pert, d0/sep)
	}

	return sumLog / (float64(steps) * dt), nil
}

func separation(a, b *sim.World) float64 {
	sum := 0.0
	for i := range a.Bodies {
		dx := b.Bodies[i].Position().Sub(a.Bodies[i].Position())
		dp := b.Bodies[i].CenterOfMass.LinearMomentum.Sub(a.Bodies[i].CenterOfMass.LinearMomentum)
		sum += dx.Dot(dx) + dp.Dot(dp)
	}
	return math.Sqrt(sum)
}

func renormalize(ref, pert *sim.World, scale float64) {
	for i := range ref.Bodies {
		r, p := ref.Bodies[i], pert.Bodies[i]
		x := r.Position().Add(p.Position().Sub(r.Position()).Mul(scale))
		p.Translate(x.Sub(p.Position()))

		mom := r.CenterOfMass.LinearMomentum
		p.CenterOfMass.LinearMomentum = mom.Add(p.CenterOfMass.LinearMomentum.Sub(mom).Mul(scale))
	}
}
