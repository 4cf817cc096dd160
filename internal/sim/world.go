package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/rigid"
)

// World is a set of rigid bodies attracting each other with constant G.
type World struct {
	Bodies []*rigid.RigidBody
	G      float64
	Ticks  int
}

func NewWorld(g float64, bodies ...*rigid.RigidBody) *World {
	return &World{Bodies: bodies, G: g}
}

// Tick refreshes every body, accumulates every pairwise interaction and
// then advances every body, in that order.
func (w *World) Tick(dt float64) {
	w.refresh()
	rigid.ApplyGravity(w.Bodies, w.G)
	for _, b := range w.Bodies {
		b.UpdateState(dt)
	}
	w.Ticks++
}

func (w *World) refresh() {
	for _, b := range w.Bodies {
		b.UpdateAuxiliaryVariables()
	}
}

// Energy is the total kinetic plus point-mass potential energy.
func (w *World) Energy() float64 {
	w.refresh()
	e := rigid.PotentialEnergy(w.Bodies, w.G)
	for _, b := range w.Bodies {
		e += b.KineticEnergy()
	}
	return e
}

func (w *World) LinearMomentum() mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range w.Bodies {
		p = p.Add(b.CenterOfMass.LinearMomentum)
	}
	return p
}

// AngularMomentum is the orbital plus spin angular momentum about the origin.
func (w *World) AngularMomentum() mgl64.Vec3 {
	var l mgl64.Vec3
	for _, b := range w.Bodies {
		l = l.Add(b.Position().Cross(b.CenterOfMass.LinearMomentum)).Add(b.AngularMomentum)
	}
	return l
}

// IsValid reports whether every body has a finite state.
func (w *World) IsValid() bool {
	for _, b := range w.Bodies {
		x := b.Position()
		p := b.CenterOfMass.LinearMomentum
		l := b.AngularMomentum
		q := b.Orientation
		vals := []float64{x[0], x[1], x[2], p[0], p[1], p[2], l[0], l[1], l[2], q.W, q.V[0], q.V[1], q.V[2]}
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Snapshot copies the state of every body at time t.
func (w *World) Snapshot(t float64) Snapshot {
	s := Snapshot{
		Time:   t,
		Energy: w.Energy(),
		Bodies: make([]BodyState, len(w.Bodies)),
	}
	for i, b := range w.Bodies {
		s.Bodies[i] = BodyState{
			Position:        b.Position(),
			Orientation:     b.Orientation,
			LinearMomentum:  b.CenterOfMass.LinearMomentum,
			AngularMomentum: b.AngularMomentum,
			AngularVelocity: b.AngularVelocity,
		}
	}
	return s
}
