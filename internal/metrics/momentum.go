package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/sim"
)

// MomentumDrift is the largest |P - P0| of the total linear momentum.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(w *sim.World, t float64) {
	p := w.LinearMomentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

// MaxSpin is the largest angular speed of any body.
type MaxSpin struct {
	name string
	max  float64
}

func NewMaxSpin() *MaxSpin {
	return &MaxSpin{name: "max_spin"}
}

func (m *MaxSpin) Name() string { return m.name }

func (m *MaxSpin) Observe(w *sim.World, t float64) {
	for _, b := range w.Bodies {
		m.max = math.Max(m.max, b.AngularVelocity.Len())
	}
}

func (m *MaxSpin) Value() float64 { return m.max }

func (m *MaxSpin) Reset() { m.max = 0 }
