package metrics

import (
	"math"

	"github.com/san-kum/rigidsim/internal/sim"
)

// Energy is the mean total energy over the observed samples.
type Energy struct {
	sum float64
	n   int
}

func NewEnergy() *Energy { return &Energy{} }

func (*Energy) Name() string { return "energy" }

func (e *Energy) Observe(w *sim.World, _ float64) {
	e.sum += w.Energy()
	e.n++
}

func (e *Energy) Value() float64 {
	if e.n == 0 {
		return 0
	}
	return e.sum / float64(e.n)
}

func (e *Energy) Reset() { *e = Energy{} }

// EnergyDrift is the largest relative departure from the first observed
// energy. A zero reference energy reports no drift.
type EnergyDrift struct {
	reference float64
	started   bool
	worst     float64
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (*EnergyDrift) Name() string { return "energy_drift" }

func (d *EnergyDrift) Observe(w *sim.World, _ float64) {
	e := w.Energy()
	if !d.started {
		d.reference, d.started = e, true
		return
	}
	if d.reference != 0 {
		d.worst = math.Max(d.worst, math.Abs((e-d.reference)/d.reference))
	}
}

func (d *EnergyDrift) Value() float64 { return d.worst }

func (d *EnergyDrift) Reset() { *d = EnergyDrift{} }
