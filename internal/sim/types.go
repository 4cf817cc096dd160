package sim

import (
	"github.com/go-gl/mathgl/mgl64"
)

// BodyState is the recorded state of one body.
type BodyState struct {
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	LinearMomentum  mgl64.Vec3
	AngularMomentum mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

type Snapshot struct {
	Time   float64
	Energy float64
	Bodies []BodyState
}

type Metric interface {
	Name() string
	Observe(w *World, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *World, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.005,
		Duration:      10.0,
		SampleEvery:   10,
		ValidateState: true,
	}
}

// Steps is the number of ticks needed to cover Duration.
func (c Config) Steps() int {
	return int(c.Duration/c.Dt + 0.5)
}

type Result struct {
	Samples       []Snapshot
	Metrics       map[string]float64
	EnergyDrift   float64
	MomentumDrift float64
	StepsTaken    int
	Errors        []error
}

// Times returns the sample times.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Time
	}
	return out
}

// Energies returns the total energy at each sample.
func (r *Result) Energies() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Energy
	}
	return out
}
