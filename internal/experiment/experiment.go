package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/scenario"
	"github.com/san-kum/rigidsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the world described by the configuration and attaches the
// given metrics.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	world, err := scenario.Build(e.cfg)
	if err != nil {
		return fmt.Errorf("build %s: %w", e.cfg.Name, err)
	}
	e.simulator = sim.New(world)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		SampleEvery:   e.cfg.SampleEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}

// Masses returns the mass of every body, or nil before Setup.
func (e *Experiment) Masses() []float64 {
	if e.simulator == nil {
		return nil
	}
	bodies := e.simulator.World().Bodies
	out := make([]float64, len(bodies))
	for i, b := range bodies {
		out[i] = b.Mass()
	}
	return out
}
