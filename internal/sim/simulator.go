package sim

import (
	"context"
	"fmt"
	"log"
	"math"
)

type Simulator struct {
	world     *World
	metrics   []Metric
	observers []Observer
}

func New(world *World) *Simulator {
	return &Simulator{
		world:     world,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// AddObserver registers o with both Run and RunWithCallback. Observers see
// the world before every tick.
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) notify(t float64) {
	for _, obs := range s.observers {
		obs.OnStep(s.world, t)
	}
}

func (s *Simulator) World() *World { return s.world }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	every := cfg.SampleEvery
	if every == 0 {
		every = 1
	}

	result := &Result{
		Samples: make([]Snapshot, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	w := s.world
	t := 0.0
	initialEnergy := w.Energy()
	initialMomentum := w.LinearMomentum()
	result.Samples = append(result.Samples, w.Snapshot(t))

	log.Printf("sim: run start bodies=%d steps=%d dt=%g energy=%.6e", len(w.Bodies), steps, cfg.Dt, initialEnergy)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(w, t)
		}
		s.notify(t)

		w.Tick(cfg.Dt)
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !w.IsValid() {
			err := &SimulationError{Step: i, Time: t, Wrapped: ErrInvalidState}
			log.Printf("sim: %v", err)
			result.Errors = append(result.Errors, err)
			break
		}

		if (i+1)%every == 0 || i == steps-1 {
			result.Samples = append(result.Samples, w.Snapshot(t))
		}
	}

	if w.IsValid() {
		// metrics see the final state too, so they agree with the drifts below
		for _, m := range s.metrics {
			m.Observe(w, t)
		}

		finalEnergy := w.Energy()
		if initialEnergy != 0 {
			result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
		}
		result.MomentumDrift = w.LinearMomentum().Sub(initialMomentum).Len()
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.Printf("sim: run done steps=%d drift=%.3e", result.StepsTaken, result.EnergyDrift)
	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.world == nil || len(s.world.Bodies) == 0 {
		return ErrEmptyWorld
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	return nil
}

// RunWithCallback ticks until Duration elapses, the context ends or the
// callback returns false. The callback sees the world before each tick,
// after the observers; a nil callback never stops the run. Nothing is
// recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(w *World, t float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	steps := cfg.Steps()
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.notify(t)
		if callback != nil && !callback(s.world, t) {
			return nil
		}

		s.world.Tick(cfg.Dt)
		t = float64(i+1) * cfg.Dt

		if cfg.ValidateState && !s.world.IsValid() {
			return &SimulationError{Step: i, Time: t, Wrapped: ErrInvalidState}
		}
	}

	return nil
}
