package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Builder constructs a fresh world. Sweep calls it once per run so that no
// two goroutines ever share a body.
type Builder func() (*World, error)

// SweepResult pairs a timestep with the run it produced.
type SweepResult struct {
	Dt     float64
	Result *Result
}

// Sweep runs the same scenario at each timestep in dts concurrently. Each
// run ticks its own world on a single goroutine.
func Sweep(ctx context.Context, build Builder, dts []float64, cfg Config, metrics func() []Metric) ([]SweepResult, error) {
	results := make([]SweepResult, len(dts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, dt := range dts {
		g.Go(func() error {
			w, err := build()
			if err != nil {
				return err
			}

			s := New(w)
			if metrics != nil {
				for _, m := range metrics() {
					s.AddMetric(m)
				}
			}

			runCfg := cfg
			runCfg.Dt = dt
			res, err := s.Run(ctx, runCfg)
			if err != nil {
				return err
			}
			results[i] = SweepResult{Dt: dt, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
