package experiment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/sim"
)

// Registry maps metric names to constructors. Metrics hold per-run state,
// so every lookup returns a fresh instance.
type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["energy"] = func() sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["momentum_drift"] = func() sim.Metric { return metrics.NewMomentumDrift() }
	r.metrics["min_separation"] = func() sim.Metric { return metrics.NewMinSeparation() }
	r.metrics["max_spin"] = func() sim.Metric { return metrics.NewMaxSpin() }
	r.metrics["quat_norm_error"] = func() sim.Metric { return metrics.NewQuatNorm() }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns fresh metrics for names, or the defaults when names is
// empty. An unknown name fails the whole selection.
func (r *Registry) Select(names []string) ([]sim.Metric, error) {
	if len(names) == 0 {
		return r.DefaultMetrics(), nil
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(r.ListMetrics(), ", "))
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewMinSeparation(),
		metrics.NewMaxSpin(),
		metrics.NewQuatNorm(),
	}
}
