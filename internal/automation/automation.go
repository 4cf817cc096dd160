package automation

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/experiment"
	"github.com/san-kum/rigidsim/internal/sim"
	"github.com/san-kum/rigidsim/internal/storage"
)

// Batch is a scripted list of runs.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []BatchStep `yaml:"steps"`
}

// BatchStep names a preset or a config file and optionally overrides its
// global parameters. Zero overrides leave the base value alone.
type BatchStep struct {
	Preset   string  `yaml:"preset"`
	Config   string  `yaml:"config"`
	G        float64 `yaml:"g"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	SaveAs   string  `yaml:"save_as"`
}

// StepResult is the outcome of one batch step. RunID is empty when the
// batch ran without a store.
type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

// LoadBatch reads a batch file. Relative config paths in its steps are
// resolved against the batch file's directory.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range batch.Steps {
		if c := batch.Steps[i].Config; c != "" && !filepath.IsAbs(c) {
			batch.Steps[i].Config = filepath.Join(dir, c)
		}
	}
	return &batch, nil
}

// Resolve returns the configuration a step runs.
func (s BatchStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		return nil, fmt.Errorf("%w: step needs a preset or a config", config.ErrInvalidConfig)
	}

	if s.G > 0 {
		cfg.G = s.G
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, cfg.Validate()
}

// RunBatch executes every step in order and saves each run to store when it
// is not nil. The first failing step ends the batch; the steps finished
// before it are returned along with the error.
func RunBatch(ctx context.Context, batch *Batch, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(batch.Steps))
	registry := experiment.NewRegistry()

	for i, step := range batch.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Printf("batch %s: step %d/%d: %s", batch.Name, i+1, len(batch.Steps), cfg.Name)

		exp := experiment.New(cfg)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: cfg.Name, Result: result}
		if store != nil {
			runID, err := store.Save(storage.RunMetadata{
				Scenario: cfg.Name,
				Seed:     cfg.Seed,
				Dt:       cfg.Dt,
				Duration: cfg.Duration,
				Masses:   exp.Masses(),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = runID
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs a base configuration across evenly spaced values of
// one global parameter: "g", "dt" or "duration".
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue  float64
	EnergyDrift float64
	MaxEnergy   float64
	MinEnergy   float64
	Stable      bool
}

func setParam(cfg *config.Config, name string, val float64) error {
	switch name {
	case "g":
		cfg.G = val
	case "dt":
		cfg.Dt = val
	case "duration":
		cfg.Duration = val
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// RunSweep executes a parameter sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", config.ErrInvalidConfig)
	}
	if err := setParam(sweep.Base.Clone(), sweep.ParamName, 0); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		_ = setParam(cfg, sweep.ParamName, paramVal)

		exp := experiment.New(cfg)
		if err := exp.Setup(nil); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		minE, maxE := energyRange(result)
		results = append(results, SweepResult{
			ParamValue:  paramVal,
			EnergyDrift: result.EnergyDrift,
			MaxEnergy:   maxE,
			MinEnergy:   minE,
			Stable:      len(result.Errors) == 0 && bounded(result),
		})

		log.Printf("sweep %d/%d: %s=%.4f", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

func energyRange(result *sim.Result) (minE, maxE float64) {
	energies := result.Energies()
	if len(energies) == 0 {
		return 0, 0
	}
	return floats.Min(energies), floats.Max(energies)
}

// bounded reports whether every body in the last sample is still within
// 1e6 of the origin.
func bounded(result *sim.Result) bool {
	if len(result.Samples) == 0 {
		return true
	}
	for _, b := range result.Samples[len(result.Samples)-1].Bodies {
		for _, v := range b.Position {
			if math.IsNaN(v) || math.Abs(v) > 1e6 {
				return false
			}
		}
	}
	return true
}

// MonteCarloConfig perturbs every body's initial velocity by a uniform
// offset in [-Perturbation, Perturbation] per component.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID     int
	Velocities  [][3]float64
	FinalEnergy float64
	EnergyDrift float64
	Stable      bool // remained finite and bounded
	Bound       bool // final total energy is negative
}

// RunMonteCarlo executes trials with random perturbations. The same seed
// always produces the same trials.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0))
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		trialCfg := cfg.Base.Clone()
		vels := make([][3]float64, len(trialCfg.Bodies))
		for i := range trialCfg.Bodies {
			for k := 0; k < 3; k++ {
				trialCfg.Bodies[i].Velocity[k] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			}
			vels[i] = trialCfg.Bodies[i].Velocity
		}

		exp := experiment.New(trialCfg)
		if err := exp.Setup(nil); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		final := 0.0
		if n := len(result.Samples); n > 0 {
			final = result.Samples[n-1].Energy
		}
		results = append(results, MonteCarloResult{
			TrialID:     trial,
			Velocities:  vels,
			FinalEnergy: final,
			EnergyDrift: result.EnergyDrift,
			Stable:      len(result.Errors) == 0 && bounded(result),
			Bound:       final < 0,
		})

		if (trial+1)%10 == 0 {
			log.Printf("monte carlo: %d/%d trials complete", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
