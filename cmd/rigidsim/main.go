package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/rigidsim/internal/automation"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/experiment"
	"github.com/san-kum/rigidsim/internal/rigid"
	"github.com/san-kum/rigidsim/internal/scenario"
	"github.com/san-kum/rigidsim/internal/sim"
	"github.com/san-kum/rigidsim/internal/storage"
	"github.com/san-kum/rigidsim/internal/viz"
)

var (
	dataDir string
	debug   bool
	logFile *os.File

	dt          float64
	duration    float64
	gravity     float64
	sampleEvery int
	seed        int64
	configFile  string

	meshSize    float64
	density     float64
	metricNames []string

	perturbation float64
	trials       int
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
)

// main registers every command and runs the root command. With no
// subcommand it opens the interactive preset menu.
func main() {
	rootCmd := &cobra.Command{
		Use:   "rigidsim",
		Short: "rigid body gravity simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(dataDir, debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug log to <data>/logs/debug.log")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default: all drift and stability metrics)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live visualization",
		Long:  "Without a preset or --config the interactive preset menu opens.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [mesh]",
		Short: "print mass properties of a mesh",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectMesh,
	}
	inspectCmd.Flags().Float64Var(&meshSize, "size", config.DefaultSize, "mesh size")
	inspectCmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "density")

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [dt1] [dt2] ...",
		Short: "run one preset at several timesteps concurrently",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareTimesteps,
	}
	addConfigFlags(compareCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run every step of a batch file and save the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one global parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "g", "parameter to sweep (g, dt, duration)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "run trials with perturbed initial velocities",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 0.01, "velocity perturbation")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark a preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchPreset,
	}
	benchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(runCmd, listCmd, exportCmd, exportCSVCmd, exportJSONCmd, liveCmd, presetsCmd,
		inspectCmd, compareCmd, batchCmd, sweepCmd, monteCarloCmd, benchCmd)
	addAnalysisCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "record every n-th tick")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
}

// loadConfig resolves the configuration for a command: --config wins over
// the preset argument, which defaults to binary. Flags override the loaded
// values only when set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		name := "binary"
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
		if cfg.Name == "cluster" && configFile == "" {
			regen := config.Cluster(len(cfg.Bodies), seed)
			cfg.Bodies = regen.Bodies
		}
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Printf("config %s: %d bodies, g=%g dt=%g duration=%g", cfg.Name, len(cfg.Bodies), cfg.G, cfg.Dt, cfg.Duration)
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, metrics[name])
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	metrics, err := experiment.NewRegistry().Select(metricNames)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(metrics); err != nil {
		return err
	}

	fmt.Printf("running %s (%d bodies, %d steps)...\n", cfg.Name, len(cfg.Bodies), cfg.Steps())
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Scenario: cfg.Name,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Masses:   exp.Masses(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, samples: %d\n", result.StepsTaken, len(result.Samples))
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	for _, e := range result.Errors {
		fmt.Printf("\nstopped early: %v\n", e)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tDURATION\tDT\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Dt,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	f, err := os.Open(st.CSVPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(os.Stdout, f)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, series)
}

// opensMenu reports whether live was given nothing to run, in which case
// the preset menu picks it.
func opensMenu(args []string) bool {
	return len(args) == 0 && configFile == ""
}

func runLive(cmd *cobra.Command, args []string) error {
	if opensMenu(args) {
		return viz.RunInteractive()
	}
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tG\tDT\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%gs\n", name, len(cfg.Bodies), cfg.G, cfg.Dt, cfg.Duration)
	}
	return w.Flush()
}

func inspectMesh(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("meshes:")
		for _, name := range scenario.MeshNames() {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}

	if meshSize <= 0 {
		return fmt.Errorf("size must be positive, got %g", meshSize)
	}
	verts, err := scenario.Mesh(args[0], meshSize)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, scenario.MeshNames())
	}

	mp, err := rigid.ComputeMassProperties(density, verts)
	if err != nil {
		return err
	}
	body, err := rigid.New(density, verts)
	if err != nil {
		return err
	}
	moments, axes, err := body.PrincipalMoments()
	if err != nil {
		return err
	}

	fmt.Printf("mesh: %s (size %g, density %g)\n", args[0], meshSize, density)
	fmt.Printf("triangles: %d\n", len(verts)/3)
	fmt.Printf("volume: %.6g\n", mp.Volume)
	fmt.Printf("mass: %.6g\n", mp.Mass)
	c := mp.CenterOfMass
	fmt.Printf("center of mass: (%.6g, %.6g, %.6g)\n", c[0], c[1], c[2])
	fmt.Println("\ninertia about center of mass:")
	for row := 0; row < 3; row++ {
		fmt.Printf("  [% .6e % .6e % .6e]\n", mp.Inertia.At(row, 0), mp.Inertia.At(row, 1), mp.Inertia.At(row, 2))
	}
	fmt.Println("\nprincipal moments:")
	for i := range moments {
		a := axes[i]
		fmt.Printf("  %.6e  axis (% .4f % .4f % .4f)\n", moments[i], a[0], a[1], a[2])
	}
	return nil
}

func compareTimesteps(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	dts := make([]float64, 0, len(args)-1)
	for _, arg := range args[1:] {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid timestep %q", arg)
		}
		dts = append(dts, v)
	}

	registry := experiment.NewRegistry()
	build := func() (*sim.World, error) { return scenario.Build(cfg) }
	simCfg := sim.Config{Duration: cfg.Duration, SampleEvery: cfg.SampleEvery, ValidateState: true}

	fmt.Printf("comparing timesteps for %s (duration=%.1fs)\n\n", cfg.Name, cfg.Duration)
	start := time.Now()
	results, err := sim.Sweep(cmd.Context(), build, dts, simCfg, registry.DefaultMetrics)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY_DRIFT\tMOMENTUM_DRIFT\tQUAT_NORM_ERROR")
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d\t%.3e\t%.3e\t%.3e\n", r.Dt, r.Result.StepsTaken,
			r.Result.EnergyDrift, r.Result.Metrics["momentum_drift"], r.Result.Metrics["quat_norm_error"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nwall time: %v\n", time.Since(start))
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	fmt.Printf("batch %s: %d steps\n", batch.Name, len(batch.Steps))
	results, err := automation.RunBatch(cmd.Context(), batch, st)
	for i, r := range results {
		fmt.Printf("  %d  %-20s %s  drift=%.2e\n", i+1, r.Name, r.RunID, r.Result.EnergyDrift)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMIN_ENERGY\tMAX_ENERGY\tDRIFT\tSTABLE\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.6g\t%.6g\t%.2e\t%v\n", r.ParamValue, r.MinEnergy, r.MaxEnergy, r.EnergyDrift, r.Stable)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return err
	}

	bound := 0
	for _, r := range results {
		if r.Bound {
			bound++
		}
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("%s: %d trials, perturbation %g\n", cfg.Name, len(results), perturbation)
	fmt.Printf("  stable:   %d\n", stable)
	fmt.Printf("  unstable: %d\n", unstable)
	fmt.Printf("  bound:    %d\n", bound)
	return nil
}

func benchPreset(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0}
	dts := []float64{0.01, 0.005, 0.001}

	fmt.Printf("benchmarking %s (%d bodies)\n\n", base.Name, len(base.Bodies))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := base.Clone()
			cfg.Dt, cfg.Duration = step, dur

			exp := experiment.New(cfg)
			if err := exp.Setup(nil); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}
	return w.Flush()
}
