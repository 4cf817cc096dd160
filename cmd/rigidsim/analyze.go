package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigidsim/internal/analysis"
	"github.com/san-kum/rigidsim/internal/export"
	"github.com/san-kum/rigidsim/internal/scenario"
	"github.com/san-kum/rigidsim/internal/sim"
	"github.com/san-kum/rigidsim/internal/storage"
)

var (
	columns      []string
	column       string
	xColumn      string
	yColumn      string
	crossColumn  string
	crossAt      float64
	outFile      string
	svgWidth     int
	svgHeight    int
	lyapunovPert float64
)

func addAnalysisCommands(root *cobra.Command) {
	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded columns against sample index",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", []string{"energy"}, "columns to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of one column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "b0_x", "column to analyze")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot of two columns",
		Long:  "With --cross the Poincaré section is drawn instead, sampled where the cross column passes --at going upward.",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xColumn, "x", "b0_x", "column for the x axis")
	phaseCmd.Flags().StringVar(&yColumn, "y", "b0_lx", "column for the y axis")
	phaseCmd.Flags().StringVar(&crossColumn, "cross", "", "column defining the Poincaré plane")
	phaseCmd.Flags().Float64Var(&crossAt, "at", 0, "crossing threshold")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw every body's trajectory on the XY plane",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [preset]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  lyapunov,
	}
	addConfigFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&lyapunovPert, "perturbation", 1e-8, "initial displacement of the first body")

	root.AddCommand(plotCmd, analyzeCmd, phaseCmd, exportSVGCmd, lyapunovCmd)
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	if series.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", series.Len())

	for _, name := range columns {
		data, err := series.Column(name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	data, err := series.Column(column)
	if err != nil {
		return err
	}

	times := series.Times()
	if len(times) < 2 {
		return fmt.Errorf("need at least two samples")
	}
	sampleDt := times[1] - times[0]

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s, sample interval %.4gs\n\n", column, sampleDt)

	ps := analysis.PowerSpectrum(data)
	plotData := ps
	if len(ps) >= 8 {
		plotData = ps[:len(ps)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.4g hz (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.4g s\n", 1.0/freq)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	xs, err := series.Column(xColumn)
	if err != nil {
		return err
	}
	ys, err := series.Column(yColumn)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	if crossColumn == "" {
		fmt.Printf("phase space: %s vs %s\n\n", yColumn, xColumn)
		fmt.Println(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(xs, ys), 70, 20))
		fmt.Println(". early  o middle  • late")
		return nil
	}

	cross, err := series.Column(crossColumn)
	if err != nil {
		return err
	}
	section := analysis.NewPoincareSection(cross, xs, ys, crossAt)
	fmt.Printf("poincaré section at %s = %g: %d crossings\n\n", crossColumn, crossAt, len(section.Points))
	fmt.Println(analysis.PoincareSectionToASCII(section, 70, 20))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	trajs := make([]export.Trajectory, 0, series.Bodies())
	for i := 0; i < series.Bodies(); i++ {
		xs, ys, _, err := series.Positions(i)
		if err != nil {
			return err
		}
		tr := export.Trajectory{Label: fmt.Sprintf("body%d", i)}
		for j := range xs {
			tr.Points = append(tr.Points, struct{ X, Y float64 }{xs[j], ys[j]})
		}
		trajs = append(trajs, tr)
	}

	svg := export.TrajectoriesToSVG(trajs, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}
	if outFile == "" {
		_, err = fmt.Println(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	build := func() (*sim.World, error) { return scenario.Build(cfg) }
	lambda, err := analysis.LyapunovExponent(cmd.Context(), build, cfg.Dt, cfg.Duration, lyapunovPert)
	if err != nil {
		return err
	}

	fmt.Printf("%s: λ ≈ %.4g per unit time\n", cfg.Name, lambda)
	if lambda > 0 {
		fmt.Printf("predictability horizon ≈ %.3g\n", 1/lambda)
	}
	return nil
}
