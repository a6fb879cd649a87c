package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/chargesim/internal/analysis"
	"github.com/san-kum/chargesim/internal/config"
	"github.com/san-kum/chargesim/internal/experiment"
)

var (
	sweepParam  string
	sweepFrom   float64
	sweepTo     float64
	sweepSteps  int
	sweepMetric string
	lyapIndex   int
	lyapEps     float64
)

func sweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep a physics parameter and plot a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	scenarioFlags(cmd)
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks per run")
	cmd.Flags().StringVar(&sweepParam, "param", "friction", "parameter ("+strings.Join(analysis.SweepParams(), ", ")+")")
	cmd.Flags().Float64Var(&sweepFrom, "from", 0.5, "first value")
	cmd.Flags().Float64Var(&sweepTo, "to", 1.0, "last value")
	cmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of values")
	cmd.Flags().StringVar(&sweepMetric, "metric", "kinetic_energy", "metric to record")
	return cmd
}

func lyapunovCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lyapunov [preset]",
		Short: "estimate sensitivity to a small displacement of one charge",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLyapunov,
	}
	scenarioFlags(cmd)
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to simulate")
	cmd.Flags().IntVar(&lyapIndex, "index", 0, "index of the charge to displace")
	cmd.Flags().Float64Var(&lyapEps, "eps", 1e-3, "displacement in pixels")
	return cmd
}

func presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCHARGES\tTICKS\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, len(p.Charges), p.Ticks, p.Description)
			}
			return w.Flush()
		},
	}
}

func benchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput",
		RunE:  runBench,
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	fmt.Printf("sweeping %s over [%g, %g] in %d steps on %s...\n", sweepParam, sweepFrom, sweepTo, sweepSteps, cfg.Name)
	points, err := analysis.Sweep(cmd.Context(), cfg, sweepParam, sweepFrom, sweepTo, sweepSteps, sweepMetric, 0, logger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(sweepMetric))
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%.6g\n", p.Param, p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(analysis.SweepToASCII(points, sweepParam, sweepMetric, 60, 10))
	return nil
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	lambda, err := analysis.LyapunovExponent(cmd.Context(), cfg, lyapIndex, lyapEps, logger())
	if err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", cfg.Name)
	fmt.Printf("lyapunov exponent: %.4f /s\n", lambda)
	if lambda > 0 {
		fmt.Println("nearby placements diverge")
	} else {
		fmt.Println("nearby placements stay together")
	}
	return nil
}

// benchScenario lays out n free charges of alternating sign on a grid
// spaced wider than the merge distance.
func benchScenario(n int, sampleField bool) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Name = fmt.Sprintf("bench-%d", n)
	cfg.Run.SampleField = sampleField
	cols := 8
	for i := 0; i < n; i++ {
		sign := "+"
		if (i/cols+i%cols)%2 == 1 {
			sign = "-"
		}
		cfg.Charges = append(cfg.Charges, config.ChargeConfig{
			Sign: sign,
			X:    60 + float64(i%cols)*100,
			Y:    60 + float64(i/cols)*110,
		})
	}
	return cfg
}

func runBench(cmd *cobra.Command, args []string) error {
	const benchTicks = 120

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHARGES\tFIELD\tTICKS\tTIME\tTICKS/SEC")

	for _, n := range []int{2, 8, 32} {
		for _, field := range []bool{false, true} {
			cfg := benchScenario(n, field)
			s, err := experiment.NewSimulator(cfg, logger())
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchTicks; i++ {
				if _, err := s.Tick(cmd.Context(), cfg.Run.Dt); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%t\t%d\t%v\t%.0f\n",
				n, field, benchTicks, elapsed, float64(benchTicks)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
