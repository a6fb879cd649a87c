package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/chargesim/internal/config"
	"github.com/san-kum/chargesim/internal/experiment"
	"github.com/san-kum/chargesim/internal/storage"
	"github.com/san-kum/chargesim/internal/tui"
)

var (
	metricNames []string
	sampleField bool
	runAll      bool
	live        bool
	frameRate   int
)

func runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario headlessly and record its trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	scenarioFlags(cmd)
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	cmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default all)")
	cmd.Flags().BoolVar(&sampleField, "sample-field", false, "sample the probe lattice and potential grid each tick")
	cmd.Flags().BoolVar(&runAll, "all", false, "run every preset concurrently")
	cmd.Flags().BoolVar(&live, "live", false, "draw the run in the terminal as it ticks")
	cmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	return cmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	if err := st.Init(); err != nil {
		return err
	}
	if runAll {
		return runPresets(cmd, st)
	}

	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("sample-field") {
		cfg.Run.SampleField = sampleField
	}

	registry := experiment.NewRegistry()
	ms, err := registry.Metrics(metricNames, cfg)
	if err != nil {
		return err
	}

	log := logger().With(zap.String("scenario", cfg.Name))
	exp := experiment.New(cfg, log)
	if err := exp.Setup(ms); err != nil {
		return err
	}
	if live {
		r := tui.NewLiveRenderer(os.Stdout, cfg.Name, cfg.Field.Width, cfg.Field.Height, frameRate)
		exp.Simulator().AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	fmt.Printf("running %s for %d ticks...\n", cfg.Name, cfg.Run.Ticks)
	start := time.Now()
	result, runErr := exp.Run(cmd.Context())
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}

	runID, err := st.Save(result.Metadata(cfg), result.Trace)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d  merges: %d  live charges: %d\n", result.Ticks, len(result.Merges), len(result.Final))
	printMetrics(result.Metrics)
	return runErr
}

func runPresets(cmd *cobra.Command, st *storage.Store) error {
	names := config.ListPresets()
	cfgs := make([]*config.Config, len(names))
	for i, name := range names {
		cfg := config.GetPreset(name)
		if cmd.Flags().Changed("dt") {
			cfg.Run.Dt = dt
		}
		if cmd.Flags().Changed("ticks") {
			cfg.Run.Ticks = ticks
		}
		cfg.Run.SampleField = sampleField
		cfgs[i] = cfg
	}

	start := time.Now()
	results, err := experiment.NewBatch(experiment.NewRegistry(), logger(), 0).Run(cmd.Context(), cfgs)
	if err != nil {
		return err
	}
	fmt.Printf("ran %d presets in %v\n", len(results), time.Since(start))
	for i, res := range results {
		runID, err := st.Save(res.Metadata(cfgs[i]), res.Trace)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s -> %s\n", res.Scenario, runID)
		printMetrics(res.Metrics)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}
