package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/chargesim/internal/config"
	"github.com/san-kum/chargesim/internal/storage"
)

// loadScenario resolves the scenario for a command: --config wins, then a
// preset named by the first argument, then the empty sandbox. Explicit
// --dt and --ticks flags override whatever was loaded.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Lookup("dt") != nil && flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Lookup("ticks") != nil && flags.Changed("ticks") {
		cfg.Run.Ticks = ticks
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Field.Workers = workers
	}
	return cfg, cfg.Validate()
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().IntVar(&workers, "workers", 0, "field sampling workers (0 = all CPUs)")
}

// resolveRun maps "latest" to the newest stored run.
func resolveRun(st *storage.Store, id string) (string, error) {
	if id != "latest" {
		return id, nil
	}
	return st.Latest()
}
