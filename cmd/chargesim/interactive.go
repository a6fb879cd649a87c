package main

import (
	"github.com/spf13/cobra"

	"github.com/san-kum/chargesim/internal/experiment"
	"github.com/san-kum/chargesim/internal/gui"
	"github.com/san-kum/chargesim/internal/tui"
)

func guiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "windowed sandbox",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	scenarioFlags(cmd)
	return cmd
}

func tuiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [preset]",
		Short: "terminal sandbox",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}
			cfg.Run.SampleField = true
			s, err := experiment.NewSimulator(cfg, logger())
			if err != nil {
				return err
			}
			return tui.RunInteractive(cmd.Context(), s, cfg.Run.Dt, logger())
		},
	}
	scenarioFlags(cmd)
	return cmd
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	cfg.Run.SampleField = true
	s, err := experiment.NewSimulator(cfg, logger())
	if err != nil {
		return err
	}
	return gui.Run(cmd.Context(), s, cfg.Run.Dt, logger())
}
