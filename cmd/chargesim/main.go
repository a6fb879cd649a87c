package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/chargesim/internal/config"
	"github.com/san-kum/chargesim/internal/observability"
)

var (
	settings = viper.New()

	settingsFile string
	configFile   string
	dt           float64
	ticks        int
	workers      int
)

// main wires the subcommands and launches the windowed sandbox when no
// subcommand is given.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "chargesim",
		Short:         "2D point charge sandbox",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initSettings(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
		RunE: runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("data", ".chargesim", "data directory")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	pf.String("log-file", "", "also write logs to this file, rotated")
	pf.StringVar(&settingsFile, "settings", "", "settings file (default ./chargesim.yaml if present)")
	for key, flag := range map[string]string{
		"data":       "data",
		"log.level":  "log-level",
		"log.format": "log-format",
		"log.file":   "log-file",
	} {
		_ = settings.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(
		guiCommand(),
		tuiCommand(),
		runCommand(),
		listCommand(),
		plotCommand(),
		exportCommand(),
		analyzeCommand(),
		sweepCommand(),
		lyapunovCommand(),
		presetsCommand(),
		benchCommand(),
		snapshotCommand(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		observability.Sync()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initSettings reads the optional settings file and environment, then
// starts the logger. Flags and CHARGESIM_* variables override the file.
// The terminal sandbox owns the screen, so it only logs to a file.
func initSettings(cmd *cobra.Command) error {
	if settingsFile != "" {
		settings.SetConfigFile(settingsFile)
	} else {
		settings.AddConfigPath(".")
		settings.SetConfigName("chargesim")
		settings.SetConfigType("yaml")
	}
	settings.SetEnvPrefix("CHARGESIM")
	settings.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	settings.AutomaticEnv()

	if err := settings.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && settingsFile != "" {
			return fmt.Errorf("read settings: %w", err)
		}
	}

	lc := config.DefaultLogger()
	if err := settings.UnmarshalKey("logger", &lc); err != nil {
		return fmt.Errorf("logger settings: %w", err)
	}
	for key, dst := range map[string]*string{
		"log.level":  &lc.Level,
		"log.format": &lc.Format,
		"log.file":   &lc.LogFile,
	} {
		if settings.IsSet(key) || *dst == "" {
			*dst = settings.GetString(key)
		}
	}

	if cmd.Name() == "tui" {
		observability.InitializeDiscard(lc)
	} else {
		observability.InitializeLogger(lc)
	}
	return nil
}

func dataDir() string { return settings.GetString("data") }

func logger() *zap.Logger { return observability.GetLogger() }
