package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"engagemon/internal/bootstrap"
	"engagemon/internal/platform/config"
	"engagemon/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	simulated  bool
	interval   int
	capacity   int
	threshold  float64
	seed       uint64
	exportDir  string
	logFile    string
	logLevel   string
	headless   bool
	ticks      int
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "engagemon",
		Short:         "Real-time engagement monitor",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, f, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			headless := f.headless || !isatty.IsTerminal(os.Stdout.Fd())
			return run(cmd.Context(), cfg, headless, f.ticks, cmd.OutOrStdout())
		},
	}
	fl := root.Flags()
	fl.StringVar(&f.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	fl.BoolVar(&f.simulated, "simulated", false, "use simulated sample sources only")
	fl.IntVar(&f.interval, "interval", 0, fmt.Sprintf("tick interval in seconds (%d-%d)", config.MinTickSeconds, config.MaxTickSeconds))
	fl.IntVar(&f.capacity, "capacity", 0, "records kept in the session buffer")
	fl.Float64Var(&f.threshold, "threshold", 0, "minimum confidence for an engaged record")
	fl.Uint64Var(&f.seed, "seed", 0, "seed for simulated sources (0 picks one)")
	fl.StringVar(&f.exportDir, "export-dir", "", "directory for CSV exports")
	fl.StringVar(&f.logFile, "log-file", "", "log file used while the UI owns the terminal")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: trace|debug|info|warn|error")
	fl.BoolVar(&f.headless, "headless", false, "run without the terminal UI")
	fl.IntVar(&f.ticks, "ticks", 0, "headless ticks before exporting (0 runs until interrupted)")
	return root
}

// applyFlags overlays only the flags set on the command line.
func applyFlags(cmd *cobra.Command, f flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("simulated") {
		cfg.Simulated = f.simulated
	}
	if changed("interval") {
		cfg.TickSeconds = f.interval
	}
	if changed("capacity") {
		cfg.Capacity = f.capacity
	}
	if changed("threshold") {
		cfg.ConfidenceThreshold = f.threshold
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("export-dir") {
		cfg.ExportDir = f.exportDir
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

func run(parent context.Context, cfg config.Config, headless bool, ticks int, out io.Writer) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logOpts := logging.Options{Level: cfg.LogLevel, Path: cfg.LogFile}
	if headless {
		logOpts.Path = ""
	}
	logger, closer, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	defer closer.Close()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close sample sources", "error", err)
		}
	}()

	if headless {
		return bootstrap.RunHeadless(ctx, app, ticks, out)
	}
	return bootstrap.RunTUI(app)
}
