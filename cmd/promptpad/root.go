package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/randalmurphal/promptpad/config"
)

// app holds the state shared by every subcommand.
type app struct {
	verbose    bool
	configPath string
	logger     *zap.Logger
}

func newRootCmd(version string) *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "promptpad",
		Short: "Write prompts in your editor and send them to Claude",
		Long: `promptpad opens a scratch file in your editor. When you close it, the text
is sent to the terminal running Claude in the same tmux session, creating
that terminal first if needed.

Configuration is read from ~/.config/promptpad and .promptpad.{toml,yaml,json}
in the working directory, then from PROMPTPAD_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initLogger(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file layered over the standard ones")

	root.AddCommand(
		a.openCmd(),
		a.sendCmd(),
		a.panelCmd(),
		a.serveCmd(),
		a.channelsCmd(),
		a.configCmd(),
		schemaCmd(),
		versionCmd(version),
	)
	return root
}

// Execute runs the root command.
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// initLogger builds a production logger. The panel owns the terminal, so it
// logs to a file instead of stderr.
func (a *app) initLogger(cmd *cobra.Command) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cmd.Name() == "panel" {
		path := filepath.Join(os.TempDir(), "promptpad.log")
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// loadConfig layers the standard config sources, then the --config file.
func (a *app) loadConfig() (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("working directory: %w", err)
	}
	cfg, err := config.LoadDefault(wd)
	if err != nil {
		return cfg, err
	}
	if a.configPath == "" {
		return cfg, nil
	}

	if _, err := os.Stat(a.configPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config file %s does not exist", a.configPath)
		}
		return cfg, err
	}
	if err := cfg.Load(a.configPath); err != nil {
		return cfg, err
	}
	cfg.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
