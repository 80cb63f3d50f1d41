// Package cli defines the kerf command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/kerf/internal/config"
	"github.com/chazu/kerf/internal/logging"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/bsp"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/tessellate"
)

// Execute builds the root command, runs it with args and returns any error.
func Execute(ctx context.Context, args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	cmd := newRootCommand(logger)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "kerf",
		Short:         "kerf builds solid models and exports them as meshes",
		Long:          "kerf evaluates part scripts and catalog parts into watertight meshes and writes them as OFF or STL files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			level := logging.ParseLevel(cfg.LogLevel)
			logger = logging.NewLogger(cmd.ErrOrStderr(), level)
			ctx := context.WithValue(cmd.Context(), loggerKey{}, logger)
			ctx = context.WithValue(ctx, configKey{}, cfg)
			cmd.SetContext(ctx)
			logger.Debug("config loaded", "file", cfg.File, "resolution", cfg.Resolution, "kernel", cfg.Kernel)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "Path to a kerf.yaml configuration file")
	pf.Int("resolution", tessellate.DefaultResolution, "Segments per full circle")
	pf.String("format", "off", "Default output format (off, stl)")
	pf.Int("workers", 0, "Concurrent kernel operations (0 = GOMAXPROCS)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("output-dir", ".", "Directory for outputs without an explicit path")
	pf.String("kernel", config.KernelBSP, "Geometry kernel (bsp, sdfx)")

	cmd.AddCommand(
		newRenderCommand(),
		newBuildCommand(),
		newPartsCommand(),
		newInspectCommand(),
	)
	return cmd
}

// ---------------------------------------------------------------------------
// Context plumbing
// ---------------------------------------------------------------------------

type loggerKey struct{}

type configKey struct{}

// LoggerFromContext returns the command logger, or an info-level stderr
// logger when none was stored.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}

// ConfigFromContext returns the loaded configuration.
func ConfigFromContext(ctx context.Context) (*config.Config, error) {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*config.Config); ok && c != nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("cli: configuration not loaded")
}

// newKernel returns the backend named by the configuration.
func newKernel(name string) (kernel.Kernel, error) {
	switch name {
	case config.KernelBSP:
		return bsp.New(), nil
	case config.KernelSDFX:
		return sdfx.New(), nil
	}
	return nil, fmt.Errorf("cli: unknown kernel %q", name)
}

// newEvaluator builds an evaluator from the command context.
func newEvaluator(ctx context.Context) (*tessellate.Evaluator, *config.Config, error) {
	cfg, err := ConfigFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	k, err := newKernel(cfg.Kernel)
	if err != nil {
		return nil, nil, err
	}
	ev := tessellate.New(k,
		tessellate.WithLogger(LoggerFromContext(ctx)),
		tessellate.WithWorkers(cfg.Workers),
	)
	return ev, cfg, nil
}
