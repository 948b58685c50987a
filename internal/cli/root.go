// Package cli defines the command-line interface for portfolio-optimizer.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/portfolio-optimizer/internal/config"
	"github.com/iwvelando/portfolio-optimizer/internal/logging"
	"github.com/iwvelando/portfolio-optimizer/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	LogLevel   string
	Version    string
}

// Execute builds the root command, runs it with the provided args and
// returns any error. Command output goes to stdout.
func Execute(ctx context.Context, args []string, stdout io.Writer, version string) error {
	if stdout == nil {
		stdout = os.Stdout
	}
	if version == "" {
		version = constants.DefaultVersion
	}

	opts := &Options{
		ConfigPath: constants.DefaultConfigFile,
		Version:    version,
	}

	rootCmd := newRootCommand(opts)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)

	return rootCmd.ExecuteContext(ctx)
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portfolio-optimizer",
		Short:         "Pick the project portfolio with the highest gain within a budget",
		Long:          "portfolio-optimizer solves 0/1 project selection problems, either over HTTP (serve) or for a problem file (solve).",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCommand(opts),
		newSolveCommand(opts),
		newVersionCommand(opts),
	)

	return cmd
}

// setup loads the configuration and builds the logger for a command.
func (o *Options) setup() (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadConfiguration(o.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", o.ConfigPath, err)
	}

	logger, err := logging.New(conf.Logging, o.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return conf, logger, nil
}
