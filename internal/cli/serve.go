package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/portfolio-optimizer/internal/knapsack"
	"github.com/iwvelando/portfolio-optimizer/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newServeCommand creates the "serve" subcommand that runs the HTTP service.
func newServeCommand(opts *Options) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the optimization HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			if address != "" {
				conf.Server.Address = address
			}

			solver, err := knapsack.NewSolver(logger, conf.Solver.Limits())
			if err != nil {
				return err
			}

			logger.Info("starting service",
				zap.String("op", "cli.serve"),
				zap.String("version", opts.Version),
				zap.String("address", conf.Server.Address),
				zap.Int64("maxBodySize", conf.Server.MaxBodySizeBytes()),
				zap.Int("maxConcurrentSolves", conf.Server.MaxConcurrentSolves),
				zap.Any("limits", conf.Solver.Limits()),
			)

			handler := server.NewHandler(logger, conf.Server, solver, opts.Version)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.ListenAndRun(ctx, logger, conf.Server.Address, handler, conf.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :5000)")

	return cmd
}
