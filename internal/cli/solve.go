package cli

import (
	"fmt"

	"github.com/iwvelando/portfolio-optimizer/internal/api"
	"github.com/iwvelando/portfolio-optimizer/internal/knapsack"
	"github.com/iwvelando/portfolio-optimizer/internal/problem"
	"github.com/iwvelando/portfolio-optimizer/pkg/output"
	"github.com/iwvelando/portfolio-optimizer/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newSolveCommand creates the "solve" subcommand that optimizes a problem file.
func newSolveCommand(opts *Options) *cobra.Command {
	var (
		file         string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a YAML or JSON problem file and print the selected portfolio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			// CLI override takes precedence over config
			format := conf.Output.Format
			if outputFormat != "" {
				format = outputFormat
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}

			req, err := problem.Load(file)
			if err != nil {
				return err
			}

			solver, err := knapsack.NewSolver(logger, conf.Solver.Limits())
			if err != nil {
				return err
			}

			result, err := solver.Optimize(req.Capacity, req.Engine())
			if err != nil {
				return fmt.Errorf("%s: %w", api.FromEngineError(err).Message, err)
			}

			logger.Debug("problem solved",
				zap.String("op", "cli.solve"),
				zap.String("file", file),
				zap.Int("items", len(req.Items)),
				zap.String("strategy", string(result.Strategy)),
			)

			return output.Write(cmd.OutOrStdout(), format, req, api.NewResponse(result))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "problem file (YAML or JSON)")
	cmd.Flags().StringVarP(&outputFormat, "output-format", "o", "", "type of output override: pretty, csv, json, yaml")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
