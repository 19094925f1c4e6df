// Package cmd provides the commands of the carprice CLI.
package cmd

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carprice-workers/internal/common/config"
	"carprice-workers/internal/common/database"
	"carprice-workers/internal/common/errors"
	"carprice-workers/internal/common/logger"
	"carprice-workers/internal/estimator"
	"carprice-workers/internal/estimator/artifacts"
)

// rootOptions is shared by every subcommand.
type rootOptions struct {
	cfgFile      string
	artifactsDir string
	verbose      bool

	cfg *config.Config
	log logger.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "carprice",
		Short: "Estimate used car prices from a trained model bundle",
		Long: `carprice runs the price estimator outside the workflow engine.

It loads the same artifact bundle and configuration as the workers, so it can
be used to check a bundle before deploying it.

Examples:
  carprice estimate --brand Toyota --model Corolla --year 2013 --mileage 100000
  carprice catalog Toyota
  carprice artifacts verify --artifacts-dir ./artifacts
  carprice registry validate`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&opts.artifactsDir, "artifacts-dir", "", "artifact bundle directory, overrides artifacts.dir")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newEstimateCmd(opts))
	rootCmd.AddCommand(newCatalogCmd(opts))
	rootCmd.AddCommand(newArtifactsCmd(opts))
	rootCmd.AddCommand(newRegistryCmd(opts))
	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) init() error {
	if o.cfgFile != "" {
		cfg, err := config.LoadFromFile(o.cfgFile)
		if err != nil {
			return err
		}
		o.cfg = cfg
	} else {
		o.cfg = config.Defaults()
	}

	if o.artifactsDir != "" {
		o.cfg.Artifacts.Dir = o.artifactsDir
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	zapLog, err := logger.NewFromConfig(config.LoggingConfig{Level: level, Format: "console", Output: "stderr"}, "")
	if err != nil {
		zapLog = zap.NewNop()
	}
	o.log = logger.NewZapAdapter(zapLog)
	return nil
}

// loadArtifacts reads the configured bundle. The Postgres connection, when the
// catalog needs one, is closed once the catalog is in memory.
func (o *rootOptions) loadArtifacts(ctx context.Context) (*artifacts.Artifacts, error) {
	if o.cfg.Artifacts.CatalogSource != config.CatalogSourcePostgres {
		return estimator.LoadFromConfig(ctx, o.cfg.Artifacts, nil)
	}

	pg, err := database.NewPostgres(ctx, o.cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	defer pg.Close()
	return estimator.LoadFromConfig(ctx, o.cfg.Artifacts, pg.GetDB())
}

// userError keeps the detail of a worker error, which Error() leaves out.
func userError(err error) error {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) && stdErr.Details != "" {
		return fmt.Errorf("%s: %s", stdErr.Message, stdErr.Details)
	}
	return err
}
