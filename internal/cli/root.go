// Package cli implements the fanoutctl command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fanout/internal/app"
	"github.com/kailas-cloud/fanout/internal/config"
	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
	logpkg "github.com/kailas-cloud/fanout/internal/logger"
	healthuc "github.com/kailas-cloud/fanout/internal/usecase/health"
)

type batchGetter interface {
	Get(ctx context.Context, keys []string, concurrency int) (dombatch.Result, error)
}

type healthReporter interface {
	Check(ctx context.Context) healthuc.Report
}

// services is what commands run against.
type services struct {
	batch  batchGetter
	health healthReporter
	logger *zap.Logger
	close  func()
}

type globalOptions struct {
	env        string
	configPath string
	logLevel   string
}

// opener connects to the configured store.
type opener func(ctx context.Context, opts globalOptions) (services, error)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := newRootCmd(openApp)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:          "fanoutctl",
		Short:        "Batch point lookups against the configured key-value store",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "Config environment (config/<env>.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "f", "", "Explicit config file path (overrides --env)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")

	cmd.AddCommand(
		getCmd(open, &opts),
		healthCmd(open, &opts),
		versionCmd(),
	)
	return cmd
}

func openApp(ctx context.Context, opts globalOptions) (services, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load(opts.env)
	}
	if err != nil {
		return services{}, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(opts.env, opts.logLevel)
	if err != nil {
		return services{}, fmt.Errorf("create logger: %w", err)
	}

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return services{}, fmt.Errorf("connect: %w", err)
	}

	return services{
		batch:  a.Batch,
		health: a.Health,
		logger: logger,
		close: func() {
			a.Close()
			_ = logger.Sync()
		},
	}, nil
}
