package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"article-etl/pkg/collect"
	"article-etl/pkg/config"
	"article-etl/pkg/extract"
	"article-etl/pkg/load"
	"article-etl/pkg/logging"
	"article-etl/pkg/pipeline"
	"article-etl/pkg/storage"
	"article-etl/pkg/transform"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the dependencies every subcommand needs. Configuration is
// loaded once and passed explicitly from here down.
type app struct {
	cfg   *config.Config
	store storage.ObjectStore
	log   *zap.SugaredLogger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg.Summary(log)

	store, err := storage.NewMinioStore(cfg)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, store: store, log: log}, nil
}

// stages returns the full pipeline in execution order.
func (a *app) stages() []pipeline.Stage {
	return []pipeline.Stage{
		collect.NewCollector(a.cfg, a.store, a.log),
		extract.NewExtractor(a.cfg, a.store, a.log),
		transform.NewTransformer(a.cfg, a.store, a.log),
		load.NewLoader(a.cfg, a.store, a.log),
		load.NewSeeder(a.cfg, a.log),
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "article-etl",
		Short: "Staged article acquisition and normalization pipeline",
		Long: "article-etl acquires article metadata from HTML pages, RSS feeds and JSON\n" +
			"APIs, extracts content and images, normalizes the dataset, and hands each\n" +
			"stage off through object storage.",
		SilenceUsage: true,
	}

	root.AddCommand(
		stageCmd("collect", "Collect article metadata from all enabled sources", func(a *app) pipeline.Stage {
			return collect.NewCollector(a.cfg, a.store, a.log)
		}),
		stageCmd("extract", "Extract article text and harvest images", func(a *app) pipeline.Stage {
			return extract.NewExtractor(a.cfg, a.store, a.log)
		}),
		stageCmd("transform", "Normalize columns and derive features", func(a *app) pipeline.Stage {
			return transform.NewTransformer(a.cfg, a.store, a.log)
		}),
		stageCmd("load", "Publish the transformed artifact to the load bucket", func(a *app) pipeline.Stage {
			return load.NewLoader(a.cfg, a.store, a.log)
		}),
		stageCmd("seed", "Seed static reference tables into Postgres", func(a *app) pipeline.Stage {
			return load.NewSeeder(a.cfg, a.log)
		}),
		newRunCmd(),
		newScheduleCmd(),
	)

	return root
}

// stageCmd wraps one pipeline stage as a blocking subcommand.
func stageCmd(name, short string, build func(a *app) pipeline.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			runner := pipeline.NewRunner(a.log, build(a))
			return runner.Run(ctx)
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline once: collect, extract, transform, load, seed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			runner := pipeline.NewRunner(a.log, a.stages()...)
			return runner.Run(ctx)
		},
	}
}

func newScheduleCmd() *cobra.Command {
	var spec string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the full pipeline on a cron schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			runner := pipeline.NewRunner(a.log, a.stages()...)
			sched := pipeline.NewScheduler(runner, a.log)
			return sched.Start(ctx, spec)
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "@daily", "cron expression for pipeline runs")
	return cmd
}

// signalContext cancels on SIGINT/SIGTERM so a run can be interrupted
// between stages.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
