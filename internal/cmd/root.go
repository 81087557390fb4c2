// Package cmd wires the cagestat CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cagestat/internal/aggregate"
	"cagestat/internal/config"
	"cagestat/internal/pairstat"
	"cagestat/internal/records"
)

// NewRootCommand builds the cagestat root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cagestat",
		Short: "Paired Solo-vs-Cagemate behavioral comparison",
		Long: `cagestat extracts per-subject freeze and sway measurements from a raw
observation store, aggregates them per condition across days, and runs a
paired Wilcoxon signed-rank test per metric.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "cagestat.yaml", "path to config file")

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// pipelineOptions are the resolved parameters for one analysis run:
// config-file values overridden by any flags the user set.
type pipelineOptions struct {
	cfg    *config.Config
	agg    aggregate.AggFunc
	logger *zap.Logger
}

// resolveOptions loads the config file and applies flag overrides.
func resolveOptions(cmd *cobra.Command) (*pipelineOptions, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("store") {
		cfg.Store, _ = cmd.Flags().GetString("store")
	}
	if cmd.Flags().Changed("days") {
		cfg.Days, _ = cmd.Flags().GetStringSlice("days")
	}
	if cmd.Flags().Changed("agg") {
		cfg.Agg, _ = cmd.Flags().GetString("agg")
	}
	if cmd.Flags().Changed("alpha") {
		cfg.Alpha, _ = cmd.Flags().GetFloat64("alpha")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Store == "" {
		return nil, fmt.Errorf("no record store given (use --store or the config file)")
	}

	agg, err := aggregate.ParseAgg(cfg.Agg)
	if err != nil {
		return nil, err
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &pipelineOptions{cfg: cfg, agg: agg, logger: logger}, nil
}

// runPipeline loads the store, builds the dataset, and compares all four
// metrics. Degenerate-test failures come back alongside the results so
// callers can report them without aborting.
func runPipeline(opts *pipelineOptions) (*aggregate.Dataset, []pairstat.Result, []error, error) {
	store, err := records.Load(opts.cfg.Store, nil)
	if err != nil {
		return nil, nil, nil, err
	}

	builder := aggregate.NewBuilder(opts.logger)
	ds := builder.Build(store, opts.cfg.Days, opts.agg)

	comparator := pairstat.NewComparator(opts.cfg.Alpha, opts.logger)
	results, failures := comparator.CompareAll(ds)

	return ds, results, failures, nil
}

// buildLogger constructs a console zap logger at the configured level.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
