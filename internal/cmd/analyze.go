package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cagestat/internal/display"
	"cagestat/internal/history"
)

func newAnalyzeCommand() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build the paired dataset and run the signed-rank tests",
		RunE:  runAnalyze,
	}

	addPipelineFlags(analyzeCmd)
	analyzeCmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	return analyzeCmd
}

// addPipelineFlags registers the flags shared by analyze and export.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "path to the record store (YAML or JSON)")
	cmd.Flags().StringSlice("days", nil, "day labels to include (default D1..D8)")
	cmd.Flags().String("agg", "", "aggregation across days: mean, median, or sum")
	cmd.Flags().Float64("alpha", 0, "significance threshold")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	defer opts.logger.Sync()

	ds, results, failures, err := runPipeline(opts)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), display.Summary(ds, results))
	for _, failure := range failures {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", failure)
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if noHistory {
		return nil
	}

	store, err := history.NewStore(opts.cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	id, err := store.RecordRun(context.Background(), history.Run{
		StorePath: opts.cfg.Store,
		Agg:       ds.AggFun,
		Days:      ds.DaysUsed,
		Subjects:  len(ds.Rats),
		Alpha:     opts.cfg.Alpha,
		Results:   results,
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	opts.logger.Debug("run recorded", zap.String("run_id", id))
	return nil
}
