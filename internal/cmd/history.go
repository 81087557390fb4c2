package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cagestat/internal/config"
	"cagestat/internal/history"
	"cagestat/internal/pairstat"
)

func newHistoryCommand() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List past analysis runs",
		RunE:  runHistory,
	}

	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	return historyCmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := history.NewStore(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  agg=%s subjects=%d days=%s\n",
			run.CreatedAt.Format("2006-01-02 15:04"), shortID(run.ID),
			run.Agg, run.Subjects, strings.Join(run.Days, ","))
		for _, res := range run.Results {
			fmt.Fprintf(out, "    %-10s p=%-10s pairs=%d %s\n",
				res.Metric, formatHistoryP(res), res.Pairs, pairstat.Stars(res.PValue))
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatHistoryP(res pairstat.Result) string {
	if !res.Tested() {
		return "no test"
	}
	return fmt.Sprintf("%.4g", res.PValue)
}
