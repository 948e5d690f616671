package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"llmbench/internal/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var model string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded benchmark runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f := cmd.Flags(); f.Changed("db") {
				a.cfg.HistoryDB, _ = f.GetString("db")
			}
			if a.cfg.HistoryDB == "" {
				return fmt.Errorf("history requires --db or history_db in the config file")
			}
			s, err := store.Open(a.cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer s.Close()
			runs, err := s.Recent(cmd.Context(), model, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tMODEL\tTOKENS\tTOKENS/SEC\tFIRST TOKEN\tOUTCOME")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
					humanize.Time(r.CreatedAt), r.Model, humanize.Comma(int64(r.EvalCount)),
					r.TokensPerSecond, time.Duration(r.TimeToFirstTokNS).Round(time.Millisecond), r.Outcome)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("db", "", "History database path")
	cmd.Flags().StringVar(&model, "model", "", "Only show runs for this model")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows")
	return cmd
}
