package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently played sessions",
	RunE:  runHistory,
}

var (
	historyLimit int
	historyDraws bool
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of rows to show")
	historyCmd.Flags().BoolVar(&historyDraws, "draws", false, "List single draws instead of sessions")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	d, err := setup(false)
	if err != nil {
		return err
	}
	defer d.Close()
	if d.store == nil {
		return errors.New("history database unavailable")
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	now := time.Now()

	if historyDraws {
		draws, err := d.store.RecentDraws(historyLimit)
		if err != nil {
			return err
		}
		for _, dr := range draws {
			fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.RelTime(dr.DrawnAt, now, "ago", "from now"), dr.Segment, dr.Text)
		}
		return w.Flush()
	}

	sessions, err := d.store.RecentSessions(historyLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet.")
		return nil
	}
	fmt.Fprintln(w, "STARTED\tSTATUS\tSEGMENTS\tACTIONS\tPLAYED\tPLANNED")
	for _, s := range sessions {
		played := "-"
		if s.EndedAt != nil {
			played = clock(int(s.Duration().Seconds()))
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\t%s\t%s\n",
			humanize.RelTime(s.StartedAt, now, "ago", "from now"),
			s.Status,
			s.SegmentsReached, s.SegmentsTotal,
			humanize.Comma(int64(s.ActionsPlayed)),
			played,
			clock(s.PlannedSeconds),
		)
	}
	return w.Flush()
}
