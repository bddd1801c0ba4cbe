package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
)

var drawCmd = &cobra.Command{
	Use:   "draw <segment>",
	Short: "Draw and speak one random action (segment L1-L5 or SEXE)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraw,
}

var drawQuiet bool

func init() {
	drawCmd.Flags().BoolVar(&drawQuiet, "quiet", false, "Print only, do not speak")
	rootCmd.AddCommand(drawCmd)
}

func runDraw(cmd *cobra.Command, args []string) error {
	seg, ok := content.ParseSegment(args[0])
	if !ok {
		return fmt.Errorf("unknown segment %q", args[0])
	}

	d, err := setup(!drawQuiet)
	if err != nil {
		return err
	}
	defer d.Close()

	a, ok, err := d.ctrl.Draw(seg)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no eligible action for %s with the current filters", seg)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, a.Text)
	if a.TextZH != "" {
		fmt.Fprintln(out, a.TextZH)
	}

	if d.queue != nil {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		if err := d.queue.Drain(ctx); err != nil {
			d.log.Warn("narration did not finish", "error", err)
		}
	}
	return nil
}
