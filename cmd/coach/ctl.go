package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Thibisault/Intimacy-Coach/internal/config"
	"github.com/Thibisault/Intimacy-Coach/internal/remote"
	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

var ctlCommands = []string{
	remote.CmdStatus, remote.CmdStart, remote.CmdPause, remote.CmdResume,
	remote.CmdSkip, remote.CmdPrev, remote.CmdNext, remote.CmdStop, "watch",
}

var ctlCmd = &cobra.Command{
	Use:       "ctl <status|start|pause|resume|skip|prev|next|stop|watch>",
	Short:     "Control a running player over its socket",
	Args:      cobra.ExactArgs(1),
	ValidArgs: ctlCommands,
	RunE:      runCtl,
}

var ctlEvents []string

func init() {
	ctlCmd.Flags().StringSliceVar(&ctlEvents, "events", nil, "Events to watch (tick, action, segment, state); all by default")
	rootCmd.AddCommand(ctlCmd)
}

// ctlIntents are the ctl verbs that map to navigation intents.
var ctlIntents = map[string]session.Intent{
	remote.CmdSkip: session.SkipAction,
	remote.CmdPrev: session.PrevAction,
	remote.CmdNext: session.NextSegment,
	remote.CmdStop: session.StopSession,
}

func runCtl(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !slices.Contains(ctlCommands, name) {
		return fmt.Errorf("unknown command %q", name)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := remote.Dial(ctx, cfg.Remote.Socket)
	if err != nil {
		return fmt.Errorf("player not reachable on %s: %w", cfg.Remote.Socket, err)
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	if name == "watch" {
		enc := json.NewEncoder(out)
		return client.Watch(ctx, func(ev remote.Event) error { return enc.Encode(ev) }, ctlEvents...)
	}

	var st remote.Status
	switch {
	case name == remote.CmdStatus:
		st, err = client.Status(ctx)
	case ctlIntents[name] != session.NoIntent:
		st, err = client.Signal(ctx, ctlIntents[name])
	default:
		st, err = client.Do(ctx, name)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, describe(st))
	return nil
}

func describe(st remote.Status) string {
	s := st.State.String()
	if !st.Active {
		return s
	}
	s += fmt.Sprintf("  %s #%d  %ds", st.Segment, st.ActionIndex+1, st.Remaining)
	if st.Text != "" {
		s += "  " + st.Text
	}
	return s
}
