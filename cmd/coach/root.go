package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Thibisault/Intimacy-Coach/internal/app"
	"github.com/Thibisault/Intimacy-Coach/internal/i18n"
	"github.com/Thibisault/Intimacy-Coach/internal/plan"
	"github.com/Thibisault/Intimacy-Coach/internal/remote"
	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "coach",
	Short:         "Timed, narrated session player for two",
	Long:          `coach plays a sequence of timed actions grouped into intensity segments, speaks each action in French and Chinese, and lets you pause, skip, go back or jump ahead while it runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "coach.yaml", "YAML configuration file")
	rootCmd.Version = version
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the player needs a terminal; use `coach ctl` or `coach mcp` instead")
	}

	d, err := setup(true)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stream := session.NewStream(256)
	defer stream.Close()
	d.ctrl.Observe(stream)

	lang, _ := i18n.ParseLang(d.cfg.Lang)
	save := func(s plan.Settings) error {
		d.cfg.Apply(s)
		return d.cfg.Save(configPath)
	}

	g, gctx := errgroup.WithContext(ctx)
	if d.cfg.Remote.Enabled {
		srv := remote.NewServer(d.ctrl, d.log)
		d.ctrl.Observe(srv)
		g.Go(func() error {
			if err := srv.Serve(gctx, d.cfg.Remote.Socket); err != nil {
				return fmt.Errorf("remote: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		model := app.New(app.Options{
			Player:  d.ctrl,
			Events:  stream.Events(),
			Save:    save,
			Lang:    lang,
			Context: gctx,
		})
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) && errors.Is(context.Cause(gctx), context.Canceled) {
			return nil
		}
		return err
	})

	d.log.Info("player started", "version", version, "remote", d.cfg.Remote.Enabled)
	err = g.Wait()
	d.log.Info("player stopped")
	return err
}
