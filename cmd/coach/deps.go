package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/Thibisault/Intimacy-Coach/internal/config"
	"github.com/Thibisault/Intimacy-Coach/internal/content"
	"github.com/Thibisault/Intimacy-Coach/internal/db"
	"github.com/Thibisault/Intimacy-Coach/internal/logger"
	"github.com/Thibisault/Intimacy-Coach/internal/narration"
	"github.com/Thibisault/Intimacy-Coach/internal/player"
	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

// deps is everything a subcommand may need, built from the configuration.
type deps struct {
	cfg    *config.Config
	log    *slog.Logger
	store  *db.Store
	queue  *narration.Queue
	voices session.Voices
	ctrl   *player.Controller

	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// setup loads the configuration and wires content, narration, history and
// the controller. A missing content file or history database is logged,
// not fatal; the controller reports ErrContentUnavailable when needed.
func setup(speak bool) (*deps, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, logCloser, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	d := &deps{cfg: cfg, log: log}
	d.closers = append(d.closers, logCloser)

	var resolver *content.Resolver
	data, err := content.LoadFile(cfg.Content.Path)
	if err != nil {
		log.Warn("content unavailable", "path", cfg.Content.Path, "error", err)
	} else {
		resolver = content.NewResolver(data)
		d.closers = append(d.closers, closerFunc(func() error { resolver.Close(); return nil }))
	}

	var history player.History
	store, err := db.Open(cfg.Store.Path)
	if err != nil {
		log.Warn("history unavailable", "path", cfg.Store.Path, "error", err)
	} else {
		d.store = store
		history = store
		d.closers = append(d.closers, store)
		if n, err := store.AbandonActive(time.Now()); err != nil {
			log.Warn("abandon stale sessions", "error", err)
		} else if n > 0 {
			log.Info("stale sessions abandoned", "count", n)
		}
	}

	var narrator session.Narrator = narration.Silent{}
	if speak && cfg.Narration.Enabled {
		d.queue = narration.NewQueue(narration.NewCommandSpeaker(cfg.Narration.Command, cfg.Narration.Args, log), log)
		narrator = d.queue
		d.closers = append(d.closers, closerFunc(func() error { d.queue.Close(); return nil }))
	}

	d.voices = narration.Resolve(cfg.Voices.Available, cfg.Voices.Primary, cfg.Voices.Secondary,
		parseTag(cfg.Voices.PrimaryLang, language.French), parseTag(cfg.Voices.SecondaryLang, language.Chinese))

	d.ctrl = player.New(player.Options{
		Settings: cfg.Settings(),
		Resolver: resolver,
		Narrator: narrator,
		History:  history,
		Engine: session.Config{
			Cooldown:      cfg.CooldownSec,
			BackThreshold: cfg.Player.BackThreshold,
			Voices:        d.voices,
		},
		Logger: log,
	})
	return d, nil
}

// Close stops playback and releases everything in reverse order.
func (d *deps) Close() error {
	d.ctrl.Close()
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func parseTag(v string, fallback language.Tag) language.Tag {
	t, err := language.Parse(v)
	if err != nil {
		return fallback
	}
	return t
}
