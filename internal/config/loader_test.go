package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
	"github.com/Thibisault/Intimacy-Coach/internal/plan"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Participants.P1 != "Homme" || cfg.Participants.P2 != "Femme" {
		t.Errorf("unexpected participants %+v", cfg.Participants)
	}
	if len(cfg.Sequence) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(cfg.Sequence))
	}
	if cfg.Sequence[5].Segment != content.Climax || cfg.Sequence[5].Minutes != 4 {
		t.Errorf("expected SEXE/4 last, got %+v", cfg.Sequence[5])
	}
	if cfg.Sequence.Minutes() != 19 {
		t.Errorf("expected 19 minutes, got %v", cfg.Sequence.Minutes())
	}
	if r := cfg.Ranges[content.Level3]; r.Min != 20 || r.Max != 40 {
		t.Errorf("expected L3 20-40, got %+v", r)
	}
	if cfg.CooldownSec != 1 {
		t.Errorf("expected cooldown 1, got %d", cfg.CooldownSec)
	}
	if !cfg.Filters.Anal || !cfg.Filters.Hard || !cfg.Filters.Clothed {
		t.Errorf("expected all filters on, got %+v", cfg.Filters)
	}
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "coach.yaml")

	body := `
participants:
  p1: "Tom"
  p2: "Ana"
sequence:
  - segment: L2
    minutes: 5
  - segment: SEXE
    minutes: 2.5
ranges:
  L2: {min: 10, max: 12}
actor_mode: just-both
filters:
  anal: false
voices:
  available:
    - {name: Thomas, lang: fr-FR}
`
	if err := os.WriteFile(yamlPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(yamlPath)
	require.NoError(t, err)

	require.Equal(t, "Tom", cfg.Participants.P1)
	require.Equal(t, plan.Sequence{{Segment: content.Level2, Minutes: 5}, {Segment: content.Climax, Minutes: 2.5}}, cfg.Sequence)
	require.Equal(t, 150, cfg.Sequence[1].Seconds())
	require.Equal(t, plan.Range{Min: 10, Max: 12}, cfg.Ranges[content.Level2])
	// Unlisted ranges keep their defaults.
	require.Equal(t, plan.Range{Min: 30, Max: 60}, cfg.Ranges[content.Climax])
	require.Equal(t, plan.ModeJustBoth, cfg.ActorMode)
	require.False(t, cfg.Filters.Anal)
	require.True(t, cfg.Filters.Hard)
	require.Len(t, cfg.Voices.Available, 1)
	require.Equal(t, "zh-CN", cfg.Voices.SecondaryLang)
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	if err := loadYAML(&cfg, "/nonexistent/path.yaml"); err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestLoadYAMLMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sequence: [oops"), 0o644))
	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("COACH_P1", "Léo")
	t.Setenv("COACH_COOLDOWN_SEC", "0")
	t.Setenv("COACH_ACTOR_MODE", "female-male-both")
	t.Setenv("COACH_FILTER_HARD", "false")
	t.Setenv("COACH_NARRATION_ENABLED", "false")
	t.Setenv("COACH_BACK_THRESHOLD", "5")
	t.Setenv("COACH_LOG_LEVEL", "debug")
	t.Setenv("COACH_REMOTE_SOCKET", "/tmp/x.sock")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	require.Equal(t, "Léo", cfg.Participants.P1)
	require.Zero(t, cfg.CooldownSec)
	require.Equal(t, plan.ModeFemaleMaleBoth, cfg.ActorMode)
	require.False(t, cfg.Filters.Hard)
	require.False(t, cfg.Narration.Enabled)
	require.Equal(t, 5, cfg.Player.BackThreshold)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "/tmp/x.sock", cfg.Remote.Socket)
}

func TestEnvInvalidNumberIgnored(t *testing.T) {
	t.Setenv("COACH_COOLDOWN_SEC", "soon")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	require.Equal(t, 1, cfg.CooldownSec)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		is   error
	}{
		{"bad actor mode", func(c *Config) { c.ActorMode = "everyone" }, nil},
		{"negative cooldown", func(c *Config) { c.CooldownSec = -1 }, nil},
		{"bad lang", func(c *Config) { c.Lang = "de" }, nil},
		{"inverted range", func(c *Config) { c.Ranges[content.Level1] = plan.Range{Min: 30, Max: 10} }, plan.ErrInvalidRange},
		{"range below floor", func(c *Config) { c.Ranges[content.Level1] = plan.Range{Min: 2, Max: 10} }, plan.ErrInvalidRange},
		{"missing range", func(c *Config) { delete(c.Ranges, content.Level4) }, plan.ErrMissingRange},
		{"unknown segment", func(c *Config) { c.Sequence = c.Sequence.Add("L9", 1) }, nil},
		{"zero minutes", func(c *Config) { c.Sequence[0].Minutes = 0 }, nil},
		{"zero back threshold", func(c *Config) { c.Player.BackThreshold = 0 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.edit(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "coach.yaml")

	cfg := Defaults()
	cfg.Sequence = cfg.Sequence.Remove(0).SetMinutes(0, 7)
	cfg.ActorMode = plan.ModeJustFemale
	require.NoError(t, cfg.Save(path))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Sequence, got.Sequence)
	require.Equal(t, plan.ModeJustFemale, got.ActorMode)
	require.Equal(t, cfg.Ranges, got.Ranges)
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := Defaults()
	cfg.Lang = "xx"
	require.Error(t, cfg.Save(filepath.Join(t.TempDir(), "c.yaml")))
}

func TestSettingsIsACopy(t *testing.T) {
	cfg := Defaults()
	s := cfg.Settings()
	s.Ranges[content.Level1] = plan.Range{Min: 99, Max: 99}
	s.Sequence[0].Minutes = 42

	require.Equal(t, plan.Range{Min: 15, Max: 30}, cfg.Ranges[content.Level1])
	require.Equal(t, 3.0, cfg.Sequence[0].Minutes)

	cfg.Apply(s)
	require.Equal(t, 42.0, cfg.Sequence[0].Minutes)
}
